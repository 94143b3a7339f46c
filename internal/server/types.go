// Package server provides the HTTP surface of the editor. It includes
// handlers, middleware, routes, and DTOs separated from domain types.
// Request and response bodies use the same camelCase vocabulary as the
// document model so the browser client round-trips one shape.
package server

import (
	"time"

	"github.com/lukasclt/Lumina/internal/timeline"
)

// HealthResponse is the response for health check requests.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error response format. State carries the
// unchanged entity on refusals so the client can resync instead of
// guessing.
type ErrorResponse struct {
	// Error is the human-readable error message.
	Error string `json:"error"`
	// Code is the error code for programmatic handling.
	Code string `json:"code,omitempty"`
	// State is the current (unchanged) entity after a refused mutation.
	State any `json:"state,omitempty"`
}

// CreateProjectRequest is the request body for POST /projects.
type CreateProjectRequest struct {
	Name string `json:"name" validate:"omitempty,max=200"`
}

// ProjectSummary is one row of the project listing, without the timeline.
type ProjectSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RenameProjectRequest is the request body for PATCH /projects/{id}.
type RenameProjectRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// AddTrackRequest is the request body for POST /projects/{id}/tracks.
type AddTrackRequest struct {
	Type  string `json:"type" validate:"required,oneof=video audio"`
	Label string `json:"label" validate:"omitempty,max=200"`
}

// UpdateTrackRequest is the request body for PATCH /projects/{id}/tracks/{tid}.
// Nil fields are left untouched.
type UpdateTrackRequest struct {
	Label  *string `json:"label"`
	Locked *bool   `json:"isLocked"`
	Hidden *bool   `json:"isHidden"`
	Muted  *bool   `json:"isMuted"`
}

// RemoveTrackResponse reports what a track removal took with it.
type RemoveTrackResponse struct {
	RemovedSegments int `json:"removedSegments"`
}

// AddSegmentRequest is the request body for POST /projects/{id}/segments.
type AddSegmentRequest struct {
	TrackID      int            `json:"trackId" validate:"min=0"`
	Start        float64        `json:"start" validate:"min=0"`
	Duration     float64        `json:"duration" validate:"gt=0"`
	SourceOffset float64        `json:"sourceOffset" validate:"min=0"`
	Label        string         `json:"label" validate:"omitempty,max=200"`
	Content      string         `json:"content"`
	Style        map[string]any `json:"style"`
	Src          string         `json:"src"`
	BlendMode    string         `json:"blendMode"`
}

// ResizeAction drags one segment edge to an absolute time.
type ResizeAction struct {
	Edge string  `json:"edge" validate:"required,oneof=left right"`
	To   float64 `json:"to" validate:"min=0"`
}

// UpdateSegmentRequest is the request body for PATCH
// /projects/{id}/segments/{sid}. It carries exactly one action: a move
// (start, optionally trackId), a resize, or a base-field patch.
type UpdateSegmentRequest struct {
	// Move action.
	Start   *float64 `json:"start" validate:"omitempty,min=0"`
	TrackID *int     `json:"trackId" validate:"omitempty,min=0"`

	// Resize action.
	Resize *ResizeAction `json:"resize"`

	// Base-field patch action.
	Label        *string             `json:"label"`
	Content      *string             `json:"content"`
	Style        *map[string]any     `json:"style"`
	Src          *string             `json:"src"`
	Transform    *timeline.Transform `json:"transform"`
	Opacity      *float64            `json:"opacity" validate:"omitempty,min=0,max=1"`
	BlendMode    *string             `json:"blendMode"`
	Effects      *[]timeline.Effect  `json:"effects"`
	TextProgress *float64            `json:"textProgress" validate:"omitempty,min=0,max=100"`
	Active       *bool               `json:"isActive"`
	Locked       *bool               `json:"isLocked"`
}

// move reports whether the request is a move action.
func (r *UpdateSegmentRequest) move() bool {
	return r.Start != nil || r.TrackID != nil
}

// patch reports whether the request touches base fields.
func (r *UpdateSegmentRequest) patch() bool {
	return r.Label != nil || r.Content != nil || r.Style != nil || r.Src != nil ||
		r.Transform != nil || r.Opacity != nil || r.BlendMode != nil ||
		r.Effects != nil || r.TextProgress != nil || r.Active != nil || r.Locked != nil
}

// segmentPatch converts the base-field action into a model patch.
func (r *UpdateSegmentRequest) segmentPatch() timeline.SegmentPatch {
	return timeline.SegmentPatch{
		Label:        r.Label,
		Content:      r.Content,
		Style:        r.Style,
		Src:          r.Src,
		Transform:    r.Transform,
		Opacity:      r.Opacity,
		BlendMode:    r.BlendMode,
		Effects:      r.Effects,
		TextProgress: r.TextProgress,
		Active:       r.Active,
		Locked:       r.Locked,
	}
}

// SplitSegmentRequest is the request body for POST
// /projects/{id}/segments/{sid}/split. Snapping runs the razor-tool path:
// the cut time is pulled onto the playhead or a nearby segment edge when
// one is within the snap threshold at the given zoom.
type SplitSegmentRequest struct {
	AtTime   float64 `json:"atTime" validate:"gt=0"`
	Snap     bool    `json:"snap"`
	Playhead float64 `json:"playhead" validate:"min=0"`
	Zoom     float64 `json:"zoom" validate:"omitempty,gt=0"`
}

// DuplicateSegmentRequest is the request body for POST
// /projects/{id}/segments/{sid}/duplicate.
type DuplicateSegmentRequest struct {
	NewStart float64 `json:"newStart" validate:"min=0"`
	TrackID  *int    `json:"trackId" validate:"omitempty,min=0"`
}

// SetKeyframeRequest is the request body for PUT
// /projects/{id}/segments/{sid}/keyframes. Time is local to the segment.
type SetKeyframeRequest struct {
	Property string  `json:"property" validate:"required"`
	Time     float64 `json:"time" validate:"min=0"`
	Value    float64 `json:"value"`
	Easing   string  `json:"easing" validate:"omitempty,oneof=linear easeIn easeOut bezier step"`
}

// AnimationRequest is the request body for POST
// /projects/{id}/segments/{sid}/animation. Either a motion preset is
// applied, or animation for one property is toggled at the playhead.
type AnimationRequest struct {
	Preset   string  `json:"preset"`
	Property string  `json:"property"`
	Enabled  *bool   `json:"enabled"`
	Playhead float64 `json:"playhead" validate:"min=0"`
}

// AutoCutRequest is the request body for POST /projects/{id}/autocut.
// Preview analyzes without touching the timeline.
type AutoCutRequest struct {
	AssetID    string   `json:"assetId" validate:"required"`
	TrackID    int      `json:"trackId" validate:"min=0"`
	Intensity  string   `json:"intensity" validate:"omitempty,oneof=low medium high"`
	Threshold  *float64 `json:"threshold" validate:"omitempty,min=0"`
	MinSilence *float64 `json:"minSilence" validate:"omitempty,gt=0"`
	Preview    bool     `json:"preview"`
}

// StateResponse is the sampled render state at one playhead time.
type StateResponse struct {
	Time    float64                  `json:"time"`
	Samples []timeline.SegmentSample `json:"samples"`
}

// UploadAssetResponse is the response body for POST /assets.
type UploadAssetResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url,omitempty"`
	// Duration is the probed media length in seconds, zero when the
	// upload is not probeable media.
	Duration float64 `json:"duration,omitempty"`
}
