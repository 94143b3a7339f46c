// Package timeline provides the authoritative document model for the
// editor: tracks, segments, and the primitive mutation operations the
// interaction layer and the agent tools are built on.
//
// The document is a single logical actor. Every public mutation locks the
// document and is applied atomically; there is no partial state to observe.
// The model knows nothing about pixels, pointer events, or drag state.
package timeline

import "sort"

// TrackType classifies what a track carries.
type TrackType string

// Supported track types.
const (
	TrackVideo TrackType = "video"
	TrackAudio TrackType = "audio"
)

// Valid reports whether the track type is supported.
func (t TrackType) Valid() bool {
	return t == TrackVideo || t == TrackAudio
}

// Track is a horizontal lane of the timeline. Track 0 conventionally holds
// the main video; overlay tracks use higher ids. The model does not enforce
// segment/track type compatibility, that is a UI convention.
type Track struct {
	// ID is the stable integer identity, unique within the document.
	ID int `json:"id"`
	// Type is the track kind, video or audio.
	Type TrackType `json:"type"`
	// Label is the display name.
	Label string `json:"label"`
	// Locked rejects every mutation of the track and its segments.
	Locked bool `json:"isLocked"`
	// Hidden excludes the track from rendering without blocking edits.
	Hidden bool `json:"isHidden"`
	// Muted silences the track's audio without blocking edits.
	Muted bool `json:"isMuted"`
}

// TrackPatch carries a partial track update. Nil fields are left untouched.
type TrackPatch struct {
	Label  *string `json:"label,omitempty"`
	Locked *bool   `json:"isLocked,omitempty"`
	Hidden *bool   `json:"isHidden,omitempty"`
	Muted  *bool   `json:"isMuted,omitempty"`
}

// orderTracks sorts tracks into display order: video tracks first by
// descending id (overlays stack above the main video), then audio tracks by
// ascending id.
func orderTracks(tracks []Track) {
	sort.SliceStable(tracks, func(i, j int) bool {
		a, b := tracks[i], tracks[j]
		if a.Type != b.Type {
			return a.Type == TrackVideo
		}
		if a.Type == TrackVideo {
			return a.ID > b.ID
		}
		return a.ID < b.ID
	})
}
