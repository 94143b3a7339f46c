package server

import (
	"net/http"
	"strconv"

	"github.com/lukasclt/Lumina/internal/animation"
	"github.com/lukasclt/Lumina/internal/curve"
	"github.com/lukasclt/Lumina/internal/editor"
	"github.com/lukasclt/Lumina/internal/project"
	"github.com/lukasclt/Lumina/internal/timeline"
)

// AddSegment handles POST /projects/{id}/segments requests.
func (h *Handlers) AddSegment(w http.ResponseWriter, r *http.Request) {
	var req AddSegmentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	seg := timeline.NewSegment(req.TrackID, req.Start, req.Duration)
	seg.SourceOffset = req.SourceOffset
	seg.Label = req.Label
	seg.Content = req.Content
	seg.Style = req.Style
	seg.Src = req.Src
	seg.BlendMode = req.BlendMode

	var placed *timeline.Segment
	_, err := h.projects.Update(r.Context(), r.PathValue("id"), func(p *project.Project) error {
		var err error
		placed, err = p.Timeline.AddSegment(seg)
		return err
	})
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, placed)
}

// UpdateSegment handles PATCH /projects/{id}/segments/{sid} requests. The
// body carries exactly one action: a move, a resize, or a base-field patch.
func (h *Handlers) UpdateSegment(w http.ResponseWriter, r *http.Request) {
	projectID, segmentID := r.PathValue("id"), r.PathValue("sid")

	var req UpdateSegmentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	actions := 0
	for _, active := range []bool{req.move(), req.Resize != nil, req.patch()} {
		if active {
			actions++
		}
	}
	if actions != 1 {
		writeError(w, http.StatusBadRequest, "request must carry exactly one of: move (start/trackId), resize, or a field patch", "VALIDATION_ERROR")
		return
	}

	var updated *timeline.Segment
	_, err := h.projects.Update(r.Context(), projectID, func(p *project.Project) error {
		var err error
		switch {
		case req.move():
			updated, err = h.applyMove(p.Timeline, segmentID, req)
		case req.Resize != nil:
			updated, err = h.applyResize(p.Timeline, segmentID, *req.Resize)
		default:
			updated, err = p.Timeline.UpdateSegment(segmentID, req.segmentPatch())
		}
		return err
	})
	if err != nil {
		h.respondDomainError(w, err, h.currentSegment(r.Context(), projectID, segmentID))
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// applyMove executes a move action, defaulting start and track to the
// segment's current placement when omitted.
func (h *Handlers) applyMove(doc *timeline.Document, segmentID string, req UpdateSegmentRequest) (*timeline.Segment, error) {
	current, ok := doc.Segment(segmentID)
	if !ok {
		return nil, timeline.ErrSegmentNotFound
	}

	start := current.Start
	if req.Start != nil {
		start = *req.Start
	}
	trackID := current.TrackID
	if req.TrackID != nil {
		trackID = *req.TrackID
	}
	return doc.MoveSegment(segmentID, start, trackID)
}

// applyResize executes a resize action. The right edge's absolute target
// time converts to a duration against the segment's current start.
func (h *Handlers) applyResize(doc *timeline.Document, segmentID string, action ResizeAction) (*timeline.Segment, error) {
	if action.Edge == "left" {
		return doc.ResizeSegmentLeft(segmentID, action.To)
	}
	current, ok := doc.Segment(segmentID)
	if !ok {
		return nil, timeline.ErrSegmentNotFound
	}
	return doc.ResizeSegmentRight(segmentID, action.To-current.Start)
}

// SplitSegment handles POST /projects/{id}/segments/{sid}/split requests.
func (h *Handlers) SplitSegment(w http.ResponseWriter, r *http.Request) {
	projectID, segmentID := r.PathValue("id"), r.PathValue("sid")

	var req SplitSegmentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	var right *timeline.Segment
	_, err := h.projects.Update(r.Context(), projectID, func(p *project.Project) error {
		var err error
		if req.Snap {
			opts := []editor.Option{}
			if req.Zoom > 0 {
				opts = append(opts, editor.WithZoom(req.Zoom))
			}
			right, err = editor.NewEngine(p.Timeline, opts...).RazorClick(segmentID, req.AtTime, req.Playhead)
			return err
		}
		right, err = p.Timeline.SplitSegment(segmentID, req.AtTime)
		return err
	})
	if err != nil {
		h.respondDomainError(w, err, h.currentSegment(r.Context(), projectID, segmentID))
		return
	}

	writeJSON(w, http.StatusCreated, right)
}

// DuplicateSegment handles POST /projects/{id}/segments/{sid}/duplicate requests.
func (h *Handlers) DuplicateSegment(w http.ResponseWriter, r *http.Request) {
	projectID, segmentID := r.PathValue("id"), r.PathValue("sid")

	var req DuplicateSegmentRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	var dup *timeline.Segment
	_, err := h.projects.Update(r.Context(), projectID, func(p *project.Project) error {
		trackID := 0
		if req.TrackID != nil {
			trackID = *req.TrackID
		} else {
			current, ok := p.Timeline.Segment(segmentID)
			if !ok {
				return timeline.ErrSegmentNotFound
			}
			trackID = current.TrackID
		}

		var err error
		dup, err = p.Timeline.DuplicateSegment(segmentID, req.NewStart, trackID)
		return err
	})
	if err != nil {
		h.respondDomainError(w, err, h.currentSegment(r.Context(), projectID, segmentID))
		return
	}

	writeJSON(w, http.StatusCreated, dup)
}

// DeleteSegment handles DELETE /projects/{id}/segments/{sid} requests.
func (h *Handlers) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	projectID, segmentID := r.PathValue("id"), r.PathValue("sid")

	var removed bool
	_, err := h.projects.Update(r.Context(), projectID, func(p *project.Project) error {
		var err error
		removed, err = p.Timeline.RemoveSegment(segmentID)
		return err
	})
	if err != nil {
		h.respondDomainError(w, err, h.currentSegment(r.Context(), projectID, segmentID))
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "segment not found", "SEGMENT_NOT_FOUND")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetKeyframe handles PUT /projects/{id}/segments/{sid}/keyframes requests.
func (h *Handlers) SetKeyframe(w http.ResponseWriter, r *http.Request) {
	projectID, segmentID := r.PathValue("id"), r.PathValue("sid")

	var req SetKeyframeRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	prop, err := animation.ParseProperty(req.Property)
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}

	var updated *timeline.Segment
	_, err = h.projects.Update(r.Context(), projectID, func(p *project.Project) error {
		var err error
		updated, err = p.Timeline.SetKeyframe(segmentID, animation.Keyframe{
			Property: prop,
			Time:     req.Time,
			Value:    req.Value,
			Easing:   animation.Easing(req.Easing),
		})
		return err
	})
	if err != nil {
		h.respondDomainError(w, err, h.currentSegment(r.Context(), projectID, segmentID))
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// RemoveKeyframe handles DELETE /projects/{id}/segments/{sid}/keyframes
// requests. The target keyframe is named by query parameters: property and
// time (local seconds, matched within the keyframe epsilon).
func (h *Handlers) RemoveKeyframe(w http.ResponseWriter, r *http.Request) {
	projectID, segmentID := r.PathValue("id"), r.PathValue("sid")

	prop, err := animation.ParseProperty(r.URL.Query().Get("property"))
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}
	at, err := strconv.ParseFloat(r.URL.Query().Get("time"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "time must be a number", "VALIDATION_ERROR")
		return
	}

	var removed bool
	var updated *timeline.Segment
	_, err = h.projects.Update(r.Context(), projectID, func(p *project.Project) error {
		var err error
		removed, err = p.Timeline.RemoveKeyframe(segmentID, prop, at)
		if err != nil {
			return err
		}
		updated, _ = p.Timeline.Segment(segmentID)
		return nil
	})
	if err != nil {
		h.respondDomainError(w, err, h.currentSegment(r.Context(), projectID, segmentID))
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "no keyframe at that time", "KEYFRAME_NOT_FOUND")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Animation handles POST /projects/{id}/segments/{sid}/animation requests:
// apply a motion preset, or toggle per-property animation at the playhead.
func (h *Handlers) Animation(w http.ResponseWriter, r *http.Request) {
	projectID, segmentID := r.PathValue("id"), r.PathValue("sid")

	var req AnimationRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.Preset == "" && (req.Property == "" || req.Enabled == nil) {
		writeError(w, http.StatusBadRequest, "request must carry a preset, or a property with enabled", "VALIDATION_ERROR")
		return
	}

	var updated *timeline.Segment
	_, err := h.projects.Update(r.Context(), projectID, func(p *project.Project) error {
		var err error
		if req.Preset != "" {
			updated, err = p.Timeline.ApplyMotionPreset(segmentID, animation.MotionPreset(req.Preset), req.Playhead)
			return err
		}
		prop, err := animation.ParseProperty(req.Property)
		if err != nil {
			return err
		}
		updated, err = p.Timeline.ToggleAnimation(segmentID, prop, *req.Enabled, req.Playhead)
		return err
	})
	if err != nil {
		h.respondDomainError(w, err, h.currentSegment(r.Context(), projectID, segmentID))
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// State handles GET /projects/{id}/state requests: the sampled render
// state at the playhead time given by the t query parameter.
func (h *Handlers) State(w http.ResponseWriter, r *http.Request) {
	t, ok := h.floatQuery(w, r, "t", 0)
	if !ok {
		return
	}

	p, err := h.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}

	samples := p.Timeline.SampleAt(t)
	if samples == nil {
		samples = []timeline.SegmentSample{}
	}
	writeJSON(w, http.StatusOK, StateResponse{Time: t, Samples: samples})
}

// Curves handles GET /projects/{id}/segments/{sid}/curves requests: the
// pixel-space graph of one property's keyframes, scaled by the pps and
// height query parameters.
func (h *Handlers) Curves(w http.ResponseWriter, r *http.Request) {
	prop, err := animation.ParseProperty(r.URL.Query().Get("property"))
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}
	pps, ok := h.floatQuery(w, r, "pps", 0)
	if !ok {
		return
	}
	height, ok := h.floatQuery(w, r, "height", 0)
	if !ok {
		return
	}

	p, err := h.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}
	seg, found := p.Timeline.Segment(r.PathValue("sid"))
	if !found {
		writeError(w, http.StatusNotFound, "segment not found", "SEGMENT_NOT_FOUND")
		return
	}

	path := curve.BuildPath(seg.Animations, prop, seg.Start, curve.Options{
		PixelsPerSecond: pps,
		Height:          height,
	})
	writeJSON(w, http.StatusOK, path)
}

// floatQuery parses an optional float query parameter, writing a 400 when
// the value is present but malformed.
func (h *Handlers) floatQuery(w http.ResponseWriter, r *http.Request, name string, fallback float64) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be a number", "VALIDATION_ERROR")
		return 0, false
	}
	return v, true
}
