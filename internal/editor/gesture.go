package editor

import (
	"errors"
	"math"

	"github.com/lukasclt/Lumina/internal/timeline"
)

// GestureMode selects what a drag does, chosen by the grab zone at
// mouse-down: segment body, left edge handle, or right edge handle.
type GestureMode string

// Drag modes.
const (
	ModeMove        GestureMode = "move"
	ModeResizeLeft  GestureMode = "resizeLeft"
	ModeResizeRight GestureMode = "resizeRight"
)

// Valid reports whether the mode is a known drag mode.
func (m GestureMode) Valid() bool {
	return m == ModeMove || m == ModeResizeLeft || m == ModeResizeRight
}

// Gesture is the state captured at mouse-down and held for the whole
// drag. Every pointer update is computed against this origin, never
// against the previous frame.
type Gesture struct {
	// Mode is the drag mode.
	Mode GestureMode `json:"mode"`
	// SegmentID is the dragged segment.
	SegmentID string `json:"segmentId"`
	// Origin is a snapshot of the segment at mouse-down.
	Origin timeline.Segment `json:"origin"`
	// PointerX and PointerY are the pointer position at mouse-down, px.
	PointerX float64 `json:"pointerX"`
	PointerY float64 `json:"pointerY"`
}

// Gesture refusal reasons.
var (
	// ErrGestureActive is returned when a drag begins while another is open.
	ErrGestureActive = errors.New("editor: another gesture is active")
	// ErrNoGesture is returned when an update or end arrives while idle.
	ErrNoGesture = errors.New("editor: no active gesture")
	// ErrInvalidMode is returned for unknown drag modes.
	ErrInvalidMode = errors.New("editor: invalid gesture mode")
)

// Dragging reports whether a drag gesture is open, and its state when so.
func (e *Engine) Dragging() (Gesture, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gesture == nil {
		return Gesture{}, false
	}
	return *e.gesture, true
}

// BeginDrag opens a drag gesture on a segment. Locked segments and
// segments on locked tracks are refused here, before any model call.
// A second mouse-down while a gesture is open is refused.
func (e *Engine) BeginDrag(mode GestureMode, segmentID string, pointerX, pointerY float64) error {
	if !mode.Valid() {
		return ErrInvalidMode
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gesture != nil {
		return ErrGestureActive
	}
	seg, err := e.unlockedSegment(segmentID)
	if err != nil {
		return err
	}

	e.gesture = &Gesture{
		Mode:      mode,
		SegmentID: segmentID,
		Origin:    *seg,
		PointerX:  pointerX,
		PointerY:  pointerY,
	}
	return nil
}

// UpdateDrag recomputes the drag target for the current pointer position
// and commits it to the document. The playhead time is a snap candidate.
// Refused placements (overlap, locked target track) leave the last
// committed state in place and report the refusal.
func (e *Engine) UpdateDrag(pointerX, pointerY, playhead float64) (*timeline.Segment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.gesture
	if g == nil {
		return nil, ErrNoGesture
	}
	dt := e.pxToSeconds(pointerX - g.PointerX)

	switch g.Mode {
	case ModeMove:
		target, _ := e.snap(g.Origin.Start+dt, playhead, g.SegmentID)
		trackID := e.targetTrack(g.Origin.TrackID, pointerY-g.PointerY)
		return e.doc.MoveSegment(g.SegmentID, target, trackID)
	case ModeResizeLeft:
		target, _ := e.snap(g.Origin.Start+dt, playhead, g.SegmentID)
		return e.doc.ResizeSegmentLeft(g.SegmentID, target)
	case ModeResizeRight:
		end, _ := e.snap(g.Origin.End()+dt, playhead, g.SegmentID)
		return e.doc.ResizeSegmentRight(g.SegmentID, end-g.Origin.Start)
	default:
		return nil, ErrInvalidMode
	}
}

// EndDrag closes the gesture and returns the segment's final state. There
// is no commit step: every intermediate position was already committed.
func (e *Engine) EndDrag() (*timeline.Segment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.gesture
	if g == nil {
		return nil, ErrNoGesture
	}
	e.gesture = nil

	if seg, ok := e.doc.Segment(g.SegmentID); ok {
		return seg, nil
	}
	return nil, timeline.ErrSegmentNotFound
}

// RazorClick splits a segment at a click time, snapped like any other
// candidate time. Clicks outside the segment's span, on locked segments,
// or on locked tracks are observable no-ops. The new right part is
// returned.
func (e *Engine) RazorClick(segmentID string, clickTime, playhead float64) (*timeline.Segment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.unlockedSegment(segmentID); err != nil {
		return nil, err
	}
	target, _ := e.snap(clickTime, playhead, segmentID)
	return e.doc.SplitSegment(segmentID, target)
}

// unlockedSegment resolves a segment refusing locked ones and locked
// tracks, the guard every gesture runs before touching the model. Callers
// hold the engine lock.
func (e *Engine) unlockedSegment(id string) (*timeline.Segment, error) {
	seg, ok := e.doc.Segment(id)
	if !ok {
		return nil, timeline.ErrSegmentNotFound
	}
	if track, ok := e.doc.Track(seg.TrackID); ok && track.Locked {
		return nil, timeline.ErrTrackLocked
	}
	if seg.Locked {
		return nil, timeline.ErrSegmentLocked
	}
	return seg, nil
}

// targetTrack converts a vertical pixel delta into a track id using the
// display row order. A target row outside the track list constrains the
// move to the origin track. Callers hold the engine lock.
func (e *Engine) targetTrack(originTrackID int, dy float64) int {
	delta := int(math.Round(dy / e.trackHeightPx))
	if delta == 0 {
		return originTrackID
	}

	rows := e.doc.OrderedTracks()
	originRow := -1
	for i, tr := range rows {
		if tr.ID == originTrackID {
			originRow = i
			break
		}
	}
	if originRow < 0 {
		return originTrackID
	}
	targetRow := originRow + delta
	if targetRow < 0 || targetRow >= len(rows) {
		return originTrackID
	}
	return rows[targetRow].ID
}
