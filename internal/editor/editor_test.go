package editor

import (
	"errors"
	"math"
	"testing"

	"github.com/lukasclt/Lumina/internal/timeline"
)

// newTestEngine builds a document with a video track 0 and audio track 1
// and an engine at the default 50 px/s zoom.
func newTestEngine(t *testing.T, opts ...Option) (*Engine, *timeline.Document) {
	t.Helper()
	doc := timeline.NewDocument()
	if _, err := doc.AddTrack(timeline.TrackVideo, "Main"); err != nil {
		t.Fatalf("add track: %v", err)
	}
	if _, err := doc.AddTrack(timeline.TrackAudio, "Audio"); err != nil {
		t.Fatalf("add track: %v", err)
	}
	return NewEngine(doc, opts...), doc
}

func addSeg(t *testing.T, doc *timeline.Document, trackID int, start, duration float64) *timeline.Segment {
	t.Helper()
	s, err := doc.AddSegment(timeline.NewSegment(trackID, start, duration))
	if err != nil {
		t.Fatalf("add segment: %v", err)
	}
	return s
}

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSnapTime_Playhead(t *testing.T) {
	e, _ := newTestEngine(t)

	// 10px at 50 px/s is a 0.2s radius: 5.15 is captured by playhead 5.0.
	got, snapped := e.SnapTime(5.15, 5.0, "")
	if !snapped || got != 5.0 {
		t.Errorf("SnapTime(5.15) = %v, %v, want 5.0 snapped", got, snapped)
	}

	// 5.25 is outside the radius.
	got, snapped = e.SnapTime(5.25, 5.0, "")
	if snapped || got != 5.25 {
		t.Errorf("SnapTime(5.25) = %v, %v, want unchanged", got, snapped)
	}
}

func TestSnapTime_SegmentEdges(t *testing.T) {
	e, doc := newTestEngine(t)
	s := addSeg(t, doc, 0, 2, 3) // edges at 2 and 5

	got, snapped := e.SnapTime(4.9, 100, "")
	if !snapped || got != 5.0 {
		t.Errorf("SnapTime(4.9) = %v, want segment end 5.0", got)
	}

	// The dragged segment's own edges are not candidates.
	got, snapped = e.SnapTime(4.9, 100, s.ID)
	if snapped || got != 4.9 {
		t.Errorf("SnapTime excluding own edges = %v, %v, want unchanged", got, snapped)
	}
}

func TestSnapTime_ClosestWinsPlayheadBreaksTies(t *testing.T) {
	e, doc := newTestEngine(t)
	addSeg(t, doc, 0, 2, 3) // edges at 2 and 5

	// Closest candidate wins: edge 2.0 is nearer than playhead 2.15.
	got, _ := e.SnapTime(2.05, 2.15, "")
	if got != 2.0 {
		t.Errorf("SnapTime(2.05) = %v, want nearest candidate 2.0", got)
	}

	// Exact tie: playhead is scanned first and wins.
	got, _ = e.SnapTime(2.1, 2.2, "")
	if got != 2.2 {
		t.Errorf("SnapTime tie = %v, want playhead 2.2", got)
	}
}

func TestSnapTime_Toggle(t *testing.T) {
	e, _ := newTestEngine(t, WithSnapping(false))

	if got, snapped := e.SnapTime(5.15, 5.0, ""); snapped || got != 5.15 {
		t.Errorf("disabled snapping altered the time: %v", got)
	}

	e.SetSnapping(true)
	if got, _ := e.SnapTime(5.15, 5.0, ""); got != 5.0 {
		t.Errorf("re-enabled snapping should capture: %v", got)
	}
}

func TestBeginDrag_Guards(t *testing.T) {
	e, doc := newTestEngine(t)
	s := addSeg(t, doc, 0, 0, 2)

	if err := e.BeginDrag(GestureMode("spin"), s.ID, 0, 0); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
	if err := e.BeginDrag(ModeMove, "missing", 0, 0); !errors.Is(err, timeline.ErrSegmentNotFound) {
		t.Errorf("expected ErrSegmentNotFound, got %v", err)
	}

	locked := true
	_, _ = doc.UpdateSegment(s.ID, timeline.SegmentPatch{Locked: &locked})
	if err := e.BeginDrag(ModeMove, s.ID, 0, 0); !errors.Is(err, timeline.ErrSegmentLocked) {
		t.Errorf("locked segment must be refused before any model call, got %v", err)
	}

	unlocked := false
	_, _ = doc.UpdateSegment(s.ID, timeline.SegmentPatch{Locked: &unlocked})
	_, _ = doc.UpdateTrack(0, timeline.TrackPatch{Locked: &locked})
	if err := e.BeginDrag(ModeMove, s.ID, 0, 0); !errors.Is(err, timeline.ErrTrackLocked) {
		t.Errorf("locked track must be refused before any model call, got %v", err)
	}

	if _, ok := e.Dragging(); ok {
		t.Error("refused gestures must leave the engine idle")
	}
}

func TestBeginDrag_OneGestureAtATime(t *testing.T) {
	e, doc := newTestEngine(t)
	s := addSeg(t, doc, 0, 0, 2)

	if err := e.BeginDrag(ModeMove, s.ID, 100, 0); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if err := e.BeginDrag(ModeMove, s.ID, 100, 0); !errors.Is(err, ErrGestureActive) {
		t.Errorf("expected ErrGestureActive, got %v", err)
	}
	if _, err := e.EndDrag(); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if _, err := e.EndDrag(); !errors.Is(err, ErrNoGesture) {
		t.Errorf("expected ErrNoGesture, got %v", err)
	}
}

func TestUpdateDrag_MoveFromOrigin(t *testing.T) {
	e, doc := newTestEngine(t, WithSnapping(false))
	s := addSeg(t, doc, 0, 1, 2)

	if err := e.BeginDrag(ModeMove, s.ID, 200, 10); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	// +100px at 50 px/s is +2s.
	got, err := e.UpdateDrag(300, 10, 0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !almost(got.Start, 3) {
		t.Errorf("start = %v, want 3", got.Start)
	}

	// Dragging back is recomputed from the origin, not the last frame.
	got, _ = e.UpdateDrag(250, 10, 0)
	if !almost(got.Start, 2) {
		t.Errorf("start = %v, want 2", got.Start)
	}

	// Repeating the same pointer position is idempotent.
	again, _ := e.UpdateDrag(250, 10, 0)
	if !almost(again.Start, got.Start) {
		t.Errorf("idempotent update drifted: %v then %v", got.Start, again.Start)
	}

	final, err := e.EndDrag()
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if !almost(final.Start, 2) {
		t.Errorf("final start = %v, want 2", final.Start)
	}
}

func TestUpdateDrag_RequiresGesture(t *testing.T) {
	e, _ := newTestEngine(t)
	if _, err := e.UpdateDrag(0, 0, 0); !errors.Is(err, ErrNoGesture) {
		t.Errorf("expected ErrNoGesture, got %v", err)
	}
}

func TestUpdateDrag_OverlapIsObservableNoOp(t *testing.T) {
	e, doc := newTestEngine(t, WithSnapping(false))
	a := addSeg(t, doc, 0, 0, 2)
	addSeg(t, doc, 0, 5, 2)

	_ = e.BeginDrag(ModeMove, a.ID, 0, 0)

	// +275px lands at 5.5, inside the neighbor: refused, A stays put.
	if _, err := e.UpdateDrag(275, 0, 0); !errors.Is(err, timeline.ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
	cur, _ := doc.Segment(a.ID)
	if !almost(cur.Start, 0) {
		t.Errorf("refused placement moved the segment to %v", cur.Start)
	}

	// The next pointer event recovers on its own.
	got, err := e.UpdateDrag(100, 0, 0)
	if err != nil {
		t.Fatalf("recovery update failed: %v", err)
	}
	if !almost(got.Start, 2) {
		t.Errorf("start = %v, want 2", got.Start)
	}
}

func TestUpdateDrag_TrackSwitch(t *testing.T) {
	e, doc := newTestEngine(t, WithSnapping(false))
	s := addSeg(t, doc, 0, 0, 2)

	_ = e.BeginDrag(ModeMove, s.ID, 0, 0)

	// One row down (64px) from video track 0 is audio track 1.
	got, err := e.UpdateDrag(0, 64, 0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.TrackID != 1 {
		t.Errorf("trackId = %d, want 1", got.TrackID)
	}

	// Two rows down leaves the track list: constrained to the origin track.
	got, err = e.UpdateDrag(0, 128, 0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got.TrackID != 0 {
		t.Errorf("out-of-range row should constrain to origin track, got %d", got.TrackID)
	}

	// Less than half a row does not switch.
	got, _ = e.UpdateDrag(0, 20, 0)
	if got.TrackID != 0 {
		t.Errorf("20px should stay on the origin track, got %d", got.TrackID)
	}
}

func TestUpdateDrag_ResizeLeft(t *testing.T) {
	e, doc := newTestEngine(t, WithSnapping(false))
	s, _ := doc.AddSegment(&timeline.Segment{TrackID: 0, Start: 2, Duration: 4, SourceOffset: 3, Opacity: 1})

	_ = e.BeginDrag(ModeResizeLeft, s.ID, 0, 0)

	// +50px trims one second off the left edge.
	got, err := e.UpdateDrag(50, 0, 0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !almost(got.Start, 3) || !almost(got.Duration, 3) || !almost(got.SourceOffset, 4) {
		t.Errorf("left trim = (%v, %v, %v), want (3, 3, 4)", got.Start, got.Duration, got.SourceOffset)
	}
	if !almost(got.End(), 6) {
		t.Errorf("right edge moved during left trim: %v", got.End())
	}
}

func TestUpdateDrag_ResizeRight(t *testing.T) {
	e, doc := newTestEngine(t, WithSnapping(false))
	s, _ := doc.AddSegment(&timeline.Segment{TrackID: 0, Start: 2, Duration: 4, SourceOffset: 3, Opacity: 1})

	_ = e.BeginDrag(ModeResizeRight, s.ID, 0, 0)

	got, err := e.UpdateDrag(-50, 0, 0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !almost(got.Duration, 3) {
		t.Errorf("duration = %v, want 3", got.Duration)
	}
	if !almost(got.SourceOffset, 3) {
		t.Errorf("right trim must not touch sourceOffset, got %v", got.SourceOffset)
	}
	if !almost(got.Start, 2) {
		t.Errorf("left edge moved during right trim: %v", got.Start)
	}
}

func TestUpdateDrag_MoveSnapsToPlayhead(t *testing.T) {
	e, doc := newTestEngine(t)
	s := addSeg(t, doc, 0, 0, 2)

	_ = e.BeginDrag(ModeMove, s.ID, 0, 0)

	// Raw target 5.15 (+257.5px at 50 px/s), playhead at 5.0: snapped.
	got, err := e.UpdateDrag(257.5, 0, 5.0)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !almost(got.Start, 5.0) {
		t.Errorf("start = %v, want snapped 5.0", got.Start)
	}
}

func TestRazorClick(t *testing.T) {
	e, doc := newTestEngine(t, WithSnapping(false))
	s := addSeg(t, doc, 0, 1, 4)

	right, err := e.RazorClick(s.ID, 3, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almost(right.Start, 3) {
		t.Errorf("right part starts at %v, want 3", right.Start)
	}
	left, _ := doc.Segment(s.ID)
	if !almost(left.End(), right.Start) {
		t.Error("split halves must stay contiguous")
	}
}

func TestRazorClick_SnapsBeforeSplitting(t *testing.T) {
	e, doc := newTestEngine(t)
	s := addSeg(t, doc, 0, 1, 4)

	// Click at 3.1 with the playhead at 3.0: the cut lands on the playhead.
	right, err := e.RazorClick(s.ID, 3.1, 3.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almost(right.Start, 3.0) {
		t.Errorf("cut at %v, want snapped 3.0", right.Start)
	}
}

func TestRazorClick_NoOps(t *testing.T) {
	e, doc := newTestEngine(t, WithSnapping(false))
	s := addSeg(t, doc, 0, 1, 4)

	if _, err := e.RazorClick(s.ID, 0.5, 0); !errors.Is(err, timeline.ErrSplitOutsideSegment) {
		t.Errorf("expected ErrSplitOutsideSegment, got %v", err)
	}
	if _, err := e.RazorClick(s.ID, 1.0, 0); !errors.Is(err, timeline.ErrSplitOutsideSegment) {
		t.Errorf("edge click must not split, got %v", err)
	}
	if got := doc.AllSegments(); len(got) != 1 {
		t.Errorf("refused razor created segments: %d", len(got))
	}

	locked := true
	_, _ = doc.UpdateSegment(s.ID, timeline.SegmentPatch{Locked: &locked})
	if _, err := e.RazorClick(s.ID, 3, 0); !errors.Is(err, timeline.ErrSegmentLocked) {
		t.Errorf("expected ErrSegmentLocked, got %v", err)
	}
}
