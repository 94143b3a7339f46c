package timeline

import (
	"fmt"
	"math"
	"sync"

	"github.com/lukasclt/Lumina/internal/animation"
)

// Document is the editable timeline: the track list and every segment
// placed on it. All mutations are serialized through an internal mutex so
// each public operation is one atomic state transition, matching the
// single-actor model the editor is built around.
//
// Placement rules enforced on every write: starts are clamped to >= 0,
// durations to the MinSegmentDuration floor, source offsets to >= 0, and
// segments on one track never overlap. Moves, adds and duplicates that
// would collide are refused with ErrOverlap; resizes clamp the dragged
// edge against the neighboring segment instead.
type Document struct {
	mu sync.RWMutex

	// Tracks is the track list in creation order.
	Tracks []Track `json:"tracks"`
	// Segments is the flat segment list across all tracks.
	Segments []*Segment `json:"segments"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Clone returns a deep copy of the document, safe to read and serialize
// while the original keeps mutating.
func (d *Document) Clone() *Document {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c := &Document{
		Tracks:   append([]Track(nil), d.Tracks...),
		Segments: make([]*Segment, len(d.Segments)),
	}
	for i, s := range d.Segments {
		c.Segments[i] = s.Clone()
	}
	return c
}

// AddTrack appends a track of the given type and returns it. Track ids
// start at 0 (conventionally the main video track) and grow upward.
func (d *Document) AddTrack(trackType TrackType, label string) (Track, error) {
	if !trackType.Valid() {
		return Track{}, fmt.Errorf("%w: %q", ErrInvalidTrackType, trackType)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	id := 0
	for _, t := range d.Tracks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	track := Track{ID: id, Type: trackType, Label: label}
	d.Tracks = append(d.Tracks, track)
	return track, nil
}

// RemoveTrack deletes a track together with every segment on it, in one
// atomic step. It returns the number of segments removed with the track.
// Locked tracks are refused.
func (d *Document) RemoveTrack(id int) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.trackIndex(id)
	if idx < 0 {
		return 0, ErrTrackNotFound
	}
	if d.Tracks[idx].Locked {
		return 0, ErrTrackLocked
	}

	d.Tracks = append(d.Tracks[:idx], d.Tracks[idx+1:]...)
	kept := d.Segments[:0]
	removed := 0
	for _, s := range d.Segments {
		if s.TrackID == id {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	d.Segments = kept
	return removed, nil
}

// UpdateTrack applies a partial update to a track. A locked track accepts
// only a patch that unlocks it.
func (d *Document) UpdateTrack(id int, patch TrackPatch) (Track, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.trackIndex(id)
	if idx < 0 {
		return Track{}, ErrTrackNotFound
	}
	t := &d.Tracks[idx]
	if t.Locked && (patch.Locked == nil || *patch.Locked) {
		return Track{}, ErrTrackLocked
	}

	if patch.Label != nil {
		t.Label = *patch.Label
	}
	if patch.Locked != nil {
		t.Locked = *patch.Locked
	}
	if patch.Hidden != nil {
		t.Hidden = *patch.Hidden
	}
	if patch.Muted != nil {
		t.Muted = *patch.Muted
	}
	return *t, nil
}

// Track returns a track by id.
func (d *Document) Track(id int) (Track, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if idx := d.trackIndex(id); idx >= 0 {
		return d.Tracks[idx], true
	}
	return Track{}, false
}

// OrderedTracks returns the tracks in display order: video tracks by
// descending id stacked above audio tracks by ascending id.
func (d *Document) OrderedTracks() []Track {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := append([]Track(nil), d.Tracks...)
	orderTracks(out)
	return out
}

// AddSegment places a segment on its track. The start, duration and source
// offset are clamped to valid values; an empty or colliding id is replaced
// with a fresh one. Locked tracks and overlapping placements are refused.
func (d *Document) AddSegment(seg *Segment) (*Segment, error) {
	if seg == nil {
		return nil, ErrSegmentNotFound
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.trackIndex(seg.TrackID)
	if idx < 0 {
		return nil, ErrTrackNotFound
	}
	if d.Tracks[idx].Locked {
		return nil, ErrTrackLocked
	}

	s := seg.Clone()
	clampPlacement(s)
	if s.ID == "" || d.segmentIndex(s.ID) >= 0 {
		s.ID = newSegmentID()
	}
	if d.overlapsOnTrack(s.TrackID, s.Start, s.Duration, "") {
		return nil, ErrOverlap
	}

	d.Segments = append(d.Segments, s)
	return s.Clone(), nil
}

// RemoveSegment deletes a segment by id. Removing an absent id reports
// false without error; locked segments and tracks are refused.
func (d *Document) RemoveSegment(id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.segmentIndex(id)
	if idx < 0 {
		return false, nil
	}
	if err := d.mutableCheck(d.Segments[idx]); err != nil {
		return false, err
	}

	d.Segments = append(d.Segments[:idx], d.Segments[idx+1:]...)
	return true, nil
}

// MoveSegment repositions a segment, optionally onto another track. The
// start is clamped to >= 0. Locked source or target tracks, locked
// segments, unknown targets and colliding placements are refused, leaving
// the segment where it was.
func (d *Document) MoveSegment(id string, newStart float64, newTrackID int) (*Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.mutableSegment(id)
	if err != nil {
		return nil, err
	}
	tIdx := d.trackIndex(newTrackID)
	if tIdx < 0 {
		return nil, ErrTrackNotFound
	}
	if d.Tracks[tIdx].Locked {
		return nil, ErrTrackLocked
	}

	if newStart < 0 {
		newStart = 0
	}
	if d.overlapsOnTrack(newTrackID, newStart, s.Duration, s.ID) {
		return nil, ErrOverlap
	}

	s.Start = newStart
	s.TrackID = newTrackID
	return s.Clone(), nil
}

// ResizeSegmentLeft drags the segment's left edge to a new start time. The
// duration and source offset move together so the source material under
// the right edge stays put. The edge is clamped so the start stays >= 0,
// the source offset stays >= 0, the duration keeps the minimum floor, and
// the edge never crosses into the previous segment on the track.
func (d *Document) ResizeSegmentLeft(id string, newStart float64) (*Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.mutableSegment(id)
	if err != nil {
		return nil, err
	}

	lower := 0.0
	if sourceLimit := s.Start - s.SourceOffset; sourceLimit > lower {
		lower = sourceLimit
	}
	for _, other := range d.Segments {
		if other.ID == s.ID || other.TrackID != s.TrackID {
			continue
		}
		if other.End() <= s.Start && other.End() > lower {
			lower = other.End()
		}
	}
	upper := s.End() - MinSegmentDuration

	if newStart < lower {
		newStart = lower
	}
	if newStart > upper {
		newStart = upper
	}

	shift := newStart - s.Start
	s.Start = newStart
	s.Duration -= shift
	s.SourceOffset += shift
	return s.Clone(), nil
}

// ResizeSegmentRight drags the segment's right edge by setting a new
// duration. The source offset is untouched. The duration is clamped to the
// minimum floor and against the next segment on the track.
func (d *Document) ResizeSegmentRight(id string, newDuration float64) (*Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.mutableSegment(id)
	if err != nil {
		return nil, err
	}

	for _, other := range d.Segments {
		if other.ID == s.ID || other.TrackID != s.TrackID {
			continue
		}
		if other.Start > s.Start {
			if limit := other.Start - s.Start; limit < newDuration {
				newDuration = limit
			}
		}
	}
	if newDuration < MinSegmentDuration {
		newDuration = MinSegmentDuration
	}

	s.Duration = newDuration
	return s.Clone(), nil
}

// SplitSegment cuts a segment in two at an absolute time strictly inside
// its span. The left part keeps the original id and its duration shrinks
// to the cut; the right part gets a fresh id, starts at the cut, continues
// the source material contiguously, copies every other field, and becomes
// active. The right part is returned. Split times at or outside the
// segment's edges are refused without touching it.
func (d *Document) SplitSegment(id string, atTime float64) (*Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.mutableSegment(id)
	if err != nil {
		return nil, err
	}
	if atTime <= s.Start || atTime >= s.End() {
		return nil, ErrSplitOutsideSegment
	}

	delta := atTime - s.Start
	right := s.Clone()
	right.ID = newSegmentID()
	right.Start = atTime
	right.Duration = s.Duration - delta
	right.SourceOffset = s.SourceOffset + delta
	right.Active = true
	s.Duration = delta

	idx := d.segmentIndex(s.ID)
	d.Segments = append(d.Segments, nil)
	copy(d.Segments[idx+2:], d.Segments[idx+1:])
	d.Segments[idx+1] = right
	return right.Clone(), nil
}

// DuplicateSegment deep-copies a segment to the requested start and track
// under a fresh id. The copy is refused when the target track is missing
// or locked, or the placement collides.
func (d *Document) DuplicateSegment(id string, newStart float64, newTrackID int) (*Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.segmentIndex(id)
	if idx < 0 {
		return nil, ErrSegmentNotFound
	}
	tIdx := d.trackIndex(newTrackID)
	if tIdx < 0 {
		return nil, ErrTrackNotFound
	}
	if d.Tracks[tIdx].Locked {
		return nil, ErrTrackLocked
	}

	if newStart < 0 {
		newStart = 0
	}
	dup := d.Segments[idx].Clone()
	dup.ID = newSegmentID()
	dup.Start = newStart
	dup.TrackID = newTrackID
	dup.Active = true
	if d.overlapsOnTrack(newTrackID, newStart, dup.Duration, "") {
		return nil, ErrOverlap
	}

	d.Segments = append(d.Segments, dup)
	return dup.Clone(), nil
}

// UpdateSegment applies a partial update to a segment's base fields. A
// locked segment accepts only a patch that unlocks it.
func (d *Document) UpdateSegment(id string, patch SegmentPatch) (*Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	idx := d.segmentIndex(id)
	if idx < 0 {
		return nil, ErrSegmentNotFound
	}
	s := d.Segments[idx]
	if tIdx := d.trackIndex(s.TrackID); tIdx >= 0 && d.Tracks[tIdx].Locked {
		return nil, ErrTrackLocked
	}
	if s.Locked && !patch.lockedOnly() {
		return nil, ErrSegmentLocked
	}

	if patch.Label != nil {
		s.Label = *patch.Label
	}
	if patch.Content != nil {
		s.Content = *patch.Content
	}
	if patch.Style != nil {
		s.Style = make(map[string]any, len(*patch.Style))
		for k, v := range *patch.Style {
			s.Style[k] = v
		}
	}
	if patch.Src != nil {
		s.Src = *patch.Src
	}
	if patch.Transform != nil {
		s.Transform = *patch.Transform
	}
	if patch.Opacity != nil {
		s.Opacity = clamp01(*patch.Opacity)
	}
	if patch.BlendMode != nil {
		s.BlendMode = *patch.BlendMode
	}
	if patch.Effects != nil {
		s.Effects = append([]Effect(nil), (*patch.Effects)...)
	}
	if patch.TextProgress != nil {
		s.TextProgress = *patch.TextProgress
	}
	if patch.Active != nil {
		s.Active = *patch.Active
	}
	if patch.Locked != nil {
		s.Locked = *patch.Locked
	}
	return s.Clone(), nil
}

// Segment returns a deep copy of a segment by id.
func (d *Document) Segment(id string) (*Segment, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if idx := d.segmentIndex(id); idx >= 0 {
		return d.Segments[idx].Clone(), true
	}
	return nil, false
}

// SegmentsOnTrack returns deep copies of a track's segments in start order.
func (d *Document) SegmentsOnTrack(trackID int) []*Segment {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []*Segment
	for _, s := range d.Segments {
		if s.TrackID == trackID {
			out = append(out, s.Clone())
		}
	}
	sortSegmentsByStart(out)
	return out
}

// AllSegments returns deep copies of every segment in track, then start
// order.
func (d *Document) AllSegments() []*Segment {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*Segment, len(d.Segments))
	for i, s := range d.Segments {
		out[i] = s.Clone()
	}
	sortSegments(out)
	return out
}

// Duration returns the end time of the last segment, the total extent of
// the timeline.
func (d *Document) Duration() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()

	end := 0.0
	for _, s := range d.Segments {
		if s.End() > end {
			end = s.End()
		}
	}
	return end
}

// SetKeyframe writes a keyframe on a segment, replacing an existing
// keyframe of the same property within the time epsilon. The property must
// be a known animatable path.
func (d *Document) SetKeyframe(segmentID string, kf animation.Keyframe) (*Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.mutableSegment(segmentID)
	if err != nil {
		return nil, err
	}
	if _, ok := BaseValue(s, kf.Property); !ok {
		return nil, fmt.Errorf("%w: %q", animation.ErrUnknownProperty, kf.Property)
	}

	s.Animations = animation.Set(s.Animations, kf)
	return s.Clone(), nil
}

// RemoveKeyframe deletes the keyframe of a property within the time
// epsilon of the given local time. It reports whether one was removed.
func (d *Document) RemoveKeyframe(segmentID string, p animation.Property, localTime float64) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.mutableSegment(segmentID)
	if err != nil {
		return false, err
	}

	var removed bool
	s.Animations, removed = animation.Remove(s.Animations, p, localTime)
	return removed, nil
}

// ToggleAnimation pins a property into animated mode or clears it back to
// its static base value.
//
// Enabling captures the property's current effective value at the playhead
// and writes it as the first keyframe at the corresponding local time, so
// the rendered output does not change at the instant of toggling. Disabling
// removes every keyframe of the property.
func (d *Document) ToggleAnimation(segmentID string, p animation.Property, enabled bool, playhead float64) (*Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.mutableSegment(segmentID)
	if err != nil {
		return nil, err
	}
	if _, ok := BaseValue(s, p); !ok {
		return nil, fmt.Errorf("%w: %q", animation.ErrUnknownProperty, p)
	}

	if enabled {
		value := EvaluateProperty(s, p, playhead)
		s.Animations = animation.Set(s.Animations, animation.Keyframe{
			Property: p,
			Time:     playhead - s.Start,
			Value:    value,
			Easing:   animation.EasingLinear,
		})
	} else {
		s.Animations, _ = animation.RemoveProperty(s.Animations, p)
	}
	return s.Clone(), nil
}

// SetProperty writes a property value the way the editor does: when the
// property is animated the value lands as a keyframe at the playhead's
// local time, otherwise it updates the static base field.
func (d *Document) SetProperty(segmentID string, p animation.Property, value, playhead float64) (*Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.mutableSegment(segmentID)
	if err != nil {
		return nil, err
	}
	if _, ok := BaseValue(s, p); !ok {
		return nil, fmt.Errorf("%w: %q", animation.ErrUnknownProperty, p)
	}

	if animation.Animated(s.Animations, p) {
		s.Animations = animation.Set(s.Animations, animation.Keyframe{
			Property: p,
			Time:     playhead - s.Start,
			Value:    value,
			Easing:   animation.EasingLinear,
		})
	} else {
		SetBaseValue(s, p, value)
	}
	return s.Clone(), nil
}

// ApplyMotionPreset writes a preset's keyframe pairs onto a segment
// through the ordinary keyframe-write path, anchored at the playhead.
// A playhead before the segment anchors at the segment head.
func (d *Document) ApplyMotionPreset(segmentID string, preset animation.MotionPreset, playhead float64) (*Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.mutableSegment(segmentID)
	if err != nil {
		return nil, err
	}

	kfs, err := animation.PresetKeyframes(preset, math.Max(0, playhead-s.Start))
	if err != nil {
		return nil, err
	}
	for _, kf := range kfs {
		s.Animations = animation.Set(s.Animations, kf)
	}
	return s.Clone(), nil
}

// ReplaceTrackSegments atomically swaps a track's segments for a new
// sequence, used by auto-cut to apply an analysis result in one step. The
// segments are normalized (ids, clamps, track assignment) and must not
// overlap each other.
func (d *Document) ReplaceTrackSegments(trackID int, segments []*Segment) ([]*Segment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tIdx := d.trackIndex(trackID)
	if tIdx < 0 {
		return nil, ErrTrackNotFound
	}
	if d.Tracks[tIdx].Locked {
		return nil, ErrTrackLocked
	}

	fresh := make([]*Segment, len(segments))
	for i, seg := range segments {
		s := seg.Clone()
		s.TrackID = trackID
		clampPlacement(s)
		if s.ID == "" || d.segmentIndex(s.ID) >= 0 {
			s.ID = newSegmentID()
		}
		fresh[i] = s
	}
	sortSegmentsByStart(fresh)
	for i := 1; i < len(fresh); i++ {
		if fresh[i].Start < fresh[i-1].End() {
			return nil, ErrOverlap
		}
	}

	kept := d.Segments[:0]
	for _, s := range d.Segments {
		if s.TrackID != trackID {
			kept = append(kept, s)
		}
	}
	d.Segments = append(kept, fresh...)

	out := make([]*Segment, len(fresh))
	for i, s := range fresh {
		out[i] = s.Clone()
	}
	return out, nil
}

// mutableSegment resolves a segment for mutation, refusing locked
// segments and segments on locked tracks. Callers hold the write lock.
func (d *Document) mutableSegment(id string) (*Segment, error) {
	idx := d.segmentIndex(id)
	if idx < 0 {
		return nil, ErrSegmentNotFound
	}
	s := d.Segments[idx]
	if err := d.mutableCheck(s); err != nil {
		return nil, err
	}
	return s, nil
}

// mutableCheck refuses mutation of locked segments and of segments on
// locked tracks.
func (d *Document) mutableCheck(s *Segment) error {
	if tIdx := d.trackIndex(s.TrackID); tIdx >= 0 && d.Tracks[tIdx].Locked {
		return ErrTrackLocked
	}
	if s.Locked {
		return ErrSegmentLocked
	}
	return nil
}

// overlapsOnTrack reports whether [start, start+duration) intersects any
// segment on the track other than excludeID.
func (d *Document) overlapsOnTrack(trackID int, start, duration float64, excludeID string) bool {
	for _, s := range d.Segments {
		if s.TrackID != trackID || s.ID == excludeID {
			continue
		}
		if s.Overlaps(start, duration) {
			return true
		}
	}
	return false
}

func (d *Document) trackIndex(id int) int {
	for i, t := range d.Tracks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) segmentIndex(id string) int {
	for i, s := range d.Segments {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// clampPlacement forces a segment's placement fields into their valid
// ranges.
func clampPlacement(s *Segment) {
	if s.Start < 0 {
		s.Start = 0
	}
	if s.Duration < MinSegmentDuration {
		s.Duration = MinSegmentDuration
	}
	if s.SourceOffset < 0 {
		s.SourceOffset = 0
	}
}
