package timeline

import "errors"

// Refusal reasons returned by document operations. Interactive callers
// treat them as observable no-ops, never as fatal conditions.
var (
	// ErrTrackNotFound is returned when a track id resolves to nothing.
	ErrTrackNotFound = errors.New("timeline: track not found")
	// ErrTrackLocked is returned when an operation targets a locked track.
	ErrTrackLocked = errors.New("timeline: track is locked")
	// ErrSegmentNotFound is returned when a segment id resolves to nothing.
	ErrSegmentNotFound = errors.New("timeline: segment not found")
	// ErrSegmentLocked is returned when an operation targets a locked segment.
	ErrSegmentLocked = errors.New("timeline: segment is locked")
	// ErrOverlap is returned when a placement would collide with another
	// segment on the same track.
	ErrOverlap = errors.New("timeline: segments on a track must not overlap")
	// ErrSplitOutsideSegment is returned when a split time is not strictly
	// inside the segment's span.
	ErrSplitOutsideSegment = errors.New("timeline: split time outside segment")
	// ErrInvalidTrackType is returned when a track type is not supported.
	ErrInvalidTrackType = errors.New("timeline: invalid track type")
)
