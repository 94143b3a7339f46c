package timeline

import (
	"sort"

	"github.com/google/uuid"

	"github.com/lukasclt/Lumina/internal/animation"
)

// MinSegmentDuration is the shortest a segment may become through resize
// operations, roughly one frame at 30fps.
const MinSegmentDuration = 1.0 / 30.0

// Transform holds the 3D transform applied to a segment. Angles are
// degrees, translations are pixels, scale is a percentage where 100 means
// natural size.
type Transform struct {
	RotateX     float64 `json:"rotateX"`
	RotateY     float64 `json:"rotateY"`
	RotateZ     float64 `json:"rotateZ"`
	Scale       float64 `json:"scale"`
	TranslateX  float64 `json:"translateX"`
	TranslateY  float64 `json:"translateY"`
	SkewX       float64 `json:"skewX"`
	SkewY       float64 `json:"skewY"`
	Perspective float64 `json:"perspective"`
}

// DefaultTransform returns the identity transform.
func DefaultTransform() Transform {
	return Transform{Scale: 100}
}

// Effect is one named effect applied to a segment, carrying a single
// numeric value (blur radius, wipe progress, grade amounts, ...). The model
// stores and animates the value; interpreting it is the renderer's job.
type Effect struct {
	Kind  string  `json:"kind"`
	Value float64 `json:"value"`
}

// Segment is a clip placed on a track. Start and Duration position it on
// the global timeline; SourceOffset maps Start into the underlying source
// media. Label, Content, Style and Src are opaque to the model.
type Segment struct {
	// ID is a stable string identity. It changes only through explicit
	// duplication, and a split keeps it on the left part.
	ID string `json:"id"`
	// TrackID is the owning track.
	TrackID int `json:"trackId"`
	// Start is the position on the global timeline, seconds, never negative.
	Start float64 `json:"start"`
	// Duration is the occupied span, seconds, always positive.
	Duration float64 `json:"duration"`
	// SourceOffset is the offset into the source media corresponding to
	// Start, seconds, never negative. Left trims move it together with
	// Start; right trims leave it alone.
	SourceOffset float64 `json:"sourceOffset"`
	// Label is the display name.
	Label string `json:"label"`
	// Content is the text payload for text segments.
	Content string `json:"content,omitempty"`
	// Style is the opaque styling blob for text/graphic segments.
	Style map[string]any `json:"style,omitempty"`
	// Src references the source media asset.
	Src string `json:"src,omitempty"`
	// Transform is the segment's base 3D transform.
	Transform Transform `json:"transform"`
	// Opacity is the base opacity in [0, 1].
	Opacity float64 `json:"opacity"`
	// BlendMode is an opaque compositing mode tag.
	BlendMode string `json:"blendMode,omitempty"`
	// Effects are the applied effects in application order.
	Effects []Effect `json:"effects,omitempty"`
	// Animations is the segment's flat keyframe list, kept sorted by
	// property and time.
	Animations []animation.Keyframe `json:"animations,omitempty"`
	// TextProgress is the base text reveal percentage, 100 = fully shown.
	TextProgress float64 `json:"textProgress,omitempty"`
	// Active marks the segment as taking part in rendering. New and
	// split-off segments start active.
	Active bool `json:"isActive"`
	// Locked rejects interactive drag, resize, and split.
	Locked bool `json:"isLocked"`
}

// NewSegment returns a segment with a fresh id and neutral visual
// defaults, placed on the given track.
func NewSegment(trackID int, start, duration float64) *Segment {
	return &Segment{
		ID:           newSegmentID(),
		TrackID:      trackID,
		Start:        start,
		Duration:     duration,
		Transform:    DefaultTransform(),
		Opacity:      1,
		TextProgress: 100,
		Active:       true,
	}
}

// newSegmentID mints a fresh segment identity.
func newSegmentID() string {
	return "seg-" + uuid.NewString()
}

// End returns the exclusive end time of the segment on the global timeline.
func (s *Segment) End() float64 {
	return s.Start + s.Duration
}

// Contains reports whether a global time falls inside [Start, End).
func (s *Segment) Contains(t float64) bool {
	return t >= s.Start && t < s.End()
}

// Overlaps reports whether the segment's span intersects [start, start+duration).
func (s *Segment) Overlaps(start, duration float64) bool {
	return s.Start < start+duration && start < s.End()
}

// Clone returns a deep copy of the segment.
func (s *Segment) Clone() *Segment {
	c := *s
	if s.Style != nil {
		c.Style = make(map[string]any, len(s.Style))
		for k, v := range s.Style {
			c.Style[k] = v
		}
	}
	if s.Effects != nil {
		c.Effects = append([]Effect(nil), s.Effects...)
	}
	if s.Animations != nil {
		c.Animations = append([]animation.Keyframe(nil), s.Animations...)
	}
	return &c
}

// EffectValue returns the value of the first effect of the given kind, or
// zero when the segment does not carry it.
func (s *Segment) EffectValue(kind string) float64 {
	for _, e := range s.Effects {
		if e.Kind == kind {
			return e.Value
		}
	}
	return 0
}

// SetEffectValue updates the first effect of the given kind, appending a
// new descriptor when the segment does not carry it yet.
func (s *Segment) SetEffectValue(kind string, value float64) {
	for i := range s.Effects {
		if s.Effects[i].Kind == kind {
			s.Effects[i].Value = value
			return
		}
	}
	s.Effects = append(s.Effects, Effect{Kind: kind, Value: value})
}

// SegmentPatch carries a partial update of a segment's base fields. Nil
// fields are left untouched. Placement (start, duration, track) moves
// through the dedicated operations, not through patches.
type SegmentPatch struct {
	Label        *string         `json:"label,omitempty"`
	Content      *string         `json:"content,omitempty"`
	Style        *map[string]any `json:"style,omitempty"`
	Src          *string         `json:"src,omitempty"`
	Transform    *Transform      `json:"transform,omitempty"`
	Opacity      *float64        `json:"opacity,omitempty"`
	BlendMode    *string         `json:"blendMode,omitempty"`
	Effects      *[]Effect       `json:"effects,omitempty"`
	TextProgress *float64        `json:"textProgress,omitempty"`
	Active       *bool           `json:"isActive,omitempty"`
	Locked       *bool           `json:"isLocked,omitempty"`
}

// lockedOnly reports whether the patch touches nothing but the Locked flag.
// Unlocking is the one change a locked segment accepts.
func (p SegmentPatch) lockedOnly() bool {
	return p.Locked != nil &&
		p.Label == nil && p.Content == nil && p.Style == nil && p.Src == nil &&
		p.Transform == nil && p.Opacity == nil && p.BlendMode == nil &&
		p.Effects == nil && p.TextProgress == nil && p.Active == nil
}

// sortSegmentsByStart orders segments by start time.
func sortSegmentsByStart(segments []*Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Start < segments[j].Start
	})
}

// sortSegments orders segments by track id, then start time.
func sortSegments(segments []*Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		if segments[i].TrackID != segments[j].TrackID {
			return segments[i].TrackID < segments[j].TrackID
		}
		return segments[i].Start < segments[j].Start
	})
}
