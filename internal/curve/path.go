// Package curve derives the drawable path the animation graph editor
// shows for one segment property: keyframe markers in pixel space plus
// the connecting shapes between them.
//
// The shapes are a visual approximation only. Playback evaluation always
// goes through the animation package's exact easing formulas.
package curve

import (
	"github.com/lukasclt/Lumina/internal/animation"
)

// Rendering defaults.
const (
	// DefaultPixelsPerSecond matches the editor's default zoom.
	DefaultPixelsPerSecond = 50.0
	// DefaultHeight is the graph panel height in pixels.
	DefaultHeight = 160.0
)

// Kind tells the renderer how to connect two keyframe points.
type Kind string

// Connection kinds.
const (
	// KindLine is a straight segment.
	KindLine Kind = "line"
	// KindStep holds the previous value and jumps at the next keyframe.
	KindStep Kind = "step"
	// KindCubic is a cubic bezier approximating an eased transition.
	KindCubic Kind = "cubic"
)

// Point is a pixel-space coordinate. Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Connection is the drawable shape between two adjacent keyframes. Ctrl1
// and Ctrl2 are only meaningful for KindCubic.
type Connection struct {
	Kind  Kind  `json:"kind"`
	From  Point `json:"from"`
	To    Point `json:"to"`
	Ctrl1 Point `json:"ctrl1,omitempty"`
	Ctrl2 Point `json:"ctrl2,omitempty"`
}

// Path is the complete drawable graph for one property: one marker per
// keyframe and one connection per adjacent pair, plus the value range the
// vertical axis was scaled to.
type Path struct {
	Points      []Point      `json:"points"`
	Connections []Connection `json:"connections"`
	ValueMin    float64      `json:"valueMin"`
	ValueMax    float64      `json:"valueMax"`
}

// Options sets the pixel mapping for a path build.
type Options struct {
	// PixelsPerSecond is the horizontal zoom. Defaults to
	// DefaultPixelsPerSecond when zero.
	PixelsPerSecond float64
	// Height is the graph panel height in pixels. Defaults to
	// DefaultHeight when zero.
	Height float64
}

// cubic control-point fractions per easing, in unit space over the
// connected pair.
var cubicControls = map[animation.Easing][4]float64{
	animation.EasingEaseIn:  {0.32, 0, 0.67, 0},
	animation.EasingEaseOut: {0.33, 1, 0.68, 1},
	animation.EasingBezier:  {0.45, 0, 0.55, 1},
}

// BuildPath maps a segment property's keyframes into pixel space. The x
// axis is global timeline time (segment start plus keyframe local time)
// scaled by the zoom; the y axis is auto-scaled to the keyframes' value
// range with 20% padding, falling back to a 0–100 axis when every value
// is the same. A property with no keyframes yields an empty path, the
// graph renders nothing.
func BuildPath(keyframes []animation.Keyframe, property animation.Property, segmentStart float64, opts Options) Path {
	kfs := animation.ForProperty(keyframes, property)
	if len(kfs) == 0 {
		return Path{}
	}
	if opts.PixelsPerSecond <= 0 {
		opts.PixelsPerSecond = DefaultPixelsPerSecond
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	lo, hi := valueRange(kfs)
	path := Path{ValueMin: lo, ValueMax: hi}

	toPoint := func(kf animation.Keyframe) Point {
		x := (segmentStart + kf.Time) * opts.PixelsPerSecond
		y := opts.Height - (kf.Value-lo)/(hi-lo)*opts.Height
		return Point{X: x, Y: y}
	}

	path.Points = make([]Point, len(kfs))
	for i, kf := range kfs {
		path.Points[i] = toPoint(kf)
	}
	for i := 1; i < len(kfs); i++ {
		path.Connections = append(path.Connections, connect(path.Points[i-1], path.Points[i], kfs[i].Easing))
	}
	return path
}

// connect builds the drawable shape approaching the second keyframe,
// shaped by that keyframe's easing.
func connect(from, to Point, easing animation.Easing) Connection {
	switch easing {
	case animation.EasingStep:
		return Connection{Kind: KindStep, From: from, To: to}
	case animation.EasingEaseIn, animation.EasingEaseOut, animation.EasingBezier:
		c := cubicControls[easing]
		dx, dy := to.X-from.X, to.Y-from.Y
		return Connection{
			Kind:  KindCubic,
			From:  from,
			To:    to,
			Ctrl1: Point{X: from.X + c[0]*dx, Y: from.Y + c[1]*dy},
			Ctrl2: Point{X: from.X + c[2]*dx, Y: from.Y + c[3]*dy},
		}
	default:
		return Connection{Kind: KindLine, From: from, To: to}
	}
}

// valueRange finds the padded vertical axis for a keyframe set.
func valueRange(kfs []animation.Keyframe) (float64, float64) {
	lo, hi := kfs[0].Value, kfs[0].Value
	for _, kf := range kfs[1:] {
		if kf.Value < lo {
			lo = kf.Value
		}
		if kf.Value > hi {
			hi = kf.Value
		}
	}
	if hi-lo < 1e-9 {
		if lo > 0 {
			lo = 0
		}
		if hi < 100 {
			hi = 100
		}
	}
	pad := 0.2 * (hi - lo)
	return lo - pad, hi + pad
}
