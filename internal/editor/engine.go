// Package editor translates pointer gestures into timeline mutations: the
// drag state machine for moving and trimming segments, the razor tool, and
// edge/playhead snapping.
//
// The engine owns no document state beyond the current gesture. Every
// pointer update recomputes the target from the state captured at
// mouse-down, so repeated events are idempotent and never accumulate
// drift. Mutations are committed to the document immediately; an invalid
// intermediate position is refused by the model and simply leaves the
// previous committed state in place until the next pointer event.
package editor

import (
	"sync"

	"github.com/lukasclt/Lumina/internal/timeline"
)

// Viewport defaults.
const (
	// DefaultPixelsPerSecond is the default zoom factor.
	DefaultPixelsPerSecond = 50.0
	// DefaultSnapThresholdPx is the snap capture radius in pixels.
	DefaultSnapThresholdPx = 10.0
	// DefaultTrackHeightPx is the height of one track row in pixels,
	// used to turn vertical drag distance into a track switch.
	DefaultTrackHeightPx = 64.0
)

// Engine maps gestures onto one document. It is built for a single
// interactive actor; calls are serialized internally so a stray concurrent
// caller cannot corrupt the gesture state.
type Engine struct {
	mu  sync.Mutex
	doc *timeline.Document

	pixelsPerSecond float64
	snapThresholdPx float64
	trackHeightPx   float64
	snapEnabled     bool

	gesture *Gesture
}

// Option configures an Engine.
type Option func(*Engine)

// WithZoom sets the initial pixels-per-second zoom factor.
func WithZoom(pixelsPerSecond float64) Option {
	return func(e *Engine) {
		if pixelsPerSecond > 0 {
			e.pixelsPerSecond = pixelsPerSecond
		}
	}
}

// WithSnapThreshold sets the snap capture radius in pixels.
func WithSnapThreshold(px float64) Option {
	return func(e *Engine) {
		if px >= 0 {
			e.snapThresholdPx = px
		}
	}
}

// WithTrackHeight sets the per-track row height in pixels.
func WithTrackHeight(px float64) Option {
	return func(e *Engine) {
		if px > 0 {
			e.trackHeightPx = px
		}
	}
}

// WithSnapping enables or disables snapping from the start.
func WithSnapping(enabled bool) Option {
	return func(e *Engine) { e.snapEnabled = enabled }
}

// NewEngine returns an engine operating on the given document.
func NewEngine(doc *timeline.Document, opts ...Option) *Engine {
	e := &Engine{
		doc:             doc,
		pixelsPerSecond: DefaultPixelsPerSecond,
		snapThresholdPx: DefaultSnapThresholdPx,
		trackHeightPx:   DefaultTrackHeightPx,
		snapEnabled:     true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetZoom changes the pixels-per-second zoom factor. Zoom changes during a
// drag apply from the next pointer event.
func (e *Engine) SetZoom(pixelsPerSecond float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if pixelsPerSecond > 0 {
		e.pixelsPerSecond = pixelsPerSecond
	}
}

// SetSnapping toggles snapping globally.
func (e *Engine) SetSnapping(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.snapEnabled = enabled
}

// SnappingEnabled reports whether snapping is active.
func (e *Engine) SnappingEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapEnabled
}

// pxToSeconds converts a pixel distance into seconds under the current
// zoom. Callers hold the engine lock.
func (e *Engine) pxToSeconds(px float64) float64 {
	return px / e.pixelsPerSecond
}
