package animation

import (
	"errors"
	"fmt"
)

// PresetDuration is the span of the canned motion presets, in seconds from
// their anchor time.
const PresetDuration = 0.8

// ErrUnknownPreset is returned when a preset name is not recognized.
var ErrUnknownPreset = errors.New("animation: unknown motion preset")

// MotionPreset names a canned entrance animation.
type MotionPreset string

// Available motion presets.
const (
	PresetZoomIn     MotionPreset = "zoom in"
	PresetSlideIn    MotionPreset = "slide in"
	PresetTypewriter MotionPreset = "typewriter"
	PresetLinearWipe MotionPreset = "linear wipe"
)

// MotionPresets lists every available preset in a stable order.
func MotionPresets() []MotionPreset {
	return []MotionPreset{PresetZoomIn, PresetSlideIn, PresetTypewriter, PresetLinearWipe}
}

// PresetKeyframes returns the keyframe pairs a preset writes, each pair
// spanning [anchor, anchor+PresetDuration] in segment-local seconds with
// bezier easing. Callers merge them with Set so the usual
// replace-within-epsilon rule applies.
func PresetKeyframes(preset MotionPreset, anchor float64) ([]Keyframe, error) {
	switch preset {
	case PresetZoomIn:
		return append(
			pair(PropScale, anchor, 0, 100),
			pair(PropOpacity, anchor, 0, 1)...,
		), nil
	case PresetSlideIn:
		return append(
			pair(PropTranslateY, anchor, 100, 0),
			pair(PropOpacity, anchor, 0, 1)...,
		), nil
	case PresetTypewriter:
		return pair(PropTextReveal, anchor, 0, 100), nil
	case PresetLinearWipe:
		return pair(EffectProperty("wipe"), anchor, 0, 100), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
}

// pair builds the from→to keyframes for one property over the preset span.
func pair(p Property, anchor, from, to float64) []Keyframe {
	return []Keyframe{
		{Property: p, Time: anchor, Value: from, Easing: EasingBezier},
		{Property: p, Time: anchor + PresetDuration, Value: to, Easing: EasingBezier},
	}
}
