package tools

import (
	"errors"
	"fmt"

	"github.com/lukasclt/Lumina/internal/timeline"
)

// ErrUnknownColorPreset is returned for color grade names outside the
// built-in set.
var ErrUnknownColorPreset = errors.New("unknown color preset")

// ColorPreset names a built-in color grade.
type ColorPreset string

// The built-in grades.
const (
	ColorCinematic ColorPreset = "cinematic"
	ColorVivid     ColorPreset = "vivid"
	ColorNoir      ColorPreset = "noir"
	ColorWarm      ColorPreset = "warm"
	ColorCool      ColorPreset = "cool"
)

// Effect values use the renderer's CSS filter vocabulary: percentages with
// 100 as neutral for brightness, contrast and saturate, 0 as neutral for
// sepia and grayscale, and degrees for hue-rotate.
var colorPresets = map[ColorPreset][]timeline.Effect{
	ColorCinematic: {
		{Kind: "contrast", Value: 110},
		{Kind: "saturate", Value: 85},
		{Kind: "brightness", Value: 95},
		{Kind: "sepia", Value: 10},
	},
	ColorVivid: {
		{Kind: "saturate", Value: 140},
		{Kind: "contrast", Value: 110},
		{Kind: "brightness", Value: 105},
	},
	ColorNoir: {
		{Kind: "grayscale", Value: 100},
		{Kind: "contrast", Value: 120},
		{Kind: "brightness", Value: 90},
	},
	ColorWarm: {
		{Kind: "sepia", Value: 30},
		{Kind: "saturate", Value: 110},
		{Kind: "brightness", Value: 105},
	},
	ColorCool: {
		{Kind: "hue-rotate", Value: 15},
		{Kind: "saturate", Value: 105},
		{Kind: "contrast", Value: 105},
		{Kind: "brightness", Value: 98},
	},
}

// ColorPresets lists the built-in grades in a stable order.
func ColorPresets() []ColorPreset {
	return []ColorPreset{ColorCinematic, ColorVivid, ColorNoir, ColorWarm, ColorCool}
}

// ColorPresetEffects returns the effect bundle for a grade. The slice is a
// copy the caller may modify.
func ColorPresetEffects(preset ColorPreset) ([]timeline.Effect, error) {
	grade, ok := colorPresets[preset]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColorPreset, preset)
	}
	return append([]timeline.Effect(nil), grade...), nil
}

// mergeEffects overlays a grade onto a segment's existing effects. Kinds
// already present are overwritten in place, new kinds append, and kinds the
// grade does not mention survive untouched.
func mergeEffects(current, grade []timeline.Effect) []timeline.Effect {
	merged := append([]timeline.Effect(nil), current...)
	for _, g := range grade {
		replaced := false
		for i := range merged {
			if merged[i].Kind == g.Kind {
				merged[i].Value = g.Value
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, g)
		}
	}
	return merged
}
