// Package animation provides the keyframe model and the pure evaluation
// engine that resolves animated segment properties over time.
//
// Keyframes address properties through dotted paths ("opacity",
// "transform.scale", "effects.blur"). Paths are carried as an enumerated
// Property tag so the rest of the engine never string-matches them; the
// dotted form remains the wire contract. Keyframe times are relative to the
// owning segment's start, and a property is animated exactly when it has at
// least one keyframe.
package animation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// TimeEpsilon is the window within which two keyframe times on the same
// property are considered the same slot. Writing inside the window replaces
// the existing keyframe instead of stacking a near-duplicate.
const TimeEpsilon = 0.05

// ErrUnknownProperty is returned when a dotted path names no animatable
// property.
var ErrUnknownProperty = errors.New("animation: unknown property")

// Property identifies an animatable segment property.
//
// The value is the dotted wire form. Fixed properties are enumerated below;
// effect properties are open-ended and constructed with EffectProperty.
type Property string

// Animatable properties addressed by fixed paths.
const (
	PropOpacity     Property = "opacity"
	PropScale       Property = "transform.scale"
	PropRotateX     Property = "transform.rotateX"
	PropRotateY     Property = "transform.rotateY"
	PropRotateZ     Property = "transform.rotateZ"
	PropTranslateX  Property = "transform.translateX"
	PropTranslateY  Property = "transform.translateY"
	PropSkewX       Property = "transform.skewX"
	PropSkewY       Property = "transform.skewY"
	PropPerspective Property = "transform.perspective"
	PropTextReveal  Property = "text.progress"
)

// effectPrefix is the path family for effect parameters ("effects.blur",
// "effects.wipe", ...). The suffix names the effect kind on the segment.
const effectPrefix = "effects."

// fixedProperties is the closed set of non-effect paths.
var fixedProperties = map[Property]bool{
	PropOpacity:     true,
	PropScale:       true,
	PropRotateX:     true,
	PropRotateY:     true,
	PropRotateZ:     true,
	PropTranslateX:  true,
	PropTranslateY:  true,
	PropSkewX:       true,
	PropSkewY:       true,
	PropPerspective: true,
	PropTextReveal:  true,
}

// EffectProperty builds the property tag addressing the value of the effect
// with the given kind, e.g. EffectProperty("blur") == "effects.blur".
func EffectProperty(kind string) Property {
	return Property(effectPrefix + kind)
}

// ParseProperty validates a dotted path and returns its Property tag.
func ParseProperty(path string) (Property, error) {
	p := Property(path)
	if fixedProperties[p] {
		return p, nil
	}
	if kind, ok := p.EffectKind(); ok && kind != "" {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProperty, path)
}

// EffectKind reports the effect kind a property addresses, if it is an
// effect property.
func (p Property) EffectKind() (string, bool) {
	if !strings.HasPrefix(string(p), effectPrefix) {
		return "", false
	}
	return strings.TrimPrefix(string(p), effectPrefix), true
}

// String returns the dotted wire form of the property.
func (p Property) String() string { return string(p) }

// Easing selects the interpolation curve applied between a keyframe and its
// predecessor. The easing stored on a keyframe governs the approach into
// that keyframe.
type Easing string

// Supported easing curves.
const (
	EasingLinear  Easing = "linear"
	EasingEaseIn  Easing = "easeIn"
	EasingEaseOut Easing = "easeOut"
	EasingBezier  Easing = "bezier"
	EasingStep    Easing = "step"
)

// Valid reports whether the easing names a supported curve.
func (e Easing) Valid() bool {
	switch e {
	case EasingLinear, EasingEaseIn, EasingEaseOut, EasingBezier, EasingStep:
		return true
	}
	return false
}

// Keyframe pins a property to a value at a time relative to the owning
// segment's start.
type Keyframe struct {
	// Property is the animated property tag.
	Property Property `json:"property"`
	// Time is the keyframe position in seconds, relative to segment start.
	Time float64 `json:"time"`
	// Value is the property value at Time.
	Value float64 `json:"value"`
	// Easing is the curve used to approach this keyframe from the previous
	// one. Defaults to linear when empty.
	Easing Easing `json:"easing"`
}

// Set writes a keyframe into the list, replacing any existing keyframe of
// the same property within TimeEpsilon of its time, and returns the list
// sorted by property and time. Negative times are clamped to zero and an
// empty easing becomes linear.
func Set(keyframes []Keyframe, kf Keyframe) []Keyframe {
	if kf.Time < 0 {
		kf.Time = 0
	}
	if kf.Easing == "" {
		kf.Easing = EasingLinear
	}
	replaced := false
	for i := range keyframes {
		if keyframes[i].Property != kf.Property {
			continue
		}
		if math.Abs(keyframes[i].Time-kf.Time) <= TimeEpsilon {
			keyframes[i] = kf
			replaced = true
			break
		}
	}
	if !replaced {
		keyframes = append(keyframes, kf)
	}
	sortKeyframes(keyframes)
	return keyframes
}

// Remove deletes the keyframe of the given property within TimeEpsilon of
// the given time. It reports whether a keyframe was removed.
func Remove(keyframes []Keyframe, property Property, time float64) ([]Keyframe, bool) {
	for i := range keyframes {
		if keyframes[i].Property != property {
			continue
		}
		if math.Abs(keyframes[i].Time-time) <= TimeEpsilon {
			return append(keyframes[:i], keyframes[i+1:]...), true
		}
	}
	return keyframes, false
}

// RemoveProperty deletes every keyframe of the given property, returning the
// remaining list and the number removed. A property with no keyframes left
// falls back to its static base value.
func RemoveProperty(keyframes []Keyframe, property Property) ([]Keyframe, int) {
	kept := keyframes[:0]
	removed := 0
	for _, kf := range keyframes {
		if kf.Property == property {
			removed++
			continue
		}
		kept = append(kept, kf)
	}
	return kept, removed
}

// ForProperty returns the keyframes of one property in time order.
func ForProperty(keyframes []Keyframe, property Property) []Keyframe {
	var out []Keyframe
	for _, kf := range keyframes {
		if kf.Property == property {
			out = append(out, kf)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Animated reports whether the property has at least one keyframe.
func Animated(keyframes []Keyframe, property Property) bool {
	for i := range keyframes {
		if keyframes[i].Property == property {
			return true
		}
	}
	return false
}

// Properties returns the distinct animated properties in first-seen order.
func Properties(keyframes []Keyframe) []Property {
	seen := make(map[Property]bool, len(keyframes))
	var out []Property
	for _, kf := range keyframes {
		if !seen[kf.Property] {
			seen[kf.Property] = true
			out = append(out, kf.Property)
		}
	}
	return out
}

// sortKeyframes orders the flat list by property, then time. Per-property
// time order is the invariant Evaluate relies on.
func sortKeyframes(keyframes []Keyframe) {
	sort.SliceStable(keyframes, func(i, j int) bool {
		if keyframes[i].Property != keyframes[j].Property {
			return keyframes[i].Property < keyframes[j].Property
		}
		return keyframes[i].Time < keyframes[j].Time
	})
}
