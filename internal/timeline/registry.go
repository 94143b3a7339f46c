package timeline

import "github.com/lukasclt/Lumina/internal/animation"

// accessor binds one animatable property to its base field on the segment.
type accessor struct {
	get func(*Segment) float64
	set func(*Segment, float64)
}

// baseAccessors is the registry mapping fixed property tags to segment base
// fields. Effect properties are resolved dynamically against the segment's
// effect list. The registry is populated once and never mutated.
var baseAccessors = map[animation.Property]accessor{
	animation.PropOpacity: {
		get: func(s *Segment) float64 { return s.Opacity },
		set: func(s *Segment, v float64) { s.Opacity = clamp01(v) },
	},
	animation.PropScale: {
		get: func(s *Segment) float64 { return s.Transform.Scale },
		set: func(s *Segment, v float64) { s.Transform.Scale = v },
	},
	animation.PropRotateX: {
		get: func(s *Segment) float64 { return s.Transform.RotateX },
		set: func(s *Segment, v float64) { s.Transform.RotateX = v },
	},
	animation.PropRotateY: {
		get: func(s *Segment) float64 { return s.Transform.RotateY },
		set: func(s *Segment, v float64) { s.Transform.RotateY = v },
	},
	animation.PropRotateZ: {
		get: func(s *Segment) float64 { return s.Transform.RotateZ },
		set: func(s *Segment, v float64) { s.Transform.RotateZ = v },
	},
	animation.PropTranslateX: {
		get: func(s *Segment) float64 { return s.Transform.TranslateX },
		set: func(s *Segment, v float64) { s.Transform.TranslateX = v },
	},
	animation.PropTranslateY: {
		get: func(s *Segment) float64 { return s.Transform.TranslateY },
		set: func(s *Segment, v float64) { s.Transform.TranslateY = v },
	},
	animation.PropSkewX: {
		get: func(s *Segment) float64 { return s.Transform.SkewX },
		set: func(s *Segment, v float64) { s.Transform.SkewX = v },
	},
	animation.PropSkewY: {
		get: func(s *Segment) float64 { return s.Transform.SkewY },
		set: func(s *Segment, v float64) { s.Transform.SkewY = v },
	},
	animation.PropPerspective: {
		get: func(s *Segment) float64 { return s.Transform.Perspective },
		set: func(s *Segment, v float64) { s.Transform.Perspective = v },
	},
	animation.PropTextReveal: {
		get: func(s *Segment) float64 { return s.TextProgress },
		set: func(s *Segment, v float64) { s.TextProgress = v },
	},
}

// BaseValue reads the static base value behind a property tag. It reports
// false for property tags the segment cannot carry.
func BaseValue(s *Segment, p animation.Property) (float64, bool) {
	if acc, ok := baseAccessors[p]; ok {
		return acc.get(s), true
	}
	if kind, ok := p.EffectKind(); ok && kind != "" {
		return s.EffectValue(kind), true
	}
	return 0, false
}

// SetBaseValue writes the static base value behind a property tag. It
// reports false for property tags the segment cannot carry.
func SetBaseValue(s *Segment, p animation.Property, v float64) bool {
	if acc, ok := baseAccessors[p]; ok {
		acc.set(s, v)
		return true
	}
	if kind, ok := p.EffectKind(); ok && kind != "" {
		s.SetEffectValue(kind, v)
		return true
	}
	return false
}

// EvaluateProperty resolves a property's effective value at an absolute
// timeline time: the animated value when keyframes exist, the base value
// otherwise. Unknown property tags resolve to zero.
func EvaluateProperty(s *Segment, p animation.Property, queryTime float64) float64 {
	base, _ := BaseValue(s, p)
	return animation.Evaluate(s.Animations, p, queryTime-s.Start, base)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
