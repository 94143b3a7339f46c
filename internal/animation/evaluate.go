package animation

// Evaluate resolves one property at a segment-local time.
//
// With no keyframes for the property it returns baseValue. Before the first
// keyframe the first value holds; after the last, the last value holds.
// Between two keyframes the progress ratio inside the bracketing pair is
// clamped to [0,1], shaped by the easing of the later keyframe, and
// interpolated between the two values. The function is pure: same inputs,
// same output, no clock and no stored state.
func Evaluate(keyframes []Keyframe, property Property, localTime, baseValue float64) float64 {
	var first, last, prev, next *Keyframe
	for i := range keyframes {
		kf := &keyframes[i]
		if kf.Property != property {
			continue
		}
		if first == nil {
			first = kf
		}
		last = kf
		if kf.Time <= localTime {
			prev = kf
		} else if next == nil {
			next = kf
		}
	}
	switch {
	case first == nil:
		return baseValue
	case prev == nil:
		return first.Value
	case next == nil:
		return last.Value
	}

	ratio := 0.0
	if span := next.Time - prev.Time; span > 0 {
		ratio = (localTime - prev.Time) / span
	}
	if ratio < 0 {
		ratio = 0
	} else if ratio > 1 {
		ratio = 1
	}
	return prev.Value + (next.Value-prev.Value)*ease(next.Easing, ratio)
}

// ease shapes a [0,1] progress ratio. Step holds the previous value for the
// whole bracket, jumping only when the query time reaches the next keyframe.
// Unknown easings degrade to linear.
func ease(e Easing, r float64) float64 {
	switch e {
	case EasingEaseIn:
		return r * r * r
	case EasingEaseOut:
		inv := 1 - r
		return 1 - inv*inv*inv
	case EasingBezier:
		if r < 0.5 {
			return 2 * r * r
		}
		inv := -2*r + 2
		return 1 - inv*inv/2
	case EasingStep:
		return 0
	default:
		return r
	}
}
