package animation

import (
	"errors"
	"math"
	"testing"
)

func TestParseProperty(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		want    Property
		wantErr bool
	}{
		{name: "opacity", path: "opacity", want: PropOpacity},
		{name: "transform scale", path: "transform.scale", want: PropScale},
		{name: "transform translateY", path: "transform.translateY", want: PropTranslateY},
		{name: "text progress", path: "text.progress", want: PropTextReveal},
		{name: "effect blur", path: "effects.blur", want: EffectProperty("blur")},
		{name: "effect wipe", path: "effects.wipe", want: EffectProperty("wipe")},
		{name: "unknown path", path: "transform.bogus", wantErr: true},
		{name: "empty effect kind", path: "effects.", wantErr: true},
		{name: "empty path", path: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProperty(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownProperty) {
					t.Fatalf("expected ErrUnknownProperty, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseProperty(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestPropertyEffectKind(t *testing.T) {
	kind, ok := EffectProperty("blur").EffectKind()
	if !ok || kind != "blur" {
		t.Errorf("EffectKind() = %q, %v, want blur, true", kind, ok)
	}
	if _, ok := PropOpacity.EffectKind(); ok {
		t.Error("opacity should not parse as an effect property")
	}
}

func TestSet_ReplacesWithinEpsilon(t *testing.T) {
	kfs := Set(nil, Keyframe{Property: PropOpacity, Time: 1.0, Value: 0.2, Easing: EasingLinear})
	kfs = Set(kfs, Keyframe{Property: PropOpacity, Time: 1.03, Value: 0.9, Easing: EasingEaseIn})

	if len(kfs) != 1 {
		t.Fatalf("expected 1 keyframe after epsilon replace, got %d", len(kfs))
	}
	if kfs[0].Value != 0.9 || kfs[0].Time != 1.03 || kfs[0].Easing != EasingEaseIn {
		t.Errorf("replace kept stale keyframe: %+v", kfs[0])
	}
}

func TestSet_DistinctTimesStack(t *testing.T) {
	kfs := Set(nil, Keyframe{Property: PropOpacity, Time: 1.0, Value: 0.2})
	kfs = Set(kfs, Keyframe{Property: PropOpacity, Time: 1.2, Value: 0.9})
	kfs = Set(kfs, Keyframe{Property: PropScale, Time: 1.01, Value: 50})

	if len(kfs) != 3 {
		t.Fatalf("expected 3 keyframes, got %d", len(kfs))
	}
}

func TestSet_KeepsTimeOrderPerProperty(t *testing.T) {
	kfs := Set(nil, Keyframe{Property: PropOpacity, Time: 2.0, Value: 1})
	kfs = Set(kfs, Keyframe{Property: PropOpacity, Time: 0.5, Value: 0})
	kfs = Set(kfs, Keyframe{Property: PropOpacity, Time: 1.0, Value: 0.5})

	times := []float64{}
	for _, kf := range ForProperty(kfs, PropOpacity) {
		times = append(times, kf.Time)
	}
	want := []float64{0.5, 1.0, 2.0}
	for i := range want {
		if times[i] != want[i] {
			t.Fatalf("keyframes out of order: %v", times)
		}
	}
}

func TestSet_NormalizesInput(t *testing.T) {
	kfs := Set(nil, Keyframe{Property: PropOpacity, Time: -0.3, Value: 1})
	if kfs[0].Time != 0 {
		t.Errorf("negative time not clamped: %v", kfs[0].Time)
	}
	if kfs[0].Easing != EasingLinear {
		t.Errorf("empty easing not defaulted: %v", kfs[0].Easing)
	}
}

func TestRemove(t *testing.T) {
	kfs := Set(nil, Keyframe{Property: PropOpacity, Time: 1.0, Value: 0.2})
	kfs = Set(kfs, Keyframe{Property: PropOpacity, Time: 2.0, Value: 0.8})

	kfs, removed := Remove(kfs, PropOpacity, 1.04)
	if !removed {
		t.Fatal("expected removal within epsilon")
	}
	if len(kfs) != 1 || kfs[0].Time != 2.0 {
		t.Errorf("wrong keyframe removed: %+v", kfs)
	}

	kfs, removed = Remove(kfs, PropOpacity, 5.0)
	if removed {
		t.Error("removal far from any keyframe should be a no-op")
	}
	if len(kfs) != 1 {
		t.Errorf("no-op removal changed the list: %+v", kfs)
	}
}

func TestRemoveProperty(t *testing.T) {
	kfs := Set(nil, Keyframe{Property: PropOpacity, Time: 0, Value: 0})
	kfs = Set(kfs, Keyframe{Property: PropOpacity, Time: 1, Value: 1})
	kfs = Set(kfs, Keyframe{Property: PropScale, Time: 0, Value: 100})

	kfs, removed := RemoveProperty(kfs, PropOpacity)
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if Animated(kfs, PropOpacity) {
		t.Error("opacity should no longer be animated")
	}
	if !Animated(kfs, PropScale) {
		t.Error("scale keyframes should be untouched")
	}
}

func TestProperties(t *testing.T) {
	kfs := Set(nil, Keyframe{Property: PropScale, Time: 0, Value: 0})
	kfs = Set(kfs, Keyframe{Property: PropScale, Time: 1, Value: 100})
	kfs = Set(kfs, Keyframe{Property: PropOpacity, Time: 0, Value: 0})

	props := Properties(kfs)
	if len(props) != 2 {
		t.Fatalf("expected 2 distinct properties, got %v", props)
	}
}

func TestPresetKeyframes(t *testing.T) {
	tests := []struct {
		name   string
		preset MotionPreset
		props  []Property
	}{
		{name: "zoom in", preset: PresetZoomIn, props: []Property{PropScale, PropOpacity}},
		{name: "slide in", preset: PresetSlideIn, props: []Property{PropTranslateY, PropOpacity}},
		{name: "typewriter", preset: PresetTypewriter, props: []Property{PropTextReveal}},
		{name: "linear wipe", preset: PresetLinearWipe, props: []Property{EffectProperty("wipe")}},
	}

	const anchor = 1.5
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kfs, err := PresetKeyframes(tt.preset, anchor)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(kfs) != 2*len(tt.props) {
				t.Fatalf("expected %d keyframes, got %d", 2*len(tt.props), len(kfs))
			}
			for _, p := range tt.props {
				pk := ForProperty(kfs, p)
				if len(pk) != 2 {
					t.Fatalf("property %s: expected a pair, got %d", p, len(pk))
				}
				if pk[0].Time != anchor || math.Abs(pk[1].Time-(anchor+PresetDuration)) > 1e-9 {
					t.Errorf("property %s: pair spans [%v, %v], want [%v, %v]", p, pk[0].Time, pk[1].Time, anchor, anchor+PresetDuration)
				}
				if pk[0].Easing != EasingBezier || pk[1].Easing != EasingBezier {
					t.Errorf("property %s: presets should use bezier easing", p)
				}
			}
		})
	}

	if _, err := PresetKeyframes("spin", 0); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}
