package timeline

import (
	"sort"

	"github.com/lukasclt/Lumina/internal/animation"
)

// SegmentSample is one segment's fully resolved appearance at a single
// playhead time: every animatable property evaluated through its keyframes
// or taken from its base value. This is the read surface a renderer
// queries once per frame per visible segment.
type SegmentSample struct {
	SegmentID    string         `json:"segmentId"`
	TrackID      int            `json:"trackId"`
	TrackType    TrackType      `json:"trackType"`
	Muted        bool           `json:"isMuted,omitempty"`
	Label        string         `json:"label,omitempty"`
	Content      string         `json:"content,omitempty"`
	Style        map[string]any `json:"style,omitempty"`
	Src          string         `json:"src,omitempty"`
	SourceTime   float64        `json:"sourceTime"`
	BlendMode    string         `json:"blendMode,omitempty"`
	Opacity      float64        `json:"opacity"`
	Transform    Transform      `json:"transform"`
	Effects      []Effect       `json:"effects,omitempty"`
	TextProgress float64        `json:"textProgress"`
}

// SampleAt resolves every active segment covering the given playhead time
// on a non-hidden track. Samples come back in painting order, lower track
// ids first. SourceTime is the position inside the segment's source media
// corresponding to the playhead.
func (d *Document) SampleAt(t float64) []SegmentSample {
	d.mu.RLock()
	defer d.mu.RUnlock()

	hidden := make(map[int]bool, len(d.Tracks))
	muted := make(map[int]bool, len(d.Tracks))
	types := make(map[int]TrackType, len(d.Tracks))
	for _, tr := range d.Tracks {
		hidden[tr.ID] = tr.Hidden
		muted[tr.ID] = tr.Muted
		types[tr.ID] = tr.Type
	}

	var out []SegmentSample
	for _, s := range d.Segments {
		if !s.Active || !s.Contains(t) || hidden[s.TrackID] {
			continue
		}
		out = append(out, sampleSegment(s, types[s.TrackID], muted[s.TrackID], t))
	}
	sortSamples(out)
	return out
}

// sampleSegment resolves one segment at an absolute time.
func sampleSegment(s *Segment, trackType TrackType, trackMuted bool, t float64) SegmentSample {
	sample := SegmentSample{
		SegmentID:  s.ID,
		TrackID:    s.TrackID,
		TrackType:  trackType,
		Muted:      trackMuted,
		Label:      s.Label,
		Content:    s.Content,
		Src:        s.Src,
		SourceTime: s.SourceOffset + (t - s.Start),
		BlendMode:  s.BlendMode,
		Opacity:    EvaluateProperty(s, animation.PropOpacity, t),
		Transform: Transform{
			RotateX:     EvaluateProperty(s, animation.PropRotateX, t),
			RotateY:     EvaluateProperty(s, animation.PropRotateY, t),
			RotateZ:     EvaluateProperty(s, animation.PropRotateZ, t),
			Scale:       EvaluateProperty(s, animation.PropScale, t),
			TranslateX:  EvaluateProperty(s, animation.PropTranslateX, t),
			TranslateY:  EvaluateProperty(s, animation.PropTranslateY, t),
			SkewX:       EvaluateProperty(s, animation.PropSkewX, t),
			SkewY:       EvaluateProperty(s, animation.PropSkewY, t),
			Perspective: EvaluateProperty(s, animation.PropPerspective, t),
		},
		TextProgress: EvaluateProperty(s, animation.PropTextReveal, t),
	}
	if s.Style != nil {
		sample.Style = make(map[string]any, len(s.Style))
		for k, v := range s.Style {
			sample.Style[k] = v
		}
	}
	if len(s.Effects) > 0 {
		sample.Effects = make([]Effect, len(s.Effects))
		for i, e := range s.Effects {
			sample.Effects[i] = Effect{
				Kind:  e.Kind,
				Value: EvaluateProperty(s, animation.EffectProperty(e.Kind), t),
			}
		}
	}
	return sample
}

// sortSamples orders samples bottom-to-top for painting: video tracks by
// ascending id, then audio tracks by ascending id.
func sortSamples(samples []SegmentSample) {
	rank := func(s SegmentSample) int {
		if s.TrackType == TrackAudio {
			return 1
		}
		return 0
	}
	sort.SliceStable(samples, func(i, j int) bool {
		if rank(samples[i]) != rank(samples[j]) {
			return rank(samples[i]) < rank(samples[j])
		}
		return samples[i].TrackID < samples[j].TrackID
	})
}
