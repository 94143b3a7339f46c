// Package silence implements the speech-span detection behind the
// auto-cut feature: a windowed RMS scan over decoded audio samples that
// yields the stretches worth keeping.
//
// Analyze is a pure function over its inputs. Decoding the audio and
// laying the resulting spans onto the timeline are the caller's business.
package silence

import "math"

// Analysis tuning constants.
const (
	// windowSeconds is the RMS window length.
	windowSeconds = 0.05
	// preRollSeconds is the attack padding added before detected speech so
	// onsets are not clipped.
	preRollSeconds = 0.1
	// minSpanSeconds is the anti-glitch floor: spans shorter than this are
	// discarded when they close.
	minSpanSeconds = 0.5

	// DefaultThreshold is the medium-intensity RMS threshold.
	DefaultThreshold = 0.02
	// DefaultMinSilence is the default minimum silence gap, in seconds,
	// before an open span closes.
	DefaultMinSilence = 0.4
)

// Span is one kept stretch of the analyzed source, in source time.
type Span struct {
	// SourceStart is the span's start offset into the source, seconds.
	SourceStart float64 `json:"sourceStart"`
	// Duration is the span length, seconds.
	Duration float64 `json:"duration"`
}

// End returns the exclusive end of the span in source time.
func (s Span) End() float64 { return s.SourceStart + s.Duration }

// Options tunes the analysis.
type Options struct {
	// Threshold is the RMS amplitude separating speech from silence,
	// typically within [0.001, 0.2]. Values <= 0 classify everything as
	// speech.
	Threshold float64
	// MinSilence is the silence length, in seconds, required before an
	// open span closes. Values <= 0 close a span on the first quiet
	// window.
	MinSilence float64
}

// DefaultOptions returns the medium-intensity analysis options.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, MinSilence: DefaultMinSilence}
}

// Analyze scans mono samples at the given rate and returns the speech
// spans, in source order.
//
// The samples are cut into 50ms windows and each window's RMS is compared
// against the threshold. A loud window while silent opens a span at the
// window start minus the pre-roll (clamped at zero). A quiet window while
// speaking only closes the span once the quiet stretch outlasts
// MinSilence; shorter dips stay inside the span. Spans below the 0.5s
// floor are dropped on close. A span still open at the end of input closes
// there, without the minimum-silence gate.
func Analyze(samples []float64, sampleRate int, opts Options) []Span {
	if len(samples) == 0 || sampleRate <= 0 {
		return nil
	}
	window := int(math.Round(float64(sampleRate) * windowSeconds))
	if window < 1 {
		window = 1
	}

	var (
		spans        []Span
		speaking     bool
		inSilence    bool
		spanStart    float64
		silenceStart float64
	)

	for i := 0; i < len(samples); i += window {
		end := i + window
		if end > len(samples) {
			end = len(samples)
		}
		windowStart := float64(i) / float64(sampleRate)
		loud := opts.Threshold <= 0 || rms(samples[i:end]) > opts.Threshold

		if loud {
			if !speaking {
				speaking = true
				spanStart = windowStart - preRollSeconds
				if spanStart < 0 {
					spanStart = 0
				}
			}
			inSilence = false
			continue
		}
		if !speaking {
			continue
		}
		if !inSilence {
			inSilence = true
			silenceStart = windowStart
		}
		windowEnd := float64(end) / float64(sampleRate)
		if windowEnd-silenceStart > opts.MinSilence {
			spans = closeSpan(spans, spanStart, silenceStart-spanStart)
			speaking = false
			inSilence = false
		}
	}

	if speaking {
		total := float64(len(samples)) / float64(sampleRate)
		spans = closeSpan(spans, spanStart, total-spanStart)
	}
	return spans
}

// closeSpan appends a finished span unless it falls under the anti-glitch
// floor.
func closeSpan(spans []Span, start, duration float64) []Span {
	if duration < minSpanSeconds {
		return spans
	}
	return append(spans, Span{SourceStart: start, Duration: duration})
}

// rms computes the root mean square of one window.
func rms(window []float64) float64 {
	if len(window) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range window {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(window)))
}
