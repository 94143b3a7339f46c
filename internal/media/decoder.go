// Package media provides audio decoding for waveform analysis.
package media

import "context"

// Waveform is a decoded mono audio signal ready for analysis.
// Samples are normalized to [-1, 1].
type Waveform struct {
	// Samples holds the mono PCM samples in decode order.
	Samples []float64
	// SampleRate is the number of samples per second.
	SampleRate int
}

// Duration returns the length of the waveform in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Decoder defines the interface for extracting audio data from media files.
// Implementations should use ffmpeg or similar tools for demuxing and
// resampling.
type Decoder interface {
	// DecodeWaveform extracts the audio track of the media file at path as a
	// mono waveform, downmixed and resampled to an analysis-friendly rate.
	// Files with no readable audio track fail with an error wrapping
	// ErrDecodeFailed.
	DecodeWaveform(ctx context.Context, path string) (Waveform, error)

	// ProbeDuration returns the duration in seconds of the media file at path.
	ProbeDuration(ctx context.Context, path string) (float64, error)
}
