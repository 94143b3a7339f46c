package media

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strings"
)

// Static errors for media operations.
var (
	// ErrDecodeFailed is returned when a media file has no audio track the
	// decoder can read. Callers surface it as the analysis failure for the
	// whole auto-cut pipeline.
	ErrDecodeFailed = errors.New("media: could not analyze audio track")
	// ErrFFprobeExecution is returned when the ffprobe command fails.
	ErrFFprobeExecution = errors.New("media: ffprobe execution failed")
)

// AnalysisSampleRate is the rate waveforms are resampled to before silence
// analysis. RMS over 50ms windows needs far less resolution than playback,
// so decoding at 8kHz keeps buffers small without changing the result.
const AnalysisSampleRate = 8000

// FFmpegDecoder implements Decoder using the ffmpeg and ffprobe CLIs.
type FFmpegDecoder struct {
	// ffmpegPath is the path to the ffmpeg binary. Defaults to "ffmpeg".
	ffmpegPath string
	// ffprobePath is the path to the ffprobe binary. Defaults to "ffprobe".
	ffprobePath string
	// sampleRate is the analysis rate passed to ffmpeg's resampler.
	sampleRate int
}

var _ Decoder = (*FFmpegDecoder)(nil)

// NewFFmpegDecoder creates a new FFmpegDecoder.
// Empty paths default to "ffmpeg" and "ffprobe" (found via PATH).
func NewFFmpegDecoder(ffmpegPath, ffprobePath string) *FFmpegDecoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegDecoder{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		sampleRate:  AnalysisSampleRate,
	}
}

// DecodeWaveform extracts the audio track of the file at path as mono PCM.
// ffmpeg downmixes to one channel, resamples to the analysis rate and writes
// raw 16-bit little-endian samples to stdout, which are then normalized to
// [-1, 1].
func (d *FFmpegDecoder) DecodeWaveform(ctx context.Context, path string) (Waveform, error) {
	args := []string{
		"-i", path, // Input file
		"-vn",      // Disable video
		"-ac", "1", // Downmix to mono
		"-ar", fmt.Sprintf("%d", d.sampleRate), // Analysis sample rate
		"-f", "s16le", // Raw 16-bit little-endian PCM
		"-", // Output to stdout
	}

	// #nosec G204 - ffmpegPath is set by the application, not user input
	cmd := exec.CommandContext(ctx, d.ffmpegPath, args...)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Waveform{}, fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return Waveform{}, fmt.Errorf("%w: %w, stderr: %s", ErrDecodeFailed, err, stderr.String())
	}

	samples := decodePCM16(stdout.Bytes())
	if len(samples) == 0 {
		return Waveform{}, fmt.Errorf("%w: no audio samples in %s", ErrDecodeFailed, path)
	}

	return Waveform{Samples: samples, SampleRate: d.sampleRate}, nil
}

// ProbeDuration returns the duration in seconds of a media file.
// It uses ffprobe to extract the duration metadata.
func (d *FFmpegDecoder) ProbeDuration(ctx context.Context, path string) (float64, error) {
	// #nosec G204 - ffprobePath is set by the application, not user input
	cmd := exec.CommandContext(ctx, d.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("ffprobe cancelled: %w", ctx.Err())
		}
		return 0, fmt.Errorf("%w: %w, stderr: %s", ErrFFprobeExecution, err, stderr.String())
	}

	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(stdout.String()), "%f", &duration); err != nil {
		return 0, fmt.Errorf("parse duration: %w", err)
	}

	return duration, nil
}

// decodePCM16 converts raw 16-bit little-endian PCM bytes to normalized
// float64 samples. A trailing incomplete sample is dropped.
func decodePCM16(raw []byte) []float64 {
	n := len(raw) / 2
	if n == 0 {
		return nil
	}
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float64(v) / math.MaxInt16
	}
	return samples
}
