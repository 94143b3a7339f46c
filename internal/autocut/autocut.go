// Package autocut removes silent passages from a clip by analyzing its audio
// track and rebuilding the clip's timeline track from the loud spans.
package autocut

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lukasclt/Lumina/internal/media"
	"github.com/lukasclt/Lumina/internal/silence"
	"github.com/lukasclt/Lumina/internal/timeline"
)

// Request describes one auto-cut run.
type Request struct {
	// TrackID is the timeline track whose content is replaced by the cut.
	TrackID int
	// Path is the local filesystem path of the media file to analyze.
	Path string
	// Src is the media reference written onto the produced segments. When
	// empty, Path is used.
	Src string
	// Intensity selects a threshold preset. Empty means custom options.
	Intensity silence.Intensity
	// Threshold overrides the RMS loudness threshold when non-nil.
	Threshold *float64
	// MinSilence overrides the minimum silence duration when non-nil.
	MinSilence *float64
}

// Result reports what an auto-cut run produced.
type Result struct {
	// Spans are the loud spans found in the source media.
	Spans []silence.Span `json:"spans"`
	// Segments is the rebuilt track content, laid out back to back from 0.
	Segments []timeline.Segment `json:"segments"`
	// SourceDuration is the analyzed media duration in seconds.
	SourceDuration float64 `json:"sourceDuration"`
	// KeptSeconds is the total duration of the kept spans.
	KeptSeconds float64 `json:"keptSeconds"`
	// RemovedSeconds is the silence removed from the source.
	RemovedSeconds float64 `json:"removedSeconds"`
}

// Service runs the auto-cut pipeline: decode the audio track, find the loud
// spans, and lay them back to back on the target timeline track.
type Service struct {
	decoder media.Decoder
	logger  *slog.Logger
}

// NewService creates a new auto-cut Service.
func NewService(decoder media.Decoder, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{decoder: decoder, logger: logger}
}

// Apply runs the pipeline against doc. The target track keeps its identity
// and flags; only its segments are replaced. Decode failures surface the
// decoder's error unchanged so callers can tell them apart from timeline
// refusals.
func (s *Service) Apply(ctx context.Context, doc *timeline.Document, req Request) (*Result, error) {
	track, ok := doc.Track(req.TrackID)
	if !ok {
		return nil, timeline.ErrTrackNotFound
	}
	if track.Locked {
		return nil, timeline.ErrTrackLocked
	}

	result, spans, err := s.analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	src := req.Src
	if src == "" {
		src = req.Path
	}
	applied, err := doc.ReplaceTrackSegments(req.TrackID, layout(spans, req.TrackID, src))
	if err != nil {
		return nil, err
	}
	result.Segments = make([]timeline.Segment, len(applied))
	for i, seg := range applied {
		result.Segments[i] = *seg
	}

	s.logger.Info("auto-cut applied",
		slog.Int("track_id", req.TrackID),
		slog.Int("segments", len(result.Segments)),
		slog.Float64("kept_seconds", result.KeptSeconds),
		slog.Float64("removed_seconds", result.RemovedSeconds),
	)

	return result, nil
}

// Preview runs decode and analysis without touching the timeline.
func (s *Service) Preview(ctx context.Context, req Request) (*Result, error) {
	result, _, err := s.analyze(ctx, req)
	return result, err
}

// analyze decodes the source and finds its loud spans.
func (s *Service) analyze(ctx context.Context, req Request) (*Result, []silence.Span, error) {
	waveform, err := s.decoder.DecodeWaveform(ctx, req.Path)
	if err != nil {
		s.logger.Error("auto-cut decode failed",
			slog.String("path", req.Path),
			slog.String("error", err.Error()),
		)
		return nil, nil, err
	}

	spans := silence.Analyze(waveform.Samples, waveform.SampleRate, resolveOptions(req))

	result := &Result{Spans: spans, SourceDuration: waveform.Duration()}
	for _, span := range spans {
		result.KeptSeconds += span.Duration
	}
	result.RemovedSeconds = result.SourceDuration - result.KeptSeconds
	if result.RemovedSeconds < 0 {
		result.RemovedSeconds = 0
	}
	return result, spans, nil
}

// resolveOptions builds segmenter options from the request: intensity preset
// first, explicit overrides on top.
func resolveOptions(req Request) silence.Options {
	opts := silence.DefaultOptions()
	if req.Intensity != "" {
		if preset, err := silence.OptionsForIntensity(req.Intensity); err == nil {
			opts = preset
		}
	}
	if req.Threshold != nil {
		opts.Threshold = *req.Threshold
	}
	if req.MinSilence != nil {
		opts.MinSilence = *req.MinSilence
	}
	return opts
}

// layout converts loud spans into segments placed back to back from 0, each
// offset into the source at the span it keeps.
func layout(spans []silence.Span, trackID int, src string) []*timeline.Segment {
	segments := make([]*timeline.Segment, 0, len(spans))
	var cursor float64
	for i, span := range spans {
		seg := timeline.NewSegment(trackID, cursor, span.Duration)
		seg.SourceOffset = span.SourceStart
		seg.Src = src
		seg.Label = fmt.Sprintf("Cut %d", i+1)
		segments = append(segments, seg)
		cursor += span.Duration
	}
	return segments
}
