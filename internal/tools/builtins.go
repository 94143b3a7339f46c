package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lukasclt/Lumina/internal/animation"
	"github.com/lukasclt/Lumina/internal/autocut"
	"github.com/lukasclt/Lumina/internal/project"
	"github.com/lukasclt/Lumina/internal/silence"
	"github.com/lukasclt/Lumina/internal/timeline"
)

type autoCutArgs struct {
	TrackID    int      `json:"trackId" validate:"min=0"`
	AssetID    string   `json:"assetId" validate:"required"`
	Intensity  string   `json:"intensity" validate:"omitempty,oneof=low medium high"`
	Threshold  *float64 `json:"threshold" validate:"omitempty,min=0"`
	MinSilence *float64 `json:"minSilence" validate:"omitempty,gt=0"`
}

type splitSegmentArgs struct {
	SegmentID string  `json:"segmentId" validate:"required"`
	AtTime    float64 `json:"atTime" validate:"gt=0"`
}

type moveSegmentArgs struct {
	SegmentID string  `json:"segmentId" validate:"required"`
	Start     float64 `json:"start" validate:"min=0"`
	TrackID   *int    `json:"trackId" validate:"omitempty,min=0"`
}

type resizeSegmentArgs struct {
	SegmentID string  `json:"segmentId" validate:"required"`
	Edge      string  `json:"edge" validate:"required,oneof=left right"`
	To        float64 `json:"to" validate:"min=0"`
}

type deleteSegmentArgs struct {
	SegmentID string `json:"segmentId" validate:"required"`
}

type duplicateSegmentArgs struct {
	SegmentID string  `json:"segmentId" validate:"required"`
	NewStart  float64 `json:"newStart" validate:"min=0"`
	TrackID   *int    `json:"trackId" validate:"omitempty,min=0"`
}

type addTextSegmentArgs struct {
	TrackID  int            `json:"trackId" validate:"min=0"`
	Start    float64        `json:"start" validate:"min=0"`
	Duration float64        `json:"duration" validate:"gt=0"`
	Content  string         `json:"content" validate:"required"`
	Label    string         `json:"label"`
	Style    map[string]any `json:"style"`
}

type setPropertyArgs struct {
	SegmentID string   `json:"segmentId" validate:"required"`
	Property  string   `json:"property" validate:"required"`
	Value     float64  `json:"value"`
	Playhead  *float64 `json:"playhead" validate:"omitempty,min=0"`
}

type toggleAnimationArgs struct {
	SegmentID string  `json:"segmentId" validate:"required"`
	Property  string  `json:"property" validate:"required"`
	Enabled   bool    `json:"enabled"`
	Playhead  float64 `json:"playhead" validate:"min=0"`
}

type motionPresetArgs struct {
	SegmentID string  `json:"segmentId" validate:"required"`
	Preset    string  `json:"preset" validate:"required"`
	Playhead  float64 `json:"playhead" validate:"min=0"`
}

type colorPresetArgs struct {
	SegmentID string `json:"segmentId" validate:"required"`
	Preset    string `json:"preset" validate:"required"`
}

func (r *Registry) registerBuiltins() {
	r.register(Descriptor{
		Name:        "auto_cut",
		Description: "Analyze a track's source audio and replace the track contents with back-to-back segments covering only the loud (non-silent) parts.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"trackId": {"type": "integer", "description": "Track to rebuild. Track 0 is the main video track."},
				"assetId": {"type": "string", "description": "Uploaded media asset to analyze."},
				"intensity": {"type": "string", "enum": ["low", "medium", "high"], "description": "Cut aggressiveness. Higher removes more."},
				"threshold": {"type": "number", "description": "Explicit RMS loudness threshold, overrides intensity."},
				"minSilence": {"type": "number", "description": "Shortest silence in seconds worth cutting."}
			},
			"required": ["trackId", "assetId"]
		}`),
	}, r.runAutoCut)

	r.register(Descriptor{
		Name:        "split_segment",
		Description: "Cut a segment in two at an absolute timeline time strictly inside it.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"segmentId": {"type": "string"},
				"atTime": {"type": "number", "description": "Absolute timeline time in seconds."}
			},
			"required": ["segmentId", "atTime"]
		}`),
	}, r.runSplitSegment)

	r.register(Descriptor{
		Name:        "move_segment",
		Description: "Move a segment to a new start time, optionally onto another track.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"segmentId": {"type": "string"},
				"start": {"type": "number", "description": "New start time in seconds."},
				"trackId": {"type": "integer", "description": "Target track. Omit to stay on the current track."}
			},
			"required": ["segmentId", "start"]
		}`),
	}, r.runMoveSegment)

	r.register(Descriptor{
		Name:        "resize_segment",
		Description: "Drag one edge of a segment to a new absolute time. The left edge trims into the source material, the right edge changes the duration.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"segmentId": {"type": "string"},
				"edge": {"type": "string", "enum": ["left", "right"]},
				"to": {"type": "number", "description": "Absolute timeline time in seconds to drag the edge to."}
			},
			"required": ["segmentId", "edge", "to"]
		}`),
	}, r.runResizeSegment)

	r.register(Descriptor{
		Name:        "delete_segment",
		Description: "Remove a segment from the timeline.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"segmentId": {"type": "string"}
			},
			"required": ["segmentId"]
		}`),
	}, r.runDeleteSegment)

	r.register(Descriptor{
		Name:        "duplicate_segment",
		Description: "Copy a segment to a new start time under a fresh id, optionally onto another track.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"segmentId": {"type": "string"},
				"newStart": {"type": "number", "description": "Start time in seconds for the copy."},
				"trackId": {"type": "integer", "description": "Target track. Omit to copy onto the same track."}
			},
			"required": ["segmentId", "newStart"]
		}`),
	}, r.runDuplicateSegment)

	r.register(Descriptor{
		Name:        "add_text_segment",
		Description: "Place a new text segment on a track.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"trackId": {"type": "integer"},
				"start": {"type": "number"},
				"duration": {"type": "number"},
				"content": {"type": "string", "description": "The text to display."},
				"label": {"type": "string", "description": "Display name in the timeline. Defaults to the content."},
				"style": {"type": "object", "description": "Opaque styling passed through to the renderer."}
			},
			"required": ["trackId", "start", "duration", "content"]
		}`),
	}, r.runAddTextSegment)

	r.register(Descriptor{
		Name:        "set_property",
		Description: "Set an animatable property on a segment. Writes the base value, or a keyframe at the playhead when the property is animated.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"segmentId": {"type": "string"},
				"property": {"type": "string", "description": "Property path like opacity, transform.scale or effects.blur."},
				"value": {"type": "number"},
				"playhead": {"type": "number", "description": "Absolute timeline time in seconds. Used when the property is animated."}
			},
			"required": ["segmentId", "property", "value"]
		}`),
	}, r.runSetProperty)

	r.register(Descriptor{
		Name:        "toggle_animation",
		Description: "Enable or disable keyframe animation for a property on a segment. Enabling seeds a keyframe at the playhead from the current value; disabling bakes the playhead value back into the base.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"segmentId": {"type": "string"},
				"property": {"type": "string"},
				"enabled": {"type": "boolean"},
				"playhead": {"type": "number", "description": "Absolute timeline time in seconds."}
			},
			"required": ["segmentId", "property", "enabled"]
		}`),
	}, r.runToggleAnimation)

	r.register(Descriptor{
		Name:        "apply_motion_preset",
		Description: "Apply a canned entrance animation to a segment, anchored at the playhead: zoom in, slide in, typewriter or linear wipe.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"segmentId": {"type": "string"},
				"preset": {"type": "string", "enum": ["zoom in", "slide in", "typewriter", "linear wipe"]},
				"playhead": {"type": "number", "description": "Absolute timeline time in seconds."}
			},
			"required": ["segmentId", "preset"]
		}`),
	}, r.runApplyMotionPreset)

	r.register(Descriptor{
		Name:        "apply_color_preset",
		Description: "Apply a color grade to a segment as a bundle of effect values: cinematic, vivid, noir, warm or cool.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"segmentId": {"type": "string"},
				"preset": {"type": "string", "enum": ["cinematic", "vivid", "noir", "warm", "cool"]}
			},
			"required": ["segmentId", "preset"]
		}`),
	}, r.runApplyColorPreset)
}

// updateTimeline funnels a timeline mutation through the project service so
// the read-modify-write cycle stays serialized and persisted.
func (r *Registry) updateTimeline(ctx context.Context, projectID string, fn func(doc *timeline.Document) error) (*project.Project, error) {
	return r.projects.Update(ctx, projectID, func(p *project.Project) error {
		return fn(p.Timeline)
	})
}

func (r *Registry) runAutoCut(ctx context.Context, projectID string, raw json.RawMessage) (*Result, error) {
	var args autoCutArgs
	if err := r.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	localPath, err := r.assets.LocalPath(ctx, args.AssetID)
	if err != nil {
		return nil, err
	}

	var cut *autocut.Result
	p, err := r.updateTimeline(ctx, projectID, func(doc *timeline.Document) error {
		var err error
		cut, err = r.cutter.Apply(ctx, doc, autocut.Request{
			TrackID:    args.TrackID,
			Path:       localPath,
			Src:        "/assets/" + args.AssetID,
			Intensity:  silence.Intensity(args.Intensity),
			Threshold:  args.Threshold,
			MinSilence: args.MinSilence,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary: fmt.Sprintf("auto-cut kept %d segments (%.2fs) and removed %.2fs of silence on track %d",
			len(cut.Segments), cut.KeptSeconds, cut.RemovedSeconds, args.TrackID),
		Project: p,
		Data:    cut,
	}, nil
}

func (r *Registry) runSplitSegment(ctx context.Context, projectID string, raw json.RawMessage) (*Result, error) {
	var args splitSegmentArgs
	if err := r.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	var right *timeline.Segment
	p, err := r.updateTimeline(ctx, projectID, func(doc *timeline.Document) error {
		var err error
		right, err = doc.SplitSegment(args.SegmentID, args.AtTime)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary: fmt.Sprintf("split segment %s at %.2fs into %s", args.SegmentID, args.AtTime, right.ID),
		Project: p,
		Data:    right,
	}, nil
}

func (r *Registry) runMoveSegment(ctx context.Context, projectID string, raw json.RawMessage) (*Result, error) {
	var args moveSegmentArgs
	if err := r.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	var moved *timeline.Segment
	p, err := r.updateTimeline(ctx, projectID, func(doc *timeline.Document) error {
		trackID, err := resolveTrackID(doc, args.SegmentID, args.TrackID)
		if err != nil {
			return err
		}
		moved, err = doc.MoveSegment(args.SegmentID, args.Start, trackID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary: fmt.Sprintf("moved segment %s to %.2fs on track %d", moved.ID, moved.Start, moved.TrackID),
		Project: p,
		Data:    moved,
	}, nil
}

func (r *Registry) runResizeSegment(ctx context.Context, projectID string, raw json.RawMessage) (*Result, error) {
	var args resizeSegmentArgs
	if err := r.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	var resized *timeline.Segment
	p, err := r.updateTimeline(ctx, projectID, func(doc *timeline.Document) error {
		var err error
		if args.Edge == "left" {
			resized, err = doc.ResizeSegmentLeft(args.SegmentID, args.To)
			return err
		}
		seg, ok := doc.Segment(args.SegmentID)
		if !ok {
			return timeline.ErrSegmentNotFound
		}
		resized, err = doc.ResizeSegmentRight(args.SegmentID, args.To-seg.Start)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary: fmt.Sprintf("resized segment %s to %.2fs - %.2fs", resized.ID, resized.Start, resized.End()),
		Project: p,
		Data:    resized,
	}, nil
}

func (r *Registry) runDeleteSegment(ctx context.Context, projectID string, raw json.RawMessage) (*Result, error) {
	var args deleteSegmentArgs
	if err := r.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	p, err := r.updateTimeline(ctx, projectID, func(doc *timeline.Document) error {
		removed, err := doc.RemoveSegment(args.SegmentID)
		if err != nil {
			return err
		}
		if !removed {
			return timeline.ErrSegmentNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary: fmt.Sprintf("deleted segment %s", args.SegmentID),
		Project: p,
	}, nil
}

func (r *Registry) runDuplicateSegment(ctx context.Context, projectID string, raw json.RawMessage) (*Result, error) {
	var args duplicateSegmentArgs
	if err := r.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	var dup *timeline.Segment
	p, err := r.updateTimeline(ctx, projectID, func(doc *timeline.Document) error {
		trackID, err := resolveTrackID(doc, args.SegmentID, args.TrackID)
		if err != nil {
			return err
		}
		dup, err = doc.DuplicateSegment(args.SegmentID, args.NewStart, trackID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary: fmt.Sprintf("duplicated segment %s as %s at %.2fs", args.SegmentID, dup.ID, dup.Start),
		Project: p,
		Data:    dup,
	}, nil
}

func (r *Registry) runAddTextSegment(ctx context.Context, projectID string, raw json.RawMessage) (*Result, error) {
	var args addTextSegmentArgs
	if err := r.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	var placed *timeline.Segment
	p, err := r.updateTimeline(ctx, projectID, func(doc *timeline.Document) error {
		seg := timeline.NewSegment(args.TrackID, args.Start, args.Duration)
		seg.Content = args.Content
		seg.Label = args.Label
		if seg.Label == "" {
			seg.Label = args.Content
		}
		seg.Style = args.Style

		var err error
		placed, err = doc.AddSegment(seg)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary: fmt.Sprintf("added text segment %s (%q) at %.2fs on track %d", placed.ID, args.Content, placed.Start, placed.TrackID),
		Project: p,
		Data:    placed,
	}, nil
}

func (r *Registry) runSetProperty(ctx context.Context, projectID string, raw json.RawMessage) (*Result, error) {
	var args setPropertyArgs
	if err := r.decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	prop, err := animation.ParseProperty(args.Property)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}

	playhead := 0.0
	if args.Playhead != nil {
		playhead = *args.Playhead
	}

	var seg *timeline.Segment
	p, err := r.updateTimeline(ctx, projectID, func(doc *timeline.Document) error {
		var err error
		seg, err = doc.SetProperty(args.SegmentID, prop, args.Value, playhead)
		return err
	})
	if err != nil {
		return nil, err
	}

	summary := fmt.Sprintf("set %s to %v on segment %s", prop, args.Value, seg.ID)
	if animation.Animated(seg.Animations, prop) {
		summary = fmt.Sprintf("keyed %s to %v at %.2fs on segment %s", prop, args.Value, playhead, seg.ID)
	}
	return &Result{Summary: summary, Project: p, Data: seg}, nil
}

func (r *Registry) runToggleAnimation(ctx context.Context, projectID string, raw json.RawMessage) (*Result, error) {
	var args toggleAnimationArgs
	if err := r.decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	prop, err := animation.ParseProperty(args.Property)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgs, err)
	}

	var seg *timeline.Segment
	p, err := r.updateTimeline(ctx, projectID, func(doc *timeline.Document) error {
		var err error
		seg, err = doc.ToggleAnimation(args.SegmentID, prop, args.Enabled, args.Playhead)
		return err
	})
	if err != nil {
		return nil, err
	}

	verb := "disabled"
	if args.Enabled {
		verb = "enabled"
	}
	return &Result{
		Summary: fmt.Sprintf("%s animation for %s on segment %s", verb, prop, seg.ID),
		Project: p,
		Data:    seg,
	}, nil
}

func (r *Registry) runApplyMotionPreset(ctx context.Context, projectID string, raw json.RawMessage) (*Result, error) {
	var args motionPresetArgs
	if err := r.decodeArgs(raw, &args); err != nil {
		return nil, err
	}

	var seg *timeline.Segment
	p, err := r.updateTimeline(ctx, projectID, func(doc *timeline.Document) error {
		var err error
		seg, err = doc.ApplyMotionPreset(args.SegmentID, animation.MotionPreset(args.Preset), args.Playhead)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary: fmt.Sprintf("applied %s preset to segment %s", args.Preset, seg.ID),
		Project: p,
		Data:    seg,
	}, nil
}

func (r *Registry) runApplyColorPreset(ctx context.Context, projectID string, raw json.RawMessage) (*Result, error) {
	var args colorPresetArgs
	if err := r.decodeArgs(raw, &args); err != nil {
		return nil, err
	}
	grade, err := ColorPresetEffects(ColorPreset(args.Preset))
	if err != nil {
		return nil, err
	}

	var seg *timeline.Segment
	p, err := r.updateTimeline(ctx, projectID, func(doc *timeline.Document) error {
		current, ok := doc.Segment(args.SegmentID)
		if !ok {
			return timeline.ErrSegmentNotFound
		}
		effects := mergeEffects(current.Effects, grade)

		var err error
		seg, err = doc.UpdateSegment(args.SegmentID, timeline.SegmentPatch{Effects: &effects})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary: fmt.Sprintf("applied %s color grade to segment %s", args.Preset, seg.ID),
		Project: p,
		Data:    seg,
	}, nil
}

// resolveTrackID picks the target track for a move or duplicate: the
// explicit argument when given, otherwise the segment's current track.
func resolveTrackID(doc *timeline.Document, segmentID string, explicit *int) (int, error) {
	if explicit != nil {
		return *explicit, nil
	}
	seg, ok := doc.Segment(segmentID)
	if !ok {
		return 0, timeline.ErrSegmentNotFound
	}
	return seg.TrackID, nil
}
