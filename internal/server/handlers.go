package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/lukasclt/Lumina/internal/animation"
	"github.com/lukasclt/Lumina/internal/autocut"
	"github.com/lukasclt/Lumina/internal/media"
	"github.com/lukasclt/Lumina/internal/project"
	"github.com/lukasclt/Lumina/internal/silence"
	"github.com/lukasclt/Lumina/internal/storage"
	"github.com/lukasclt/Lumina/internal/timeline"
	"github.com/lukasclt/Lumina/internal/tools"
)

// DefaultFrameRate is the timecode rate used for EDL export when neither
// the request nor the configuration names one.
const DefaultFrameRate = 30.0

// Handlers contains the HTTP handlers for the editor API.
type Handlers struct {
	projects  *project.Service
	cutter    *autocut.Service
	assets    storage.Store
	registry  *tools.Registry
	probe     media.Decoder
	validator *validator.Validate
	logger    *slog.Logger
	frameRate float64
}

// HandlerOption is a function that configures a Handlers instance.
type HandlerOption func(*Handlers)

// WithFrameRate sets the default timecode rate for exports.
func WithFrameRate(fps float64) HandlerOption {
	return func(h *Handlers) {
		if fps > 0 {
			h.frameRate = fps
		}
	}
}

// WithDurationProbe makes uploads report the media duration. Without a
// probe the upload response simply omits it.
func WithDurationProbe(d media.Decoder) HandlerOption {
	return func(h *Handlers) {
		h.probe = d
	}
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(projects *project.Service, cutter *autocut.Service, assets storage.Store, registry *tools.Registry, logger *slog.Logger, opts ...HandlerOption) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handlers{
		projects:  projects,
		cutter:    cutter,
		assets:    assets,
		registry:  registry,
		validator: validator.New(),
		logger:    logger,
		frameRate: DefaultFrameRate,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles GET /health requests.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// CreateProject handles POST /projects requests.
func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	p, err := h.projects.Create(r.Context(), req.Name)
	if err != nil {
		h.logger.Error("failed to create project",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create project", "PROJECT_CREATE_FAILED")
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

// ListProjects handles GET /projects requests.
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list projects",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list projects", "PROJECT_LIST_FAILED")
		return
	}

	summaries := make([]ProjectSummary, 0, len(list))
	for _, p := range list {
		summaries = append(summaries, ProjectSummary{
			ID:        p.ID,
			Name:      p.Name,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, summaries)
}

// GetProject handles GET /projects/{id} requests.
func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// RenameProject handles PATCH /projects/{id} requests.
func (h *Handlers) RenameProject(w http.ResponseWriter, r *http.Request) {
	var req RenameProjectRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	p, err := h.projects.Rename(r.Context(), r.PathValue("id"), req.Name)
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProject handles DELETE /projects/{id} requests.
func (h *Handlers) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.respondDomainError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTrack handles POST /projects/{id}/tracks requests.
func (h *Handlers) AddTrack(w http.ResponseWriter, r *http.Request) {
	var req AddTrackRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	var track timeline.Track
	_, err := h.projects.Update(r.Context(), r.PathValue("id"), func(p *project.Project) error {
		var err error
		track, err = p.Timeline.AddTrack(timeline.TrackType(req.Type), req.Label)
		return err
	})
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, track)
}

// UpdateTrack handles PATCH /projects/{id}/tracks/{tid} requests.
func (h *Handlers) UpdateTrack(w http.ResponseWriter, r *http.Request) {
	trackID, ok := h.trackID(w, r)
	if !ok {
		return
	}
	var req UpdateTrackRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	var track timeline.Track
	_, err := h.projects.Update(r.Context(), r.PathValue("id"), func(p *project.Project) error {
		var err error
		track, err = p.Timeline.UpdateTrack(trackID, timeline.TrackPatch{
			Label:  req.Label,
			Locked: req.Locked,
			Hidden: req.Hidden,
			Muted:  req.Muted,
		})
		return err
	})
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, track)
}

// RemoveTrack handles DELETE /projects/{id}/tracks/{tid} requests.
func (h *Handlers) RemoveTrack(w http.ResponseWriter, r *http.Request) {
	trackID, ok := h.trackID(w, r)
	if !ok {
		return
	}

	var removedSegments int
	_, err := h.projects.Update(r.Context(), r.PathValue("id"), func(p *project.Project) error {
		var err error
		removedSegments, err = p.Timeline.RemoveTrack(trackID)
		return err
	})
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, RemoveTrackResponse{RemovedSegments: removedSegments})
}

// trackID parses the {tid} path segment.
func (h *Handlers) trackID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("tid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "track id must be an integer", "INVALID_TRACK_ID")
		return 0, false
	}
	return id, true
}

// decodeBody parses and validates a JSON request body. An empty body
// decodes as the zero struct so optional-body endpoints work; validation
// still applies. It writes the error response itself and reports success.
func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("failed to decode request body",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, "invalid JSON body", "INVALID_JSON")
		return false
	}

	if err := h.validator.Struct(into); err != nil {
		h.logger.Warn("request validation failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return false
	}
	return true
}

// currentSegment fetches a segment's present state for refusal responses.
// Best effort: a missing segment yields nil.
func (h *Handlers) currentSegment(ctx context.Context, projectID, segmentID string) any {
	p, err := h.projects.Get(ctx, projectID)
	if err != nil {
		return nil
	}
	if seg, ok := p.Timeline.Segment(segmentID); ok {
		return seg
	}
	return nil
}

// respondDomainError maps domain errors onto the API's status taxonomy:
// missing entities 404, locked/overlap/split refusals 409 with the
// unchanged state attached, decode failures 422, semantic validation 400,
// everything unexpected 500.
func (h *Handlers) respondDomainError(w http.ResponseWriter, err error, state any) {
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "project not found", "PROJECT_NOT_FOUND")
	case errors.Is(err, timeline.ErrTrackNotFound):
		writeError(w, http.StatusNotFound, "track not found", "TRACK_NOT_FOUND")
	case errors.Is(err, timeline.ErrSegmentNotFound):
		writeError(w, http.StatusNotFound, "segment not found", "SEGMENT_NOT_FOUND")
	case errors.Is(err, storage.ErrAssetNotFound):
		writeError(w, http.StatusNotFound, "asset not found", "ASSET_NOT_FOUND")
	case errors.Is(err, tools.ErrUnknownTool):
		writeError(w, http.StatusNotFound, "unknown tool", "TOOL_NOT_FOUND")
	case errors.Is(err, timeline.ErrTrackLocked):
		writeRefusal(w, "track is locked", "TRACK_LOCKED", state)
	case errors.Is(err, timeline.ErrSegmentLocked):
		writeRefusal(w, "segment is locked", "SEGMENT_LOCKED", state)
	case errors.Is(err, timeline.ErrOverlap):
		writeRefusal(w, "segments on a track must not overlap", "OVERLAP", state)
	case errors.Is(err, timeline.ErrSplitOutsideSegment):
		writeRefusal(w, "split time outside segment", "SPLIT_OUTSIDE_SEGMENT", state)
	case errors.Is(err, media.ErrDecodeFailed):
		writeError(w, http.StatusUnprocessableEntity, media.ErrDecodeFailed.Error(), "DECODE_FAILED")
	case errors.Is(err, timeline.ErrInvalidTrackType),
		errors.Is(err, animation.ErrUnknownProperty),
		errors.Is(err, animation.ErrUnknownPreset),
		errors.Is(err, silence.ErrUnknownIntensity),
		errors.Is(err, tools.ErrUnknownColorPreset),
		errors.Is(err, tools.ErrInvalidArgs):
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	default:
		h.logger.Error("request failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeRefusal writes a 409 for a mutation the model refused, carrying the
// unchanged entity so the client can resync.
func writeRefusal(w http.ResponseWriter, message, code string, state any) {
	writeJSON(w, http.StatusConflict, ErrorResponse{
		Error: message,
		Code:  code,
		State: state,
	})
}
