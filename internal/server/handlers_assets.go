package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/lukasclt/Lumina/internal/autocut"
	"github.com/lukasclt/Lumina/internal/export"
	"github.com/lukasclt/Lumina/internal/project"
	"github.com/lukasclt/Lumina/internal/silence"
)

// maxToolArgBytes bounds the argument payload of one tool call.
const maxToolArgBytes = 1 << 20

// UploadAsset handles POST /assets requests: a multipart upload with the
// media in the "file" field.
func (h *Handlers) UploadAsset(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field \"file\" is required", "MISSING_FILE")
		return
	}
	defer file.Close()

	asset, err := h.assets.Save(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("asset upload failed",
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to store asset", "UPLOAD_FAILED")
		return
	}

	h.logger.Info("asset uploaded",
		slog.String("asset_id", asset.ID),
		slog.String("filename", asset.Name),
		slog.Int64("size", asset.Size),
	)

	writeJSON(w, http.StatusCreated, UploadAssetResponse{
		ID:       asset.ID,
		Name:     asset.Name,
		Size:     asset.Size,
		URL:      asset.URL,
		Duration: h.probeDuration(r.Context(), asset.ID),
	})
}

// probeDuration asks ffprobe for an uploaded asset's duration. Best
// effort: non-media uploads and missing probes report zero.
func (h *Handlers) probeDuration(ctx context.Context, assetID string) float64 {
	if h.probe == nil {
		return 0
	}
	path, err := h.assets.LocalPath(ctx, assetID)
	if err != nil {
		return 0
	}
	dur, err := h.probe.ProbeDuration(ctx, path)
	if err != nil {
		h.logger.Debug("duration probe failed",
			slog.String("asset_id", assetID),
			slog.String("error", err.Error()),
		)
		return 0
	}
	return dur
}

// GetAsset handles GET /assets/{id} requests, streaming the media with
// range support so the browser can seek.
func (h *Handlers) GetAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	path, err := h.assets.LocalPath(r.Context(), id)
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}
	f, err := os.Open(path) // #nosec G304 -- path comes from the store, not the request
	if err != nil {
		h.logger.Error("asset open failed",
			slog.String("asset_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to open asset", "ASSET_OPEN_FAILED")
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to stat asset", "ASSET_OPEN_FAILED")
		return
	}
	http.ServeContent(w, r, id, info.ModTime(), f)
}

// DeleteAsset handles DELETE /assets/{id} requests. Deleting an absent
// asset succeeds, matching the store contract.
func (h *Handlers) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.assets.Delete(r.Context(), id); err != nil {
		h.logger.Error("asset delete failed",
			slog.String("asset_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to delete asset", "ASSET_DELETE_FAILED")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AutoCut handles POST /projects/{id}/autocut requests: analyze an
// uploaded asset's audio and rebuild the target track from its loud spans.
// With preview set, the analysis is returned without touching the timeline.
func (h *Handlers) AutoCut(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")

	var req AutoCutRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	localPath, err := h.assets.LocalPath(r.Context(), req.AssetID)
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}

	cutReq := autocut.Request{
		TrackID:    req.TrackID,
		Path:       localPath,
		Src:        "/assets/" + req.AssetID,
		Intensity:  silence.Intensity(req.Intensity),
		Threshold:  req.Threshold,
		MinSilence: req.MinSilence,
	}

	if req.Preview {
		result, err := h.cutter.Preview(r.Context(), cutReq)
		if err != nil {
			h.respondDomainError(w, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	var result *autocut.Result
	_, err = h.projects.Update(r.Context(), projectID, func(p *project.Project) error {
		var err error
		result, err = h.cutter.Apply(r.Context(), p.Timeline, cutReq)
		return err
	})
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// ExportEDL handles GET /projects/{id}/export/edl requests, rendering the
// main video track as a CMX 3600 edit decision list. The fps query
// parameter overrides the configured timecode rate.
func (h *Handlers) ExportEDL(w http.ResponseWriter, r *http.Request) {
	fps, ok := h.floatQuery(w, r, "fps", h.frameRate)
	if !ok {
		return
	}
	if fps <= 0 {
		writeError(w, http.StatusBadRequest, "fps must be positive", "VALIDATION_ERROR")
		return
	}

	p, err := h.projects.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}

	edl := export.GenerateEDL(p.Timeline, p.Name, fps)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+p.ID+`.edl"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, edl); err != nil {
		h.logger.Error("EDL write failed", slog.String("error", err.Error()))
	}
}

// ExportRender handles POST /projects/{id}/export/render requests. Encoding
// happens client-side; the server keeps the route as an explicit stub.
func (h *Handlers) ExportRender(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, "server-side rendering is not implemented", "NOT_IMPLEMENTED")
}

// ListTools handles GET /tools requests with the registry's descriptors.
func (h *Handlers) ListTools(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

// ExecuteTool handles POST /projects/{id}/tools/{name} requests, passing
// the raw JSON body to the named tool as its arguments.
func (h *Handlers) ExecuteTool(w http.ResponseWriter, r *http.Request) {
	projectID, name := r.PathValue("id"), r.PathValue("name")

	args, err := io.ReadAll(io.LimitReader(r.Body, maxToolArgBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body", "INVALID_BODY")
		return
	}

	result, err := h.registry.Execute(r.Context(), projectID, name, args)
	if err != nil {
		h.respondDomainError(w, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
