package server

import (
	"log/slog"
	"net/http"
)

// Config contains server configuration options.
type Config struct {
	// AllowedOrigins is the list of allowed CORS origins.
	AllowedOrigins []string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
	}
}

// NewRouter creates a new HTTP router with all routes configured.
// It uses Go 1.22+ ServeMux with method-based routing.
func NewRouter(h *Handlers, logger *slog.Logger, cfg Config) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", h.Health)

	// Projects
	mux.HandleFunc("POST /projects", h.CreateProject)
	mux.HandleFunc("GET /projects", h.ListProjects)
	mux.HandleFunc("GET /projects/{id}", h.GetProject)
	mux.HandleFunc("PATCH /projects/{id}", h.RenameProject)
	mux.HandleFunc("DELETE /projects/{id}", h.DeleteProject)

	// Tracks
	mux.HandleFunc("POST /projects/{id}/tracks", h.AddTrack)
	mux.HandleFunc("PATCH /projects/{id}/tracks/{tid}", h.UpdateTrack)
	mux.HandleFunc("DELETE /projects/{id}/tracks/{tid}", h.RemoveTrack)

	// Segments
	mux.HandleFunc("POST /projects/{id}/segments", h.AddSegment)
	mux.HandleFunc("PATCH /projects/{id}/segments/{sid}", h.UpdateSegment)
	mux.HandleFunc("POST /projects/{id}/segments/{sid}/split", h.SplitSegment)
	mux.HandleFunc("POST /projects/{id}/segments/{sid}/duplicate", h.DuplicateSegment)
	mux.HandleFunc("DELETE /projects/{id}/segments/{sid}", h.DeleteSegment)

	// Keyframes and animation
	mux.HandleFunc("PUT /projects/{id}/segments/{sid}/keyframes", h.SetKeyframe)
	mux.HandleFunc("DELETE /projects/{id}/segments/{sid}/keyframes", h.RemoveKeyframe)
	mux.HandleFunc("POST /projects/{id}/segments/{sid}/animation", h.Animation)
	mux.HandleFunc("GET /projects/{id}/segments/{sid}/curves", h.Curves)

	// Renderer read surface and exports
	mux.HandleFunc("GET /projects/{id}/state", h.State)
	mux.HandleFunc("POST /projects/{id}/autocut", h.AutoCut)
	mux.HandleFunc("GET /projects/{id}/export/edl", h.ExportEDL)
	mux.HandleFunc("POST /projects/{id}/export/render", h.ExportRender)

	// Assets
	mux.HandleFunc("POST /assets", h.UploadAsset)
	mux.HandleFunc("GET /assets/{id}", h.GetAsset)
	mux.HandleFunc("DELETE /assets/{id}", h.DeleteAsset)

	// Agent tools
	mux.HandleFunc("GET /tools", h.ListTools)
	mux.HandleFunc("POST /projects/{id}/tools/{name}", h.ExecuteTool)

	// Apply middleware chain
	chain := ChainMiddleware(
		RecoveryMiddleware(logger),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.AllowedOrigins),
	)

	return chain(mux)
}
