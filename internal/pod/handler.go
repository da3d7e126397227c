package pod

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/icedepot/icedepot/internal/platform/httpx"
	"github.com/icedepot/icedepot/internal/rbac"
	"github.com/icedepot/icedepot/internal/shared"
)

// Handler exposes proof-of-delivery photo endpoints.
type Handler struct {
	logger  *slog.Logger
	storage Storage
	rbac    rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, storage Storage, rbacMW rbac.Middleware) *Handler {
	return &Handler{logger: logger, storage: storage, rbac: rbacMW}
}

// MountRoutes registers POD routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermPodUpload))
		r.Post("/orders/{orderID}/photo", h.upload)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermPodDownload))
		r.Get("/photo", h.download)
	})
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid order id")
		return
	}

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "expected multipart form upload")
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "photo field required")
		return
	}
	defer file.Close()

	path, err := h.storage.Save(r.Context(), orderID, file)
	if err != nil {
		h.logger.Error("save pod photo failed", slog.Any("error", err), slog.Int64("order_id", orderID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"path": path})
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "path query parameter required")
		return
	}

	f, err := h.storage.Open(r.Context(), path)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, f); err != nil {
		h.logger.Error("stream pod photo failed", slog.Any("error", err), slog.String("path", path))
	}
}
