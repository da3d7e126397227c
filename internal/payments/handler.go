package payments

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/icedepot/icedepot/internal/auth"
	"github.com/icedepot/icedepot/internal/platform/httpx"
	"github.com/icedepot/icedepot/internal/rbac"
	"github.com/icedepot/icedepot/internal/shared"
)

// IdempotencyKeyHeader carries the optional duplicate-submission guard.
const IdempotencyKeyHeader = "Idempotency-Key"

// Handler exposes payment endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
	rbac     rbac.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, rbacMW rbac.Middleware) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		rbac:     rbacMW,
	}
}

// MountRoutes registers payment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(shared.PermPaymentView))
		r.Get("/", h.index)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAll(shared.PermPaymentRecord))
		r.Post("/", h.record)
	})
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	idx, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("payments index failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, idx)
}

func (h *Handler) record(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	recordedBy := "unknown"
	if principal := auth.PrincipalFromContext(r.Context()); principal != nil {
		recordedBy = principal.Name
	}

	payment, err := h.service.Record(r.Context(), recordedBy, r.Header.Get(IdempotencyKeyHeader), req)
	if err != nil {
		h.logger.Error("record payment failed", slog.Any("error", err), slog.Int64("order_id", req.OrderID))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}
