package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sss/internal/roles/models"
	scmodels "sss/internal/stablecoin/models"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/platform/httputil"
	"sss/pkg/requestcontext"
)

// Service defines the interface for role management operations.
type Service interface {
	UpdateRoles(ctx context.Context, stablecoin, holder id.Address, caps models.Capabilities) (*models.Role, error)
	UpdateMinterQuota(ctx context.Context, stablecoin, minter id.Address, quota uint64, epochDuration int64) (*models.MinterQuota, error)
	Role(ctx context.Context, stablecoin, holder id.Address) (*models.Role, error)
}

// Handler wires role management endpoints to the roles service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a roles handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts role endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Put("/stablecoins/{mint}/roles/{holder}", h.HandleUpdateRoles)
	r.Get("/stablecoins/{mint}/roles/{holder}", h.HandleGetRole)
	r.Put("/stablecoins/{mint}/minters/{minter}", h.HandleUpdateMinter)
}

// HandleUpdateRoles handles PUT /stablecoins/{mint}/roles/{holder}.
func (h *Handler) HandleUpdateRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mint, err := id.ParseAddress(chi.URLParam(r, "mint"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	holder, err := id.ParseAddress(chi.URLParam(r, "holder"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[UpdateRolesRequest](w, r)
	if !ok {
		return
	}

	role, err := h.service.UpdateRoles(ctx, scmodels.AddressForMint(mint), holder, req.Capabilities())
	if err != nil {
		h.logger.ErrorContext(ctx, "role update failed",
			"request_id", requestcontext.RequestID(ctx),
			"mint", mint,
			"holder", holder,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRole(role))
}

// HandleGetRole handles GET /stablecoins/{mint}/roles/{holder}.
func (h *Handler) HandleGetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mint, err := id.ParseAddress(chi.URLParam(r, "mint"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	holder, err := id.ParseAddress(chi.URLParam(r, "holder"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	role, err := h.service.Role(ctx, scmodels.AddressForMint(mint), holder)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromRole(role))
}

// HandleUpdateMinter handles PUT /stablecoins/{mint}/minters/{minter}.
func (h *Handler) HandleUpdateMinter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	mint, err := id.ParseAddress(chi.URLParam(r, "mint"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	minter, err := id.ParseAddress(chi.URLParam(r, "minter"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[UpdateMinterRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	quota, err := h.service.UpdateMinterQuota(ctx, scmodels.AddressForMint(mint), minter, req.Quota, req.EpochDuration)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeForbidden) {
			h.logger.ErrorContext(ctx, "minter quota update failed",
				"request_id", requestcontext.RequestID(ctx),
				"mint", mint,
				"minter", minter,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromQuota(quota))
}
