package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sss/internal/compliance/models"
	scmodels "sss/internal/stablecoin/models"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/platform/httputil"
	"sss/pkg/requestcontext"
)

// Service defines the interface for compliance operations.
type Service interface {
	AddToBlacklist(ctx context.Context, stablecoin, target id.Address, reason string) (*models.BlacklistEntry, error)
	RemoveFromBlacklist(ctx context.Context, stablecoin, target id.Address) error
	BatchBlacklist(ctx context.Context, stablecoin id.Address, targets []id.Address, reason string) error
	Seize(ctx context.Context, stablecoin, source, destination id.Address) (uint64, error)
	ConfigureTransferLimits(ctx context.Context, stablecoin id.Address, maxPerTransfer, maxPerDay uint64) (*models.TransferLimitConfig, error)
	CheckTransfer(ctx context.Context, stablecoin, source, destination id.Address, amount uint64) error
}

// Handler wires compliance endpoints to the compliance service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a compliance handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts compliance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/stablecoins/{mint}/blacklist", h.HandleAddToBlacklist)
	r.Delete("/stablecoins/{mint}/blacklist/{address}", h.HandleRemoveFromBlacklist)
	r.Post("/stablecoins/{mint}/batch/blacklist", h.HandleBatchBlacklist)
	r.Post("/stablecoins/{mint}/seize", h.HandleSeize)
	r.Put("/stablecoins/{mint}/transfer-limits", h.HandleTransferLimits)
	r.Post("/stablecoins/{mint}/transfer-check", h.HandleTransferCheck)
}

// BlacklistEntryResponse is the HTTP shape of a blacklist entry.
type BlacklistEntryResponse struct {
	Address    string    `json:"address"`
	Stablecoin string    `json:"stablecoin"`
	Target     string    `json:"target"`
	Reason     string    `json:"reason,omitempty"`
	AddedBy    string    `json:"added_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// TransferLimitsResponse is the HTTP shape of a transfer limit config.
type TransferLimitsResponse struct {
	Stablecoin     string    `json:"stablecoin"`
	MaxPerTransfer uint64    `json:"max_per_transfer"`
	MaxPerDay      uint64    `json:"max_per_day"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TransferCheckResponse is the HTTP response for an allowed transfer check.
type TransferCheckResponse struct {
	Allowed bool `json:"allowed"`
}

// SeizeResponse reports the amount moved by a seizure.
type SeizeResponse struct {
	Seized uint64 `json:"seized"`
}

// StatusResponse acknowledges an operation that returns no record.
type StatusResponse struct {
	Status string `json:"status"`
}

// HandleAddToBlacklist handles POST /stablecoins/{mint}/blacklist.
func (h *Handler) HandleAddToBlacklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[BlacklistRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	entry, err := h.service.AddToBlacklist(ctx, addr, req.ParsedTarget(), req.Reason)
	if err != nil {
		h.logFailure(ctx, "blacklist add rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, BlacklistEntryResponse{
		Address:    string(entry.Address),
		Stablecoin: string(entry.Stablecoin),
		Target:     string(entry.Target),
		Reason:     entry.Reason,
		AddedBy:    string(entry.AddedBy),
		CreatedAt:  entry.CreatedAt,
	})
}

// HandleRemoveFromBlacklist handles DELETE /stablecoins/{mint}/blacklist/{address}.
func (h *Handler) HandleRemoveFromBlacklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	target, err := id.ParseAddress(chi.URLParam(r, "address"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.RemoveFromBlacklist(ctx, addr, target); err != nil {
		h.logFailure(ctx, "blacklist remove rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleBatchBlacklist handles POST /stablecoins/{mint}/batch/blacklist.
func (h *Handler) HandleBatchBlacklist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[BatchBlacklistRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.BatchBlacklist(ctx, addr, req.ParsedTargets(), req.Reason); err != nil {
		h.logFailure(ctx, "batch blacklist rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// HandleSeize handles POST /stablecoins/{mint}/seize.
func (h *Handler) HandleSeize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[SeizeRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	seized, err := h.service.Seize(ctx, addr, req.ParsedSource(), req.ParsedDestination())
	if err != nil {
		h.logFailure(ctx, "seizure rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SeizeResponse{Seized: seized})
}

// HandleTransferLimits handles PUT /stablecoins/{mint}/transfer-limits.
func (h *Handler) HandleTransferLimits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[TransferLimitsRequest](w, r)
	if !ok {
		return
	}

	config, err := h.service.ConfigureTransferLimits(ctx, addr, req.MaxPerTransfer, req.MaxPerDay)
	if err != nil {
		h.logFailure(ctx, "transfer limits rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TransferLimitsResponse{
		Stablecoin:     string(config.Stablecoin),
		MaxPerTransfer: config.MaxPerTransfer,
		MaxPerDay:      config.MaxPerDay,
		UpdatedAt:      config.UpdatedAt,
	})
}

// HandleTransferCheck handles POST /stablecoins/{mint}/transfer-check. A
// denial surfaces as the standard error body so hook callers see the reason
// token.
func (h *Handler) HandleTransferCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[TransferCheckRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.CheckTransfer(ctx, addr, req.ParsedSource(), req.ParsedDestination(), req.Amount); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TransferCheckResponse{Allowed: true})
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (id.Address, bool) {
	mint, err := id.ParseAddress(chi.URLParam(r, "mint"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return scmodels.AddressForMint(mint), true
}

func (h *Handler) logFailure(ctx context.Context, msg string, stablecoin id.Address, err error) {
	level := slog.LevelDebug
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, msg,
		"request_id", requestcontext.RequestID(ctx),
		"stablecoin", stablecoin,
		"error", err,
	)
}
