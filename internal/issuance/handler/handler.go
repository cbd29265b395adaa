package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	scmodels "sss/internal/stablecoin/models"
	"sss/internal/token"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/platform/httputil"
	"sss/pkg/requestcontext"
)

// Service defines the interface for issuance operations.
type Service interface {
	Mint(ctx context.Context, stablecoin, destination id.Address, amount uint64) error
	Burn(ctx context.Context, stablecoin, account id.Address, amount uint64) error
	Freeze(ctx context.Context, stablecoin, account id.Address) error
	Thaw(ctx context.Context, stablecoin, account id.Address) error
	BatchMint(ctx context.Context, stablecoin id.Address, credits []token.Credit) error
	BatchFreeze(ctx context.Context, stablecoin id.Address, accounts []id.Address) error
}

// StatusResponse acknowledges an operation that returns no record.
type StatusResponse struct {
	Status string `json:"status"`
}

var okResponse = StatusResponse{Status: "ok"}

// Handler wires issuance endpoints to the issuance service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an issuance handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts issuance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/stablecoins/{mint}/mint", h.HandleMint)
	r.Post("/stablecoins/{mint}/burn", h.HandleBurn)
	r.Post("/stablecoins/{mint}/freeze", h.HandleFreeze)
	r.Post("/stablecoins/{mint}/thaw", h.HandleThaw)
	r.Post("/stablecoins/{mint}/batch/mint", h.HandleBatchMint)
	r.Post("/stablecoins/{mint}/batch/freeze", h.HandleBatchFreeze)
}

// HandleMint handles POST /stablecoins/{mint}/mint.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[MintRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Mint(ctx, addr, req.ParsedDestination(), req.Amount); err != nil {
		h.logFailure(ctx, "mint rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, okResponse)
}

// HandleBurn handles POST /stablecoins/{mint}/burn.
func (h *Handler) HandleBurn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[BurnRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Burn(ctx, addr, req.ParsedAccount(), req.Amount); err != nil {
		h.logFailure(ctx, "burn rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, okResponse)
}

// HandleFreeze handles POST /stablecoins/{mint}/freeze.
func (h *Handler) HandleFreeze(w http.ResponseWriter, r *http.Request) {
	h.freezeOp(w, r, h.service.Freeze, "freeze rejected")
}

// HandleThaw handles POST /stablecoins/{mint}/thaw.
func (h *Handler) HandleThaw(w http.ResponseWriter, r *http.Request) {
	h.freezeOp(w, r, h.service.Thaw, "thaw rejected")
}

func (h *Handler) freezeOp(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, stablecoin, account id.Address) error, failMsg string) {

	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[FreezeRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := op(ctx, addr, req.ParsedAccount()); err != nil {
		h.logFailure(ctx, failMsg, addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, okResponse)
}

// HandleBatchMint handles POST /stablecoins/{mint}/batch/mint.
func (h *Handler) HandleBatchMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[BatchMintRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.BatchMint(ctx, addr, req.ParsedCredits()); err != nil {
		h.logFailure(ctx, "batch mint rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, okResponse)
}

// HandleBatchFreeze handles POST /stablecoins/{mint}/batch/freeze.
func (h *Handler) HandleBatchFreeze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[BatchFreezeRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.BatchFreeze(ctx, addr, req.ParsedAccounts()); err != nil {
		h.logFailure(ctx, "batch freeze rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, okResponse)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (id.Address, bool) {
	mint, err := id.ParseAddress(chi.URLParam(r, "mint"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return scmodels.AddressForMint(mint), true
}

// logFailure logs internal failures at error level; expected domain
// rejections stay at debug so probing does not flood the log.
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
