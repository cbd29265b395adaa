package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"sss/internal/stablecoin/models"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/platform/httputil"
	"sss/pkg/requestcontext"
)

// Service defines the interface for currency lifecycle operations.
type Service interface {
	Initialize(ctx context.Context, p models.InitializeParams) (*models.Stablecoin, error)
	Get(ctx context.Context, address id.Address) (*models.Stablecoin, error)
	Pause(ctx context.Context, address id.Address) (*models.Stablecoin, error)
	Unpause(ctx context.Context, address id.Address) (*models.Stablecoin, error)
	UpdateSupplyCap(ctx context.Context, address id.Address, newCap uint64) (*models.Stablecoin, error)
	TransferAuthority(ctx context.Context, address, next id.Address) (*models.Stablecoin, error)
	AcceptAuthority(ctx context.Context, address id.Address) (*models.Stablecoin, error)
}

// Handler wires currency lifecycle endpoints to the stablecoin service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a stablecoin handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts currency lifecycle endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/stablecoins", h.HandleInitialize)
	r.Get("/stablecoins/{mint}", h.HandleGet)
	r.Post("/stablecoins/{mint}/pause", h.HandlePause)
	r.Post("/stablecoins/{mint}/unpause", h.HandleUnpause)
	r.Put("/stablecoins/{mint}/supply-cap", h.HandleSupplyCap)
	r.Post("/stablecoins/{mint}/authority/transfer", h.HandleTransferAuthority)
	r.Post("/stablecoins/{mint}/authority/accept", h.HandleAcceptAuthority)
}

// HandleInitialize handles POST /stablecoins.
func (h *Handler) HandleInitialize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := httputil.Decode[InitializeRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	sc, err := h.service.Initialize(ctx, req.Params())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "stablecoin initialization failed",
				"request_id", requestcontext.RequestID(ctx),
				"mint", req.Mint,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "stablecoin initialized",
		"request_id", requestcontext.RequestID(ctx),
		"address", sc.Address,
		"mint", sc.Mint,
		"symbol", sc.Symbol,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromStablecoin(sc))
}

// HandleGet handles GET /stablecoins/{mint}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	sc, err := h.service.Get(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromStablecoin(sc))
}

// HandlePause handles POST /stablecoins/{mint}/pause.
func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	sc, err := h.service.Pause(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromStablecoin(sc))
}

// HandleUnpause handles POST /stablecoins/{mint}/unpause.
func (h *Handler) HandleUnpause(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	sc, err := h.service.Unpause(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromStablecoin(sc))
}

// HandleSupplyCap handles PUT /stablecoins/{mint}/supply-cap.
func (h *Handler) HandleSupplyCap(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[SupplyCapRequest](w, r)
	if !ok {
		return
	}
	sc, err := h.service.UpdateSupplyCap(r.Context(), addr, req.MaxSupply)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromStablecoin(sc))
}

// HandleTransferAuthority handles POST /stablecoins/{mint}/authority/transfer.
func (h *Handler) HandleTransferAuthority(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[TransferAuthorityRequest](w, r)
	if !ok {
		return
	}
	next, err := req.Parsed()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sc, err := h.service.TransferAuthority(r.Context(), addr, next)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromStablecoin(sc))
}

// HandleAcceptAuthority handles POST /stablecoins/{mint}/authority/accept.
func (h *Handler) HandleAcceptAuthority(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	sc, err := h.service.AcceptAuthority(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromStablecoin(sc))
}

// resolve parses the {mint} path parameter into the currency record address.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (id.Address, bool) {
	mint, err := id.ParseAddress(chi.URLParam(r, "mint"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return models.AddressForMint(mint), true
}
