package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"sss/internal/governance/models"
	scmodels "sss/internal/stablecoin/models"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/platform/httputil"
	"sss/pkg/requestcontext"
)

// Service defines the interface for governance operations.
type Service interface {
	CreateMultisig(ctx context.Context, stablecoin id.Address, signers []id.Address, threshold uint8) (*models.MultisigConfig, error)
	Multisig(ctx context.Context, stablecoin id.Address) (*models.MultisigConfig, error)
	CreateProposal(ctx context.Context, stablecoin id.Address, action models.ActionType, payload []byte) (*models.Proposal, error)
	ApproveProposal(ctx context.Context, stablecoin id.Address, proposalID uint64) (*models.Proposal, error)
	ExecuteProposal(ctx context.Context, stablecoin id.Address, proposalID uint64) (*models.Proposal, error)
	ConfigureTimelock(ctx context.Context, stablecoin id.Address, delay int64, enabled bool) (*models.TimelockConfig, error)
	ProposeTimelocked(ctx context.Context, stablecoin id.Address, operationID uint64, action models.ActionType, payload []byte) (*models.TimelockOperation, error)
	ExecuteTimelocked(ctx context.Context, stablecoin id.Address, operationID uint64) (*models.TimelockOperation, error)
	CancelTimelocked(ctx context.Context, stablecoin id.Address, operationID uint64) (*models.TimelockOperation, error)
}

// Handler wires governance endpoints to the governance service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a governance handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts governance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/stablecoins/{mint}/multisig", h.HandleCreateMultisig)
	r.Get("/stablecoins/{mint}/multisig", h.HandleGetMultisig)
	r.Post("/stablecoins/{mint}/proposals", h.HandleCreateProposal)
	r.Post("/stablecoins/{mint}/proposals/{id}/approve", h.HandleApproveProposal)
	r.Post("/stablecoins/{mint}/proposals/{id}/execute", h.HandleExecuteProposal)
	r.Put("/stablecoins/{mint}/timelock", h.HandleConfigureTimelock)
	r.Post("/stablecoins/{mint}/timelock/operations", h.HandleProposeOperation)
	r.Post("/stablecoins/{mint}/timelock/operations/{id}/execute", h.HandleExecuteOperation)
	r.Post("/stablecoins/{mint}/timelock/operations/{id}/cancel", h.HandleCancelOperation)
}

// HandleCreateMultisig handles POST /stablecoins/{mint}/multisig.
func (h *Handler) HandleCreateMultisig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[CreateMultisigRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	m, err := h.service.CreateMultisig(ctx, addr, req.ParsedSigners(), req.Threshold)
	if err != nil {
		h.logFailure(ctx, "multisig creation rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toMultisigResponse(m))
}

// HandleGetMultisig handles GET /stablecoins/{mint}/multisig.
func (h *Handler) HandleGetMultisig(w http.ResponseWriter, r *http.Request) {
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	m, err := h.service.Multisig(r.Context(), addr)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toMultisigResponse(m))
}

// HandleCreateProposal handles POST /stablecoins/{mint}/proposals.
func (h *Handler) HandleCreateProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[CreateProposalRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	proposal, err := h.service.CreateProposal(ctx, addr, req.ParsedAction(), req.Payload)
	if err != nil {
		h.logFailure(ctx, "proposal creation rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toProposalResponse(proposal))
}

// HandleApproveProposal handles POST /stablecoins/{mint}/proposals/{id}/approve.
func (h *Handler) HandleApproveProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	proposalID, ok := h.sequenceID(w, r)
	if !ok {
		return
	}

	proposal, err := h.service.ApproveProposal(ctx, addr, proposalID)
	if err != nil {
		h.logFailure(ctx, "proposal approval rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProposalResponse(proposal))
}

// HandleExecuteProposal handles POST /stablecoins/{mint}/proposals/{id}/execute.
func (h *Handler) HandleExecuteProposal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	proposalID, ok := h.sequenceID(w, r)
	if !ok {
		return
	}

	proposal, err := h.service.ExecuteProposal(ctx, addr, proposalID)
	if err != nil {
		h.logFailure(ctx, "proposal execution rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProposalResponse(proposal))
}

// HandleConfigureTimelock handles PUT /stablecoins/{mint}/timelock.
func (h *Handler) HandleConfigureTimelock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[TimelockConfigRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	config, err := h.service.ConfigureTimelock(ctx, addr, req.Delay, req.Enabled)
	if err != nil {
		h.logFailure(ctx, "timelock configuration rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, TimelockConfigResponse{
		Stablecoin: string(config.Stablecoin),
		Delay:      config.Delay,
		Enabled:    config.Enabled,
		UpdatedAt:  config.UpdatedAt,
	})
}

// HandleProposeOperation handles POST /stablecoins/{mint}/timelock/operations.
func (h *Handler) HandleProposeOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	req, ok := httputil.Decode[ProposeOperationRequest](w, r)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	op, err := h.service.ProposeTimelocked(ctx, addr, req.OperationID, req.ParsedAction(), req.Payload)
	if err != nil {
		h.logFailure(ctx, "timelock proposal rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toOperationResponse(op))
}

// HandleExecuteOperation handles
// POST /stablecoins/{mint}/timelock/operations/{id}/execute.
func (h *Handler) HandleExecuteOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	operationID, ok := h.sequenceID(w, r)
	if !ok {
		return
	}

	op, err := h.service.ExecuteTimelocked(ctx, addr, operationID)
	if err != nil {
		h.logFailure(ctx, "timelock execution rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toOperationResponse(op))
}

// HandleCancelOperation handles
// POST /stablecoins/{mint}/timelock/operations/{id}/cancel.
func (h *Handler) HandleCancelOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	addr, ok := h.resolve(w, r)
	if !ok {
		return
	}
	operationID, ok := h.sequenceID(w, r)
	if !ok {
		return
	}

	op, err := h.service.CancelTimelocked(ctx, addr, operationID)
	if err != nil {
		h.logFailure(ctx, "timelock cancellation rejected", addr, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toOperationResponse(op))
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) (id.Address, bool) {
	mint, err := id.ParseAddress(chi.URLParam(r, "mint"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return scmodels.AddressForMint(mint), true
}

func (h *Handler) sequenceID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "id must be an unsigned integer"))
		return 0, false
	}
	return n, true
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
