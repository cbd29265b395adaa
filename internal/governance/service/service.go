// Package service implements the two governance paths: multisig proposals
// and timelocked operations. Both collect an authorization (threshold
// approvals or an elapsed delay) and then dispatch the same action table
// against the currency record.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sss/internal/audit"
	"sss/internal/governance/metrics"
	"sss/internal/governance/models"
	"sss/internal/governance/store"
	scmodels "sss/internal/stablecoin/models"
	scstore "sss/internal/stablecoin/store"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/platform/sentinel"
	"sss/pkg/requestcontext"
)

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates governance operations.
type Service struct {
	records        store.Store
	stablecoins    scstore.Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(records store.Store, stablecoins scstore.Store, opts ...Option) *Service {
	s := &Service{records: records, stablecoins: stablecoins}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateMultisig registers the signer set for a currency. Only the currency
// authority may call it, and each currency carries at most one config.
func (s *Service) CreateMultisig(ctx context.Context, stablecoin id.Address, signers []id.Address, threshold uint8) (*models.MultisigConfig, error) {
	if err := s.requireAuthority(ctx, stablecoin); err != nil {
		return nil, err
	}

	m, err := models.NewMultisigConfig(stablecoin, signers, threshold, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.records.CreateMultisig(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "multisig already configured for this stablecoin")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store multisig config")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventMultisigCreated,
		Stablecoin: stablecoin,
		Detail:     fmt.Sprintf("threshold=%d signers=%d", threshold, len(signers)),
	})
	if s.metrics != nil {
		s.metrics.IncrementMultisigsCreated()
	}
	return m, nil
}

// Multisig loads the signer set for a currency.
func (s *Service) Multisig(ctx context.Context, stablecoin id.Address) (*models.MultisigConfig, error) {
	addr, _ := models.MultisigAddress(stablecoin)
	m, err := s.records.GetMultisig(ctx, addr)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "multisig not configured for this stablecoin")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load multisig config")
	}
	return m, nil
}

// CreateProposal opens a proposal. The caller must be a registered signer
// and their approval is recorded immediately. The proposal id is taken from
// the multisig's sequence under the record lock, so ids never collide even
// when creations race.
func (s *Service) CreateProposal(ctx context.Context, stablecoin id.Address, action models.ActionType, payload []byte) (*models.Proposal, error) {
	caller := requestcontext.Caller(ctx)
	now := requestcontext.Now(ctx)

	if err := models.ValidateAction(action, payload); err != nil {
		return nil, err
	}

	addr, _ := models.MultisigAddress(stablecoin)
	var proposalID uint64
	m, err := s.records.ExecuteMultisig(ctx, addr,
		func(m *models.MultisigConfig) error {
			if !m.IsSigner(caller) {
				return errNotASigner()
			}
			return nil
		},
		func(m *models.MultisigConfig) {
			proposalID = m.TakeProposalID(now)
		})
	if err != nil {
		return nil, s.mapStoreErr(err, "multisig not configured for this stablecoin", "failed to advance proposal sequence")
	}

	proposal, err := models.NewProposal(m, proposalID, caller, action, payload, now)
	if err != nil {
		return nil, err
	}
	if err := s.records.CreateProposal(ctx, proposal); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store proposal")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventProposalCreated,
		Stablecoin: stablecoin,
		Detail:     fmt.Sprintf("proposal=%d action=%s", proposal.ID, action),
	})
	if s.metrics != nil {
		s.metrics.IncrementProposalsCreated()
	}
	return proposal, nil
}

// ApproveProposal records one signer's approval.
func (s *Service) ApproveProposal(ctx context.Context, stablecoin id.Address, proposalID uint64) (*models.Proposal, error) {
	caller := requestcontext.Caller(ctx)
	now := requestcontext.Now(ctx)

	m, err := s.Multisig(ctx, stablecoin)
	if err != nil {
		return nil, err
	}
	if !m.IsSigner(caller) {
		return nil, errNotASigner()
	}

	addr, _ := models.ProposalAddress(m.Address, proposalID)
	proposal, err := s.records.ExecuteProposal(ctx, addr,
		func(p *models.Proposal) error { return p.CanApprove(caller) },
		func(p *models.Proposal) { p.ApplyApproval(caller, now) })
	if err != nil {
		return nil, s.mapStoreErr(err, "proposal not found", "failed to record approval")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventProposalApproved,
		Stablecoin: stablecoin,
		Detail:     fmt.Sprintf("proposal=%d approvals=%d", proposalID, len(proposal.Approvals)),
	})
	if s.metrics != nil {
		s.metrics.IncrementApprovals()
	}
	return proposal, nil
}

// ExecuteProposal dispatches an approved proposal's action and makes the
// proposal terminal. Any registered signer may trigger execution once the
// threshold is met. A failed dispatch leaves the proposal open so a later
// call can retry after the underlying conflict clears.
func (s *Service) ExecuteProposal(ctx context.Context, stablecoin id.Address, proposalID uint64) (*models.Proposal, error) {
	caller := requestcontext.Caller(ctx)
	now := requestcontext.Now(ctx)

	m, err := s.Multisig(ctx, stablecoin)
	if err != nil {
		return nil, err
	}
	if !m.IsSigner(caller) {
		return nil, errNotASigner()
	}

	addr, _ := models.ProposalAddress(m.Address, proposalID)
	proposal, err := s.records.GetProposal(ctx, addr)
	if err != nil {
		return nil, s.mapStoreErr(err, "proposal not found", "failed to load proposal")
	}
	if err := proposal.CanExecute(m.Threshold); err != nil {
		return nil, err
	}

	if err := s.dispatch(ctx, stablecoin, proposal.Action, proposal.Payload); err != nil {
		return nil, err
	}

	// the second CanExecute closes the race against a concurrent execution
	// that finished between the dispatch and this commit
	proposal, err = s.records.ExecuteProposal(ctx, addr,
		func(p *models.Proposal) error { return p.CanExecute(m.Threshold) },
		func(p *models.Proposal) { p.ApplyExecuted(now) })
	if err != nil {
		return nil, s.mapStoreErr(err, "proposal not found", "failed to finalize proposal")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventProposalExecuted,
		Stablecoin: stablecoin,
		Detail:     fmt.Sprintf("proposal=%d action=%s", proposalID, proposal.Action),
	})
	if s.metrics != nil {
		s.metrics.IncrementProposalsExecuted(string(proposal.Action))
	}
	return proposal, nil
}

// ConfigureTimelock sets the delay policy. Only the currency authority may
// call it.
func (s *Service) ConfigureTimelock(ctx context.Context, stablecoin id.Address, delay int64, enabled bool) (*models.TimelockConfig, error) {
	if err := s.requireAuthority(ctx, stablecoin); err != nil {
		return nil, err
	}

	config, err := models.NewTimelockConfig(stablecoin, delay, enabled, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.records.UpsertTimelockConfig(ctx, config); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store timelock config")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventTimelockConfigured,
		Stablecoin: stablecoin,
		Detail:     fmt.Sprintf("delay=%d enabled=%t", delay, enabled),
	})
	return config, nil
}

// ProposeTimelocked schedules an action behind the configured delay. Only
// the currency authority may propose; the eta is fixed here and never
// recomputed. The operation id is caller-chosen and must be unused.
func (s *Service) ProposeTimelocked(ctx context.Context, stablecoin id.Address, operationID uint64, action models.ActionType, payload []byte) (*models.TimelockOperation, error) {
	caller := requestcontext.Caller(ctx)
	now := requestcontext.Now(ctx)

	if err := s.requireAuthority(ctx, stablecoin); err != nil {
		return nil, err
	}

	config, err := s.timelockConfig(ctx, stablecoin)
	if err != nil {
		return nil, err
	}

	eta := now.Add(time.Duration(config.Delay) * time.Second)
	op, err := models.NewTimelockOperation(stablecoin, operationID, caller, action, payload, eta, now)
	if err != nil {
		return nil, err
	}
	if err := s.records.CreateOperation(ctx, op); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "operation id already used for this stablecoin")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store timelock operation")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventTimelockProposed,
		Stablecoin: stablecoin,
		Detail:     fmt.Sprintf("operation=%d action=%s eta=%d", operationID, action, eta.Unix()),
	})
	if s.metrics != nil {
		s.metrics.IncrementTimelockProposed()
	}
	return op, nil
}

// ExecuteTimelocked dispatches a pending operation whose eta has passed.
// Execution is permissionless: the delay, not the caller's identity, is the
// authorization.
func (s *Service) ExecuteTimelocked(ctx context.Context, stablecoin id.Address, operationID uint64) (*models.TimelockOperation, error) {
	now := requestcontext.Now(ctx)

	addr, _ := models.TimelockOperationAddress(stablecoin, operationID)
	op, err := s.records.GetOperation(ctx, addr)
	if err != nil {
		return nil, s.mapStoreErr(err, "timelock operation not found", "failed to load timelock operation")
	}
	if err := op.CanExecute(now); err != nil {
		return nil, err
	}

	if err := s.dispatch(ctx, stablecoin, op.Action, op.Payload); err != nil {
		return nil, err
	}

	op, err = s.records.ExecuteOperation(ctx, addr,
		func(o *models.TimelockOperation) error { return o.CanExecute(now) },
		func(o *models.TimelockOperation) { o.ApplyExecuted(now) })
	if err != nil {
		return nil, s.mapStoreErr(err, "timelock operation not found", "failed to finalize timelock operation")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventTimelockExecuted,
		Stablecoin: stablecoin,
		Detail:     fmt.Sprintf("operation=%d action=%s", operationID, op.Action),
	})
	if s.metrics != nil {
		s.metrics.IncrementTimelockExecuted(string(op.Action))
	}
	return op, nil
}

// CancelTimelocked withdraws a pending operation. Only the currency
// authority may cancel, and only before execution.
func (s *Service) CancelTimelocked(ctx context.Context, stablecoin id.Address, operationID uint64) (*models.TimelockOperation, error) {
	now := requestcontext.Now(ctx)

	if err := s.requireAuthority(ctx, stablecoin); err != nil {
		return nil, err
	}

	addr, _ := models.TimelockOperationAddress(stablecoin, operationID)
	op, err := s.records.ExecuteOperation(ctx, addr,
		func(o *models.TimelockOperation) error { return o.CanCancel() },
		func(o *models.TimelockOperation) { o.ApplyCancelled(now) })
	if err != nil {
		return nil, s.mapStoreErr(err, "timelock operation not found", "failed to cancel timelock operation")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventTimelockCancelled,
		Stablecoin: stablecoin,
		Detail:     fmt.Sprintf("operation=%d", operationID),
	})
	if s.metrics != nil {
		s.metrics.IncrementTimelockCancelled()
	}
	return op, nil
}

// timelockConfig loads the delay policy and verifies it is enabled.
func (s *Service) timelockConfig(ctx context.Context, stablecoin id.Address) (*models.TimelockConfig, error) {
	addr, _ := models.TimelockConfigAddress(stablecoin)
	config, err := s.records.GetTimelockConfig(ctx, addr)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonTimelockNotEnabled, "timelock is not configured for this stablecoin")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load timelock config")
	}
	if !config.Enabled {
		return nil, dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonTimelockNotEnabled, "timelock is disabled for this stablecoin")
	}
	return config, nil
}

func (s *Service) requireAuthority(ctx context.Context, stablecoin id.Address) error {
	sc, err := s.loadStablecoin(ctx, stablecoin)
	if err != nil {
		return err
	}
	if requestcontext.Caller(ctx) != sc.Authority {
		return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonUnauthorized, "caller is not the currency authority")
	}
	return nil
}

func (s *Service) loadStablecoin(ctx context.Context, stablecoin id.Address) (*scmodels.Stablecoin, error) {
	sc, err := s.stablecoins.Get(ctx, stablecoin)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "stablecoin not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stablecoin")
	}
	return sc, nil
}

// mapStoreErr keeps domain errors from model validators intact and wraps
// store failures.
func (s *Service) mapStoreErr(err error, notFound, internal string) error {
	if err == nil {
		return nil
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, notFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, internal)
}

func errNotASigner() error {
	return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonNotAMultisigSigner, "caller is not a registered multisig signer")
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if event.Actor == "" {
		event.Actor = requestcontext.Caller(ctx)
	}
	audit.Emit(ctx, s.logger, s.auditPublisher, event)
}
