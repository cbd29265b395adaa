// Package service implements currency lifecycle operations: initialization,
// pause control, supply cap changes, and authority transfer.
package service

import (
	"context"
	"errors"
	"log/slog"

	"sss/internal/audit"
	rolesmodels "sss/internal/roles/models"
	"sss/internal/stablecoin/metrics"
	"sss/internal/stablecoin/models"
	"sss/internal/stablecoin/store"
	"sss/internal/token"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/platform/sentinel"
	"sss/pkg/requestcontext"
)

// RoleRegistry is the capability surface the stablecoin module needs from
// the roles module: seeding the founding authority's grants and gating the
// pause switch.
type RoleRegistry interface {
	Grant(ctx context.Context, stablecoin, holder id.Address, caps rolesmodels.Capabilities) (*rolesmodels.Role, error)
	Require(ctx context.Context, stablecoin, actor id.Address, cap rolesmodels.Capability) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates currency lifecycle operations.
type Service struct {
	stablecoins    store.Store
	tokens         token.Module
	roles          RoleRegistry
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
func New(stablecoins store.Store, tokens token.Module, roles RoleRegistry, opts ...Option) *Service {
	s := &Service{stablecoins: stablecoins, tokens: tokens, roles: roles}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize creates a new currency. The caller becomes the authority and
// receives every capability; the derived record address becomes the
// token-level mint authority so all token operations route through the
// control plane.
func (s *Service) Initialize(ctx context.Context, p models.InitializeParams) (*models.Stablecoin, error) {
	p.Authority = requestcontext.Caller(ctx)

	sc, err := models.New(p, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.stablecoins.Create(ctx, sc); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "stablecoin already initialized for this mint")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store stablecoin")
	}
	if err := s.tokens.RegisterMint(ctx, sc.Mint, sc.Address, sc.DefaultAccountFrozen); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register mint with token module")
	}
	if _, err := s.roles.Grant(ctx, sc.Address, sc.Authority, rolesmodels.All()); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed authority capabilities")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventStablecoinInitialized,
		Stablecoin: sc.Address,
		Target:     sc.Mint,
		Detail:     sc.Symbol,
	})
	if s.metrics != nil {
		s.metrics.IncrementInitialized()
	}
	return sc, nil
}

// Get loads a currency record.
func (s *Service) Get(ctx context.Context, address id.Address) (*models.Stablecoin, error) {
	sc, err := s.stablecoins.Get(ctx, address)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "stablecoin not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stablecoin")
	}
	return sc, nil
}

// Pause halts all issuance for the currency. Requires the pauser capability.
func (s *Service) Pause(ctx context.Context, address id.Address) (*models.Stablecoin, error) {
	if err := s.roles.Require(ctx, address, requestcontext.Caller(ctx), rolesmodels.CapPauser); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	sc, err := s.execute(ctx, address,
		func(sc *models.Stablecoin) error { return sc.CanPause() },
		func(sc *models.Stablecoin) { sc.ApplyPause(now) })
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, audit.Event{Action: audit.EventStablecoinPaused, Stablecoin: address})
	if s.metrics != nil {
		s.metrics.IncrementPauseTransition("paused")
	}
	return sc, nil
}

// Unpause resumes issuance. Requires the pauser capability.
func (s *Service) Unpause(ctx context.Context, address id.Address) (*models.Stablecoin, error) {
	if err := s.roles.Require(ctx, address, requestcontext.Caller(ctx), rolesmodels.CapPauser); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	sc, err := s.execute(ctx, address,
		func(sc *models.Stablecoin) error { return sc.CanUnpause() },
		func(sc *models.Stablecoin) { sc.ApplyUnpause(now) })
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, audit.Event{Action: audit.EventStablecoinUnpaused, Stablecoin: address})
	if s.metrics != nil {
		s.metrics.IncrementPauseTransition("unpaused")
	}
	return sc, nil
}

// UpdateSupplyCap replaces the supply cap. Only the authority may call it;
// the new cap must admit the current circulating supply.
func (s *Service) UpdateSupplyCap(ctx context.Context, address id.Address, newCap uint64) (*models.Stablecoin, error) {
	caller := requestcontext.Caller(ctx)
	now := requestcontext.Now(ctx)

	sc, err := s.execute(ctx, address,
		func(sc *models.Stablecoin) error {
			if caller != sc.Authority {
				return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonUnauthorized, "caller is not the currency authority")
			}
			return sc.CanSetSupplyCap(newCap)
		},
		func(sc *models.Stablecoin) { sc.ApplySupplyCap(newCap, now) })
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventSupplyCapUpdated,
		Stablecoin: address,
		Amount:     newCap,
	})
	if s.metrics != nil {
		s.metrics.IncrementSupplyCapUpdates()
	}
	return sc, nil
}

// TransferAuthority starts the two-step handover: the current authority
// names a successor, who must accept before anything changes hands.
func (s *Service) TransferAuthority(ctx context.Context, address, next id.Address) (*models.Stablecoin, error) {
	if next.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "new authority is required")
	}
	caller := requestcontext.Caller(ctx)
	now := requestcontext.Now(ctx)

	sc, err := s.execute(ctx, address,
		func(sc *models.Stablecoin) error {
			if caller != sc.Authority {
				return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonUnauthorized, "caller is not the currency authority")
			}
			return nil
		},
		func(sc *models.Stablecoin) { sc.ProposeAuthority(next, now) })
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventAuthorityProposed,
		Stablecoin: address,
		Target:     next,
	})
	return sc, nil
}

// AcceptAuthority completes the handover. Only the pending authority may
// call it; on success it receives every capability.
func (s *Service) AcceptAuthority(ctx context.Context, address id.Address) (*models.Stablecoin, error) {
	caller := requestcontext.Caller(ctx)
	now := requestcontext.Now(ctx)

	sc, err := s.execute(ctx, address,
		func(sc *models.Stablecoin) error { return sc.CanAcceptAuthority(caller) },
		func(sc *models.Stablecoin) { sc.ApplyAcceptAuthority(now) })
	if err != nil {
		return nil, err
	}
	if _, err := s.roles.Grant(ctx, address, sc.Authority, rolesmodels.All()); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed authority capabilities")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventAuthorityTransferred,
		Stablecoin: address,
		Target:     sc.Authority,
	})
	if s.metrics != nil {
		s.metrics.IncrementAuthorityTransfers()
	}
	return sc, nil
}

// execute runs a guarded mutation, mapping store sentinels to domain errors.
func (s *Service) execute(ctx context.Context, address id.Address,
	validate func(*models.Stablecoin) error,
	mutate func(*models.Stablecoin)) (*models.Stablecoin, error) {

	sc, err := s.stablecoins.Execute(ctx, address, validate, mutate)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "stablecoin not found")
	}
	if err != nil {
		var coded *dErrors.Error
		if errors.As(err, &coded) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update stablecoin")
	}
	return sc, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if event.Actor == "" {
		event.Actor = requestcontext.Caller(ctx)
	}
	audit.Emit(ctx, s.logger, s.auditPublisher, event)
}
