// Package service implements capability grants, the authorization gate, and
// minter quota accounting.
package service

import (
	"context"
	"errors"
	"log/slog"

	"sss/internal/audit"
	"sss/internal/roles/metrics"
	"sss/internal/roles/models"
	"sss/internal/roles/store"
	scmodels "sss/internal/stablecoin/models"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/platform/sentinel"
	"sss/pkg/requestcontext"
)

// StablecoinStore is the read surface the roles module needs from the
// stablecoin module: authority checks load the currency record.
type StablecoinStore interface {
	Get(ctx context.Context, address id.Address) (*scmodels.Stablecoin, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service manages capability grants and minter quotas for a currency.
type Service struct {
	roles          store.Store
	stablecoins    StablecoinStore
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
func New(roles store.Store, stablecoins StablecoinStore, opts ...Option) *Service {
	s := &Service{roles: roles, stablecoins: stablecoins}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Grant writes a capability set for a holder without an authority check.
// The stablecoin module uses it during initialization to give the founding
// authority every capability.
func (s *Service) Grant(ctx context.Context, stablecoin, holder id.Address, caps models.Capabilities) (*models.Role, error) {
	role := models.NewRole(stablecoin, holder, caps, requestcontext.Now(ctx))
	if err := s.roles.UpsertRole(ctx, role); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store capability grant")
	}
	return role, nil
}

// UpdateRoles replaces the capability set held by holder. Only the currency
// authority may call it.
func (s *Service) UpdateRoles(ctx context.Context, stablecoin, holder id.Address, caps models.Capabilities) (*models.Role, error) {
	if err := s.requireAuthority(ctx, stablecoin); err != nil {
		return nil, err
	}

	role := models.NewRole(stablecoin, holder, caps, requestcontext.Now(ctx))
	if err := s.roles.UpsertRole(ctx, role); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store capability grant")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventRolesUpdated,
		Stablecoin: stablecoin,
		Target:     holder,
	})
	if s.metrics != nil {
		s.metrics.IncrementRoleUpdates()
	}
	return role, nil
}

// UpdateMinterQuota configures the issuance limit for a minter. Only the
// currency authority may call it, and the minter must already hold the
// minter capability. Lifetime counters survive reconfiguration; the epoch
// window restarts.
func (s *Service) UpdateMinterQuota(ctx context.Context, stablecoin, minter id.Address, quota uint64, epochDuration int64) (*models.MinterQuota, error) {
	if err := s.requireAuthority(ctx, stablecoin); err != nil {
		return nil, err
	}

	if epochDuration < 0 {
		return nil, dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonInvalidEpochDuration, "epoch duration must not be negative")
	}
	role, err := s.Role(ctx, stablecoin, minter)
	if err != nil || !role.Caps.Has(models.CapMinter) {
		return nil, dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonInvalidRoleConfig, "address does not hold the minter capability")
	}

	now := requestcontext.Now(ctx)
	addr, _ := models.QuotaAddress(stablecoin, minter)
	updated, err := s.roles.ExecuteQuota(ctx, addr, nil,
		func(q *models.MinterQuota) {
			q.Reconfigure(quota, epochDuration, now)
		})
	if errors.Is(err, sentinel.ErrNotFound) {
		fresh, nerr := models.NewMinterQuota(stablecoin, minter, quota, epochDuration, now)
		if nerr != nil {
			return nil, nerr
		}
		if uerr := s.roles.UpsertQuota(ctx, fresh); uerr != nil {
			return nil, dErrors.Wrap(uerr, dErrors.CodeInternal, "failed to store minter quota")
		}
		updated = fresh
	} else if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update minter quota")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventMinterUpdated,
		Stablecoin: stablecoin,
		Target:     minter,
		Amount:     quota,
	})
	if s.metrics != nil {
		s.metrics.IncrementQuotaUpdates()
	}
	return updated, nil
}

// Role loads the capability grant for (stablecoin, holder).
func (s *Service) Role(ctx context.Context, stablecoin, holder id.Address) (*models.Role, error) {
	addr, _ := models.RoleAddress(stablecoin, holder)
	role, err := s.roles.GetRole(ctx, addr)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "no capability grant for holder")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load capability grant")
	}
	return role, nil
}

// Require verifies that actor holds the capability for the currency. The
// absence of a grant and a grant without the capability fail identically.
func (s *Service) Require(ctx context.Context, stablecoin, actor id.Address, cap models.Capability) error {
	addr, _ := models.RoleAddress(stablecoin, actor)
	role, err := s.roles.GetRole(ctx, addr)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load capability grant")
	}
	if err != nil || !role.Caps.Has(cap) {
		if s.metrics != nil {
			s.metrics.IncrementGateRejected(string(cap))
		}
		return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonUnauthorized, "caller lacks the "+string(cap)+" capability")
	}
	return nil
}

// CheckQuota verifies that minter may issue amount at the request time
// without consuming the quota. A minter with no quota record is not
// configured to mint at all.
func (s *Service) CheckQuota(ctx context.Context, stablecoin, minter id.Address, amount uint64) error {
	addr, _ := models.QuotaAddress(stablecoin, minter)
	quota, err := s.roles.GetQuota(ctx, addr)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonUnauthorized, "minter has no quota configured")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load minter quota")
	}
	if err := quota.CheckMint(requestcontext.Now(ctx), amount); err != nil {
		if s.metrics != nil && dErrors.HasReason(err, dErrors.ReasonQuotaExceeded) {
			s.metrics.IncrementQuotaRejected()
		}
		return err
	}
	return nil
}

// RecordMint consumes amount from the minter's quota, re-validating under
// the record lock.
func (s *Service) RecordMint(ctx context.Context, stablecoin, minter id.Address, amount uint64) error {
	now := requestcontext.Now(ctx)
	addr, _ := models.QuotaAddress(stablecoin, minter)
	_, err := s.roles.ExecuteQuota(ctx, addr,
		func(q *models.MinterQuota) error {
			return q.CheckMint(now, amount)
		},
		func(q *models.MinterQuota) {
			q.ApplyMint(now, amount)
		})
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonUnauthorized, "minter has no quota configured")
	}
	if err != nil {
		if dErrors.HasReason(err, dErrors.ReasonQuotaExceeded) || dErrors.HasReason(err, dErrors.ReasonMathOverflow) {
			return err
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record mint against quota")
	}
	return nil
}

// ReleaseMint returns amount to the minter's quota after the token module
// refused an issuance that had already consumed it.
func (s *Service) ReleaseMint(ctx context.Context, stablecoin, minter id.Address, amount uint64) error {
	now := requestcontext.Now(ctx)
	addr, _ := models.QuotaAddress(stablecoin, minter)
	_, err := s.roles.ExecuteQuota(ctx, addr, nil,
		func(q *models.MinterQuota) {
			q.ReleaseMint(now, amount)
		})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to release minter quota")
	}
	return nil
}

func (s *Service) requireAuthority(ctx context.Context, stablecoin id.Address) error {
	sc, err := s.stablecoins.Get(ctx, stablecoin)
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "stablecoin not found")
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stablecoin")
	}
	if requestcontext.Caller(ctx) != sc.Authority {
		return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonUnauthorized, "caller is not the currency authority")
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if event.Actor == "" {
		event.Actor = requestcontext.Caller(ctx)
	}
	audit.Emit(ctx, s.logger, s.auditPublisher, event)
}
