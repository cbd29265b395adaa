// Package service implements token issuance: mint, burn, account freeze
// control, and the bounded batch variants.
//
// Every value-moving operation follows the same shape: take the
// currency-scoped lock, validate authorization and accounting, invoke the
// token module, then commit the accounting. Quota is consumed before the
// external call and released if the call fails, so no recheck ever runs
// after value has moved.
package service

import (
	"context"
	"errors"
	"log/slog"

	"sss/internal/audit"
	"sss/internal/issuance/metrics"
	rolesmodels "sss/internal/roles/models"
	scmodels "sss/internal/stablecoin/models"
	scstore "sss/internal/stablecoin/store"
	"sss/internal/token"
	"sss/pkg/checked"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/platform/keyed"
	"sss/pkg/platform/sentinel"
	"sss/pkg/requestcontext"
)

// MaxBatchSize bounds every batch operation.
const MaxBatchSize = 10

// RoleGate is the authorization surface the issuance module needs from the
// roles module.
type RoleGate interface {
	Require(ctx context.Context, stablecoin, actor id.Address, cap rolesmodels.Capability) error
	RecordMint(ctx context.Context, stablecoin, minter id.Address, amount uint64) error
	ReleaseMint(ctx context.Context, stablecoin, minter id.Address, amount uint64) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates issuance operations.
type Service struct {
	stablecoins    scstore.Store
	tokens         token.Module
	roles          RoleGate
	locks          *keyed.Mutex
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
func New(stablecoins scstore.Store, tokens token.Module, roles RoleGate, opts ...Option) *Service {
	s := &Service{
		stablecoins: stablecoins,
		tokens:      tokens,
		roles:       roles,
		locks:       keyed.NewMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mint issues amount to destination. The caller must hold the minter
// capability and stay inside their quota; the supply cap and pause state
// are checked before the token module is invoked.
func (s *Service) Mint(ctx context.Context, stablecoin, destination id.Address, amount uint64) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	if destination.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "destination is required")
	}
	caller := requestcontext.Caller(ctx)

	unlock := s.locks.Lock(string(stablecoin))
	defer unlock()

	sc, err := s.load(ctx, stablecoin)
	if err != nil {
		return err
	}
	if err := s.roles.Require(ctx, stablecoin, caller, rolesmodels.CapMinter); err != nil {
		return err
	}
	if err := sc.CheckMintable(amount); err != nil {
		return s.reject(err)
	}
	if err := s.roles.RecordMint(ctx, stablecoin, caller, amount); err != nil {
		return s.reject(err)
	}

	if err := s.tokens.MintTo(ctx, sc.Mint, destination, sc.Address, amount); err != nil {
		s.releaseQuota(ctx, stablecoin, caller, amount)
		if errors.Is(err, sentinel.ErrFrozen) {
			return dErrors.New(dErrors.CodeConflict, "destination account is frozen")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "token module rejected mint")
	}

	now := requestcontext.Now(ctx)
	if _, err := s.stablecoins.Execute(ctx, stablecoin, nil,
		func(sc *scmodels.Stablecoin) { sc.ApplyMint(amount, now) }); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit mint accounting")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventTokensMinted,
		Stablecoin: stablecoin,
		Target:     destination,
		Amount:     amount,
	})
	if s.metrics != nil {
		s.metrics.ObserveMint(amount)
	}
	return nil
}

// Burn destroys amount from the caller's account. The caller must hold the
// burner capability and own the account.
func (s *Service) Burn(ctx context.Context, stablecoin, account id.Address, amount uint64) error {
	if err := validAmount(amount); err != nil {
		return err
	}
	caller := requestcontext.Caller(ctx)

	unlock := s.locks.Lock(string(stablecoin))
	defer unlock()

	sc, err := s.load(ctx, stablecoin)
	if err != nil {
		return err
	}
	if err := s.roles.Require(ctx, stablecoin, caller, rolesmodels.CapBurner); err != nil {
		return err
	}
	if err := sc.CheckBurnable(amount); err != nil {
		return s.reject(err)
	}

	if err := s.tokens.Burn(ctx, account, sc.Mint, caller, amount); err != nil {
		if errors.Is(err, token.ErrInvalidAuthority) {
			return dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonUnauthorized, "caller does not own the account")
		}
		if errors.Is(err, sentinel.ErrInsufficientBalance) {
			return dErrors.New(dErrors.CodeConflict, "insufficient balance to burn")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "token module rejected burn")
	}

	now := requestcontext.Now(ctx)
	if _, err := s.stablecoins.Execute(ctx, stablecoin, nil,
		func(sc *scmodels.Stablecoin) { sc.ApplyBurn(amount, now) }); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit burn accounting")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventTokensBurned,
		Stablecoin: stablecoin,
		Target:     account,
		Amount:     amount,
	})
	if s.metrics != nil {
		s.metrics.ObserveBurn(amount)
	}
	return nil
}

// Freeze halts transfers for one account. Requires the pauser capability.
func (s *Service) Freeze(ctx context.Context, stablecoin, account id.Address) error {
	return s.setFrozen(ctx, stablecoin, account, true)
}

// Thaw reverses a freeze. Requires the pauser capability.
func (s *Service) Thaw(ctx context.Context, stablecoin, account id.Address) error {
	return s.setFrozen(ctx, stablecoin, account, false)
}

func (s *Service) setFrozen(ctx context.Context, stablecoin, account id.Address, frozen bool) error {
	if account.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "account is required")
	}
	caller := requestcontext.Caller(ctx)

	sc, err := s.load(ctx, stablecoin)
	if err != nil {
		return err
	}
	if err := s.roles.Require(ctx, stablecoin, caller, rolesmodels.CapPauser); err != nil {
		return err
	}

	op := s.tokens.Freeze
	action := audit.EventAccountFrozen
	if !frozen {
		op = s.tokens.Thaw
		action = audit.EventAccountThawed
	}
	if err := op(ctx, account, sc.Mint, sc.Address); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "token module rejected freeze state change")
	}

	s.logAudit(ctx, audit.Event{Action: action, Stablecoin: stablecoin, Target: account})
	if s.metrics != nil {
		if frozen {
			s.metrics.IncrementFreezes()
		} else {
			s.metrics.IncrementThaws()
		}
	}
	return nil
}

// BatchMint issues to up to MaxBatchSize recipients in one all-or-nothing
// operation. Quota and supply cap are checked against the batch total before
// any recipient is credited.
func (s *Service) BatchMint(ctx context.Context, stablecoin id.Address, credits []token.Credit) error {
	if err := validBatchSize(len(credits)); err != nil {
		return err
	}
	var total uint64
	for _, c := range credits {
		if err := validAmount(c.Amount); err != nil {
			return err
		}
		if c.Destination.IsZero() {
			return dErrors.New(dErrors.CodeInvalidInput, "destination is required")
		}
		var err error
		if total, err = checked.Add(total, c.Amount); err != nil {
			return err
		}
	}
	caller := requestcontext.Caller(ctx)

	unlock := s.locks.Lock(string(stablecoin))
	defer unlock()

	sc, err := s.load(ctx, stablecoin)
	if err != nil {
		return err
	}
	if err := s.roles.Require(ctx, stablecoin, caller, rolesmodels.CapMinter); err != nil {
		return err
	}
	if err := sc.CheckMintable(total); err != nil {
		return s.reject(err)
	}
	if err := s.roles.RecordMint(ctx, stablecoin, caller, total); err != nil {
		return s.reject(err)
	}

	if err := s.tokens.MintBatch(ctx, sc.Mint, sc.Address, credits); err != nil {
		s.releaseQuota(ctx, stablecoin, caller, total)
		if errors.Is(err, sentinel.ErrFrozen) {
			return dErrors.New(dErrors.CodeConflict, "a destination account is frozen")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "token module rejected batch mint")
	}

	now := requestcontext.Now(ctx)
	if _, err := s.stablecoins.Execute(ctx, stablecoin, nil,
		func(sc *scmodels.Stablecoin) { sc.ApplyMint(total, now) }); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit mint accounting")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventTokensMinted,
		Stablecoin: stablecoin,
		Amount:     total,
		Detail:     "batch",
	})
	if s.metrics != nil {
		s.metrics.ObserveMint(total)
		s.metrics.ObserveBatch(len(credits))
	}
	return nil
}

// BatchFreeze freezes up to MaxBatchSize accounts in one all-or-nothing
// operation. Requires the pauser capability.
func (s *Service) BatchFreeze(ctx context.Context, stablecoin id.Address, accounts []id.Address) error {
	if err := validBatchSize(len(accounts)); err != nil {
		return err
	}
	for _, a := range accounts {
		if a.IsZero() {
			return dErrors.New(dErrors.CodeInvalidInput, "account is required")
		}
	}
	caller := requestcontext.Caller(ctx)

	sc, err := s.load(ctx, stablecoin)
	if err != nil {
		return err
	}
	if err := s.roles.Require(ctx, stablecoin, caller, rolesmodels.CapPauser); err != nil {
		return err
	}

	if err := s.tokens.FreezeBatch(ctx, sc.Mint, sc.Address, accounts); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "token module rejected batch freeze")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventAccountFrozen,
		Stablecoin: stablecoin,
		Detail:     "batch",
	})
	if s.metrics != nil {
		s.metrics.IncrementFreezes()
		s.metrics.ObserveBatch(len(accounts))
	}
	return nil
}

func (s *Service) load(ctx context.Context, stablecoin id.Address) (*scmodels.Stablecoin, error) {
	sc, err := s.stablecoins.Get(ctx, stablecoin)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "stablecoin not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load stablecoin")
	}
	return sc, nil
}

// releaseQuota backs out a consumed quota after a token module failure.
func (s *Service) releaseQuota(ctx context.Context, stablecoin, minter id.Address, amount uint64) {
	if err := s.roles.ReleaseMint(ctx, stablecoin, minter, amount); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to release minter quota after mint failure",
			"stablecoin", stablecoin, "minter", minter, "amount", amount, "error", err)
	}
}

// reject counts a refused operation before returning the error unchanged.
func (s *Service) reject(err error) error {
	if s.metrics != nil {
		if reason := dErrors.ReasonOf(err); reason != "" {
			s.metrics.IncrementRejected(reason)
		}
	}
	return err
}

func validAmount(amount uint64) error {
	if amount == 0 {
		return dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonZeroAmount, "amount must be greater than zero")
	}
	return nil
}

func validBatchSize(n int) error {
	if n == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "batch must not be empty")
	}
	if n > MaxBatchSize {
		return dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonBatchTooLarge, "batch exceeds the maximum size")
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if event.Actor == "" {
		event.Actor = requestcontext.Caller(ctx)
	}
	audit.Emit(ctx, s.logger, s.auditPublisher, event)
}
