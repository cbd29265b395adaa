// Package service implements the compliance surface: blacklist management,
// seizure transfers, transfer limits, and the transfer hook check.
//
// Every operation here is gated twice: the currency must carry the
// compliance feature set (permanent delegate plus transfer hook), and the
// caller must hold the matching capability.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"sss/internal/audit"
	"sss/internal/compliance/metrics"
	"sss/internal/compliance/models"
	"sss/internal/compliance/store"
	rolesmodels "sss/internal/roles/models"
	scmodels "sss/internal/stablecoin/models"
	scstore "sss/internal/stablecoin/store"
	"sss/internal/token"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/platform/sentinel"
	"sss/pkg/requestcontext"
)

// MaxBatchSize bounds the batch blacklist operation.
const MaxBatchSize = 10

// windowTTL keeps day counters alive past their day so late checks within
// clock skew still see them.
const windowTTL = 48 * time.Hour

// RoleGate is the authorization surface the compliance module needs from
// the roles module.
type RoleGate interface {
	Require(ctx context.Context, stablecoin, actor id.Address, cap rolesmodels.Capability) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates compliance operations.
type Service struct {
	records        store.Store
	windows        store.WindowStore
	stablecoins    scstore.Store
	tokens         token.Module
	roles          RoleGate
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
func New(records store.Store, windows store.WindowStore, stablecoins scstore.Store,
	tokens token.Module, roles RoleGate, opts ...Option) *Service {

	s := &Service{
		records:     records,
		windows:     windows,
		stablecoins: stablecoins,
		tokens:      tokens,
		roles:       roles,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddToBlacklist blocks target for the currency. Requires the compliance
// tier and the blacklister capability.
func (s *Service) AddToBlacklist(ctx context.Context, stablecoin, target id.Address, reason string) (*models.BlacklistEntry, error) {
	caller := requestcontext.Caller(ctx)
	if _, err := s.complianceTier(ctx, stablecoin); err != nil {
		return nil, err
	}
	if err := s.roles.Require(ctx, stablecoin, caller, rolesmodels.CapBlacklister); err != nil {
		return nil, err
	}

	entry, err := models.NewBlacklistEntry(stablecoin, target, reason, caller, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.records.AddEntry(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonAlreadyBlacklisted, "address is already blacklisted")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store blacklist entry")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventAddedToBlacklist,
		Stablecoin: stablecoin,
		Target:     target,
		Detail:     reason,
	})
	if s.metrics != nil {
		s.metrics.IncrementBlacklistAdds()
	}
	return entry, nil
}

// RemoveFromBlacklist unblocks target. Requires the compliance tier and the
// blacklister capability.
func (s *Service) RemoveFromBlacklist(ctx context.Context, stablecoin, target id.Address) error {
	caller := requestcontext.Caller(ctx)
	if _, err := s.complianceTier(ctx, stablecoin); err != nil {
		return err
	}
	if err := s.roles.Require(ctx, stablecoin, caller, rolesmodels.CapBlacklister); err != nil {
		return err
	}

	addr, _ := models.BlacklistAddress(stablecoin, target)
	if err := s.records.RemoveEntry(ctx, addr); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.NewReason(dErrors.CodeNotFound, dErrors.ReasonNotBlacklisted, "address is not blacklisted")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove blacklist entry")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventRemovedFromBlacklist,
		Stablecoin: stablecoin,
		Target:     target,
	})
	if s.metrics != nil {
		s.metrics.IncrementBlacklistRemoves()
	}
	return nil
}

// BatchBlacklist blocks up to MaxBatchSize targets all-or-nothing: one
// duplicate or invalid entry fails the whole batch.
func (s *Service) BatchBlacklist(ctx context.Context, stablecoin id.Address, targets []id.Address, reason string) error {
	if len(targets) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "batch must not be empty")
	}
	if len(targets) > MaxBatchSize {
		return dErrors.NewReason(dErrors.CodeInvalidInput, dErrors.ReasonBatchTooLarge, "batch exceeds the maximum size")
	}
	caller := requestcontext.Caller(ctx)
	if _, err := s.complianceTier(ctx, stablecoin); err != nil {
		return err
	}
	if err := s.roles.Require(ctx, stablecoin, caller, rolesmodels.CapBlacklister); err != nil {
		return err
	}

	now := requestcontext.Now(ctx)
	entries := make([]*models.BlacklistEntry, 0, len(targets))
	seen := make(map[id.Address]struct{}, len(targets))
	for _, target := range targets {
		if _, dup := seen[target]; dup {
			return dErrors.New(dErrors.CodeInvalidInput, "batch lists the same target twice")
		}
		seen[target] = struct{}{}
		entry, err := models.NewBlacklistEntry(stablecoin, target, reason, caller, now)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	if err := s.records.AddBatch(ctx, entries); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonAlreadyBlacklisted, "an address in the batch is already blacklisted")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store blacklist batch")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventAddedToBlacklist,
		Stablecoin: stablecoin,
		Amount:     uint64(len(targets)),
		Detail:     "batch: " + reason,
	})
	if s.metrics != nil {
		for range targets {
			s.metrics.IncrementBlacklistAdds()
		}
	}
	return nil
}

// IsBlacklisted reports whether target is blocked for the currency.
func (s *Service) IsBlacklisted(ctx context.Context, stablecoin, target id.Address) (bool, error) {
	addr, _ := models.BlacklistAddress(stablecoin, target)
	_, err := s.records.GetEntry(ctx, addr)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load blacklist entry")
	}
	return true, nil
}

// Seize moves a blacklisted holder's entire balance to destination using
// the currency's permanent-delegate authority. The source account's owner
// must be blacklisted; seizure from compliant holders is refused. Partial
// seizure is not supported.
func (s *Service) Seize(ctx context.Context, stablecoin, source, destination id.Address) (uint64, error) {
	caller := requestcontext.Caller(ctx)
	sc, err := s.complianceTier(ctx, stablecoin)
	if err != nil {
		return 0, err
	}
	if err := s.roles.Require(ctx, stablecoin, caller, rolesmodels.CapSeizer); err != nil {
		return 0, err
	}

	owner, err := s.tokens.OwnerOf(ctx, source, sc.Mint)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve source account owner")
	}
	blocked, err := s.IsBlacklisted(ctx, stablecoin, owner)
	if err != nil {
		return 0, err
	}
	if !blocked {
		return 0, dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonNotBlacklisted, "source account owner is not blacklisted")
	}

	amount, err := s.tokens.BalanceOf(ctx, source, sc.Mint)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read source account balance")
	}
	if amount == 0 {
		return 0, dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonZeroAmount, "source account has no balance to seize")
	}

	if err := s.tokens.Transfer(ctx, source, sc.Mint, destination, sc.Address, amount, sc.Decimals); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "token module rejected seizure transfer")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventTokensSeized,
		Stablecoin: stablecoin,
		Target:     source,
		Amount:     amount,
	})
	if s.metrics != nil {
		s.metrics.ObserveSeizure(amount)
	}
	return amount, nil
}

// ConfigureTransferLimits sets the per-transfer and per-day bounds. Only
// the currency authority may call it; the compliance tier is required.
func (s *Service) ConfigureTransferLimits(ctx context.Context, stablecoin id.Address, maxPerTransfer, maxPerDay uint64) (*models.TransferLimitConfig, error) {
	caller := requestcontext.Caller(ctx)
	sc, err := s.complianceTier(ctx, stablecoin)
	if err != nil {
		return nil, err
	}
	if caller != sc.Authority {
		return nil, dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonUnauthorized, "caller is not the currency authority")
	}

	config := models.NewTransferLimitConfig(stablecoin, maxPerTransfer, maxPerDay, requestcontext.Now(ctx))
	if err := s.records.UpsertLimits(ctx, config); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store transfer limit config")
	}

	s.logAudit(ctx, audit.Event{
		Action:     audit.EventTransferLimitsSet,
		Stablecoin: stablecoin,
		Amount:     maxPerTransfer,
		Detail:     fmt.Sprintf("max_per_day=%d", maxPerDay),
	})
	return config, nil
}

// CheckTransfer is the transfer hook: it approves or denies one transfer
// and, when approved, counts it against the daily window. Denials report
// the first failed gate: pause, blacklist, then limits.
func (s *Service) CheckTransfer(ctx context.Context, stablecoin, source, destination id.Address, amount uint64) error {
	sc, err := s.load(ctx, stablecoin)
	if err != nil {
		return err
	}
	if sc.Paused {
		return s.deny(dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonPaused, "stablecoin is paused"))
	}

	for _, party := range []id.Address{source, destination} {
		blocked, err := s.IsBlacklisted(ctx, stablecoin, party)
		if err != nil {
			return err
		}
		if blocked {
			return s.deny(dErrors.NewReason(dErrors.CodeForbidden, dErrors.ReasonBlacklisted, "a transfer party is blacklisted"))
		}
	}

	limitAddr, _ := models.TransferLimitAddress(stablecoin)
	config, err := s.records.GetLimits(ctx, limitAddr)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.allow()
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transfer limit config")
	}

	if err := config.CheckPerTransfer(amount); err != nil {
		return s.deny(err)
	}
	if config.MaxPerDay > 0 {
		key := dayKey(stablecoin, requestcontext.Now(ctx))
		total, err := s.windows.Add(ctx, key, amount, windowTTL)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to accumulate daily window")
		}
		if err := config.CheckDaily(total); err != nil {
			// back out the rejected amount so a denied transfer does not
			// consume the window
			if serr := s.windows.Subtract(ctx, key, amount); serr != nil && s.logger != nil {
				s.logger.WarnContext(ctx, "failed to roll back daily window", "key", key, "error", serr)
			}
			return s.deny(err)
		}
	}

	s.allow()
	return nil
}

// dayKey buckets window counters by currency and UTC day.
func dayKey(stablecoin id.Address, now time.Time) string {
	return fmt.Sprintf("%s:%d", stablecoin, now.UTC().Unix()/86400)
}

// complianceTier loads the currency and verifies it carries the compliance
// feature set.
func (s *Service) complianceTier(ctx context.Context, stablecoin id.Address) (*scmodels.Stablecoin, error) {
	sc, err := s.load(ctx, stablecoin)
	if err != nil {
		return nil, err
	}
	if !sc.IsComplianceTier() {
		return nil, dErrors.NewReason(dErrors.CodeConflict, dErrors.ReasonComplianceNotEnabled, "stablecoin does not carry the compliance feature set")
	}
	return sc, nil
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

func (s *Service) deny(err error) error {
	if s.metrics != nil {
		s.metrics.IncrementTransferCheck(dErrors.ReasonOf(err))
	}
	return err
}

func (s *Service) allow() {
	if s.metrics != nil {
		s.metrics.IncrementTransferCheck("allowed")
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if event.Actor == "" {
		event.Actor = requestcontext.Caller(ctx)
	}
	audit.Emit(ctx, s.logger, s.auditPublisher, event)
}
