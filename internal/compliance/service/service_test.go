package service

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sss/internal/audit"
	"sss/internal/compliance/store"
	rolesmodels "sss/internal/roles/models"
	rolesservice "sss/internal/roles/service"
	rolestore "sss/internal/roles/store"
	scmodels "sss/internal/stablecoin/models"
	scservice "sss/internal/stablecoin/service"
	scstore "sss/internal/stablecoin/store"
	"sss/internal/token"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/requestcontext"
)

const (
	founder  = id.Address("founder-1")
	officer  = id.Address("officer-1")
	badActor = id.Address("bad-actor-1")
	treasury = id.Address("treasury-1")
	civilian = id.Address("civilian-1")
)

type ComplianceSuite struct {
	suite.Suite
	service  *Service
	roles    *rolesservice.Service
	ledger   *token.InMemoryLedger
	recorder *audit.Recorder
	sss2     *scmodels.Stablecoin // compliance tier
	sss1     *scmodels.Stablecoin // base tier
	now      time.Time
}

func TestComplianceSuite(t *testing.T) {
	suite.Run(t, new(ComplianceSuite))
}

func (s *ComplianceSuite) SetupTest() {
	s.now = time.Unix(1_700_000_000, 0)
	s.ledger = token.NewInMemoryLedger()
	s.recorder = audit.NewRecorder()

	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	stores := scstore.NewInMemory()
	s.roles = rolesservice.New(rolestore.NewInMemory(), stores, rolesservice.WithLogger(log))

	lifecycle := scservice.New(stores, s.ledger, s.roles, scservice.WithLogger(log))
	sss2, err := lifecycle.Initialize(s.ctxAs(founder), scmodels.InitializeParams{
		Mint:                    "mint-sss2",
		Name:                    "Compliant Dollar",
		Symbol:                  "CUSD",
		Decimals:                6,
		EnablePermanentDelegate: true,
		EnableTransferHook:      true,
	})
	s.Require().NoError(err)
	s.sss2 = sss2

	sss1, err := lifecycle.Initialize(s.ctxAs(founder), scmodels.InitializeParams{
		Mint:   "mint-sss1",
		Name:   "Basic Dollar",
		Symbol: "BUSD",
	})
	s.Require().NoError(err)
	s.sss1 = sss1

	s.service = New(store.NewInMemory(), store.NewInMemoryWindow(), stores, s.ledger, s.roles,
		WithLogger(log),
		WithAuditPublisher(s.recorder),
	)

	// officer-1 holds the compliance capabilities for the sss2 currency
	_, err = s.roles.UpdateRoles(s.ctxAs(founder), sss2.Address, officer,
		rolesmodels.Capabilities{Blacklister: true, Seizer: true})
	s.Require().NoError(err)
}

func (s *ComplianceSuite) ctxAs(caller id.Address) context.Context {
	return s.ctxAt(caller, s.now)
}

func (s *ComplianceSuite) ctxAt(caller id.Address, at time.Time) context.Context {
	ctx := requestcontext.WithCaller(context.Background(), caller)
	return requestcontext.WithTime(ctx, at)
}

func (s *ComplianceSuite) TestBlacklist() {
	s.Run("officer blocks and unblocks an address", func() {
		entry, err := s.service.AddToBlacklist(s.ctxAs(officer), s.sss2.Address, badActor, "sanctions match")
		s.Require().NoError(err)
		s.Equal(badActor, entry.Target)
		s.Equal(officer, entry.AddedBy)

		blocked, err := s.service.IsBlacklisted(context.Background(), s.sss2.Address, badActor)
		s.Require().NoError(err)
		s.True(blocked)

		s.Require().NoError(s.service.RemoveFromBlacklist(s.ctxAs(officer), s.sss2.Address, badActor))
		blocked, err = s.service.IsBlacklisted(context.Background(), s.sss2.Address, badActor)
		s.Require().NoError(err)
		s.False(blocked)
	})

	s.Run("double add conflicts", func() {
		_, err := s.service.AddToBlacklist(s.ctxAs(officer), s.sss2.Address, badActor, "first")
		s.Require().NoError(err)
		_, err = s.service.AddToBlacklist(s.ctxAs(officer), s.sss2.Address, badActor, "second")
		s.True(dErrors.HasReason(err, dErrors.ReasonAlreadyBlacklisted))
	})

	s.Run("removing an absent entry fails", func() {
		err := s.service.RemoveFromBlacklist(s.ctxAs(officer), s.sss2.Address, civilian)
		s.True(dErrors.HasReason(err, dErrors.ReasonNotBlacklisted))
	})

	s.Run("base tier currency refuses blacklisting", func() {
		_, err := s.service.AddToBlacklist(s.ctxAs(founder), s.sss1.Address, badActor, "x")
		s.True(dErrors.HasReason(err, dErrors.ReasonComplianceNotEnabled))
	})

	s.Run("blacklister capability required", func() {
		_, err := s.service.AddToBlacklist(s.ctxAs(civilian), s.sss2.Address, badActor, "x")
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("reason bound enforced", func() {
		_, err := s.service.AddToBlacklist(s.ctxAs(officer), s.sss2.Address, civilian, strings.Repeat("r", 101))
		s.True(dErrors.HasReason(err, dErrors.ReasonReasonTooLong))
	})
}

func (s *ComplianceSuite) TestBatchBlacklist() {
	s.Run("batch too large rejected", func() {
		targets := make([]id.Address, MaxBatchSize+1)
		for i := range targets {
			targets[i] = id.Address("t")
		}
		err := s.service.BatchBlacklist(s.ctxAs(officer), s.sss2.Address, targets, "x")
		s.True(dErrors.HasReason(err, dErrors.ReasonBatchTooLarge))
	})

	s.Run("one duplicate fails the whole batch", func() {
		_, err := s.service.AddToBlacklist(s.ctxAs(officer), s.sss2.Address, "dup-1", "x")
		s.Require().NoError(err)

		err = s.service.BatchBlacklist(s.ctxAs(officer), s.sss2.Address,
			[]id.Address{"fresh-1", "dup-1", "fresh-2"}, "x")
		s.True(dErrors.HasReason(err, dErrors.ReasonAlreadyBlacklisted))

		blocked, err := s.service.IsBlacklisted(context.Background(), s.sss2.Address, "fresh-1")
		s.Require().NoError(err)
		s.False(blocked, "no partial state after a failed batch")
	})

	s.Run("repeated target inside the batch rejected", func() {
		err := s.service.BatchBlacklist(s.ctxAs(officer), s.sss2.Address,
			[]id.Address{"twice-1", "other-1", "twice-1"}, "x")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		blocked, err := s.service.IsBlacklisted(context.Background(), s.sss2.Address, "twice-1")
		s.Require().NoError(err)
		s.False(blocked, "nothing stored from a duplicated batch")
	})

	s.Run("clean batch blocks every target", func() {
		targets := []id.Address{"batch-a", "batch-b", "batch-c"}
		s.Require().NoError(s.service.BatchBlacklist(s.ctxAs(officer), s.sss2.Address, targets, "sweep"))
		for _, target := range targets {
			blocked, err := s.service.IsBlacklisted(context.Background(), s.sss2.Address, target)
			s.Require().NoError(err)
			s.True(blocked)
		}
	})
}

func (s *ComplianceSuite) TestSeize() {
	// bad-actor-1 holds a self-owned account with a balance
	s.Require().NoError(s.ledger.MintTo(context.Background(), s.sss2.Mint, badActor, s.sss2.Address, 1000))

	s.Run("cannot seize from a compliant holder", func() {
		_, err := s.service.Seize(s.ctxAs(officer), s.sss2.Address, badActor, treasury)
		s.True(dErrors.HasReason(err, dErrors.ReasonNotBlacklisted))
	})

	s.Run("seizes the full balance of a blacklisted holder", func() {
		_, err := s.service.AddToBlacklist(s.ctxAs(officer), s.sss2.Address, badActor, "sanctions match")
		s.Require().NoError(err)

		seized, err := s.service.Seize(s.ctxAs(officer), s.sss2.Address, badActor, treasury)
		s.Require().NoError(err)
		s.Equal(uint64(1000), seized)

		bal, err := s.ledger.BalanceOf(context.Background(), badActor, s.sss2.Mint)
		s.Require().NoError(err)
		s.Zero(bal)
		bal, err = s.ledger.BalanceOf(context.Background(), treasury, s.sss2.Mint)
		s.Require().NoError(err)
		s.Equal(uint64(1000), bal)

		s.NotEmpty(s.recorder.ByAction(audit.EventTokensSeized))
	})

	s.Run("an emptied account has nothing left to seize", func() {
		_, err := s.service.Seize(s.ctxAs(officer), s.sss2.Address, badActor, treasury)
		s.True(dErrors.HasReason(err, dErrors.ReasonZeroAmount))
	})

	s.Run("seizer capability required", func() {
		_, err := s.service.Seize(s.ctxAs(civilian), s.sss2.Address, badActor, treasury)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})
}

func (s *ComplianceSuite) TestTransferLimits() {
	s.Run("only the authority configures limits", func() {
		_, err := s.service.ConfigureTransferLimits(s.ctxAs(officer), s.sss2.Address, 100, 1000)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("base tier refuses limits", func() {
		_, err := s.service.ConfigureTransferLimits(s.ctxAs(founder), s.sss1.Address, 100, 1000)
		s.True(dErrors.HasReason(err, dErrors.ReasonComplianceNotEnabled))
	})

	s.Run("configure round-trips", func() {
		config, err := s.service.ConfigureTransferLimits(s.ctxAs(founder), s.sss2.Address, 100, 1000)
		s.Require().NoError(err)
		s.Equal(uint64(100), config.MaxPerTransfer)
		s.Equal(uint64(1000), config.MaxPerDay)
	})
}

func (s *ComplianceSuite) TestCheckTransfer() {
	_, err := s.service.ConfigureTransferLimits(s.ctxAs(founder), s.sss2.Address, 100, 250)
	s.Require().NoError(err)

	src, dst := id.Address("wallet-a"), id.Address("wallet-b")

	s.Run("allows a clean transfer and counts it", func() {
		s.NoError(s.service.CheckTransfer(s.ctxAs(src), s.sss2.Address, src, dst, 100))
	})

	s.Run("per-transfer limit enforced", func() {
		err := s.service.CheckTransfer(s.ctxAs(src), s.sss2.Address, src, dst, 101)
		s.True(dErrors.HasReason(err, dErrors.ReasonTransferLimitExceeded))
	})

	s.Run("daily limit accumulates across transfers", func() {
		s.NoError(s.service.CheckTransfer(s.ctxAs(src), s.sss2.Address, src, dst, 100))
		// 200 used; 100 more would breach 250
		err := s.service.CheckTransfer(s.ctxAs(src), s.sss2.Address, src, dst, 100)
		s.True(dErrors.HasReason(err, dErrors.ReasonTransferLimitExceeded))
		// the denied transfer must not consume the window
		s.NoError(s.service.CheckTransfer(s.ctxAs(src), s.sss2.Address, src, dst, 50))
	})

	s.Run("a new day opens a fresh window", func() {
		nextDay := s.ctxAt(src, s.now.Add(24*time.Hour))
		s.NoError(s.service.CheckTransfer(nextDay, s.sss2.Address, src, dst, 100))
	})

	s.Run("blacklisted source denied", func() {
		_, err := s.service.AddToBlacklist(s.ctxAs(officer), s.sss2.Address, src, "x")
		s.Require().NoError(err)
		err = s.service.CheckTransfer(s.ctxAs(src), s.sss2.Address, src, dst, 1)
		s.True(dErrors.HasReason(err, dErrors.ReasonBlacklisted))
	})

	s.Run("blacklisted destination denied", func() {
		err := s.service.CheckTransfer(s.ctxAs(dst), s.sss2.Address, dst, src, 1)
		s.True(dErrors.HasReason(err, dErrors.ReasonBlacklisted))
	})

	s.Run("pause denies everything", func() {
		unpause := s.pauseCurrency()
		defer unpause()

		err := s.service.CheckTransfer(s.ctxAs(civilian), s.sss2.Address, "wallet-x", "wallet-y", 1)
		s.True(dErrors.HasReason(err, dErrors.ReasonPaused))
	})

	s.Run("zero limits disable both gates", func() {
		_, err := s.service.ConfigureTransferLimits(s.ctxAs(founder), s.sss2.Address, 0, 0)
		s.Require().NoError(err)
		s.NoError(s.service.CheckTransfer(s.ctxAs(civilian), s.sss2.Address, "wallet-x", "wallet-y", 1_000_000))
	})
}

// pauseCurrency flips the pause flag directly in the store and returns the
// unpause function.
func (s *ComplianceSuite) pauseCurrency() func() {
	stores := s.service.stablecoins
	_, err := stores.Execute(context.Background(), s.sss2.Address, nil,
		func(sc *scmodels.Stablecoin) { sc.ApplyPause(s.now) })
	s.Require().NoError(err)
	return func() {
		_, err := stores.Execute(context.Background(), s.sss2.Address, nil,
			func(sc *scmodels.Stablecoin) { sc.ApplyUnpause(s.now) })
		s.Require().NoError(err)
	}
}
