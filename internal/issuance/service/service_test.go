package service

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sss/internal/audit"
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
	minter   = id.Address("minter-1")
	holder   = id.Address("holder-1")
	outsider = id.Address("outsider-1")
)

type IssuanceSuite struct {
	suite.Suite
	service    *Service
	roles      *rolesservice.Service
	stablecoin *scmodels.Stablecoin
	stores     scstore.Store
	ledger     *token.InMemoryLedger
	recorder   *audit.Recorder
	now        time.Time
}

func TestIssuanceSuite(t *testing.T) {
	suite.Run(t, new(IssuanceSuite))
}

func (s *IssuanceSuite) SetupTest() {
	s.now = time.Unix(1_700_000_000, 0)
	s.ledger = token.NewInMemoryLedger()
	s.recorder = audit.NewRecorder()

	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	stores := scstore.NewInMemory()
	s.stores = stores
	s.roles = rolesservice.New(rolestore.NewInMemory(), stores, rolesservice.WithLogger(log))

	lifecycle := scservice.New(stores, s.ledger, s.roles, scservice.WithLogger(log))
	sc, err := lifecycle.Initialize(s.ctxAs(founder), scmodels.InitializeParams{
		Mint:      "mint-1",
		Name:      "Test Dollar",
		Symbol:    "TUSD",
		Decimals:  6,
		MaxSupply: 10_000,
	})
	s.Require().NoError(err)
	s.stablecoin = sc

	s.service = New(stores, s.ledger, s.roles,
		WithLogger(log),
		WithAuditPublisher(s.recorder),
	)

	// minter-1 is a configured minter with a daily quota of 1000
	_, err = s.roles.UpdateRoles(s.ctxAs(founder), sc.Address, minter,
		rolesmodels.Capabilities{Minter: true, Burner: true})
	s.Require().NoError(err)
	_, err = s.roles.UpdateMinterQuota(s.ctxAs(founder), sc.Address, minter, 1000, 86400)
	s.Require().NoError(err)
}

func (s *IssuanceSuite) ctxAs(caller id.Address) context.Context {
	return s.ctxAt(caller, s.now)
}

func (s *IssuanceSuite) ctxAt(caller id.Address, at time.Time) context.Context {
	ctx := requestcontext.WithCaller(context.Background(), caller)
	return requestcontext.WithTime(ctx, at)
}

func (s *IssuanceSuite) record() *scmodels.Stablecoin {
	sc, err := s.stores.Get(context.Background(), s.stablecoin.Address)
	s.Require().NoError(err)
	return sc
}

func (s *IssuanceSuite) balance(account id.Address) uint64 {
	bal, err := s.ledger.BalanceOf(context.Background(), account, s.stablecoin.Mint)
	s.Require().NoError(err)
	return bal
}

func (s *IssuanceSuite) TestMint() {
	s.Run("credits destination and advances counters", func() {
		s.Require().NoError(s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, holder, 300))

		s.Equal(uint64(300), s.balance(holder))
		s.Equal(uint64(300), s.record().TotalMinted)
		s.NotEmpty(s.recorder.ByAction(audit.EventTokensMinted))
	})

	s.Run("zero amount rejected", func() {
		err := s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, holder, 0)
		s.True(dErrors.HasReason(err, dErrors.ReasonZeroAmount))
	})

	s.Run("caller without minter capability rejected", func() {
		err := s.service.Mint(s.ctxAs(outsider), s.stablecoin.Address, holder, 10)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("quota exceeded leaves no trace", func() {
		before := s.record().TotalMinted
		err := s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, holder, 800)
		s.True(dErrors.HasReason(err, dErrors.ReasonQuotaExceeded))
		s.Equal(before, s.record().TotalMinted)
		s.Equal(uint64(300), s.balance(holder))
	})

	s.Run("epoch rollover frees the quota window", func() {
		nextDay := s.ctxAt(minter, s.now.Add(24*time.Hour))
		s.Require().NoError(s.service.Mint(nextDay, s.stablecoin.Address, holder, 800))
		s.Equal(uint64(1100), s.balance(holder))
	})

	s.Run("paused currency rejects mint", func() {
		s.pause()
		err := s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, holder, 10)
		s.True(dErrors.HasReason(err, dErrors.ReasonPaused))
		s.unpause()
	})
}

func (s *IssuanceSuite) TestSupplyCap() {
	// lift the quota out of the way
	_, err := s.roles.UpdateMinterQuota(s.ctxAs(founder), s.stablecoin.Address, minter, 1_000_000, 0)
	s.Require().NoError(err)

	s.Run("mint exactly to the cap", func() {
		s.Require().NoError(s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, minter, 10_000))
	})

	s.Run("one past the cap rejected", func() {
		err := s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, minter, 1)
		s.True(dErrors.HasReason(err, dErrors.ReasonSupplyCapExceeded))
	})

	s.Run("burn frees cap room", func() {
		s.Require().NoError(s.service.Burn(s.ctxAs(minter), s.stablecoin.Address, minter, 100))
		s.NoError(s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, minter, 100))
	})
}

func (s *IssuanceSuite) TestBurn() {
	s.Require().NoError(s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, minter, 500))

	s.Run("debits the caller's account and advances the burned total", func() {
		s.Require().NoError(s.service.Burn(s.ctxAs(minter), s.stablecoin.Address, minter, 200))
		s.Equal(uint64(300), s.balance(minter))
		s.Equal(uint64(200), s.record().TotalBurned)
	})

	s.Run("caller must own the account", func() {
		s.Require().NoError(s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, holder, 100))
		err := s.service.Burn(s.ctxAs(minter), s.stablecoin.Address, holder, 50)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("insufficient balance leaves accounting unchanged", func() {
		before := s.record().TotalBurned
		err := s.service.Burn(s.ctxAs(minter), s.stablecoin.Address, minter, 10_000)
		s.Require().Error(err)
		s.Equal(before, s.record().TotalBurned)
		s.Equal(uint64(300), s.balance(minter))
	})

	s.Run("caller without burner capability rejected", func() {
		err := s.service.Burn(s.ctxAs(outsider), s.stablecoin.Address, outsider, 1)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})
}

func (s *IssuanceSuite) TestFreezeThaw() {
	s.Require().NoError(s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, holder, 100))

	s.Run("pauser capability required", func() {
		err := s.service.Freeze(s.ctxAs(minter), s.stablecoin.Address, holder)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("frozen account rejects credits until thawed", func() {
		s.Require().NoError(s.service.Freeze(s.ctxAs(founder), s.stablecoin.Address, holder))

		err := s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, holder, 10)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		s.Require().NoError(s.service.Thaw(s.ctxAs(founder), s.stablecoin.Address, holder))
		s.NoError(s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, holder, 10))
	})
}

func (s *IssuanceSuite) TestBatchMint() {
	s.Run("batch too large rejected up front", func() {
		credits := make([]token.Credit, MaxBatchSize+1)
		for i := range credits {
			credits[i] = token.Credit{Destination: holder, Amount: 1}
		}
		err := s.service.BatchMint(s.ctxAs(minter), s.stablecoin.Address, credits)
		s.True(dErrors.HasReason(err, dErrors.ReasonBatchTooLarge))
	})

	s.Run("empty batch rejected", func() {
		err := s.service.BatchMint(s.ctxAs(minter), s.stablecoin.Address, nil)
		s.Require().Error(err)
	})

	s.Run("all recipients credited and a single total recorded", func() {
		credits := []token.Credit{
			{Destination: "acct-a", Amount: 100},
			{Destination: "acct-b", Amount: 200},
			{Destination: "acct-c", Amount: 300},
		}
		s.Require().NoError(s.service.BatchMint(s.ctxAs(minter), s.stablecoin.Address, credits))

		s.Equal(uint64(100), s.balance("acct-a"))
		s.Equal(uint64(200), s.balance("acct-b"))
		s.Equal(uint64(300), s.balance("acct-c"))
		s.Equal(uint64(600), s.record().TotalMinted)
	})

	s.Run("batch total past the quota leaves no partial state", func() {
		credits := []token.Credit{
			{Destination: "acct-d", Amount: 300},
			{Destination: "acct-e", Amount: 200},
		}
		err := s.service.BatchMint(s.ctxAs(minter), s.stablecoin.Address, credits)
		s.True(dErrors.HasReason(err, dErrors.ReasonQuotaExceeded))
		s.Equal(uint64(0), s.balance("acct-d"))
		s.Equal(uint64(0), s.balance("acct-e"))
		s.Equal(uint64(600), s.record().TotalMinted)
	})

	s.Run("one frozen recipient fails the whole batch", func() {
		s.Require().NoError(s.service.Freeze(s.ctxAs(founder), s.stablecoin.Address, "acct-b"))
		credits := []token.Credit{
			{Destination: "acct-a", Amount: 10},
			{Destination: "acct-b", Amount: 10},
		}
		err := s.service.BatchMint(s.ctxAs(minter), s.stablecoin.Address, credits)
		s.Require().Error(err)
		s.Equal(uint64(100), s.balance("acct-a"))
		s.Equal(uint64(600), s.record().TotalMinted)
	})
}

func (s *IssuanceSuite) TestBatchFreeze() {
	accounts := []id.Address{"acct-a", "acct-b", "acct-c"}

	s.Run("pauser capability required", func() {
		err := s.service.BatchFreeze(s.ctxAs(minter), s.stablecoin.Address, accounts)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("freezes every account", func() {
		s.Require().NoError(s.service.BatchFreeze(s.ctxAs(founder), s.stablecoin.Address, accounts))
		for _, a := range accounts {
			frozen, err := s.ledger.IsFrozen(context.Background(), a, s.stablecoin.Mint)
			s.Require().NoError(err)
			s.True(frozen)
		}
	})
}

func (s *IssuanceSuite) TestConcurrentMints() {
	// 20 concurrent mints of 50 against a quota of 1000: every attempt fits,
	// so all must succeed and the counters must land exactly on 1000.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, holder, 50))
		}()
	}
	wg.Wait()

	s.Equal(uint64(1000), s.balance(holder))
	s.Equal(uint64(1000), s.record().TotalMinted)

	err := s.service.Mint(s.ctxAs(minter), s.stablecoin.Address, holder, 1)
	s.True(dErrors.HasReason(err, dErrors.ReasonQuotaExceeded))
}

func (s *IssuanceSuite) pause() {
	_, err := s.stores.Execute(context.Background(), s.stablecoin.Address, nil,
		func(sc *scmodels.Stablecoin) { sc.ApplyPause(s.now) })
	s.Require().NoError(err)
}

func (s *IssuanceSuite) unpause() {
	_, err := s.stores.Execute(context.Background(), s.stablecoin.Address, nil,
		func(sc *scmodels.Stablecoin) { sc.ApplyUnpause(s.now) })
	s.Require().NoError(err)
}
