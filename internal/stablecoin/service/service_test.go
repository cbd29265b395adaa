package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sss/internal/audit"
	rolesmodels "sss/internal/roles/models"
	rolesservice "sss/internal/roles/service"
	rolestore "sss/internal/roles/store"
	"sss/internal/stablecoin/models"
	"sss/internal/stablecoin/store"
	"sss/internal/token"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/requestcontext"
)

const (
	founder   = id.Address("founder-1")
	successor = id.Address("successor-1")
	outsider  = id.Address("outsider-1")
)

type StablecoinServiceSuite struct {
	suite.Suite
	service  *Service
	roles    *rolesservice.Service
	ledger   *token.InMemoryLedger
	recorder *audit.Recorder
	now      time.Time
}

func TestStablecoinServiceSuite(t *testing.T) {
	suite.Run(t, new(StablecoinServiceSuite))
}

func (s *StablecoinServiceSuite) SetupTest() {
	s.now = time.Unix(1_700_000_000, 0)
	s.ledger = token.NewInMemoryLedger()
	s.recorder = audit.NewRecorder()

	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	scs := store.NewInMemory()
	s.roles = rolesservice.New(rolestore.NewInMemory(), scs, rolesservice.WithLogger(log))
	s.service = New(scs, s.ledger, s.roles,
		WithLogger(log),
		WithAuditPublisher(s.recorder),
	)
}

func (s *StablecoinServiceSuite) ctxAs(caller id.Address) context.Context {
	ctx := requestcontext.WithCaller(context.Background(), caller)
	return requestcontext.WithTime(ctx, s.now)
}

func (s *StablecoinServiceSuite) initialize(mint string) *models.Stablecoin {
	sc, err := s.service.Initialize(s.ctxAs(founder), models.InitializeParams{
		Mint:     id.Address(mint),
		Name:     "Test Dollar",
		Symbol:   "TUSD",
		Decimals: 6,
	})
	s.Require().NoError(err)
	return sc
}

func (s *StablecoinServiceSuite) TestInitialize() {
	s.Run("caller becomes authority with every capability", func() {
		sc := s.initialize("mint-a")
		s.Equal(founder, sc.Authority)

		for _, cap := range []rolesmodels.Capability{
			rolesmodels.CapMinter, rolesmodels.CapBurner, rolesmodels.CapPauser,
			rolesmodels.CapBlacklister, rolesmodels.CapSeizer,
		} {
			s.NoError(s.roles.Require(s.ctxAs(founder), sc.Address, founder, cap))
		}
	})

	s.Run("second initialize for the same mint conflicts", func() {
		s.initialize("mint-b")
		_, err := s.service.Initialize(s.ctxAs(outsider), models.InitializeParams{
			Mint: "mint-b", Name: "Other", Symbol: "OTH",
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("emits an audit event", func() {
		s.initialize("mint-c")
		s.NotEmpty(s.recorder.ByAction(audit.EventStablecoinInitialized))
	})
}

func (s *StablecoinServiceSuite) TestPauseControl() {
	sc := s.initialize("mint-a")

	s.Run("pauser capability required", func() {
		_, err := s.service.Pause(s.ctxAs(outsider), sc.Address)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("pause and unpause round-trip", func() {
		paused, err := s.service.Pause(s.ctxAs(founder), sc.Address)
		s.Require().NoError(err)
		s.True(paused.Paused)

		// redundant pause is rejected
		_, err = s.service.Pause(s.ctxAs(founder), sc.Address)
		s.Require().Error(err)

		resumed, err := s.service.Unpause(s.ctxAs(founder), sc.Address)
		s.Require().NoError(err)
		s.False(resumed.Paused)
	})

	s.Run("a granted pauser who is not the authority can pause", func() {
		_, err := s.roles.UpdateRoles(s.ctxAs(founder), sc.Address, outsider,
			rolesmodels.Capabilities{Pauser: true})
		s.Require().NoError(err)

		_, err = s.service.Pause(s.ctxAs(outsider), sc.Address)
		s.NoError(err)
	})
}

func (s *StablecoinServiceSuite) TestUpdateSupplyCap() {
	sc := s.initialize("mint-a")

	s.Run("authority sets the cap", func() {
		updated, err := s.service.UpdateSupplyCap(s.ctxAs(founder), sc.Address, 5000)
		s.Require().NoError(err)
		s.Equal(uint64(5000), updated.MaxSupply)
	})

	s.Run("non-authority rejected", func() {
		_, err := s.service.UpdateSupplyCap(s.ctxAs(outsider), sc.Address, 5000)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("unknown currency not found", func() {
		_, err := s.service.UpdateSupplyCap(s.ctxAs(founder), "no-such-address", 5000)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *StablecoinServiceSuite) TestAuthorityTransfer() {
	sc := s.initialize("mint-a")

	s.Run("only the authority proposes", func() {
		_, err := s.service.TransferAuthority(s.ctxAs(outsider), sc.Address, successor)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("propose does not change the authority", func() {
		updated, err := s.service.TransferAuthority(s.ctxAs(founder), sc.Address, successor)
		s.Require().NoError(err)
		s.Equal(founder, updated.Authority)
		s.Equal(successor, updated.PendingAuthority)
	})

	s.Run("only the successor accepts", func() {
		_, err := s.service.AcceptAuthority(s.ctxAs(outsider), sc.Address)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("accept completes the handover and seeds capabilities", func() {
		updated, err := s.service.AcceptAuthority(s.ctxAs(successor), sc.Address)
		s.Require().NoError(err)
		s.Equal(successor, updated.Authority)
		s.True(updated.PendingAuthority.IsZero())

		s.NoError(s.roles.Require(s.ctxAs(successor), sc.Address, successor, rolesmodels.CapPauser))
		s.NotEmpty(s.recorder.ByAction(audit.EventAuthorityTransferred))
	})

	s.Run("old authority lost control of the record", func() {
		_, err := s.service.UpdateSupplyCap(s.ctxAs(founder), sc.Address, 1)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})
}
