package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sss/internal/audit"
	"sss/internal/roles/models"
	rolestore "sss/internal/roles/store"
	scmodels "sss/internal/stablecoin/models"
	scstore "sss/internal/stablecoin/store"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/requestcontext"
)

const (
	authority = id.Address("authority-1")
	minter    = id.Address("minter-1")
	outsider  = id.Address("outsider-1")
)

type RolesServiceSuite struct {
	suite.Suite
	service    *Service
	roles      *rolestore.InMemory
	recorder   *audit.Recorder
	stablecoin *scmodels.Stablecoin
	now        time.Time
}

func TestRolesServiceSuite(t *testing.T) {
	suite.Run(t, new(RolesServiceSuite))
}

func (s *RolesServiceSuite) SetupTest() {
	s.now = time.Unix(1_700_000_000, 0)
	s.roles = rolestore.NewInMemory()
	s.recorder = audit.NewRecorder()

	scs := scstore.NewInMemory()
	sc, err := scmodels.New(scmodels.InitializeParams{
		Mint:      "mint-1",
		Authority: authority,
		Name:      "Test Dollar",
		Symbol:    "TUSD",
		Decimals:  6,
	}, s.now)
	s.Require().NoError(err)
	s.Require().NoError(scs.Create(context.Background(), sc))
	s.stablecoin = sc

	s.service = New(s.roles, scs,
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithAuditPublisher(s.recorder),
	)
}

func (s *RolesServiceSuite) ctxAs(caller id.Address) context.Context {
	ctx := requestcontext.WithCaller(context.Background(), caller)
	return requestcontext.WithTime(ctx, s.now)
}

func (s *RolesServiceSuite) grantMinter() {
	_, err := s.service.UpdateRoles(s.ctxAs(authority), s.stablecoin.Address, minter, models.Capabilities{Minter: true})
	s.Require().NoError(err)
}

func (s *RolesServiceSuite) TestUpdateRoles() {
	s.Run("authority grants and revokes capabilities", func() {
		role, err := s.service.UpdateRoles(s.ctxAs(authority), s.stablecoin.Address, minter,
			models.Capabilities{Minter: true, Burner: true})
		s.Require().NoError(err)
		s.True(role.Caps.Has(models.CapMinter))
		s.False(role.Caps.Has(models.CapPauser))

		role, err = s.service.UpdateRoles(s.ctxAs(authority), s.stablecoin.Address, minter, models.Capabilities{})
		s.Require().NoError(err)
		s.False(role.Caps.Has(models.CapMinter))
	})

	s.Run("non-authority cannot grant", func() {
		_, err := s.service.UpdateRoles(s.ctxAs(outsider), s.stablecoin.Address, minter, models.All())
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("unknown stablecoin is not found", func() {
		_, err := s.service.UpdateRoles(s.ctxAs(authority), "no-such-address", minter, models.All())
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("emits an audit event", func() {
		_, err := s.service.UpdateRoles(s.ctxAs(authority), s.stablecoin.Address, minter, models.All())
		s.Require().NoError(err)
		s.NotEmpty(s.recorder.ByAction(audit.EventRolesUpdated))
	})
}

func (s *RolesServiceSuite) TestRequire() {
	s.grantMinter()

	s.Run("passes when capability held", func() {
		s.NoError(s.service.Require(s.ctxAs(minter), s.stablecoin.Address, minter, models.CapMinter))
	})

	s.Run("fails when capability missing from grant", func() {
		err := s.service.Require(s.ctxAs(minter), s.stablecoin.Address, minter, models.CapPauser)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("fails identically when no grant exists", func() {
		err := s.service.Require(s.ctxAs(outsider), s.stablecoin.Address, outsider, models.CapMinter)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})
}

func (s *RolesServiceSuite) TestUpdateMinterQuota() {
	s.grantMinter()

	s.Run("authority configures a quota", func() {
		q, err := s.service.UpdateMinterQuota(s.ctxAs(authority), s.stablecoin.Address, minter, 1000, 86400)
		s.Require().NoError(err)
		s.Equal(uint64(1000), q.Quota)
		s.Equal(int64(86400), q.EpochDuration)
		s.Equal(s.now.Unix(), q.EpochStart)
	})

	s.Run("reconfiguration keeps the lifetime counter", func() {
		_, err := s.service.UpdateMinterQuota(s.ctxAs(authority), s.stablecoin.Address, minter, 1000, 0)
		s.Require().NoError(err)
		s.Require().NoError(s.service.RecordMint(s.ctxAs(minter), s.stablecoin.Address, minter, 400))

		q, err := s.service.UpdateMinterQuota(s.ctxAs(authority), s.stablecoin.Address, minter, 2000, 3600)
		s.Require().NoError(err)
		s.Equal(uint64(400), q.MintedAmount)
		s.Equal(uint64(0), q.MintedThisEpoch)
	})

	s.Run("non-authority cannot configure", func() {
		_, err := s.service.UpdateMinterQuota(s.ctxAs(outsider), s.stablecoin.Address, minter, 1000, 0)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})

	s.Run("target must hold the minter capability", func() {
		_, err := s.service.UpdateMinterQuota(s.ctxAs(authority), s.stablecoin.Address, outsider, 1000, 0)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonInvalidRoleConfig))
	})

	s.Run("negative epoch duration is rejected", func() {
		_, err := s.service.UpdateMinterQuota(s.ctxAs(authority), s.stablecoin.Address, minter, 1000, -5)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonInvalidEpochDuration))
	})
}

func (s *RolesServiceSuite) TestQuotaConsumption() {
	s.grantMinter()
	_, err := s.service.UpdateMinterQuota(s.ctxAs(authority), s.stablecoin.Address, minter, 1000, 86400)
	s.Require().NoError(err)

	s.Run("check does not consume", func() {
		s.NoError(s.service.CheckQuota(s.ctxAs(minter), s.stablecoin.Address, minter, 1000))
		s.NoError(s.service.CheckQuota(s.ctxAs(minter), s.stablecoin.Address, minter, 1000))
	})

	s.Run("record consumes and enforces the limit", func() {
		s.Require().NoError(s.service.RecordMint(s.ctxAs(minter), s.stablecoin.Address, minter, 700))
		err := s.service.RecordMint(s.ctxAs(minter), s.stablecoin.Address, minter, 301)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonQuotaExceeded))
		s.NoError(s.service.RecordMint(s.ctxAs(minter), s.stablecoin.Address, minter, 300))
	})

	s.Run("epoch rollover frees the window", func() {
		later := requestcontext.WithTime(
			requestcontext.WithCaller(context.Background(), minter),
			s.now.Add(24*time.Hour),
		)
		s.NoError(s.service.RecordMint(later, s.stablecoin.Address, minter, 1000))
	})

	s.Run("unconfigured minter cannot mint", func() {
		err := s.service.RecordMint(s.ctxAs(outsider), s.stablecoin.Address, outsider, 1)
		s.Require().Error(err)
		s.True(dErrors.HasReason(err, dErrors.ReasonUnauthorized))
	})
}
