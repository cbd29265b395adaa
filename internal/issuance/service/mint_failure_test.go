package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	rolesmodels "sss/internal/roles/models"
	rolesservice "sss/internal/roles/service"
	rolestore "sss/internal/roles/store"
	scmodels "sss/internal/stablecoin/models"
	scstore "sss/internal/stablecoin/store"
	"sss/internal/token/mocks"
	id "sss/pkg/domain"
	"sss/pkg/requestcontext"
)

type mintFixture struct {
	stores     *scstore.InMemory
	roles      *rolesservice.Service
	sc         *scmodels.Stablecoin
	founderCtx context.Context
	minterCtx  context.Context
}

func newMintFixture(t *testing.T, now time.Time) *mintFixture {
	t.Helper()
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	stores := scstore.NewInMemory()
	sc, err := scmodels.New(scmodels.InitializeParams{
		Mint:      "mint-1",
		Authority: "founder-1",
		Name:      "Test Dollar",
		Symbol:    "TUSD",
	}, now)
	require.NoError(t, err)
	require.NoError(t, stores.Create(context.Background(), sc))

	roles := rolesservice.New(rolestore.NewInMemory(), stores, rolesservice.WithLogger(log))
	founderCtx := requestcontext.WithTime(requestcontext.WithCaller(context.Background(), "founder-1"), now)
	_, err = roles.Grant(founderCtx, sc.Address, "minter-1", rolesmodels.Capabilities{Minter: true})
	require.NoError(t, err)
	_, err = roles.UpdateMinterQuota(founderCtx, sc.Address, "minter-1", 1000, 0)
	require.NoError(t, err)

	return &mintFixture{
		stores:     stores,
		roles:      roles,
		sc:         sc,
		founderCtx: founderCtx,
		minterCtx:  requestcontext.WithTime(requestcontext.WithCaller(context.Background(), "minter-1"), now),
	}
}

// A token module failure after validation must leave every counter
// untouched: the quota consumed up front is released, and supply
// accounting never ran.
func TestMintTokenModuleFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Unix(1_700_000_000, 0)
	f := newMintFixture(t, now)

	tokens := mocks.NewMockModule(ctrl)
	tokens.EXPECT().
		MintTo(gomock.Any(), f.sc.Mint, id.Address("holder-1"), f.sc.Address, uint64(500)).
		Return(errors.New("transfer module unavailable"))

	svc := New(f.stores, tokens, f.roles, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	err := svc.Mint(f.minterCtx, f.sc.Address, "holder-1", 500)
	require.Error(t, err)

	after, err := f.stores.Get(context.Background(), f.sc.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(0), after.TotalMinted)

	// quota untouched as well: the full amount is still available
	require.NoError(t, f.roles.CheckQuota(f.minterCtx, f.sc.Address, "minter-1", 1000))
}

// A quota reconfiguration landing while the token module call is in flight
// must not fail the mint after value has moved. The quota was consumed
// before the call, so the ledger and the supply counters stay agreed.
func TestMintQuotaReconfiguredDuringTokenCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Unix(1_700_000_000, 0)
	f := newMintFixture(t, now)

	tokens := mocks.NewMockModule(ctrl)
	tokens.EXPECT().
		MintTo(gomock.Any(), f.sc.Mint, id.Address("holder-1"), f.sc.Address, uint64(500)).
		DoAndReturn(func(context.Context, id.Address, id.Address, id.Address, uint64) error {
			_, err := f.roles.UpdateMinterQuota(f.founderCtx, f.sc.Address, "minter-1", 100, 0)
			require.NoError(t, err)
			return nil
		})

	svc := New(f.stores, tokens, f.roles, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))

	require.NoError(t, svc.Mint(f.minterCtx, f.sc.Address, "holder-1", 500))

	after, err := f.stores.Get(context.Background(), f.sc.Address)
	require.NoError(t, err)
	require.Equal(t, uint64(500), after.TotalMinted)

	// the shrunk quota applies to the next mint, not retroactively
	err = svc.Mint(f.minterCtx, f.sc.Address, "holder-1", 1)
	require.Error(t, err)
}
