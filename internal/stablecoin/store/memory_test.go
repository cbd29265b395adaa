package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"sss/internal/stablecoin/models"
	id "sss/pkg/domain"
	dErrors "sss/pkg/domain-errors"
	"sss/pkg/platform/sentinel"
)

type StablecoinStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestStablecoinStoreSuite(t *testing.T) {
	suite.Run(t, new(StablecoinStoreSuite))
}

func (s *StablecoinStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *StablecoinStoreSuite) newStablecoin(mint string) *models.Stablecoin {
	sc, err := models.New(models.InitializeParams{
		Mint:      id.Address(mint),
		Authority: "authority-1",
		Name:      "Test Dollar",
		Symbol:    "TUSD",
		Decimals:  6,
	}, time.Now())
	s.Require().NoError(err)
	return sc
}

func (s *StablecoinStoreSuite) TestCreateAndGet() {
	s.Run("creates and finds record by derived address", func() {
		sc := s.newStablecoin("mint-a")
		s.Require().NoError(s.store.Create(s.ctx, sc))

		found, err := s.store.Get(s.ctx, sc.Address)
		s.Require().NoError(err)
		s.Equal(sc.Name, found.Name)
	})

	s.Run("duplicate create conflicts", func() {
		sc := s.newStablecoin("mint-b")
		s.Require().NoError(s.store.Create(s.ctx, sc))
		s.Require().ErrorIs(s.store.Create(s.ctx, sc), sentinel.ErrConflict)
	})

	s.Run("unknown address is not found", func() {
		_, err := s.store.Get(s.ctx, "nope")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("Get returns a copy", func() {
		sc := s.newStablecoin("mint-c")
		s.Require().NoError(s.store.Create(s.ctx, sc))

		got, err := s.store.Get(s.ctx, sc.Address)
		s.Require().NoError(err)
		got.TotalMinted = 999

		again, err := s.store.Get(s.ctx, sc.Address)
		s.Require().NoError(err)
		s.Zero(again.TotalMinted)
	})
}

func (s *StablecoinStoreSuite) TestExecute() {
	sc := s.newStablecoin("mint-d")
	s.Require().NoError(s.store.Create(s.ctx, sc))

	s.Run("validate failure leaves record untouched", func() {
		_, err := s.store.Execute(s.ctx, sc.Address,
			func(*models.Stablecoin) error {
				return dErrors.New(dErrors.CodeConflict, "no")
			},
			func(cur *models.Stablecoin) { cur.TotalMinted = 1 })
		s.Require().Error(err)

		got, err := s.store.Get(s.ctx, sc.Address)
		s.Require().NoError(err)
		s.Zero(got.TotalMinted)
	})

	s.Run("mutation commits and is returned", func() {
		updated, err := s.store.Execute(s.ctx, sc.Address, nil,
			func(cur *models.Stablecoin) { cur.ApplyMint(42, time.Now()) })
		s.Require().NoError(err)
		s.Equal(uint64(42), updated.TotalMinted)
	})
}

func (s *StablecoinStoreSuite) TestConcurrentExecute() {
	sc := s.newStablecoin("mint-e")
	s.Require().NoError(s.store.Create(s.ctx, sc))

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(s.ctx, sc.Address, nil,
				func(cur *models.Stablecoin) { cur.TotalMinted++ })
			s.NoError(err)
		}()
	}
	wg.Wait()

	got, err := s.store.Get(s.ctx, sc.Address)
	s.Require().NoError(err)
	s.Equal(uint64(goroutines), got.TotalMinted,
		"concurrent read-modify-write must not lose updates")
}
