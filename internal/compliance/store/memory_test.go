package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"sss/internal/compliance/models"
	"sss/pkg/platform/sentinel"
)

type ComplianceStoreSuite struct {
	suite.Suite
	store *InMemory
	now   time.Time
}

func TestComplianceStoreSuite(t *testing.T) {
	suite.Run(t, new(ComplianceStoreSuite))
}

func (s *ComplianceStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.now = time.Unix(1_700_000_000, 0)
}

func (s *ComplianceStoreSuite) TestAddEntry() {
	ctx := context.Background()
	entry, err := models.NewBlacklistEntry("sc-1", "target-1", "reason", "officer-1", s.now)
	s.Require().NoError(err)

	s.Require().NoError(s.store.AddEntry(ctx, entry))

	got, err := s.store.GetEntry(ctx, entry.Address)
	s.Require().NoError(err)
	s.Equal(entry.Target, got.Target)

	err = s.store.AddEntry(ctx, entry)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *ComplianceStoreSuite) TestAddEntryReturnsCopies() {
	ctx := context.Background()
	entry, err := models.NewBlacklistEntry("sc-1", "target-1", "reason", "officer-1", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.AddEntry(ctx, entry))

	got, err := s.store.GetEntry(ctx, entry.Address)
	s.Require().NoError(err)
	got.Reason = "tampered"

	again, err := s.store.GetEntry(ctx, entry.Address)
	s.Require().NoError(err)
	s.Equal("reason", again.Reason)
}

func (s *ComplianceStoreSuite) TestAddBatchAllOrNothing() {
	ctx := context.Background()
	dup, err := models.NewBlacklistEntry("sc-1", "dup-1", "reason", "officer-1", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.AddEntry(ctx, dup))

	fresh, err := models.NewBlacklistEntry("sc-1", "fresh-1", "reason", "officer-1", s.now)
	s.Require().NoError(err)

	err = s.store.AddBatch(ctx, []*models.BlacklistEntry{fresh, dup})
	s.ErrorIs(err, sentinel.ErrConflict)

	_, err = s.store.GetEntry(ctx, fresh.Address)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ComplianceStoreSuite) TestRemoveEntry() {
	ctx := context.Background()
	entry, err := models.NewBlacklistEntry("sc-1", "target-1", "reason", "officer-1", s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.AddEntry(ctx, entry))

	s.Require().NoError(s.store.RemoveEntry(ctx, entry.Address))
	s.ErrorIs(s.store.RemoveEntry(ctx, entry.Address), sentinel.ErrNotFound)
}

func (s *ComplianceStoreSuite) TestLimitsRoundTrip() {
	ctx := context.Background()
	config := models.NewTransferLimitConfig("sc-1", 100, 1000, s.now)

	_, err := s.store.GetLimits(ctx, config.Address)
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.UpsertLimits(ctx, config))
	got, err := s.store.GetLimits(ctx, config.Address)
	s.Require().NoError(err)
	s.Equal(uint64(100), got.MaxPerTransfer)

	config.MaxPerTransfer = 200
	s.Require().NoError(s.store.UpsertLimits(ctx, config))
	got, err = s.store.GetLimits(ctx, config.Address)
	s.Require().NoError(err)
	s.Equal(uint64(200), got.MaxPerTransfer)
}

func TestInMemoryWindow(t *testing.T) {
	t.Run("accumulates per key", func(t *testing.T) {
		w := NewInMemoryWindow()
		ctx := context.Background()

		total, err := w.Add(ctx, "sc-1:1", 100, time.Hour)
		require.NoError(t, err)
		require.Equal(t, uint64(100), total)

		total, err = w.Add(ctx, "sc-1:1", 50, time.Hour)
		require.NoError(t, err)
		require.Equal(t, uint64(150), total)

		total, err = w.Add(ctx, "sc-1:2", 10, time.Hour)
		require.NoError(t, err)
		require.Equal(t, uint64(10), total)
	})

	t.Run("subtract rolls back without underflow", func(t *testing.T) {
		w := NewInMemoryWindow()
		ctx := context.Background()

		_, err := w.Add(ctx, "k", 100, time.Hour)
		require.NoError(t, err)
		require.NoError(t, w.Subtract(ctx, "k", 40))

		total, err := w.Add(ctx, "k", 0, time.Hour)
		require.NoError(t, err)
		require.Equal(t, uint64(60), total)

		require.NoError(t, w.Subtract(ctx, "k", 1000))
		total, err = w.Add(ctx, "k", 0, time.Hour)
		require.NoError(t, err)
		require.Equal(t, uint64(0), total)
	})

	t.Run("expired keys reset", func(t *testing.T) {
		w := NewInMemoryWindow()
		ctx := context.Background()

		_, err := w.Add(ctx, "k", 100, -time.Second)
		require.NoError(t, err)

		total, err := w.Add(ctx, "k", 5, time.Hour)
		require.NoError(t, err)
		require.Equal(t, uint64(5), total)
	})

	t.Run("concurrent adds are atomic", func(t *testing.T) {
		w := NewInMemoryWindow()
		ctx := context.Background()

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := w.Add(ctx, "k", 2, time.Hour)
				require.NoError(t, err)
			}()
		}
		wg.Wait()

		total, err := w.Add(ctx, "k", 0, time.Hour)
		require.NoError(t, err)
		require.Equal(t, uint64(100), total)
	})
}
