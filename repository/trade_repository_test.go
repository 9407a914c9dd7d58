package repository

import (
	"context"
	"testing"
	"time"

	"gemwheel/domain/entities"
	"gemwheel/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTradeRepository_Offers(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	items := NewCollectibleItemRepository(testDB.DB)
	repo := NewTradeRepository(testDB.DB)
	ctx := context.Background()

	badge := testutil.CreateTestItem("moon-badge", entities.RarityEpic)
	require.NoError(t, items.Create(ctx, badge))

	open := testutil.CreateTestTrade(100, 200, 48*time.Hour)
	open.Items = []*entities.TradeOfferItem{
		{Side: entities.TradeSideOffered, ItemID: badge.ID, Quantity: 1},
		{Side: entities.TradeSideRequested, ItemID: badge.ID, Quantity: 2},
	}
	require.NoError(t, repo.Create(ctx, open))
	require.NotZero(t, open.ID)

	overdue := testutil.CreateTestTrade(100, 300, -time.Minute)
	overdue.Items = []*entities.TradeOfferItem{{Side: entities.TradeSideOffered, ItemID: badge.ID, Quantity: 1}}
	require.NoError(t, repo.Create(ctx, overdue))

	incoming := testutil.CreateTestTrade(300, 100, time.Hour)
	require.NoError(t, repo.Create(ctx, incoming))

	t.Run("get with items", func(t *testing.T) {
		trade, err := repo.GetByIDForUpdate(ctx, open.ID)
		require.NoError(t, err)
		require.NotNil(t, trade)
		require.Len(t, trade.Items, 2)
		assert.Equal(t, entities.TradeSideOffered, trade.Items[0].Side)
		assert.Equal(t, 2, trade.Items[1].Quantity)

		missing, err := repo.GetByID(ctx, open.ID+100)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("pending count skips unswept expired offers", func(t *testing.T) {
		count, err := repo.CountPendingByInitiator(ctx, 100, time.Now())
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		before, err := repo.CountPendingByInitiator(ctx, 100, time.Now().Add(-10*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 2, before)
	})

	t.Run("list directions", func(t *testing.T) {
		out, err := repo.List(ctx, entities.TradeFilter{UserID: 100, Outgoing: true})
		require.NoError(t, err)
		assert.Len(t, out, 2)

		in, err := repo.List(ctx, entities.TradeFilter{UserID: 100, Incoming: true})
		require.NoError(t, err)
		require.Len(t, in, 1)
		assert.Equal(t, incoming.ID, in[0].ID)
		assert.Empty(t, in[0].Items)

		both, err := repo.List(ctx, entities.TradeFilter{UserID: 100})
		require.NoError(t, err)
		assert.Len(t, both, 3)
	})

	t.Run("expire overdue", func(t *testing.T) {
		now := time.Now().UTC()
		expired, err := repo.ExpirePending(ctx, now)
		require.NoError(t, err)
		require.Len(t, expired, 1)
		assert.Equal(t, overdue.ID, expired[0].ID)
		assert.Equal(t, entities.TradeStatusExpired, expired[0].Status)
		assert.Len(t, expired[0].Items, 1)

		again, err := repo.ExpirePending(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, again)
	})

	t.Run("status update", func(t *testing.T) {
		require.NoError(t, repo.UpdateStatus(ctx, open.ID, entities.TradeStatusAccepted, time.Now().UTC()))

		trade, err := repo.GetByID(ctx, open.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.TradeStatusAccepted, trade.Status)
		assert.NotNil(t, trade.RespondedAt)

		pending := entities.TradeStatusPending
		still, err := repo.List(ctx, entities.TradeFilter{UserID: 100, Status: &pending})
		require.NoError(t, err)
		require.Len(t, still, 1)
		assert.Equal(t, incoming.ID, still[0].ID)

		assert.Error(t, repo.UpdateStatus(ctx, open.ID+100, entities.TradeStatusDeclined, time.Now()))
	})
}
