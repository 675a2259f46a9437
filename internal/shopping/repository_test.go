package shopping

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"wellness-tracker/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.SQL)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	t.Run("Latest-Empty", func(t *testing.T) {
		snap, err := repo.Latest(ctx)
		require.NoError(t, err)
		assert.Nil(t, snap)
	})

	res := Result{Items: []LineItem{
		{Name: "melon", Qty: 1, Unit: "each", EstCost: cost(3.50)},
		{Name: "cayenne", Qty: 1, Unit: "each"},
	}}

	t.Run("Save", func(t *testing.T) {
		id, err := repo.Save(ctx, res)
		require.NoError(t, err)
		assert.Positive(t, id)
	})

	t.Run("Latest", func(t *testing.T) {
		snap, err := repo.Latest(ctx)
		require.NoError(t, err)
		require.NotNil(t, snap)

		assert.Equal(t, Cost(3.50), snap.Total)
		require.Len(t, snap.Items, 2)
		assert.Equal(t, "melon", snap.Items[0].Name)
		require.NotNil(t, snap.Items[0].EstCost)
		assert.Equal(t, "3.50", snap.Items[0].EstCost.String())
		assert.Nil(t, snap.Items[1].EstCost)
	})

	t.Run("DeleteOlderThan", func(t *testing.T) {
		repo.now = func() time.Time { return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC) }
		_, err := repo.Save(ctx, res)
		require.NoError(t, err)

		n, err := repo.DeleteOlderThan(ctx, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		snap, err := repo.Latest(ctx)
		require.NoError(t, err)
		require.NotNil(t, snap)
		assert.True(t, snap.CreatedAt.After(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)))
	})
}
