package database

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayKey(t *testing.T) {
	ts := time.Date(2025, 7, 9, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-09", DayKey(ts))
}

func TestQuotaDAO_MissingRowIsZero(t *testing.T) {
	dao := NewQuotaDAO(openTestDB(t))

	count, err := dao.DailyDrawCount(context.Background(), "user-1", "2025-07-09")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestQuotaDAO_IncrementAccumulates(t *testing.T) {
	dao := NewQuotaDAO(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, dao.IncrementDailyDrawCount(ctx, "user-1", "2025-07-09", 5))
	require.NoError(t, dao.IncrementDailyDrawCount(ctx, "user-1", "2025-07-09", 3))

	count, err := dao.DailyDrawCount(ctx, "user-1", "2025-07-09")
	require.NoError(t, err)
	assert.Equal(t, 8, count)
}

func TestQuotaDAO_DayRolloverIsNewRow(t *testing.T) {
	dao := NewQuotaDAO(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, dao.IncrementDailyDrawCount(ctx, "user-1", "2025-07-09", 10))

	count, err := dao.DailyDrawCount(ctx, "user-1", "2025-07-10")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestQuotaDAO_ZeroIncrementIsNoop(t *testing.T) {
	dao := NewQuotaDAO(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, dao.IncrementDailyDrawCount(ctx, "user-1", "2025-07-09", 0))

	count, err := dao.DailyDrawCount(ctx, "user-1", "2025-07-09")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestQuotaDAO_ConcurrentIncrementsDoNotLoseUpdates(t *testing.T) {
	dao := NewQuotaDAO(openTestDB(t))
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, dao.IncrementDailyDrawCount(ctx, "user-1", "2025-07-09", 2))
		}()
	}
	wg.Wait()

	count, err := dao.DailyDrawCount(ctx, "user-1", "2025-07-09")
	require.NoError(t, err)
	assert.Equal(t, workers*2, count)
}
