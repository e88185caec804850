package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

type fakeLeaderboardStore struct {
	stars  []model.StarTotal
	likes  []model.ReactionEvent
	scores []model.DailyScore

	upserts  [][]model.LeaderboardAggregate
	failCall int // 1-based index of the upsert call to fail, 0 = never
	calls    int
}

func (f *fakeLeaderboardStore) GetStarTotals(ctx context.Context) ([]model.StarTotal, error) {
	return f.stars, nil
}

func (f *fakeLeaderboardStore) GetReactionEvents(ctx context.Context) ([]model.ReactionEvent, error) {
	return f.likes, nil
}

func (f *fakeLeaderboardStore) GetDailyScores(ctx context.Context) ([]model.DailyScore, error) {
	return f.scores, nil
}

func (f *fakeLeaderboardStore) UpsertLeaderboardBatch(ctx context.Context, rows []model.LeaderboardAggregate) error {
	f.calls++
	if f.calls == f.failCall {
		return errors.New("connection reset by peer")
	}
	batch := make([]model.LeaderboardAggregate, len(rows))
	copy(batch, rows)
	f.upserts = append(f.upserts, batch)
	return nil
}

func (f *fakeLeaderboardStore) GetLeaderboard(ctx context.Context, periodType model.PeriodType, periodKey string, limit int) ([]model.LeaderboardAggregate, error) {
	return nil, nil
}

func (f *fakeLeaderboardStore) written() []model.LeaderboardAggregate {
	var rows []model.LeaderboardAggregate
	for _, batch := range f.upserts {
		rows = append(rows, batch...)
	}
	return rows
}

func newTestAggregator(store leaderboardStore, now time.Time, batchSize int) *Aggregator {
	return &Aggregator{
		store:     store,
		log:       testLogger(),
		batchSize: batchSize,
		timeout:   time.Minute,
		now:       func() time.Time { return now },
	}
}

func findRow(rows []model.LeaderboardAggregate, userID int64, pt model.PeriodType) *model.LeaderboardAggregate {
	for i := range rows {
		if rows[i].UserID == userID && rows[i].PeriodType == pt {
			return &rows[i]
		}
	}
	return nil
}

var aggNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func TestAggregatorRun_WeightsAndPeriods(t *testing.T) {
	store := &fakeLeaderboardStore{
		stars: []model.StarTotal{{UserID: 1, TotalStars: 10}},
		likes: []model.ReactionEvent{{UserID: 1, CreatedAt: aggNow.Add(-time.Hour)}},
		scores: []model.DailyScore{
			{UserID: 1, ScoreDate: aggNow, HabitsCompleted: 2, TasksCompleted: 1, StarsEarned: 3},
		},
	}
	agg := newTestAggregator(store, aggNow, 100)

	result, err := agg.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.RecordsWritten)
	assert.Zero(t, result.BatchesFailed)

	rows := store.written()

	daily := findRow(rows, 1, model.PeriodDaily)
	require.NotNil(t, daily)
	assert.Equal(t, "2026-08-31", daily.PeriodKey)
	assert.Equal(t, 3, daily.TotalStars)
	assert.Equal(t, 1, daily.TotalLikes)
	assert.Equal(t, 2, daily.HabitsCompleted)
	assert.Equal(t, 1, daily.TasksCompleted)
	// 1 like * 2 + 2 habits * 5 + 1 task * 3 + 3 stars * 1
	assert.Equal(t, 18, daily.TotalActivityScore)

	monthly := findRow(rows, 1, model.PeriodMonthly)
	require.NotNil(t, monthly)
	assert.Equal(t, "2026-08", monthly.PeriodKey)
	assert.Equal(t, 18, monthly.TotalActivityScore)

	yearly := findRow(rows, 1, model.PeriodYearly)
	require.NotNil(t, yearly)
	assert.Equal(t, "2026", yearly.PeriodKey)
	assert.Equal(t, 18, yearly.TotalActivityScore)

	// All-time stars come from the ledger, not the daily rows, so the 3
	// stars earned today are not double counted on top of the total of 10.
	all := findRow(rows, 1, model.PeriodAll)
	require.NotNil(t, all)
	assert.Equal(t, model.PeriodKeyAll, all.PeriodKey)
	assert.Equal(t, 10, all.TotalStars)
	assert.Equal(t, 1, all.TotalLikes)
	// 10 stars * 1 + 1 like * 2 + 2 habits * 5 + 1 task * 3
	assert.Equal(t, 25, all.TotalActivityScore)
}

func TestAggregatorRun_OldEventsSkipShortPeriods(t *testing.T) {
	store := &fakeLeaderboardStore{
		likes: []model.ReactionEvent{{UserID: 2, CreatedAt: time.Date(2026, 5, 15, 9, 0, 0, 0, time.UTC)}},
	}
	agg := newTestAggregator(store, aggNow, 100)

	_, err := agg.Run(context.Background())
	require.NoError(t, err)

	rows := store.written()
	assert.Nil(t, findRow(rows, 2, model.PeriodDaily))
	assert.Nil(t, findRow(rows, 2, model.PeriodMonthly))

	yearly := findRow(rows, 2, model.PeriodYearly)
	require.NotNil(t, yearly, "a like from May still counts for 2026")
	assert.Equal(t, 1, yearly.TotalLikes)

	require.NotNil(t, findRow(rows, 2, model.PeriodAll))
}

func TestAggregatorRun_SkipsAllZeroRows(t *testing.T) {
	store := &fakeLeaderboardStore{
		scores: []model.DailyScore{{UserID: 3, ScoreDate: aggNow}},
	}
	agg := newTestAggregator(store, aggNow, 100)

	result, err := agg.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, result.RecordsWritten)
	assert.Empty(t, store.written())
}

func TestAggregatorRun_Idempotent(t *testing.T) {
	store := &fakeLeaderboardStore{
		stars: []model.StarTotal{{UserID: 1, TotalStars: 4}, {UserID: 2, TotalStars: 9}},
		likes: []model.ReactionEvent{{UserID: 1, CreatedAt: aggNow.Add(-30 * time.Minute)}},
		scores: []model.DailyScore{
			{UserID: 2, ScoreDate: aggNow.AddDate(0, 0, -1), HabitsCompleted: 1, TasksCompleted: 2, StarsEarned: 1},
		},
	}
	agg := newTestAggregator(store, aggNow, 100)

	_, err := agg.Run(context.Background())
	require.NoError(t, err)
	first := store.written()

	store.upserts = nil
	_, err = agg.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, store.written(), "rerun over the same inputs must produce identical rows")
}

func TestAggregatorRun_PartialBatchFailure(t *testing.T) {
	store := &fakeLeaderboardStore{
		stars: []model.StarTotal{
			{UserID: 1, TotalStars: 1},
			{UserID: 2, TotalStars: 2},
			{UserID: 3, TotalStars: 3},
			{UserID: 4, TotalStars: 4},
			{UserID: 5, TotalStars: 5},
		},
		failCall: 2,
	}
	agg := newTestAggregator(store, aggNow, 2)

	result, err := agg.Run(context.Background())
	require.NoError(t, err, "a failed batch is reported, not returned")

	assert.Equal(t, 3, result.TotalBatches)
	assert.Equal(t, 1, result.BatchesFailed)
	assert.Equal(t, 3, result.RecordsWritten, "the batches around the failed one still land")
}
