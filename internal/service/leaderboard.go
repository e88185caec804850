package service

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tbn01-acc/lifefocus-sub002/internal/config"
	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

// Activity-point weights. These must not drift: the aggregate table is
// fully rebuilt on every run and historical rows would silently change.
const (
	ScoreWeightLike  = 2
	ScoreWeightHabit = 5
	ScoreWeightTask  = 3
	ScoreWeightStar  = 1
)

type leaderboardStore interface {
	GetStarTotals(ctx context.Context) ([]model.StarTotal, error)
	GetReactionEvents(ctx context.Context) ([]model.ReactionEvent, error)
	GetDailyScores(ctx context.Context) ([]model.DailyScore, error)
	UpsertLeaderboardBatch(ctx context.Context, rows []model.LeaderboardAggregate) error
	GetLeaderboard(ctx context.Context, periodType model.PeriodType, periodKey string, limit int) ([]model.LeaderboardAggregate, error)
}

// Aggregator rebuilds the per-period leaderboard rows from the three raw
// signal streams. It is the single writer of leaderboard_aggregates and its
// runs are idempotent: same inputs, same rows.
type Aggregator struct {
	store     leaderboardStore
	log       *logrus.Logger
	batchSize int
	timeout   time.Duration
	now       func() time.Time
}

func NewAggregator(store leaderboardStore, log *logrus.Logger) *Aggregator {
	return &Aggregator{
		store:     store,
		log:       log,
		batchSize: config.LeaderboardBatchSize,
		timeout:   config.AggregationTimeout,
		now:       time.Now,
	}
}

// AggregationResult reports how much of the rebuild actually landed. A run
// with failed batches is a partial success, never reported as a full one.
type AggregationResult struct {
	RecordsWritten int `json:"records_written"`
	TotalBatches   int `json:"total_batches"`
	BatchesFailed  int `json:"batches_failed"`
}

type aggKey struct {
	userID     int64
	periodType model.PeriodType
}

var allPeriods = []model.PeriodType{model.PeriodDaily, model.PeriodMonthly, model.PeriodYearly, model.PeriodAll}

// Run recomputes the currently active instance of each period. Events are
// bucketed by their own timestamps: a like from three months ago still
// counts for yearly and all-time, but not for today or this month.
func (a *Aggregator) Run(ctx context.Context) (*AggregationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	stars, err := a.store.GetStarTotals(ctx)
	if err != nil {
		return nil, err
	}
	likes, err := a.store.GetReactionEvents(ctx)
	if err != nil {
		return nil, err
	}
	scores, err := a.store.GetDailyScores(ctx)
	if err != nil {
		return nil, err
	}

	now := a.now()
	aggs := make(map[aggKey]*model.LeaderboardAggregate)
	get := func(userID int64, pt model.PeriodType) *model.LeaderboardAggregate {
		key := aggKey{userID: userID, periodType: pt}
		agg, ok := aggs[key]
		if !ok {
			agg = &model.LeaderboardAggregate{
				UserID:     userID,
				PeriodType: pt,
				PeriodKey:  model.PeriodKeyFor(pt, now),
			}
			aggs[key] = agg
		}
		return agg
	}

	// The star ledger is an all-time total with no timestamps, so it feeds
	// only the all-time period. Windowed star counts come from the daily
	// score rows below.
	for _, st := range stars {
		agg := get(st.UserID, model.PeriodAll)
		agg.TotalStars += st.TotalStars
		agg.TotalActivityScore += st.TotalStars * ScoreWeightStar
	}

	for _, ev := range likes {
		for _, pt := range periodsContaining(ev.CreatedAt, now) {
			agg := get(ev.UserID, pt)
			agg.TotalLikes++
			agg.TotalActivityScore += ScoreWeightLike
		}
	}

	for _, ds := range scores {
		for _, pt := range periodsContaining(ds.ScoreDate, now) {
			agg := get(ds.UserID, pt)
			agg.HabitsCompleted += ds.HabitsCompleted
			agg.TasksCompleted += ds.TasksCompleted
			agg.TotalActivityScore += ds.HabitsCompleted*ScoreWeightHabit + ds.TasksCompleted*ScoreWeightTask
			if pt != model.PeriodAll {
				agg.TotalStars += ds.StarsEarned
				agg.TotalActivityScore += ds.StarsEarned * ScoreWeightStar
			}
		}
	}

	rows := make([]model.LeaderboardAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.TotalStars == 0 && agg.TotalLikes == 0 && agg.TotalActivityScore == 0 &&
			agg.HabitsCompleted == 0 && agg.TasksCompleted == 0 {
			continue // keep the aggregate table sparse
		}
		rows = append(rows, *agg)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].PeriodType != rows[j].PeriodType {
			return rows[i].PeriodType < rows[j].PeriodType
		}
		return rows[i].UserID < rows[j].UserID
	})

	result := &AggregationResult{}
	for start := 0; start < len(rows); start += a.batchSize {
		end := start + a.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]
		result.TotalBatches++

		if err := a.store.UpsertLeaderboardBatch(ctx, batch); err != nil {
			// One failed batch must not block the rest; it is surfaced in
			// the result instead.
			result.BatchesFailed++
			a.log.WithError(err).WithFields(logrus.Fields{
				"batch_start": start,
				"batch_size":  len(batch),
			}).Error("leaderboard batch upsert failed")
			continue
		}
		result.RecordsWritten += len(batch)
	}

	a.log.WithFields(logrus.Fields{
		"records_written": result.RecordsWritten,
		"total_batches":   result.TotalBatches,
		"batches_failed":  result.BatchesFailed,
	}).Info("leaderboard aggregation finished")

	return result, nil
}

// periodsContaining returns the periods whose currently active instance
// covers ts. All-time always qualifies.
func periodsContaining(ts, now time.Time) []model.PeriodType {
	periods := make([]model.PeriodType, 0, len(allPeriods))
	for _, pt := range allPeriods {
		if pt == model.PeriodAll || model.PeriodKeyFor(pt, ts) == model.PeriodKeyFor(pt, now) {
			periods = append(periods, pt)
		}
	}
	return periods
}

func (a *Aggregator) GetLeaderboard(ctx context.Context, periodType model.PeriodType, limit int) ([]model.LeaderboardAggregate, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	key := model.PeriodKeyFor(periodType, a.now())
	return a.store.GetLeaderboard(ctx, periodType, key, limit)
}
