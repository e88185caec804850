package model

import "time"

type PeriodType string

const (
	PeriodDaily   PeriodType = "daily"
	PeriodMonthly PeriodType = "monthly"
	PeriodYearly  PeriodType = "yearly"
	PeriodAll     PeriodType = "all"
)

// PeriodKeyAll is the sentinel key for the all-time period.
const PeriodKeyAll = "all"

// PeriodKeyFor returns the key of the currently active instance of a period
// at time t: "2006-01-02" for daily, "2006-01" for monthly, "2006" for
// yearly, the sentinel for all-time.
func PeriodKeyFor(pt PeriodType, t time.Time) string {
	switch pt {
	case PeriodDaily:
		return t.Format("2006-01-02")
	case PeriodMonthly:
		return t.Format("2006-01")
	case PeriodYearly:
		return t.Format("2006")
	default:
		return PeriodKeyAll
	}
}

// LeaderboardAggregate is one fully-rebuilt row per
// (user_id, period_type, period_key). The aggregation job is the single
// writer; reruns are idempotent upserts.
type LeaderboardAggregate struct {
	UserID             int64      `json:"user_id" db:"user_id"`
	PeriodType         PeriodType `json:"period_type" db:"period_type"`
	PeriodKey          string     `json:"period_key" db:"period_key"`
	TotalStars         int        `json:"total_stars" db:"total_stars"`
	TotalLikes         int        `json:"total_likes" db:"total_likes"`
	TotalActivityScore int        `json:"total_activity_score" db:"total_activity_score"`
	HabitsCompleted    int        `json:"habits_completed" db:"habits_completed"`
	TasksCompleted     int        `json:"tasks_completed" db:"tasks_completed"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// Raw signal streams the aggregator reads. All three are owned by other
// parts of the app; this engine only consumes them.

type StarTotal struct {
	UserID     int64 `db:"user_id"`
	TotalStars int   `db:"total_stars"`
}

// ReactionEvent is a like, attributed to the author of the post it reacted
// to and bucketed by its own timestamp.
type ReactionEvent struct {
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type DailyScore struct {
	UserID          int64     `db:"user_id"`
	ScoreDate       time.Time `db:"score_date"`
	HabitsCompleted int       `db:"habits_completed"`
	TasksCompleted  int       `db:"tasks_completed"`
	StarsEarned     int       `db:"stars_earned"`
}
