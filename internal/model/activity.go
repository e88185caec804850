package model

import "time"

// DailyActivity is one row per (user, calendar day). TimeSpentMinutes only
// increases within a day; flushes are additive upserts, never overwrites.
type DailyActivity struct {
	UserID           int64     `json:"user_id" db:"user_id"`
	ActivityDate     time.Time `json:"activity_date" db:"activity_date"`
	TimeSpentMinutes int       `json:"time_spent_minutes" db:"time_spent_minutes"`
}

// ActivityTotals is the engagement summary recomputed from the full daily
// log when deciding referral activation.
type ActivityTotals struct {
	UniqueDays   int `db:"unique_days"`
	TotalMinutes int `db:"total_minutes"`
}
