package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/tbn01-acc/lifefocus-sub002/internal/model"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

func (r *Repository) GetActiveSubscription(ctx context.Context, userID int64) (*model.Subscription, error) {
	var sub model.Subscription
	query := `
		SELECT * FROM subscriptions
		WHERE user_id = $1 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1`
	err := r.db.GetContext(ctx, &sub, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}
