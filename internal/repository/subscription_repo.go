package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"vidtube/internal/domain"
)

// ChannelStats agrupa los agregados de suscripción de un canal.
type ChannelStats struct {
	SubscribersCount  int64
	SubscribedToCount int64
	IsSubscribed      bool
}

// SubscriptionRepository define el contrato de persistencia para aristas de suscripción.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub domain.Subscription) error
	Delete(ctx context.Context, subscriberID, channelID string) error
	GetChannelStats(ctx context.Context, channelID, viewerID string) (ChannelStats, error)
}

// PgSubscriptionRepository implementa SubscriptionRepository usando pgxpool.
type PgSubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSubscriptionRepository(pool *pgxpool.Pool) *PgSubscriptionRepository {
	return &PgSubscriptionRepository{pool: pool}
}

func (r *PgSubscriptionRepository) Create(ctx context.Context, sub domain.Subscription) error {
	const query = `
		INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, sub.ID, sub.SubscriberID, sub.ChannelID, sub.CreatedAt)
	return err
}

func (r *PgSubscriptionRepository) Delete(ctx context.Context, subscriberID, channelID string) error {
	const query = `DELETE FROM subscriptions WHERE subscriber_id = $1 AND channel_id = $2`
	_, err := r.pool.Exec(ctx, query, subscriberID, channelID)
	return err
}

// GetChannelStats calcula ambos conteos y el flag is_subscribed en una sola
// pasada sobre la relación, para no mezclar lecturas parciales bajo escrituras
// concurrentes. viewerID vacío significa viewer anónimo.
func (r *PgSubscriptionRepository) GetChannelStats(ctx context.Context, channelID, viewerID string) (ChannelStats, error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE channel_id = $1),
			COUNT(*) FILTER (WHERE subscriber_id = $1),
			COALESCE(BOOL_OR(channel_id = $1 AND subscriber_id = $2::uuid), false)
		FROM subscriptions
		WHERE channel_id = $1 OR subscriber_id = $1
	`
	var viewer any
	if viewerID != "" {
		viewer = viewerID
	}
	var stats ChannelStats
	err := r.pool.QueryRow(ctx, query, channelID, viewer).Scan(
		&stats.SubscribersCount,
		&stats.SubscribedToCount,
		&stats.IsSubscribed,
	)
	return stats, err
}
