package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildcore/internal/models"
)

type notificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepo{pool: pool}
}

func (r *notificationRepo) Set(ctx context.Context, setting *models.NotificationSetting) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO notification_settings (user_id, target_id, flags)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, target_id) DO UPDATE SET flags = EXCLUDED.flags`,
		setting.UserID, setting.TargetID, setting.Flags,
	)
	return err
}

func (r *notificationRepo) GetByUser(ctx context.Context, userID int64) ([]models.NotificationSetting, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, target_id, flags
		 FROM notification_settings WHERE user_id = $1
		 ORDER BY target_id`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []models.NotificationSetting
	for rows.Next() {
		var s models.NotificationSetting
		if err := rows.Scan(&s.UserID, &s.TargetID, &s.Flags); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *notificationRepo) Delete(ctx context.Context, userID, targetID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM notification_settings WHERE user_id = $1 AND target_id = $2`,
		userID, targetID,
	)
	return err
}
