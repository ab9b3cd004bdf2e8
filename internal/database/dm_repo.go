package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildcore/internal/models"
)

type dmChannelRepo struct {
	pool *pgxpool.Pool
}

func NewDMChannelRepository(pool *pgxpool.Pool) DMChannelRepository {
	return &dmChannelRepo{pool: pool}
}

func (r *dmChannelRepo) Create(ctx context.Context, dm *models.DMChannel) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO dm_channels (id, type, created_at) VALUES ($1, $2, $3)`,
		dm.ID, dm.Type, dm.CreatedAt,
	); err != nil {
		return err
	}
	for _, userID := range dm.Recipients {
		if _, err := tx.Exec(ctx,
			`INSERT INTO dm_recipients (channel_id, user_id) VALUES ($1, $2)`,
			dm.ID, userID,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *dmChannelRepo) GetByID(ctx context.Context, id int64) (*models.DMChannel, error) {
	dm := &models.DMChannel{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, type, created_at FROM dm_channels WHERE id = $1`, id,
	).Scan(&dm.ID, &dm.Type, &dm.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM dm_recipients WHERE channel_id = $1 ORDER BY user_id`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var userID int64
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		dm.Recipients = append(dm.Recipients, userID)
	}
	return dm, rows.Err()
}

func (r *dmChannelRepo) GetByUserID(ctx context.Context, userID int64) ([]models.DMChannel, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.id, d.type, d.created_at
		 FROM dm_channels d
		 INNER JOIN dm_recipients dr ON dr.channel_id = d.id
		 WHERE dr.user_id = $1
		 ORDER BY d.id`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []models.DMChannel
	for rows.Next() {
		var dm models.DMChannel
		if err := rows.Scan(&dm.ID, &dm.Type, &dm.CreatedAt); err != nil {
			return nil, err
		}
		channels = append(channels, dm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range channels {
		recipients, err := r.recipients(ctx, channels[i].ID)
		if err != nil {
			return nil, err
		}
		channels[i].Recipients = recipients
	}
	return channels, nil
}

func (r *dmChannelRepo) recipients(ctx context.Context, channelID int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM dm_recipients WHERE channel_id = $1 ORDER BY user_id`, channelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *dmChannelRepo) IsRecipient(ctx context.Context, channelID, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM dm_recipients WHERE channel_id = $1 AND user_id = $2)`,
		channelID, userID,
	).Scan(&exists)
	return exists, err
}
