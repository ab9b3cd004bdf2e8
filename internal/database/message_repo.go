package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildcore/internal/models"
)

type messageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepo{pool: pool}
}

func (r *messageRepo) Create(ctx context.Context, msg *models.Message) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO messages (id, channel_id, author_id, content, mentions, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		msg.ID, msg.ChannelID, msg.AuthorID, msg.Content, msg.Mentions, msg.CreatedAt,
	)
	return err
}

func (r *messageRepo) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	m := &models.Message{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, channel_id, author_id, content, mentions, created_at, edited_at
		 FROM messages WHERE id = $1`, id,
	).Scan(&m.ID, &m.ChannelID, &m.AuthorID, &m.Content, &m.Mentions, &m.CreatedAt, &m.EditedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *messageRepo) GetByChannelID(ctx context.Context, channelID int64, before *int64, limit int) ([]models.Message, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, channel_id, author_id, content, mentions, created_at, edited_at
		 FROM messages
		 WHERE channel_id = $1 AND ($2::BIGINT IS NULL OR id < $2)
		 ORDER BY id DESC
		 LIMIT $3`,
		channelID, before, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.AuthorID, &m.Content, &m.Mentions, &m.CreatedAt, &m.EditedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *messageRepo) UpdateContent(ctx context.Context, id int64, content string, mentions []int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE messages SET content = $2, mentions = $3, edited_at = $4 WHERE id = $1`,
		id, content, mentions, time.Now().UTC(),
	)
	return err
}

func (r *messageRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}

func (r *messageRepo) GetUnackedByChannels(ctx context.Context, userID int64, channelIDs []int64) ([]UnackedMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.id, m.channel_id, COALESCE(c.guild_id, 0), m.mentions
		 FROM messages m
		 LEFT JOIN channels c ON c.id = m.channel_id
		 LEFT JOIN read_states a ON a.channel_id = m.channel_id AND a.user_id = $1
		 WHERE m.channel_id = ANY($2)
		   AND (a.last_message_id IS NULL OR m.id > a.last_message_id)
		 ORDER BY m.channel_id, m.id`, userID, channelIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var unacked []UnackedMessage
	for rows.Next() {
		var u UnackedMessage
		if err := rows.Scan(&u.ID, &u.ChannelID, &u.GuildID, &u.Mentions); err != nil {
			return nil, err
		}
		unacked = append(unacked, u)
	}
	return unacked, rows.Err()
}
