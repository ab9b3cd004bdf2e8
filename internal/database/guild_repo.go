package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildcore/internal/models"
)

type guildRepo struct {
	pool *pgxpool.Pool
}

func NewGuildRepository(pool *pgxpool.Pool) GuildRepository {
	return &guildRepo{pool: pool}
}

func (r *guildRepo) Create(ctx context.Context, guild *models.Guild, defaultRole *models.Role) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO guilds (id, name, icon_hash, owner_id, flags, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		guild.ID, guild.Name, guild.IconHash, guild.OwnerID, guild.Flags, guild.CreatedAt,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO roles (id, guild_id, name, color, allow_perms, deny_perms, position, flags, is_default)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)`,
		defaultRole.ID, guild.ID, defaultRole.Name, defaultRole.Color,
		defaultRole.Allow, defaultRole.Deny, defaultRole.Position, defaultRole.Flags,
	); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO members (guild_id, user_id, joined_at) VALUES ($1, $2, $3)`,
		guild.ID, guild.OwnerID, guild.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *guildRepo) GetByID(ctx context.Context, id int64) (*models.Guild, error) {
	g := &models.Guild{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, icon_hash, owner_id, flags, created_at
		 FROM guilds WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.IconHash, &g.OwnerID, &g.Flags, &g.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return g, err
}

func (r *guildRepo) Update(ctx context.Context, guild *models.Guild) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE guilds SET name = $2, icon_hash = $3, owner_id = $4, flags = $5
		 WHERE id = $1`,
		guild.ID, guild.Name, guild.IconHash, guild.OwnerID, guild.Flags,
	)
	return err
}

func (r *guildRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Everything the guild owns goes with it, in dependency order.
	statements := []string{
		`DELETE FROM read_states WHERE channel_id IN (SELECT id FROM channels WHERE guild_id = $1)`,
		`DELETE FROM messages WHERE channel_id IN (SELECT id FROM channels WHERE guild_id = $1)`,
		`DELETE FROM channel_overwrites WHERE channel_id IN (SELECT id FROM channels WHERE guild_id = $1)`,
		`DELETE FROM channels WHERE guild_id = $1`,
		`DELETE FROM member_roles WHERE guild_id = $1`,
		`DELETE FROM members WHERE guild_id = $1`,
		`DELETE FROM roles WHERE guild_id = $1`,
		`DELETE FROM guilds WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, id); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *guildRepo) GetByUserID(ctx context.Context, userID int64) ([]models.Guild, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT g.id, g.name, g.icon_hash, g.owner_id, g.flags, g.created_at
		 FROM guilds g
		 INNER JOIN members m ON m.guild_id = g.id
		 WHERE m.user_id = $1
		 ORDER BY g.id`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guilds []models.Guild
	for rows.Next() {
		var g models.Guild
		if err := rows.Scan(&g.ID, &g.Name, &g.IconHash, &g.OwnerID, &g.Flags, &g.CreatedAt); err != nil {
			return nil, err
		}
		guilds = append(guilds, g)
	}
	return guilds, rows.Err()
}
