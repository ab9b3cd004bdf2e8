package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildcore/internal/models"
)

type overwriteRepo struct {
	pool *pgxpool.Pool
}

func NewChannelOverwriteRepository(pool *pgxpool.Pool) ChannelOverwriteRepository {
	return &overwriteRepo{pool: pool}
}

func (r *overwriteRepo) Set(ctx context.Context, overwrite *models.ChannelOverwrite) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO channel_overwrites (channel_id, target_id, allow_perms, deny_perms)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (channel_id, target_id) DO UPDATE SET
		   allow_perms = EXCLUDED.allow_perms,
		   deny_perms  = EXCLUDED.deny_perms`,
		overwrite.ChannelID, overwrite.TargetID, overwrite.Allow, overwrite.Deny,
	)
	return err
}

// GetByChannel tags each overwrite's target as role or member by checking
// which table the ID resolves against. Rows resolving against neither are
// leftovers from a deleted target and get purged here rather than surfacing
// as dead weight in every permission check.
func (r *overwriteRepo) GetByChannel(ctx context.Context, channelID int64) ([]models.ChannelOverwrite, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT o.channel_id, o.target_id, o.allow_perms, o.deny_perms,
		        EXISTS (SELECT 1 FROM roles r WHERE r.id = o.target_id) AS is_role,
		        EXISTS (
		          SELECT 1 FROM members m
		          INNER JOIN channels c ON c.guild_id = m.guild_id
		          WHERE c.id = o.channel_id AND m.user_id = o.target_id
		        ) AS is_member
		 FROM channel_overwrites o
		 WHERE o.channel_id = $1
		 ORDER BY o.target_id`, channelID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overwrites []models.ChannelOverwrite
	var stale []int64
	for rows.Next() {
		var ow models.ChannelOverwrite
		var isRole, isMember bool
		if err := rows.Scan(&ow.ChannelID, &ow.TargetID, &ow.Allow, &ow.Deny, &isRole, &isMember); err != nil {
			return nil, err
		}
		switch {
		case isRole:
			ow.TargetType = models.OverwriteTargetRole
		case isMember:
			ow.TargetType = models.OverwriteTargetMember
		default:
			stale = append(stale, ow.TargetID)
			continue
		}
		overwrites = append(overwrites, ow)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(stale) > 0 {
		if _, err := r.pool.Exec(ctx,
			`DELETE FROM channel_overwrites WHERE channel_id = $1 AND target_id = ANY($2)`,
			channelID, stale,
		); err != nil {
			return nil, err
		}
	}

	return overwrites, nil
}

func (r *overwriteRepo) Delete(ctx context.Context, channelID, targetID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM channel_overwrites WHERE channel_id = $1 AND target_id = $2`,
		channelID, targetID,
	)
	return err
}

func (r *overwriteRepo) DeleteByTarget(ctx context.Context, targetID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM channel_overwrites WHERE target_id = $1`, targetID,
	)
	return err
}
