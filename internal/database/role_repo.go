package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildcore/internal/models"
)

type roleRepo struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepo{pool: pool}
}

const roleColumns = `id, guild_id, name, color, allow_perms, deny_perms, position, flags, is_default`

func scanRole(row pgx.Row, role *models.Role) error {
	return row.Scan(&role.ID, &role.GuildID, &role.Name, &role.Color,
		&role.Allow, &role.Deny, &role.Position, &role.Flags, &role.IsDefault)
}

func (r *roleRepo) Create(ctx context.Context, role *models.Role) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO roles (`+roleColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		role.ID, role.GuildID, role.Name, role.Color,
		role.Allow, role.Deny, role.Position, role.Flags, role.IsDefault,
	)
	return err
}

func (r *roleRepo) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	role := &models.Role{}
	err := scanRole(r.pool.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = $1`, id), role)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return role, err
}

func (r *roleRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE guild_id = $1
		 ORDER BY position, id`, guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := scanRole(rows, &role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

func (r *roleRepo) Update(ctx context.Context, role *models.Role) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE roles SET name = $2, color = $3, allow_perms = $4, deny_perms = $5, position = $6, flags = $7
		 WHERE id = $1`,
		role.ID, role.Name, role.Color, role.Allow, role.Deny, role.Position, role.Flags,
	)
	return err
}

// Delete removes the role plus its assignments and channel overwrites in one
// transaction, so no permission check ever sees an overwrite whose target no
// longer exists.
func (r *roleRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM channel_overwrites WHERE target_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM member_roles WHERE role_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *roleRepo) GetByMember(ctx context.Context, guildID, userID int64) ([]models.Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.guild_id, r.name, r.color, r.allow_perms, r.deny_perms, r.position, r.flags, r.is_default
		 FROM roles r
		 INNER JOIN member_roles mr ON mr.role_id = r.id
		 WHERE mr.guild_id = $1 AND mr.user_id = $2
		 ORDER BY r.position, r.id`, guildID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := scanRole(rows, &role); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Reorder assigns positions 0..n-1 following orderedIDs inside a single
// transaction. Readers either see the old ordering or the new one, never a
// mix with duplicate or missing positions.
func (r *roleRepo) Reorder(ctx context.Context, guildID int64, orderedIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for pos, id := range orderedIDs {
		tag, err := tx.Exec(ctx,
			`UPDATE roles SET position = $3 WHERE id = $1 AND guild_id = $2`,
			id, guildID, pos,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("reorder: role %d not in guild %d", id, guildID)
		}
	}

	return tx.Commit(ctx)
}
