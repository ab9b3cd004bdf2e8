package permissions

import (
	"sort"

	"github.com/victorivanov/guildcore/internal/models"
)

// ResolutionOrder returns the roles that participate in a member's base
// permission fold, in resolution order: the guild's default role first,
// followed by the member's assigned roles sorted by ascending position,
// ties broken by ascending ID.
//
// An assigned role ID absent from guildRoles is a data-integrity fault and
// yields a RoleNotFoundError; it is never silently skipped.
func ResolutionOrder(guildRoles []models.Role, assigned []int64) ([]models.Role, error) {
	byID := make(map[int64]models.Role, len(guildRoles))
	var defaultRole *models.Role
	var guildID int64
	for i := range guildRoles {
		byID[guildRoles[i].ID] = guildRoles[i]
		guildID = guildRoles[i].GuildID
		if guildRoles[i].IsDefault {
			defaultRole = &guildRoles[i]
		}
	}

	ordered := make([]models.Role, 0, len(assigned)+1)
	if defaultRole != nil {
		ordered = append(ordered, *defaultRole)
	}

	rest := make([]models.Role, 0, len(assigned))
	for _, id := range assigned {
		role, ok := byID[id]
		if !ok {
			return nil, &RoleNotFoundError{RoleID: id, GuildID: guildID}
		}
		if role.IsDefault {
			// The default role is implicit; an explicit assignment row for it
			// must not make it participate twice.
			continue
		}
		rest = append(rest, role)
	}

	sort.Slice(rest, func(i, j int) bool {
		if rest[i].Position != rest[j].Position {
			return rest[i].Position < rest[j].Position
		}
		return rest[i].ID < rest[j].ID
	})

	return append(ordered, rest...), nil
}

// ComputeBasePermissions folds Merge over the ordered role sequence, starting
// from the empty set. Administrator is not short-circuited here: a higher
// role's deny mask can still clear it mid-fold, and the bypass decision
// belongs to channel resolution.
func ComputeBasePermissions(ordered []models.Role) Permission {
	var perms Permission
	for _, role := range ordered {
		perms = Merge(perms, Permission(role.Allow), Permission(role.Deny))
	}
	return perms
}
