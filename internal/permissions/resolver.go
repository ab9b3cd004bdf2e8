package permissions

import "github.com/victorivanov/guildcore/internal/models"

// ComputeChannelPermissions applies channel overwrites to a base permission set.
// Precedence, lowest to highest, each step a Merge:
//  1. Base permissions (from the role fold).
//  2. The overwrite targeting the guild's default role.
//  3. Overwrites targeting the member's assigned roles, ascending position.
//  4. The overwrite targeting the member's own user ID.
//
// If the base set already contains ADMINISTRATOR the member is never
// constrained by overwrites and the full set is returned immediately.
//
// memberRoles must be the member's resolution order as produced by
// ResolutionOrder (default role first, then ascending position).
func ComputeChannelPermissions(base Permission, overwrites []models.ChannelOverwrite, memberRoles []models.Role, userID int64) Permission {
	if base.Has(PermAdministrator) {
		return PermAll
	}

	roleOverwrites := make(map[int64]models.ChannelOverwrite)
	var memberOverwrite *models.ChannelOverwrite
	for i := range overwrites {
		o := overwrites[i]
		switch o.TargetType {
		case models.OverwriteTargetRole:
			roleOverwrites[o.TargetID] = o
		case models.OverwriteTargetMember:
			if o.TargetID == userID {
				memberOverwrite = &overwrites[i]
			}
		}
	}

	perms := base

	// memberRoles is already ordered default-first then ascending position,
	// so a single pass applies steps 2 and 3.
	for _, role := range memberRoles {
		if o, ok := roleOverwrites[role.ID]; ok {
			perms = Merge(perms, Permission(o.Allow), Permission(o.Deny))
		}
	}

	if memberOverwrite != nil {
		perms = Merge(perms, Permission(memberOverwrite.Allow), Permission(memberOverwrite.Deny))
	}

	return perms
}

// ResolveMemberChannel computes the effective permission set for a member in
// a guild channel: role fold first, then channel overwrites. The result is a
// pure function of its inputs; callers pass a consistent snapshot of the
// guild's roles, the member's assignments, and the channel's overwrites.
func ResolveMemberChannel(guildRoles []models.Role, assigned []int64, overwrites []models.ChannelOverwrite, userID int64) (Permission, error) {
	ordered, err := ResolutionOrder(guildRoles, assigned)
	if err != nil {
		return 0, err
	}
	base := ComputeBasePermissions(ordered)
	return ComputeChannelPermissions(base, overwrites, ordered, userID), nil
}

// ResolveDM returns the fixed permission set for a channel with no guild:
// recipients get the DM baseline, everyone else gets nothing. Role hierarchy
// and overwrites are never consulted.
func ResolveDM(recipients []int64, userID int64) Permission {
	for _, id := range recipients {
		if id == userID {
			return DMBaselinePerms
		}
	}
	return 0
}
