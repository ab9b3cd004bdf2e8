package service

import (
	"context"

	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/gateway"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/permissions"
	"github.com/victorivanov/guildcore/internal/snowflake"
)

// RoleService handles role and channel overwrite business logic. Every
// mutation goes through hierarchy enforcement: an actor can only touch roles
// strictly below their own highest role, unless they own the guild.
type RoleService struct {
	guilds     database.GuildRepository
	roles      database.RoleRepository
	members    database.MemberRepository
	channels   database.ChannelRepository
	overwrites database.ChannelOverwriteRepository
	snowflake  *snowflake.Generator
	gateway    gateway.Dispatcher
	perms      *PermissionService
}

// NewRoleService creates a RoleService.
func NewRoleService(
	guilds database.GuildRepository,
	roles database.RoleRepository,
	members database.MemberRepository,
	channels database.ChannelRepository,
	overwrites database.ChannelOverwriteRepository,
	sf *snowflake.Generator,
	gw gateway.Dispatcher,
	perms *PermissionService,
) *RoleService {
	return &RoleService{
		guilds:     guilds,
		roles:      roles,
		members:    members,
		channels:   channels,
		overwrites: overwrites,
		snowflake:  sf,
		gateway:    gw,
		perms:      perms,
	}
}

// requireHierarchy rejects actors whose highest role does not sit strictly
// above position. Guild owners bypass the check.
func (s *RoleService) requireHierarchy(ctx context.Context, guildID, actorID int64, position int, action string) error {
	isOwner, err := s.perms.IsGuildOwner(ctx, guildID, actorID)
	if err != nil {
		return err
	}
	if isOwner {
		return nil
	}
	highest, err := s.perms.HighestRolePosition(ctx, guildID, actorID)
	if err != nil {
		return err
	}
	if position >= highest {
		return RoleHierarchyError("cannot " + action + " a role at or above your highest role position")
	}
	return nil
}

// CreateRole creates a new role in a guild. New roles always land at position
// 1 or above; position 0 is reserved for the default role.
func (s *RoleService) CreateRole(ctx context.Context, guildID, actorID int64, name string, color int, allow, deny int64, position int) (*models.Role, error) {
	if name == "" || len(name) > 100 {
		return nil, BadRequest("INVALID_NAME", "name must be 1-100 characters")
	}
	if position < 1 {
		return nil, BadRequest("INVALID_POSITION", "position 0 is reserved for the default role")
	}

	if err := s.perms.RequireGuild(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return nil, err
	}
	if err := s.requireHierarchy(ctx, guildID, actorID, position, "create"); err != nil {
		return nil, err
	}

	role := &models.Role{
		ID:       s.snowflake.Generate().Int64(),
		GuildID:  guildID,
		Name:     name,
		Color:    color,
		Allow:    allow,
		Deny:     deny,
		Position: position,
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventGuildRoleCreate, map[string]any{"guild_id": guildID, "role": role})
	return role, nil
}

// ListRoles returns all roles for a guild, ascending by position.
func (s *RoleService) ListRoles(ctx context.Context, guildID, userID int64) ([]models.Role, error) {
	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return nil, NotFound("NOT_FOUND", "guild not found")
	}

	roles, err := s.roles.GetByGuildID(ctx, guildID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if roles == nil {
		roles = []models.Role{}
	}
	return roles, nil
}

// UpdateRole updates a role's name, color, or masks. The default role can be
// updated too (that is how the guild baseline changes), but never repositioned.
func (s *RoleService) UpdateRole(ctx context.Context, guildID, actorID, roleID int64, name *string, color *int, allow, deny *int64, position *int) (*models.Role, error) {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if role == nil || role.GuildID != guildID {
		return nil, NotFound("NOT_FOUND", "role not found")
	}

	if err := s.perms.RequireGuild(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return nil, err
	}
	if err := s.requireHierarchy(ctx, guildID, actorID, role.Position, "modify"); err != nil {
		return nil, err
	}

	if name != nil {
		if *name == "" || len(*name) > 100 {
			return nil, BadRequest("INVALID_NAME", "name must be 1-100 characters")
		}
		role.Name = *name
	}
	if color != nil {
		role.Color = *color
	}
	if allow != nil {
		role.Allow = *allow
	}
	if deny != nil {
		role.Deny = *deny
	}
	if position != nil {
		if role.IsDefault {
			return nil, BadRequest("INVALID_POSITION", "the default role cannot be repositioned")
		}
		if *position < 1 {
			return nil, BadRequest("INVALID_POSITION", "position 0 is reserved for the default role")
		}
		role.Position = *position
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventGuildRoleUpdate, map[string]any{"guild_id": guildID, "role": role})
	return role, nil
}

// DeleteRole deletes a role along with its assignments and overwrites.
func (s *RoleService) DeleteRole(ctx context.Context, guildID, actorID, roleID int64) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if role == nil || role.GuildID != guildID {
		return NotFound("NOT_FOUND", "role not found")
	}
	if role.IsDefault {
		return Forbidden("CANNOT_DELETE", "cannot delete the default role")
	}

	if err := s.perms.RequireGuild(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}
	if err := s.requireHierarchy(ctx, guildID, actorID, role.Position, "delete"); err != nil {
		return err
	}

	if err := s.roles.Delete(ctx, roleID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventGuildRoleDelete, map[string]any{"guild_id": guildID, "role_id": roleID})
	return nil
}

// ReorderRoles rewrites all role positions in one transaction. The default
// role must stay first; everything else takes its slot from the given order.
func (s *RoleService) ReorderRoles(ctx context.Context, guildID, actorID int64, orderedIDs []int64) error {
	if err := s.perms.RequireGuild(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}

	guildRoles, err := s.roles.GetByGuildID(ctx, guildID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if len(orderedIDs) != len(guildRoles) {
		return BadRequest("INVALID_ORDER", "order must list every role in the guild exactly once")
	}
	for _, r := range guildRoles {
		if r.IsDefault {
			if len(orderedIDs) == 0 || orderedIDs[0] != r.ID {
				return BadRequest("INVALID_ORDER", "the default role must stay at position 0")
			}
			break
		}
	}

	isOwner, err := s.perms.IsGuildOwner(ctx, guildID, actorID)
	if err != nil {
		return err
	}
	if !isOwner {
		highest, err := s.perms.HighestRolePosition(ctx, guildID, actorID)
		if err != nil {
			return err
		}
		// A reorder moves roles across positions, so any role landing at or
		// above the actor's highest position is out of reach.
		for i, id := range orderedIDs {
			if i < highest {
				continue
			}
			current := findRole(guildRoles, id)
			if current == nil || current.Position != i {
				return RoleHierarchyError("cannot move a role to or above your highest role position")
			}
		}
	}

	if err := s.roles.Reorder(ctx, guildID, orderedIDs); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventGuildRoleUpdate, map[string]any{"guild_id": guildID, "role_order": orderedIDs})
	return nil
}

func findRole(roles []models.Role, id int64) *models.Role {
	for i := range roles {
		if roles[i].ID == id {
			return &roles[i]
		}
	}
	return nil
}

// AssignRole assigns a role to a member.
func (s *RoleService) AssignRole(ctx context.Context, guildID, actorID, userID, roleID int64) error {
	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return NotFound("NOT_FOUND", "member not found")
	}

	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if role == nil || role.GuildID != guildID {
		return NotFound("NOT_FOUND", "role not found")
	}
	if role.IsDefault {
		return BadRequest("IMPLICIT_ROLE", "the default role applies to every member and cannot be assigned")
	}

	if err := s.perms.RequireGuild(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}
	if err := s.requireHierarchy(ctx, guildID, actorID, role.Position, "assign"); err != nil {
		return err
	}

	if err := s.members.AddRole(ctx, guildID, userID, roleID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventGuildMemberUpdate, map[string]any{"guild_id": guildID, "user_id": userID})
	return nil
}

// RemoveRole removes a role from a member.
func (s *RoleService) RemoveRole(ctx context.Context, guildID, actorID, userID, roleID int64) error {
	role, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if role != nil && role.IsDefault {
		return BadRequest("IMPLICIT_ROLE", "the default role applies to every member and cannot be removed")
	}

	if err := s.perms.RequireGuild(ctx, guildID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}
	if role != nil {
		if err := s.requireHierarchy(ctx, guildID, actorID, role.Position, "remove"); err != nil {
			return err
		}
	}

	if err := s.members.RemoveRole(ctx, guildID, userID, roleID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(guildID, gateway.EventGuildMemberUpdate, map[string]any{"guild_id": guildID, "user_id": userID})
	return nil
}

// SetChannelOverwrite creates or updates a channel overwrite for a role or
// member. The target must exist in the channel's guild; the schema keys
// overwrites on (channel, target) alone, so the tag is validated here.
func (s *RoleService) SetChannelOverwrite(ctx context.Context, channelID, actorID, targetID int64, targetType models.OverwriteTargetType, allow, deny int64) (*models.ChannelOverwrite, error) {
	ch, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if ch == nil {
		return nil, NotFound("NOT_FOUND", "channel not found")
	}

	if err := s.perms.RequireChannel(ctx, channelID, actorID, permissions.PermManageRoles); err != nil {
		return nil, err
	}

	switch targetType {
	case models.OverwriteTargetRole:
		role, err := s.roles.GetByID(ctx, targetID)
		if err != nil {
			return nil, Internal("INTERNAL", "internal server error")
		}
		if role == nil || role.GuildID != ch.GuildID {
			return nil, NotFound("NOT_FOUND", "role not found")
		}
	case models.OverwriteTargetMember:
		member, err := s.members.GetByGuildAndUser(ctx, ch.GuildID, targetID)
		if err != nil {
			return nil, Internal("INTERNAL", "internal server error")
		}
		if member == nil {
			return nil, NotFound("NOT_FOUND", "member not found")
		}
	default:
		return nil, BadRequest("INVALID_TARGET", "target type must be role or member")
	}

	overwrite := &models.ChannelOverwrite{
		ChannelID:  channelID,
		TargetID:   targetID,
		TargetType: targetType,
		Allow:      allow,
		Deny:       deny,
	}

	if err := s.overwrites.Set(ctx, overwrite); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(ch.GuildID, gateway.EventChannelUpdate, map[string]any{"channel_id": channelID, "overwrite": overwrite})
	return overwrite, nil
}

// DeleteChannelOverwrite removes a channel overwrite.
func (s *RoleService) DeleteChannelOverwrite(ctx context.Context, channelID, actorID, targetID int64) error {
	ch, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if ch == nil {
		return NotFound("NOT_FOUND", "channel not found")
	}

	if err := s.perms.RequireChannel(ctx, channelID, actorID, permissions.PermManageRoles); err != nil {
		return err
	}

	if err := s.overwrites.Delete(ctx, channelID, targetID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	s.gateway.DispatchToGuild(ch.GuildID, gateway.EventChannelUpdate, map[string]any{"channel_id": channelID, "deleted_overwrite": targetID})
	return nil
}
