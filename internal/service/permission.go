package service

import (
	"context"
	"errors"

	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/permissions"
)

// PermissionService resolves effective permission sets and enforces them.
// Guild owners bypass every check; everyone else goes through the role fold
// and channel overwrite resolution.
type PermissionService struct {
	guilds     database.GuildRepository
	members    database.MemberRepository
	roles      database.RoleRepository
	channels   database.ChannelRepository
	overwrites database.ChannelOverwriteRepository
	dms        database.DMChannelRepository
}

func NewPermissionService(
	guilds database.GuildRepository,
	members database.MemberRepository,
	roles database.RoleRepository,
	channels database.ChannelRepository,
	overwrites database.ChannelOverwriteRepository,
	dms database.DMChannelRepository,
) *PermissionService {
	return &PermissionService{
		guilds:     guilds,
		members:    members,
		roles:      roles,
		channels:   channels,
		overwrites: overwrites,
		dms:        dms,
	}
}

// ResolveGuild computes the member's guild-level base permission set.
// The owner and administrators hold the full set.
func (s *PermissionService) ResolveGuild(ctx context.Context, guildID, userID int64) (permissions.Permission, error) {
	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return 0, NotFound("NOT_FOUND", "guild not found")
	}
	if guild.OwnerID == userID {
		return permissions.PermAll, nil
	}

	member, err := s.members.GetByGuildAndUser(ctx, guildID, userID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return 0, Forbidden("FORBIDDEN", "you are not a member of this guild")
	}

	base, _, err := s.basePermissions(ctx, guildID, member)
	if err != nil {
		return 0, err
	}
	if base.Has(permissions.PermAdministrator) {
		return permissions.PermAll, nil
	}
	return base, nil
}

// ResolveChannel computes the member's effective permission set in a guild
// channel, overwrites included. For a channel ID that belongs to a DM, the
// fixed DM baseline applies instead.
func (s *PermissionService) ResolveChannel(ctx context.Context, channelID, userID int64) (permissions.Permission, error) {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}
	if channel == nil {
		return s.resolveDM(ctx, channelID, userID)
	}

	guild, err := s.guilds.GetByID(ctx, channel.GuildID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return 0, NotFound("NOT_FOUND", "guild not found")
	}
	if guild.OwnerID == userID {
		return permissions.PermAll, nil
	}

	member, err := s.members.GetByGuildAndUser(ctx, channel.GuildID, userID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}
	if member == nil {
		return 0, Forbidden("FORBIDDEN", "you are not a member of this guild")
	}

	base, ordered, err := s.basePermissions(ctx, channel.GuildID, member)
	if err != nil {
		return 0, err
	}

	overwrites, err := s.overwrites.GetByChannel(ctx, channelID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}

	return permissions.ComputeChannelPermissions(base, overwrites, ordered, userID), nil
}

func (s *PermissionService) resolveDM(ctx context.Context, channelID, userID int64) (permissions.Permission, error) {
	dm, err := s.dms.GetByID(ctx, channelID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}
	if dm == nil {
		return 0, NotFound("NOT_FOUND", "channel not found")
	}
	return permissions.ResolveDM(dm.Recipients, userID), nil
}

// RequireGuild checks that the user holds perm at guild level.
func (s *PermissionService) RequireGuild(ctx context.Context, guildID, userID int64, perm permissions.Permission) error {
	computed, err := s.ResolveGuild(ctx, guildID, userID)
	if err != nil {
		return err
	}
	if !computed.Has(perm) {
		return Forbidden("MISSING_PERMISSIONS", "you do not have the required permissions")
	}
	return nil
}

// RequireChannel checks that the user holds perm in the channel.
func (s *PermissionService) RequireChannel(ctx context.Context, channelID, userID int64, perm permissions.Permission) error {
	computed, err := s.ResolveChannel(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if !computed.Has(perm) {
		return Forbidden("MISSING_PERMISSIONS", "you do not have the required permissions")
	}
	return nil
}

// IsGuildOwner returns true if the user is the owner of the guild.
func (s *PermissionService) IsGuildOwner(ctx context.Context, guildID, userID int64) (bool, error) {
	guild, err := s.guilds.GetByID(ctx, guildID)
	if err != nil {
		return false, Internal("INTERNAL", "internal server error")
	}
	if guild == nil {
		return false, nil
	}
	return guild.OwnerID == userID, nil
}

// HighestRolePosition returns the highest position among the user's roles.
func (s *PermissionService) HighestRolePosition(ctx context.Context, guildID, userID int64) (int, error) {
	memberRoles, err := s.roles.GetByMember(ctx, guildID, userID)
	if err != nil {
		return 0, Internal("INTERNAL", "internal server error")
	}
	highest := 0
	for _, r := range memberRoles {
		if r.Position > highest {
			highest = r.Position
		}
	}
	return highest, nil
}

// basePermissions loads the guild's roles and folds the member's resolution
// order. Returns both the folded set and the ordered roles so channel
// resolution does not re-derive the order.
func (s *PermissionService) basePermissions(ctx context.Context, guildID int64, member *models.Member) (permissions.Permission, []models.Role, error) {
	guildRoles, err := s.roles.GetByGuildID(ctx, guildID)
	if err != nil {
		return 0, nil, Internal("INTERNAL", "internal server error")
	}

	ordered, err := permissions.ResolutionOrder(guildRoles, member.Roles)
	if err != nil {
		var notFound *permissions.RoleNotFoundError
		if errors.As(err, &notFound) {
			return 0, nil, Internal("DANGLING_ROLE", "member references a role that does not exist")
		}
		return 0, nil, Internal("INTERNAL", "internal server error")
	}

	return permissions.ComputeBasePermissions(ordered), ordered, nil
}
