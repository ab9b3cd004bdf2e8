package database

import (
	"context"

	"github.com/victorivanov/guildcore/internal/models"
)

type GuildRepository interface {
	// Create inserts the guild, its default role, and the owner's member row
	// in one transaction.
	Create(ctx context.Context, guild *models.Guild, defaultRole *models.Role) error
	GetByID(ctx context.Context, id int64) (*models.Guild, error)
	Update(ctx context.Context, guild *models.Guild) error
	// Delete removes the guild and everything it owns.
	Delete(ctx context.Context, id int64) error
	GetByUserID(ctx context.Context, userID int64) ([]models.Guild, error)
}

type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id int64) (*models.Role, error)
	GetByGuildID(ctx context.Context, guildID int64) ([]models.Role, error)
	Update(ctx context.Context, role *models.Role) error
	// Delete removes the role together with its assignments and overwrites,
	// in one transaction, so no reader observes an overwrite pointing at a
	// deleted role.
	Delete(ctx context.Context, id int64) error
	GetByMember(ctx context.Context, guildID, userID int64) ([]models.Role, error)
	// Reorder rewrites every position in the guild atomically so readers
	// never observe duplicate or missing positions mid-transition.
	Reorder(ctx context.Context, guildID int64, orderedIDs []int64) error
}

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	GetByGuildAndUser(ctx context.Context, guildID, userID int64) (*models.Member, error)
	GetByGuildID(ctx context.Context, guildID int64, limit, offset int) ([]models.Member, error)
	Update(ctx context.Context, member *models.Member) error
	// Delete removes the member together with their role assignments and
	// member-targeted overwrites, in one transaction.
	Delete(ctx context.Context, guildID, userID int64) error
	AddRole(ctx context.Context, guildID, userID, roleID int64) error
	RemoveRole(ctx context.Context, guildID, userID, roleID int64) error
	GetRoleIDs(ctx context.Context, guildID, userID int64) ([]int64, error)
	// FilterExisting returns the subset of userIDs that are members of the guild.
	FilterExisting(ctx context.Context, guildID int64, userIDs []int64) ([]int64, error)
}

type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	GetByGuildID(ctx context.Context, guildID int64) ([]models.Channel, error)
	Update(ctx context.Context, channel *models.Channel) error
	// Delete removes the channel with its overwrites, messages, and read
	// states in one transaction.
	Delete(ctx context.Context, id int64) error
}

type MessageRepository interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	GetByChannelID(ctx context.Context, channelID int64, before *int64, limit int) ([]models.Message, error)
	// UpdateContent replaces content and the recomputed mentions set in a
	// single statement, so the two can never be observed out of step.
	UpdateContent(ctx context.Context, id int64, content string, mentions []int64) error
	Delete(ctx context.Context, id int64) error
	// GetUnackedByChannels returns, per requested channel, every message past
	// the user's ack cursor (or all messages where no cursor exists), with
	// guild ID and mentions attached, ordered by (channel_id, id).
	GetUnackedByChannels(ctx context.Context, userID int64, channelIDs []int64) ([]UnackedMessage, error)
}

// UnackedMessage is a candidate row for the unread/mention engine.
type UnackedMessage struct {
	ID        int64
	ChannelID int64
	GuildID   int64 // zero for channels with no guild
	Mentions  []int64
}

type ChannelOverwriteRepository interface {
	Set(ctx context.Context, overwrite *models.ChannelOverwrite) error
	// GetByChannel returns the channel's overwrites with each target tagged
	// as role or member. Rows whose target matches neither (the referenced
	// entity was deleted out from under them) are purged, never returned.
	GetByChannel(ctx context.Context, channelID int64) ([]models.ChannelOverwrite, error)
	Delete(ctx context.Context, channelID, targetID int64) error
	// DeleteByTarget removes every overwrite referencing the target across
	// all channels; called when a role or member is deleted.
	DeleteByTarget(ctx context.Context, targetID int64) error
}

type ReadStateRepository interface {
	// Ack advances the (user, channel) cursor to lastMessageID. The upsert
	// uses GREATEST so a stale ack from another device can never regress the
	// cursor, without requiring a read-modify-write.
	Ack(ctx context.Context, userID, channelID, lastMessageID int64) error
	GetByUser(ctx context.Context, userID int64) ([]models.ReadState, error)
	GetByUserAndChannel(ctx context.Context, userID, channelID int64) (*models.ReadState, error)
	IncrementMentionCount(ctx context.Context, userID, channelID int64) error
}

type NotificationRepository interface {
	Set(ctx context.Context, setting *models.NotificationSetting) error
	GetByUser(ctx context.Context, userID int64) ([]models.NotificationSetting, error)
	Delete(ctx context.Context, userID, targetID int64) error
}

type DMChannelRepository interface {
	Create(ctx context.Context, dm *models.DMChannel) error
	GetByID(ctx context.Context, id int64) (*models.DMChannel, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.DMChannel, error)
	IsRecipient(ctx context.Context, channelID, userID int64) (bool, error)
}
