package service

import (
	"context"
	"errors"
	"time"

	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/gateway"
	"github.com/victorivanov/guildcore/internal/mentions"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/permissions"
	"github.com/victorivanov/guildcore/internal/redis"
	"github.com/victorivanov/guildcore/internal/snowflake"
)

// MessageService handles message business logic for both guild and DM
// channels. Every create and edit recomputes the message's mentions set
// wholesale; the stored set is what the unread engine reads later.
type MessageService struct {
	messages   database.MessageRepository
	channels   database.ChannelRepository
	dmChannels database.DMChannelRepository
	members    database.MemberRepository
	roles      database.RoleRepository
	readStates database.ReadStateRepository
	redis      *redis.Client
	snowflake  *snowflake.Generator
	gateway    gateway.Dispatcher
	perms      *PermissionService
}

// NewMessageService creates a MessageService.
func NewMessageService(
	messages database.MessageRepository,
	channels database.ChannelRepository,
	dmChannels database.DMChannelRepository,
	members database.MemberRepository,
	roles database.RoleRepository,
	readStates database.ReadStateRepository,
	redisClient *redis.Client,
	sf *snowflake.Generator,
	gw gateway.Dispatcher,
	perms *PermissionService,
) *MessageService {
	return &MessageService{
		messages:   messages,
		channels:   channels,
		dmChannels: dmChannels,
		members:    members,
		roles:      roles,
		readStates: readStates,
		redis:      redisClient,
		snowflake:  sf,
		gateway:    gw,
		perms:      perms,
	}
}

// SendInput carries the mention candidates the client supplies alongside
// message content.
type SendInput struct {
	Content      string
	MentionUsers []int64
	MentionRoles []int64
	Everyone     bool
}

// SendMessage creates a message in a guild or DM channel and stores its
// computed mentions set.
func (s *MessageService) SendMessage(ctx context.Context, channelID, userID int64, in SendInput) (*models.Message, error) {
	channel, isDM, err := s.resolveChannelAccess(ctx, channelID, userID)
	if err != nil {
		return nil, err
	}

	if len(in.Content) == 0 || len(in.Content) > 2000 {
		return nil, BadRequest("INVALID_CONTENT", "message content must be 1-2000 characters")
	}

	var mentionSet []int64
	var userTargets map[int64]bool
	if isDM {
		dm, dmErr := s.dmChannels.GetByID(ctx, channelID)
		if dmErr != nil || dm == nil {
			return nil, Internal("INTERNAL", "internal server error")
		}
		mentionSet = mentions.ComputeDM(in.Content, in.MentionUsers, dm.Recipients)
		userTargets = make(map[int64]bool, len(mentionSet))
		for _, id := range mentionSet {
			userTargets[id] = true
		}
	} else {
		if err := s.perms.RequireChannel(ctx, channelID, userID, permissions.PermSendMessages); err != nil {
			return nil, err
		}

		// Guild-wide intent requires MENTION_EVERYONE; without it the marker
		// is dropped, not the message. Only a denial demotes: a failed
		// resolution fails the request.
		everyone := in.Everyone
		if everyone {
			if err := s.perms.RequireChannel(ctx, channelID, userID, permissions.PermMentionEveryone); err != nil {
				if !errors.Is(err, ErrForbidden) {
					return nil, err
				}
				everyone = false
			}
		}

		scope, scopeErr := s.mentionScope(ctx, channel.GuildID, in)
		if scopeErr != nil {
			return nil, scopeErr
		}
		mentionSet = mentions.Compute(mentions.Input{
			GuildID:  channel.GuildID,
			Content:  in.Content,
			UserIDs:  in.MentionUsers,
			RoleIDs:  in.MentionRoles,
			Everyone: everyone,
		}, scope)
		userTargets = scope.MemberIDs
	}

	msg := &models.Message{
		ID:        s.snowflake.Generate().Int64(),
		ChannelID: channelID,
		AuthorID:  &userID,
		Content:   in.Content,
		Mentions:  mentionSet,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	s.bumpMentionCounters(ctx, msg, userID, userTargets)

	if isDM {
		s.dispatchToDM(ctx, channelID, gateway.EventMessageCreate, msg)
	} else {
		s.gateway.DispatchToGuild(channel.GuildID, gateway.EventMessageCreate, msg)
	}

	return msg, nil
}

// GetMessages returns messages from a channel with cursor-based pagination.
func (s *MessageService) GetMessages(ctx context.Context, channelID, userID int64, before *int64, limit int) ([]models.Message, error) {
	_, isDM, err := s.resolveChannelAccess(ctx, channelID, userID)
	if err != nil {
		return nil, err
	}

	if !isDM {
		if err := s.perms.RequireChannel(ctx, channelID, userID, permissions.PermReadMessageHistory); err != nil {
			return nil, err
		}
	}

	messages, err := s.messages.GetByChannelID(ctx, channelID, before, limit)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// GetMessage returns a single message by ID.
func (s *MessageService) GetMessage(ctx context.Context, channelID, msgID, userID int64) (*models.Message, error) {
	_, isDM, err := s.resolveChannelAccess(ctx, channelID, userID)
	if err != nil {
		return nil, err
	}

	if !isDM {
		if err := s.perms.RequireChannel(ctx, channelID, userID, permissions.PermReadMessageHistory); err != nil {
			return nil, err
		}
	}

	msg, err := s.messages.GetByID(ctx, msgID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if msg == nil || msg.ChannelID != channelID {
		return nil, NotFound("NOT_FOUND", "message not found")
	}

	return msg, nil
}

// EditMessage edits a message. Only the author can edit; the mentions set is
// recomputed from the new content and replaces the stored set wholesale.
func (s *MessageService) EditMessage(ctx context.Context, channelID, msgID, userID int64, in SendInput) (*models.Message, error) {
	channel, isDM, err := s.resolveChannelAccess(ctx, channelID, userID)
	if err != nil {
		return nil, err
	}

	msg, err := s.messages.GetByID(ctx, msgID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if msg == nil || msg.ChannelID != channelID {
		return nil, NotFound("NOT_FOUND", "message not found")
	}
	if msg.AuthorID == nil || *msg.AuthorID != userID {
		return nil, Forbidden("FORBIDDEN", "you can only edit your own messages")
	}

	if len(in.Content) == 0 || len(in.Content) > 2000 {
		return nil, BadRequest("INVALID_CONTENT", "message content must be 1-2000 characters")
	}

	var mentionSet []int64
	if isDM {
		dm, dmErr := s.dmChannels.GetByID(ctx, channelID)
		if dmErr != nil || dm == nil {
			return nil, Internal("INTERNAL", "internal server error")
		}
		mentionSet = mentions.ComputeDM(in.Content, in.MentionUsers, dm.Recipients)
	} else {
		everyone := in.Everyone
		if everyone {
			if err := s.perms.RequireChannel(ctx, channelID, userID, permissions.PermMentionEveryone); err != nil {
				if !errors.Is(err, ErrForbidden) {
					return nil, err
				}
				everyone = false
			}
		}
		scope, scopeErr := s.mentionScope(ctx, channel.GuildID, in)
		if scopeErr != nil {
			return nil, scopeErr
		}
		mentionSet = mentions.Compute(mentions.Input{
			GuildID:  channel.GuildID,
			Content:  in.Content,
			UserIDs:  in.MentionUsers,
			RoleIDs:  in.MentionRoles,
			Everyone: everyone,
		}, scope)
	}

	if err := s.messages.UpdateContent(ctx, msgID, in.Content, mentionSet); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	updated, err := s.messages.GetByID(ctx, msgID)
	if err != nil || updated == nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	if isDM {
		s.dispatchToDM(ctx, channelID, gateway.EventMessageUpdate, updated)
	} else {
		s.gateway.DispatchToGuild(channel.GuildID, gateway.EventMessageUpdate, updated)
	}

	return updated, nil
}

// DeleteMessage deletes a message. Author can always delete their own;
// in guilds, MANAGE_MESSAGES permission allows deleting others' messages.
func (s *MessageService) DeleteMessage(ctx context.Context, channelID, msgID, userID int64) error {
	channel, isDM, err := s.resolveChannelAccess(ctx, channelID, userID)
	if err != nil {
		return err
	}

	msg, err := s.messages.GetByID(ctx, msgID)
	if err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	if msg == nil || msg.ChannelID != channelID {
		return NotFound("NOT_FOUND", "message not found")
	}

	if msg.AuthorID == nil || *msg.AuthorID != userID {
		if isDM {
			return Forbidden("FORBIDDEN", "you can only delete your own messages in DMs")
		}
		if err := s.perms.RequireChannel(ctx, channelID, userID, permissions.PermManageMessages); err != nil {
			return err
		}
	}

	if err := s.messages.Delete(ctx, msgID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	deletePayload := struct {
		ID        int64 `json:"id,string"`
		ChannelID int64 `json:"channel_id,string"`
	}{ID: msgID, ChannelID: channelID}

	if isDM {
		s.dispatchToDM(ctx, channelID, gateway.EventMessageDelete, deletePayload)
	} else {
		s.gateway.DispatchToGuild(channel.GuildID, gateway.EventMessageDelete, deletePayload)
	}

	return nil
}

// mentionScope loads the guild-side validity sets for mention extraction:
// which role IDs exist, and which of the candidate user IDs are members.
func (s *MessageService) mentionScope(ctx context.Context, guildID int64, in SendInput) (mentions.Scope, error) {
	scope := mentions.Scope{
		RoleIDs:   make(map[int64]bool),
		MemberIDs: make(map[int64]bool),
	}

	if len(in.MentionRoles) > 0 {
		guildRoles, err := s.roles.GetByGuildID(ctx, guildID)
		if err != nil {
			return scope, Internal("INTERNAL", "internal server error")
		}
		for _, r := range guildRoles {
			scope.RoleIDs[r.ID] = true
		}
	}

	candidates := append(mentions.ExtractInline(in.Content), in.MentionUsers...)
	if len(candidates) > 0 {
		existing, err := s.members.FilterExisting(ctx, guildID, candidates)
		if err != nil {
			return scope, Internal("INTERNAL", "internal server error")
		}
		for _, id := range existing {
			scope.MemberIDs[id] = true
		}
	}

	return scope, nil
}

// bumpMentionCounters advances the per-channel mention badge for each
// directly mentioned user. Role and everyone markers are resolved lazily by
// the unread query instead of fanning out writes here; userTargets filters
// them out of the stored set.
func (s *MessageService) bumpMentionCounters(ctx context.Context, msg *models.Message, authorID int64, userTargets map[int64]bool) {
	for _, target := range msg.Mentions {
		if target == authorID || !userTargets[target] {
			continue
		}
		if err := s.readStates.IncrementMentionCount(ctx, target, msg.ChannelID); err != nil {
			continue
		}
		if s.redis != nil {
			_, _ = s.redis.IncrMentionCount(ctx, target, msg.ChannelID)
		}
	}
}

// resolveChannelAccess returns the guild channel (if any) and whether this is
// a DM. It also verifies the user has access to the channel.
func (s *MessageService) resolveChannelAccess(ctx context.Context, channelID, userID int64) (*models.Channel, bool, error) {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, false, Internal("INTERNAL", "internal server error")
	}

	if channel == nil {
		dm, dmErr := s.dmChannels.GetByID(ctx, channelID)
		if dmErr != nil {
			return nil, false, Internal("INTERNAL", "internal server error")
		}
		if dm == nil {
			return nil, false, NotFound("NOT_FOUND", "channel not found")
		}
		ok, recipErr := s.dmChannels.IsRecipient(ctx, channelID, userID)
		if recipErr != nil {
			return nil, false, Internal("INTERNAL", "internal server error")
		}
		if !ok {
			return nil, false, Forbidden("FORBIDDEN", "you are not a recipient of this DM")
		}
		return nil, true, nil
	}

	return channel, false, nil
}

// dispatchToDM dispatches an event to all DM recipients.
func (s *MessageService) dispatchToDM(ctx context.Context, channelID int64, event string, data any) {
	dm, _ := s.dmChannels.GetByID(ctx, channelID)
	if dm != nil {
		for _, id := range dm.Recipients {
			s.gateway.DispatchToUser(id, event, data)
		}
	}
}
