package service

import (
	"context"
	"errors"

	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/permissions"
	"github.com/victorivanov/guildcore/internal/unread"
)

// UnreadService answers "which unread messages mention me": the Postgres
// query narrows to messages past the ack cursor, and the pure engine applies
// mention matching, mute suppression, and ordering on top.
type UnreadService struct {
	messages      database.MessageRepository
	readStates    database.ReadStateRepository
	guilds        database.GuildRepository
	members       database.MemberRepository
	channels      database.ChannelRepository
	dms           database.DMChannelRepository
	notifications database.NotificationRepository
	perms         *PermissionService
}

// NewUnreadService creates an UnreadService.
func NewUnreadService(
	messages database.MessageRepository,
	readStates database.ReadStateRepository,
	guilds database.GuildRepository,
	members database.MemberRepository,
	channels database.ChannelRepository,
	dms database.DMChannelRepository,
	notifications database.NotificationRepository,
	perms *PermissionService,
) *UnreadService {
	return &UnreadService{
		messages:      messages,
		readStates:    readStates,
		guilds:        guilds,
		members:       members,
		channels:      channels,
		dms:           dms,
		notifications: notifications,
		perms:         perms,
	}
}

// UnreadMentions returns, for the requested channels, every unread message
// that mentions the user, ordered by (channel, message). Channels the user
// cannot view, or that do not exist, are silently dropped from the result;
// resolution faults such as a dangling role assignment fail the whole request
// rather than shrink it.
func (s *UnreadService) UnreadMentions(ctx context.Context, userID int64, channelIDs []int64) ([]models.UnreadMention, error) {
	visible := make([]int64, 0, len(channelIDs))
	visibleSet := make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		if visibleSet[id] {
			continue
		}
		computed, err := s.perms.ResolveChannel(ctx, id, userID)
		if err != nil {
			if errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !computed.Has(permissions.PermViewChannel) {
			continue
		}
		visible = append(visible, id)
		visibleSet[id] = true
	}
	if len(visible) == 0 {
		return []models.UnreadMention{}, nil
	}

	candidates, err := s.candidates(ctx, userID, visible)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := unread.Mentions(userID, visibleSet, candidates, snap)
	if result == nil {
		result = []models.UnreadMention{}
	}
	return result, nil
}

// UnackedSummary returns the per-channel sync payload for the user: the ack
// cursor of every channel in their guilds and DMs, plus the IDs of unread
// messages that mention them.
func (s *UnreadService) UnackedSummary(ctx context.Context, userID int64) ([]models.UnackedChannel, error) {
	channelIDs, err := s.allChannelIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(channelIDs) == 0 {
		return []models.UnackedChannel{}, nil
	}

	candidates, err := s.candidates(ctx, userID, channelIDs)
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	channelSet := make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		channelSet[id] = true
	}
	mentioned := unread.Mentions(userID, channelSet, candidates, snap)

	byChannel := make(map[int64][]int64)
	for _, m := range mentioned {
		byChannel[m.ChannelID] = append(byChannel[m.ChannelID], m.MessageID)
	}

	summary := make([]models.UnackedChannel, 0, len(channelIDs))
	for _, id := range channelIDs {
		entry := models.UnackedChannel{ChannelID: id, Mentions: byChannel[id]}
		if cursor, ok := snap.Cursors[id]; ok {
			last := cursor
			entry.LastMessageID = &last
		}
		summary = append(summary, entry)
	}
	return summary, nil
}

func (s *UnreadService) candidates(ctx context.Context, userID int64, channelIDs []int64) ([]unread.Candidate, error) {
	rows, err := s.messages.GetUnackedByChannels(ctx, userID, channelIDs)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	candidates := make([]unread.Candidate, len(rows))
	for i, row := range rows {
		candidates[i] = unread.Candidate{
			MessageID: row.ID,
			ChannelID: row.ChannelID,
			GuildID:   row.GuildID,
			Mentions:  row.Mentions,
		}
	}
	return candidates, nil
}

// snapshot assembles the user-side state the engine filters against: ack
// cursors, role membership per guild, and mute settings.
func (s *UnreadService) snapshot(ctx context.Context, userID int64) (unread.Snapshot, error) {
	snap := unread.Snapshot{
		Cursors:          make(map[int64]int64),
		RolesByGuild:     make(map[int64]map[int64]bool),
		MutedChannels:    make(map[int64]bool),
		MutedGuilds:      make(map[int64]bool),
		SuppressEveryone: make(map[int64]bool),
	}

	states, err := s.readStates.GetByUser(ctx, userID)
	if err != nil {
		return snap, Internal("INTERNAL", "internal server error")
	}
	for _, st := range states {
		snap.Cursors[st.ChannelID] = st.LastMessageID
	}

	guilds, err := s.guilds.GetByUserID(ctx, userID)
	if err != nil {
		return snap, Internal("INTERNAL", "internal server error")
	}
	guildSet := make(map[int64]bool, len(guilds))
	for _, g := range guilds {
		guildSet[g.ID] = true
		roleIDs, err := s.members.GetRoleIDs(ctx, g.ID, userID)
		if err != nil {
			return snap, Internal("INTERNAL", "internal server error")
		}
		roles := make(map[int64]bool, len(roleIDs))
		for _, id := range roleIDs {
			roles[id] = true
		}
		snap.RolesByGuild[g.ID] = roles
	}

	settings, err := s.notifications.GetByUser(ctx, userID)
	if err != nil {
		return snap, Internal("INTERNAL", "internal server error")
	}
	for _, setting := range settings {
		if setting.Flags&models.NotifSuppressEveryone != 0 {
			snap.SuppressEveryone[setting.TargetID] = true
		}
		if setting.Flags&models.NotifMuted == 0 {
			continue
		}
		if guildSet[setting.TargetID] {
			snap.MutedGuilds[setting.TargetID] = true
		} else {
			snap.MutedChannels[setting.TargetID] = true
		}
	}

	return snap, nil
}

// allChannelIDs lists every channel the user can receive messages in: all
// channels of their guilds plus their DM channels.
func (s *UnreadService) allChannelIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64

	guilds, err := s.guilds.GetByUserID(ctx, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	for _, g := range guilds {
		channels, err := s.channels.GetByGuildID(ctx, g.ID)
		if err != nil {
			return nil, Internal("INTERNAL", "internal server error")
		}
		for _, ch := range channels {
			if ch.Type == models.ChannelTypeText {
				ids = append(ids, ch.ID)
			}
		}
	}

	dms, err := s.dms.GetByUserID(ctx, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	for _, dm := range dms {
		ids = append(ids, dm.ID)
	}

	return ids, nil
}
