package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/unread"
)

// store is the shared in-memory backing for all mock repositories. Each mock
// wraps the same store so cross-repository fixtures stay consistent.
type store struct {
	mu sync.Mutex

	guilds        map[int64]*models.Guild
	roles         map[int64]*models.Role
	members       map[string]*models.Member
	memberRoles   map[string]map[int64]bool
	channels      map[int64]*models.Channel
	messages      map[int64]*models.Message
	overwrites    map[int64]map[int64]*models.ChannelOverwrite
	readStates    map[string]*models.ReadState
	notifications map[string]*models.NotificationSetting
	dms           map[int64]*models.DMChannel
}

func newStore() *store {
	return &store{
		guilds:        make(map[int64]*models.Guild),
		roles:         make(map[int64]*models.Role),
		members:       make(map[string]*models.Member),
		memberRoles:   make(map[string]map[int64]bool),
		channels:      make(map[int64]*models.Channel),
		messages:      make(map[int64]*models.Message),
		overwrites:    make(map[int64]map[int64]*models.ChannelOverwrite),
		readStates:    make(map[string]*models.ReadState),
		notifications: make(map[string]*models.NotificationSetting),
		dms:           make(map[int64]*models.DMChannel),
	}
}

func pairKey(a, b int64) string { return fmt.Sprintf("%d:%d", a, b) }

// Fixture helpers.

func (s *store) addGuild(id, ownerID int64) *models.Guild {
	g := &models.Guild{ID: id, Name: fmt.Sprintf("guild-%d", id), OwnerID: ownerID}
	s.guilds[id] = g
	s.addMember(id, ownerID)
	return g
}

func (s *store) addRole(id, guildID int64, position int, allow, deny int64, isDefault bool) *models.Role {
	r := &models.Role{
		ID:        id,
		GuildID:   guildID,
		Name:      fmt.Sprintf("role-%d", id),
		Allow:     allow,
		Deny:      deny,
		Position:  position,
		IsDefault: isDefault,
	}
	s.roles[id] = r
	return r
}

func (s *store) addMember(guildID, userID int64) *models.Member {
	m := &models.Member{GuildID: guildID, UserID: userID}
	s.members[pairKey(guildID, userID)] = m
	return m
}

func (s *store) assignRole(guildID, userID, roleID int64) {
	key := pairKey(guildID, userID)
	if s.memberRoles[key] == nil {
		s.memberRoles[key] = make(map[int64]bool)
	}
	s.memberRoles[key][roleID] = true
}

func (s *store) addChannel(id, guildID int64) *models.Channel {
	ch := &models.Channel{ID: id, GuildID: guildID, Name: fmt.Sprintf("channel-%d", id), Type: models.ChannelTypeText}
	s.channels[id] = ch
	return ch
}

func (s *store) addOverwrite(channelID, targetID int64, targetType models.OverwriteTargetType, allow, deny int64) {
	if s.overwrites[channelID] == nil {
		s.overwrites[channelID] = make(map[int64]*models.ChannelOverwrite)
	}
	s.overwrites[channelID][targetID] = &models.ChannelOverwrite{
		ChannelID:  channelID,
		TargetID:   targetID,
		TargetType: targetType,
		Allow:      allow,
		Deny:       deny,
	}
}

func (s *store) addMessage(id, channelID, authorID int64, mentions ...int64) *models.Message {
	m := &models.Message{ID: id, ChannelID: channelID, AuthorID: &authorID, Content: "m", Mentions: mentions}
	s.messages[id] = m
	return m
}

func (s *store) addDM(id int64, recipients ...int64) *models.DMChannel {
	dm := &models.DMChannel{ID: id, Type: models.DMTypeDM, Recipients: recipients}
	if len(recipients) > 2 {
		dm.Type = models.DMTypeGroupDM
	}
	s.dms[id] = dm
	return dm
}

// mockGuilds implements database.GuildRepository.
type mockGuilds struct{ s *store }

func (m *mockGuilds) Create(_ context.Context, guild *models.Guild, defaultRole *models.Role) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.guilds[guild.ID] = guild
	m.s.roles[defaultRole.ID] = defaultRole
	m.s.members[pairKey(guild.ID, guild.OwnerID)] = &models.Member{GuildID: guild.ID, UserID: guild.OwnerID}
	return nil
}

func (m *mockGuilds) GetByID(_ context.Context, id int64) (*models.Guild, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.guilds[id], nil
}

func (m *mockGuilds) Update(_ context.Context, guild *models.Guild) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.guilds[guild.ID] = guild
	return nil
}

func (m *mockGuilds) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.guilds, id)
	for rid, r := range m.s.roles {
		if r.GuildID == id {
			delete(m.s.roles, rid)
		}
	}
	for key, mem := range m.s.members {
		if mem.GuildID == id {
			delete(m.s.members, key)
			delete(m.s.memberRoles, key)
		}
	}
	for cid, ch := range m.s.channels {
		if ch.GuildID == id {
			delete(m.s.channels, cid)
			delete(m.s.overwrites, cid)
		}
	}
	return nil
}

func (m *mockGuilds) GetByUserID(_ context.Context, userID int64) ([]models.Guild, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Guild
	for _, mem := range m.s.members {
		if mem.UserID == userID {
			if g := m.s.guilds[mem.GuildID]; g != nil {
				out = append(out, *g)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// mockRoles implements database.RoleRepository.
type mockRoles struct{ s *store }

func (m *mockRoles) Create(_ context.Context, role *models.Role) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.roles[role.ID] = role
	return nil
}

func (m *mockRoles) GetByID(_ context.Context, id int64) (*models.Role, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.roles[id], nil
}

func (m *mockRoles) GetByGuildID(_ context.Context, guildID int64) ([]models.Role, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Role
	for _, r := range m.s.roles {
		if r.GuildID == guildID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockRoles) Update(_ context.Context, role *models.Role) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.roles[role.ID] = role
	return nil
}

func (m *mockRoles) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.roles, id)
	for _, assigned := range m.s.memberRoles {
		delete(assigned, id)
	}
	for _, targets := range m.s.overwrites {
		delete(targets, id)
	}
	return nil
}

func (m *mockRoles) GetByMember(ctx context.Context, guildID, userID int64) ([]models.Role, error) {
	m.s.mu.Lock()
	assigned := m.s.memberRoles[pairKey(guildID, userID)]
	var out []models.Role
	for id := range assigned {
		if r := m.s.roles[id]; r != nil {
			out = append(out, *r)
		}
	}
	m.s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockRoles) Reorder(_ context.Context, guildID int64, orderedIDs []int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i, id := range orderedIDs {
		r := m.s.roles[id]
		if r == nil || r.GuildID != guildID {
			return fmt.Errorf("reorder: role %d not in guild %d", id, guildID)
		}
		r.Position = i
	}
	return nil
}

// mockMembers implements database.MemberRepository.
type mockMembers struct{ s *store }

func (m *mockMembers) Create(_ context.Context, member *models.Member) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.members[pairKey(member.GuildID, member.UserID)] = member
	return nil
}

func (m *mockMembers) GetByGuildAndUser(_ context.Context, guildID, userID int64) (*models.Member, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	member := m.s.members[pairKey(guildID, userID)]
	if member == nil {
		return nil, nil
	}
	cp := *member
	cp.Roles = nil
	for id := range m.s.memberRoles[pairKey(guildID, userID)] {
		cp.Roles = append(cp.Roles, id)
	}
	sort.Slice(cp.Roles, func(i, j int) bool { return cp.Roles[i] < cp.Roles[j] })
	return &cp, nil
}

func (m *mockMembers) GetByGuildID(_ context.Context, guildID int64, limit, offset int) ([]models.Member, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Member
	for _, member := range m.s.members {
		if member.GuildID == guildID {
			out = append(out, *member)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockMembers) Update(_ context.Context, member *models.Member) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.members[pairKey(member.GuildID, member.UserID)] = member
	return nil
}

func (m *mockMembers) Delete(_ context.Context, guildID, userID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	key := pairKey(guildID, userID)
	delete(m.s.members, key)
	delete(m.s.memberRoles, key)
	for cid, targets := range m.s.overwrites {
		if ch := m.s.channels[cid]; ch != nil && ch.GuildID == guildID {
			for tid, ow := range targets {
				if ow.TargetType == models.OverwriteTargetMember && tid == userID {
					delete(targets, tid)
				}
			}
		}
	}
	return nil
}

func (m *mockMembers) AddRole(_ context.Context, guildID, userID, roleID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	key := pairKey(guildID, userID)
	if m.s.memberRoles[key] == nil {
		m.s.memberRoles[key] = make(map[int64]bool)
	}
	m.s.memberRoles[key][roleID] = true
	return nil
}

func (m *mockMembers) RemoveRole(_ context.Context, guildID, userID, roleID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.memberRoles[pairKey(guildID, userID)], roleID)
	return nil
}

func (m *mockMembers) GetRoleIDs(_ context.Context, guildID, userID int64) ([]int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []int64
	for id := range m.s.memberRoles[pairKey(guildID, userID)] {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (m *mockMembers) FilterExisting(_ context.Context, guildID int64, userIDs []int64) ([]int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []int64
	seen := make(map[int64]bool)
	for _, id := range userIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if m.s.members[pairKey(guildID, id)] != nil {
			out = append(out, id)
		}
	}
	return out, nil
}

// mockChannels implements database.ChannelRepository.
type mockChannels struct{ s *store }

func (m *mockChannels) Create(_ context.Context, channel *models.Channel) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.channels[channel.ID] = channel
	return nil
}

func (m *mockChannels) GetByID(_ context.Context, id int64) (*models.Channel, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.channels[id], nil
}

func (m *mockChannels) GetByGuildID(_ context.Context, guildID int64) ([]models.Channel, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Channel
	for _, ch := range m.s.channels {
		if ch.GuildID == guildID {
			out = append(out, *ch)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockChannels) Update(_ context.Context, channel *models.Channel) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.channels[channel.ID] = channel
	return nil
}

func (m *mockChannels) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.channels, id)
	delete(m.s.overwrites, id)
	for mid, msg := range m.s.messages {
		if msg.ChannelID == id {
			delete(m.s.messages, mid)
		}
	}
	for key, rs := range m.s.readStates {
		if rs.ChannelID == id {
			delete(m.s.readStates, key)
		}
	}
	return nil
}

// mockMessages implements database.MessageRepository.
type mockMessages struct{ s *store }

func (m *mockMessages) Create(_ context.Context, msg *models.Message) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.messages[msg.ID] = msg
	return nil
}

func (m *mockMessages) GetByID(_ context.Context, id int64) (*models.Message, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.messages[id], nil
}

func (m *mockMessages) GetByChannelID(_ context.Context, channelID int64, before *int64, limit int) ([]models.Message, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.Message
	for _, msg := range m.s.messages {
		if msg.ChannelID != channelID {
			continue
		}
		if before != nil && msg.ID >= *before {
			continue
		}
		out = append(out, *msg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockMessages) UpdateContent(_ context.Context, id int64, content string, mentions []int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	msg := m.s.messages[id]
	if msg == nil {
		return fmt.Errorf("message %d not found", id)
	}
	msg.Content = content
	msg.Mentions = mentions
	return nil
}

func (m *mockMessages) Delete(_ context.Context, id int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.messages, id)
	return nil
}

func (m *mockMessages) GetUnackedByChannels(_ context.Context, userID int64, channelIDs []int64) ([]database.UnackedMessage, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	requested := make(map[int64]bool, len(channelIDs))
	for _, id := range channelIDs {
		requested[id] = true
	}
	var out []database.UnackedMessage
	for _, msg := range m.s.messages {
		if !requested[msg.ChannelID] {
			continue
		}
		if rs := m.s.readStates[pairKey(userID, msg.ChannelID)]; rs != nil && msg.ID <= rs.LastMessageID {
			continue
		}
		var guildID int64
		if ch := m.s.channels[msg.ChannelID]; ch != nil {
			guildID = ch.GuildID
		}
		out = append(out, database.UnackedMessage{
			ID:        msg.ID,
			ChannelID: msg.ChannelID,
			GuildID:   guildID,
			Mentions:  msg.Mentions,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ChannelID != out[j].ChannelID {
			return out[i].ChannelID < out[j].ChannelID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// mockOverwrites implements database.ChannelOverwriteRepository.
type mockOverwrites struct{ s *store }

func (m *mockOverwrites) Set(_ context.Context, overwrite *models.ChannelOverwrite) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.overwrites[overwrite.ChannelID] == nil {
		m.s.overwrites[overwrite.ChannelID] = make(map[int64]*models.ChannelOverwrite)
	}
	m.s.overwrites[overwrite.ChannelID][overwrite.TargetID] = overwrite
	return nil
}

func (m *mockOverwrites) GetByChannel(_ context.Context, channelID int64) ([]models.ChannelOverwrite, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.ChannelOverwrite
	for _, ow := range m.s.overwrites[channelID] {
		out = append(out, *ow)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetID < out[j].TargetID })
	return out, nil
}

func (m *mockOverwrites) Delete(_ context.Context, channelID, targetID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.overwrites[channelID], targetID)
	return nil
}

func (m *mockOverwrites) DeleteByTarget(_ context.Context, targetID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, targets := range m.s.overwrites {
		delete(targets, targetID)
	}
	return nil
}

// mockReadStates implements database.ReadStateRepository.
type mockReadStates struct{ s *store }

func (m *mockReadStates) Ack(_ context.Context, userID, channelID, lastMessageID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	key := pairKey(userID, channelID)
	rs := m.s.readStates[key]
	if rs == nil {
		m.s.readStates[key] = &models.ReadState{UserID: userID, ChannelID: channelID, LastMessageID: lastMessageID}
		return nil
	}
	if lastMessageID >= rs.LastMessageID {
		rs.LastMessageID = lastMessageID
		rs.MentionCount = 0
	}
	return nil
}

func (m *mockReadStates) GetByUser(_ context.Context, userID int64) ([]models.ReadState, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.ReadState
	for _, rs := range m.s.readStates {
		if rs.UserID == userID {
			out = append(out, *rs)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out, nil
}

func (m *mockReadStates) GetByUserAndChannel(_ context.Context, userID, channelID int64) (*models.ReadState, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rs := m.s.readStates[pairKey(userID, channelID)]
	if rs == nil {
		return nil, nil
	}
	cp := *rs
	return &cp, nil
}

func (m *mockReadStates) IncrementMentionCount(_ context.Context, userID, channelID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	key := pairKey(userID, channelID)
	rs := m.s.readStates[key]
	if rs == nil {
		rs = &models.ReadState{UserID: userID, ChannelID: channelID}
		m.s.readStates[key] = rs
	}
	rs.MentionCount++
	return nil
}

// mockNotifications implements database.NotificationRepository.
type mockNotifications struct{ s *store }

func (m *mockNotifications) Set(_ context.Context, setting *models.NotificationSetting) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.notifications[pairKey(setting.UserID, setting.TargetID)] = setting
	return nil
}

func (m *mockNotifications) GetByUser(_ context.Context, userID int64) ([]models.NotificationSetting, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.NotificationSetting
	for _, n := range m.s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TargetID < out[j].TargetID })
	return out, nil
}

func (m *mockNotifications) Delete(_ context.Context, userID, targetID int64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.notifications, pairKey(userID, targetID))
	return nil
}

// mockDMs implements database.DMChannelRepository.
type mockDMs struct{ s *store }

func (m *mockDMs) Create(_ context.Context, dm *models.DMChannel) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.dms[dm.ID] = dm
	return nil
}

func (m *mockDMs) GetByID(_ context.Context, id int64) (*models.DMChannel, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.dms[id], nil
}

func (m *mockDMs) GetByUserID(_ context.Context, userID int64) ([]models.DMChannel, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []models.DMChannel
	for _, dm := range m.s.dms {
		for _, r := range dm.Recipients {
			if r == userID {
				out = append(out, *dm)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockDMs) IsRecipient(_ context.Context, channelID, userID int64) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	dm := m.s.dms[channelID]
	if dm == nil {
		return false, nil
	}
	for _, r := range dm.Recipients {
		if r == userID {
			return true, nil
		}
	}
	return false, nil
}

// dispatchedEvent is one recorded gateway dispatch.
type dispatchedEvent struct {
	GuildID int64
	UserID  int64
	Event   string
	Data    any
}

// mockDispatcher records dispatches instead of fanning out. Ack tracking
// uses a real tracker so monotonic semantics hold in tests too.
type mockDispatcher struct {
	mu     sync.Mutex
	events []dispatchedEvent
	acks   *unread.Tracker
}

func (d *mockDispatcher) DispatchToGuild(guildID int64, event string, data interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, dispatchedEvent{GuildID: guildID, Event: event, Data: data})
}

func (d *mockDispatcher) DispatchToUser(userID int64, event string, data interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, dispatchedEvent{UserID: userID, Event: event, Data: data})
}

func (d *mockDispatcher) DispatchToGuildExcept(guildID int64, exceptUserID int64, event string, data interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, dispatchedEvent{GuildID: guildID, UserID: exceptUserID, Event: event, Data: data})
}

func (d *mockDispatcher) SubscribeToGuild(userID, guildID int64)     {}
func (d *mockDispatcher) UnsubscribeFromGuild(userID, guildID int64) {}

func (d *mockDispatcher) TrackAck(userID, channelID, messageID int64) bool {
	return d.acks.Ack(userID, channelID, messageID)
}

func (d *mockDispatcher) byEvent(event string) []dispatchedEvent {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []dispatchedEvent
	for _, e := range d.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// env bundles a fully wired service stack over one shared store.
type env struct {
	store      *store
	dispatcher *mockDispatcher
	perms      *PermissionService
}

func newEnv() *env {
	s := newStore()
	return &env{
		store:      s,
		dispatcher: &mockDispatcher{acks: unread.NewTracker()},
		perms: NewPermissionService(
			&mockGuilds{s}, &mockMembers{s}, &mockRoles{s},
			&mockChannels{s}, &mockOverwrites{s}, &mockDMs{s},
		),
	}
}
