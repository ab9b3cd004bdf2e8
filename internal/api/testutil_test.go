package api

import (
	"context"
	"io"
	"net/http/httptest"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/permissions"
)

const (
	testUserID    int64 = 100
	testGuildID   int64 = 1000
	testChannelID int64 = 2000
	testMsgID     int64 = 5000
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func newTestContext(method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

func setAuthUser(c echo.Context, userID int64) {
	c.Set("user_id", userID)
}

// permMocks returns guild/member/role/overwrite mocks where the test user is
// a plain member whose default role allows exactly perm.
func permMocks(perm permissions.Permission) (*mockGuildRepo, *mockMemberRepo, *mockRoleRepo, *mockOverwriteRepo) {
	guilds := &mockGuildRepo{
		GetByIDFn: func(_ context.Context, id int64) (*models.Guild, error) {
			return &models.Guild{ID: id, Name: "test", OwnerID: 999}, nil
		},
	}
	members := &mockMemberRepo{
		GetByGuildAndUserFn: func(_ context.Context, guildID, userID int64) (*models.Member, error) {
			return &models.Member{GuildID: guildID, UserID: userID}, nil
		},
	}
	roles := &mockRoleRepo{
		GetByGuildIDFn: func(_ context.Context, guildID int64) ([]models.Role, error) {
			return []models.Role{
				{ID: 1, GuildID: guildID, Name: "@everyone", Allow: int64(perm), Position: 0, IsDefault: true},
			}, nil
		},
	}
	return guilds, members, roles, &mockOverwriteRepo{}
}

func channelMock() *mockChannelRepo {
	return &mockChannelRepo{
		GetByIDFn: func(_ context.Context, id int64) (*models.Channel, error) {
			return &models.Channel{ID: id, GuildID: testGuildID, Name: "general", Type: models.ChannelTypeText}, nil
		},
	}
}

// ---------------------------------------------------------------------------
// Mock gateway dispatcher
// ---------------------------------------------------------------------------

type dispatchedEvent struct {
	GuildID      int64
	UserID       int64
	ExceptUserID int64
	Event        string
	Data         any
}

type mockGateway struct {
	mu     sync.Mutex
	events []dispatchedEvent
}

func (m *mockGateway) DispatchToGuild(guildID int64, event string, data interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, dispatchedEvent{GuildID: guildID, Event: event, Data: data})
}

func (m *mockGateway) DispatchToUser(userID int64, event string, data interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, dispatchedEvent{UserID: userID, Event: event, Data: data})
}

func (m *mockGateway) DispatchToGuildExcept(guildID int64, exceptUserID int64, event string, data interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, dispatchedEvent{GuildID: guildID, ExceptUserID: exceptUserID, Event: event, Data: data})
}

func (m *mockGateway) SubscribeToGuild(userID, guildID int64) {}

func (m *mockGateway) UnsubscribeFromGuild(userID, guildID int64) {}

func (m *mockGateway) TrackAck(userID, channelID, messageID int64) bool { return true }

// ---------------------------------------------------------------------------
// Mock repositories
// ---------------------------------------------------------------------------

// mockGuildRepo implements database.GuildRepository.
type mockGuildRepo struct {
	CreateFn      func(ctx context.Context, guild *models.Guild, defaultRole *models.Role) error
	GetByIDFn     func(ctx context.Context, id int64) (*models.Guild, error)
	UpdateFn      func(ctx context.Context, guild *models.Guild) error
	DeleteFn      func(ctx context.Context, id int64) error
	GetByUserIDFn func(ctx context.Context, userID int64) ([]models.Guild, error)
}

func (m *mockGuildRepo) Create(ctx context.Context, guild *models.Guild, defaultRole *models.Role) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, guild, defaultRole)
	}
	return nil
}

func (m *mockGuildRepo) GetByID(ctx context.Context, id int64) (*models.Guild, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockGuildRepo) Update(ctx context.Context, guild *models.Guild) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, guild)
	}
	return nil
}

func (m *mockGuildRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockGuildRepo) GetByUserID(ctx context.Context, userID int64) ([]models.Guild, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, nil
}

// mockRoleRepo implements database.RoleRepository.
type mockRoleRepo struct {
	CreateFn       func(ctx context.Context, role *models.Role) error
	GetByIDFn      func(ctx context.Context, id int64) (*models.Role, error)
	GetByGuildIDFn func(ctx context.Context, guildID int64) ([]models.Role, error)
	UpdateFn       func(ctx context.Context, role *models.Role) error
	DeleteFn       func(ctx context.Context, id int64) error
	GetByMemberFn  func(ctx context.Context, guildID, userID int64) ([]models.Role, error)
	ReorderFn      func(ctx context.Context, guildID int64, orderedIDs []int64) error
}

func (m *mockRoleRepo) Create(ctx context.Context, role *models.Role) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, role)
	}
	return nil
}

func (m *mockRoleRepo) GetByID(ctx context.Context, id int64) (*models.Role, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockRoleRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Role, error) {
	if m.GetByGuildIDFn != nil {
		return m.GetByGuildIDFn(ctx, guildID)
	}
	return nil, nil
}

func (m *mockRoleRepo) Update(ctx context.Context, role *models.Role) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, role)
	}
	return nil
}

func (m *mockRoleRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockRoleRepo) GetByMember(ctx context.Context, guildID, userID int64) ([]models.Role, error) {
	if m.GetByMemberFn != nil {
		return m.GetByMemberFn(ctx, guildID, userID)
	}
	return nil, nil
}

func (m *mockRoleRepo) Reorder(ctx context.Context, guildID int64, orderedIDs []int64) error {
	if m.ReorderFn != nil {
		return m.ReorderFn(ctx, guildID, orderedIDs)
	}
	return nil
}

// mockMemberRepo implements database.MemberRepository.
type mockMemberRepo struct {
	CreateFn            func(ctx context.Context, member *models.Member) error
	GetByGuildAndUserFn func(ctx context.Context, guildID, userID int64) (*models.Member, error)
	GetByGuildIDFn      func(ctx context.Context, guildID int64, limit, offset int) ([]models.Member, error)
	UpdateFn            func(ctx context.Context, member *models.Member) error
	DeleteFn            func(ctx context.Context, guildID, userID int64) error
	AddRoleFn           func(ctx context.Context, guildID, userID, roleID int64) error
	RemoveRoleFn        func(ctx context.Context, guildID, userID, roleID int64) error
	GetRoleIDsFn        func(ctx context.Context, guildID, userID int64) ([]int64, error)
	FilterExistingFn    func(ctx context.Context, guildID int64, userIDs []int64) ([]int64, error)
}

func (m *mockMemberRepo) Create(ctx context.Context, member *models.Member) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, member)
	}
	return nil
}

func (m *mockMemberRepo) GetByGuildAndUser(ctx context.Context, guildID, userID int64) (*models.Member, error) {
	if m.GetByGuildAndUserFn != nil {
		return m.GetByGuildAndUserFn(ctx, guildID, userID)
	}
	return nil, nil
}

func (m *mockMemberRepo) GetByGuildID(ctx context.Context, guildID int64, limit, offset int) ([]models.Member, error) {
	if m.GetByGuildIDFn != nil {
		return m.GetByGuildIDFn(ctx, guildID, limit, offset)
	}
	return nil, nil
}

func (m *mockMemberRepo) Update(ctx context.Context, member *models.Member) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, member)
	}
	return nil
}

func (m *mockMemberRepo) Delete(ctx context.Context, guildID, userID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, guildID, userID)
	}
	return nil
}

func (m *mockMemberRepo) AddRole(ctx context.Context, guildID, userID, roleID int64) error {
	if m.AddRoleFn != nil {
		return m.AddRoleFn(ctx, guildID, userID, roleID)
	}
	return nil
}

func (m *mockMemberRepo) RemoveRole(ctx context.Context, guildID, userID, roleID int64) error {
	if m.RemoveRoleFn != nil {
		return m.RemoveRoleFn(ctx, guildID, userID, roleID)
	}
	return nil
}

func (m *mockMemberRepo) GetRoleIDs(ctx context.Context, guildID, userID int64) ([]int64, error) {
	if m.GetRoleIDsFn != nil {
		return m.GetRoleIDsFn(ctx, guildID, userID)
	}
	return nil, nil
}

func (m *mockMemberRepo) FilterExisting(ctx context.Context, guildID int64, userIDs []int64) ([]int64, error) {
	if m.FilterExistingFn != nil {
		return m.FilterExistingFn(ctx, guildID, userIDs)
	}
	return nil, nil
}

// mockChannelRepo implements database.ChannelRepository.
type mockChannelRepo struct {
	CreateFn       func(ctx context.Context, channel *models.Channel) error
	GetByIDFn      func(ctx context.Context, id int64) (*models.Channel, error)
	GetByGuildIDFn func(ctx context.Context, guildID int64) ([]models.Channel, error)
	UpdateFn       func(ctx context.Context, channel *models.Channel) error
	DeleteFn       func(ctx context.Context, id int64) error
}

func (m *mockChannelRepo) Create(ctx context.Context, channel *models.Channel) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, channel)
	}
	return nil
}

func (m *mockChannelRepo) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockChannelRepo) GetByGuildID(ctx context.Context, guildID int64) ([]models.Channel, error) {
	if m.GetByGuildIDFn != nil {
		return m.GetByGuildIDFn(ctx, guildID)
	}
	return nil, nil
}

func (m *mockChannelRepo) Update(ctx context.Context, channel *models.Channel) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, channel)
	}
	return nil
}

func (m *mockChannelRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

// mockOverwriteRepo implements database.ChannelOverwriteRepository.
type mockOverwriteRepo struct {
	SetFn            func(ctx context.Context, overwrite *models.ChannelOverwrite) error
	GetByChannelFn   func(ctx context.Context, channelID int64) ([]models.ChannelOverwrite, error)
	DeleteFn         func(ctx context.Context, channelID, targetID int64) error
	DeleteByTargetFn func(ctx context.Context, targetID int64) error
}

func (m *mockOverwriteRepo) Set(ctx context.Context, overwrite *models.ChannelOverwrite) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, overwrite)
	}
	return nil
}

func (m *mockOverwriteRepo) GetByChannel(ctx context.Context, channelID int64) ([]models.ChannelOverwrite, error) {
	if m.GetByChannelFn != nil {
		return m.GetByChannelFn(ctx, channelID)
	}
	return nil, nil
}

func (m *mockOverwriteRepo) Delete(ctx context.Context, channelID, targetID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, channelID, targetID)
	}
	return nil
}

func (m *mockOverwriteRepo) DeleteByTarget(ctx context.Context, targetID int64) error {
	if m.DeleteByTargetFn != nil {
		return m.DeleteByTargetFn(ctx, targetID)
	}
	return nil
}

// mockReadStateRepo implements database.ReadStateRepository.
type mockReadStateRepo struct {
	AckFn                   func(ctx context.Context, userID, channelID, lastMessageID int64) error
	GetByUserFn             func(ctx context.Context, userID int64) ([]models.ReadState, error)
	GetByUserAndChannelFn   func(ctx context.Context, userID, channelID int64) (*models.ReadState, error)
	IncrementMentionCountFn func(ctx context.Context, userID, channelID int64) error
}

func (m *mockReadStateRepo) Ack(ctx context.Context, userID, channelID, lastMessageID int64) error {
	if m.AckFn != nil {
		return m.AckFn(ctx, userID, channelID, lastMessageID)
	}
	return nil
}

func (m *mockReadStateRepo) GetByUser(ctx context.Context, userID int64) ([]models.ReadState, error) {
	if m.GetByUserFn != nil {
		return m.GetByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockReadStateRepo) GetByUserAndChannel(ctx context.Context, userID, channelID int64) (*models.ReadState, error) {
	if m.GetByUserAndChannelFn != nil {
		return m.GetByUserAndChannelFn(ctx, userID, channelID)
	}
	return nil, nil
}

func (m *mockReadStateRepo) IncrementMentionCount(ctx context.Context, userID, channelID int64) error {
	if m.IncrementMentionCountFn != nil {
		return m.IncrementMentionCountFn(ctx, userID, channelID)
	}
	return nil
}

// mockMessageRepo implements database.MessageRepository.
type mockMessageRepo struct {
	CreateFn               func(ctx context.Context, msg *models.Message) error
	GetByIDFn              func(ctx context.Context, id int64) (*models.Message, error)
	GetByChannelIDFn       func(ctx context.Context, channelID int64, before *int64, limit int) ([]models.Message, error)
	UpdateContentFn        func(ctx context.Context, id int64, content string, mentions []int64) error
	DeleteFn               func(ctx context.Context, id int64) error
	GetUnackedByChannelsFn func(ctx context.Context, userID int64, channelIDs []int64) ([]database.UnackedMessage, error)
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, msg)
	}
	return nil
}

func (m *mockMessageRepo) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockMessageRepo) GetByChannelID(ctx context.Context, channelID int64, before *int64, limit int) ([]models.Message, error) {
	if m.GetByChannelIDFn != nil {
		return m.GetByChannelIDFn(ctx, channelID, before, limit)
	}
	return nil, nil
}

func (m *mockMessageRepo) UpdateContent(ctx context.Context, id int64, content string, mentions []int64) error {
	if m.UpdateContentFn != nil {
		return m.UpdateContentFn(ctx, id, content, mentions)
	}
	return nil
}

func (m *mockMessageRepo) Delete(ctx context.Context, id int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *mockMessageRepo) GetUnackedByChannels(ctx context.Context, userID int64, channelIDs []int64) ([]database.UnackedMessage, error) {
	if m.GetUnackedByChannelsFn != nil {
		return m.GetUnackedByChannelsFn(ctx, userID, channelIDs)
	}
	return nil, nil
}

// mockDMRepo implements database.DMChannelRepository.
type mockDMRepo struct {
	CreateFn      func(ctx context.Context, dm *models.DMChannel) error
	GetByIDFn     func(ctx context.Context, id int64) (*models.DMChannel, error)
	GetByUserIDFn func(ctx context.Context, userID int64) ([]models.DMChannel, error)
	IsRecipientFn func(ctx context.Context, channelID, userID int64) (bool, error)
}

func (m *mockDMRepo) Create(ctx context.Context, dm *models.DMChannel) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, dm)
	}
	return nil
}

func (m *mockDMRepo) GetByID(ctx context.Context, id int64) (*models.DMChannel, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockDMRepo) GetByUserID(ctx context.Context, userID int64) ([]models.DMChannel, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockDMRepo) IsRecipient(ctx context.Context, channelID, userID int64) (bool, error) {
	if m.IsRecipientFn != nil {
		return m.IsRecipientFn(ctx, channelID, userID)
	}
	return false, nil
}

// mockNotificationRepo implements database.NotificationRepository.
type mockNotificationRepo struct {
	SetFn       func(ctx context.Context, setting *models.NotificationSetting) error
	GetByUserFn func(ctx context.Context, userID int64) ([]models.NotificationSetting, error)
	DeleteFn    func(ctx context.Context, userID, targetID int64) error
}

func (m *mockNotificationRepo) Set(ctx context.Context, setting *models.NotificationSetting) error {
	if m.SetFn != nil {
		return m.SetFn(ctx, setting)
	}
	return nil
}

func (m *mockNotificationRepo) GetByUser(ctx context.Context, userID int64) ([]models.NotificationSetting, error) {
	if m.GetByUserFn != nil {
		return m.GetByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockNotificationRepo) Delete(ctx context.Context, userID, targetID int64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, userID, targetID)
	}
	return nil
}
