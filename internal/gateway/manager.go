package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/victorivanov/guildcore/internal/auth"
	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/redis"
	"github.com/victorivanov/guildcore/internal/unread"
)

const (
	replayBufferSize = 100
)

// Manager manages all active WebSocket connections and event routing.
type Manager struct {
	mu            sync.RWMutex
	connections   map[int64]*Connection    // userID → connection
	subscriptions map[int64]map[int64]bool // guildID → set of userIDs
	sessions      map[string]*Connection   // sessionID → connection

	// Ring buffer per guild for session resume replay.
	replayMu     sync.RWMutex
	replayBuffer map[int64]*ringBuffer // guildID → ring buffer of events

	// Per-process view of ack cursors, seeded from the store on IDENTIFY and
	// advanced on every ack. Lets the ack path detect stale acks without a
	// read-modify-write against the store.
	acks *unread.Tracker

	tokens     *auth.TokenService
	guilds     database.GuildRepository
	readStates database.ReadStateRepository
	redis      *redis.Client
}

// NewManager creates a new gateway Manager.
func NewManager(
	tokens *auth.TokenService,
	guilds database.GuildRepository,
	readStates database.ReadStateRepository,
	redisClient *redis.Client,
) *Manager {
	return &Manager{
		connections:   make(map[int64]*Connection),
		subscriptions: make(map[int64]map[int64]bool),
		sessions:      make(map[string]*Connection),
		replayBuffer:  make(map[int64]*ringBuffer),
		acks:          unread.NewTracker(),
		tokens:        tokens,
		guilds:        guilds,
		readStates:    readStates,
		redis:         redisClient,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  maxFrameSize,
	WriteBufferSize: maxFrameSize,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy enforced at the edge
	},
}

// HandleWebSocket upgrades GET /gateway and starts the connection's pumps.
// The client has one heartbeat window after HELLO to identify or resume.
func (m *Manager) HandleWebSocket(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error("gateway upgrade failed", "error", err)
		return nil
	}

	conn := newConnection(ws, m)
	conn.SendPayload(GatewayPayload{
		Op:   OpHello,
		Data: marshalRaw(HelloData{HeartbeatInterval: int(heartbeatInterval.Milliseconds())}),
	})

	go conn.writeLoop()
	go conn.readLoop()

	return nil
}

// register adds a connection to the manager.
func (m *Manager) register(c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Disconnect existing connection for this user.
	if old, ok := m.connections[c.UserID]; ok {
		old.SendPayload(GatewayPayload{Op: OpReconnect})
		old.Close()
		delete(m.sessions, old.SessionID)
	}

	m.connections[c.UserID] = c
	m.sessions[c.SessionID] = c
}

// unregister removes a connection from the manager and cleans up subscriptions.
func (m *Manager) unregister(c *Connection) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.connections[c.UserID]; ok && existing == c {
		delete(m.connections, c.UserID)

		for guildID, members := range m.subscriptions {
			delete(members, c.UserID)
			if len(members) == 0 {
				delete(m.subscriptions, guildID)
			}
		}

		// Clear presence with grace period.
		go m.clearPresenceWithGrace(c.UserID)
	}

	delete(m.sessions, c.SessionID)
}

// clearPresenceWithGrace waits before setting offline, allowing reconnection.
func (m *Manager) clearPresenceWithGrace(userID int64) {
	time.Sleep(10 * time.Second)

	m.mu.RLock()
	_, stillConnected := m.connections[userID]
	m.mu.RUnlock()

	if stillConnected {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.redis.SetPresence(ctx, userID, "offline"); err != nil {
		slog.Error("failed to clear presence", "userID", userID, "error", err)
	}

	m.broadcastPresence(userID, "offline")
}

// subscribe adds a user to a guild's event subscription.
func (m *Manager) subscribe(userID, guildID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subscriptions[guildID] == nil {
		m.subscriptions[guildID] = make(map[int64]bool)
	}
	m.subscriptions[guildID][userID] = true
}

// SubscribeToGuild adds a user to a guild's event subscription.
func (m *Manager) SubscribeToGuild(userID, guildID int64) {
	m.subscribe(userID, guildID)
}

// UnsubscribeFromGuild removes a user from a guild's event subscription.
func (m *Manager) UnsubscribeFromGuild(userID, guildID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if members, ok := m.subscriptions[guildID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(m.subscriptions, guildID)
		}
	}
}

// DispatchToUser sends a dispatch event to a specific connected user.
func (m *Manager) DispatchToUser(userID int64, event string, data interface{}) {
	m.mu.RLock()
	c, ok := m.connections[userID]
	m.mu.RUnlock()

	if ok {
		c.SendEvent(event, data)
	}
}

// DispatchToGuild sends a dispatch event to all users subscribed to a guild.
func (m *Manager) DispatchToGuild(guildID int64, event string, data interface{}) {
	m.fanOut(guildID, -1, event, data)
}

// DispatchToGuildExcept sends a dispatch event to all guild subscribers except one user.
func (m *Manager) DispatchToGuildExcept(guildID int64, exceptUserID int64, event string, data interface{}) {
	m.fanOut(guildID, exceptUserID, event, data)
}

func (m *Manager) fanOut(guildID, exceptUserID int64, event string, data interface{}) {
	m.mu.RLock()
	members := m.subscriptions[guildID]
	conns := make([]*Connection, 0, len(members))
	for userID := range members {
		if userID == exceptUserID {
			continue
		}
		if c, ok := m.connections[userID]; ok {
			conns = append(conns, c)
		}
	}
	m.mu.RUnlock()

	for _, c := range conns {
		c.SendEvent(event, data)
	}

	m.storeReplayEvent(guildID, Event{Name: event, Data: data})
}

// handleIdentify processes an IDENTIFY payload from a client.
func (m *Manager) handleIdentify(c *Connection, data json.RawMessage) {
	var identify IdentifyData
	if err := json.Unmarshal(data, &identify); err != nil {
		slog.Error("invalid identify data", "error", err)
		c.Close()
		return
	}

	claims, err := m.tokens.ValidateAccessToken(identify.Token)
	if err != nil {
		slog.Warn("invalid token in identify", "error", err)
		c.Close()
		return
	}

	c.UserID = claims.UserID
	c.SessionID = uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	guilds, err := m.guilds.GetByUserID(ctx, c.UserID)
	if err != nil {
		slog.Error("failed to get guilds for user", "userID", c.UserID, "error", err)
		c.Close()
		return
	}

	m.register(c)

	guildIDs := make([]int64, len(guilds))
	for i, g := range guilds {
		guildIDs[i] = g.ID
		m.subscribe(c.UserID, g.ID)
	}

	if err := m.redis.SetPresence(ctx, c.UserID, "online"); err != nil {
		slog.Error("failed to set presence", "userID", c.UserID, "error", err)
	}

	// Read states ride along in READY so the client can paint unread markers
	// immediately.
	var readStates []models.ReadState
	if m.readStates != nil {
		rs, err := m.readStates.GetByUser(ctx, c.UserID)
		if err != nil {
			slog.Error("failed to get read states", "userID", c.UserID, "error", err)
		} else {
			readStates = rs
			for _, st := range rs {
				m.acks.Ack(c.UserID, st.ChannelID, st.LastMessageID)
			}
		}
	}

	c.SendEvent(EventReady, ReadyData{
		SessionID:  c.SessionID,
		UserID:     c.UserID,
		Guilds:     guildIDs,
		ReadStates: readStates,
	})

	m.broadcastPresence(c.UserID, "online")
}

// TrackAck advances the in-process cursor view for (user, channel) and
// reports whether it moved. A stale ack from another device returns false so
// callers can skip redundant badge resets and fan-out.
func (m *Manager) TrackAck(userID, channelID, messageID int64) bool {
	return m.acks.Ack(userID, channelID, messageID)
}

// handleResume processes a RESUME payload to replay missed events.
func (m *Manager) handleResume(c *Connection, data json.RawMessage) {
	var resume ResumeData
	if err := json.Unmarshal(data, &resume); err != nil {
		slog.Error("invalid resume data", "error", err)
		c.SendPayload(GatewayPayload{Op: OpReconnect})
		c.Close()
		return
	}

	claims, err := m.tokens.ValidateAccessToken(resume.Token)
	if err != nil {
		slog.Warn("invalid token in resume", "error", err)
		c.Close()
		return
	}

	c.UserID = claims.UserID
	c.SessionID = resume.SessionID

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	guilds, err := m.guilds.GetByUserID(ctx, c.UserID)
	if err != nil {
		slog.Error("failed to get guilds on resume", "userID", c.UserID, "error", err)
		c.SendPayload(GatewayPayload{Op: OpReconnect})
		c.Close()
		return
	}

	m.register(c)

	for _, g := range guilds {
		m.subscribe(c.UserID, g.ID)

		m.replayMu.RLock()
		rb, ok := m.replayBuffer[g.ID]
		m.replayMu.RUnlock()

		if ok {
			for _, ev := range rb.since(resume.Sequence) {
				c.SendEvent(ev.Name, ev.Data)
			}
		}
	}
}

// handlePresenceUpdate processes a client presence update.
func (m *Manager) handlePresenceUpdate(c *Connection, data json.RawMessage) {
	var update ClientPresenceUpdate
	if err := json.Unmarshal(data, &update); err != nil {
		return
	}

	switch update.Status {
	case "online", "idle", "dnd", "invisible":
		// valid
	default:
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	status := update.Status
	if status == "invisible" {
		status = "offline"
	}
	if err := m.redis.SetPresence(ctx, c.UserID, status); err != nil {
		slog.Error("failed to update presence", "userID", c.UserID, "error", err)
		return
	}

	m.broadcastPresence(c.UserID, status)
}

// broadcastPresence sends a PRESENCE_UPDATE event to all guilds the user is in.
func (m *Manager) broadcastPresence(userID int64, status string) {
	m.mu.RLock()
	var guildIDs []int64
	for guildID, members := range m.subscriptions {
		if members[userID] {
			guildIDs = append(guildIDs, guildID)
		}
	}
	m.mu.RUnlock()

	data := PresenceUpdateData{UserID: userID, Status: status}
	for _, guildID := range guildIDs {
		m.fanOut(guildID, -1, EventPresenceUpdate, data)
	}
}

// storeReplayEvent adds an event to the guild's replay ring buffer.
func (m *Manager) storeReplayEvent(guildID int64, event Event) {
	m.replayMu.Lock()
	defer m.replayMu.Unlock()

	rb, ok := m.replayBuffer[guildID]
	if !ok {
		rb = newRingBuffer(replayBufferSize)
		m.replayBuffer[guildID] = rb
	}
	rb.add(event)
}

// sequencedEvent pairs an event with its sequence number for replay.
type sequencedEvent struct {
	Sequence int64
	Event
}

// ringBuffer is a fixed-size circular buffer for replay events.
type ringBuffer struct {
	events []sequencedEvent
	size   int
	pos    int
	seq    int64
	full   bool
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		events: make([]sequencedEvent, size),
		size:   size,
	}
}

func (rb *ringBuffer) add(event Event) {
	rb.seq++
	rb.events[rb.pos] = sequencedEvent{Sequence: rb.seq, Event: event}
	rb.pos = (rb.pos + 1) % rb.size
	if rb.pos == 0 {
		rb.full = true
	}
}

// since returns all events with sequence > afterSeq.
func (rb *ringBuffer) since(afterSeq int64) []Event {
	var result []Event
	count := rb.size
	if !rb.full {
		count = rb.pos
	}

	start := 0
	if rb.full {
		start = rb.pos
	}

	for i := 0; i < count; i++ {
		idx := (start + i) % rb.size
		if rb.events[idx].Sequence > afterSeq {
			result = append(result, rb.events[idx].Event)
		}
	}
	return result
}
