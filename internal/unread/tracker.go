// Package unread answers which messages are unread or mention a user, given
// ack cursors and message mention sets. It is pure computation over snapshots
// fetched by the caller; durability lives in the database layer.
package unread

import "sync"

type cursorKey struct {
	userID    int64
	channelID int64
}

// Tracker is an in-memory read-state cursor store with only-advance
// semantics, mirroring the GREATEST upsert the database layer performs. The
// gateway uses it as a per-process view; tests use it directly.
type Tracker struct {
	mu      sync.RWMutex
	cursors map[cursorKey]int64
}

func NewTracker() *Tracker {
	return &Tracker{cursors: make(map[cursorKey]int64)}
}

// Ack advances the cursor for (user, channel) to messageID and reports
// whether it moved. An ack at or below the current cursor is ignored, never
// an error: stale acks from other devices must not regress unread state.
func (t *Tracker) Ack(userID, channelID, messageID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := cursorKey{userID: userID, channelID: channelID}
	if current, ok := t.cursors[key]; ok && messageID <= current {
		return false
	}
	t.cursors[key] = messageID
	return true
}

// Get returns the cursor for (user, channel), or ok=false if the user has
// never acked the channel.
func (t *Tracker) Get(userID, channelID int64) (int64, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.cursors[cursorKey{userID: userID, channelID: channelID}]
	return id, ok
}
