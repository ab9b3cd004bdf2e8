package models

import "time"

// ReadState is the per-(channel, user) ack cursor. LastMessageID only ever
// advances; MentionCount is bumped on mention-bearing messages and reset to
// zero on ack.
type ReadState struct {
	UserID        int64     `json:"user_id,string"`
	ChannelID     int64     `json:"channel_id,string"`
	LastMessageID int64     `json:"last_message_id,string"`
	MentionCount  int       `json:"mention_count"`
	UpdatedAt     time.Time `json:"updated_at"`
}
