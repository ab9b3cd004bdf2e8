package models

import "time"

// Message IDs are snowflakes, so they are time-ordered and monotonic per
// channel. Mentions holds every target the message references: user IDs,
// role IDs, and the channel's guild ID as the everyone marker. It is
// recomputed wholesale on edit, never patched.
type Message struct {
	ID        int64      `json:"id,string"`
	ChannelID int64      `json:"channel_id,string"`
	AuthorID  *int64     `json:"author_id,string,omitempty"`
	Content   string     `json:"content"`
	Mentions  []int64    `json:"mentions"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
}

// UnreadMention is one message that qualifies as an unread mention for a user.
type UnreadMention struct {
	MessageID int64 `json:"message_id,string"`
	ChannelID int64 `json:"channel_id,string"`
}

// UnackedChannel summarizes a channel's read state for client sync: the last
// acked message (nil if nothing was ever acked) and the IDs of unread
// messages that mention the user.
type UnackedChannel struct {
	ChannelID     int64   `json:"channel_id,string"`
	LastMessageID *int64  `json:"last_message_id,string,omitempty"`
	Mentions      []int64 `json:"mentions"`
}
