package models

import "time"

// Member is the composite (guild, user) identity. Roles holds explicitly
// assigned role IDs; the guild's default role is implicit and never listed.
type Member struct {
	GuildID  int64     `json:"guild_id,string"`
	UserID   int64     `json:"user_id,string"`
	Nickname *string   `json:"nickname,omitempty"`
	JoinedAt time.Time `json:"joined_at"`
	Roles    []int64   `json:"roles"`
}
