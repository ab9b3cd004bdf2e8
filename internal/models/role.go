package models

// RoleFlags is a bitfield of role behavior flags.
type RoleFlags int64

const (
	RoleFlagHoisted     RoleFlags = 1 << 0
	RoleFlagManaged     RoleFlags = 1 << 1
	RoleFlagMentionable RoleFlags = 1 << 2
)

// Role carries separate allow and deny masks so that a permission can be
// allowed, denied, or left neutral for lower roles and overwrites to decide.
// Position is the resolution rank: the default role always holds the minimum
// position and every other role sorts above it.
type Role struct {
	ID        int64     `json:"id,string"`
	GuildID   int64     `json:"guild_id,string"`
	Name      string    `json:"name"`
	Color     int       `json:"color"`
	Allow     int64     `json:"allow,string"`
	Deny      int64     `json:"deny,string"`
	Position  int       `json:"position"`
	Flags     RoleFlags `json:"flags"`
	IsDefault bool      `json:"is_default"`
}
