package models

// NotificationFlags is a bitfield of per-target notification preferences.
type NotificationFlags int64

const (
	// NotifMuted suppresses surfaced mentions from the target entirely.
	NotifMuted NotificationFlags = 1 << 0
	// NotifSuppressEveryone drops everyone-marker mentions from the target.
	NotifSuppressEveryone NotificationFlags = 1 << 1
)

// NotificationSetting keys a user's preference by target ID, which may be a
// channel, a guild (all its channels), or a user (DM mute).
type NotificationSetting struct {
	UserID   int64             `json:"user_id,string"`
	TargetID int64             `json:"target_id,string"`
	Flags    NotificationFlags `json:"flags"`
}
