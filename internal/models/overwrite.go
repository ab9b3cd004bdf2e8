package models

// OverwriteTargetType discriminates what an overwrite's target ID refers to.
// The schema stores role and user IDs in the same column; the storage layer
// tags each row on read so resolution never has to probe both tables.
type OverwriteTargetType int

const (
	OverwriteTargetRole   OverwriteTargetType = 0
	OverwriteTargetMember OverwriteTargetType = 1
)

// ChannelOverwrite is a per-channel allow/deny pair layered on top of
// role-derived permissions for a single role or member.
type ChannelOverwrite struct {
	ChannelID  int64               `json:"channel_id,string"`
	TargetID   int64               `json:"target_id,string"`
	TargetType OverwriteTargetType `json:"target_type"`
	Allow      int64               `json:"allow,string"`
	Deny       int64               `json:"deny,string"`
}
