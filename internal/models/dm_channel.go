package models

import "time"

type DMChannelType int

const (
	DMTypeDM      DMChannelType = 1
	DMTypeGroupDM DMChannelType = 3
)

// DMChannel has no guild, so it carries no roles or overwrites; permission
// resolution for it reduces to a recipient check.
type DMChannel struct {
	ID         int64         `json:"id,string"`
	Type       DMChannelType `json:"type"`
	Recipients []int64       `json:"recipients"`
	CreatedAt  time.Time     `json:"created_at"`
}
