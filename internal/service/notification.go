package service

import (
	"context"

	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/models"
)

// NotificationService manages per-target notification preferences. Targets are
// channel, guild, or user IDs; the unread service interprets them when it
// builds a query snapshot.
type NotificationService struct {
	notifications database.NotificationRepository
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(notifications database.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

// SetSetting upserts the user's preference for a target. A zero flags value
// clears the row instead of storing a no-op setting.
func (s *NotificationService) SetSetting(ctx context.Context, userID, targetID int64, flags models.NotificationFlags) error {
	if targetID <= 0 {
		return BadRequest("INVALID_TARGET", "invalid target id")
	}
	if flags&^(models.NotifMuted|models.NotifSuppressEveryone) != 0 {
		return BadRequest("INVALID_FLAGS", "unknown notification flags")
	}

	if flags == 0 {
		if err := s.notifications.Delete(ctx, userID, targetID); err != nil {
			return Internal("INTERNAL", "internal server error")
		}
		return nil
	}

	setting := &models.NotificationSetting{UserID: userID, TargetID: targetID, Flags: flags}
	if err := s.notifications.Set(ctx, setting); err != nil {
		return Internal("INTERNAL", "internal server error")
	}
	return nil
}

// ListSettings returns all of the user's notification settings.
func (s *NotificationService) ListSettings(ctx context.Context, userID int64) ([]models.NotificationSetting, error) {
	settings, err := s.notifications.GetByUser(ctx, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if settings == nil {
		settings = []models.NotificationSetting{}
	}
	return settings, nil
}
