package service

import (
	"context"

	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/gateway"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/permissions"
	"github.com/victorivanov/guildcore/internal/redis"
)

// ReadStateService handles ack cursors. Acks are idempotent and monotonic:
// re-acking the same message or an older one never moves the cursor back.
type ReadStateService struct {
	readStates database.ReadStateRepository
	redis      *redis.Client
	gateway    gateway.Dispatcher
	perms      *PermissionService
}

// NewReadStateService creates a ReadStateService.
func NewReadStateService(
	readStates database.ReadStateRepository,
	redisClient *redis.Client,
	gw gateway.Dispatcher,
	perms *PermissionService,
) *ReadStateService {
	return &ReadStateService{
		readStates: readStates,
		redis:      redisClient,
		gateway:    gw,
		perms:      perms,
	}
}

// Ack marks a channel as read up to the given message ID, resets the mention
// badge, and tells the user's other devices so their markers converge.
func (s *ReadStateService) Ack(ctx context.Context, channelID, messageID, userID int64) error {
	if err := s.perms.RequireChannel(ctx, channelID, userID, permissions.PermViewChannel); err != nil {
		return err
	}

	if err := s.readStates.Ack(ctx, userID, channelID, messageID); err != nil {
		return Internal("INTERNAL", "internal server error")
	}

	// The gateway's cursor view knows whether this ack actually advanced.
	// Stale acks from other devices keep the badge and skip the fan-out.
	if !s.gateway.TrackAck(userID, channelID, messageID) {
		return nil
	}

	if s.redis != nil {
		_ = s.redis.ResetMentionCount(ctx, userID, channelID)
	}

	s.gateway.DispatchToUser(userID, gateway.EventMessageAck, gateway.MessageAckData{
		ChannelID: channelID,
		MessageID: messageID,
	})

	return nil
}

// GetReadStates returns all read states for a user.
func (s *ReadStateService) GetReadStates(ctx context.Context, userID int64) ([]models.ReadState, error) {
	states, err := s.readStates.GetByUser(ctx, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if states == nil {
		states = []models.ReadState{}
	}
	return states, nil
}
