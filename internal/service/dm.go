package service

import (
	"context"
	"time"

	"github.com/victorivanov/guildcore/internal/database"
	"github.com/victorivanov/guildcore/internal/gateway"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/snowflake"
)

// DMService handles DM channel business logic.
type DMService struct {
	dms       database.DMChannelRepository
	snowflake *snowflake.Generator
	gateway   gateway.Dispatcher
}

// NewDMService creates a DMService.
func NewDMService(dms database.DMChannelRepository, sf *snowflake.Generator, gw gateway.Dispatcher) *DMService {
	return &DMService{
		dms:       dms,
		snowflake: sf,
		gateway:   gw,
	}
}

// CreateDM creates a DM channel with the given recipients. The creator is
// always a recipient; two recipients make a DM, more make a group DM.
func (s *DMService) CreateDM(ctx context.Context, userID int64, recipientIDs []int64) (*models.DMChannel, error) {
	seen := map[int64]bool{userID: true}
	recipients := []int64{userID}
	for _, id := range recipientIDs {
		if id <= 0 {
			return nil, BadRequest("INVALID_RECIPIENT", "invalid recipient id")
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		recipients = append(recipients, id)
	}
	if len(recipients) < 2 {
		return nil, BadRequest("INVALID_RECIPIENT", "a DM needs at least one other recipient")
	}
	if len(recipients) > 10 {
		return nil, BadRequest("TOO_MANY_RECIPIENTS", "a group DM holds at most 10 recipients")
	}

	dmType := models.DMTypeDM
	if len(recipients) > 2 {
		dmType = models.DMTypeGroupDM
	}

	dm := &models.DMChannel{
		ID:         s.snowflake.Generate().Int64(),
		Type:       dmType,
		Recipients: recipients,
		CreatedAt:  time.Now(),
	}
	if err := s.dms.Create(ctx, dm); err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}

	for _, id := range recipients {
		s.gateway.DispatchToUser(id, gateway.EventChannelCreate, dm)
	}
	return dm, nil
}

// GetDM returns a DM channel if the user is a recipient.
func (s *DMService) GetDM(ctx context.Context, channelID, userID int64) (*models.DMChannel, error) {
	dm, err := s.dms.GetByID(ctx, channelID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if dm == nil {
		return nil, NotFound("NOT_FOUND", "channel not found")
	}
	for _, id := range dm.Recipients {
		if id == userID {
			return dm, nil
		}
	}
	return nil, NotFound("NOT_FOUND", "channel not found")
}

// ListDMs returns all DM channels for the user.
func (s *DMService) ListDMs(ctx context.Context, userID int64) ([]models.DMChannel, error) {
	channels, err := s.dms.GetByUserID(ctx, userID)
	if err != nil {
		return nil, Internal("INTERNAL", "internal server error")
	}
	if channels == nil {
		channels = []models.DMChannel{}
	}
	return channels, nil
}
