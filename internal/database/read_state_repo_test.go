package database

import (
	"context"
	"testing"
)

func TestReadStateRepo_AckAdvances(t *testing.T) {
	pool := testPool(t)
	guildRepo := NewGuildRepository(pool)
	channelRepo := NewChannelRepository(pool)
	repo := NewReadStateRepository(pool)
	ctx := context.Background()

	owner := nextID()
	guild, _ := createTestGuild(t, guildRepo, owner)
	ch := createTestChannel(t, channelRepo, guild.ID)

	if err := repo.Ack(ctx, owner, ch.ID, 100); err != nil {
		t.Fatalf("Ack: %v", err)
	}
	if err := repo.Ack(ctx, owner, ch.ID, 200); err != nil {
		t.Fatalf("Ack: %v", err)
	}

	state, err := repo.GetByUserAndChannel(ctx, owner, ch.ID)
	if err != nil {
		t.Fatalf("GetByUserAndChannel: %v", err)
	}
	if state == nil {
		t.Fatal("GetByUserAndChannel returned nil after Ack")
	}
	if state.LastMessageID != 200 {
		t.Errorf("LastMessageID = %d, want 200", state.LastMessageID)
	}
}

func TestReadStateRepo_StaleAckDoesNotRegress(t *testing.T) {
	pool := testPool(t)
	guildRepo := NewGuildRepository(pool)
	channelRepo := NewChannelRepository(pool)
	repo := NewReadStateRepository(pool)
	ctx := context.Background()

	owner := nextID()
	guild, _ := createTestGuild(t, guildRepo, owner)
	ch := createTestChannel(t, channelRepo, guild.ID)

	if err := repo.Ack(ctx, owner, ch.ID, 200); err != nil {
		t.Fatalf("Ack: %v", err)
	}
	// Second device acks an older message; the cursor must stay put.
	if err := repo.Ack(ctx, owner, ch.ID, 100); err != nil {
		t.Fatalf("stale Ack: %v", err)
	}

	state, err := repo.GetByUserAndChannel(ctx, owner, ch.ID)
	if err != nil {
		t.Fatalf("GetByUserAndChannel: %v", err)
	}
	if state.LastMessageID != 200 {
		t.Errorf("LastMessageID = %d after stale ack, want 200", state.LastMessageID)
	}
}

func TestReadStateRepo_AckResetsMentionCount(t *testing.T) {
	pool := testPool(t)
	guildRepo := NewGuildRepository(pool)
	channelRepo := NewChannelRepository(pool)
	repo := NewReadStateRepository(pool)
	ctx := context.Background()

	owner := nextID()
	guild, _ := createTestGuild(t, guildRepo, owner)
	ch := createTestChannel(t, channelRepo, guild.ID)

	for i := 0; i < 3; i++ {
		if err := repo.IncrementMentionCount(ctx, owner, ch.ID); err != nil {
			t.Fatalf("IncrementMentionCount: %v", err)
		}
	}

	state, err := repo.GetByUserAndChannel(ctx, owner, ch.ID)
	if err != nil {
		t.Fatalf("GetByUserAndChannel: %v", err)
	}
	if state.MentionCount != 3 {
		t.Fatalf("MentionCount = %d, want 3", state.MentionCount)
	}

	if err := repo.Ack(ctx, owner, ch.ID, 500); err != nil {
		t.Fatalf("Ack: %v", err)
	}
	state, err = repo.GetByUserAndChannel(ctx, owner, ch.ID)
	if err != nil {
		t.Fatalf("GetByUserAndChannel: %v", err)
	}
	if state.MentionCount != 0 {
		t.Errorf("MentionCount = %d after ack, want 0", state.MentionCount)
	}
}

func TestReadStateRepo_GetByUserAndChannel_Missing(t *testing.T) {
	pool := testPool(t)
	repo := NewReadStateRepository(pool)

	state, err := repo.GetByUserAndChannel(context.Background(), nextID(), nextID())
	if err != nil {
		t.Fatalf("GetByUserAndChannel: %v", err)
	}
	if state != nil {
		t.Errorf("expected nil for missing read state, got %+v", state)
	}
}
