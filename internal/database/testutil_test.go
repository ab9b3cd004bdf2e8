package database

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildcore/internal/models"
	"github.com/victorivanov/guildcore/internal/permissions"
)

// testPool returns a pgxpool.Pool connected to the test database.
// It skips the test if DATABASE_URL is not set.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(func() { pool.Close() })
	return pool
}

// testIDCounter provides unique IDs across all tests in the package.
// Starts well above zero to avoid conflicts with any existing data.
var testIDCounter int64 = 100000

func nextID() int64 {
	return atomic.AddInt64(&testIDCounter, 1)
}

// createTestGuild creates a guild with its default role and registers cleanup.
// The returned guild's default role carries the usual text-chat baseline.
func createTestGuild(t *testing.T, repo GuildRepository, ownerID int64) (*models.Guild, *models.Role) {
	t.Helper()
	ctx := context.Background()

	guild := &models.Guild{
		ID:        nextID(),
		Name:      "test guild",
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}
	defaultRole := &models.Role{
		ID:        guild.ID,
		GuildID:   guild.ID,
		Name:      "everyone",
		Allow:     int64(permissions.PermViewChannel | permissions.PermSendMessages | permissions.PermReadMessageHistory),
		IsDefault: true,
	}
	if err := repo.Create(ctx, guild, defaultRole); err != nil {
		t.Fatalf("creating test guild: %v", err)
	}
	t.Cleanup(func() { _ = repo.Delete(ctx, guild.ID) })
	return guild, defaultRole
}

func createTestChannel(t *testing.T, repo ChannelRepository, guildID int64) *models.Channel {
	t.Helper()
	ch := &models.Channel{
		ID:      nextID(),
		GuildID: guildID,
		Name:    "general",
		Type:    models.ChannelTypeText,
	}
	if err := repo.Create(context.Background(), ch); err != nil {
		t.Fatalf("creating test channel: %v", err)
	}
	return ch
}

func createTestMessage(t *testing.T, repo MessageRepository, channelID, authorID int64, mentions []int64) *models.Message {
	t.Helper()
	msg := &models.Message{
		ID:        nextID(),
		ChannelID: channelID,
		AuthorID:  &authorID,
		Content:   "hello",
		Mentions:  mentions,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Create(context.Background(), msg); err != nil {
		t.Fatalf("creating test message: %v", err)
	}
	return msg
}

func createTestRole(t *testing.T, repo RoleRepository, guildID int64, position int) *models.Role {
	t.Helper()
	role := &models.Role{
		ID:       nextID(),
		GuildID:  guildID,
		Name:     "test role",
		Position: position,
	}
	if err := repo.Create(context.Background(), role); err != nil {
		t.Fatalf("creating test role: %v", err)
	}
	return role
}
