package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/victorivanov/guildcore/internal/permissions"
	"github.com/victorivanov/guildcore/internal/snowflake"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "migrate":
		if hasFlag("--help", os.Args[2:]) {
			fmt.Println("Usage: guildcore-cli migrate")
			fmt.Println()
			fmt.Println("Run database migrations from the migrations/ directory.")
			fmt.Println()
			fmt.Println("Environment:")
			fmt.Println("  DATABASE_URL  PostgreSQL connection string (required)")
			return
		}
		os.Exit(runMigrate())
	case "seed":
		if hasFlag("--help", os.Args[2:]) {
			fmt.Println("Usage: guildcore-cli seed")
			fmt.Println()
			fmt.Println("Seed the database with demo data: a guild, roles, channels, and messages.")
			fmt.Println()
			fmt.Println("Environment:")
			fmt.Println("  DATABASE_URL  PostgreSQL connection string (required)")
			return
		}
		os.Exit(runSeed())
	case "health":
		if hasFlag("--help", os.Args[2:]) {
			fmt.Println("Usage: guildcore-cli health")
			fmt.Println()
			fmt.Println("Check if the guildcore server is running.")
			fmt.Println()
			fmt.Println("Environment:")
			fmt.Println("  SERVER_URL  Server base URL (default: http://localhost:8080)")
			return
		}
		os.Exit(runHealth())
	case "version":
		fmt.Printf("guildcore-cli %s\n", version)
	case "--help", "-h", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: guildcore-cli <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  migrate  Run database migrations")
	fmt.Println("  seed     Seed demo data (guild, roles, channels, messages)")
	fmt.Println("  health   Check if the server is running")
	fmt.Println("  version  Print version info")
	fmt.Println()
	fmt.Println("Run 'guildcore-cli <command> --help' for details on a command.")
}

func hasFlag(flag string, args []string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		fmt.Fprintf(os.Stderr, "error: %s environment variable is required\n", key)
		os.Exit(1)
	}
	return v
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// --- migrate ---

func runMigrate() int {
	dbURL := requireEnv("DATABASE_URL")

	fmt.Println("connecting to database...")
	m, err := migrate.New("file://migrations", dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: migration init failed: %v\n", err)
		return 1
	}
	defer m.Close()

	fmt.Println("running migrations...")
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		fmt.Fprintf(os.Stderr, "error: migration failed: %v\n", err)
		return 1
	}

	v, dirty, _ := m.Version()
	if err == migrate.ErrNoChange {
		fmt.Printf("no new migrations (current version: %d)\n", v)
	} else {
		fmt.Printf("migrations applied (version: %d, dirty: %v)\n", v, dirty)
	}
	return 0
}

// --- seed ---

func runSeed() int {
	dbURL := requireEnv("DATABASE_URL")
	ctx := context.Background()

	fmt.Println("connecting to database...")
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: database connection failed: %v\n", err)
		return 1
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: database ping failed: %v\n", err)
		return 1
	}

	sf, err := snowflake.NewGenerator(0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: snowflake init failed: %v\n", err)
		return 1
	}

	// Demo user IDs. Identity lives outside this service, so any
	// snowflake-shaped ID works as a user.
	aliceID := sf.Generate().Int64()
	bobID := sf.Generate().Int64()
	guildID := sf.Generate().Int64()
	everyoneRoleID := sf.Generate().Int64()
	modRoleID := sf.Generate().Int64()
	generalChanID := sf.Generate().Int64()
	modChanID := sf.Generate().Int64()
	msg1ID := sf.Generate().Int64()
	msg2ID := sf.Generate().Int64()

	now := time.Now()

	tx, err := pool.Begin(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: starting transaction: %v\n", err)
		return 1
	}
	defer tx.Rollback(ctx)

	// Guild.
	fmt.Println("creating guild...")
	_, err = tx.Exec(ctx,
		`INSERT INTO guilds (id, name, owner_id, created_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (id) DO NOTHING`,
		guildID, "Demo Server", aliceID, now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating guild: %v\n", err)
		return 1
	}

	// Roles: the default @everyone plus a Moderators role above it.
	fmt.Println("creating roles...")
	_, err = tx.Exec(ctx,
		`INSERT INTO roles (id, guild_id, name, allow_perms, deny_perms, position, is_default)
		 VALUES ($1,$2,'@everyone',$3,0,0,true), ($4,$5,'Moderators',$6,0,1,false)
		 ON CONFLICT (id) DO NOTHING`,
		everyoneRoleID, guildID, int64(permissions.DefaultEveryonePerms),
		modRoleID, guildID, int64(permissions.PermKickMembers|permissions.PermManageMessages|permissions.PermMentionEveryone),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating roles: %v\n", err)
		return 1
	}

	// Channels: #general plus a #mod-log hidden from @everyone.
	fmt.Println("creating channels...")
	_, err = tx.Exec(ctx,
		`INSERT INTO channels (id, guild_id, name, type, position) VALUES ($1,$2,'general',0,0), ($3,$4,'mod-log',0,1)
		 ON CONFLICT (id) DO NOTHING`,
		generalChanID, guildID, modChanID, guildID,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating channels: %v\n", err)
		return 1
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO channel_overwrites (channel_id, target_id, allow_perms, deny_perms)
		 VALUES ($1,$2,0,$3), ($4,$5,$6,0)
		 ON CONFLICT (channel_id, target_id) DO NOTHING`,
		modChanID, everyoneRoleID, int64(permissions.PermViewChannel),
		modChanID, modRoleID, int64(permissions.PermViewChannel),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating overwrites: %v\n", err)
		return 1
	}

	// Members: alice (owner) and bob (moderator).
	fmt.Println("creating members...")
	_, err = tx.Exec(ctx,
		`INSERT INTO members (guild_id, user_id, joined_at) VALUES ($1,$2,$3), ($4,$5,$6)
		 ON CONFLICT (guild_id, user_id) DO NOTHING`,
		guildID, aliceID, now,
		guildID, bobID, now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating members: %v\n", err)
		return 1
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO member_roles (guild_id, user_id, role_id) VALUES ($1,$2,$3)
		 ON CONFLICT (guild_id, user_id, role_id) DO NOTHING`,
		guildID, bobID, modRoleID,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating member roles: %v\n", err)
		return 1
	}

	// Messages: one plain, one mentioning bob.
	fmt.Println("creating messages...")
	_, err = tx.Exec(ctx,
		`INSERT INTO messages (id, channel_id, author_id, content, mentions, created_at)
		 VALUES ($1,$2,$3,$4,'{}',$5), ($6,$7,$8,$9,$10,$11)
		 ON CONFLICT (id) DO NOTHING`,
		msg1ID, generalChanID, aliceID, "Welcome to the Demo Server!", now,
		msg2ID, generalChanID, aliceID, fmt.Sprintf("<@%d> you are a moderator now", bobID), []int64{bobID}, now,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating messages: %v\n", err)
		return 1
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO read_states (user_id, channel_id, last_message_id, mention_count)
		 VALUES ($1,$2,0,1)
		 ON CONFLICT (user_id, channel_id) DO NOTHING`,
		bobID, generalChanID,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: creating read states: %v\n", err)
		return 1
	}

	if err := tx.Commit(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: committing transaction: %v\n", err)
		return 1
	}

	fmt.Println()
	fmt.Println("seed complete:")
	fmt.Printf("  guild:    Demo Server (id: %d, owner: %d)\n", guildID, aliceID)
	fmt.Printf("  roles:    @everyone, Moderators (held by %d)\n", bobID)
	fmt.Printf("  channels: #general, #mod-log (hidden from @everyone)\n")
	fmt.Printf("  messages: 2 messages in #general, one unread mention for %d\n", bobID)
	return 0
}

// --- health ---

func runHealth() int {
	serverURL := envOr("SERVER_URL", "http://localhost:8080")
	url := serverURL + "/health"

	fmt.Printf("checking %s ...\n", url)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("status: %d\n", resp.StatusCode)
	if len(body) > 0 {
		fmt.Printf("body:   %s\n", string(body))
	}

	if resp.StatusCode == http.StatusOK {
		fmt.Println("server is healthy")
		return 0
	}
	fmt.Fprintln(os.Stderr, "server returned non-200 status")
	return 1
}
