package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/example/conference-hub/internal/application"
	"github.com/example/conference-hub/internal/config"
	"github.com/example/conference-hub/internal/persistence"
	"github.com/example/conference-hub/internal/persistence/sqlite"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	app := &cli.App{
		Name:  "confhub-admin",
		Usage: "Operational tooling for the conference hub database.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "SQLite DSN. Defaults to CONFHUB_SQLITE_DSN.",
			},
		},
		Commands: []*cli.Command{
			seedCommand(logger),
			checkSchemaCommand(logger),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func openStore(c *cli.Context) (*sqlite.Store, error) {
	dsn := strings.TrimSpace(c.String("dsn"))
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("load configuration: %w", err)
		}
		dsn = cfg.SQLiteDSN
	}
	return sqlite.Open(dsn)
}

// seedFile is the on-disk format consumed by the seed command.
type seedFile struct {
	Events    []seedEvent    `json:"events"`
	Sessions  []seedSession  `json:"sessions"`
	Attendees []seedAttendee `json:"attendees"`
}

type seedEvent struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type seedSession struct {
	ID      string    `json:"id"`
	EventID string    `json:"event_id"`
	Title   string    `json:"title"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Hosts   []string  `json:"hosts"`
}

type seedAttendee struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	LegacyGuestID string `json:"legacy_guest_id"`
	IsAdmin       bool   `json:"is_admin"`
	Password      string `json:"password"`
}

func seedCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Load events, sessions and attendees from a JSON file.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Usage:    "Path to the seed JSON file.",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			raw, err := os.ReadFile(c.String("file"))
			if err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}
			var seed seedFile
			if err := json.Unmarshal(raw, &seed); err != nil {
				return fmt.Errorf("parse seed file: %w", err)
			}

			store, err := openStore(c)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			ctx := context.Background()
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			now := time.Now().UTC()

			eventRepo := sqlite.NewEventRepository(store)
			for _, event := range seed.Events {
				record := persistence.Event{
					ID:        orGenerated(event.ID),
					Name:      event.Name,
					Start:     event.Start,
					End:       event.End,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := eventRepo.CreateEvent(ctx, record); err != nil {
					return fmt.Errorf("seed event %q: %w", event.Name, err)
				}
				logger.Info("seeded event", "id", record.ID, "name", record.Name)
			}

			attendeeRepo := sqlite.NewAttendeeRepository(store)
			for _, attendee := range seed.Attendees {
				hash, err := application.CreatePasswordHash(attendee.Password, application.DefaultArgon2idParams)
				if err != nil {
					return fmt.Errorf("hash password for %q: %w", attendee.Email, err)
				}
				record := persistence.Attendee{
					ID:           orGenerated(attendee.ID),
					Email:        strings.ToLower(strings.TrimSpace(attendee.Email)),
					DisplayName:  attendee.DisplayName,
					IsAdmin:      attendee.IsAdmin,
					PasswordHash: hash,
					CreatedAt:    now,
					UpdatedAt:    now,
				}
				if guestID := strings.TrimSpace(attendee.LegacyGuestID); guestID != "" {
					record.LegacyGuestID = &guestID
				}
				if err := attendeeRepo.CreateAttendee(ctx, record); err != nil {
					return fmt.Errorf("seed attendee %q: %w", attendee.Email, err)
				}
				logger.Info("seeded attendee", "id", record.ID, "email", record.Email, "is_admin", record.IsAdmin)
			}

			sessionRepo := sqlite.NewSessionRepository(store)
			for _, session := range seed.Sessions {
				record := persistence.Session{
					ID:        orGenerated(session.ID),
					EventID:   session.EventID,
					Title:     session.Title,
					Start:     session.Start,
					End:       session.End,
					HostIDs:   session.Hosts,
					CreatedAt: now,
					UpdatedAt: now,
				}
				if err := sessionRepo.CreateSession(ctx, record); err != nil {
					return fmt.Errorf("seed session %q: %w", record.ID, err)
				}
				logger.Info("seeded session", "id", record.ID, "title", record.Title)
			}

			logger.Info("seed complete",
				"events", len(seed.Events),
				"attendees", len(seed.Attendees),
				"sessions", len(seed.Sessions),
			)
			return nil
		},
	}
}

var requiredTables = []string{
	"events",
	"sessions",
	"session_hosts",
	"attendees",
	"rsvps",
	"meetings",
	"auth_sessions",
}

func checkSchemaCommand(logger *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "check-schema",
		Usage: "Verify that the database contains every required table.",
		Action: func(c *cli.Context) error {
			store, err := openStore(c)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			ctx := context.Background()
			if err := store.Ping(ctx); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}

			missing, err := missingTables(ctx, store.DB())
			if err != nil {
				return err
			}
			if len(missing) > 0 {
				return fmt.Errorf("missing tables: %s", strings.Join(missing, ", "))
			}

			logger.Info("schema check passed", "tables", len(requiredTables))
			return nil
		},
	}
}

func missingTables(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table'`)
	if err != nil {
		return nil, fmt.Errorf("inspect schema: %w", err)
	}
	defer rows.Close()

	present := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	var missing []string
	for _, table := range requiredTables {
		if !present[table] {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

func orGenerated(id string) string {
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		return trimmed
	}
	return uuid.NewString()
}
