package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/example/conference-hub/internal/persistence"
)

// SessionDirectory exposes session lookup operations.
type SessionDirectory interface {
	GetSession(ctx context.Context, id string) (Session, error)
	ListSessions(ctx context.Context, filter SessionRepositoryFilter) ([]Session, error)
}

// SessionRepositoryFilter narrows queries issued to the session repository.
type SessionRepositoryFilter struct {
	EventID     string
	StartsAfter *time.Time
	EndsBefore  *time.Time
}

// EventRepository exposes event lookup operations.
type EventRepository interface {
	GetEventByName(ctx context.Context, name string) (Event, error)
	ListEvents(ctx context.Context) ([]Event, error)
}

// SessionService serves the read-only session and event directories.
type SessionService struct {
	sessions SessionDirectory
	events   EventRepository
	cache    *readCache[Session]
	logger   *slog.Logger
}

// NewSessionService wires dependencies for directory reads.
func NewSessionService(sessions SessionDirectory, events EventRepository, now func() time.Time, cacheTTL time.Duration, logger *slog.Logger) *SessionService {
	return &SessionService{
		sessions: sessions,
		events:   events,
		cache:    newReadCache[Session](cacheTTL, 0, now),
		logger:   defaultLogger(logger),
	}
}

// ListSessions enumerates an event's sessions ordered by start time. An empty
// event name lists every session.
func (s *SessionService) ListSessions(ctx context.Context, eventName string) ([]Session, error) {
	if s == nil {
		return nil, fmt.Errorf("SessionService is nil")
	}
	if s.sessions == nil {
		return nil, fmt.Errorf("session repository not configured")
	}

	filter := SessionRepositoryFilter{}
	cacheKey := ""
	if name := strings.TrimSpace(eventName); name != "" {
		if s.events == nil {
			return nil, fmt.Errorf("event repository not configured")
		}
		event, err := s.events.GetEventByName(ctx, name)
		if err != nil {
			return nil, mapDirectoryRepoError(err)
		}
		filter.EventID = event.ID
		cacheKey = event.ID
	}

	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached, nil
	}

	sessions, err := s.sessions.ListSessions(ctx, filter)
	if err != nil {
		return nil, mapDirectoryRepoError(err)
	}

	ordered := make([]Session, len(sessions))
	copy(ordered, sessions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Start.Equal(ordered[j].Start) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].Start.Before(ordered[j].Start)
	})

	s.cache.Store(cacheKey, ordered)
	return ordered, nil
}

// GetSession fetches a single session.
func (s *SessionService) GetSession(ctx context.Context, id string) (Session, error) {
	if s == nil {
		return Session{}, fmt.Errorf("SessionService is nil")
	}
	if s.sessions == nil {
		return Session{}, fmt.Errorf("session repository not configured")
	}

	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return Session{}, mapDirectoryRepoError(err)
	}
	return session, nil
}

// ListEvents enumerates known conference editions.
func (s *SessionService) ListEvents(ctx context.Context) ([]Event, error) {
	if s == nil {
		return nil, fmt.Errorf("SessionService is nil")
	}
	if s.events == nil {
		return nil, fmt.Errorf("event repository not configured")
	}

	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, mapDirectoryRepoError(err)
	}
	return events, nil
}

func mapDirectoryRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
