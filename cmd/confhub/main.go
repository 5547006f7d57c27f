package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/conference-hub/internal/application"
	"github.com/example/conference-hub/internal/config"
	httptransport "github.com/example/conference-hub/internal/http"
	"github.com/example/conference-hub/internal/persistence"
	"github.com/example/conference-hub/internal/persistence/sqlite"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	attendees := sqlite.NewAttendeeRepository(storage)
	events := sqlite.NewEventRepository(storage)
	sessions := sqlite.NewSessionRepository(storage)
	rsvps := sqlite.NewRSVPRepository(storage)
	meetings := sqlite.NewMeetingRepository(storage)
	authSessions := sqlite.NewAuthSessionRepository(storage)

	identity := application.NewIdentityResolver(newAttendeeLookupAdapter(attendees))

	meetingService := application.NewMeetingService(newMeetingRepositoryAdapter(meetings), identity, idGenerator, now, cfg.CacheTTL, logger)
	rsvpService := application.NewRSVPService(newRSVPRepositoryAdapter(rsvps), identity, idGenerator, now, cfg.CacheTTL, logger)
	availabilityService := application.NewAvailabilityService(newSessionDirectoryAdapter(sessions), newRSVPRepositoryAdapter(rsvps), newMeetingRepositoryAdapter(meetings), identity, logger)
	sessionService := application.NewSessionService(newSessionDirectoryAdapter(sessions), newEventRepositoryAdapter(events), now, cfg.CacheTTL, logger)
	attendeeService := application.NewAttendeeService(newAttendeeRepositoryAdapter(attendees), idGenerator, now)
	authService := application.NewAuthService(newCredentialStoreAdapter(attendees), newAuthSessionRepositoryAdapter(authSessions), nil, tokenGenerator, now, cfg.SessionTTL, logger)

	authHandler := httptransport.NewAuthHandler(authService, logger)
	meetingHandler := httptransport.NewMeetingHandler(meetingService, logger)
	availabilityHandler := httptransport.NewAvailabilityHandler(availabilityService, logger)
	rsvpHandler := httptransport.NewRSVPHandler(rsvpService, logger)
	directoryHandler := httptransport.NewDirectoryHandler(sessionService, attendeeService, logger)
	calendarHandler := httptransport.NewCalendarHandler(newSessionDirectoryAdapter(sessions), rsvpService, meetingService, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         authHandler,
		Meetings:     meetingHandler,
		Availability: availabilityHandler,
		RSVPs:        rsvpHandler,
		Directory:    directoryHandler,
		Calendar:     calendarHandler,
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.URL.Path, "/login") {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("conference hub API listening", "addr", server.Addr, "event", cfg.EventName)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

type meetingRepositoryAdapter struct {
	repo persistence.MeetingRepository
}

func newMeetingRepositoryAdapter(repo persistence.MeetingRepository) *meetingRepositoryAdapter {
	return &meetingRepositoryAdapter{repo: repo}
}

func (a *meetingRepositoryAdapter) CreateMeeting(ctx context.Context, meeting application.Meeting) (application.Meeting, error) {
	if err := a.repo.CreateMeeting(ctx, toPersistenceMeeting(meeting)); err != nil {
		return application.Meeting{}, err
	}
	stored, err := a.repo.GetMeeting(ctx, meeting.ID)
	if err != nil {
		return application.Meeting{}, err
	}
	return toApplicationMeeting(stored), nil
}

func (a *meetingRepositoryAdapter) GetMeeting(ctx context.Context, id string) (application.Meeting, error) {
	stored, err := a.repo.GetMeeting(ctx, id)
	if err != nil {
		return application.Meeting{}, err
	}
	return toApplicationMeeting(stored), nil
}

func (a *meetingRepositoryAdapter) UpdateMeeting(ctx context.Context, meeting application.Meeting) (application.Meeting, error) {
	if err := a.repo.UpdateMeeting(ctx, toPersistenceMeeting(meeting)); err != nil {
		return application.Meeting{}, err
	}
	stored, err := a.repo.GetMeeting(ctx, meeting.ID)
	if err != nil {
		return application.Meeting{}, err
	}
	return toApplicationMeeting(stored), nil
}

func (a *meetingRepositoryAdapter) DeleteMeeting(ctx context.Context, id string) error {
	return a.repo.DeleteMeeting(ctx, id)
}

func (a *meetingRepositoryAdapter) ListMeetings(ctx context.Context, filter application.MeetingRepositoryFilter) ([]application.Meeting, error) {
	models, err := a.repo.ListMeetings(ctx, persistence.MeetingFilter{
		AttendeeID: filter.AttendeeID,
		Status:     string(filter.Status),
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	result := make([]application.Meeting, 0, len(models))
	for _, model := range models {
		result = append(result, toApplicationMeeting(model))
	}
	return result, nil
}

type rsvpRepositoryAdapter struct {
	repo persistence.RSVPRepository
}

func newRSVPRepositoryAdapter(repo persistence.RSVPRepository) *rsvpRepositoryAdapter {
	return &rsvpRepositoryAdapter{repo: repo}
}

func (a *rsvpRepositoryAdapter) CreateRSVP(ctx context.Context, rsvp application.RSVP) (application.RSVP, error) {
	if err := a.repo.CreateRSVP(ctx, persistence.RSVP(rsvp)); err != nil {
		return application.RSVP{}, err
	}
	stored, err := a.repo.GetRSVP(ctx, rsvp.SessionID, rsvp.AttendeeID)
	if err != nil {
		return application.RSVP{}, err
	}
	return application.RSVP(stored), nil
}

func (a *rsvpRepositoryAdapter) GetRSVP(ctx context.Context, sessionID, attendeeID string) (application.RSVP, error) {
	stored, err := a.repo.GetRSVP(ctx, sessionID, attendeeID)
	if err != nil {
		return application.RSVP{}, err
	}
	return application.RSVP(stored), nil
}

func (a *rsvpRepositoryAdapter) ListRSVPs(ctx context.Context, filter application.RSVPRepositoryFilter) ([]application.RSVP, error) {
	models, err := a.repo.ListRSVPs(ctx, persistence.RSVPFilter{
		SessionID:  filter.SessionID,
		AttendeeID: filter.AttendeeID,
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	result := make([]application.RSVP, 0, len(models))
	for _, model := range models {
		result = append(result, application.RSVP(model))
	}
	return result, nil
}

func (a *rsvpRepositoryAdapter) DeleteRSVP(ctx context.Context, id string) error {
	return a.repo.DeleteRSVP(ctx, id)
}

type sessionDirectoryAdapter struct {
	repo persistence.SessionRepository
}

func newSessionDirectoryAdapter(repo persistence.SessionRepository) *sessionDirectoryAdapter {
	return &sessionDirectoryAdapter{repo: repo}
}

func (a *sessionDirectoryAdapter) GetSession(ctx context.Context, id string) (application.Session, error) {
	stored, err := a.repo.GetSession(ctx, id)
	if err != nil {
		return application.Session{}, err
	}
	return toApplicationSession(stored), nil
}

func (a *sessionDirectoryAdapter) ListSessions(ctx context.Context, filter application.SessionRepositoryFilter) ([]application.Session, error) {
	models, err := a.repo.ListSessions(ctx, persistence.SessionFilter{
		EventID:     filter.EventID,
		StartsAfter: filter.StartsAfter,
		EndsBefore:  filter.EndsBefore,
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	result := make([]application.Session, 0, len(models))
	for _, model := range models {
		result = append(result, toApplicationSession(model))
	}
	return result, nil
}

type eventRepositoryAdapter struct {
	repo persistence.EventRepository
}

func newEventRepositoryAdapter(repo persistence.EventRepository) *eventRepositoryAdapter {
	return &eventRepositoryAdapter{repo: repo}
}

func (a *eventRepositoryAdapter) GetEventByName(ctx context.Context, name string) (application.Event, error) {
	stored, err := a.repo.GetEventByName(ctx, name)
	if err != nil {
		return application.Event{}, err
	}
	return toApplicationEvent(stored), nil
}

func (a *eventRepositoryAdapter) ListEvents(ctx context.Context) ([]application.Event, error) {
	models, err := a.repo.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	result := make([]application.Event, 0, len(models))
	for _, model := range models {
		result = append(result, toApplicationEvent(model))
	}
	return result, nil
}

type attendeeRepositoryAdapter struct {
	repo persistence.AttendeeRepository
}

func newAttendeeRepositoryAdapter(repo persistence.AttendeeRepository) *attendeeRepositoryAdapter {
	return &attendeeRepositoryAdapter{repo: repo}
}

func (a *attendeeRepositoryAdapter) CreateAttendee(ctx context.Context, attendee application.Attendee, passwordHash string) (application.Attendee, error) {
	if err := a.repo.CreateAttendee(ctx, toPersistenceAttendee(attendee, passwordHash)); err != nil {
		return application.Attendee{}, err
	}
	stored, err := a.repo.GetAttendee(ctx, attendee.ID)
	if err != nil {
		return application.Attendee{}, err
	}
	return toApplicationAttendee(stored), nil
}

func (a *attendeeRepositoryAdapter) GetAttendee(ctx context.Context, id string) (application.Attendee, error) {
	stored, err := a.repo.GetAttendee(ctx, id)
	if err != nil {
		return application.Attendee{}, err
	}
	return toApplicationAttendee(stored), nil
}

func (a *attendeeRepositoryAdapter) UpdateAttendee(ctx context.Context, attendee application.Attendee) (application.Attendee, error) {
	current, err := a.repo.GetAttendee(ctx, attendee.ID)
	if err != nil {
		return application.Attendee{}, err
	}
	if err := a.repo.UpdateAttendee(ctx, toPersistenceAttendee(attendee, current.PasswordHash)); err != nil {
		return application.Attendee{}, err
	}
	stored, err := a.repo.GetAttendee(ctx, attendee.ID)
	if err != nil {
		return application.Attendee{}, err
	}
	return toApplicationAttendee(stored), nil
}

func (a *attendeeRepositoryAdapter) DeleteAttendee(ctx context.Context, id string) error {
	return a.repo.DeleteAttendee(ctx, id)
}

func (a *attendeeRepositoryAdapter) ListAttendees(ctx context.Context) ([]application.Attendee, error) {
	models, err := a.repo.ListAttendees(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}
	result := make([]application.Attendee, 0, len(models))
	for _, model := range models {
		result = append(result, toApplicationAttendee(model))
	}
	return result, nil
}

type attendeeLookupAdapter struct {
	repo persistence.AttendeeRepository
}

func newAttendeeLookupAdapter(repo persistence.AttendeeRepository) *attendeeLookupAdapter {
	return &attendeeLookupAdapter{repo: repo}
}

func (a *attendeeLookupAdapter) GetAttendee(ctx context.Context, id string) (application.Attendee, error) {
	stored, err := a.repo.GetAttendee(ctx, id)
	if err != nil {
		return application.Attendee{}, err
	}
	return toApplicationAttendee(stored), nil
}

func (a *attendeeLookupAdapter) GetAttendeeByLegacyGuestID(ctx context.Context, guestID string) (application.Attendee, error) {
	stored, err := a.repo.GetAttendeeByLegacyGuestID(ctx, guestID)
	if err != nil {
		return application.Attendee{}, err
	}
	return toApplicationAttendee(stored), nil
}

type credentialStoreAdapter struct {
	repo persistence.AttendeeRepository
}

func newCredentialStoreAdapter(repo persistence.AttendeeRepository) *credentialStoreAdapter {
	return &credentialStoreAdapter{repo: repo}
}

func (a *credentialStoreAdapter) GetAttendeeCredentialsByEmail(ctx context.Context, email string) (application.AttendeeCredentials, error) {
	stored, err := a.repo.GetAttendeeByEmail(ctx, email)
	if err != nil {
		return application.AttendeeCredentials{}, err
	}
	return application.AttendeeCredentials{
		Attendee:     toApplicationAttendee(stored),
		PasswordHash: stored.PasswordHash,
	}, nil
}

func (a *credentialStoreAdapter) GetAttendee(ctx context.Context, id string) (application.Attendee, error) {
	stored, err := a.repo.GetAttendee(ctx, id)
	if err != nil {
		return application.Attendee{}, err
	}
	return toApplicationAttendee(stored), nil
}

type authSessionRepositoryAdapter struct {
	repo persistence.AuthSessionRepository
}

func newAuthSessionRepositoryAdapter(repo persistence.AuthSessionRepository) *authSessionRepositoryAdapter {
	return &authSessionRepositoryAdapter{repo: repo}
}

func (a *authSessionRepositoryAdapter) CreateAuthSession(ctx context.Context, session application.AuthSession) (application.AuthSession, error) {
	stored, err := a.repo.CreateAuthSession(ctx, persistence.AuthSession(session))
	if err != nil {
		return application.AuthSession{}, err
	}
	return application.AuthSession(stored), nil
}

func (a *authSessionRepositoryAdapter) GetAuthSession(ctx context.Context, token string) (application.AuthSession, error) {
	stored, err := a.repo.GetAuthSession(ctx, token)
	if err != nil {
		return application.AuthSession{}, err
	}
	return application.AuthSession(stored), nil
}

func (a *authSessionRepositoryAdapter) RevokeAuthSession(ctx context.Context, token string, revokedAt time.Time) (application.AuthSession, error) {
	stored, err := a.repo.RevokeAuthSession(ctx, token, revokedAt)
	if err != nil {
		return application.AuthSession{}, err
	}
	return application.AuthSession(stored), nil
}

func (a *authSessionRepositoryAdapter) DeleteExpiredAuthSessions(ctx context.Context, reference time.Time) error {
	return a.repo.DeleteExpiredAuthSessions(ctx, reference)
}

func toPersistenceMeeting(meeting application.Meeting) persistence.Meeting {
	return persistence.Meeting{
		ID:          meeting.ID,
		RequesterID: meeting.RequesterID,
		RequesteeID: meeting.RequesteeID,
		Start:       meeting.Start,
		End:         meeting.End,
		Status:      string(meeting.Status),
		Title:       meeting.Title,
		Notes:       meeting.Notes,
		CreatedAt:   meeting.CreatedAt,
		UpdatedAt:   meeting.UpdatedAt,
		ConfirmedAt: meeting.ConfirmedAt,
	}
}

func toApplicationMeeting(meeting persistence.Meeting) application.Meeting {
	return application.Meeting{
		ID:          meeting.ID,
		RequesterID: meeting.RequesterID,
		RequesteeID: meeting.RequesteeID,
		Start:       meeting.Start,
		End:         meeting.End,
		Status:      application.MeetingStatus(meeting.Status),
		Title:       meeting.Title,
		Notes:       meeting.Notes,
		CreatedAt:   meeting.CreatedAt,
		UpdatedAt:   meeting.UpdatedAt,
		ConfirmedAt: meeting.ConfirmedAt,
	}
}

func toApplicationSession(session persistence.Session) application.Session {
	return application.Session{
		ID:         session.ID,
		EventID:    session.EventID,
		Title:      session.Title,
		Start:      session.Start,
		End:        session.End,
		LocationID: session.LocationID,
		Capacity:   session.Capacity,
		HostIDs:    append([]string(nil), session.HostIDs...),
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}
}

func toApplicationEvent(event persistence.Event) application.Event {
	return application.Event{
		ID:          event.ID,
		Name:        event.Name,
		Description: event.Description,
		Website:     event.Website,
		Start:       event.Start,
		End:         event.End,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}

func toPersistenceAttendee(attendee application.Attendee, passwordHash string) persistence.Attendee {
	return persistence.Attendee{
		ID:            attendee.ID,
		Email:         attendee.Email,
		DisplayName:   attendee.DisplayName,
		LegacyGuestID: attendee.LegacyGuestID,
		IsAdmin:       attendee.IsAdmin,
		PasswordHash:  passwordHash,
		CreatedAt:     attendee.CreatedAt,
		UpdatedAt:     attendee.UpdatedAt,
	}
}

func toApplicationAttendee(attendee persistence.Attendee) application.Attendee {
	return application.Attendee{
		ID:            attendee.ID,
		Email:         attendee.Email,
		DisplayName:   attendee.DisplayName,
		LegacyGuestID: attendee.LegacyGuestID,
		IsAdmin:       attendee.IsAdmin,
		CreatedAt:     attendee.CreatedAt,
		UpdatedAt:     attendee.UpdatedAt,
	}
}
