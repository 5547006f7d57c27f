package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/conference-hub/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	CacheTTL    time.Duration
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		CacheTTL:    time.Minute,
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithCacheTTL overrides the read-cache TTL passed to constructed services.
func WithCacheTTL(ttl time.Duration) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.CacheTTL = ttl
	}
}

// MeetingServiceDeps captures dependencies for constructing a meeting service.
type MeetingServiceDeps struct {
	Meetings    application.MeetingRepository
	Identity    application.AttendeeResolver
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewMeetingService builds a meeting service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewMeetingService(deps MeetingServiceDeps) *application.MeetingService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewMeetingService(
		deps.Meetings,
		deps.Identity,
		idGen,
		now,
		f.CacheTTL,
		deps.Logger,
	)
}

// RSVPServiceDeps captures dependencies for constructing an RSVP service.
type RSVPServiceDeps struct {
	RSVPs       application.RSVPRepository
	Identity    application.AttendeeResolver
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewRSVPService builds an RSVP service using the supplied dependencies.
func (f *ServiceFactory) NewRSVPService(deps RSVPServiceDeps) *application.RSVPService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewRSVPService(
		deps.RSVPs,
		deps.Identity,
		idGen,
		now,
		f.CacheTTL,
		deps.Logger,
	)
}

// AvailabilityServiceDeps captures dependencies for constructing an
// availability service.
type AvailabilityServiceDeps struct {
	Sessions application.SessionDirectory
	RSVPs    application.RSVPRepository
	Meetings application.MeetingRepository
	Identity application.AttendeeResolver
	Logger   *slog.Logger
}

// NewAvailabilityService builds an availability service using the supplied
// dependencies.
func (f *ServiceFactory) NewAvailabilityService(deps AvailabilityServiceDeps) *application.AvailabilityService {
	return application.NewAvailabilityService(
		deps.Sessions,
		deps.RSVPs,
		deps.Meetings,
		deps.Identity,
		deps.Logger,
	)
}

// SessionServiceDeps captures dependencies for constructing a session service.
type SessionServiceDeps struct {
	Sessions application.SessionDirectory
	Events   application.EventRepository
	Now      func() time.Time
	Logger   *slog.Logger
}

// NewSessionService builds a session service using the supplied dependencies.
func (f *ServiceFactory) NewSessionService(deps SessionServiceDeps) *application.SessionService {
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewSessionService(
		deps.Sessions,
		deps.Events,
		now,
		f.CacheTTL,
		deps.Logger,
	)
}

// AttendeeServiceDeps captures dependencies for constructing an attendee
// service.
type AttendeeServiceDeps struct {
	Attendees   application.AttendeeRepository
	IDGenerator func() string
	Now         func() time.Time
}

// NewAttendeeService builds an attendee service using the supplied
// dependencies.
func (f *ServiceFactory) NewAttendeeService(deps AttendeeServiceDeps) *application.AttendeeService {
	idGen := deps.IDGenerator
	if idGen == nil {
		idGen = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewAttendeeService(
		deps.Attendees,
		idGen,
		now,
	)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Credentials    application.CredentialStore
	Sessions       application.AuthSessionRepository
	PasswordVerify application.PasswordVerifier
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	token := deps.TokenGenerator
	if token == nil {
		token = f.IDGenerator.NextFunc()
	}
	now := deps.Now
	if now == nil {
		now = f.Clock.NowFunc()
	}
	return application.NewAuthService(
		deps.Credentials,
		deps.Sessions,
		deps.PasswordVerify,
		token,
		now,
		deps.SessionTTL,
		deps.Logger,
	)
}
