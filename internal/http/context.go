package http

import (
	"context"

	"github.com/example/conference-hub/internal/application"
)

type contextKey string

const (
	principalContextKey  contextKey = "principal"
	meetingIDContextKey  contextKey = "meeting_id"
	attendeeIDContextKey contextKey = "attendee_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithMeetingID injects the meeting identifier resolved from the request path.
func ContextWithMeetingID(ctx context.Context, meetingID string) context.Context {
	return context.WithValue(ctx, meetingIDContextKey, meetingID)
}

// MeetingIDFromContext extracts a meeting identifier previously associated with the context.
func MeetingIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(meetingIDContextKey).(string)
	return id, ok
}

// ContextWithAttendeeID injects the attendee identifier resolved from the request path.
func ContextWithAttendeeID(ctx context.Context, attendeeID string) context.Context {
	return context.WithValue(ctx, attendeeIDContextKey, attendeeID)
}

// AttendeeIDFromContext extracts an attendee identifier previously associated with the context.
func AttendeeIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(attendeeIDContextKey).(string)
	return id, ok
}
