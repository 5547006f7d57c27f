// Package http provides HTTP handlers and middleware for the conference hub API.
//
// The router exposes the following endpoints:
//   - POST /login: issues a session token. Body: {"email","password"}. Response
//     carries the token, its expiry, and the signed-in attendee; the token is also
//     surfaced via the `X-Session-Token` header and a `session_token` cookie.
//   - DELETE /sessions/current: revokes the current session token extracted from
//     the Authorization header or session cookie. Returns 204 No Content and
//     clears the cookie.
//   - GET /events: lists conference events.
//   - GET /sessions: lists conference sessions, optionally filtered by the
//     `event` query parameter (event name).
//   - GET /attendees, POST /attendees, PUT /attendees/{id}, DELETE /attendees/{id}:
//     attendee management endpoints exchanging the `attendeeDTO` payload defined
//     in directory_handler.go. Listing is available to any authenticated
//     principal while mutations require admin privileges.
//   - GET /attendees/{id}/calendar.ics: renders the attendee's RSVPs and
//     confirmed meetings as an iCalendar feed.
//   - POST /rsvps/toggle, GET /rsvps: session RSVP toggling and listing for an
//     attendee, exchanging the `rsvpDTO` payload defined in rsvp_handler.go.
//   - GET /meetings, POST /meetings, POST /meetings/{id}/confirm,
//     POST /meetings/{id}/decline, DELETE /meetings/{id}: one-on-one meeting
//     request endpoints exchanging the `meetingDTO` payload defined in
//     meeting_handler.go. Listing groups meetings into pending incoming, pending
//     outgoing, confirmed, and declined buckets.
//   - GET /availability: computes mutual free slots for two attendees via the
//     `user_id` and `other_id` query parameters.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
