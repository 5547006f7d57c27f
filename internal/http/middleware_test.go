package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/example/conference-hub/internal/application"
)

type fakeSessionValidator struct {
	principal application.Principal
	err       error
	token     string
}

func (f *fakeSessionValidator) ValidateSession(ctx context.Context, token string) (application.Principal, error) {
	f.token = token
	if f.err != nil {
		return application.Principal{}, f.err
	}
	return f.principal, nil
}

func TestRequireSession(t *testing.T) {
	t.Parallel()

	t.Run("rejects requests without valid session tokens", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name           string
			cookieToken    *http.Cookie
			headerToken    string
			lookupError    error
			expectedStatus int
		}{
			{
				name:           "missing credentials",
				expectedStatus: http.StatusUnauthorized,
			},
			{
				name:           "expired session",
				headerToken:    "Bearer stale-token",
				lookupError:    application.ErrSessionExpired,
				expectedStatus: http.StatusUnauthorized,
			},
			{
				name:           "revoked session",
				cookieToken:    &http.Cookie{Name: "session_token", Value: "revoked-token"},
				lookupError:    application.ErrSessionRevoked,
				expectedStatus: http.StatusUnauthorized,
			},
			{
				name:           "unknown session",
				cookieToken:    &http.Cookie{Name: "session_token", Value: "unknown-token"},
				lookupError:    application.ErrNotFound,
				expectedStatus: http.StatusUnauthorized,
			},
			{
				name:           "store failure",
				cookieToken:    &http.Cookie{Name: "session_token", Value: "any-token"},
				lookupError:    errors.New("sqlite: database is locked"),
				expectedStatus: http.StatusInternalServerError,
			},
		}

		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
				if tc.cookieToken != nil {
					req.AddCookie(tc.cookieToken)
				}
				if tc.headerToken != "" {
					req.Header.Set("Authorization", tc.headerToken)
				}
				recorder := httptest.NewRecorder()

				validator := &fakeSessionValidator{err: tc.lookupError}
				handler := RequireSession(validator, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					t.Fatal("next handler should not be called when authentication fails")
				}))
				handler.ServeHTTP(recorder, req)

				if recorder.Code != tc.expectedStatus {
					t.Fatalf("expected %d, got %d: %s", tc.expectedStatus, recorder.Code, recorder.Body.String())
				}
			})
		}
	})

	t.Run("attaches the authenticated principal to the request context", func(t *testing.T) {
		t.Parallel()

		principal := application.Principal{AttendeeID: "attendee-1", IsAdmin: true}
		validator := &fakeSessionValidator{principal: principal}

		var captured application.Principal
		handler := RequireSession(validator, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				t.Fatal("expected principal in request context")
			}
			captured = p
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "valid-token"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if captured != principal {
			t.Fatalf("expected %+v, got %+v", principal, captured)
		}
		if validator.token != "valid-token" {
			t.Fatalf("expected cookie token to reach the validator, got %q", validator.token)
		}
	})

	t.Run("prefers the bearer header over the session cookie", func(t *testing.T) {
		t.Parallel()

		validator := &fakeSessionValidator{principal: application.Principal{AttendeeID: "attendee-1"}}
		handler := RequireSession(validator, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
		req.Header.Set("Authorization", "Bearer header-token")
		req.AddCookie(&http.Cookie{Name: "session_token", Value: "cookie-token"})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if validator.token != "header-token" {
			t.Fatalf("expected header token to win, got %q", validator.token)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("injects a request logger into the context", func(t *testing.T) {
		t.Parallel()

		var sawLogger bool
		handler := RequestLogger(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if LoggerFromContext(r.Context()) != nil {
				sawLogger = true
			}
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/meetings", nil)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if recorder.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", recorder.Code)
		}
		if !sawLogger {
			t.Fatal("expected logger in request context")
		}
	})
}
