package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth         *AuthHandler
	Meetings     *MeetingHandler
	Availability *AvailabilityHandler
	RSVPs        *RSVPHandler
	Directory    *DirectoryHandler
	Calendar     *CalendarHandler
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/sessions/current", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Auth.Logout(w, r)
		})
	}

	if cfg.Meetings != nil {
		mux.HandleFunc("/meetings", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Meetings.List(w, r)
			case http.MethodPost:
				cfg.Meetings.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/meetings/", func(w http.ResponseWriter, r *http.Request) {
			id, action := splitResourcePath(strings.TrimPrefix(r.URL.Path, "/meetings/"))
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithMeetingID(r.Context(), id)
			r = r.WithContext(ctx)
			switch {
			case action == "confirm" && r.Method == http.MethodPost:
				cfg.Meetings.Confirm(w, r)
			case action == "decline" && r.Method == http.MethodPost:
				cfg.Meetings.Decline(w, r)
			case action == "" && r.Method == http.MethodDelete:
				cfg.Meetings.Delete(w, r)
			case action == "":
				methodNotAllowed(w, http.MethodDelete)
			default:
				http.NotFound(w, r)
			}
		})
	}

	if cfg.Availability != nil {
		mux.HandleFunc("/availability", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Availability.Get(w, r)
		})
	}

	if cfg.RSVPs != nil {
		mux.HandleFunc("/rsvps", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.RSVPs.List(w, r)
		})
		mux.HandleFunc("/rsvps/toggle", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.RSVPs.Toggle(w, r)
		})
	}

	if cfg.Directory != nil {
		mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Directory.ListEvents(w, r)
		})
		mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Directory.ListSessions(w, r)
		})
		mux.HandleFunc("/attendees", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Directory.ListAttendees(w, r)
			case http.MethodPost:
				cfg.Directory.CreateAttendee(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		mux.HandleFunc("/attendees/", func(w http.ResponseWriter, r *http.Request) {
			id, action := splitResourcePath(strings.TrimPrefix(r.URL.Path, "/attendees/"))
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithAttendeeID(r.Context(), id)
			r = r.WithContext(ctx)
			switch {
			case action == "calendar.ics" && r.Method == http.MethodGet:
				if cfg.Calendar == nil {
					http.NotFound(w, r)
					return
				}
				cfg.Calendar.Get(w, r)
			case action == "" && r.Method == http.MethodPut:
				cfg.Directory.UpdateAttendee(w, r)
			case action == "" && r.Method == http.MethodDelete:
				cfg.Directory.DeleteAttendee(w, r)
			case action == "":
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			default:
				http.NotFound(w, r)
			}
		})
	}

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

// splitResourcePath divides "{id}" or "{id}/{action}" path remainders.
func splitResourcePath(rest string) (id, action string) {
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", ""
	}
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		return rest[:idx], rest[idx+1:]
	}
	return rest, ""
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
