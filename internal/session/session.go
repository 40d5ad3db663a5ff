// Package session keeps the logged-in flag, the current user and pending
// toasts in a signed cookie.
package session

import (
	"encoding/gob"
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/easyshoppingzone/orderdesk/internal/auth"
)

const (
	cookieName     = "orderdesk-session"
	keyLoggedIn    = "isLoggedIn"
	keyCurrentUser = "currentUser"
)

// Toast is a one-shot notification shown on the next rendered page.
type Toast struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func init() {
	gob.Register(Toast{})
}

// NewCookieStore returns a cookie store scoped to the whole site.
func NewCookieStore(key string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(key))
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	store.Options.MaxAge = 0
	return store
}

type Manager struct {
	store sessions.Store
}

func NewManager(store sessions.Store) *Manager {
	return &Manager{store: store}
}

func (m *Manager) get(r *http.Request) *sessions.Session {
	// A tampered or stale cookie yields a fresh session, which is what we want.
	s, _ := m.store.Get(r, cookieName)
	return s
}

// Login marks the session as logged in as user.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, user auth.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s := m.get(r)
	s.Values[keyLoggedIn] = "true"
	s.Values[keyCurrentUser] = string(b)
	return s.Save(r, w)
}

// Logout clears both session keys. Pending toasts survive.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	s := m.get(r)
	delete(s.Values, keyLoggedIn)
	delete(s.Values, keyCurrentUser)
	return s.Save(r, w)
}

// CurrentUser returns the logged-in user, if any.
func (m *Manager) CurrentUser(r *http.Request) (auth.User, bool) {
	s := m.get(r)
	if v, _ := s.Values[keyLoggedIn].(string); v != "true" {
		return auth.User{}, false
	}
	raw, _ := s.Values[keyCurrentUser].(string)
	var user auth.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.Username == "" {
		return auth.User{}, false
	}
	return user, true
}

// Flash queues a toast for the next page.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, kind, message string) error {
	s := m.get(r)
	s.AddFlash(Toast{Type: kind, Message: message})
	return s.Save(r, w)
}

// Toasts pops every queued toast. It must run before the response body is written.
func (m *Manager) Toasts(w http.ResponseWriter, r *http.Request) []Toast {
	s := m.get(r)
	flashes := s.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	toasts := make([]Toast, 0, len(flashes))
	for _, f := range flashes {
		if t, ok := f.(Toast); ok {
			toasts = append(toasts, t)
		}
	}
	_ = s.Save(r, w)
	return toasts
}
