package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/easyshoppingzone/orderdesk/internal/auth"
	"github.com/easyshoppingzone/orderdesk/internal/enum"
	"github.com/easyshoppingzone/orderdesk/internal/logging"
	"github.com/easyshoppingzone/orderdesk/internal/middleware"
	"github.com/easyshoppingzone/orderdesk/internal/session"
	"github.com/easyshoppingzone/orderdesk/internal/view"
)

// TokenTTL is the lifetime of API access tokens.
const TokenTTL = 12 * time.Hour

// AuthHandler handles the login page, logout and API token issue.
type AuthHandler struct {
	pages
	authenticator auth.Authenticator
	jwtSecret     string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authenticator auth.Authenticator, views PageRenderer, sessions *session.Manager, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		pages:         pages{views: views, sessions: sessions},
		authenticator: authenticator,
		jwtSecret:     jwtSecret,
	}
}

// RegisterRoutes registers the login and logout pages.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
}

// RegisterAPIRoutes registers the token endpoint.
func (h *AuthHandler) RegisterAPIRoutes(r chi.Router) {
	r.Post("/auth/login", h.Token)
}

// --- Request / Response types ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        auth.User `json:"user"`
}

// --- Handlers ---

// LoginPage shows the login form, or the dashboard when already signed in.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.sessions.CurrentUser(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, view.Login, view.Page{Title: "Login"})
}

// Login checks the submitted credentials and starts a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, middleware.LoginPath, enum.ToastError, auth.ErrInvalidCredentials.Error())
		return
	}
	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")

	user, err := h.authenticator.Authenticate(r.Context(), username, password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			logging.LogError(logging.GetLogger(), "handler", "Login", "authenticate", username, err)
		}
		h.redirect(w, r, middleware.LoginPath, enum.ToastError, auth.ErrInvalidCredentials.Error())
		return
	}

	if err := h.sessions.Login(w, r, user); err != nil {
		logging.LogError(logging.GetLogger(), "handler", "Login", "save session", username, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.redirect(w, r, "/dashboard", enum.ToastSuccess, "Login successful! Redirecting...")
}

// Logout clears the session and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		logging.GetLogger().WithError(err).Warn("failed to clear session")
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// Token exchanges a username and password for a bearer token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	user, err := h.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	expires := time.Now().Add(TokenTTL)
	token, err := auth.GenerateToken(h.jwtSecret, user, TokenTTL)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, ExpiresAt: expires, User: user})
}
