package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/easyshoppingzone/orderdesk/internal/logging"
	"github.com/easyshoppingzone/orderdesk/internal/middleware"
	"github.com/easyshoppingzone/orderdesk/internal/session"
	"github.com/easyshoppingzone/orderdesk/internal/view"
)

// PageRenderer renders a named page. Satisfied by *view.Cache.
type PageRenderer interface {
	Render(w io.Writer, name string, p view.Page) error
}

// pages fills in the parts of a page every handler shares: the signed-in
// user, pending toasts and the CSRF field.
type pages struct {
	views    PageRenderer
	sessions *session.Manager
}

func (p pages) render(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page, extra ...session.Toast) {
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		page.User = &user
	}
	page.Toasts = append(p.sessions.Toasts(w, r), extra...)
	page.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := p.views.Render(&buf, name, page); err != nil {
		logging.LogError(logging.GetLogger(), "handler", "render", name, nil, err)
		http.Error(w, "Error rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// redirect queues a toast and sends the browser to path.
func (p pages) redirect(w http.ResponseWriter, r *http.Request, path, kind, message string) {
	if message != "" {
		if err := p.sessions.Flash(w, r, kind, message); err != nil {
			logging.GetLogger().WithError(err).Warn("failed to save flash")
		}
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.GetLogger().WithError(err).Error("failed to encode JSON response")
	}
}
