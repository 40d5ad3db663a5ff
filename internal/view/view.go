// Package view renders the staff pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/easyshoppingzone/orderdesk/internal/auth"
	"github.com/easyshoppingzone/orderdesk/internal/format"
	"github.com/easyshoppingzone/orderdesk/internal/logging"
	"github.com/easyshoppingzone/orderdesk/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "layout.html"

// Page names.
const (
	Login       = "login.html"
	Dashboard   = "dashboard.html"
	Orders      = "orders.html"
	OrderDetail = "order.html"
	DeleteOrder = "delete.html"
	Booking     = "booking.html"
)

// Page is what every page template executes against.
type Page struct {
	Title string
	// Active is the sidebar entry to highlight.
	Active    string
	User      *auth.User
	Toasts    []session.Toast
	CSRFField template.HTML
	Data      any
}

// Cache holds one parsed template set per page, each including the layout.
type Cache struct {
	mu    sync.RWMutex
	pages map[string]*template.Template
	funcs template.FuncMap
}

func NewCache() (*Cache, error) {
	c := &Cache{
		pages: make(map[string]*template.Template),
		funcs: template.FuncMap{
			"currency": format.Currency,
			"date":     func(v string) string { return format.Date(v) },
			"initials": format.Initials,
			"avatar":   func(name string) template.CSS { return template.CSS(format.AvatarColor(name)) },
			"rtl":      format.IsRTL,
		},
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cache) load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return err
	}
	log := logging.GetLogger()
	for _, file := range files {
		name := path.Base(file)
		if name == layoutFile {
			continue
		}
		tmpl, err := template.New(name).Funcs(c.funcs).ParseFS(templateFS, "templates/"+layoutFile, file)
		if err != nil {
			log.WithFields(logrus.Fields{"file": file}).WithError(err).Error("failed to parse template")
			return fmt.Errorf("parse page %s: %w", name, err)
		}
		c.pages[name] = tmpl
		log.WithField("name", name).Debug("cached template")
	}
	return nil
}

func (c *Cache) Get(name string) *template.Template {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pages[name]
}

// Render executes page name into w. Nothing is written if execution fails.
func (c *Cache) Render(w io.Writer, name string, p Page) error {
	tmpl := c.Get(name)
	if tmpl == nil {
		return fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
