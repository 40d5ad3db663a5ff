package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/easyshoppingzone/orderdesk/internal/auth"
	"github.com/easyshoppingzone/orderdesk/internal/config"
	"github.com/easyshoppingzone/orderdesk/internal/dispatch"
	"github.com/easyshoppingzone/orderdesk/internal/document"
	"github.com/easyshoppingzone/orderdesk/internal/format"
	"github.com/easyshoppingzone/orderdesk/internal/logging"
	"github.com/easyshoppingzone/orderdesk/internal/order"
	"github.com/easyshoppingzone/orderdesk/internal/router"
	"github.com/easyshoppingzone/orderdesk/internal/service"
	"github.com/easyshoppingzone/orderdesk/internal/session"
	"github.com/easyshoppingzone/orderdesk/internal/sheets"
	"github.com/easyshoppingzone/orderdesk/internal/view"
	"github.com/easyshoppingzone/orderdesk/internal/ws"
)

func main() {
	cfg := config.Load()
	logging.SetLevel(cfg.LogLevel)
	format.SetLocation(cfg.Location)
	log := logging.GetLogger()

	accounts, err := loadAccounts(cfg.UsersFile)
	if err != nil {
		log.WithError(err).Fatal("failed to load staff accounts")
	}

	catalog, err := document.NewCatalog(time.Now)
	if err != nil {
		log.WithError(err).Fatal("failed to parse document templates")
	}
	views, err := view.NewCache()
	if err != nil {
		log.WithError(err).Fatal("failed to parse page templates")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	go hub.Run(ctx)

	orders := service.NewOrderService(
		sheets.NewClient(cfg.SheetAPIURL, cfg.FetchTimeout),
		order.NewCollection(),
		hub,
		time.Now,
	)

	r := router.New(cfg, router.Deps{
		Orders:        orders,
		Printer:       dispatch.New(catalog),
		Authenticator: auth.NewStaticAuthenticator(accounts),
		Views:         views,
		Sessions:      session.NewManager(session.NewCookieStore(cfg.SessionKey, cfg.CookieSecure)),
		Hub:           hub,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server failed")
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server shutdown failed")
	}
}

// loadAccounts reads hashed staff accounts from path, or hashes the built-in
// list when no file is configured.
func loadAccounts(path string) ([]auth.Account, error) {
	if path != "" {
		return auth.LoadAccounts(path)
	}
	logging.GetLogger().Warn("USERS_FILE not set, using built-in staff accounts")
	return auth.DefaultAccounts(bcrypt.DefaultCost)
}
