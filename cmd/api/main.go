package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/billed/internal/attachment"
	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/bill/client"
	billStore "github.com/MrJamesThe3rd/billed/internal/bill/store"
	"github.com/MrJamesThe3rd/billed/internal/config"
	"github.com/MrJamesThe3rd/billed/internal/database"
	billedHttp "github.com/MrJamesThe3rd/billed/internal/http"
	"github.com/MrJamesThe3rd/billed/internal/http/auth"
	billHandler "github.com/MrJamesThe3rd/billed/internal/http/bill"
	"github.com/MrJamesThe3rd/billed/internal/http/page"
	"github.com/MrJamesThe3rd/billed/internal/session"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	files, err := attachment.Open(cfg.Storage.Path, cfg.App.PublicURL)
	if err != nil {
		slog.Error("failed to open attachment storage", "path", cfg.Storage.Path, "error", err)
		os.Exit(1)
	}
	defer files.Close()

	var (
		billService   = bill.NewService(billStore.New(db), files)
		codec         = session.NewCodec(cfg.Session.Secret, cfg.Session.TTL)
		authenticator = auth.New(codec, cfg.Session.Cookie)
	)

	// Pages read the bills straight from the service unless they are pointed
	// at another API.
	stores := func(s session.Session) (bill.Store, error) {
		return bill.NewLocal(billService, s.Scope()), nil
	}

	if cfg.Remote.APIURL != "" {
		stores = func(s session.Session) (bill.Store, error) {
			token, err := codec.Encode(s)
			if err != nil {
				return nil, err
			}

			return client.New(cfg.Remote.APIURL, token, cfg.Server.Timeout), nil
		}
	}

	var (
		billH = billHandler.NewHandler(billService, cfg.Storage.UploadLimit)
		pageH = page.NewHandler(authenticator, stores, files, cfg.App.Name, cfg.Storage.UploadLimit, slog.Default())
	)

	router := billedHttp.New(authenticator, billH, pageH, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	slog.Info("starting server", "port", srv.Addr)

	if err := srv.ListenAndServe(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
