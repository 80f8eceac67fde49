// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/quiz-maker/cliparse"
	"github.com/danielhkuo/quiz-maker/db"
	"github.com/danielhkuo/quiz-maker/router"
	"github.com/danielhkuo/quiz-maker/session"
	"github.com/danielhkuo/quiz-maker/store"
)

// openStore builds the backend named by cfg.DatabaseType
func openStore(ctx context.Context, cfg cliparse.Config) (store.Store, error) {
	if cfg.DatabaseType == cliparse.DatabaseBolt {
		bs, err := store.OpenBolt(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return bs, nil
	}

	conn, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		conn.Close()
		return nil, err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	return store.NewSQLStore(conn), nil
}

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("store initialization failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	sessions := session.NewManager(st, cfg)
	go sessions.RunSweeper(ctx, cfg.SweepInterval)

	server := http.Server{
		Handler:           router.NewRouter(st, sessions, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		// Wait for Ctrl-C or SIGTERM
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	slog.Info("Listening", "port", cfg.Port, "store", cfg.DatabaseType)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}
