package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	config "Lenscalc/internal/config"
	repo "Lenscalc/internal/repo"
	storage "Lenscalc/internal/storage"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var wg sync.WaitGroup

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsDev() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogger(cfg)

	var svc Services
	if cfg.Database.URL != "" {
		db, err := repo.Open(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("open database")
		}
		defer db.Close()
		if err := repo.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migrate database")
		}
		pg := repo.NewPostgresDB(db)
		svc.Users, svc.Presets = pg, pg
	}
	if cfg.S3.Bucket != "" {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:   cfg.S3.Bucket,
			Endpoint: cfg.S3.Endpoint,
			Region:   cfg.S3.Region,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("init report store")
		}
		svc.Reports = store
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           HandleList(mux.NewRouter(), cfg, svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info().Str("addr", server.Addr).Str("env", cfg.Server.Env).Msg("starting server")
		var err error
		if cfg.Server.TLSCert != "" {
			err = server.ListenAndServeTLS(cfg.Server.TLSCert, cfg.Server.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, closing active connections")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	wg.Wait()
	log.Info().Msg("server stopped")
}
