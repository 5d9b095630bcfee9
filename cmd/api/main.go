package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"centro-adopcion/internal/adapters/auth/sesiones"
	pg "centro-adopcion/internal/adapters/storage/postgres"
	"centro-adopcion/internal/platform/logger"
	"centro-adopcion/internal/platform/migrations"
	"centro-adopcion/internal/ports/auth"
	"centro-adopcion/internal/router"
)

// @title Centro de Adopción API
// @version 1.0
// @description API del centro municipal de adopción: catálogo de perritos, solicitudes, comercios pet-friendly, noticias y veterinarias.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var db *sql.DB
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		opened, err := pg.Open(dsn)
		if err != nil {
			log.Error("no se pudo conectar a postgres", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		db = opened

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := migrations.Apply(ctx, db); err != nil {
			cancel()
			log.Error("migraciones fallaron", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		cancel()
		log.Info("esquema aplicado", nil)
	} else {
		log.Warn("DB_DSN no definido, usando almacenamiento en memoria", nil)
	}

	// Sin SESIONES_BASE_URL corre en modo dev (headers X-Debug-*)
	var verifier auth.SessionVerifier
	if baseURL := os.Getenv("SESIONES_BASE_URL"); baseURL != "" {
		client, err := sesiones.NewClient(sesiones.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("SESIONES_API_KEY"),
		})
		if err != nil {
			log.Error("config de sesiones inválida", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = sesiones.NewVerifier(client)
	} else {
		log.Warn("SESIONES_BASE_URL no definido, auth en modo dev", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
