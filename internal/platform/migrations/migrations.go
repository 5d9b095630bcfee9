package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// statements se aplican en orden. Son idempotentes (IF NOT EXISTS) para que
// Apply pueda correr en cada arranque sin llevar tabla de versiones.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS perritos (
		id            TEXT PRIMARY KEY,
		slug          TEXT UNIQUE NOT NULL,
		nombre        TEXT NOT NULL,
		raza          TEXT NOT NULL DEFAULT '',
		tamanio       TEXT NOT NULL DEFAULT 'mediano',
		energia       TEXT NOT NULL DEFAULT 'media',
		edad          TEXT NOT NULL DEFAULT '',
		sexo          TEXT NOT NULL DEFAULT '',
		estado        TEXT NOT NULL DEFAULT 'available',
		fotos         TEXT NOT NULL DEFAULT '[]',
		vistas        INTEGER NOT NULL DEFAULT 0,
		historia      TEXT NOT NULL DEFAULT '',
		fecha_ingreso TIMESTAMPTZ NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS solicitudes (
		id             TEXT PRIMARY KEY,
		codigo         TEXT UNIQUE NOT NULL,
		perrito_id     TEXT NOT NULL REFERENCES perritos(id),
		nombre         TEXT NOT NULL,
		telefono       TEXT NOT NULL DEFAULT '',
		email          TEXT NOT NULL DEFAULT '',
		direccion      TEXT NOT NULL DEFAULT '',
		motivo         TEXT NOT NULL DEFAULT '',
		estado         TEXT NOT NULL DEFAULT 'pending',
		motivo_rechazo TEXT,
		created_at     TIMESTAMPTZ NOT NULL,
		updated_at     TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS notas_solicitud (
		id           TEXT PRIMARY KEY,
		solicitud_id TEXT NOT NULL REFERENCES solicitudes(id),
		autor        TEXT NOT NULL,
		contenido    TEXT NOT NULL,
		tipo         TEXT NOT NULL DEFAULT 'interna',
		created_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS comercios (
		id                  TEXT PRIMARY KEY,
		slug                TEXT UNIQUE NOT NULL,
		nombre              TEXT NOT NULL,
		categoria           TEXT NOT NULL DEFAULT '',
		direccion           TEXT NOT NULL DEFAULT '',
		telefono            TEXT NOT NULL DEFAULT '',
		horario             TEXT NOT NULL DEFAULT '',
		certificado         BOOLEAN NOT NULL DEFAULT FALSE,
		fecha_certificacion TIMESTAMPTZ,
		qr_escaneos         INTEGER NOT NULL DEFAULT 0,
		activo              BOOLEAN NOT NULL DEFAULT TRUE,
		created_at          TIMESTAMPTZ NOT NULL,
		updated_at          TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS escaneos_qr (
		id          TEXT PRIMARY KEY,
		comercio_id TEXT NOT NULL REFERENCES comercios(id),
		fuente      TEXT NOT NULL DEFAULT '',
		ip          TEXT NOT NULL DEFAULT '',
		user_agent  TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS noticias (
		id         TEXT PRIMARY KEY,
		titulo     TEXT NOT NULL,
		resumen    TEXT NOT NULL DEFAULT '',
		contenido  TEXT NOT NULL DEFAULT '',
		imagen     TEXT NOT NULL DEFAULT '',
		categoria  TEXT NOT NULL DEFAULT '',
		publicada  BOOLEAN NOT NULL DEFAULT FALSE,
		autor      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS veterinarias (
		id         TEXT PRIMARY KEY,
		nombre     TEXT NOT NULL,
		direccion  TEXT NOT NULL DEFAULT '',
		telefono   TEXT NOT NULL DEFAULT '',
		horario    TEXT NOT NULL DEFAULT '',
		servicios  TEXT NOT NULL DEFAULT '[]',
		urgencias  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS campanias (
		id           TEXT PRIMARY KEY,
		nombre       TEXT NOT NULL,
		utm_source   TEXT NOT NULL DEFAULT '',
		utm_medium   TEXT NOT NULL DEFAULT '',
		utm_campaign TEXT NOT NULL DEFAULT '',
		activa       BOOLEAN NOT NULL DEFAULT TRUE,
		visitas      INTEGER NOT NULL DEFAULT 0,
		created_at   TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS visitas_campania (
		id          TEXT PRIMARY KEY,
		campania_id TEXT NOT NULL REFERENCES campanias(id),
		path        TEXT NOT NULL DEFAULT '',
		ip          TEXT NOT NULL DEFAULT '',
		user_agent  TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL
	)`,
}

// Apply ejecuta el esquema completo en orden.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrations: statement %d: %w", i+1, err)
		}
	}
	return nil
}
