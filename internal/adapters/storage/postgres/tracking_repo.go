package postgres

import (
	"context"
	"database/sql"

	"centro-adopcion/internal/domain/tracking"
)

type TrackingRepo struct {
	db *sql.DB
}

func NewTrackingRepo(db *sql.DB) *TrackingRepo {
	return &TrackingRepo{db: db}
}

const campaniaColumns = `
	id, nombre,
	utm_source, utm_medium, utm_campaign,
	activa, visitas,
	created_at
`

func (r *TrackingRepo) BuscarCampaniaActiva(ctx context.Context, utm tracking.UTM) (tracking.Campania, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+campaniaColumns+`
		FROM campanias
		WHERE activa = TRUE
		  AND utm_source = $1
		  AND utm_medium = $2
		  AND utm_campaign = $3
		ORDER BY created_at DESC
		LIMIT 1
	`,
		utm.Source,
		utm.Medium,
		utm.Campaign,
	)
	return scanCampania(row)
}

// RegistrarVisita inserta el log e incrementa el contador en la misma
// transacción.
func (r *TrackingRepo) RegistrarVisita(ctx context.Context, v tracking.Visita) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE campanias
		SET visitas = visitas + 1
		WHERE id = $1
	`, v.CampaniaID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return tracking.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO visitas_campania (id, campania_id, path, ip, user_agent, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		v.ID,
		v.CampaniaID,
		v.Path,
		v.IP,
		v.UserAgent,
		v.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *TrackingRepo) CrearCampania(ctx context.Context, c tracking.Campania) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO campanias (`+campaniaColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		c.ID,
		c.Nombre,
		c.UTMSource,
		c.UTMMedium,
		c.UTMCampaign,
		c.Activa,
		c.Visitas,
		c.CreatedAt,
	)
	return err
}

func (r *TrackingRepo) ListCampanias(ctx context.Context) ([]tracking.Campania, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+campaniaColumns+`
		FROM campanias
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]tracking.Campania, 0)
	for rows.Next() {
		c, err := scanCampania(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCampania(row rowScanner) (tracking.Campania, error) {
	var c tracking.Campania

	if err := row.Scan(
		&c.ID,
		&c.Nombre,
		&c.UTMSource,
		&c.UTMMedium,
		&c.UTMCampaign,
		&c.Activa,
		&c.Visitas,
		&c.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return tracking.Campania{}, tracking.ErrNotFound
		}
		return tracking.Campania{}, err
	}

	return c, nil
}
