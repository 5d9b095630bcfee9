package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"centro-adopcion/internal/domain/perritos"
	"centro-adopcion/internal/domain/solicitudes"
)

type SolicitudRepo struct {
	db *sql.DB
}

func NewSolicitudRepo(db *sql.DB) *SolicitudRepo {
	return &SolicitudRepo{db: db}
}

const solicitudColumns = `
	id, codigo, perrito_id,
	nombre, telefono, email, direccion, motivo,
	estado, motivo_rechazo,
	created_at, updated_at
`

func (r *SolicitudRepo) Crear(ctx context.Context, s solicitudes.Solicitud) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO solicitudes (`+solicitudColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		s.ID,
		s.Codigo,
		s.PerritoID,
		s.Nombre,
		s.Telefono,
		s.Email,
		s.Direccion,
		s.Motivo,
		string(s.Estado),
		toNullString(s.MotivoRechazo),
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *SolicitudRepo) GetByID(ctx context.Context, id string) (solicitudes.Solicitud, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return solicitudes.Solicitud{}, solicitudes.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+solicitudColumns+`
		FROM solicitudes
		WHERE id = $1
	`, id)
	return scanSolicitud(row)
}

func (r *SolicitudRepo) List(ctx context.Context, f solicitudes.ListFilter) ([]solicitudes.Solicitud, int, error) {
	where := strings.Builder{}
	where.WriteString(" WHERE 1=1")

	args := []any{}
	argN := 1

	if f.Estado != "" {
		where.WriteString(fmt.Sprintf(" AND estado = $%d", argN))
		args = append(args, f.Estado)
		argN++
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		where.WriteString(fmt.Sprintf(" AND (nombre ILIKE $%d OR codigo ILIKE $%d OR email ILIKE $%d)", argN, argN, argN))
		args = append(args, "%"+q+"%")
		argN++
	}
	if f.FechaInicio != nil {
		where.WriteString(fmt.Sprintf(" AND created_at >= $%d", argN))
		args = append(args, *f.FechaInicio)
		argN++
	}
	if f.FechaFin != nil {
		where.WriteString(fmt.Sprintf(" AND created_at <= $%d", argN))
		args = append(args, *f.FechaFin)
		argN++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM solicitudes"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + solicitudColumns + " FROM solicitudes" + where.String() +
		" ORDER BY created_at DESC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, f.Limit, offset(f.Page, f.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]solicitudes.Solicitud, 0)
	for rows.Next() {
		s, err := scanSolicitud(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// Transition escribe la solicitud, la nota opcional y el cascade del perrito
// en una sola transacción. Cualquier fallo revierte todo.
func (r *SolicitudRepo) Transition(ctx context.Context, s solicitudes.Solicitud, nota *solicitudes.Nota, adoptarPerrito bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE solicitudes
		SET
			estado = $2,
			motivo_rechazo = $3,
			updated_at = $4
		WHERE id = $1
	`,
		s.ID,
		string(s.Estado),
		toNullString(s.MotivoRechazo),
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return solicitudes.ErrNotFound
	}

	if nota != nil {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO notas_solicitud (id, solicitud_id, autor, contenido, tipo, created_at)
			VALUES ($1,$2,$3,$4,$5,$6)
		`,
			nota.ID,
			nota.SolicitudID,
			nota.Autor,
			nota.Contenido,
			nota.Tipo,
			nota.CreatedAt,
		); err != nil {
			return err
		}
	}

	if adoptarPerrito {
		res, err := tx.ExecContext(ctx, `
			UPDATE perritos
			SET estado = $2, updated_at = $3
			WHERE id = $1
		`,
			s.PerritoID,
			string(perritos.EstadoAdoptado),
			s.UpdatedAt,
		)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return perritos.ErrNotFound
		}
	}

	return tx.Commit()
}

func (r *SolicitudRepo) ListNotas(ctx context.Context, solicitudID string) ([]solicitudes.Nota, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, solicitud_id, autor, contenido, tipo, created_at
		FROM notas_solicitud
		WHERE solicitud_id = $1
		ORDER BY created_at DESC
	`, solicitudID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]solicitudes.Nota, 0)
	for rows.Next() {
		var n solicitudes.Nota
		if err := rows.Scan(
			&n.ID,
			&n.SolicitudID,
			&n.Autor,
			&n.Contenido,
			&n.Tipo,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func scanSolicitud(row rowScanner) (solicitudes.Solicitud, error) {
	var s solicitudes.Solicitud
	var estado string
	var motivoRechazo sql.NullString

	if err := row.Scan(
		&s.ID,
		&s.Codigo,
		&s.PerritoID,
		&s.Nombre,
		&s.Telefono,
		&s.Email,
		&s.Direccion,
		&s.Motivo,
		&estado,
		&motivoRechazo,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return solicitudes.Solicitud{}, solicitudes.ErrNotFound
		}
		return solicitudes.Solicitud{}, err
	}

	s.Estado = solicitudes.Estado(estado)
	s.MotivoRechazo = fromNullString(motivoRechazo)

	return s, nil
}
