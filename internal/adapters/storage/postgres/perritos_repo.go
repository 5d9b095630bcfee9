package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"centro-adopcion/internal/domain/perritos"
)

type PerritoRepo struct {
	db *sql.DB
}

func NewPerritoRepo(db *sql.DB) *PerritoRepo {
	return &PerritoRepo{db: db}
}

const perritoColumns = `
	id, slug,
	nombre, raza, tamanio, energia, edad, sexo,
	estado, fotos, vistas,
	historia, fecha_ingreso,
	created_at, updated_at
`

func (r *PerritoRepo) Crear(ctx context.Context, p perritos.Perrito) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO perritos (`+perritoColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		p.ID,
		p.Slug,
		p.Nombre,
		p.Raza,
		string(p.Tamanio),
		string(p.Energia),
		p.Edad,
		p.Sexo,
		string(p.Estado),
		marshalJSONList(p.Fotos),
		p.Vistas,
		p.Historia,
		p.FechaIngreso,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *PerritoRepo) GetByID(ctx context.Context, id string) (perritos.Perrito, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return perritos.Perrito{}, perritos.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+perritoColumns+`
		FROM perritos
		WHERE id = $1
	`, id)
	return scanPerrito(row)
}

func (r *PerritoRepo) GetBySlug(ctx context.Context, slug string) (perritos.Perrito, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return perritos.Perrito{}, perritos.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+perritoColumns+`
		FROM perritos
		WHERE slug = $1
	`, slug)
	return scanPerrito(row)
}

func (r *PerritoRepo) List(ctx context.Context, f perritos.ListFilter) ([]perritos.Perrito, int, error) {
	where := strings.Builder{}
	where.WriteString(" WHERE 1=1")

	args := []any{}
	argN := 1

	if f.Estado != "" {
		where.WriteString(fmt.Sprintf(" AND estado = $%d", argN))
		args = append(args, f.Estado)
		argN++
	}
	if f.Tamanio != "" {
		where.WriteString(fmt.Sprintf(" AND tamanio = $%d", argN))
		args = append(args, f.Tamanio)
		argN++
	}
	if f.Energia != "" {
		where.WriteString(fmt.Sprintf(" AND energia = $%d", argN))
		args = append(args, f.Energia)
		argN++
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		where.WriteString(fmt.Sprintf(" AND (nombre ILIKE $%d OR raza ILIKE $%d)", argN, argN))
		args = append(args, "%"+q+"%")
		argN++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM perritos"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + perritoColumns + " FROM perritos" + where.String() +
		" ORDER BY created_at DESC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, f.Limit, offset(f.Page, f.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]perritos.Perrito, 0)
	for rows.Next() {
		p, err := scanPerrito(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *PerritoRepo) Update(ctx context.Context, p perritos.Perrito) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE perritos
		SET
			slug = $2,
			nombre = $3,
			raza = $4,
			tamanio = $5,
			energia = $6,
			edad = $7,
			sexo = $8,
			estado = $9,
			fotos = $10,
			historia = $11,
			fecha_ingreso = $12,
			updated_at = $13
		WHERE id = $1
	`,
		p.ID,
		p.Slug,
		p.Nombre,
		p.Raza,
		string(p.Tamanio),
		string(p.Energia),
		p.Edad,
		p.Sexo,
		string(p.Estado),
		marshalJSONList(p.Fotos),
		p.Historia,
		p.FechaIngreso,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return perritos.ErrNotFound
	}
	return nil
}

func (r *PerritoRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM perritos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return perritos.ErrNotFound
	}
	return nil
}

func (r *PerritoRepo) IncrementarVistas(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE perritos
		SET vistas = vistas + 1
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return perritos.ErrNotFound
	}
	return nil
}

func (r *PerritoRepo) Similares(ctx context.Context, ref perritos.Perrito, limit int) ([]perritos.Perrito, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+perritoColumns+`
		FROM perritos
		WHERE id <> $1
		  AND estado = $2
		  AND (tamanio = $3 OR energia = $4)
		ORDER BY created_at DESC
		LIMIT $5
	`,
		ref.ID,
		string(perritos.EstadoDisponible),
		string(ref.Tamanio),
		string(ref.Energia),
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]perritos.Perrito, 0)
	for rows.Next() {
		p, err := scanPerrito(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerrito(row rowScanner) (perritos.Perrito, error) {
	var p perritos.Perrito
	var tamanio, energia, estado, fotos string

	if err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Nombre,
		&p.Raza,
		&tamanio,
		&energia,
		&p.Edad,
		&p.Sexo,
		&estado,
		&fotos,
		&p.Vistas,
		&p.Historia,
		&p.FechaIngreso,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return perritos.Perrito{}, perritos.ErrNotFound
		}
		return perritos.Perrito{}, err
	}

	p.Tamanio = perritos.Tamanio(tamanio)
	p.Energia = perritos.Energia(energia)
	p.Estado = perritos.Estado(estado)
	p.Fotos = unmarshalJSONList(fotos)

	return p, nil
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	return (page - 1) * limit
}
