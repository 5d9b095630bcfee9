package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"centro-adopcion/internal/domain/veterinarias"
)

type VeterinariaRepo struct {
	db *sql.DB
}

func NewVeterinariaRepo(db *sql.DB) *VeterinariaRepo {
	return &VeterinariaRepo{db: db}
}

const veterinariaColumns = `
	id,
	nombre, direccion, telefono, horario,
	servicios, urgencias,
	created_at, updated_at
`

func (r *VeterinariaRepo) Crear(ctx context.Context, v veterinarias.Veterinaria) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO veterinarias (`+veterinariaColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		v.ID,
		v.Nombre,
		v.Direccion,
		v.Telefono,
		v.Horario,
		marshalJSONList(v.Servicios),
		v.Urgencias,
		v.CreatedAt,
		v.UpdatedAt,
	)
	return err
}

func (r *VeterinariaRepo) GetByID(ctx context.Context, id string) (veterinarias.Veterinaria, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return veterinarias.Veterinaria{}, veterinarias.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+veterinariaColumns+`
		FROM veterinarias
		WHERE id = $1
	`, id)
	return scanVeterinaria(row)
}

func (r *VeterinariaRepo) List(ctx context.Context, f veterinarias.ListFilter) ([]veterinarias.Veterinaria, int, error) {
	where := strings.Builder{}
	where.WriteString(" WHERE 1=1")

	args := []any{}
	argN := 1

	if f.Urgencias != nil {
		where.WriteString(fmt.Sprintf(" AND urgencias = $%d", argN))
		args = append(args, *f.Urgencias)
		argN++
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		where.WriteString(fmt.Sprintf(" AND nombre ILIKE $%d", argN))
		args = append(args, "%"+q+"%")
		argN++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM veterinarias"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + veterinariaColumns + " FROM veterinarias" + where.String() +
		" ORDER BY nombre ASC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, f.Limit, offset(f.Page, f.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]veterinarias.Veterinaria, 0)
	for rows.Next() {
		v, err := scanVeterinaria(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, v)
	}
	return out, total, rows.Err()
}

func (r *VeterinariaRepo) Update(ctx context.Context, v veterinarias.Veterinaria) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE veterinarias
		SET
			nombre = $2,
			direccion = $3,
			telefono = $4,
			horario = $5,
			servicios = $6,
			urgencias = $7,
			updated_at = $8
		WHERE id = $1
	`,
		v.ID,
		v.Nombre,
		v.Direccion,
		v.Telefono,
		v.Horario,
		marshalJSONList(v.Servicios),
		v.Urgencias,
		v.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return veterinarias.ErrNotFound
	}
	return nil
}

func (r *VeterinariaRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM veterinarias WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return veterinarias.ErrNotFound
	}
	return nil
}

func scanVeterinaria(row rowScanner) (veterinarias.Veterinaria, error) {
	var v veterinarias.Veterinaria
	var servicios string

	if err := row.Scan(
		&v.ID,
		&v.Nombre,
		&v.Direccion,
		&v.Telefono,
		&v.Horario,
		&servicios,
		&v.Urgencias,
		&v.CreatedAt,
		&v.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return veterinarias.Veterinaria{}, veterinarias.ErrNotFound
		}
		return veterinarias.Veterinaria{}, err
	}

	v.Servicios = unmarshalJSONList(servicios)

	return v, nil
}
