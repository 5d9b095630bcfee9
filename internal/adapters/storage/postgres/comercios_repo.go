package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"centro-adopcion/internal/domain/comercios"
)

type ComercioRepo struct {
	db *sql.DB
}

func NewComercioRepo(db *sql.DB) *ComercioRepo {
	return &ComercioRepo{db: db}
}

const comercioColumns = `
	id, slug,
	nombre, categoria, direccion, telefono, horario,
	certificado, fecha_certificacion, qr_escaneos, activo,
	created_at, updated_at
`

func (r *ComercioRepo) Crear(ctx context.Context, c comercios.Comercio) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comercios (`+comercioColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`,
		c.ID,
		c.Slug,
		c.Nombre,
		c.Categoria,
		c.Direccion,
		c.Telefono,
		c.Horario,
		c.Certificado,
		toNullTime(c.FechaCertificacion),
		c.QREscaneos,
		c.Activo,
		c.CreatedAt,
		c.UpdatedAt,
	)
	return err
}

func (r *ComercioRepo) GetByID(ctx context.Context, id string) (comercios.Comercio, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return comercios.Comercio{}, comercios.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+comercioColumns+`
		FROM comercios
		WHERE id = $1
	`, id)
	return scanComercio(row)
}

func (r *ComercioRepo) GetBySlug(ctx context.Context, slug string) (comercios.Comercio, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return comercios.Comercio{}, comercios.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+comercioColumns+`
		FROM comercios
		WHERE slug = $1
	`, slug)
	return scanComercio(row)
}

func (r *ComercioRepo) List(ctx context.Context, f comercios.ListFilter) ([]comercios.Comercio, int, error) {
	where := strings.Builder{}
	where.WriteString(" WHERE 1=1")

	args := []any{}
	argN := 1

	if f.SoloActivos {
		where.WriteString(" AND activo = TRUE")
	}
	if f.Categoria != "" {
		where.WriteString(fmt.Sprintf(" AND categoria = $%d", argN))
		args = append(args, f.Categoria)
		argN++
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		where.WriteString(fmt.Sprintf(" AND nombre ILIKE $%d", argN))
		args = append(args, "%"+q+"%")
		argN++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comercios"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + comercioColumns + " FROM comercios" + where.String() +
		" ORDER BY certificado DESC, fecha_certificacion DESC NULLS LAST, nombre ASC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, f.Limit, offset(f.Page, f.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]comercios.Comercio, 0)
	for rows.Next() {
		c, err := scanComercio(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *ComercioRepo) Update(ctx context.Context, c comercios.Comercio) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE comercios
		SET
			slug = $2,
			nombre = $3,
			categoria = $4,
			direccion = $5,
			telefono = $6,
			horario = $7,
			certificado = $8,
			fecha_certificacion = $9,
			activo = $10,
			updated_at = $11
		WHERE id = $1
	`,
		c.ID,
		c.Slug,
		c.Nombre,
		c.Categoria,
		c.Direccion,
		c.Telefono,
		c.Horario,
		c.Certificado,
		toNullTime(c.FechaCertificacion),
		c.Activo,
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return comercios.ErrNotFound
	}
	return nil
}

func (r *ComercioRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comercios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return comercios.ErrNotFound
	}
	return nil
}

// RegistrarEscaneo incrementa el contador e inserta el log en la misma
// transacción.
func (r *ComercioRepo) RegistrarEscaneo(ctx context.Context, e comercios.EscaneoQR) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE comercios
		SET qr_escaneos = qr_escaneos + 1
		WHERE id = $1
	`, e.ComercioID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return comercios.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO escaneos_qr (id, comercio_id, fuente, ip, user_agent, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		e.ID,
		e.ComercioID,
		e.Fuente,
		e.IP,
		e.UserAgent,
		e.CreatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func scanComercio(row rowScanner) (comercios.Comercio, error) {
	var c comercios.Comercio
	var fc sql.NullTime

	if err := row.Scan(
		&c.ID,
		&c.Slug,
		&c.Nombre,
		&c.Categoria,
		&c.Direccion,
		&c.Telefono,
		&c.Horario,
		&c.Certificado,
		&fc,
		&c.QREscaneos,
		&c.Activo,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return comercios.Comercio{}, comercios.ErrNotFound
		}
		return comercios.Comercio{}, err
	}

	c.FechaCertificacion = fromNullTime(fc)

	return c, nil
}
