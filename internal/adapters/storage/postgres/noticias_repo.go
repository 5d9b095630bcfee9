package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"centro-adopcion/internal/domain/noticias"
)

type NoticiaRepo struct {
	db *sql.DB
}

func NewNoticiaRepo(db *sql.DB) *NoticiaRepo {
	return &NoticiaRepo{db: db}
}

const noticiaColumns = `
	id,
	titulo, resumen, contenido, imagen, categoria,
	publicada, autor,
	created_at, updated_at
`

func (r *NoticiaRepo) Crear(ctx context.Context, n noticias.Noticia) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO noticias (`+noticiaColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		n.ID,
		n.Titulo,
		n.Resumen,
		n.Contenido,
		n.Imagen,
		n.Categoria,
		n.Publicada,
		n.Autor,
		n.CreatedAt,
		n.UpdatedAt,
	)
	return err
}

func (r *NoticiaRepo) GetByID(ctx context.Context, id string) (noticias.Noticia, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return noticias.Noticia{}, noticias.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+noticiaColumns+`
		FROM noticias
		WHERE id = $1
	`, id)
	return scanNoticia(row)
}

func (r *NoticiaRepo) List(ctx context.Context, f noticias.ListFilter) ([]noticias.Noticia, int, error) {
	where := strings.Builder{}
	where.WriteString(" WHERE 1=1")

	args := []any{}
	argN := 1

	if f.SoloPublicadas {
		where.WriteString(" AND publicada = TRUE")
	}
	if f.Categoria != "" {
		where.WriteString(fmt.Sprintf(" AND categoria = $%d", argN))
		args = append(args, f.Categoria)
		argN++
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM noticias"+where.String(), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + noticiaColumns + " FROM noticias" + where.String() +
		" ORDER BY created_at DESC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argN, argN+1)
	args = append(args, f.Limit, offset(f.Page, f.Limit))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]noticias.Noticia, 0)
	for rows.Next() {
		n, err := scanNoticia(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

func (r *NoticiaRepo) Update(ctx context.Context, n noticias.Noticia) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE noticias
		SET
			titulo = $2,
			resumen = $3,
			contenido = $4,
			imagen = $5,
			categoria = $6,
			publicada = $7,
			autor = $8,
			updated_at = $9
		WHERE id = $1
	`,
		n.ID,
		n.Titulo,
		n.Resumen,
		n.Contenido,
		n.Imagen,
		n.Categoria,
		n.Publicada,
		n.Autor,
		n.UpdatedAt,
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return noticias.ErrNotFound
	}
	return nil
}

func (r *NoticiaRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM noticias WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return noticias.ErrNotFound
	}
	return nil
}

func scanNoticia(row rowScanner) (noticias.Noticia, error) {
	var n noticias.Noticia

	if err := row.Scan(
		&n.ID,
		&n.Titulo,
		&n.Resumen,
		&n.Contenido,
		&n.Imagen,
		&n.Categoria,
		&n.Publicada,
		&n.Autor,
		&n.CreatedAt,
		&n.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return noticias.Noticia{}, noticias.ErrNotFound
		}
		return noticias.Noticia{}, err
	}

	return n, nil
}
