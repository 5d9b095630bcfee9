package perritos

import "context"

type Repository interface {
	Crear(ctx context.Context, p Perrito) error
	GetByID(ctx context.Context, id string) (Perrito, error)
	GetBySlug(ctx context.Context, slug string) (Perrito, error)
	List(ctx context.Context, f ListFilter) ([]Perrito, int, error)
	Update(ctx context.Context, p Perrito) error
	Delete(ctx context.Context, id string) error

	// IncrementarVistas suma 1 al contador, sin tocar updated_at.
	IncrementarVistas(ctx context.Context, id string) error

	// Similares devuelve perritos disponibles que comparten tamaño o energía
	// con p, excluyendo a p.
	Similares(ctx context.Context, p Perrito, limit int) ([]Perrito, error)
}

type ListFilter struct {
	Search  string // nombre o raza
	Tamanio string
	Energia string
	Estado  string

	Page  int
	Limit int
}
