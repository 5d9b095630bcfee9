package noticias

import "context"

type Repository interface {
	Crear(ctx context.Context, n Noticia) error
	GetByID(ctx context.Context, id string) (Noticia, error)
	List(ctx context.Context, f ListFilter) ([]Noticia, int, error)
	Update(ctx context.Context, n Noticia) error
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Categoria string

	// SoloPublicadas filtra la lectura pública.
	SoloPublicadas bool

	Page  int
	Limit int
}
