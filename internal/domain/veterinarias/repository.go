package veterinarias

import "context"

type Repository interface {
	Crear(ctx context.Context, v Veterinaria) error
	GetByID(ctx context.Context, id string) (Veterinaria, error)
	List(ctx context.Context, f ListFilter) ([]Veterinaria, int, error)
	Update(ctx context.Context, v Veterinaria) error
	Delete(ctx context.Context, id string) error
}

type ListFilter struct {
	Search    string // nombre
	Urgencias *bool

	Page  int
	Limit int
}
