package comercios

import "context"

type Repository interface {
	Crear(ctx context.Context, c Comercio) error
	GetByID(ctx context.Context, id string) (Comercio, error)
	GetBySlug(ctx context.Context, slug string) (Comercio, error)

	// List ordena certificados primero, luego fecha de certificación desc,
	// luego nombre asc.
	List(ctx context.Context, f ListFilter) ([]Comercio, int, error)

	Update(ctx context.Context, c Comercio) error
	Delete(ctx context.Context, id string) error

	// RegistrarEscaneo incrementa qr_escaneos e inserta el EscaneoQR en la
	// misma transacción.
	RegistrarEscaneo(ctx context.Context, e EscaneoQR) error
}

type ListFilter struct {
	Search    string // nombre
	Categoria string

	// SoloActivos filtra el directorio público; el back office ve todos.
	SoloActivos bool

	Page  int
	Limit int
}
