package solicitudes

import (
	"context"
	"time"
)

type Repository interface {
	Crear(ctx context.Context, s Solicitud) error
	GetByID(ctx context.Context, id string) (Solicitud, error)
	List(ctx context.Context, f ListFilter) ([]Solicitud, int, error)

	// Transition persiste la solicitud actualizada y, en la MISMA
	// transacción, la nota opcional y el pase del perrito a adopted cuando
	// adoptarPerrito es true. O se escribe todo o no se escribe nada.
	Transition(ctx context.Context, s Solicitud, nota *Nota, adoptarPerrito bool) error

	// ListNotas devuelve las notas de la solicitud, más recientes primero.
	ListNotas(ctx context.Context, solicitudID string) ([]Nota, error)
}

type ListFilter struct {
	Search string // nombre, código o email
	Estado string

	// Dias aplica solo cuando no hay rango explícito: el rango gana.
	Dias        int
	FechaInicio *time.Time
	FechaFin    *time.Time

	Page  int
	Limit int
}
