package tracking

import "context"

type Repository interface {
	// BuscarCampaniaActiva matchea por UTM; devuelve ErrNotFound si ninguna
	// campaña activa coincide.
	BuscarCampaniaActiva(ctx context.Context, utm UTM) (Campania, error)

	// RegistrarVisita inserta la visita e incrementa el contador de la
	// campaña en la misma transacción.
	RegistrarVisita(ctx context.Context, v Visita) error

	CrearCampania(ctx context.Context, c Campania) error
	ListCampanias(ctx context.Context) ([]Campania, error)
}
