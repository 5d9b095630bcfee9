package perritos

import "time"

// Tamanio define los tamaños soportados.
// @Enum chico, mediano, grande
type Tamanio string

const (
	TamanioChico   Tamanio = "chico"
	TamanioMediano Tamanio = "mediano"
	TamanioGrande  Tamanio = "grande"
)

// Energia define el nivel de energía.
// @Enum baja, media, alta
type Energia string

const (
	EnergiaBaja  Energia = "baja"
	EnergiaMedia Energia = "media"
	EnergiaAlta  Energia = "alta"
)

// Estado define el estado de adopción del perrito.
// @Enum available, in_process, adopted
type Estado string

const (
	EstadoDisponible Estado = "available"
	EstadoEnProceso  Estado = "in_process"
	EstadoAdoptado   Estado = "adopted"
)

// Perrito representa un perro en el catálogo de adopción.
type Perrito struct {
	ID   string
	Slug string

	Nombre string
	Raza   string
	Edad   string
	Sexo   string

	Tamanio Tamanio
	Energia Energia
	Estado  Estado

	// Fotos se persiste serializado como JSON en una columna de texto.
	Fotos []string

	// Vistas se incrementa como efecto del GET de detalle.
	Vistas int

	Historia     string
	FechaIngreso time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
