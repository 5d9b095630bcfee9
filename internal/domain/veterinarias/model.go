package veterinarias

import "time"

// Veterinaria es una clínica del directorio municipal.
type Veterinaria struct {
	ID string

	Nombre    string
	Direccion string
	Telefono  string
	Horario   string

	// Servicios se persiste serializado como JSON en una columna de texto.
	Servicios []string

	// Urgencias marca a las clínicas con atención 24h.
	Urgencias bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
