package solicitudes

import "time"

// Estado define el ciclo de vida de una solicitud.
// El set es cerrado: valores fuera de éste se rechazan con 400.
// @Enum pending, approved, rejected
type Estado string

const (
	EstadoPendiente Estado = "pending"
	EstadoAprobada  Estado = "approved"
	EstadoRechazada Estado = "rejected"
)

// Solicitud representa la postulación de un adoptante para un perrito.
// pending es el estado inicial; approved y rejected son terminales, aunque
// una re-transición desde terminal no se bloquea.
type Solicitud struct {
	ID     string
	Codigo string

	PerritoID string

	Nombre    string
	Telefono  string
	Email     string
	Direccion string
	Motivo    string

	Estado        Estado
	MotivoRechazo *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

const TipoNotaInterna = "interna"

// Nota es el registro de auditoría de una solicitud. Append-only.
type Nota struct {
	ID          string
	SolicitudID string

	Autor     string
	Contenido string
	Tipo      string

	CreatedAt time.Time
}
