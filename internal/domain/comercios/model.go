package comercios

import "time"

// Comercio representa un negocio pet-friendly del directorio.
type Comercio struct {
	ID   string
	Slug string

	Nombre    string
	Categoria string
	Direccion string
	Telefono  string
	Horario   string

	// Certificado marca a los comercios con certificación municipal; el
	// listado los ordena primero.
	Certificado        bool
	FechaCertificacion *time.Time

	// QREscaneos se incrementa junto con el alta de cada EscaneoQR.
	QREscaneos int

	Activo bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EscaneoQR es el log de cada visita/escaneo de QR de un comercio.
type EscaneoQR struct {
	ID         string
	ComercioID string

	Fuente    string
	IP        string
	UserAgent string

	CreatedAt time.Time
}
