package tracking

import "time"

// Campania es una campaña de difusión identificada por sus parámetros UTM.
type Campania struct {
	ID     string
	Nombre string

	UTMSource   string
	UTMMedium   string
	UTMCampaign string

	Activa  bool
	Visitas int

	CreatedAt time.Time
}

// Visita es el log de una visita atribuida a una campaña.
type Visita struct {
	ID         string
	CampaniaID string

	Path      string
	IP        string
	UserAgent string

	CreatedAt time.Time
}

// UTM son los parámetros de atribución que manda el cliente.
type UTM struct {
	Source   string
	Medium   string
	Campaign string
}
