package noticias

import "time"

// Noticia es una nota informativa del centro. Solo las publicadas son
// visibles en el sitio público.
type Noticia struct {
	ID string

	Titulo    string
	Resumen   string
	Contenido string
	Imagen    string
	Categoria string

	Publicada bool
	Autor     string

	CreatedAt time.Time
	UpdatedAt time.Time
}
