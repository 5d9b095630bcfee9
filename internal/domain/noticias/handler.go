package noticias

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"centro-adopcion/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Lectura pública: solo noticias publicadas.
	r.Get("/noticias", listarNoticiasPublicasHandler(svc))

	r.Route("/admin/noticias", func(ar chi.Router) {
		ar.Get("/", listarAdminNoticiasHandler(svc))
		ar.Post("/", crearNoticiaHandler(svc))
		ar.Get("/{id}", getNoticiaHandler(svc))
		ar.Put("/{id}", actualizarNoticiaHandler(svc))
		ar.Delete("/{id}", eliminarNoticiaHandler(svc))
	})
}

type noticiaResponse struct {
	ID        string    `json:"id"`
	Titulo    string    `json:"titulo"`
	Resumen   string    `json:"resumen"`
	Contenido string    `json:"contenido"`
	Imagen    string    `json:"imagen"`
	Categoria string    `json:"categoria"`
	Publicada bool      `json:"publicada"`
	Autor     string    `json:"autor"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type listaNoticiasResponse struct {
	Noticias   []noticiaResponse `json:"noticias"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

type crearNoticiaRequest struct {
	Titulo    string `json:"titulo"`
	Resumen   string `json:"resumen"`
	Contenido string `json:"contenido"`
	Imagen    string `json:"imagen"`
	Categoria string `json:"categoria"`
	Publicada bool   `json:"publicada"`
	Autor     string `json:"autor"`
}

type actualizarNoticiaRequest struct {
	Titulo    *string `json:"titulo"`
	Resumen   *string `json:"resumen"`
	Contenido *string `json:"contenido"`
	Imagen    *string `json:"imagen"`
	Categoria *string `json:"categoria"`
	Publicada *bool   `json:"publicada"`
	Autor     *string `json:"autor"`
}

func listarNoticiasPublicasHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := svc.List(r.Context(), ListFilter{
			Categoria:      q.Get("categoria"),
			SoloPublicadas: true,
			Page:           atoiDefault(q.Get("page"), 0),
			Limit:          atoiDefault(q.Get("limit"), 0),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}
		writeJSON(w, http.StatusOK, toListaResponse(page))
	}
}

func listarAdminNoticiasHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		page, err := svc.List(r.Context(), ListFilter{
			Categoria: q.Get("categoria"),
			Page:      atoiDefault(q.Get("page"), 0),
			Limit:     atoiDefault(q.Get("limit"), 0),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}
		writeJSON(w, http.StatusOK, toListaResponse(page))
	}
}

func getNoticiaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		n, err := svc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "noticia no encontrada")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}
		writeJSON(w, http.StatusOK, toNoticiaResponse(n))
	}
}

func crearNoticiaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req crearNoticiaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}

		n, err := svc.Crear(r.Context(), CreateInput(req))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "faltan campos requeridos")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusCreated, toNoticiaResponse(n))
	}
}

func actualizarNoticiaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req actualizarNoticiaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}

		n, err := svc.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput(req))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "noticia no encontrada")
			default:
				writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			}
			return
		}

		writeJSON(w, http.StatusOK, toNoticiaResponse(n))
	}
}

func eliminarNoticiaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "noticia no encontrada")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func toNoticiaResponse(n Noticia) noticiaResponse {
	return noticiaResponse{
		ID:        n.ID,
		Titulo:    n.Titulo,
		Resumen:   n.Resumen,
		Contenido: n.Contenido,
		Imagen:    n.Imagen,
		Categoria: n.Categoria,
		Publicada: n.Publicada,
		Autor:     n.Autor,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func toListaResponse(page Page) listaNoticiasResponse {
	out := listaNoticiasResponse{
		Noticias:   make([]noticiaResponse, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(),
	}
	for _, n := range page.Items {
		out.Noticias = append(out.Noticias, toNoticiaResponse(n))
	}
	return out
}

type errorResponse struct {
	Error string `json:"error"`
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
