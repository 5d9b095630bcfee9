package perritos

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
	// Catálogo público
	r.Route("/perritos", func(pr chi.Router) {
		pr.Get("/", listarPerritosHandler(svc))
		pr.Get("/{slug}", detallePerritoHandler(svc))
	})

	// Back office (requiere sesión admin)
	r.Route("/admin/perritos", func(ar chi.Router) {
		ar.Get("/", listarAdminPerritosHandler(svc))
		ar.Post("/", crearPerritoHandler(svc))
		ar.Put("/{id}", actualizarPerritoHandler(svc))
		ar.Delete("/{id}", eliminarPerritoHandler(svc))
	})
}

type perritoResponse struct {
	ID           string    `json:"id"`
	Slug         string    `json:"slug"`
	Nombre       string    `json:"nombre"`
	Raza         string    `json:"raza"`
	Edad         string    `json:"edad"`
	Sexo         string    `json:"sexo"`
	Tamanio      Tamanio   `json:"tamanio"`
	Energia      Energia   `json:"energia"`
	Estado       Estado    `json:"estado"`
	Fotos        []string  `json:"fotos"`
	Vistas       int       `json:"vistas"`
	Historia     string    `json:"historia"`
	FechaIngreso time.Time `json:"fechaIngreso"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type listaPerritosResponse struct {
	Perritos   []perritoResponse `json:"perritos"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"totalPages"`
}

type detallePerritoResponse struct {
	Perrito   perritoResponse   `json:"perrito"`
	Similares []perritoResponse `json:"similares"`
}

type crearPerritoRequest struct {
	Nombre       string   `json:"nombre"`
	Raza         string   `json:"raza"`
	Edad         string   `json:"edad"`
	Sexo         string   `json:"sexo"`
	Tamanio      string   `json:"tamanio"`
	Energia      string   `json:"energia"`
	Fotos        []string `json:"fotos"`
	Historia     string   `json:"historia"`
	FechaIngreso string   `json:"fechaIngreso"` // YYYY-MM-DD opcional
}

type actualizarPerritoRequest struct {
	// Punteros para update parcial: nil = no tocar.
	Nombre   *string   `json:"nombre"`
	Raza     *string   `json:"raza"`
	Edad     *string   `json:"edad"`
	Sexo     *string   `json:"sexo"`
	Tamanio  *string   `json:"tamanio"`
	Energia  *string   `json:"energia"`
	Estado   *string   `json:"estado"`
	Fotos    *[]string `json:"fotos"`
	Historia *string   `json:"historia"`
}

func listarPerritosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := ListFilter{
			Search:  q.Get("search"),
			Tamanio: q.Get("tamanio"),
			Energia: q.Get("energia"),
			Estado:  q.Get("estado"),
			Page:    atoiDefault(q.Get("page"), 0),
			Limit:   atoiDefault(q.Get("limit"), 0),
		}
		// El catálogo público muestra disponibles salvo filtro explícito.
		if f.Estado == "" {
			f.Estado = string(EstadoDisponible)
		}

		page, err := svc.List(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusOK, toListaResponse(page))
	}
}

// detallePerritoHandler godoc
// @Summary Detalle de perrito
// @Description Devuelve el perfil del perrito por slug más hasta 3 similares (mismo tamaño o energía, disponibles). Incrementa el contador de vistas como efecto del read.
// @Tags perritos
// @Produce json
// @Param slug path string true "Slug del perrito"
// @Success 200 {object} detallePerritoResponse
// @Failure 404 {object} errorResponse
// @Router /api/perritos/{slug} [get]
func detallePerritoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, similares, err := svc.Detalle(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "perrito no encontrado")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		out := detallePerritoResponse{
			Perrito:   toPerritoResponse(p),
			Similares: make([]perritoResponse, 0, len(similares)),
		}
		for _, s := range similares {
			out.Similares = append(out.Similares, toPerritoResponse(s))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func listarAdminPerritosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		f := ListFilter{
			Search:  q.Get("search"),
			Tamanio: q.Get("tamanio"),
			Energia: q.Get("energia"),
			Estado:  q.Get("estado"), // admin ve todos los estados por default
			Page:    atoiDefault(q.Get("page"), 0),
			Limit:   atoiDefault(q.Get("limit"), 0),
		}

		page, err := svc.List(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusOK, toListaResponse(page))
	}
}

func crearPerritoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req crearPerritoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}

		var ingreso *time.Time
		if req.FechaIngreso != "" {
			t, err := time.Parse("2006-01-02", req.FechaIngreso)
			if err != nil {
				writeError(w, http.StatusBadRequest, "fechaIngreso debe ser YYYY-MM-DD")
				return
			}
			ingreso = &t
		}

		p, err := svc.Crear(r.Context(), CreateInput{
			Nombre:       req.Nombre,
			Raza:         req.Raza,
			Edad:         req.Edad,
			Sexo:         req.Sexo,
			Tamanio:      req.Tamanio,
			Energia:      req.Energia,
			Fotos:        req.Fotos,
			Historia:     req.Historia,
			FechaIngreso: ingreso,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusCreated, toPerritoResponse(p))
	}
}

func actualizarPerritoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req actualizarPerritoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
			Nombre:   req.Nombre,
			Raza:     req.Raza,
			Edad:     req.Edad,
			Sexo:     req.Sexo,
			Tamanio:  req.Tamanio,
			Energia:  req.Energia,
			Estado:   req.Estado,
			Fotos:    req.Fotos,
			Historia: req.Historia,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "perrito no encontrado")
			default:
				writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			}
			return
		}

		writeJSON(w, http.StatusOK, toPerritoResponse(p))
	}
}

func eliminarPerritoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "perrito no encontrado")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func toPerritoResponse(p Perrito) perritoResponse {
	fotos := p.Fotos
	if fotos == nil {
		fotos = []string{}
	}
	return perritoResponse{
		ID:           p.ID,
		Slug:         p.Slug,
		Nombre:       p.Nombre,
		Raza:         p.Raza,
		Edad:         p.Edad,
		Sexo:         p.Sexo,
		Tamanio:      p.Tamanio,
		Energia:      p.Energia,
		Estado:       p.Estado,
		Fotos:        fotos,
		Vistas:       p.Vistas,
		Historia:     p.Historia,
		FechaIngreso: p.FechaIngreso,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toListaResponse(page Page) listaPerritosResponse {
	out := listaPerritosResponse{
		Perritos:   make([]perritoResponse, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(),
	}
	for _, p := range page.Items {
		out.Perritos = append(out.Perritos, toPerritoResponse(p))
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

// writeJSON/writeError están duplicados a propósito en los handlers de cada
// módulo para no crear helpers compartidos antes de tiempo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
