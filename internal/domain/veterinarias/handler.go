package veterinarias

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
	r.Get("/veterinarias", listarVeterinariasHandler(svc))

	r.Route("/admin/veterinarias", func(ar chi.Router) {
		ar.Post("/", crearVeterinariaHandler(svc))
		ar.Put("/{id}", actualizarVeterinariaHandler(svc))
		ar.Delete("/{id}", eliminarVeterinariaHandler(svc))
	})
}

type veterinariaResponse struct {
	ID        string    `json:"id"`
	Nombre    string    `json:"nombre"`
	Direccion string    `json:"direccion"`
	Telefono  string    `json:"telefono"`
	Horario   string    `json:"horario"`
	Servicios []string  `json:"servicios"`
	Urgencias bool      `json:"urgencias"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type listaVeterinariasResponse struct {
	Veterinarias []veterinariaResponse `json:"veterinarias"`
	Total        int                   `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
	TotalPages   int                   `json:"totalPages"`
}

type crearVeterinariaRequest struct {
	Nombre    string   `json:"nombre"`
	Direccion string   `json:"direccion"`
	Telefono  string   `json:"telefono"`
	Horario   string   `json:"horario"`
	Servicios []string `json:"servicios"`
	Urgencias bool     `json:"urgencias"`
}

type actualizarVeterinariaRequest struct {
	Nombre    *string   `json:"nombre"`
	Direccion *string   `json:"direccion"`
	Telefono  *string   `json:"telefono"`
	Horario   *string   `json:"horario"`
	Servicios *[]string `json:"servicios"`
	Urgencias *bool     `json:"urgencias"`
}

func listarVeterinariasHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		f := ListFilter{
			Search: q.Get("search"),
			Page:   atoiDefault(q.Get("page"), 0),
			Limit:  atoiDefault(q.Get("limit"), 0),
		}
		if v := q.Get("urgencias"); v != "" {
			b := v == "true" || v == "1"
			f.Urgencias = &b
		}

		page, err := svc.List(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		out := listaVeterinariasResponse{
			Veterinarias: make([]veterinariaResponse, 0, len(page.Items)),
			Total:        page.Total,
			Page:         page.Page,
			Limit:        page.Limit,
			TotalPages:   page.TotalPages(),
		}
		for _, v := range page.Items {
			out.Veterinarias = append(out.Veterinarias, toVeterinariaResponse(v))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func crearVeterinariaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req crearVeterinariaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}

		v, err := svc.Crear(r.Context(), CreateInput(req))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "faltan campos requeridos")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusCreated, toVeterinariaResponse(v))
	}
}

func actualizarVeterinariaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req actualizarVeterinariaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}

		v, err := svc.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput(req))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "veterinaria no encontrada")
			default:
				writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			}
			return
		}

		writeJSON(w, http.StatusOK, toVeterinariaResponse(v))
	}
}

func eliminarVeterinariaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "veterinaria no encontrada")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func toVeterinariaResponse(v Veterinaria) veterinariaResponse {
	servicios := v.Servicios
	if servicios == nil {
		servicios = []string{}
	}
	return veterinariaResponse{
		ID:        v.ID,
		Nombre:    v.Nombre,
		Direccion: v.Direccion,
		Telefono:  v.Telefono,
		Horario:   v.Horario,
		Servicios: servicios,
		Urgencias: v.Urgencias,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
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
