package comercios

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
	r.Route("/comercios", func(cr chi.Router) {
		cr.Get("/", listarComerciosHandler(svc))
		cr.Post("/", crearComercioHandler(svc))
		cr.Get("/{slug}", getComercioHandler(svc))
		cr.Post("/{slug}/track", trackComercioHandler(svc))
	})

	r.Route("/admin/comercios", func(ar chi.Router) {
		ar.Get("/", listarAdminComerciosHandler(svc))
		ar.Put("/{id}", actualizarComercioHandler(svc))
		ar.Delete("/{id}", eliminarComercioHandler(svc))
	})
}

type comercioResponse struct {
	ID                 string     `json:"id"`
	Slug               string     `json:"slug"`
	Nombre             string     `json:"nombre"`
	Categoria          string     `json:"categoria"`
	Direccion          string     `json:"direccion"`
	Telefono           string     `json:"telefono"`
	Horario            string     `json:"horario"`
	Certificado        bool       `json:"certificado"`
	FechaCertificacion *time.Time `json:"fechaCertificacion"`
	QREscaneos         int        `json:"qrEscaneos"`
	Activo             bool       `json:"activo"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

type listaComerciosResponse struct {
	Comercios  []comercioResponse `json:"comercios"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}

type crearComercioRequest struct {
	Nombre      string `json:"nombre"`
	Categoria   string `json:"categoria"`
	Direccion   string `json:"direccion"`
	Telefono    string `json:"telefono"`
	Horario     string `json:"horario"`
	Certificado bool   `json:"certificado"`
}

type actualizarComercioRequest struct {
	Nombre      *string `json:"nombre"`
	Categoria   *string `json:"categoria"`
	Direccion   *string `json:"direccion"`
	Telefono    *string `json:"telefono"`
	Horario     *string `json:"horario"`
	Certificado *bool   `json:"certificado"`
	Activo      *bool   `json:"activo"`
}

type trackRequest struct {
	Fuente string `json:"fuente"`
}

func listarComerciosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, err := svc.List(r.Context(), ListFilter{
			Search:      q.Get("search"),
			Categoria:   q.Get("categoria"),
			SoloActivos: true,
			Page:        atoiDefault(q.Get("page"), 0),
			Limit:       atoiDefault(q.Get("limit"), 0),
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}
		writeJSON(w, http.StatusOK, toListaResponse(page))
	}
}

func listarAdminComerciosHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		page, err := svc.List(r.Context(), ListFilter{
			Search:    q.Get("search"),
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

func getComercioHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "comercio no encontrado")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}
		writeJSON(w, http.StatusOK, toComercioResponse(c))
	}
}

func crearComercioHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req crearComercioRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}

		c, err := svc.Crear(r.Context(), CreateInput{
			Nombre:      req.Nombre,
			Categoria:   req.Categoria,
			Direccion:   req.Direccion,
			Telefono:    req.Telefono,
			Horario:     req.Horario,
			Certificado: req.Certificado,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "faltan campos requeridos")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusCreated, toComercioResponse(c))
	}
}

// trackComercioHandler godoc
// @Summary Registrar escaneo de QR
// @Description Incrementa el contador de escaneos del comercio y loguea un EscaneoQR, en una sola transacción.
// @Tags comercios
// @Accept json
// @Produce json
// @Param slug path string true "Slug del comercio"
// @Success 200 {object} map[string]any
// @Failure 404 {object} errorResponse
// @Router /api/comercios/{slug}/track [post]
func trackComercioHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackRequest
		// body opcional
		_ = json.NewDecoder(r.Body).Decode(&req)

		total, err := svc.Track(r.Context(), chi.URLParam(r, "slug"), TrackInput{
			Fuente:    req.Fuente,
			IP:        r.RemoteAddr,
			UserAgent: r.UserAgent(),
		})
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "comercio no encontrado")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "qrEscaneos": total})
	}
}

func actualizarComercioHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req actualizarComercioRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "id"), UpdateInput{
			Nombre:      req.Nombre,
			Categoria:   req.Categoria,
			Direccion:   req.Direccion,
			Telefono:    req.Telefono,
			Horario:     req.Horario,
			Certificado: req.Certificado,
			Activo:      req.Activo,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "comercio no encontrado")
			default:
				writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			}
			return
		}

		writeJSON(w, http.StatusOK, toComercioResponse(c))
	}
}

func eliminarComercioHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "comercio no encontrado")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func toComercioResponse(c Comercio) comercioResponse {
	return comercioResponse{
		ID:                 c.ID,
		Slug:               c.Slug,
		Nombre:             c.Nombre,
		Categoria:          c.Categoria,
		Direccion:          c.Direccion,
		Telefono:           c.Telefono,
		Horario:            c.Horario,
		Certificado:        c.Certificado,
		FechaCertificacion: c.FechaCertificacion,
		QREscaneos:         c.QREscaneos,
		Activo:             c.Activo,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

func toListaResponse(page Page) listaComerciosResponse {
	out := listaComerciosResponse{
		Comercios:  make([]comercioResponse, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(),
	}
	for _, c := range page.Items {
		out.Comercios = append(out.Comercios, toComercioResponse(c))
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
