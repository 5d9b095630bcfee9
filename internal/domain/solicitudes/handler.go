package solicitudes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"centro-adopcion/internal/domain/perritos"
	"centro-adopcion/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta las rutas del módulo. publicLimiter (opcional) se
// aplica solo al POST público de alta de solicitudes.
func RegisterRoutes(r chi.Router, svc *Service, perritosSvc *perritos.Service, publicLimiter func(http.Handler) http.Handler) {
	r.Route("/solicitudes", func(sr chi.Router) {
		if publicLimiter != nil {
			sr.With(publicLimiter).Post("/", crearSolicitudHandler(svc, perritosSvc))
		} else {
			sr.Post("/", crearSolicitudHandler(svc, perritosSvc))
		}

		sr.Get("/{id}", getSolicitudHandler(svc, perritosSvc))
		sr.Patch("/{id}", transitionSolicitudHandler(svc, perritosSvc))
	})

	r.Get("/admin/solicitudes", listarSolicitudesHandler(svc))
}

type crearSolicitudRequest struct {
	PerritoID string `json:"perritoId"`
	Nombre    string `json:"nombre"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
	Direccion string `json:"direccion"`
	Motivo    string `json:"motivo"`
}

type transitionRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Estado        *string `json:"estado"`
	MotivoRechazo *string `json:"motivoRechazo"`
	Notas         *string `json:"notas"`
}

type perritoResumen struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Nombre  string `json:"nombre"`
	Raza    string `json:"raza"`
	Tamanio string `json:"tamanio"`
	Estado  string `json:"estado"`
}

type notaResponse struct {
	ID        string    `json:"id"`
	Autor     string    `json:"autor"`
	Contenido string    `json:"contenido"`
	Tipo      string    `json:"tipo"`
	CreatedAt time.Time `json:"createdAt"`
}

type solicitudResponse struct {
	ID            string          `json:"id"`
	Codigo        string          `json:"codigo"`
	PerritoID     string          `json:"perritoId"`
	Nombre        string          `json:"nombre"`
	Telefono      string          `json:"telefono"`
	Email         string          `json:"email"`
	Direccion     string          `json:"direccion"`
	Motivo        string          `json:"motivo"`
	Estado        Estado          `json:"estado"`
	MotivoRechazo *string         `json:"motivoRechazo"`
	Perrito       *perritoResumen `json:"perrito,omitempty"`
	Notas         []notaResponse  `json:"notas,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type listaSolicitudesResponse struct {
	Solicitudes []solicitudResponse `json:"solicitudes"`
	Total       int                 `json:"total"`
	Page        int                 `json:"page"`
	Limit       int                 `json:"limit"`
	TotalPages  int                 `json:"totalPages"`
}

// crearSolicitudHandler godoc
// @Summary Crear solicitud de adopción
// @Description Alta pública de una solicitud para un perrito. Queda en estado pending.
// @Tags solicitudes
// @Accept json
// @Produce json
// @Param payload body crearSolicitudRequest true "Datos del solicitante"
// @Success 201 {object} solicitudResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse "perrito no encontrado"
// @Router /api/solicitudes [post]
func crearSolicitudHandler(svc *Service, perritosSvc *perritos.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req crearSolicitudRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}

		// El perrito tiene que existir antes de crear la solicitud.
		p, err := perritosSvc.GetByID(r.Context(), req.PerritoID)
		if err != nil {
			writeError(w, http.StatusNotFound, "perrito no encontrado")
			return
		}

		sol, err := svc.Crear(r.Context(), CreateInput{
			PerritoID: p.ID,
			Nombre:    req.Nombre,
			Telefono:  req.Telefono,
			Email:     req.Email,
			Direccion: req.Direccion,
			Motivo:    req.Motivo,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				writeError(w, http.StatusBadRequest, "faltan campos requeridos")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		out := toSolicitudResponse(sol)
		out.Perrito = toResumen(p)
		writeJSON(w, http.StatusCreated, out)
	}
}

// getSolicitudHandler godoc
// @Summary Detalle de solicitud
// @Description Devuelve la solicitud con el resumen del perrito y sus notas (más recientes primero). Requiere sesión admin.
// @Tags solicitudes
// @Produce json
// @Param id path string true "ID de la solicitud"
// @Success 200 {object} solicitudResponse
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/solicitudes/{id} [get]
func getSolicitudHandler(svc *Service, perritosSvc *perritos.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		sol, notas, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, "solicitud no encontrada")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		out := toSolicitudResponse(sol)
		out.Notas = make([]notaResponse, 0, len(notas))
		for _, n := range notas {
			out.Notas = append(out.Notas, toNotaResponse(n))
		}

		// El resumen del perrito es best-effort: una solicitud vieja puede
		// apuntar a un perrito ya borrado.
		if p, err := perritosSvc.GetByID(r.Context(), sol.PerritoID); err == nil {
			out.Perrito = toResumen(p)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// transitionSolicitudHandler godoc
// @Summary Transicionar solicitud
// @Description Cambia estado y/o motivo de rechazo, y agrega una nota interna opcional. estado=approved pasa el perrito vinculado a adopted en la misma transacción. Requiere sesión admin.
// @Tags solicitudes
// @Accept json
// @Produce json
// @Param id path string true "ID de la solicitud"
// @Param payload body transitionRequest true "Campos a cambiar; los omitidos no se tocan"
// @Success 200 {object} solicitudResponse
// @Failure 400 {object} errorResponse "estado fuera de pending/approved/rejected"
// @Failure 401 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /api/solicitudes/{id} [patch]
func transitionSolicitudHandler(svc *Service, perritosSvc *perritos.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}

		res, err := svc.Transition(r.Context(), chi.URLParam(r, "id"), TransitionInput{
			Estado:        req.Estado,
			MotivoRechazo: req.MotivoRechazo,
			Nota:          req.Notas,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeError(w, http.StatusBadRequest, "estado inválido")
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, "solicitud no encontrada")
			default:
				writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			}
			return
		}

		out := toSolicitudResponse(res.Solicitud)
		if p, err := perritosSvc.GetByID(r.Context(), res.Solicitud.PerritoID); err == nil {
			out.Perrito = toResumen(p)
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// listarSolicitudesHandler godoc
// @Summary Listar solicitudes (admin)
// @Description Filtros: search (nombre/código/email), estado, dias, fechaInicio/fechaFin (el rango gana sobre dias), page/limit. Requiere sesión admin.
// @Tags solicitudes
// @Produce json
// @Param search query string false "Texto libre"
// @Param estado query string false "pending|approved|rejected"
// @Param dias query int false "Últimos N días"
// @Param fechaInicio query string false "YYYY-MM-DD"
// @Param fechaFin query string false "YYYY-MM-DD"
// @Param page query int false "Default 1"
// @Param limit query int false "Default 10, máximo 100"
// @Success 200 {object} listaSolicitudesResponse
// @Failure 401 {object} errorResponse
// @Router /api/admin/solicitudes [get]
func listarSolicitudesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		q := r.URL.Query()
		f := ListFilter{
			Search: q.Get("search"),
			Estado: q.Get("estado"),
			Dias:   atoiDefault(q.Get("dias"), 0),
			Page:   atoiDefault(q.Get("page"), 0),
			Limit:  atoiDefault(q.Get("limit"), 0),
		}

		if v := q.Get("fechaInicio"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "fechaInicio debe ser YYYY-MM-DD")
				return
			}
			f.FechaInicio = &t
		}
		if v := q.Get("fechaFin"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "fechaFin debe ser YYYY-MM-DD")
				return
			}
			// fin de día, para que el rango sea inclusivo
			t = t.Add(24*time.Hour - time.Nanosecond)
			f.FechaFin = &t
		}

		page, err := svc.List(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		out := listaSolicitudesResponse{
			Solicitudes: make([]solicitudResponse, 0, len(page.Items)),
			Total:       page.Total,
			Page:        page.Page,
			Limit:       page.Limit,
			TotalPages:  page.TotalPages(),
		}
		for _, sol := range page.Items {
			out.Solicitudes = append(out.Solicitudes, toSolicitudResponse(sol))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toSolicitudResponse(s Solicitud) solicitudResponse {
	return solicitudResponse{
		ID:            s.ID,
		Codigo:        s.Codigo,
		PerritoID:     s.PerritoID,
		Nombre:        s.Nombre,
		Telefono:      s.Telefono,
		Email:         s.Email,
		Direccion:     s.Direccion,
		Motivo:        s.Motivo,
		Estado:        s.Estado,
		MotivoRechazo: s.MotivoRechazo,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toNotaResponse(n Nota) notaResponse {
	return notaResponse{
		ID:        n.ID,
		Autor:     n.Autor,
		Contenido: n.Contenido,
		Tipo:      n.Tipo,
		CreatedAt: n.CreatedAt,
	}
}

func toResumen(p perritos.Perrito) *perritoResumen {
	return &perritoResumen{
		ID:      p.ID,
		Slug:    p.Slug,
		Nombre:  p.Nombre,
		Raza:    p.Raza,
		Tamanio: string(p.Tamanio),
		Estado:  string(p.Estado),
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

// writeJSON/writeError duplicados a propósito por módulo (ver perritos).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
