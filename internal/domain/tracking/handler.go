package tracking

import (
	"encoding/json"
	"net/http"
	"time"

	"centro-adopcion/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/track", trackVisitaHandler(svc))

	r.Route("/admin/campanias", func(ar chi.Router) {
		ar.Get("/", listarCampaniasHandler(svc))
		ar.Post("/", crearCampaniaHandler(svc))
	})
}

type trackVisitaRequest struct {
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
	Path        string `json:"path"`
}

type campaniaResponse struct {
	ID          string    `json:"id"`
	Nombre      string    `json:"nombre"`
	UTMSource   string    `json:"utm_source"`
	UTMMedium   string    `json:"utm_medium"`
	UTMCampaign string    `json:"utm_campaign"`
	Activa      bool      `json:"activa"`
	Visitas     int       `json:"visitas"`
	CreatedAt   time.Time `json:"createdAt"`
}

// trackVisitaHandler godoc
// @Summary Registrar visita de campaña
// @Description Atribuye la visita a una campaña activa por parámetros UTM. Nunca falla hacia el caller: sin campaña o con error interno responde {tracked:false}.
// @Tags tracking
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/track [post]
func trackVisitaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req trackVisitaRequest
		// body inválido => tracked:false, nunca 4xx/5xx
		_ = json.NewDecoder(r.Body).Decode(&req)

		tracked := svc.RegistrarVisita(r.Context(), VisitaInput{
			UTM: UTM{
				Source:   req.UTMSource,
				Medium:   req.UTMMedium,
				Campaign: req.UTMCampaign,
			},
			Path:      req.Path,
			IP:        r.RemoteAddr,
			UserAgent: r.UserAgent(),
		})

		writeJSON(w, http.StatusOK, map[string]bool{"tracked": tracked})
	}
}

func listarCampaniasHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		items, err := svc.ListCampanias(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		out := make([]campaniaResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toCampaniaResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func crearCampaniaHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !middleware.EsAdmin(r.Context()) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var req struct {
			Nombre      string `json:"nombre"`
			UTMSource   string `json:"utm_source"`
			UTMMedium   string `json:"utm_medium"`
			UTMCampaign string `json:"utm_campaign"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "json inválido")
			return
		}

		c, err := svc.CrearCampania(r.Context(), CrearCampaniaInput{
			Nombre:      req.Nombre,
			UTMSource:   req.UTMSource,
			UTMMedium:   req.UTMMedium,
			UTMCampaign: req.UTMCampaign,
		})
		if err != nil {
			if err == ErrInvalidInput {
				writeError(w, http.StatusBadRequest, "faltan campos requeridos")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error interno del servidor")
			return
		}

		writeJSON(w, http.StatusCreated, toCampaniaResponse(c))
	}
}

func toCampaniaResponse(c Campania) campaniaResponse {
	return campaniaResponse{
		ID:          c.ID,
		Nombre:      c.Nombre,
		UTMSource:   c.UTMSource,
		UTMMedium:   c.UTMMedium,
		UTMCampaign: c.UTMCampaign,
		Activa:      c.Activa,
		Visitas:     c.Visitas,
		CreatedAt:   c.CreatedAt,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
