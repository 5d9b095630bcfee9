package tracking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"centro-adopcion/internal/platform/logger"
	"centro-adopcion/internal/platform/metrics"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

type VisitaInput struct {
	UTM       UTM
	Path      string
	IP        string
	UserAgent string
}

// RegistrarVisita atribuye la visita a una campaña activa. NUNCA devuelve
// error: la telemetría no puede afectar el flujo principal. Los fallos se
// loguean y se cuentan en metrics.TrackingFailures; el caller solo ve
// tracked true/false.
func (s *Service) RegistrarVisita(ctx context.Context, in VisitaInput) bool {
	c, err := s.repo.BuscarCampaniaActiva(ctx, in.UTM)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.fallo("buscar_campania", err)
		}
		return false
	}

	v := Visita{
		ID:         uuid.NewString(),
		CampaniaID: c.ID,
		Path:       strings.TrimSpace(in.Path),
		IP:         in.IP,
		UserAgent:  in.UserAgent,
		CreatedAt:  s.now(),
	}

	if err := s.repo.RegistrarVisita(ctx, v); err != nil {
		s.fallo("registrar_visita", err)
		return false
	}

	return true
}

func (s *Service) fallo(paso string, err error) {
	metrics.TrackingFailures.WithLabelValues("/api/track").Inc()
	s.log.Warn("tracking falló", map[string]any{
		"paso":  paso,
		"error": err.Error(),
	})
}

type CrearCampaniaInput struct {
	Nombre      string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
}

func (s *Service) CrearCampania(ctx context.Context, in CrearCampaniaInput) (Campania, error) {
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return Campania{}, ErrInvalidInput
	}

	c := Campania{
		ID:          uuid.NewString(),
		Nombre:      nombre,
		UTMSource:   strings.TrimSpace(in.UTMSource),
		UTMMedium:   strings.TrimSpace(in.UTMMedium),
		UTMCampaign: strings.TrimSpace(in.UTMCampaign),
		Activa:      true,
		CreatedAt:   s.now(),
	}

	if err := s.repo.CrearCampania(ctx, c); err != nil {
		return Campania{}, err
	}
	return c, nil
}

func (s *Service) ListCampanias(ctx context.Context) ([]Campania, error) {
	return s.repo.ListCampanias(ctx)
}
