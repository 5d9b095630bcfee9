package solicitudes

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	PerritoID string
	Nombre    string
	Telefono  string
	Email     string
	Direccion string
	Motivo    string
}

// Crear registra una solicitud pública en estado pending.
// La existencia del perrito la valida el handler (composición entre módulos,
// igual que el resto de cross-checks).
func (s *Service) Crear(ctx context.Context, in CreateInput) (Solicitud, error) {
	perritoID := strings.TrimSpace(in.PerritoID)
	nombre := strings.TrimSpace(in.Nombre)
	telefono := strings.TrimSpace(in.Telefono)
	email := strings.TrimSpace(in.Email)

	if perritoID == "" || nombre == "" || telefono == "" || email == "" {
		return Solicitud{}, ErrInvalidInput
	}

	now := s.now()
	sol := Solicitud{
		ID:        uuid.NewString(),
		Codigo:    nuevoCodigo(),
		PerritoID: perritoID,
		Nombre:    nombre,
		Telefono:  telefono,
		Email:     email,
		Direccion: strings.TrimSpace(in.Direccion),
		Motivo:    strings.TrimSpace(in.Motivo),
		Estado:    EstadoPendiente,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Crear(ctx, sol); err != nil {
		return Solicitud{}, err
	}
	return sol, nil
}

// Get devuelve la solicitud con sus notas (más recientes primero).
func (s *Service) Get(ctx context.Context, id string) (Solicitud, []Nota, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Solicitud{}, nil, ErrNotFound
	}

	sol, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Solicitud{}, nil, err
	}

	notas, err := s.repo.ListNotas(ctx, id)
	if err != nil {
		return Solicitud{}, nil, err
	}

	return sol, notas, nil
}

type TransitionInput struct {
	// Punteros: nil = no tocar.
	Estado        *string
	MotivoRechazo *string
	Nota          *string
}

// TransitionResult indica además si la transición adoptó al perrito, para
// que el handler refresque el resumen.
type TransitionResult struct {
	Solicitud       Solicitud
	PerritoAdoptado bool
}

// Transition aplica el cambio de estado de la solicitud. Si el estado
// resultante es approved, el perrito vinculado pasa a adopted en la misma
// transacción (lo garantiza el repo). Si viene nota, se agrega como nota
// interna de Admin dentro de esa transacción.
func (s *Service) Transition(ctx context.Context, id string, in TransitionInput) (TransitionResult, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return TransitionResult{}, ErrNotFound
	}

	sol, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return TransitionResult{}, err
	}

	if in.Estado != nil {
		est, err := ParseEstado(*in.Estado)
		if err != nil {
			return TransitionResult{}, err
		}
		sol.Estado = est
	}
	if in.MotivoRechazo != nil {
		motivo := strings.TrimSpace(*in.MotivoRechazo)
		sol.MotivoRechazo = &motivo
	}

	now := s.now()
	sol.UpdatedAt = now

	var nota *Nota
	if in.Nota != nil && strings.TrimSpace(*in.Nota) != "" {
		nota = &Nota{
			ID:          uuid.NewString(),
			SolicitudID: sol.ID,
			Autor:       "Admin",
			Contenido:   strings.TrimSpace(*in.Nota),
			Tipo:        TipoNotaInterna,
			CreatedAt:   now,
		}
	}

	adoptar := sol.Estado == EstadoAprobada

	if err := s.repo.Transition(ctx, sol, nota, adoptar); err != nil {
		return TransitionResult{}, err
	}

	return TransitionResult{Solicitud: sol, PerritoAdoptado: adoptar}, nil
}

type Page struct {
	Items []Solicitud
	Total int
	Page  int
	Limit int
}

func (p Page) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

// List normaliza paginación y la precedencia de filtros de fecha:
// rango explícito (fechaInicio+fechaFin) gana sobre el atajo dias.
func (s *Service) List(ctx context.Context, f ListFilter) (Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}

	if f.FechaInicio != nil || f.FechaFin != nil {
		f.Dias = 0
	}
	if f.Dias > 0 {
		desde := s.now().AddDate(0, 0, -f.Dias)
		f.FechaInicio = &desde
		f.Dias = 0
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page{}, err
	}

	return Page{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

// ParseEstado valida contra el set cerrado pending/approved/rejected.
func ParseEstado(v string) (Estado, error) {
	switch e := Estado(strings.TrimSpace(v)); e {
	case EstadoPendiente, EstadoAprobada, EstadoRechazada:
		return e, nil
	default:
		return "", ErrInvalidInput
	}
}

// nuevoCodigo genera el código humano de la solicitud (SOL-XXXXXXXX).
func nuevoCodigo() string {
	return "SOL-" + strings.ToUpper(uuid.NewString()[:8])
}
