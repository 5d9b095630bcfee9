package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"centro-adopcion/internal/domain/solicitudes"
)

// SolicitudRepo guarda solicitudes y notas en memoria. Recibe el PerritoRepo
// para aplicar el cascade de adopción dentro del mismo Transition.
type SolicitudRepo struct {
	mu    sync.RWMutex
	byID  map[string]solicitudes.Solicitud
	notas map[string][]solicitudes.Nota // solicitudID -> notas

	perritos *PerritoRepo
}

func NewSolicitudRepo(perritos *PerritoRepo) *SolicitudRepo {
	return &SolicitudRepo{
		byID:     make(map[string]solicitudes.Solicitud),
		notas:    make(map[string][]solicitudes.Nota),
		perritos: perritos,
	}
}

func (r *SolicitudRepo) Crear(ctx context.Context, s solicitudes.Solicitud) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("solicitud id requerido")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("solicitud ya existe")
	}
	r.byID[s.ID] = s
	return nil
}

func (r *SolicitudRepo) GetByID(ctx context.Context, id string) (solicitudes.Solicitud, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return solicitudes.Solicitud{}, solicitudes.ErrNotFound
	}
	return s, nil
}

func (r *SolicitudRepo) List(ctx context.Context, f solicitudes.ListFilter) ([]solicitudes.Solicitud, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]solicitudes.Solicitud, 0)
	for _, s := range r.byID {
		if !matchSolicitud(s, f) {
			continue
		}
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := len(out)
	return paginar(out, f.Page, f.Limit), total, nil
}

// Transition simula la transacción: un solo lock cubre solicitud, nota y
// cascade. Si el perrito no existe no se escribe nada.
func (r *SolicitudRepo) Transition(ctx context.Context, s solicitudes.Solicitud, nota *solicitudes.Nota, adoptarPerrito bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[s.ID]; !exists {
		return solicitudes.ErrNotFound
	}

	if adoptarPerrito {
		if err := r.perritos.adoptar(s.PerritoID); err != nil {
			return err
		}
	}

	r.byID[s.ID] = s
	if nota != nil {
		r.notas[s.ID] = append(r.notas[s.ID], *nota)
	}
	return nil
}

func (r *SolicitudRepo) ListNotas(ctx context.Context, solicitudID string) ([]solicitudes.Nota, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src := r.notas[solicitudID]
	out := make([]solicitudes.Nota, len(src))
	copy(out, src)

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func matchSolicitud(s solicitudes.Solicitud, f solicitudes.ListFilter) bool {
	if f.Estado != "" && string(s.Estado) != f.Estado {
		return false
	}
	if f.FechaInicio != nil && s.CreatedAt.Before(*f.FechaInicio) {
		return false
	}
	if f.FechaFin != nil && s.CreatedAt.After(*f.FechaFin) {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		hay := strings.ToLower(s.Nombre + " " + s.Codigo + " " + s.Email)
		if !strings.Contains(hay, strings.ToLower(q)) {
			return false
		}
	}
	return true
}
