package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"centro-adopcion/internal/domain/perritos"
)

// PerritoRepo es el repo in-memory de perritos. Se exporta el tipo concreto
// porque el repo de solicitudes lo necesita para el cascade de adopción.
type PerritoRepo struct {
	mu   sync.RWMutex
	byID map[string]perritos.Perrito
}

func NewPerritoRepo() *PerritoRepo {
	return &PerritoRepo{
		byID: make(map[string]perritos.Perrito),
	}
}

func (r *PerritoRepo) Crear(ctx context.Context, p perritos.Perrito) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("perrito id requerido")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("perrito ya existe")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *PerritoRepo) GetByID(ctx context.Context, id string) (perritos.Perrito, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return perritos.Perrito{}, perritos.ErrNotFound
	}
	return p, nil
}

func (r *PerritoRepo) GetBySlug(ctx context.Context, slug string) (perritos.Perrito, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.Slug == slug {
			return p, nil
		}
	}
	return perritos.Perrito{}, perritos.ErrNotFound
}

func (r *PerritoRepo) List(ctx context.Context, f perritos.ListFilter) ([]perritos.Perrito, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]perritos.Perrito, 0)
	for _, p := range r.byID {
		if !matchPerrito(p, f) {
			continue
		}
		out = append(out, p)
	}

	// Más recientes primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := len(out)
	return paginar(out, f.Page, f.Limit), total, nil
}

func (r *PerritoRepo) Update(ctx context.Context, p perritos.Perrito) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return perritos.ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *PerritoRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return perritos.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *PerritoRepo) IncrementarVistas(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return perritos.ErrNotFound
	}
	p.Vistas++
	r.byID[id] = p
	return nil
}

func (r *PerritoRepo) Similares(ctx context.Context, ref perritos.Perrito, limit int) ([]perritos.Perrito, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]perritos.Perrito, 0)
	for _, p := range r.byID {
		if p.ID == ref.ID {
			continue
		}
		if p.Estado != perritos.EstadoDisponible {
			continue
		}
		if p.Tamanio != ref.Tamanio && p.Energia != ref.Energia {
			continue
		}
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// adoptar se usa desde el repo de solicitudes, ya bajo su propio lock de
// transacción simulada.
func (r *PerritoRepo) adoptar(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return perritos.ErrNotFound
	}
	p.Estado = perritos.EstadoAdoptado
	r.byID[id] = p
	return nil
}

func matchPerrito(p perritos.Perrito, f perritos.ListFilter) bool {
	if f.Estado != "" && string(p.Estado) != f.Estado {
		return false
	}
	if f.Tamanio != "" && string(p.Tamanio) != f.Tamanio {
		return false
	}
	if f.Energia != "" && string(p.Energia) != f.Energia {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		hay := strings.ToLower(p.Nombre + " " + p.Raza)
		if !strings.Contains(hay, strings.ToLower(q)) {
			return false
		}
	}
	return true
}

// paginar corta la página pedida; page/limit ya vienen normalizados por el
// service.
func paginar[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
