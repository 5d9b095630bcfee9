package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"centro-adopcion/internal/domain/veterinarias"
)

type VeterinariaRepo struct {
	mu   sync.RWMutex
	byID map[string]veterinarias.Veterinaria
}

func NewVeterinariaRepo() *VeterinariaRepo {
	return &VeterinariaRepo{
		byID: make(map[string]veterinarias.Veterinaria),
	}
}

func (r *VeterinariaRepo) Crear(ctx context.Context, v veterinarias.Veterinaria) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(v.ID) == "" {
		return errors.New("veterinaria id requerido")
	}
	if _, exists := r.byID[v.ID]; exists {
		return errors.New("veterinaria ya existe")
	}
	r.byID[v.ID] = v
	return nil
}

func (r *VeterinariaRepo) GetByID(ctx context.Context, id string) (veterinarias.Veterinaria, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return veterinarias.Veterinaria{}, veterinarias.ErrNotFound
	}
	return v, nil
}

func (r *VeterinariaRepo) List(ctx context.Context, f veterinarias.ListFilter) ([]veterinarias.Veterinaria, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]veterinarias.Veterinaria, 0)
	for _, v := range r.byID {
		if f.Urgencias != nil && v.Urgencias != *f.Urgencias {
			continue
		}
		if q := strings.TrimSpace(f.Search); q != "" {
			if !strings.Contains(strings.ToLower(v.Nombre), strings.ToLower(q)) {
				continue
			}
		}
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Nombre < out[j].Nombre
	})

	total := len(out)
	return paginar(out, f.Page, f.Limit), total, nil
}

func (r *VeterinariaRepo) Update(ctx context.Context, v veterinarias.Veterinaria) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[v.ID]; !exists {
		return veterinarias.ErrNotFound
	}
	r.byID[v.ID] = v
	return nil
}

func (r *VeterinariaRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return veterinarias.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
