package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"centro-adopcion/internal/domain/comercios"
)

type ComercioRepo struct {
	mu       sync.RWMutex
	byID     map[string]comercios.Comercio
	escaneos map[string][]comercios.EscaneoQR // comercioID -> escaneos
}

func NewComercioRepo() *ComercioRepo {
	return &ComercioRepo{
		byID:     make(map[string]comercios.Comercio),
		escaneos: make(map[string][]comercios.EscaneoQR),
	}
}

func (r *ComercioRepo) Crear(ctx context.Context, c comercios.Comercio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("comercio id requerido")
	}
	if _, exists := r.byID[c.ID]; exists {
		return errors.New("comercio ya existe")
	}
	r.byID[c.ID] = c
	return nil
}

func (r *ComercioRepo) GetByID(ctx context.Context, id string) (comercios.Comercio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return comercios.Comercio{}, comercios.ErrNotFound
	}
	return c, nil
}

func (r *ComercioRepo) GetBySlug(ctx context.Context, slug string) (comercios.Comercio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return comercios.Comercio{}, comercios.ErrNotFound
}

func (r *ComercioRepo) List(ctx context.Context, f comercios.ListFilter) ([]comercios.Comercio, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]comercios.Comercio, 0)
	for _, c := range r.byID {
		if !matchComercio(c, f) {
			continue
		}
		out = append(out, c)
	}

	// Certificados primero, luego certificación más reciente, luego nombre
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Certificado != b.Certificado {
			return a.Certificado
		}
		af, bf := a.FechaCertificacion, b.FechaCertificacion
		if af != nil && bf != nil && !af.Equal(*bf) {
			return af.After(*bf)
		}
		if (af != nil) != (bf != nil) {
			return af != nil
		}
		return a.Nombre < b.Nombre
	})

	total := len(out)
	return paginar(out, f.Page, f.Limit), total, nil
}

func (r *ComercioRepo) Update(ctx context.Context, c comercios.Comercio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[c.ID]; !exists {
		return comercios.ErrNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *ComercioRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return comercios.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *ComercioRepo) RegistrarEscaneo(ctx context.Context, e comercios.EscaneoQR) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.byID[e.ComercioID]
	if !ok {
		return comercios.ErrNotFound
	}
	c.QREscaneos++
	r.byID[e.ComercioID] = c
	r.escaneos[e.ComercioID] = append(r.escaneos[e.ComercioID], e)
	return nil
}

func matchComercio(c comercios.Comercio, f comercios.ListFilter) bool {
	if f.SoloActivos && !c.Activo {
		return false
	}
	if f.Categoria != "" && c.Categoria != f.Categoria {
		return false
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(c.Nombre), strings.ToLower(q)) {
			return false
		}
	}
	return true
}
