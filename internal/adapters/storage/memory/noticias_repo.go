package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"centro-adopcion/internal/domain/noticias"
)

type NoticiaRepo struct {
	mu   sync.RWMutex
	byID map[string]noticias.Noticia
}

func NewNoticiaRepo() *NoticiaRepo {
	return &NoticiaRepo{
		byID: make(map[string]noticias.Noticia),
	}
}

func (r *NoticiaRepo) Crear(ctx context.Context, n noticias.Noticia) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(n.ID) == "" {
		return errors.New("noticia id requerido")
	}
	if _, exists := r.byID[n.ID]; exists {
		return errors.New("noticia ya existe")
	}
	r.byID[n.ID] = n
	return nil
}

func (r *NoticiaRepo) GetByID(ctx context.Context, id string) (noticias.Noticia, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.byID[id]
	if !ok {
		return noticias.Noticia{}, noticias.ErrNotFound
	}
	return n, nil
}

func (r *NoticiaRepo) List(ctx context.Context, f noticias.ListFilter) ([]noticias.Noticia, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]noticias.Noticia, 0)
	for _, n := range r.byID {
		if f.SoloPublicadas && !n.Publicada {
			continue
		}
		if f.Categoria != "" && n.Categoria != f.Categoria {
			continue
		}
		out = append(out, n)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := len(out)
	return paginar(out, f.Page, f.Limit), total, nil
}

func (r *NoticiaRepo) Update(ctx context.Context, n noticias.Noticia) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[n.ID]; !exists {
		return noticias.ErrNotFound
	}
	r.byID[n.ID] = n
	return nil
}

func (r *NoticiaRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return noticias.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
