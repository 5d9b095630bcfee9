package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"centro-adopcion/internal/domain/tracking"
)

type TrackingRepo struct {
	mu        sync.RWMutex
	campanias map[string]tracking.Campania
	visitas   map[string][]tracking.Visita // campaniaID -> visitas
}

func NewTrackingRepo() *TrackingRepo {
	return &TrackingRepo{
		campanias: make(map[string]tracking.Campania),
		visitas:   make(map[string][]tracking.Visita),
	}
}

func (r *TrackingRepo) BuscarCampaniaActiva(ctx context.Context, utm tracking.UTM) (tracking.Campania, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.campanias {
		if !c.Activa {
			continue
		}
		if c.UTMSource == utm.Source && c.UTMMedium == utm.Medium && c.UTMCampaign == utm.Campaign {
			return c, nil
		}
	}
	return tracking.Campania{}, tracking.ErrNotFound
}

func (r *TrackingRepo) RegistrarVisita(ctx context.Context, v tracking.Visita) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.campanias[v.CampaniaID]
	if !ok {
		return tracking.ErrNotFound
	}
	c.Visitas++
	r.campanias[v.CampaniaID] = c
	r.visitas[v.CampaniaID] = append(r.visitas[v.CampaniaID], v)
	return nil
}

func (r *TrackingRepo) CrearCampania(ctx context.Context, c tracking.Campania) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(c.ID) == "" {
		return errors.New("campania id requerido")
	}
	if _, exists := r.campanias[c.ID]; exists {
		return errors.New("campania ya existe")
	}
	r.campanias[c.ID] = c
	return nil
}

func (r *TrackingRepo) ListCampanias(ctx context.Context) ([]tracking.Campania, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tracking.Campania, 0, len(r.campanias))
	for _, c := range r.campanias {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
