package tracking

import (
	"context"
	"errors"
	"testing"
)

type testRepo struct {
	campanias map[string]Campania
	visitas   []Visita

	fallarBuscar    error
	fallarRegistrar error
}

func newTestRepo() *testRepo {
	return &testRepo{campanias: map[string]Campania{}}
}

func (r *testRepo) BuscarCampaniaActiva(ctx context.Context, utm UTM) (Campania, error) {
	if r.fallarBuscar != nil {
		return Campania{}, r.fallarBuscar
	}
	for _, c := range r.campanias {
		if c.Activa && c.UTMSource == utm.Source && c.UTMMedium == utm.Medium && c.UTMCampaign == utm.Campaign {
			return c, nil
		}
	}
	return Campania{}, ErrNotFound
}

func (r *testRepo) RegistrarVisita(ctx context.Context, v Visita) error {
	if r.fallarRegistrar != nil {
		return r.fallarRegistrar
	}
	r.visitas = append(r.visitas, v)
	return nil
}

func (r *testRepo) CrearCampania(ctx context.Context, c Campania) error {
	r.campanias[c.ID] = c
	return nil
}

func (r *testRepo) ListCampanias(ctx context.Context) ([]Campania, error) {
	out := make([]Campania, 0, len(r.campanias))
	for _, c := range r.campanias {
		out = append(out, c)
	}
	return out, nil
}

func TestRegistrarVisita_AtribuyeACampaniaActiva(t *testing.T) {
	repo := newTestRepo()
	repo.campanias["c1"] = Campania{
		ID:          "c1",
		UTMSource:   "facebook",
		UTMMedium:   "social",
		UTMCampaign: "adopta",
		Activa:      true,
	}
	svc := NewService(repo, nil)

	tracked := svc.RegistrarVisita(context.Background(), VisitaInput{
		UTM:  UTM{Source: "facebook", Medium: "social", Campaign: "adopta"},
		Path: "/perritos",
	})
	if !tracked {
		t.Fatalf("expected tracked=true")
	}
	if len(repo.visitas) != 1 || repo.visitas[0].CampaniaID != "c1" {
		t.Fatalf("visita mal registrada: %+v", repo.visitas)
	}
}

func TestRegistrarVisita_SinCampaniaEsNoOp(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	tracked := svc.RegistrarVisita(context.Background(), VisitaInput{
		UTM: UTM{Source: "twitter"},
	})
	if tracked {
		t.Fatalf("expected tracked=false sin campaña")
	}
	if len(repo.visitas) != 0 {
		t.Fatalf("no debería registrar visitas")
	}
}

func TestRegistrarVisita_NuncaDevuelveError(t *testing.T) {
	// fallo al buscar
	repo := newTestRepo()
	repo.fallarBuscar = errors.New("db caída")
	svc := NewService(repo, nil)

	if tracked := svc.RegistrarVisita(context.Background(), VisitaInput{}); tracked {
		t.Fatalf("expected tracked=false con repo roto")
	}

	// fallo al registrar, con campaña matcheada
	repo = newTestRepo()
	repo.campanias["c1"] = Campania{ID: "c1", Activa: true}
	repo.fallarRegistrar = errors.New("db caída")
	svc = NewService(repo, nil)

	if tracked := svc.RegistrarVisita(context.Background(), VisitaInput{}); tracked {
		t.Fatalf("expected tracked=false si falla el insert")
	}
}

func TestCrearCampania_Valida(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo, nil)

	c, err := svc.CrearCampania(context.Background(), CrearCampaniaInput{
		Nombre:    "Adopta 2025",
		UTMSource: "facebook",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Activa {
		t.Fatalf("expected campaña activa al crearla")
	}

	if _, err := svc.CrearCampania(context.Background(), CrearCampaniaInput{Nombre: "  "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput sin nombre, got %v", err)
	}
}
