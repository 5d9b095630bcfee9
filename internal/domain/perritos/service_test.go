package perritos

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Perrito

	vistasCalls  int
	fallarVistas bool
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Perrito{}}
}

func (r *testRepo) Crear(ctx context.Context, p Perrito) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Perrito, error) {
	p, ok := r.byID[id]
	if !ok {
		return Perrito{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) GetBySlug(ctx context.Context, slug string) (Perrito, error) {
	for _, p := range r.byID {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Perrito{}, ErrNotFound
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Perrito, int, error) {
	out := make([]Perrito, 0)
	for _, p := range r.byID {
		if f.Estado != "" && string(p.Estado) != f.Estado {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *testRepo) Update(ctx context.Context, p Perrito) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) IncrementarVistas(ctx context.Context, id string) error {
	r.vistasCalls++
	if r.fallarVistas {
		return errors.New("repo: vistas falló")
	}
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.Vistas++
	r.byID[id] = p
	return nil
}

func (r *testRepo) Similares(ctx context.Context, ref Perrito, limit int) ([]Perrito, error) {
	out := make([]Perrito, 0)
	for _, p := range r.byID {
		if p.ID == ref.ID || p.Estado != EstadoDisponible {
			continue
		}
		if p.Tamanio != ref.Tamanio && p.Energia != ref.Energia {
			continue
		}
		if len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

// -------------------------
// Tests
// -------------------------

func TestCrear_DefaultsYSlug(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	p, err := svc.Crear(context.Background(), CreateInput{Nombre: "  Doña Canela  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Estado != EstadoDisponible {
		t.Fatalf("expected estado available, got %q", p.Estado)
	}
	if p.Slug != "dona-canela" {
		t.Fatalf("expected slug dona-canela, got %q", p.Slug)
	}
	if p.Tamanio != TamanioMediano || p.Energia != EnergiaMedia {
		t.Fatalf("expected defaults mediano/media, got %q/%q", p.Tamanio, p.Energia)
	}
	if !p.FechaIngreso.Equal(fixedNow()) {
		t.Fatalf("expected fechaIngreso = now, got %v", p.FechaIngreso)
	}
	if _, ok := repo.byID[p.ID]; !ok {
		t.Fatalf("perrito no quedó persistido")
	}
}

func TestCrear_Invalido(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, err := svc.Crear(context.Background(), CreateInput{Nombre: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput sin nombre, got %v", err)
	}
	if _, err := svc.Crear(context.Background(), CreateInput{Nombre: "Toby", Tamanio: "gigante"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput tamanio desconocido, got %v", err)
	}
	if _, err := svc.Crear(context.Background(), CreateInput{Nombre: "Toby", Energia: "turbo"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput energia desconocida, got %v", err)
	}
}

func TestDetalle_IncrementaVistasYLimitaSimilares(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	ref, err := svc.Crear(context.Background(), CreateInput{Nombre: "Luna", Tamanio: "chico", Energia: "alta"})
	if err != nil {
		t.Fatalf("crear: %v", err)
	}
	// 4 candidatos comparten tamaño o energía; solo 3 deben volver
	for _, nombre := range []string{"A", "B", "C", "D"} {
		if _, err := svc.Crear(context.Background(), CreateInput{Nombre: nombre, Tamanio: "chico"}); err != nil {
			t.Fatalf("crear similar: %v", err)
		}
	}

	p, similares, err := svc.Detalle(context.Background(), ref.Slug)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Vistas != 1 {
		t.Fatalf("expected vistas=1, got %d", p.Vistas)
	}
	if len(similares) != 3 {
		t.Fatalf("expected 3 similares, got %d", len(similares))
	}
	for _, s := range similares {
		if s.ID == p.ID {
			t.Fatalf("similares no deben incluir al propio perrito")
		}
	}
}

func TestDetalle_VistasBestEffort(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	ref, err := svc.Crear(context.Background(), CreateInput{Nombre: "Luna"})
	if err != nil {
		t.Fatalf("crear: %v", err)
	}
	repo.fallarVistas = true

	p, _, err := svc.Detalle(context.Background(), ref.Slug)
	if err != nil {
		t.Fatalf("el detalle no debe fallar por el contador: %v", err)
	}
	if p.Vistas != 0 {
		t.Fatalf("expected vistas sin incrementar, got %d", p.Vistas)
	}
	if repo.vistasCalls != 1 {
		t.Fatalf("expected 1 intento de incremento, got %d", repo.vistasCalls)
	}
}

func TestDetalle_NoEncontrado(t *testing.T) {
	svc := NewService(newTestRepo())

	if _, _, err := svc.Detalle(context.Background(), "no-existe"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := svc.Detalle(context.Background(), "  "); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound con slug vacío, got %v", err)
	}
}

func TestList_NormalizaPaginado(t *testing.T) {
	svc := NewService(newTestRepo())

	page, err := svc.List(context.Background(), ListFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Page != 1 || page.Limit != DefaultLimit {
		t.Fatalf("expected defaults page=1 limit=%d, got %d/%d", DefaultLimit, page.Page, page.Limit)
	}

	page, err = svc.List(context.Background(), ListFilter{Limit: 5000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Limit != MaxLimit {
		t.Fatalf("expected limit cap %d, got %d", MaxLimit, page.Limit)
	}
}

func TestUpdate_ParcialYEstadoCerrado(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	p, err := svc.Crear(context.Background(), CreateInput{Nombre: "Toby", Raza: "mestizo"})
	if err != nil {
		t.Fatalf("crear: %v", err)
	}

	estado := "in_process"
	updated, err := svc.Update(context.Background(), p.ID, UpdateInput{Estado: &estado})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Estado != EstadoEnProceso {
		t.Fatalf("expected in_process, got %q", updated.Estado)
	}
	if updated.Raza != "mestizo" {
		t.Fatalf("update parcial no debe tocar otros campos")
	}

	malo := "perdido"
	if _, err := svc.Update(context.Background(), p.ID, UpdateInput{Estado: &malo}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput estado desconocido, got %v", err)
	}
}

func TestParseEstado_SetCerrado(t *testing.T) {
	for _, ok := range []string{"available", "in_process", "adopted"} {
		if _, err := ParseEstado(ok); err != nil {
			t.Fatalf("expected %q válido, got %v", ok, err)
		}
	}
	for _, malo := range []string{"", "archived", "AVAILABLE", "pendiente"} {
		if _, err := ParseEstado(malo); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput para %q, got %v", malo, err)
		}
	}
}

func TestSlugify(t *testing.T) {
	casos := map[string]string{
		"Luna":             "luna",
		"  Doña Canela  ":  "dona-canela",
		"Café París 3":     "cafe-paris-3",
		"El   Ñandú":       "el-nandu",
		"trailing---":      "trailing",
		"__guiones_bajos_": "guiones-bajos",
	}
	for in, want := range casos {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
