package solicitudes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID  map[string]Solicitud
	notas map[string][]Nota

	// args del último Transition, para verificar el cascade
	lastNota    *Nota
	lastAdoptar bool
	transitions int

	lastFilter ListFilter
}

func newTestRepo() *testRepo {
	return &testRepo{
		byID:  map[string]Solicitud{},
		notas: map[string][]Nota{},
	}
}

func (r *testRepo) Crear(ctx context.Context, s Solicitud) error {
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Solicitud, error) {
	s, ok := r.byID[id]
	if !ok {
		return Solicitud{}, ErrNotFound
	}
	return s, nil
}

func (r *testRepo) List(ctx context.Context, f ListFilter) ([]Solicitud, int, error) {
	r.lastFilter = f
	out := make([]Solicitud, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (r *testRepo) Transition(ctx context.Context, s Solicitud, nota *Nota, adoptarPerrito bool) error {
	if _, ok := r.byID[s.ID]; !ok {
		return ErrNotFound
	}
	r.byID[s.ID] = s
	r.lastNota = nota
	r.lastAdoptar = adoptarPerrito
	r.transitions++
	if nota != nil {
		r.notas[s.ID] = append([]Nota{*nota}, r.notas[s.ID]...)
	}
	return nil
}

func (r *testRepo) ListNotas(ctx context.Context, solicitudID string) ([]Nota, error) {
	return r.notas[solicitudID], nil
}

func fixedNow() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

func seedSolicitud(repo *testRepo, estado Estado) Solicitud {
	s := Solicitud{
		ID:        "sol-1",
		Codigo:    "SOL-AAAA1111",
		PerritoID: "per-1",
		Nombre:    "Juan Pérez",
		Telefono:  "222-000-1111",
		Email:     "juan@example.com",
		Estado:    estado,
		CreatedAt: fixedNow().Add(-48 * time.Hour),
		UpdatedAt: fixedNow().Add(-48 * time.Hour),
	}
	repo.byID[s.ID] = s
	return s
}

// -------------------------
// Tests
// -------------------------

func TestCrear_EstadoInicialPendiente(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	sol, err := svc.Crear(context.Background(), CreateInput{
		PerritoID: "per-1",
		Nombre:    "Ana",
		Telefono:  "222",
		Email:     "ana@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, EstadoPendiente, sol.Estado)
	assert.NotEmpty(t, sol.ID)
	assert.Regexp(t, `^SOL-[0-9A-F]{8}$`, sol.Codigo)
	assert.Equal(t, fixedNow(), sol.CreatedAt)
}

func TestCrear_CamposRequeridos(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Crear(context.Background(), CreateInput{
		PerritoID: "per-1",
		Nombre:    "Ana",
		// sin teléfono ni email
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTransition_NotFound(t *testing.T) {
	svc := NewService(newTestRepo())

	estado := string(EstadoAprobada)
	_, err := svc.Transition(context.Background(), "nope", TransitionInput{Estado: &estado})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransition_EstadoFueraDelSet(t *testing.T) {
	repo := newTestRepo()
	seedSolicitud(repo, EstadoPendiente)
	svc := NewService(repo)

	estado := "en_revision"
	_, err := svc.Transition(context.Background(), "sol-1", TransitionInput{Estado: &estado})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, repo.transitions, "no debe persistir nada con estado inválido")
}

func TestTransition_AprobarCascadeaAdopcion(t *testing.T) {
	repo := newTestRepo()
	seedSolicitud(repo, EstadoPendiente)
	svc := NewService(repo)
	svc.now = fixedNow

	estado := string(EstadoAprobada)
	res, err := svc.Transition(context.Background(), "sol-1", TransitionInput{Estado: &estado})
	require.NoError(t, err)

	assert.Equal(t, EstadoAprobada, res.Solicitud.Estado)
	assert.True(t, res.PerritoAdoptado)
	assert.True(t, repo.lastAdoptar, "el repo debe recibir la orden de adoptar en la misma transacción")
	assert.Equal(t, fixedNow(), res.Solicitud.UpdatedAt)
}

func TestTransition_RechazarNoCascadea(t *testing.T) {
	repo := newTestRepo()
	seedSolicitud(repo, EstadoPendiente)
	svc := NewService(repo)
	svc.now = fixedNow

	estado := string(EstadoRechazada)
	motivo := "no cumple requisitos"
	res, err := svc.Transition(context.Background(), "sol-1", TransitionInput{
		Estado:        &estado,
		MotivoRechazo: &motivo,
	})
	require.NoError(t, err)

	assert.Equal(t, EstadoRechazada, res.Solicitud.Estado)
	require.NotNil(t, res.Solicitud.MotivoRechazo)
	assert.Equal(t, "no cumple requisitos", *res.Solicitud.MotivoRechazo)
	assert.False(t, res.PerritoAdoptado)
	assert.False(t, repo.lastAdoptar)
}

func TestTransition_EstadoOmitidoNoCambia(t *testing.T) {
	repo := newTestRepo()
	seedSolicitud(repo, EstadoRechazada)
	svc := NewService(repo)
	svc.now = fixedNow

	nota := "seguimiento telefónico"
	res, err := svc.Transition(context.Background(), "sol-1", TransitionInput{Nota: &nota})
	require.NoError(t, err)

	assert.Equal(t, EstadoRechazada, res.Solicitud.Estado)
	require.NotNil(t, repo.lastNota)
	assert.Equal(t, "Admin", repo.lastNota.Autor)
	assert.Equal(t, TipoNotaInterna, repo.lastNota.Tipo)
	assert.Equal(t, "seguimiento telefónico", repo.lastNota.Contenido)
}

func TestTransition_EstadoAprobadoVigenteCascadeaAunqueOmitido(t *testing.T) {
	// El cascade depende del estado RESULTANTE, no del campo enviado.
	repo := newTestRepo()
	seedSolicitud(repo, EstadoAprobada)
	svc := NewService(repo)

	nota := "re-verificación"
	res, err := svc.Transition(context.Background(), "sol-1", TransitionInput{Nota: &nota})
	require.NoError(t, err)
	assert.True(t, res.PerritoAdoptado)
}

func TestTransition_NotaVaciaNoSeAgrega(t *testing.T) {
	repo := newTestRepo()
	seedSolicitud(repo, EstadoPendiente)
	svc := NewService(repo)

	nota := "   "
	_, err := svc.Transition(context.Background(), "sol-1", TransitionInput{Nota: &nota})
	require.NoError(t, err)
	assert.Nil(t, repo.lastNota)
}

func TestGet_IncluyeNotas(t *testing.T) {
	repo := newTestRepo()
	seedSolicitud(repo, EstadoPendiente)
	svc := NewService(repo)

	nota := "primera revisión"
	_, err := svc.Transition(context.Background(), "sol-1", TransitionInput{Nota: &nota})
	require.NoError(t, err)

	sol, notas, err := svc.Get(context.Background(), "sol-1")
	require.NoError(t, err)
	assert.Equal(t, "sol-1", sol.ID)
	require.Len(t, notas, 1)
	assert.Equal(t, "primera revisión", notas[0].Contenido)
}

func TestList_RangoGanaSobreDias(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	ini := fixedNow().AddDate(0, -1, 0)
	fin := fixedNow()
	_, err := svc.List(context.Background(), ListFilter{
		Dias:        7,
		FechaInicio: &ini,
		FechaFin:    &fin,
	})
	require.NoError(t, err)

	assert.Zero(t, repo.lastFilter.Dias, "dias debe ignorarse cuando hay rango")
	require.NotNil(t, repo.lastFilter.FechaInicio)
	assert.Equal(t, ini, *repo.lastFilter.FechaInicio)
}

func TestList_DiasSeTraduceAFechaInicio(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = fixedNow

	_, err := svc.List(context.Background(), ListFilter{Dias: 7})
	require.NoError(t, err)

	require.NotNil(t, repo.lastFilter.FechaInicio)
	assert.Equal(t, fixedNow().AddDate(0, 0, -7), *repo.lastFilter.FechaInicio)
	assert.Zero(t, repo.lastFilter.Dias)
}

func TestList_LimitConTope(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	page, err := svc.List(context.Background(), ListFilter{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, MaxLimit, page.Limit)

	page, err = svc.List(context.Background(), ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit, page.Limit)
	assert.Equal(t, 1, page.Page)
}

func TestPage_TotalPages(t *testing.T) {
	assert.Equal(t, 3, Page{Total: 25, Limit: 10}.TotalPages())
	assert.Equal(t, 1, Page{Total: 10, Limit: 10}.TotalPages())
	assert.Equal(t, 0, Page{Total: 0, Limit: 10}.TotalPages())
}
