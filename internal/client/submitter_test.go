package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centro-adopcion/internal/platform/httpclient"
)

// fakeTransport devuelve respuestas/errores en secuencia, uno por request.
type fakeTransport struct {
	pasos []paso
	calls int
}

type paso struct {
	status int
	body   string
	err    error
}

func (t *fakeTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.calls >= len(t.pasos) {
		return nil, errors.New("fakeTransport: sin pasos")
	}
	p := t.pasos[t.calls]
	t.calls++

	if p.err != nil {
		return nil, p.err
	}
	return &http.Response{
		StatusCode: p.status,
		Body:       io.NopCloser(bytes.NewReader([]byte(p.body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func newTestSubmitter(t *testing.T, tr *fakeTransport) (*Submitter, *[]time.Duration) {
	t.Helper()

	hc := httpclient.NewWithTransport(0, tr)
	hc.BaseURL = "http://centro.test"

	sub := NewSubmitter(hc)

	esperas := &[]time.Duration{}
	sub.sleep = func(d time.Duration) {
		*esperas = append(*esperas, d)
	}
	return sub, esperas
}

func TestSubmitExitoAlPrimerIntento(t *testing.T) {
	tr := &fakeTransport{pasos: []paso{
		{status: 201, body: `{"id":"sol-1"}`},
	}}
	sub, esperas := newTestSubmitter(t, tr)

	err := sub.Submit(context.Background(), SolicitudData{Nombre: "Ana"}, "per-1")
	require.NoError(t, err)

	st := sub.State()
	assert.True(t, st.Success)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error)
	assert.Equal(t, 0, st.RetryCount)
	assert.Empty(t, *esperas)
}

func TestSubmitReintentaErroresDeRedYTermina(t *testing.T) {
	// falla de red en 1 y 2, éxito en el 3ro
	tr := &fakeTransport{pasos: []paso{
		{err: errors.New("connection refused")},
		{err: errors.New("dial tcp: i/o timeout")},
		{status: 201, body: `{}`},
	}}
	sub, esperas := newTestSubmitter(t, tr)

	err := sub.Submit(context.Background(), SolicitudData{Nombre: "Ana"}, "per-1")
	require.NoError(t, err)

	st := sub.State()
	assert.True(t, st.Success)
	assert.Empty(t, st.Error)
	assert.Equal(t, 2, st.RetryCount)

	// backoff lineal: 1s, luego 2s
	require.Len(t, *esperas, 2)
	assert.Equal(t, 1*time.Second, (*esperas)[0])
	assert.Equal(t, 2*time.Second, (*esperas)[1])
	assert.Equal(t, 3, tr.calls)
}

func TestSubmitAgotaIntentosDeRed(t *testing.T) {
	tr := &fakeTransport{pasos: []paso{
		{err: errors.New("network is down")},
		{err: errors.New("network is down")},
		{err: errors.New("network is down")},
	}}
	sub, _ := newTestSubmitter(t, tr)

	err := sub.Submit(context.Background(), SolicitudData{}, "per-1")
	require.Error(t, err)

	st := sub.State()
	assert.False(t, st.Success)
	assert.NotEmpty(t, st.Error)
	assert.Equal(t, 2, st.RetryCount)
	assert.Equal(t, 3, tr.calls)
}

func TestSubmitErrorNoDeRedEsTerminal(t *testing.T) {
	tr := &fakeTransport{pasos: []paso{
		{err: errors.New("certificate has expired")},
	}}
	sub, esperas := newTestSubmitter(t, tr)

	err := sub.Submit(context.Background(), SolicitudData{}, "per-1")
	require.Error(t, err)

	st := sub.State()
	assert.False(t, st.Success)
	assert.NotEmpty(t, st.Error)
	assert.Equal(t, 0, st.RetryCount)
	assert.Equal(t, 1, tr.calls, "un error no-red no se reintenta")
	assert.Empty(t, *esperas)
}

func TestSubmitNo2xxUsaMensajeDelServidor(t *testing.T) {
	tr := &fakeTransport{pasos: []paso{
		{status: 404, body: `{"error":"perrito no encontrado"}`},
	}}
	sub, _ := newTestSubmitter(t, tr)

	err := sub.Submit(context.Background(), SolicitudData{}, "no-existe")
	require.Error(t, err)
	assert.Equal(t, "perrito no encontrado", err.Error())
	assert.Equal(t, "perrito no encontrado", sub.State().Error)
	assert.Equal(t, 1, tr.calls, "un no-2xx no se reintenta")
}

func TestSubmitNo2xxSinDetalleCaeAlGenerico(t *testing.T) {
	tr := &fakeTransport{pasos: []paso{
		{status: 500, body: `boom`},
	}}
	sub, _ := newTestSubmitter(t, tr)

	err := sub.Submit(context.Background(), SolicitudData{}, "per-1")
	require.Error(t, err)
	assert.Equal(t, mensajeGenerico, err.Error())
}

func TestRetryReusaElUltimoPayload(t *testing.T) {
	tr := &fakeTransport{pasos: []paso{
		{err: errors.New("host unreachable")},
		{err: errors.New("host unreachable")},
		{err: errors.New("host unreachable")},
		{status: 201, body: `{}`},
	}}
	sub, _ := newTestSubmitter(t, tr)

	err := sub.Submit(context.Background(), SolicitudData{Nombre: "Ana"}, "per-1")
	require.Error(t, err)

	err = sub.Retry(context.Background())
	require.NoError(t, err)
	assert.True(t, sub.State().Success)
}

func TestRetrySinSubmitPrevio(t *testing.T) {
	sub, _ := newTestSubmitter(t, &fakeTransport{})
	assert.Error(t, sub.Retry(context.Background()))
}

func TestResetLimpiaElEstado(t *testing.T) {
	tr := &fakeTransport{pasos: []paso{
		{status: 201, body: `{}`},
	}}
	sub, _ := newTestSubmitter(t, tr)

	require.NoError(t, sub.Submit(context.Background(), SolicitudData{}, "per-1"))
	sub.Reset()

	st := sub.State()
	assert.Equal(t, State{}, st)
	assert.Error(t, sub.Retry(context.Background()), "reset olvida el payload")
}

func TestEsErrorDeRed(t *testing.T) {
	casos := []struct {
		msg string
		red bool
	}{
		{"connection refused", true},
		{"Network is unreachable", true},
		{"i/o TIMEOUT", true},
		{"fetch failed", true},
		{"certificate has expired", false},
		{"json inválido", false},
	}
	for _, c := range casos {
		assert.Equal(t, c.red, EsErrorDeRed(errors.New(c.msg)), c.msg)
	}
	assert.False(t, EsErrorDeRed(nil))
}
