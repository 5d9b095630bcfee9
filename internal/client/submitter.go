// Package client implementa el envío de solicitudes de adopción desde el
// formulario público, con reintento acotado ante fallas de red.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"centro-adopcion/internal/platform/httpclient"
)

const (
	// maxAttempts incluye el intento original: 1 envío + 2 reintentos.
	maxAttempts = 3

	submitPath = "/api/solicitudes"

	// mensajeGenerico se usa cuando el servidor no aporta detalle.
	mensajeGenerico = "Error al enviar la solicitud"
)

// redSubstrings clasifica un error como "de red". Solo esos se reintentan.
var redSubstrings = []string{
	"fetch", "network", "connection", "timeout", "refused", "unreachable",
}

// SolicitudData es el payload del formulario público.
type SolicitudData struct {
	Nombre    string `json:"nombre"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
	Direccion string `json:"direccion"`
	Motivo    string `json:"motivo"`
}

// State es el snapshot observable del envío en curso.
type State struct {
	Loading    bool
	Success    bool
	Error      string // vacío mientras no haya fallo terminal
	RetryCount int
}

// Submitter envía la solicitud con backoff lineal: el intento n espera
// 1000*n ms antes de reintentar. Es single-flight: un Submit a la vez.
type Submitter struct {
	hc    *httpclient.Client
	sleep func(time.Duration)

	mu    sync.Mutex
	state State

	// último payload, para Retry
	lastData      SolicitudData
	lastPerritoID string
	hasLast       bool
}

func NewSubmitter(hc *httpclient.Client) *Submitter {
	return &Submitter{
		hc:    hc,
		sleep: time.Sleep,
	}
}

type submitRequest struct {
	PerritoID string `json:"perritoId"`
	Nombre    string `json:"nombre"`
	Telefono  string `json:"telefono"`
	Email     string `json:"email"`
	Direccion string `json:"direccion"`
	Motivo    string `json:"motivo"`
}

// Submit envía la solicitud. Los errores de red se reintentan hasta agotar
// los intentos; un error del servidor (no-2xx) es terminal y se reporta con
// el mensaje que mande el backend o el genérico.
func (s *Submitter) Submit(ctx context.Context, data SolicitudData, perritoID string) error {
	s.mu.Lock()
	s.lastData = data
	s.lastPerritoID = perritoID
	s.hasLast = true
	s.state = State{Loading: true}
	s.mu.Unlock()

	return s.run(ctx, data, perritoID)
}

// Retry reenvía el último payload. Falla si nunca hubo un Submit.
func (s *Submitter) Retry(ctx context.Context) error {
	s.mu.Lock()
	if !s.hasLast {
		s.mu.Unlock()
		return errors.New("client: nada que reintentar")
	}
	data, perritoID := s.lastData, s.lastPerritoID
	s.state = State{Loading: true}
	s.mu.Unlock()

	return s.run(ctx, data, perritoID)
}

// Reset limpia el estado y el payload recordado.
func (s *Submitter) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = State{}
	s.hasLast = false
}

// State devuelve una copia del estado actual.
func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Submitter) run(ctx context.Context, data SolicitudData, perritoID string) error {
	req := submitRequest{
		PerritoID: perritoID,
		Nombre:    data.Nombre,
		Telefono:  data.Telefono,
		Email:     data.Email,
		Direccion: data.Direccion,
		Motivo:    data.Motivo,
	}

	var lastErr error
	for intento := 1; intento <= maxAttempts; intento++ {
		err := s.hc.DoJSON(ctx, "POST", submitPath, nil, req, nil)
		if err == nil {
			s.mu.Lock()
			s.state.Loading = false
			s.state.Success = true
			s.state.Error = ""
			s.mu.Unlock()
			return nil
		}

		lastErr = err

		// no-2xx: el servidor respondió, no se reintenta
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			return s.terminar(mensajeDeServidor(httpErr))
		}

		if !EsErrorDeRed(err) || intento == maxAttempts {
			break
		}

		s.mu.Lock()
		s.state.RetryCount++
		s.mu.Unlock()
		s.sleep(time.Duration(intento) * time.Second)
	}

	return s.terminar(lastErr.Error())
}

func (s *Submitter) terminar(msg string) error {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Success = false
	s.state.Error = msg
	s.mu.Unlock()
	return errors.New(msg)
}

// EsErrorDeRed clasifica por substring, case-insensitive, contra el set
// fijo de indicadores de falla de red.
func EsErrorDeRed(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sub := range redSubstrings {
		if strings.Contains(msg, sub) {
			return true
		}
	}
	return false
}

// mensajeDeServidor extrae {"error": "..."} del body; si no puede, cae al
// mensaje genérico.
func mensajeDeServidor(httpErr *httpclient.HTTPError) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(httpErr.Body), &body); err == nil && strings.TrimSpace(body.Error) != "" {
		return body.Error
	}
	return mensajeGenerico
}
