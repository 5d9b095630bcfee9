package sesiones

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"centro-adopcion/internal/platform/httpclient"
	"centro-adopcion/internal/ports/auth"
)

var (
	ErrNoConfigurado = errors.New("sesiones: client no configurado")
	ErrNoAutorizado  = errors.New("sesiones: no autorizado")
	ErrUpstream      = errors.New("sesiones: error upstream")
)

// Config del cliente del servicio de sesiones.
// BaseURL y APIKey normalmente vienen de env vars (SESIONES_BASE_URL, SESIONES_API_KEY).
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Client struct {
	http   *httpclient.Client
	apiKey string
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:   hc,
		apiKey: strings.TrimSpace(cfg.APIKey),
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// VerifyToken consulta el servicio de sesiones y devuelve la sesión asociada
// al token. 401/403 del upstream se mapean a ErrNoAutorizado.
func (c *Client) VerifyToken(ctx context.Context, token string) (auth.Session, error) {
	if !c.IsConfigured() {
		return auth.Session{}, ErrNoConfigurado
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Session{}, ErrNoAutorizado
	}

	var out struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
		Rol    string `json:"rol"`
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/sesiones/verificar",
		map[string]string{"X-Api-Key": c.apiKey},
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		var he *httpclient.HTTPError
		if errors.As(err, &he) {
			if he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden {
				return auth.Session{}, ErrNoAutorizado
			}
			return auth.Session{}, fmt.Errorf("%w: status=%d", ErrUpstream, he.StatusCode)
		}
		return auth.Session{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return auth.Session{
		UserID: out.UserID,
		Email:  out.Email,
		Rol:    out.Rol,
	}, nil
}
