package sesiones

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"centro-adopcion/internal/ports/auth"
)

var ErrTokenVacio = errors.New("token vacío")

// Verifier implementa auth.SessionVerifier contra el servicio de sesiones.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Session, error) {
	if v == nil || v.client == nil {
		return auth.Session{}, ErrNoConfigurado
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Session{}, ErrTokenVacio
	}

	s, err := v.client.VerifyToken(ctx, token)
	if err != nil {
		return auth.Session{}, fmt.Errorf("verificar sesión: %w", err)
	}

	s.UserID = strings.TrimSpace(s.UserID)
	if s.UserID == "" {
		return auth.Session{}, errors.New("sesión sin user id")
	}

	return s, nil
}
