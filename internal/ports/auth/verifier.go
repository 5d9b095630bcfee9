package auth

import "context"

// SessionVerifier valida un token de sesión y devuelve la sesión o error.
// La emisión de credenciales/sesiones vive en un servicio externo.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (Session, error)
}
