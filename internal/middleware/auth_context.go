package middleware

import (
	"context"
	"net/http"
	"strings"

	"centro-adopcion/internal/ports/auth"
)

type ctxKey string

const sessionKey ctxKey = "session"

// SessionCookie es el nombre de la cookie que porta el token de sesión.
const SessionCookie = "sesion"

// AuthContext:
// - Si verifier != nil y viene token (Bearer o cookie) => intenta Verify() y setea la sesión.
// - Si verifier == nil => modo dev: headers X-Debug-User-ID / X-Debug-Rol setean la sesión.
// - Si no hay sesión, el request sigue igual; los handlers deciden 401.
func AuthContext(verifier auth.SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev mode: permitir inyectar sesión sin verifier
			if verifier == nil {
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					s := auth.Session{
						UserID: uid,
						Rol:    strings.TrimSpace(r.Header.Get("X-Debug-Rol")),
					}
					next.ServeHTTP(w, r.WithContext(withSession(r.Context(), s)))
					return
				}

				next.ServeHTTP(w, r)
				return
			}

			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			s, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// No cortamos aquí para no acoplar. El handler decide 401.
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), s)))
		})
	}
}

func withSession(ctx context.Context, s auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

func GetSession(ctx context.Context) (auth.Session, bool) {
	v := ctx.Value(sessionKey)
	if v == nil {
		return auth.Session{}, false
	}
	s, ok := v.(auth.Session)
	return s, ok
}

// EsAdmin indica si el request trae una sesión con rol admin.
func EsAdmin(ctx context.Context) bool {
	s, ok := GetSession(ctx)
	return ok && s.EsAdmin()
}

// sessionToken busca el token primero en Authorization: Bearer y
// después en la cookie de sesión.
func sessionToken(r *http.Request) string {
	if tok := bearerToken(r.Header.Get("Authorization")); tok != "" {
		return tok
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
