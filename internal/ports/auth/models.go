package auth

// Session representa la sesión resuelta para un request entrante.
type Session struct {
	UserID string
	Email  string
	Rol    string
}

const RolAdmin = "admin"

func (s Session) EsAdmin() bool {
	return s.Rol == RolAdmin
}
