package comercios

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"centro-adopcion/internal/domain/perritos"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Nombre      string
	Categoria   string
	Direccion   string
	Telefono    string
	Horario     string
	Certificado bool
}

func (s *Service) Crear(ctx context.Context, in CreateInput) (Comercio, error) {
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return Comercio{}, ErrInvalidInput
	}

	now := s.now()
	c := Comercio{
		ID:          uuid.NewString(),
		Slug:        perritos.Slugify(nombre),
		Nombre:      nombre,
		Categoria:   strings.TrimSpace(in.Categoria),
		Direccion:   strings.TrimSpace(in.Direccion),
		Telefono:    strings.TrimSpace(in.Telefono),
		Horario:     strings.TrimSpace(in.Horario),
		Certificado: in.Certificado,
		Activo:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Certificado {
		c.FechaCertificacion = &now
	}

	if err := s.repo.Crear(ctx, c); err != nil {
		return Comercio{}, err
	}
	return c, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Comercio, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Comercio{}, ErrNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

type Page struct {
	Items []Comercio
	Total int
	Page  int
	Limit int
}

func (p Page) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}

func (s *Service) List(ctx context.Context, f ListFilter) (Page, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}

	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return Page{}, err
	}
	return Page{Items: items, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

type UpdateInput struct {
	// Punteros para update parcial: nil = no tocar.
	Nombre      *string
	Categoria   *string
	Direccion   *string
	Telefono    *string
	Horario     *string
	Certificado *bool
	Activo      *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Comercio, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Comercio{}, err
	}

	if in.Nombre != nil {
		n := strings.TrimSpace(*in.Nombre)
		if n == "" {
			return Comercio{}, ErrInvalidInput
		}
		c.Nombre = n
	}
	if in.Categoria != nil {
		c.Categoria = strings.TrimSpace(*in.Categoria)
	}
	if in.Direccion != nil {
		c.Direccion = strings.TrimSpace(*in.Direccion)
	}
	if in.Telefono != nil {
		c.Telefono = strings.TrimSpace(*in.Telefono)
	}
	if in.Horario != nil {
		c.Horario = strings.TrimSpace(*in.Horario)
	}
	if in.Certificado != nil && *in.Certificado != c.Certificado {
		c.Certificado = *in.Certificado
		if c.Certificado {
			now := s.now()
			c.FechaCertificacion = &now
		} else {
			c.FechaCertificacion = nil
		}
	}
	if in.Activo != nil {
		c.Activo = *in.Activo
	}

	c.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, c); err != nil {
		return Comercio{}, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

type TrackInput struct {
	Fuente    string
	IP        string
	UserAgent string
}

// Track registra un escaneo de QR: resuelve el comercio por slug, incrementa
// el contador e inserta el EscaneoQR (una transacción en el repo).
// Devuelve el total actualizado de escaneos.
func (s *Service) Track(ctx context.Context, slug string, in TrackInput) (int, error) {
	c, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}

	e := EscaneoQR{
		ID:         uuid.NewString(),
		ComercioID: c.ID,
		Fuente:     strings.TrimSpace(in.Fuente),
		IP:         in.IP,
		UserAgent:  in.UserAgent,
		CreatedAt:  s.now(),
	}

	if err := s.repo.RegistrarEscaneo(ctx, e); err != nil {
		return 0, err
	}
	return c.QREscaneos + 1, nil
}
