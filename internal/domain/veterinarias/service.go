package veterinarias

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	DefaultLimit = 10
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
	Nombre    string
	Direccion string
	Telefono  string
	Horario   string
	Servicios []string
	Urgencias bool
}

func (s *Service) Crear(ctx context.Context, in CreateInput) (Veterinaria, error) {
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return Veterinaria{}, ErrInvalidInput
	}

	now := s.now()
	v := Veterinaria{
		ID:        uuid.NewString(),
		Nombre:    nombre,
		Direccion: strings.TrimSpace(in.Direccion),
		Telefono:  strings.TrimSpace(in.Telefono),
		Horario:   strings.TrimSpace(in.Horario),
		Servicios: in.Servicios,
		Urgencias: in.Urgencias,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Crear(ctx, v); err != nil {
		return Veterinaria{}, err
	}
	return v, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Veterinaria, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Veterinaria{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

type Page struct {
	Items []Veterinaria
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
	Nombre    *string
	Direccion *string
	Telefono  *string
	Horario   *string
	Servicios *[]string
	Urgencias *bool
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Veterinaria, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Veterinaria{}, err
	}

	if in.Nombre != nil {
		n := strings.TrimSpace(*in.Nombre)
		if n == "" {
			return Veterinaria{}, ErrInvalidInput
		}
		v.Nombre = n
	}
	if in.Direccion != nil {
		v.Direccion = strings.TrimSpace(*in.Direccion)
	}
	if in.Telefono != nil {
		v.Telefono = strings.TrimSpace(*in.Telefono)
	}
	if in.Horario != nil {
		v.Horario = strings.TrimSpace(*in.Horario)
	}
	if in.Servicios != nil {
		v.Servicios = *in.Servicios
	}
	if in.Urgencias != nil {
		v.Urgencias = *in.Urgencias
	}

	v.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, v); err != nil {
		return Veterinaria{}, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
