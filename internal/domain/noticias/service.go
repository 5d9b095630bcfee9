package noticias

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
	Titulo    string
	Resumen   string
	Contenido string
	Imagen    string
	Categoria string
	Publicada bool
	Autor     string
}

func (s *Service) Crear(ctx context.Context, in CreateInput) (Noticia, error) {
	titulo := strings.TrimSpace(in.Titulo)
	if titulo == "" {
		return Noticia{}, ErrInvalidInput
	}

	now := s.now()
	n := Noticia{
		ID:        uuid.NewString(),
		Titulo:    titulo,
		Resumen:   strings.TrimSpace(in.Resumen),
		Contenido: in.Contenido,
		Imagen:    strings.TrimSpace(in.Imagen),
		Categoria: strings.TrimSpace(in.Categoria),
		Publicada: in.Publicada,
		Autor:     strings.TrimSpace(in.Autor),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Crear(ctx, n); err != nil {
		return Noticia{}, err
	}
	return n, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Noticia, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Noticia{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

type Page struct {
	Items []Noticia
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
	Titulo    *string
	Resumen   *string
	Contenido *string
	Imagen    *string
	Categoria *string
	Publicada *bool
	Autor     *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Noticia, error) {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Noticia{}, err
	}

	if in.Titulo != nil {
		t := strings.TrimSpace(*in.Titulo)
		if t == "" {
			return Noticia{}, ErrInvalidInput
		}
		n.Titulo = t
	}
	if in.Resumen != nil {
		n.Resumen = strings.TrimSpace(*in.Resumen)
	}
	if in.Contenido != nil {
		n.Contenido = *in.Contenido
	}
	if in.Imagen != nil {
		n.Imagen = strings.TrimSpace(*in.Imagen)
	}
	if in.Categoria != nil {
		n.Categoria = strings.TrimSpace(*in.Categoria)
	}
	if in.Publicada != nil {
		n.Publicada = *in.Publicada
	}
	if in.Autor != nil {
		n.Autor = strings.TrimSpace(*in.Autor)
	}

	n.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, n); err != nil {
		return Noticia{}, err
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
