package perritos

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

const (
	DefaultLimit = 12
	MaxLimit     = 100

	maxSimilares = 3
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
	Nombre       string
	Raza         string
	Edad         string
	Sexo         string
	Tamanio      string
	Energia      string
	Fotos        []string
	Historia     string
	FechaIngreso *time.Time
}

func (s *Service) Crear(ctx context.Context, in CreateInput) (Perrito, error) {
	nombre := strings.TrimSpace(in.Nombre)
	if nombre == "" {
		return Perrito{}, ErrInvalidInput
	}

	tam, err := parseTamanio(in.Tamanio)
	if err != nil {
		return Perrito{}, err
	}
	ene, err := parseEnergia(in.Energia)
	if err != nil {
		return Perrito{}, err
	}

	now := s.now()
	ingreso := now
	if in.FechaIngreso != nil {
		ingreso = *in.FechaIngreso
	}

	p := Perrito{
		ID:           uuid.NewString(),
		Slug:         Slugify(nombre),
		Nombre:       nombre,
		Raza:         strings.TrimSpace(in.Raza),
		Edad:         strings.TrimSpace(in.Edad),
		Sexo:         strings.TrimSpace(in.Sexo),
		Tamanio:      tam,
		Energia:      ene,
		Estado:       EstadoDisponible,
		Fotos:        in.Fotos,
		Historia:     strings.TrimSpace(in.Historia),
		FechaIngreso: ingreso,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Crear(ctx, p); err != nil {
		return Perrito{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Perrito, error) {
	return s.repo.GetByID(ctx, id)
}

// Detalle resuelve el perrito por slug, incrementa el contador de vistas y
// devuelve hasta 3 similares (mismo tamaño o energía, disponibles, sin
// incluirse a sí mismo).
func (s *Service) Detalle(ctx context.Context, slug string) (Perrito, []Perrito, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Perrito{}, nil, ErrNotFound
	}

	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return Perrito{}, nil, err
	}

	// Efecto del read: el contador de vistas es best-effort.
	if err := s.repo.IncrementarVistas(ctx, p.ID); err == nil {
		p.Vistas++
	}

	similares, err := s.repo.Similares(ctx, p, maxSimilares)
	if err != nil {
		return Perrito{}, nil, err
	}

	return p, similares, nil
}

type Page struct {
	Items []Perrito
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
	Nombre   *string
	Raza     *string
	Edad     *string
	Sexo     *string
	Tamanio  *string
	Energia  *string
	Estado   *string
	Fotos    *[]string
	Historia *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Perrito, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Perrito{}, err
	}

	if in.Nombre != nil {
		n := strings.TrimSpace(*in.Nombre)
		if n == "" {
			return Perrito{}, ErrInvalidInput
		}
		p.Nombre = n
	}
	if in.Raza != nil {
		p.Raza = strings.TrimSpace(*in.Raza)
	}
	if in.Edad != nil {
		p.Edad = strings.TrimSpace(*in.Edad)
	}
	if in.Sexo != nil {
		p.Sexo = strings.TrimSpace(*in.Sexo)
	}
	if in.Tamanio != nil {
		tam, err := parseTamanio(*in.Tamanio)
		if err != nil {
			return Perrito{}, err
		}
		p.Tamanio = tam
	}
	if in.Energia != nil {
		ene, err := parseEnergia(*in.Energia)
		if err != nil {
			return Perrito{}, err
		}
		p.Energia = ene
	}
	if in.Estado != nil {
		est, err := ParseEstado(*in.Estado)
		if err != nil {
			return Perrito{}, err
		}
		p.Estado = est
	}
	if in.Fotos != nil {
		p.Fotos = *in.Fotos
	}
	if in.Historia != nil {
		p.Historia = strings.TrimSpace(*in.Historia)
	}

	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Perrito{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func parseTamanio(v string) (Tamanio, error) {
	switch t := Tamanio(strings.TrimSpace(v)); t {
	case TamanioChico, TamanioMediano, TamanioGrande:
		return t, nil
	case "":
		return TamanioMediano, nil
	default:
		return "", ErrInvalidInput
	}
}

func parseEnergia(v string) (Energia, error) {
	switch e := Energia(strings.TrimSpace(v)); e {
	case EnergiaBaja, EnergiaMedia, EnergiaAlta:
		return e, nil
	case "":
		return EnergiaMedia, nil
	default:
		return "", ErrInvalidInput
	}
}

// ParseEstado valida contra el set cerrado de estados de adopción.
func ParseEstado(v string) (Estado, error) {
	switch e := Estado(strings.TrimSpace(v)); e {
	case EstadoDisponible, EstadoEnProceso, EstadoAdoptado:
		return e, nil
	default:
		return "", ErrInvalidInput
	}
}

// Slugify normaliza un nombre a slug URL-safe (minúsculas, sin acentos,
// guiones). Suficiente para nombres de perritos y comercios locales.
func Slugify(s string) string {
	var b strings.Builder
	prevDash := false

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r == 'ñ':
			b.WriteRune('n')
			prevDash = false
		case r == 'á' || r == 'é' || r == 'í' || r == 'ó' || r == 'ú' || r == 'ü':
			b.WriteRune(desacentuar(r))
			prevDash = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !prevDash && b.Len() > 0 {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}

func desacentuar(r rune) rune {
	switch r {
	case 'á':
		return 'a'
	case 'é':
		return 'e'
	case 'í':
		return 'i'
	case 'ó':
		return 'o'
	case 'ú', 'ü':
		return 'u'
	default:
		return r
	}
}
