package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "centro-adopcion/internal/adapters/storage/memory"
	pg "centro-adopcion/internal/adapters/storage/postgres"
	"centro-adopcion/internal/domain/comercios"
	"centro-adopcion/internal/domain/noticias"
	"centro-adopcion/internal/domain/perritos"
	"centro-adopcion/internal/domain/solicitudes"
	"centro-adopcion/internal/domain/tracking"
	"centro-adopcion/internal/domain/veterinarias"
	"centro-adopcion/internal/middleware"
	"centro-adopcion/internal/platform/logger"
	"centro-adopcion/internal/platform/metrics"
	"centro-adopcion/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"
)

type Options struct {
	AuthVerifier auth.SessionVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger

	// Límite del POST público de solicitudes. 0 usa el default.
	SolicitudesRPS rate.Limit
}

const defaultSolicitudesRPS = 5

func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler())

	var (
		perritoRepo     perritos.Repository
		solicitudRepo   solicitudes.Repository
		comercioRepo    comercios.Repository
		noticiaRepo     noticias.Repository
		veterinariaRepo veterinarias.Repository
		trackingRepo    tracking.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				opts.Logger.Warn("no se pudo abrir postgres, usando memoria", map[string]any{
					"error": err.Error(),
				})
			}
		}
	}

	if db != nil {
		perritoRepo = pg.NewPerritoRepo(db)
		solicitudRepo = pg.NewSolicitudRepo(db)
		comercioRepo = pg.NewComercioRepo(db)
		noticiaRepo = pg.NewNoticiaRepo(db)
		veterinariaRepo = pg.NewVeterinariaRepo(db)
		trackingRepo = pg.NewTrackingRepo(db)
	} else {
		memPerritos := mem.NewPerritoRepo()
		perritoRepo = memPerritos
		// el repo de solicitudes necesita el de perritos para el cascade
		solicitudRepo = mem.NewSolicitudRepo(memPerritos)
		comercioRepo = mem.NewComercioRepo()
		noticiaRepo = mem.NewNoticiaRepo()
		veterinariaRepo = mem.NewVeterinariaRepo()
		trackingRepo = mem.NewTrackingRepo()
	}

	// Services por módulo
	perritosSvc := perritos.NewService(perritoRepo)
	solicitudesSvc := solicitudes.NewService(solicitudRepo)
	comerciosSvc := comercios.NewService(comercioRepo)
	noticiasSvc := noticias.NewService(noticiaRepo)
	veterinariasSvc := veterinarias.NewService(veterinariaRepo)
	trackingSvc := tracking.NewService(trackingRepo, opts.Logger)

	rps := opts.SolicitudesRPS
	if rps <= 0 {
		rps = defaultSolicitudesRPS
	}
	publicLimiter := middleware.RateLimitPorIP(rps, int(rps)*2)

	// Rutas por módulo, todas bajo /api
	r.Route("/api", func(api chi.Router) {
		perritos.RegisterRoutes(api, perritosSvc)
		solicitudes.RegisterRoutes(api, solicitudesSvc, perritosSvc, publicLimiter)
		comercios.RegisterRoutes(api, comerciosSvc)
		noticias.RegisterRoutes(api, noticiasSvc)
		veterinarias.RegisterRoutes(api, veterinariasSvc)
		tracking.RegisterRoutes(api, trackingSvc)
	})

	return r
}
