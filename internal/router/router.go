package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "dnipets-backend/docs"
	mem "dnipets-backend/internal/adapters/storage/memory"
	pg "dnipets-backend/internal/adapters/storage/postgres"
	"dnipets-backend/internal/domain/accounts"
	"dnipets-backend/internal/domain/assistant"
	"dnipets-backend/internal/domain/health"
	"dnipets-backend/internal/domain/live"
	"dnipets-backend/internal/domain/pets"
	"dnipets-backend/internal/domain/profiles"
	"dnipets-backend/internal/domain/qr"
	"dnipets-backend/internal/middleware"
	"dnipets-backend/internal/platform/logger"
	"dnipets-backend/internal/ports/auth"
	"dnipets-backend/internal/ports/genai"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	AuthProvider auth.Provider     // puede ser nil (sin cuentas hosteadas)
	AI           genai.Client      // puede ser nil (sin asistente)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	AllowedOrigins []string
	Logger         logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Debug-User-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		petRepo     pets.Repository
		profileRepo profiles.Repository
		recordRepo  health.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, falling back to memory", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		petRepo = pg.NewPetsRepo(db)
		profileRepo = pg.NewProfilesRepo(db)
		recordRepo = pg.NewHealthRepo(db)
	} else {
		petRepo = mem.NewPetRepo()
		profileRepo = mem.NewProfileRepo()
		recordRepo = mem.NewHealthRepo()
	}

	// Services por módulo
	healthSvc := health.NewService(recordRepo)
	petsSvc := pets.NewService(petRepo, healthSvc, log)
	profilesSvc := profiles.NewService(profileRepo)
	qrSvc := qr.NewService(petsSvc, profilesSvc)
	accountsSvc := accounts.NewService(opts.AuthProvider, profilesSvc, log)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	profiles.RegisterRoutes(r, profilesSvc)
	health.RegisterRoutes(r, healthSvc, petsSvc)
	qr.RegisterRoutes(r, qrSvc)
	accounts.RegisterRoutes(r, accountsSvc)

	if opts.AI != nil {
		assistantSvc := assistant.NewService(opts.AI, log)
		assistant.RegisterRoutes(r, assistantSvc)
		live.RegisterRoutes(r, opts.AI, log)
	} else {
		r.Handle("/assistant/*", unavailable("ai assistant not configured"))
		r.Handle("/live/*", unavailable("voice assistant not configured"))
	}

	return r
}

func unavailable(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, msg, http.StatusServiceUnavailable)
	}
}
