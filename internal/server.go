package internal

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"assettrack-api/internal/auth"
	"assettrack-api/internal/config"
	"assettrack-api/internal/handlers"
	"assettrack-api/internal/identity"
	"assettrack-api/internal/lifecycle"
	"assettrack-api/internal/models"
	"assettrack-api/internal/scan"
	"assettrack-api/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

type Server struct {
	DB          *sql.DB
	Pool        *pgxpool.Pool
	Router      *chi.Mux
	Store       *store.Gateway
	Identity    *identity.Manager
	Lifecycle   *lifecycle.Manager
	Resolver    *scan.Resolver
	JWTManager  *auth.JWTManager
	Metrics     *Metrics
	RateLimiter *AuthRateLimiter
	Log         zerolog.Logger

	validate *validator.Validate
}

// NewServer connects to Postgres and assembles the full service.
func NewServer(cfg *config.Config, log zerolog.Logger) (*Server, error) {
	db, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// Separate pgxpool for the bulk importer.
	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	gw := store.NewPostgres(db)
	s := newServer(gw, identity.NewPostgresProvider(db), pool, cfg, log)
	s.DB = db
	return s, nil
}

// newServer assembles a server over an already constructed gateway and
// credential provider. Tests use this with the in-memory implementations and
// a nil pool.
func newServer(gw *store.Gateway, provider identity.Provider, pool *pgxpool.Pool, cfg *config.Config, log zerolog.Logger) *Server {
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience, cfg.JWT.Expiry)

	s := &Server{
		Pool:        pool,
		Router:      chi.NewRouter(),
		Store:       gw,
		Identity:    identity.NewManager(provider, gw.Users),
		Lifecycle:   lifecycle.NewManager(gw),
		Resolver:    scan.NewResolver(gw.Items),
		JWTManager:  jwtManager,
		Metrics:     NewMetrics(),
		RateLimiter: NewAuthRateLimiter(cfg.AuthRateLimit.Limit, cfg.AuthRateLimit.Burst),
		Log:         log,
		validate:    validator.New(),
	}

	s.Router.Use(RequestLogger(log))
	if cfg.Metrics.Enabled {
		s.Router.Use(s.Metrics.Middleware())
	}

	// Public routes first (no auth middleware).
	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.Router.Get("/dbping", s.dbPing)
	if cfg.Metrics.Enabled {
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	// Credential endpoints, throttled per client IP.
	s.Router.Group(func(r chi.Router) {
		r.Use(s.RateLimiter.Middleware())
		r.Post("/auth/login", s.loginUser)
		r.Post("/auth/register", s.registerUser)
	})

	// Protected route group.
	s.Router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(s.JWTManager))
		s.mountProtectedRoutes(r)
	})

	return s
}

// Close properly shuts down the server and cleans up resources
func (s *Server) Close(ctx context.Context) error {
	s.RateLimiter.Stop()
	if s.Pool != nil {
		s.Pool.Close()
	}
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}

func (s *Server) dbPing(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "db: not configured", http.StatusServiceUnavailable)
		return
	}
	if err := s.DB.PingContext(r.Context()); err != nil {
		http.Error(w, "db: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	if _, err := w.Write([]byte("db: ok")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// mountProtectedRoutes mounts all routes that require authentication
func (s *Server) mountProtectedRoutes(r chi.Router) {
	admin := auth.MustRole(models.RoleAdmin)

	// Items - reads for everyone, writes for admins
	r.Get("/items", s.listItems)
	r.Get("/items/{id}", s.getItem)
	r.Get("/items/{id}/qr", s.getItemQR)
	r.Post("/items", admin(http.HandlerFunc(s.createItem)).(http.HandlerFunc))
	r.Put("/items/{id}", admin(http.HandlerFunc(s.updateItem)).(http.HandlerFunc))
	r.Delete("/items/{id}", admin(http.HandlerFunc(s.deleteItem)).(http.HandlerFunc))

	// Lifecycle actions
	r.Post("/items/{id}/claim", s.claimItem)
	r.Post("/items/{id}/return", s.returnItem)
	r.Post("/items/{id}/report-broken", s.reportBroken)

	// Scan resolution (camera or manual entry, same path)
	r.Get("/scan/{code}", s.resolveScan)

	// Activity log and dashboard counts
	r.Get("/logs", s.listLogs)
	r.Get("/stats", s.getStats)

	// Team roster - admin only
	r.Get("/users", admin(http.HandlerFunc(s.listUsers)).(http.HandlerFunc))
	r.Get("/users/{uid}", admin(http.HandlerFunc(s.getUser)).(http.HandlerFunc))
	r.Put("/users/{uid}", admin(http.HandlerFunc(s.updateUser)).(http.HandlerFunc))
	r.Delete("/users/{uid}", admin(http.HandlerFunc(s.deleteUser)).(http.HandlerFunc))

	// Bulk inventory import - admin only
	importsHandler := handlers.NewImportsHandler(s.Pool)
	r.Post("/imports/excel", admin(http.HandlerFunc(importsHandler.UploadExcel)).(http.HandlerFunc))

	// Self-service routes
	r.Get("/auth/profile", s.getProfile)
	r.Post("/auth/logout", s.logoutUser)
}
