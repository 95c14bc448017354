// Package server Gymblog
//
// The Gymblog is a blog about training with a directory of gyms.
//
//     Schemes: https
//     BasePath: /v1
//     Version: 1.0.0
//
//     Produces:
//     - application/json
//     Consumes:
//     - application/json
//
// swagger:meta
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tomasen/realip"

	"github.com/gymblog/gymblog/internal/auth"
	"github.com/gymblog/gymblog/internal/entities"
	mm "github.com/gymblog/gymblog/internal/middleware"
	"github.com/gymblog/gymblog/internal/middleware/memory"
	"github.com/gymblog/gymblog/internal/realtime"
	"github.com/gymblog/gymblog/internal/service"
)

//go:generate swagger generate spec -t swagger -m -c . -o ../../static/swagger.json

const (
	maxBodySize       = 64 * 1024
	multipartOverhead = 1024 * 1024
	defaultTimeout    = 30 * time.Second
)

var log = logrus.WithField("layer", "http").WithField("package", "server")

// Options ...
type Options struct {
	Timeout       time.Duration
	MaxUploadSize int64

	// Cache keeps responses of gyms directory. In-memory storage is used when it is nil.
	Cache    mm.Storage
	CacheTTL time.Duration

	// Redis enables rate limiting of auth routes.
	Redis     *redis.Client
	RateLimit mm.RateLimitConfig

	// FilesDir is served under /files when set.
	FilesDir string
}

type server struct {
	s             service.Service
	v             auth.Verifier
	hub           *realtime.Hub
	maxUploadSize int64
}

// SetupRouter setups handlers to chi router.
func SetupRouter(s service.Service, v auth.Verifier, hub *realtime.Hub, r chi.Router, o Options) {
	if o.Cache == nil {
		o.Cache = memory.NewStorage()
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = time.Minute
	}

	r.Use(
		middleware.StripSlashes,
		cors.AllowAll().Handler,
		middleware.RequestID,
		loggerMiddleware,
		middleware.Recoverer,
	)

	srv := server{
		s:             s,
		v:             v,
		hub:           hub,
		maxUploadSize: o.MaxUploadSize,
	}

	if o.FilesDir != "" {
		r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(o.FilesDir))))
	}

	cached := mm.Cached(o.Cache, o.CacheTTL)
	limited := mm.RateLimit(o.Redis, o.RateLimit, mm.KeyByIP)

	r.Route("/v1", func(r chi.Router) {
		r.Use(srv.authenticate)

		r.Get("/posts/{id}/live", srv.live)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(o.Timeout))

			r.Group(func(r chi.Router) {
				r.Use(bodyLimiter(maxBodySize))

				r.With(limited).Post("/auth/register", srv.register)
				r.With(limited).Post("/auth/login", srv.login)
				r.With(requireAuth).Get("/me", srv.me)

				r.Get("/posts", srv.listPosts)
				r.Get("/posts/{id}", srv.getPost)
				r.Get("/posts/{id}/comments", srv.listComments)
				r.Get("/posts/{id}/ratings", srv.getRatings)

				r.Get("/gyms", cached(http.HandlerFunc(srv.listGyms)).ServeHTTP)
				r.Get("/gyms/types", cached(http.HandlerFunc(srv.gymTypes)).ServeHTTP)
				r.Get("/gyms/{id}", cached(http.HandlerFunc(srv.getGym)).ServeHTTP)

				r.Group(func(r chi.Router) {
					r.Use(requireAuth)

					r.Post("/posts", srv.createPost)
					r.Put("/posts/{id}", srv.updatePost)
					r.Delete("/posts/{id}", srv.deletePost)
					r.Post("/posts/{id}/comments", srv.addComment)
					r.Put("/posts/{id}/ratings", srv.ratePost)
					r.Post("/posts/{id}/likes", srv.toggleLike)
					r.Post("/chat", srv.chat)
				})

				r.Route("/admin", func(r chi.Router) {
					r.Use(requireAuth)

					r.With(requireRole(entities.AdminRole)).Get("/users", srv.listUsers)
					r.With(requireRole(entities.AdminRole)).Put("/users/{id}/role", srv.setUserRole)
					r.With(requireRole(entities.AdminRole)).Put("/users/{id}/status", srv.setUserStatus)
					r.With(requireRole(entities.AdminRole)).Post("/gyms/import", srv.importGyms)

					r.With(requireRole(entities.ModeratorRole, entities.AdminRole)).Get("/posts", srv.listAllPosts)
					r.With(requireRole(entities.ModeratorRole, entities.AdminRole)).Put("/posts/{id}/status", srv.setPostStatus)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, bodyLimiter(o.MaxUploadSize+multipartOverhead))

				r.Post("/posts/import", srv.importDOCX)
				r.Post("/posts/{id}/attachment", srv.attachFile)
			})
		})
	})
}

func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
			"ip":         realip.FromRequest(r),
		}).Debug("request served")
	})
}

func bodyLimiter(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if n > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
