// Package api is the gin HTTP surface of the campus auth service: login,
// privileged registration, whoami, health, and one ping route per role
// group to exercise the guard.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	campusAuth "github.com/MrEthical07/campusAuth"
	"github.com/MrEthical07/campusAuth/middleware"
	"github.com/MrEthical07/campusAuth/middleware/ginauth"
)

// Options tunes the router. The zero value is usable.
type Options struct {
	// AllowOrigins lists CORS origins. Empty allows any origin.
	AllowOrigins []string
	// Ready backs /healthz. Nil reports healthy.
	Ready func(ctx context.Context) error
	// Metrics, when set, is served publicly at GET /metrics.
	Metrics http.Handler
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For and
	// X-Real-IP headers are honoured. Empty trusts none, so the client IP
	// used for login throttling is always the TCP peer.
	TrustedProxies []string
}

// Server owns the gin engine and the route table guarding it.
type Server struct {
	engine *campusAuth.Engine
	table  *middleware.RouteTable
	router *gin.Engine
	logger zerolog.Logger
	opts   Options
}

func New(engine *campusAuth.Engine, opts Options) (*Server, error) {
	s := &Server{
		engine: engine,
		table:  middleware.NewRouteTable().OnDecision(engine.RecordAccessDecision),
		router: gin.New(),
		logger: engine.Logger().With().Str("component", "api").Logger(),
		opts:   opts,
	}

	if err := s.router.SetTrustedProxies(opts.TrustedProxies); err != nil {
		return nil, fmt.Errorf("api: trusted proxies: %w", err)
	}

	s.router.Use(gin.Recovery(), s.accessLog(), cors.New(corsConfig(opts.AllowOrigins)))
	s.router.Use(ginauth.Authenticate(engine), ginauth.Require(s.table))
	s.routes()
	return s, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Table exposes the route policy, mainly for tests and diagnostics.
func (s *Server) Table() *middleware.RouteTable {
	return s.table
}

func (s *Server) routes() {
	registerRoles := middleware.Only(campusAuth.RoleAdmin)
	if s.engine.Config().Registration.AllowOpenRegistration {
		registerRoles = middleware.Public
	}

	s.route(http.MethodGet, "/healthz", middleware.Public, s.health)
	s.route(http.MethodPost, "/api/auth/login", middleware.Public, s.login)
	s.route(http.MethodPost, "/api/auth/register/admin", registerRoles, s.registerAdmin)
	s.route(http.MethodGet, "/api/auth/me", middleware.AnyAuthenticated, s.me)

	s.route(http.MethodGet, "/api/admin/ping", middleware.Only(campusAuth.RoleAdmin), s.ping)
	s.route(http.MethodGet, "/api/educator/ping", middleware.Only(campusAuth.RoleEducator), s.ping)
	s.route(http.MethodGet, "/api/student/ping", middleware.Only(campusAuth.RoleStudent), s.ping)

	if s.opts.Metrics != nil {
		s.table.Allow(http.MethodGet, "/metrics", middleware.Public)
		s.router.GET("/metrics", gin.WrapH(s.opts.Metrics))
	}
}

func (s *Server) route(method, path string, roles middleware.RoleSet, h ginauth.HandlerFunc) {
	s.table.Allow(method, path, roles)
	s.router.Handle(method, path, ginauth.Handle(h))
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	return cfg
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := s.logger.Debug()
		if status >= http.StatusInternalServerError {
			ev = s.logger.Error()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}
