// Package httpserver exposes the session endpoints over HTTP using gin.
//
// Routes:
//
//	POST /register  create an account
//	POST /login     open a session, sets the accessToken and tokenId cookies
//	GET  /token     validate the session, reissuing accessToken when needed
//	GET  /logout    revoke the session and clear both cookies
//	GET  /health    liveness probe
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/sessionkeeper/internal/logging"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

// UserService is the session logic the handlers depend on.
type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Validate(ctx context.Context, tokenID, accessToken string) (*services.Validation, error)
	Logout(ctx context.Context, tokenID string) error
}

// Options configures the HTTP transport.
type Options struct {
	Address       string
	AllowedOrigin string
	CookieSecure  bool
	// SessionTTL is the lifetime of the tokenId cookie; it should match the
	// refresh token lifetime.
	SessionTTL time.Duration
	GinMode    string
}

type HTTPServer struct {
	address string
	users   UserService
	logger  logging.Logger
	cookies cookieOptions
	router  *gin.Engine
}

// NewHTTPServer builds the router. It fails when the CORS settings are unusable.
func NewHTTPServer(opts Options, l logging.Logger, us UserService) (*HTTPServer, error) {
	if l == nil {
		l = logging.NewNopLogger()
	}
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{opts.AllowedOrigin}
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
	}
	corsConfig.ExposeHeaders = []string{RequestIDHeader}
	if err := corsConfig.Validate(); err != nil {
		return nil, err
	}

	s := &HTTPServer{
		address: opts.Address,
		users:   us,
		logger:  l.With("module", "http_server"),
		cookies: cookieOptions{
			secure:     opts.CookieSecure,
			sessionTTL: opts.SessionTTL,
		},
	}

	router := gin.New()
	router.Use(requestID(), accessLog(s.logger), recovery(s.logger))
	router.Use(cors.New(corsConfig))
	s.setupRoutes(router)
	s.router = router

	return s, nil
}

func (s *HTTPServer) setupRoutes(router *gin.Engine) {
	router.GET("/health", handleHealth)

	router.POST("/register", s.register)
	router.POST("/login", s.login)
	router.GET("/logout", s.logout)
	router.GET("/token", s.token)
}

// Handler exposes the router, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	stopped := make(chan struct{})
	defer close(stopped)

	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "HTTP server shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
