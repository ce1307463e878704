package echodash

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/application"
	"github.com/trezcool/mediateam/core/auth"
	"github.com/trezcool/mediateam/core/college"
	sessionsvc "github.com/trezcool/mediateam/services/session"
)

type (
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Translator ut.Translator
		Sessions   *sessionsvc.Store
		Limiter    core.Limiter
		AuthSvc    *auth.Service
		AppSvc     *application.Service
		CollegeSvc *college.Service

		DisableReqLogs bool
		DisableCSRF    bool
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) (*Server, error) {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	rdr, err := newRenderer(deps.Conf.AppName)
	if err != nil {
		return nil, err
	}
	s.app.Renderer = rdr
	s.setup()
	return s, nil
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Logger.SetLevel(log.INFO)
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout
	// client IPs key the login rate limit, so forwarding headers are only read behind a known proxy
	if conf.Server.TrustProxy {
		s.app.IPExtractor = echo.ExtractIPFromXFFHeader()
	} else {
		s.app.IPExtractor = echo.ExtractIPDirect()
	}

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	}))
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.Secure())
	if !s.deps.DisableCSRF {
		s.app.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
			TokenLookup:    "form:" + csrfField,
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   conf.Session.Secure,
		}))
	}
	s.app.Use(sessionMiddleware(s.deps.Sessions))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.AuthSvc, s.signalShutdown)

	s.app.GET("/health", health)

	registerAuthRoutes(s.app, s.deps)

	pg := s.app.Group("", gateMiddleware)
	registerApplicationRoutes(pg, s.deps)
	registerCollegeRoutes(pg, s.deps)
}

func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

// Errors receives the error that stopped the server.
func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"ok": true})
}
