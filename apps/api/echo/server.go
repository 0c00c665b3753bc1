package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Shakso89/pokeayman-16-sub001/core"
	"github.com/Shakso89/pokeayman-16-sub001/core/assignment"
	"github.com/Shakso89/pokeayman-16-sub001/core/ledger"
	"github.com/Shakso89/pokeayman-16-sub001/core/organization"
	"github.com/Shakso89/pokeayman-16-sub001/core/pool"
	"github.com/Shakso89/pokeayman-16-sub001/core/reward"
	"github.com/Shakso89/pokeayman-16-sub001/core/wheel"
)

type (
	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Auth       *Auth

		OrgSvc        *organization.Service
		PoolSvc       *pool.Service
		AssignmentSvc *assignment.Service
		LedgerSvc     *ledger.Service
		WheelSvc      *wheel.Service
		RewardSvc     *reward.Service

		Metrics        http.Handler // mounted on /metrics when set
		DisableReqLogs bool
	}

	Server struct {
		deps     *Deps
		app      *echo.Echo
		shutdown chan os.Signal
		errors   chan error
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(addr string, deps *Deps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	s.app.Server.Addr = addr
	s.app.HideBanner = true
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug
	s.app.Server.ReadTimeout = conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = conf.Server.WriteTimeout

	s.app.GET("/", home)
	if s.deps.Metrics != nil {
		s.app.GET("/metrics", echo.WrapHandler(s.deps.Metrics))
	}

	v1 := s.app.Group("/v1")
	jwt := s.deps.Auth.Middleware()

	registerOrganizationAPI(v1, jwt, s.deps)
	registerPoolAPI(v1, jwt, s.deps)

	// per-student endpoints
	sg := v1.Group("/students/:"+studentParam, jwt, selfOrStaffMiddleware)
	registerAssignmentAPI(sg, s.deps)
	registerLedgerAPI(sg, s.deps)
	registerWheelAPI(sg, s.deps)

	registerRewardAPI(v1, jwt, s.deps)
}

// Start blocks until the server stops; a failure is reported on Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.StartServer(s.app.Server); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to PokeAyman API!")
}
