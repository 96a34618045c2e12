package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/aulaflow/scheduler/internal/directory"
	"github.com/aulaflow/scheduler/internal/scheduling"
)

type Options struct {
	Addr     string
	Sessions *scheduling.Service
	Teachers *directory.TeacherService
	Students *directory.StudentService
	Logger   *zap.Logger
}

// Server is the REST surface over the booking engine and the directory.
type Server struct {
	app  *echo.Echo
	addr string
}

func NewServer(opts Options) *Server {
	app := echo.New()
	app.HideBanner = true
	app.HidePort = true

	app.Pre(middleware.RemoveTrailingSlash())
	app.Use(middleware.Recover())
	app.Validator = requestValidator{}
	app.HTTPErrorHandler = newHTTPErrorHandler(opts.Logger)

	app.GET("/healthz", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	v1 := app.Group("/v1")
	registerSessionAPI(v1, opts.Sessions)
	registerTeacherAPI(v1, opts.Teachers)
	registerStudentAPI(v1, opts.Students)

	return &Server{app: app, addr: opts.Addr}
}

func (s *Server) Start() error {
	return s.app.Start(s.addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// ServeHTTP lets tests drive the router without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}
