package echoapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Djaner15/EduPlatform/core"
	"github.com/Djaner15/EduPlatform/core/lesson"
	"github.com/Djaner15/EduPlatform/core/quiz"
	"github.com/Djaner15/EduPlatform/core/subject"
	"github.com/Djaner15/EduPlatform/core/user"
)

type (
	Options struct {
		Conf   *core.Config
		Logger core.Logger
	}

	Deps struct {
		AuthSvc    *user.AuthService
		UserSvc    *user.Service
		SubjectSvc *subject.Service
		LessonSvc  *lesson.Service
		QuizSvc    *quiz.Service
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		deps *Deps
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options, deps *Deps) Server {
	s := &server{
		opts: opts,
		deps: deps,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.JSONSerializer = sonicSerializer{}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: conf.Cors.AllowOrigins,
		AllowMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType},
	}))

	s.app.GET("/", home)

	g := s.app.Group("/api")
	jwt := jwtMiddleware(conf, false)
	optJwt := jwtMiddleware(conf, true)
	admin := []echo.MiddlewareFunc{jwt, adminMiddleware}

	registerAuthAPI(g, jwt, s.deps.AuthSvc)
	registerUserAPI(g, admin, s.deps.UserSvc)
	registerSubjectAPI(g, admin, s.deps.SubjectSvc)
	registerLessonAPI(g, admin, s.deps.LessonSvc)
	registerQuizAPI(g, jwt, optJwt, admin, s.deps.QuizSvc)
	registerAdminAPI(g, admin, s.deps.UserSvc, s.deps.QuizSvc)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Conf.Server.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to EduPlatform API!")
}
