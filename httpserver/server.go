package httpserver

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"soulfilmes/errs"
	"soulfilmes/pkg/config"
	"soulfilmes/pkg/logger"
	"soulfilmes/pkg/metrics"
	"soulfilmes/pkg/sentry"
	"soulfilmes/usermovies"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	// Sessions holds one user-movies modal per operator
	Sessions *usermovies.Registry

	// SessionStore signs the cookie carrying the operator session id
	SessionStore sessions.Store

	Metrics *prometheus.Registry

	Logger *zap.SugaredLogger

	templates *template.Template
}

func Default(cfg *config.Config) *Server {
	s := Server{
		Router:       echo.New(),
		Addr:         ":8080",
		AllowOrigins: []string{"*"},
		SessionStore: newSessionStore(cfg),
		Metrics:      metrics.NewRegistry(),
		Logger:       logger.NOOPLogger,
		templates:    parseTemplates(),
	}
	if cfg.AllowOrigins != "" {
		s.AllowOrigins = strings.Split(cfg.AllowOrigins, ",")
	}

	s.Router.HideBanner = true
	s.Router.HTTPErrorHandler = s.customHTTPErrorHandler
	s.Router.Validator = NewValidator()
	s.RegisterGlobalMiddlewares()

	// operator pages and their JSON twin share the session and CSRF cookies
	app := s.Router.Group("", s.sessionMiddleware(), csrfMiddleware(cfg))
	s.RegisterPageRoutes(app)
	s.RegisterAPIRoutes(app.Group("/api"))

	s.RegisterHealthRoutes()
	s.RegisterMetricsRoutes()
	return &s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(s.requestLogger())
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				s.Logger.Warnw("request", append(fields, "error", v.Error)...)
				return nil
			}
			s.Logger.Infow("request", fields...)
			return nil
		},
	})
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// customHTTPErrorHandler maps application errors to appropriate HTTP status codes
func (s *Server) customHTTPErrorHandler(err error, c echo.Context) {
	// already handled inside the request logger
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "Internal server error"

	// Check if it's an Echo HTTPError
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	} else {
		code = statusFor(err)
		if code != http.StatusInternalServerError {
			message = errs.ErrorMessage(err)
		}
	}

	if code >= http.StatusInternalServerError {
		s.Logger.Errorw("request failed", "uri", c.Request().RequestURI, "error", err)
		sentry.WithContext(c).Error(err)
	}

	if err := writeError(c, code, message, "", err); err != nil {
		c.Logger().Error(err)
	}
}

// statusFor maps an application error code to an HTTP status.
func statusFor(err error) int {
	switch errs.ErrorCode(err) {
	case errs.EINVALID:
		return http.StatusBadRequest
	case errs.ENOTFOUND:
		return http.StatusNotFound
	case errs.ECONFLICT:
		return http.StatusConflict
	case errs.EUNAUTHORIZED:
		return http.StatusUnauthorized
	case errs.ENOTIMPLEMENTED:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
