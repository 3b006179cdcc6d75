package httpserver

import (
	"fmt"
	"net/http"

	"soulfilmes/errs"
	"soulfilmes/pkg/config"
	"soulfilmes/usermovies"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Session keys
const (
	sessionName       = "soulfilmes-session"
	sessionKeyID      = "id"
	contextKeySession = "operator_session"
)

var errSessionsNotConfigured = errs.Errorf(errs.ENOTIMPLEMENTED, "user movies not configured")

func newSessionStore(cfg *config.Config) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(cfg.Session.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.MaxIdle.Seconds()),
		HttpOnly: true,
		Secure:   cfg.AppEnv == "production",
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func csrfMiddleware(cfg *config.Config) echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "form:csrf_token,header:X-CSRF-Token",
		CookieName:     "csrf_token",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.AppEnv == "production",
		CookieSameSite: http.SameSiteStrictMode,
	})
}

// sessionMiddleware attaches the operator's usermovies session to the
// request. The signed cookie is written on every request so its MaxAge
// follows the registry's idle timer.
func (s *Server) sessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.Sessions == nil {
				return errSessionsNotConfigured
			}

			cookie, err := s.SessionStore.Get(c.Request(), sessionName)
			if err != nil {
				s.Logger.Debugw("discarding unreadable session cookie", "error", err)
			}

			id, _ := cookie.Values[sessionKeyID].(string)
			sess := s.Sessions.Session(id)
			cookie.Values[sessionKeyID] = sess.ID
			if err := cookie.Save(c.Request(), c.Response()); err != nil {
				return fmt.Errorf("save session: %w", err)
			}

			c.Set(contextKeySession, sess)
			return next(c)
		}
	}
}

func operatorSession(c echo.Context) *usermovies.Session {
	return c.Get(contextKeySession).(*usermovies.Session)
}

func csrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
