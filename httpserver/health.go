package httpserver

import (
	"net/http"

	"soulfilmes/pkg/metrics"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/healthcheck", s.healthCheck)
}

func (s *Server) RegisterMetricsRoutes() {
	s.Router.GET("/metrics", func(c echo.Context) error {
		metrics.Handler(s.Metrics).ServeHTTP(c.Response(), c.Request())
		return nil
	})
}

// healthCheck godoc
// @Summary Health Check
// @Description Check if server is alive
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthcheck [get]
func (s *Server) healthCheck(c echo.Context) error {
	return writeSuccess(c, http.StatusOK, map[string]string{
		"status": "OK",
	})
}
