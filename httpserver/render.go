package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFiles embed.FS

func parseTemplates() *template.Template {
	return template.Must(template.ParseFS(templateFiles, "templates/*.html"))
}

func (s *Server) render(c echo.Context, status int, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.Logger.Errorw("template execution failed", "template", name, "path", c.Request().URL.Path, "error", err)
		return fmt.Errorf("render %s: %w", name, err)
	}
	return c.HTMLBlob(status, buf.Bytes())
}
