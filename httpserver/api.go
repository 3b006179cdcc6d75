package httpserver

import (
	"net/http"

	"soulfilmes/usermovies"

	"github.com/labstack/echo/v4"
)

// ModalResult is the JSON rendition of the modal after an operation.
type ModalResult struct {
	Modal         usermovies.View           `json:"modal"`
	Notifications []usermovies.Notification `json:"notifications,omitempty"`
	Redirect      string                    `json:"redirect,omitempty"`
}

func (s *Server) RegisterAPIRoutes(g *echo.Group) {
	g.GET("/usuarios", s.handleAPIListUsers)
	g.GET("/usuarios/:id/filmes", s.handleAPIOpenModal)
	g.POST("/usuarios/:id/filmes", s.handleAPIAddMovie)
	g.DELETE("/usuarios/:id/filmes/:filmeId", s.handleAPIRemoveMovie)
}

func (s *Server) handleAPIListUsers(c echo.Context) error {
	users, err := operatorSession(c).Users(c.Request().Context())
	if err != nil {
		return err
	}
	return writeList(c, http.StatusOK, users)
}

// handleAPIOpenModal opens (or reopens, refetching everything) the modal.
func (s *Server) handleAPIOpenModal(c echo.Context) error {
	sess := operatorSession(c)
	if err := s.openModal(c, sess, c.Param("id")); err != nil {
		return err
	}
	return writeSuccess(c, http.StatusOK, modalResult(sess, usermovies.Result{}))
}

func (s *Server) handleAPIAddMovie(c echo.Context) error {
	sess := operatorSession(c)

	var req AddMovieRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := s.ensureModal(c, sess, c.Param("id")); err != nil {
		return err
	}

	sess.Modal.Select(req.Selection())
	res, err := sess.Modal.Add(c.Request().Context())
	if err != nil {
		sess.Toasts.Drain()
		return err
	}
	return writeSuccess(c, http.StatusCreated, modalResult(sess, res))
}

func (s *Server) handleAPIRemoveMovie(c echo.Context) error {
	sess := operatorSession(c)
	if err := s.ensureModal(c, sess, c.Param("id")); err != nil {
		return err
	}

	res, err := sess.Modal.Remove(c.Request().Context(), c.Param("filmeId"))
	if err != nil {
		sess.Toasts.Drain()
		return err
	}
	return writeSuccess(c, http.StatusOK, modalResult(sess, res))
}

func modalResult(sess *usermovies.Session, res usermovies.Result) ModalResult {
	return ModalResult{
		Modal:         sess.Modal.View(),
		Notifications: sess.Toasts.Drain(),
		Redirect:      res.Redirect,
	}
}
