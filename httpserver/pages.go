package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"soulfilmes/errs"
	"soulfilmes/user"
	"soulfilmes/usermovies"

	"github.com/labstack/echo/v4"
)

const (
	usersPath      = "/usuarios"
	msgUsersFailed = "Não foi possível carregar a lista de usuários."
)

type usersPage struct {
	Users      []user.User
	UsersError string
	Selected   string
	Modal      *usermovies.View
	Toasts     []usermovies.Notification
	Notice     string
	CSRFToken  string
}

func (s *Server) RegisterPageRoutes(g *echo.Group) {
	g.GET("/", s.handleIndex)
	g.GET(usersPath, s.handleUsersPage)
	g.GET(usersPath+"/:id/filmes", s.handleOpenModal)
	g.POST(usersPath+"/:id/filmes", s.handleAddMovie)
	g.POST(usersPath+"/:id/filmes/:filmeId/remover", s.handleRemoveMovie)
	g.POST(usersPath+"/:id/fechar", s.handleCloseModal)
}

func (s *Server) handleIndex(c echo.Context) error {
	return c.Redirect(http.StatusFound, usersPath)
}

// handleUsersPage renders the user list. The modal is shown while it is open
// for the selected user; ?usuario=<id> opens it.
func (s *Server) handleUsersPage(c echo.Context) error {
	sess := operatorSession(c)

	if id := strings.TrimSpace(c.QueryParam("usuario")); id != "" {
		if err := s.openModal(c, sess, id); err != nil {
			return err
		}
	}

	return s.renderUsersPage(c, sess, http.StatusOK, "")
}

func (s *Server) handleOpenModal(c echo.Context) error {
	sess := operatorSession(c)
	if err := s.openModal(c, sess, c.Param("id")); err != nil {
		return err
	}
	return s.renderUsersPage(c, sess, http.StatusOK, "")
}

func (s *Server) handleAddMovie(c echo.Context) error {
	sess := operatorSession(c)

	var req AddMovieRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := s.ensureModal(c, sess, c.Param("id")); err != nil {
		return err
	}

	sess.Modal.Select(req.Selection())
	res, err := sess.Modal.Add(c.Request().Context())
	return s.afterMutation(c, sess, res, err)
}

func (s *Server) handleRemoveMovie(c echo.Context) error {
	sess := operatorSession(c)
	if err := s.ensureModal(c, sess, c.Param("id")); err != nil {
		return err
	}

	res, err := sess.Modal.Remove(c.Request().Context(), c.Param("filmeId"))
	return s.afterMutation(c, sess, res, err)
}

func (s *Server) handleCloseModal(c echo.Context) error {
	sess := operatorSession(c)
	sess.Modal.Close(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, usersPath)
}

// afterMutation follows the redirect a mutation asked for. Without one the
// page is rendered again; the modal has already queued its notification.
func (s *Server) afterMutation(c echo.Context, sess *usermovies.Session, res usermovies.Result, err error) error {
	if res.Redirect != "" {
		return c.Redirect(http.StatusSeeOther, res.Redirect)
	}

	var notice string
	if errors.Is(err, usermovies.ErrNoSelection) || errors.Is(err, usermovies.ErrOperationInProgress) {
		notice = errs.ErrorMessage(err)
	}
	status := http.StatusOK
	if err != nil {
		status = statusFor(err)
	}
	return s.renderUsersPage(c, sess, status, notice)
}

func (s *Server) renderUsersPage(c echo.Context, sess *usermovies.Session, status int, notice string) error {
	users, err := sess.Users(c.Request().Context())
	page := usersPage{
		Users:     users,
		Selected:  sess.SelectedUser(),
		Notice:    notice,
		CSRFToken: csrfToken(c),
	}
	if err != nil {
		page.UsersError = msgUsersFailed
	}
	if page.Selected != "" && sess.Modal.State() != usermovies.StateClosed {
		v := sess.Modal.View()
		page.Modal = &v
	}
	page.Toasts = sess.Toasts.Drain()

	return s.render(c, status, "usuarios.html", page)
}

// openModal selects id on the host and opens the modal for it, waiting for
// the loads to settle before the page is rendered.
func (s *Server) openModal(c echo.Context, sess *usermovies.Session, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return user.ErrUserIDRequired
	}

	ctx := c.Request().Context()
	sess.SelectUser(id)
	loading := sess.Modal.Open(ctx, id)

	select {
	case <-loading.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ensureModal opens the modal for id unless it is already showing it.
func (s *Server) ensureModal(c echo.Context, sess *usermovies.Session, id string) error {
	id = strings.TrimSpace(id)
	if sess.Modal.State() != usermovies.StateClosed && sess.Modal.UserID() == id && sess.SelectedUser() == id {
		return nil
	}
	return s.openModal(c, sess, id)
}
