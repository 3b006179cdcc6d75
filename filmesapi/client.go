// Package filmesapi is the REST adapter of the user-movies gateway.
package filmesapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"soulfilmes/errs"
	"soulfilmes/movie"
	"soulfilmes/pkg/logger"
	"soulfilmes/user"
	"soulfilmes/usermovies"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.SugaredLogger
}

// Client talks to the movie API over HTTP.
type Client struct {
	http *resty.Client
	log  *zap.SugaredLogger
}

func New(opts Options) *Client {
	if opts.Logger == nil {
		opts.Logger = logger.NOOPLogger
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		rc.SetTimeout(opts.Timeout)
	}
	return &Client{http: rc, log: opts.Logger}
}

type apiError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e *apiError) text() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

type addRequest struct {
	MovieID string `json:"filmeId"`
}

type addBody struct {
	Success *bool               `json:"success"`
	Message string              `json:"message"`
	Data    *usermovies.AddData `json:"data"`
}

func (c *Client) ListUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&users).
		SetError(&apiError{}).
		Get("/usuarios")
	if err := c.check(resp, err, "list users"); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, userID string) (user.User, error) {
	var u user.User
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", userID).
		SetResult(&u).
		SetError(&apiError{}).
		Get("/usuarios/{id}")
	if err := c.check(resp, err, "get user"); err != nil {
		return user.User{}, err
	}
	return u, nil
}

func (c *Client) GetUserMovies(ctx context.Context, userID string) ([]movie.Movie, error) {
	var movies []movie.Movie
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", userID).
		SetResult(&movies).
		SetError(&apiError{}).
		Get("/usuarios/{id}/filmes")
	if err := c.check(resp, err, "get user movies"); err != nil {
		return nil, err
	}
	return movies, nil
}

func (c *Client) GetMovies(ctx context.Context) ([]movie.Movie, error) {
	var movies []movie.Movie
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&movies).
		SetError(&apiError{}).
		Get("/filmes")
	if err := c.check(resp, err, "get movies"); err != nil {
		return nil, err
	}
	return movies, nil
}

// AddMovieToUser maps any HTTP answer to an AddResponse; only transport
// failures are returned as errors.
func (c *Client) AddMovieToUser(ctx context.Context, userID, movieID string) (usermovies.AddResponse, error) {
	var body addBody
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", userID).
		SetBody(addRequest{MovieID: movieID}).
		SetResult(&body).
		SetError(&apiError{}).
		Post("/usuarios/{id}/filmes")
	if err != nil {
		c.log.Errorw("add movie request failed", "user_id", userID, "movie_id", movieID, "error", err)
		return usermovies.AddResponse{}, fmt.Errorf("add movie: %w", err)
	}

	if resp.IsError() {
		msg := resp.Error().(*apiError).text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return usermovies.AddResponse{Success: false, Message: msg}, nil
	}

	out := usermovies.AddResponse{Success: true, Message: body.Message, Data: body.Data}
	if body.Success != nil {
		out.Success = *body.Success
	}
	if out.Data == nil && body.Message != "" && out.Success {
		out.Data = &usermovies.AddData{Message: body.Message}
	}
	return out, nil
}

func (c *Client) RemoveMovieFromUser(ctx context.Context, userID, movieID string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"id": userID, "filmeId": movieID}).
		SetError(&apiError{}).
		Delete("/usuarios/{id}/filmes/{filmeId}")
	return c.check(resp, err, "remove movie")
}

func (c *Client) check(resp *resty.Response, err error, op string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.IsError() {
		return nil
	}

	msg := resp.Error().(*apiError).text()
	if msg == "" {
		msg = fmt.Sprintf("%s: %s", op, resp.Status())
	}
	c.log.Warnw("api error", "op", op, "status", resp.StatusCode(), "message", msg)
	return errs.Errorf(codeFor(resp.StatusCode()), "%s", msg)
}

func codeFor(status int) string {
	switch {
	case status == http.StatusNotFound:
		return errs.ENOTFOUND
	case status == http.StatusConflict:
		return errs.ECONFLICT
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errs.EUNAUTHORIZED
	case status == http.StatusNotImplemented:
		return errs.ENOTIMPLEMENTED
	case status >= 400 && status < 500:
		return errs.EINVALID
	default:
		return errs.EINTERNAL
	}
}
