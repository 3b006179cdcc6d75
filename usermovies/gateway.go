// Package usermovies implements the view-model of the user-movies modal: it
// loads a user's associated movies together with the movie catalog, adds and
// removes associations through a Gateway and keeps the local list in step
// without refetching.
package usermovies

import (
	"context"

	"soulfilmes/movie"
	"soulfilmes/user"
)

// Gateway is the movie API the modal depends on.
type Gateway interface {
	GetUser(ctx context.Context, userID string) (user.User, error)
	GetUserMovies(ctx context.Context, userID string) ([]movie.Movie, error)
	GetMovies(ctx context.Context) ([]movie.Movie, error)
	AddMovieToUser(ctx context.Context, userID, movieID string) (AddResponse, error)
	RemoveMovieFromUser(ctx context.Context, userID, movieID string) error
}

// UserDirectory lists the users shown on the host page.
type UserDirectory interface {
	ListUsers(ctx context.Context) ([]user.User, error)
}

// AddResponse is the structured answer of an add call. A response with
// Success false is a rejection, not a transport error.
type AddResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    *AddData `json:"data,omitempty"`
}

type AddData struct {
	Message string `json:"message"`
}

// Host is what the page embedding the modal exposes to it.
type Host interface {
	// RefreshUsers asks the host to reload its user list.
	RefreshUsers(ctx context.Context)
	// ClearSelectedUser drops the host's reference to the user the modal
	// was opened for.
	ClearSelectedUser(ctx context.Context)
}

// HostFuncs adapts plain functions to Host. Nil functions are skipped.
type HostFuncs struct {
	Refresh       func(ctx context.Context)
	ClearSelected func(ctx context.Context)
}

func (h HostFuncs) RefreshUsers(ctx context.Context) {
	if h.Refresh != nil {
		h.Refresh(ctx)
	}
}

func (h HostFuncs) ClearSelectedUser(ctx context.Context) {
	if h.ClearSelected != nil {
		h.ClearSelected(ctx)
	}
}
