package usermovies

import (
	"context"

	"soulfilmes/errs"
	"soulfilmes/movie"
	"soulfilmes/user"
)

// LocalGateway serves the modal straight from the movie and user use cases,
// skipping the REST API.
type LocalGateway struct {
	Users  user.Service
	Movies movie.Service
}

func NewLocalGateway(users user.Service, movies movie.Service) *LocalGateway {
	return &LocalGateway{Users: users, Movies: movies}
}

func (g *LocalGateway) GetUser(ctx context.Context, userID string) (user.User, error) {
	return g.Users.GetUserByID(ctx, userID)
}

func (g *LocalGateway) GetUserMovies(ctx context.Context, userID string) ([]movie.Movie, error) {
	return g.Movies.ListUserMovies(ctx, userID)
}

func (g *LocalGateway) GetMovies(ctx context.Context) ([]movie.Movie, error) {
	return g.Movies.ListMovies(ctx)
}

// AddMovieToUser reports domain failures as an unsuccessful response and
// only returns an error for internal ones.
func (g *LocalGateway) AddMovieToUser(ctx context.Context, userID, movieID string) (AddResponse, error) {
	if _, err := g.Movies.AddUserMovie(ctx, userID, movieID); err != nil {
		if errs.ErrorCode(err) == errs.EINTERNAL {
			return AddResponse{}, err
		}
		return AddResponse{Success: false, Message: errs.ErrorMessage(err)}, nil
	}
	return AddResponse{Success: true, Data: &AddData{Message: msgAddedFallback}}, nil
}

func (g *LocalGateway) RemoveMovieFromUser(ctx context.Context, userID, movieID string) error {
	return g.Movies.RemoveUserMovie(ctx, userID, movieID)
}

func (g *LocalGateway) ListUsers(ctx context.Context) ([]user.User, error) {
	return g.Users.ListUsers(ctx)
}
