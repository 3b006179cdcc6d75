package movie

import (
	"context"
	"strings"

	"soulfilmes/errs"
)

var ErrUserIDRequired = errs.Errorf(errs.EINVALID, "user id is required")

type Service interface {
	ListMovies(ctx context.Context) ([]Movie, error)
	ListUserMovies(ctx context.Context, userID string) ([]Movie, error)
	AddUserMovie(ctx context.Context, userID, movieID string) (Movie, error)
	RemoveUserMovie(ctx context.Context, userID, movieID string) error
}

type Repository interface {
	AllMovies(ctx context.Context) ([]Movie, error)
	GetByID(ctx context.Context, id int64) (Movie, error)
	MoviesByUser(ctx context.Context, userID string) ([]Movie, error)
	AddToUser(ctx context.Context, userID string, movieID int64) error
	RemoveFromUser(ctx context.Context, userID string, movieID int64) error
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

func (uc *Usecase) ListMovies(ctx context.Context) ([]Movie, error) {
	return uc.r.AllMovies(ctx)
}

func (uc *Usecase) ListUserMovies(ctx context.Context, userID string) ([]Movie, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUserIDRequired
	}
	return uc.r.MoviesByUser(ctx, userID)
}

// AddUserMovie links an existing movie to the user and returns it.
func (uc *Usecase) AddUserMovie(ctx context.Context, userID, movieID string) (Movie, error) {
	if strings.TrimSpace(userID) == "" {
		return Movie{}, ErrUserIDRequired
	}
	id, err := ParseID(movieID)
	if err != nil {
		return Movie{}, err
	}
	m, err := uc.r.GetByID(ctx, id)
	if err != nil {
		return Movie{}, err
	}
	if err := uc.r.AddToUser(ctx, userID, id); err != nil {
		return Movie{}, err
	}
	return m, nil
}

func (uc *Usecase) RemoveUserMovie(ctx context.Context, userID, movieID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrUserIDRequired
	}
	id, err := ParseID(movieID)
	if err != nil {
		return err
	}
	return uc.r.RemoveFromUser(ctx, userID, id)
}
