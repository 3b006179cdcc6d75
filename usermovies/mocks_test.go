package usermovies_test

import (
	"context"
	"testing"

	"soulfilmes/movie"
	"soulfilmes/user"
	"soulfilmes/usermovies"

	"github.com/stretchr/testify/mock"
)

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetUser(ctx context.Context, userID string) (user.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockGateway) GetUserMovies(ctx context.Context, userID string) ([]movie.Movie, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockGateway) GetMovies(ctx context.Context) ([]movie.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]movie.Movie), args.Error(1)
}

func (m *MockGateway) AddMovieToUser(ctx context.Context, userID, movieID string) (usermovies.AddResponse, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Get(0).(usermovies.AddResponse), args.Error(1)
}

func (m *MockGateway) RemoveMovieFromUser(ctx context.Context, userID, movieID string) error {
	args := m.Called(ctx, userID, movieID)
	return args.Error(0)
}

func (m *MockGateway) ListUsers(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]user.User), args.Error(1)
}

type MockHost struct {
	mock.Mock
}

func (m *MockHost) RefreshUsers(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockHost) ClearSelectedUser(ctx context.Context) {
	m.Called(ctx)
}

// openLoaded opens a modal for userID with the given association list and
// catalog and waits for the loads to settle.
func openLoaded(t *testing.T, gw *MockGateway, host usermovies.Host, userID string, movies, catalog []movie.Movie) (*usermovies.Modal, *usermovies.Toasts) {
	t.Helper()
	gw.On("GetUser", mock.Anything, userID).Return(user.User{ID: userID, Name: "Ana"}, nil).Once()
	gw.On("GetUserMovies", mock.Anything, userID).Return(movies, nil).Once()
	gw.On("GetMovies", mock.Anything).Return(catalog, nil).Once()

	toasts := new(usermovies.Toasts)
	m := usermovies.NewModal(usermovies.Options{
		Gateway:  gw,
		Notifier: toasts,
		Host:     host,
	})
	m.Open(context.Background(), userID).Wait()
	return m, toasts
}
