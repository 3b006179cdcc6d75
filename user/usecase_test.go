package user_test

import (
	"context"
	"testing"

	"soulfilmes/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock User Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) AllUsers(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func TestListUsers(t *testing.T) {
	r := new(MockUserRepository)
	uc := user.NewUsecase(r)

	t.Run("should return list of users", func(t *testing.T) {
		users := []user.User{
			{ID: "u-1", Name: "Ana", Email: "ana@mail.com"},
			{ID: "u-2", Name: "Bruno", Email: "bruno@mail.com"},
		}
		r.On("AllUsers", mock.Anything).Return(users, nil).Once()

		result, err := uc.ListUsers(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, users, result)
		r.AssertExpectations(t)
	})
}

func TestGetUserByID(t *testing.T) {
	r := new(MockUserRepository)
	uc := user.NewUsecase(r)

	t.Run("should fetch by id", func(t *testing.T) {
		u := user.User{ID: "u-1", Name: "Ana"}
		r.On("GetByID", mock.Anything, "u-1").Return(u, nil).Once()

		result, err := uc.GetUserByID(context.Background(), "u-1")

		assert.NoError(t, err)
		assert.Equal(t, u, result)
	})

	t.Run("should fail on empty id", func(t *testing.T) {
		_, err := uc.GetUserByID(context.Background(), "")

		assert.Equal(t, user.ErrUserIDRequired, err)
		r.AssertNotCalled(t, "GetByID", mock.Anything, "")
	})
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Ana", user.User{ID: "1", Name: "Ana", Email: "a@b"}.DisplayName())
	assert.Equal(t, "a@b", user.User{ID: "1", Email: "a@b"}.DisplayName())
	assert.Equal(t, "1", user.User{ID: "1"}.DisplayName())
}
