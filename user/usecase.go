package user

import (
	"context"
	"strings"
)

type Service interface {
	ListUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
}

type Repository interface {
	AllUsers(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

func (uc *Usecase) ListUsers(ctx context.Context) ([]User, error) {
	return uc.r.AllUsers(ctx)
}

func (uc *Usecase) GetUserByID(ctx context.Context, id string) (User, error) {
	if strings.TrimSpace(id) == "" {
		return User{}, ErrUserIDRequired
	}
	return uc.r.GetByID(ctx, id)
}
