package postgres

import (
	"context"
	"errors"
	"time"

	"soulfilmes/user"

	"gorm.io/gorm"
)

// UserModel represents the database model for users
type UserModel struct {
	ID        string    `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:nome;not null"`
	Email     string    `gorm:"not null;unique"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "usuarios"
}

// UserRepository implements user.Repository interface
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// AllUsers fetches all users ordered by name
func (r *UserRepository) AllUsers(ctx context.Context) ([]user.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("nome, id").Find(&models).Error; err != nil {
		return nil, err
	}

	users := make([]user.User, len(models))
	for i, model := range models {
		users[i] = toDomainUser(model)
	}
	return users, nil
}

// GetByID fetches a user by id
func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	var model UserModel

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || isInvalidText(err) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}

	return toDomainUser(model), nil
}

// CreateUser inserts a user; an empty id is generated by the database.
func (r *UserRepository) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	model := UserModel{ID: u.ID, Name: u.Name, Email: u.Email}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return user.User{}, err
	}
	return toDomainUser(model), nil
}

func toDomainUser(model UserModel) user.User {
	return user.User{
		ID:    model.ID,
		Name:  model.Name,
		Email: model.Email,
	}
}
