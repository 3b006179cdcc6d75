package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"soulfilmes/errs"
	"soulfilmes/movie"
	"soulfilmes/user"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 500

var ErrAlreadyAssociated = errs.Errorf(errs.ECONFLICT, "Filme já associado a este usuário.")

var ErrAssociationNotFound = errs.Errorf(errs.ENOTFOUND, "Filme não associado a este usuário.")

// MovieModel represents the database model for movies
type MovieModel struct {
	ID          int64         `gorm:"primaryKey;autoIncrement"`
	Title       string        `gorm:"column:titulo;not null"`
	Genre       string        `gorm:"column:genero;not null;default:''"`
	ReleaseYear sql.NullInt32 `gorm:"column:ano_lancamento"`
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "filmes"
}

// UserMovieModel links a user to a movie
type UserMovieModel struct {
	UserID    string    `gorm:"column:usuario_id;type:uuid;primaryKey"`
	MovieID   int64     `gorm:"column:filme_id;primaryKey"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (UserMovieModel) TableName() string {
	return "usuario_filmes"
}

// MovieRepository implements movie.Repository interface
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// AllMovies fetches the whole catalog ordered by title
func (r *MovieRepository) AllMovies(ctx context.Context) ([]movie.Movie, error) {
	var models []MovieModel
	if err := r.db.WithContext(ctx).Order("titulo, id").Find(&models).Error; err != nil {
		return nil, err
	}
	return toDomainMovies(models), nil
}

// GetByID fetches a single movie
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (movie.Movie, error) {
	var model MovieModel

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return movie.Movie{}, movie.ErrMovieNotFound
		}
		return movie.Movie{}, err
	}

	return toDomainMovie(model), nil
}

// MoviesByUser lists the movies associated with userID in association order
func (r *MovieRepository) MoviesByUser(ctx context.Context, userID string) ([]movie.Movie, error) {
	var models []MovieModel
	err := r.db.WithContext(ctx).
		Joins("JOIN usuario_filmes uf ON uf.filme_id = filmes.id").
		Where("uf.usuario_id = ?", userID).
		Order("uf.created_at, filmes.id").
		Find(&models).Error
	if err != nil {
		if isInvalidText(err) {
			return nil, user.ErrUserNotFound
		}
		return nil, err
	}
	return toDomainMovies(models), nil
}

// AddToUser associates movieID with userID
func (r *MovieRepository) AddToUser(ctx context.Context, userID string, movieID int64) error {
	model := UserMovieModel{UserID: userID, MovieID: movieID}

	err := r.db.WithContext(ctx).Create(&model).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrAlreadyAssociated
	case errors.Is(err, gorm.ErrForeignKeyViolated), isInvalidText(err):
		return user.ErrUserNotFound
	default:
		return err
	}
}

// RemoveFromUser deletes the association between userID and movieID
func (r *MovieRepository) RemoveFromUser(ctx context.Context, userID string, movieID int64) error {
	result := r.db.WithContext(ctx).
		Where("usuario_id = ? AND filme_id = ?", userID, movieID).
		Delete(&UserMovieModel{})
	if result.Error != nil {
		if isInvalidText(result.Error) {
			return ErrAssociationNotFound
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAssociationNotFound
	}

	return nil
}

// CreateMovie inserts a catalog entry and returns it with its id.
func (r *MovieRepository) CreateMovie(ctx context.Context, m movie.Movie) (movie.Movie, error) {
	model := toMovieModel(m)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return movie.Movie{}, err
	}
	return toDomainMovie(model), nil
}

// UpsertMovies writes catalog entries keeping their ids, updating the ones
// already present, and moves the id sequence past the highest id.
func (r *MovieRepository) UpsertMovies(ctx context.Context, movies []movie.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	models := make([]MovieModel, len(movies))
	for i, m := range movies {
		models[i] = toMovieModel(m)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"titulo", "genero", "ano_lancamento"}),
		}).CreateInBatches(&models, upsertBatchSize).Error
		if err != nil {
			return err
		}

		return tx.Exec("SELECT setval(pg_get_serial_sequence('filmes', 'id'), (SELECT MAX(id) FROM filmes))").Error
	})
}

// isInvalidText reports whether postgres rejected a malformed uuid.
func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

func toDomainMovies(models []MovieModel) []movie.Movie {
	movies := make([]movie.Movie, len(models))
	for i, model := range models {
		movies[i] = toDomainMovie(model)
	}
	return movies
}

func toDomainMovie(model MovieModel) movie.Movie {
	m := movie.Movie{
		ID:    model.ID,
		Title: model.Title,
		Genre: model.Genre,
	}
	if model.ReleaseYear.Valid {
		m.ReleaseYear = int(model.ReleaseYear.Int32)
	}
	return m
}

func toMovieModel(m movie.Movie) MovieModel {
	model := MovieModel{
		ID:    m.ID,
		Title: m.Title,
		Genre: m.Genre,
	}
	if m.ReleaseYear > 0 {
		model.ReleaseYear = sql.NullInt32{Int32: int32(m.ReleaseYear), Valid: true}
	}
	return model
}
