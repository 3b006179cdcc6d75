package movie

import (
	"strconv"
	"strings"

	"soulfilmes/errs"
)

var (
	ErrInvalidID     = errs.Errorf(errs.EINVALID, "invalid movie id")
	ErrMovieNotFound = errs.Errorf(errs.ENOTFOUND, "movie not found")
)

// Movie is a catalog entry. Title, Genre and ReleaseYear may be absent,
// which is represented by their zero values.
type Movie struct {
	ID          int64  `json:"id"`
	Title       string `json:"titulo,omitempty"`
	Genre       string `json:"genero,omitempty"`
	ReleaseYear int    `json:"anoLancamento,omitempty"`
}

// Key is the movie id as it travels in forms and selections.
func (m Movie) Key() string {
	return strconv.FormatInt(m.ID, 10)
}

// IsZero reports whether m carries no data at all, which is how a null
// entry in an association list arrives.
func (m Movie) IsZero() bool {
	return m == Movie{}
}

// Catalog is the ordered list of every movie available for association.
type Catalog []Movie

// Find looks a movie up by its string id.
func (c Catalog) Find(id string) (Movie, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Movie{}, false
	}
	for _, m := range c {
		if m.Key() == id {
			return m, true
		}
	}
	return Movie{}, false
}

// Contains reports whether a movie with the given string id is present.
func (c Catalog) Contains(id string) bool {
	_, ok := c.Find(id)
	return ok
}

// ParseID converts a string movie id into its numeric form.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
