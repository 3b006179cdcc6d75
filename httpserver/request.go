package httpserver

import "strings"

// AddMovieRequest is the body of an add, either the modal form or JSON.
type AddMovieRequest struct {
	MovieID string `json:"filmeId" form:"filmeId" validate:"required,notblank,numeric"`
}

func (r AddMovieRequest) Selection() string {
	return strings.TrimSpace(r.MovieID)
}
