package user

import (
	"soulfilmes/errs"
)

var (
	ErrUserIDRequired = errs.Errorf(errs.EINVALID, "user: id is required")
	ErrUserNotFound   = errs.Errorf(errs.ENOTFOUND, "user: not found")
)

// User is the account movies are associated with. Only the id matters to
// the user-movies modal; the rest is display data.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"nome,omitempty"`
	Email string `json:"email,omitempty"`
}

// DisplayName returns the best label available for the user.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
