package types

import "time"

// User represents an account in the system.
type User struct {
	// ID is the unique identifier of the user. It is assigned at creation
	// and never changes.
	ID string `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// PasswordHash stores the hashed representation of the user's password.
	// It is returned by the single-user lookup only; creation responses use
	// UserPublicView instead.
	PasswordHash string `json:"passwordHash" db:"password_hash"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// UserPublicView is the representation of a user that is safe to hand to
// any client. It never carries the password hash.
type UserPublicView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PublicView strips the credential fields from the user.
func (u User) PublicView() UserPublicView {
	return UserPublicView{ID: u.ID, Username: u.Username}
}
