package domain

import (
	"errors"
	"net/mail"
	"time"

	"github.com/google/uuid"
)

// User-specific validation errors.
var (
	// ErrUserEmailInvalid is returned when a user's email address fails parsing.
	ErrUserEmailInvalid = errors.New("user email is invalid")

	// ErrPasswordTooShort is returned when a plaintext password is below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

// MinPasswordLength is the minimum accepted plaintext password length.
const MinPasswordLength = 8

// User is an authenticated account. Password carries the plaintext only
// between request decoding and hashing; it is never persisted or logged.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given email and plaintext password.
// Returns an error if validation fails.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     email,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return ErrUserEmailInvalid
	}
	if u.HashedPassword == "" && len(u.Password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
