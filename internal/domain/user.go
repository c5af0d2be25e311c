package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User validation errors.
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrPasswordTooShort = errors.New("password must be at least 12 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
	ErrEmptyPassword    = errors.New("password cannot be empty")
)

const (
	minPasswordLength = 12
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

// User is a registered account. Every task and gamification profile
// belongs to exactly one user.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // plaintext, only held between request and hashing
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a validated User holding the plaintext password.
// The caller must hash the password before the user is stored.
func NewUser(email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks the user's identity and credential fields.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password == "" {
		// Stored users only carry the hash.
		if u.HashedPassword == "" {
			return ErrEmptyPassword
		}
		return nil
	}

	switch n := len(u.Password); {
	case n < minPasswordLength:
		return ErrPasswordTooShort
	case n > maxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// validEmailFormat requires a non-empty local part and a dotted domain.
func validEmailFormat(email string) bool {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at != strings.LastIndexByte(email, '@') {
		return false
	}
	host := email[at+1:]
	dot := strings.IndexByte(host, '.')
	return dot > 0 && dot < len(host)-1
}
