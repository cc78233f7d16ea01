package domain

import (
	"time"

	"github.com/google/uuid"
)

// Field length bounds carried over from the original schema. The password
// ceiling is bcrypt's practical input limit.
const (
	MinNicknameLen = 4
	MaxNicknameLen = 10
	MaxEmailLen    = 50
	MinPasswordLen = 8
	MaxPasswordLen = 72
)

// User represents a registered account. A freshly registered user is
// unconfirmed and cannot log in until the confirmation token sent to their
// email address has been redeemed.
type User struct {
	ID             uuid.UUID `json:"id"`
	Nickname       string    `json:"nickname"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used transiently during registration/updates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Confirmed      bool      `json:"confirmed"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates an unconfirmed User with the given nickname, email and
// password. It generates a new UUID and sets the timestamps.
// Returns an error if validation fails.
//
// NOTE: This function only sets up the user structure with the plaintext
// password. The caller is responsible for hashing it before storage.
func NewUser(nickname, email, password string) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Nickname:  nickname,
		Email:     email,
		Password:  password, // must be hashed before storage
		Confirmed: false,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if nickLen := len(u.Nickname); nickLen < MinNicknameLen || nickLen > MaxNicknameLen {
		return ErrInvalidNickname
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !ValidEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if u.Password != "" {
		// A plaintext password is present (registration or password change).
		switch passLen := len(u.Password); {
		case passLen < MinPasswordLen:
			return ErrPasswordTooShort
		case passLen > MaxPasswordLen:
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the database carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// ValidEmailFormat performs a basic structural check: a non-edge '@' followed
// by a domain containing an interior dot. Thorough RFC 5322 validation happens
// at the API boundary; this guards against obviously broken values reaching
// the store.
func ValidEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 { // minimum would be "a.b"
		return false
	}

	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
