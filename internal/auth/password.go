package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidPassword = errors.New("invalid password")

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func ComparePassword(hash, password string) error {
	if hash == "" || password == "" {
		return errors.New("missing hash or password")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// PasswordChecker verifies the shared admin password sent as a bearer token.
// When only a plaintext password is configured it is hashed once at
// construction so every check goes through bcrypt.
type PasswordChecker struct {
	hash string
}

func NewPasswordChecker(plain, hash string) (*PasswordChecker, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, err
		}
		return &PasswordChecker{hash: hash}, nil
	}
	if plain == "" {
		return nil, nil
	}
	hashed, err := HashPassword(plain)
	if err != nil {
		return nil, err
	}
	return &PasswordChecker{hash: hashed}, nil
}

func (c *PasswordChecker) Check(password string) error {
	if c == nil || password == "" {
		return ErrInvalidPassword
	}
	if err := ComparePassword(c.hash, password); err != nil {
		return ErrInvalidPassword
	}
	return nil
}
