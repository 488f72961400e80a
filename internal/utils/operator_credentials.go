package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt silently ignores anything past this many bytes.
const maxOperatorPasswordBytes = 72

var (
	ErrEmptyOperatorPassword   = errors.New("operator password cannot be empty")
	ErrOperatorPasswordTooLong = errors.New("operator password is longer than 72 bytes")
)

// HashOperatorPassword produces the value stored in OPERATOR_PASSWORD_HASH.
func HashOperatorPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyOperatorPassword
	}
	if len(password) > maxOperatorPasswordBytes {
		return "", ErrOperatorPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// OperatorPasswordMatches reports whether password matches the configured hash.
// A malformed hash never matches.
func OperatorPasswordMatches(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
