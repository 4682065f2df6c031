package id

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/obudget/obudget/internal/model"
)

const (
	LoginLength    = 8
	PasswordLength = 6
)

var (
	ErrUnknownLogin = errors.New("unknown login")
	ErrBadPassword  = errors.New("incorrect password")
)

// ValidateLogin checks that a login has exactly LoginLength characters.
func ValidateLogin(login string) error {
	if n := utf8.RuneCountInString(login); n != LoginLength {
		return fmt.Errorf("login must have %d characters, got %d", LoginLength, n)
	}
	return nil
}

// ValidatePassword checks that a password has exactly PasswordLength characters.
func ValidatePassword(password string) error {
	if n := utf8.RuneCountInString(password); n != PasswordLength {
		return fmt.Errorf("password must have %d characters, got %d", PasswordLength, n)
	}
	return nil
}

// UserFileName returns the name of a user's data file, "12345678" -> "12345678.txt".
func UserFileName(login string) string {
	return login + ".txt"
}

// Authenticate checks a login/password pair against the identity store.
func Authenticate(ids map[string]model.Identity, login, password string) (model.Identity, error) {
	if err := ValidateLogin(login); err != nil {
		return model.Identity{}, err
	}
	ident, ok := ids[login]
	if !ok {
		return model.Identity{}, fmt.Errorf("%q: %w", login, ErrUnknownLogin)
	}
	if err := ValidatePassword(password); err != nil {
		return model.Identity{}, err
	}
	if ident.Password != password {
		return model.Identity{}, ErrBadPassword
	}
	return ident, nil
}
