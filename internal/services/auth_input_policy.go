package services

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"
)

const maxFullNameLength = 120

var (
	ErrAuthCredentialsInvalid = errors.New("auth credentials invalid")
	ErrPasswordMismatch       = errors.New("passwords do not match")
	ErrFullNameTooLong        = errors.New("full name too long")
)

func NormalizeAuthEmail(raw string) string {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return ""
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ""
	}
	return email
}

func NormalizeCredentialsInput(emailRaw string, passwordRaw string) (string, string, error) {
	email := NormalizeAuthEmail(emailRaw)
	password := strings.TrimSpace(passwordRaw)
	if email == "" || password == "" {
		return "", "", ErrAuthCredentialsInvalid
	}
	return email, password, nil
}

// NormalizeFullName collapses inner whitespace. An empty result is allowed.
func NormalizeFullName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if utf8.RuneCountInString(name) > maxFullNameLength {
		return "", ErrFullNameTooLong
	}
	return name, nil
}
