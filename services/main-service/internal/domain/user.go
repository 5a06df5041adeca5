package domain

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

type User struct {
	ID    int64
	Name  string
	Email string
}

type UserShort struct {
	ID   int64
	Name string
}

func NewUser(name, email string) (*User, error) {
	u := &User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if err := validateText("name", u.Name, 2, 250); err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(u.Email); n < 6 || n > 254 {
		return nil, ErrValidationMeta("invalid email", map[string]string{"email": "length must be between 6 and 254"})
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return nil, ErrValidationMeta("invalid email", map[string]string{"email": "must be a valid email address"})
	}
	return u, nil
}
