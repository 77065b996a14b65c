package services

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/shsharma-work/manhwa-translator/internal/apperr"
)

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,50}$`)
)

// PasswordPolicy holds the configurable length bounds; character-class rules
// are fixed (one upper, one lower, one digit).
type PasswordPolicy struct {
	MinLength int
	MaxLength int
}

func validateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return apperr.Validation("invalid email format")
	}
	return nil
}

func validateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return apperr.Validation("username must be 3-50 characters, alphanumeric and underscore only")
	}
	return nil
}

func (p PasswordPolicy) validate(password string) error {
	if len(password) < p.MinLength {
		return apperr.Validation(fmt.Sprintf("password must be at least %d characters long", p.MinLength))
	}
	if len(password) > p.MaxLength {
		return apperr.Validation(fmt.Sprintf("password must be at most %d characters long", p.MaxLength))
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return apperr.Validation("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return apperr.Validation("password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return apperr.Validation("password must contain at least one digit")
	}
	return nil
}
