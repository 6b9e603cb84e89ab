package auth

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Billy-Davies-2/spirit11-ui/internal/models"
)

// FieldErrors maps a form field to every rule it failed
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, strings.Join(e[k], ", "))
	}
	return "invalid credentials: " + strings.Join(parts, "; ")
}

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Policy is the set of form rules a dashboard applies before contacting the backend.
// The participant and admin dashboards differ slightly.
type Policy struct {
	MinUsername  int
	RequireDigit bool

	UsernameLengthError string
	PasswordLengthError string
	// ConfirmRequiredError is reported for an empty confirmation. When unset
	// an empty confirmation is only a mismatch.
	ConfirmRequiredError string
	MismatchError        string
}

var (
	// ParticipantPolicy applies to the participant dashboard forms
	ParticipantPolicy = Policy{
		MinUsername:         8,
		RequireDigit:        true,
		UsernameLengthError: "Username must be at least 8 characters",
		PasswordLengthError: "Password must be at least 8 characters",
		MismatchError:       "Passwords do not match",
	}
	// AdminPolicy applies to the admin dashboard forms. Admin login only
	// requires a username to be present.
	AdminPolicy = Policy{
		MinUsername:          8,
		UsernameLengthError:  "Username must be at least 8 characters long",
		PasswordLengthError:  "Password must be at least 8 characters long",
		ConfirmRequiredError: "Confirm Password is required",
		MismatchError:        "Passwords must match",
	}
)

// ValidateLogin checks a sign-in form
func (p Policy) ValidateLogin(username, password string, admin bool) FieldErrors {
	errs := FieldErrors{}
	if admin {
		if username == "" {
			errs.add("username", "Username is required")
		}
	} else {
		p.checkUsername(errs, username)
	}
	p.checkPassword(errs, password)
	return orNil(errs)
}

// ValidateRegistration checks a sign-up form
func (p Policy) ValidateRegistration(reg models.Registration) FieldErrors {
	errs := FieldErrors{}
	p.checkUsername(errs, reg.Username)
	p.checkPassword(errs, reg.Password)
	if reg.ConfirmPassword == "" && p.ConfirmRequiredError != "" {
		errs.add("confirm_password", p.ConfirmRequiredError)
	} else if reg.ConfirmPassword != reg.Password {
		errs.add("confirm_password", p.MismatchError)
	}
	return orNil(errs)
}

func (p Policy) checkUsername(errs FieldErrors, username string) {
	if len([]rune(username)) < p.MinUsername {
		errs.add("username", p.UsernameLengthError)
	}
}

func (p Policy) checkPassword(errs FieldErrors, password string) {
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	if len([]rune(password)) < 8 {
		errs.add("password", p.PasswordLengthError)
	}
	if !lower {
		errs.add("password", "Password must contain at least one lowercase letter")
	}
	if !upper {
		errs.add("password", "Password must contain at least one uppercase letter")
	}
	if p.RequireDigit && !digit {
		errs.add("password", "Password must contain at least one number")
	}
	if !special {
		errs.add("password", "Password must contain at least one special character")
	}
}

func orNil(errs FieldErrors) FieldErrors {
	if len(errs) == 0 {
		return nil
	}
	return errs
}
