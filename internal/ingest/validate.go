package ingest

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Identity is the reporter's contact record.
type Identity struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// ValidationError names the first identity field that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var identityMinimums = []struct {
	field string
	min   int
	get   func(Identity) string
}{
	{"name", 3, func(i Identity) string { return i.Name }},
	{"contact", 10, func(i Identity) string { return i.Contact }},
	{"address", 5, func(i Identity) string { return i.Address }},
}

// ValidateIdentity trims the identity in place and checks field minimums.
func ValidateIdentity(id *Identity) error {
	id.Name = strings.TrimSpace(id.Name)
	id.Contact = strings.TrimSpace(id.Contact)
	id.Address = strings.TrimSpace(id.Address)
	id.Email = strings.TrimSpace(id.Email)

	for _, m := range identityMinimums {
		if utf8.RuneCountInString(m.get(*id)) < m.min {
			return &ValidationError{
				Field:   m.field,
				Message: fmt.Sprintf("must be at least %d characters", m.min),
			}
		}
	}

	at := strings.IndexByte(id.Email, '@')
	if at <= 0 || at == len(id.Email)-1 {
		return &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	return nil
}
