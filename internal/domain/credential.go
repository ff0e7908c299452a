package domain

import (
	"fmt"
	"strings"
)

// Credential is the single local account record. It only decides whether the
// landing screen can be skipped and is stored as-is.
type Credential struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that every field is filled in.
func (c Credential) Validate() error {
	if strings.TrimSpace(c.Name) == "" ||
		strings.TrimSpace(c.Email) == "" ||
		strings.TrimSpace(c.Password) == "" {
		return fmt.Errorf("%w: please fill in all fields", ErrValidation)
	}
	return nil
}

// Matches reports whether email and password match the record.
func (c Credential) Matches(email, password string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Email), strings.TrimSpace(email)) && c.Password == password
}
