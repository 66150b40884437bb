package valueobjects

import (
	"errors"
	"regexp"
	"strings"
)

const maxEmailLength = 254

var (
	ErrInvalidEmail = errors.New("invalid email format")

	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
)

// Email é sempre armazenado sem espaços e em minúsculas
type Email struct {
	value string
}

// NewEmail normaliza e valida um endereço de e-mail
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))

	if len(normalized) > maxEmailLength || !emailPattern.MatchString(normalized) {
		return Email{}, ErrInvalidEmail
	}

	return Email{value: normalized}, nil
}

func (e Email) String() string {
	return e.value
}

// IsZero indica um e-mail não inicializado
func (e Email) IsZero() bool {
	return e.value == ""
}
