package errors

import "errors"

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeConflict     = "/problems/conflict"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypeForbidden    = "/problems/forbidden"
	ProblemTypeInternal     = "/problems/internal-error"
	ProblemTypeBadRequest   = "/problems/bad-request"
)

// Business errors
// Nota: A mensagem é o message ID para i18n.
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound    = &DomainError{Type: ProblemTypeNotFound, Message: "error.user_not_found"}
	ErrStudentNotFound = &DomainError{Type: ProblemTypeNotFound, Message: "error.student_not_found"}

	ErrEmailAlreadyExists = &DomainError{Type: ProblemTypeConflict, Message: "error.email_already_exists"}
	ErrCPFAlreadyExists   = &DomainError{Type: ProblemTypeConflict, Message: "error.cpf_already_exists"}
	ErrRAAlreadyExists    = &DomainError{Type: ProblemTypeConflict, Message: "error.ra_already_exists"}

	ErrInvalidCredentials = &DomainError{Type: ProblemTypeUnauthorized, Message: "error.invalid_credentials"}
	ErrUnauthorized       = &DomainError{Type: ProblemTypeUnauthorized, Message: "error.unauthorized"}
	ErrTokenRevoked       = &DomainError{Type: ProblemTypeUnauthorized, Message: "error.token_revoked"}
	ErrForbidden          = &DomainError{Type: ProblemTypeForbidden, Message: "error.forbidden"}
)

// Domain errors
var (
	ErrInvalidEmail = &DomainError{Type: ProblemTypeValidation, Message: "error.invalid_email"}
	ErrInvalidCPF   = &DomainError{Type: ProblemTypeValidation, Message: "error.invalid_cpf"}
)

// DomainError representa um erro de domínio com contexto adicional
type DomainError struct {
	Type    string
	Title   string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Wrap associa uma causa a um erro de domínio sem perder a identidade do sentinel
func Wrap(sentinel *DomainError, cause error) error {
	return &wrapped{sentinel: sentinel, cause: cause}
}

type wrapped struct {
	sentinel *DomainError
	cause    error
}

func (w *wrapped) Error() string {
	return w.sentinel.Message + ": " + w.cause.Error()
}

func (w *wrapped) Unwrap() []error {
	return []error{w.sentinel, w.cause}
}

// TypeOf retorna o tipo de problema RFC 7807 de um erro, ou ProblemTypeInternal
func TypeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Type
	}
	return ProblemTypeInternal
}

// IsConflict indica conflito de unicidade (409)
func IsConflict(err error) bool {
	return TypeOf(err) == ProblemTypeConflict
}

// IsNotFound indica recurso inexistente (404)
func IsNotFound(err error) bool {
	return TypeOf(err) == ProblemTypeNotFound
}

// IsUnauthorized indica falha de autenticação (401)
func IsUnauthorized(err error) bool {
	return TypeOf(err) == ProblemTypeUnauthorized
}

// IsForbidden indica falta de permissão (403)
func IsForbidden(err error) bool {
	return TypeOf(err) == ProblemTypeForbidden
}

// MessageOf retorna o message ID do erro de domínio, se houver
func MessageOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
