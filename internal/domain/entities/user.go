package entities

import (
	"errors"
	"time"

	"github.com/maisaeducacao/students-api/internal/domain/valueobjects"
)

var (
	ErrInvalidUserData = errors.New("invalid user data")
)

// User representa um usuário do sistema (administrador ou aluno)
type User struct {
	ID           string
	Name         string
	Email        valueobjects.Email
	CPF          valueobjects.CPF
	RA           *string // Registro acadêmico, apenas alunos
	PasswordHash *string // Alunos não fazem login
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin verifica se o usuário é admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStudent verifica se o usuário é aluno
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// HasPermission verifica se o usuário tem uma permissão
func (u *User) HasPermission(permission Permission) bool {
	return u.Role.HasPermission(permission)
}

// CanSignIn indica se o usuário possui senha cadastrada
func (u *User) CanSignIn() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Validate valida regras de negócio da entidade User
func (u *User) Validate() error {
	if u.Email.String() == "" {
		return errors.New("email is required")
	}

	if u.Name == "" {
		return errors.New("name is required")
	}

	if u.CPF.IsZero() {
		return errors.New("cpf is required")
	}

	if !u.Role.IsValid() {
		return errors.New("invalid role")
	}

	if u.IsAdmin() && !u.CanSignIn() {
		return errors.New("admin must have a password")
	}

	return nil
}
