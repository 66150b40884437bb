package dto

import (
	"net/http"
	"time"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	"github.com/maisaeducacao/students-api/internal/services"
)

// Response é o envelope de sucesso
type Response[T any] struct {
	Code    int  `json:"code"`
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// PaginatedResponse é o envelope das listagens paginadas
type PaginatedResponse[T any] struct {
	Code        int   `json:"code"`
	Success     bool  `json:"success"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	Data        []T   `json:"data"`
}

// NewResponse envolve data no envelope padrão
func NewResponse[T any](status int, data T) Response[T] {
	return Response[T]{
		Code:    status,
		Success: status >= http.StatusOK && status < http.StatusMultipleChoices,
		Data:    data,
	}
}

// NewPaginatedResponse envolve uma página e seus metadados
func NewPaginatedResponse[T any](data []T, meta services.PaginationMeta) PaginatedResponse[T] {
	if data == nil {
		data = []T{}
	}
	return PaginatedResponse[T]{
		Code:        http.StatusOK,
		Success:     true,
		CurrentPage: meta.CurrentPage,
		PageSize:    meta.PageSize,
		TotalCount:  meta.TotalCount,
		TotalPages:  meta.TotalPages,
		Data:        data,
	}
}

// MessageResponse é o corpo de operações sem recurso de retorno
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse representa um usuário (admin ou aluno); o hash da senha nunca é exposto
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CPF       string    `json:"cpf"`
	RA        *string   `json:"ra,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToUserResponse converte uma entidade User para UserResponse
func ToUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email.String(),
		CPF:       user.CPF.String(),
		RA:        user.RA,
		Role:      string(user.Role),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToUserResponses converte uma lista de entidades User para UserResponse
func ToUserResponses(users []*entities.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}
