package dto

import (
	"strconv"

	"github.com/maisaeducacao/students-api/internal/domain/query"
)

// CreateStudentRequest cadastra um aluno
type CreateStudentRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=255" example:"Student Name"`
	Email string `json:"email" validate:"required,email,max=255" example:"student.email@example.com"`
	CPF   string `json:"cpf" example:"999.999.999-99"`
	RA    string `json:"ra" validate:"required,notblank,max=50" example:"RA2025002"`
}

func (r *CreateStudentRequest) Validate(v *Validator) []ValidationError {
	errs := v.Struct(r)
	return append(errs, v.CPF("cpf", r.CPF)...)
}

// UpdateStudentRequest altera apenas nome e e-mail; CPF e RA não são editáveis
type UpdateStudentRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,notblank,max=255" example:"Student Name"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255" example:"student.email@example.com"`
}

func (r *UpdateStudentRequest) Validate(v *Validator) []ValidationError {
	return v.Struct(r)
}

// ListStudentsRequest são os parâmetros de query da listagem.
// sortBy e sortDirection aceitam "a,b" ou o parâmetro repetido.
type ListStudentsRequest struct {
	Page          *int     `form:"page" validate:"omitempty,gte=1"`
	PageSize      *int     `form:"pageSize" validate:"omitempty,gte=1,lte=100"`
	Name          string   `form:"name" validate:"max=255"`
	Email         string   `form:"email" validate:"max=255"`
	CPF           string   `form:"cpf" validate:"max=20"`
	RA            string   `form:"ra" validate:"max=50"`
	SortBy        []string `form:"sortBy"`
	SortDirection []string `form:"sortDirection"`
}

func (r *ListStudentsRequest) Validate(v *Validator) []ValidationError {
	errs := v.Struct(r)

	sortBy := query.SplitList(r.SortBy, false)
	if len(sortBy) > query.MaxSortCriteria {
		errs = append(errs, maxItems("sortBy"))
	}
	errs = append(errs, v.List("sortBy", sortBy, "sortfield")...)

	directions := query.SplitList(r.SortDirection, true)
	if len(directions) > query.MaxSortCriteria {
		errs = append(errs, maxItems("sortDirection"))
	}
	errs = append(errs, v.List("sortDirection", directions, "sortdir")...)

	return errs
}

// ToFilterParams converte a requisição já validada
func (r *ListStudentsRequest) ToFilterParams() query.RawFilterParams {
	params := query.RawFilterParams{
		Name:          r.Name,
		Email:         r.Email,
		CPF:           r.CPF,
		RA:            r.RA,
		SortBy:        r.SortBy,
		SortDirection: r.SortDirection,
	}
	if r.Page != nil {
		params.Page = *r.Page
	}
	if r.PageSize != nil {
		params.PageSize = *r.PageSize
	}
	return params
}

func maxItems(field string) ValidationError {
	return newValidationError(field, "maxitems", strconv.Itoa(query.MaxSortCriteria))
}
