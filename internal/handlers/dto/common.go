package dto

import (
	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	domainerrors "github.com/maisaeducacao/students-api/internal/domain/errors"
	"github.com/maisaeducacao/students-api/internal/handlers/middleware"
)

const defaultBaseURL = "http://localhost:8080"

// ErrorResponse segue RFC 7807 (Problem Details for HTTP APIs)
type ErrorResponse struct {
	problems.Problem
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError representa um erro de validação de campo
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag,omitempty"`
	Value   string `json:"value,omitempty"`

	messageKey string
	params     map[string]any
}

// NewErrorResponseI18n cria uma resposta de erro com título e detalhe traduzidos
func NewErrorResponseI18n(c *gin.Context, problemType, titleKey, detailKey string, status int, params ...map[string]any) ErrorResponse {
	baseURL := c.GetString(middleware.BaseURLContextKey)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	problem := problems.NewDetailedProblem(status, T(c, detailKey, params...))
	problem.Type = baseURL + problemType
	problem.Title = T(c, titleKey, params...)
	problem.Instance = c.Request.URL.Path

	return ErrorResponse{Problem: *problem}
}

// ValidationErrorResponseI18n cria uma resposta 400 com os erros de campo traduzidos
func ValidationErrorResponseI18n(c *gin.Context, validationErrors []ValidationError) ErrorResponse {
	response := NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeValidation,
		"error.validation.title",
		"error.validation.detail",
		400,
	)
	response.Errors = LocalizeValidationErrors(c, validationErrors)
	return response
}

// BadRequestErrorResponseI18n cria uma resposta 400 sem erros de campo
func BadRequestErrorResponseI18n(c *gin.Context, detailKey string) ErrorResponse {
	return NewErrorResponseI18n(c, domainerrors.ProblemTypeBadRequest, "error.bad_request.title", detailKey, 400)
}

// InternalErrorResponseI18n cria uma resposta de erro 500
func InternalErrorResponseI18n(c *gin.Context) ErrorResponse {
	return NewErrorResponseI18n(
		c,
		domainerrors.ProblemTypeInternal,
		"error.internal.title",
		"error.internal.detail",
		500,
	)
}

// LocalizeValidationErrors preenche Message no idioma da requisição
func LocalizeValidationErrors(c *gin.Context, errs []ValidationError) []ValidationError {
	out := make([]ValidationError, len(errs))
	for i, e := range errs {
		if e.Message == "" {
			params := map[string]any{"Field": e.Field}
			for k, v := range e.params {
				params[k] = v
			}
			e.Message = T(c, e.messageKey, params)
		}
		out[i] = e
	}
	return out
}
