package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moogar0880/problems"

	domainerrors "github.com/maisaeducacao/students-api/internal/domain/errors"
	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/handlers/dto"
	"github.com/maisaeducacao/students-api/internal/handlers/middleware"
)

type problemKind struct {
	status   int
	titleKey string
}

// Cada tipo de problema tem um único status; tipos desconhecidos viram 500
var problemKinds = map[string]problemKind{
	domainerrors.ProblemTypeValidation:   {http.StatusBadRequest, "error.validation.title"},
	domainerrors.ProblemTypeBadRequest:   {http.StatusBadRequest, "error.bad_request.title"},
	domainerrors.ProblemTypeUnauthorized: {http.StatusUnauthorized, "error.unauthorized.title"},
	domainerrors.ProblemTypeForbidden:    {http.StatusForbidden, "error.forbidden.title"},
	domainerrors.ProblemTypeNotFound:     {http.StatusNotFound, "error.not_found.title"},
	domainerrors.ProblemTypeConflict:     {http.StatusConflict, "error.conflict.title"},
}

// ErrorHandler renderiza como RFC 7807 o último erro registrado com c.Error,
// caso nenhuma resposta tenha sido escrita
func ErrorHandler(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		writeError(c, log, c.Errors.Last().Err)
	}
}

func writeError(c *gin.Context, log ports.Logger, err error) {
	problemType := domainerrors.TypeOf(err)

	kind, ok := problemKinds[problemType]
	if !ok {
		log.Error("unhandled error",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(middleware.RequestIDContextKey),
		)
		writeProblem(c, http.StatusInternalServerError, dto.InternalErrorResponseI18n(c))
		return
	}

	response := dto.NewErrorResponseI18n(c, problemType, kind.titleKey, domainerrors.MessageOf(err), kind.status)
	writeProblem(c, kind.status, response)
}

func writeProblem(c *gin.Context, status int, response dto.ErrorResponse) {
	c.Header("Content-Type", problems.ProblemMediaType)
	c.AbortWithStatusJSON(status, response)
}

// respondValidation responde 400 com os erros de campo
func respondValidation(c *gin.Context, errs []dto.ValidationError) {
	writeProblem(c, http.StatusBadRequest, dto.ValidationErrorResponseI18n(c, errs))
}

// respondBadRequest responde 400 para corpo ou parâmetros malformados
func respondBadRequest(c *gin.Context, detailKey string) {
	writeProblem(c, http.StatusBadRequest, dto.BadRequestErrorResponseI18n(c, detailKey))
}
