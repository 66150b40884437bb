package http

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/handlers/dto"
	"github.com/maisaeducacao/students-api/internal/infrastructure/export"
	"github.com/maisaeducacao/students-api/internal/services"
)

// EventStream atende conexões WebSocket de eventos de alunos
type EventStream interface {
	ServeWS(w http.ResponseWriter, r *http.Request) error
}

// StudentHandler lida com requisições HTTP do cadastro de alunos
type StudentHandler struct {
	studentService *services.StudentService
	validator      *dto.Validator
	events         EventStream
	logger         ports.Logger
	now            func() time.Time
}

// NewStudentHandler cria um novo StudentHandler; events nil desativa o stream
func NewStudentHandler(
	studentService *services.StudentService,
	validator *dto.Validator,
	events EventStream,
	logger ports.Logger,
) *StudentHandler {
	return &StudentHandler{
		studentService: studentService,
		validator:      validator,
		events:         events,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateStudent godoc
// @Summary Cadastra um aluno
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Dados do aluno"
// @Success 201 {object} dto.Response[dto.UserResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalid_request_body")
		return
	}
	if errs := req.Validate(h.validator); len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	student, err := h.studentService.CreateStudent(c.Request.Context(), services.CreateStudentInput{
		Name:  req.Name,
		Email: req.Email,
		CPF:   req.CPF,
		RA:    req.RA,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewResponse(http.StatusCreated, dto.ToUserResponse(student)))
}

// ListStudents godoc
// @Summary Lista alunos com filtros, ordenação e paginação
// @Description Filtros são combinados com OR. sortBy e sortDirection aceitam "a,b" ou o parâmetro repetido.
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página (>= 1)"
// @Param pageSize query int false "Itens por página (1..100)"
// @Param name query string false "Parte do nome"
// @Param email query string false "Parte do e-mail"
// @Param cpf query string false "CPF exato, com ou sem pontuação"
// @Param ra query string false "RA exato"
// @Param sortBy query []string false "name, email, cpf, ra ou createdAt" collectionFormat(multi)
// @Param sortDirection query []string false "asc ou desc" collectionFormat(multi)
// @Success 200 {object} dto.PaginatedResponse[dto.UserResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.studentService.ListStudents(c.Request.Context(), req.ToFilterParams())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(dto.ToUserResponses(page.Items), page.Meta))
}

// ExportStudents godoc
// @Summary Exporta a listagem filtrada como planilha XLSX
// @Tags students
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param name query string false "Parte do nome"
// @Param email query string false "Parte do e-mail"
// @Param cpf query string false "CPF exato"
// @Param ra query string false "RA exato"
// @Param sortBy query []string false "Campos de ordenação" collectionFormat(multi)
// @Param sortDirection query []string false "Direções" collectionFormat(multi)
// @Success 200 {file} file
// @Failure 400 {object} dto.ErrorResponse
// @Router /students/export [get]
func (h *StudentHandler) ExportStudents(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	students, err := h.studentService.ExportStudents(c.Request.Context(), req.ToFilterParams())
	if err != nil {
		_ = c.Error(err)
		return
	}

	headers := export.Headers{
		Name:      dto.T(c, "export.header.name"),
		Email:     dto.T(c, "export.header.email"),
		CPF:       dto.T(c, "export.header.cpf"),
		RA:        dto.T(c, "export.header.ra"),
		CreatedAt: dto.T(c, "export.header.created_at"),
	}

	var buf bytes.Buffer
	if err := export.WriteStudentsXLSX(&buf, students, headers); err != nil {
		_ = c.Error(fmt.Errorf("failed to write xlsx: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(h.now())))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// StudentEvents godoc
// @Summary Stream WebSocket de alterações no cadastro de alunos
// @Description O token pode ser enviado no header Authorization ou em ?access_token=
// @Tags students
// @Security BearerAuth
// @Param access_token query string false "Token de acesso"
// @Success 101
// @Failure 401 {object} dto.ErrorResponse
// @Router /students/events [get]
func (h *StudentHandler) StudentEvents(c *gin.Context) {
	if h.events == nil {
		c.Status(http.StatusNotFound)
		return
	}

	// Em caso de falha o upgrader já respondeu ao cliente
	if err := h.events.ServeWS(c.Writer, c.Request); err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
	}
}

// GetStudent godoc
// @Summary Busca um aluno por id
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do aluno (UUID)"
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := h.studentID(c)
	if !ok {
		return
	}

	student, err := h.studentService.GetStudent(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToUserResponse(student)))
}

// UpdateStudent godoc
// @Summary Altera nome e/ou e-mail de um aluno
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do aluno (UUID)"
// @Param request body dto.UpdateStudentRequest true "Campos a alterar"
// @Success 200 {object} dto.Response[dto.UserResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /students/{id} [patch]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := h.studentID(c)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "error.invalid_request_body")
		return
	}
	if errs := req.Validate(h.validator); len(errs) > 0 {
		respondValidation(c, errs)
		return
	}

	student, err := h.studentService.UpdateStudent(c.Request.Context(), id, services.UpdateStudentInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.ToUserResponse(student)))
}

// DeleteStudent godoc
// @Summary Remove um aluno
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do aluno (UUID)"
// @Success 200 {object} dto.Response[dto.MessageResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := h.studentID(c)
	if !ok {
		return
	}

	if err := h.studentService.DeleteStudent(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResponse(http.StatusOK, dto.MessageResponse{
		Message: dto.T(c, "message.student_deleted"),
	}))
}

func (h *StudentHandler) bindListRequest(c *gin.Context) (*dto.ListStudentsRequest, bool) {
	var req dto.ListStudentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "error.invalid_query")
		return nil, false
	}
	if errs := req.Validate(h.validator); len(errs) > 0 {
		respondValidation(c, errs)
		return nil, false
	}
	return &req, true
}

// studentID lê o parâmetro :id, que precisa ser um UUID
func (h *StudentHandler) studentID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if errs := h.validator.UUID("id", id); len(errs) > 0 {
		respondValidation(c, errs)
		return "", false
	}
	return id, true
}
