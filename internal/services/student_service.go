package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	domainerrors "github.com/maisaeducacao/students-api/internal/domain/errors"
	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/domain/query"
	"github.com/maisaeducacao/students-api/internal/domain/repositories"
	"github.com/maisaeducacao/students-api/internal/domain/valueobjects"
)

const (
	exportPageSize = 100
	// MaxExportRows limita o tamanho da planilha exportada
	MaxExportRows = 10000
)

// PaginationMeta acompanha cada página da listagem
type PaginationMeta struct {
	CurrentPage int
	PageSize    int
	TotalCount  int64
	TotalPages  int
}

// StudentPage é uma página de alunos
type StudentPage struct {
	Items []*entities.User
	Meta  PaginationMeta
}

// StudentService contém a lógica de negócio do cadastro de alunos
type StudentService struct {
	userRepo  repositories.UserRepository
	publisher ports.StudentEventPublisher
	logger    ports.Logger
	now       func() time.Time
}

// NewStudentService cria um novo StudentService
func NewStudentService(
	userRepo repositories.UserRepository,
	publisher ports.StudentEventPublisher,
	logger ports.Logger,
) *StudentService {
	if publisher == nil {
		publisher = Publishers{}
	}
	return &StudentService{
		userRepo:  userRepo,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateStudentInput representa os dados para cadastrar um aluno
type CreateStudentInput struct {
	Name  string
	Email string
	CPF   string
	RA    string
}

// CreateStudent cadastra um aluno após verificar e-mail, CPF e RA
func (s *StudentService) CreateStudent(ctx context.Context, input CreateStudentInput) (*entities.User, error) {
	email, err := valueobjects.NewEmail(input.Email)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.ErrInvalidEmail, err)
	}
	cpf, err := valueobjects.NewCPF(input.CPF)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.ErrInvalidCPF, err)
	}

	ra := strings.TrimSpace(input.RA)
	keys := uniqueKeys{email: email.String(), cpf: cpf.String(), ra: ra}
	if err := checkUniqueness(ctx, s.userRepo, keys); err != nil {
		return nil, err
	}

	student := &entities.User{
		Name:  strings.TrimSpace(input.Name),
		Email: email,
		CPF:   cpf,
		Role:  entities.RoleStudent,
	}
	if ra != "" {
		student.RA = &ra
	}
	if err := student.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidUserData, err)
	}

	if err := s.userRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	s.logger.Info("student created", "student_id", student.ID)
	s.publisher.Publish(ctx, studentEvent(ports.StudentCreated, student, s.now()))

	return student, nil
}

// ListStudents busca uma página de alunos; listagem e contagem usam o mesmo predicado
func (s *StudentService) ListStudents(ctx context.Context, params query.RawFilterParams) (*StudentPage, error) {
	descriptor := query.Build(params)
	s.logger.Debug("listing students", "descriptor", descriptor)

	var (
		items []*entities.User
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.userRepo.List(gctx, descriptor)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.userRepo.Count(gctx, descriptor.Predicate)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &StudentPage{
		Items: items,
		Meta: PaginationMeta{
			CurrentPage: descriptor.Page,
			PageSize:    descriptor.PageSize,
			TotalCount:  total,
			TotalPages:  query.TotalPages(total, descriptor.PageSize),
		},
	}, nil
}

// GetStudent busca um aluno; administradores não são retornados
func (s *StudentService) GetStudent(ctx context.Context, id string) (*entities.User, error) {
	student, err := s.userRepo.FindByIDAndRole(ctx, id, entities.RoleStudent)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domainerrors.ErrStudentNotFound
	}
	return student, nil
}

// UpdateStudentInput contém os campos editáveis; nil mantém o valor atual
type UpdateStudentInput struct {
	Name  *string
	Email *string
}

// UpdateStudent altera nome e/ou e-mail de um aluno
func (s *StudentService) UpdateStudent(ctx context.Context, id string, input UpdateStudentInput) (*entities.User, error) {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email, err := valueobjects.NewEmail(*input.Email)
		if err != nil {
			return nil, domainerrors.Wrap(domainerrors.ErrInvalidEmail, err)
		}

		owner, err := s.userRepo.FindByEmail(ctx, email.String())
		if err != nil {
			return nil, err
		}
		// O próprio e-mail do aluno não é conflito
		if owner != nil && owner.ID != id {
			return nil, domainerrors.ErrEmailAlreadyExists
		}

		student.Email = email
	}

	if input.Name != nil {
		student.Name = strings.TrimSpace(*input.Name)
	}

	if err := student.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidUserData, err)
	}

	if err := s.userRepo.Update(ctx, student); err != nil {
		// Removido entre a leitura e a escrita
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return nil, domainerrors.ErrStudentNotFound
		}
		return nil, err
	}

	s.logger.Info("student updated", "student_id", student.ID)
	s.publisher.Publish(ctx, studentEvent(ports.StudentUpdated, student, s.now()))

	return student, nil
}

// DeleteStudent remove definitivamente um aluno
func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	student, err := s.GetStudent(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("student deleted", "student_id", id)
	s.publisher.Publish(ctx, studentEvent(ports.StudentDeleted, student, s.now()))

	return nil
}

// ExportStudents percorre a listagem filtrada em páginas até MaxExportRows.
// Paginação informada pelo cliente é ignorada.
func (s *StudentService) ExportStudents(ctx context.Context, params query.RawFilterParams) ([]*entities.User, error) {
	params.PageSize = exportPageSize

	var students []*entities.User
	for page := 1; len(students) < MaxExportRows; page++ {
		params.Page = page
		descriptor := query.Build(params)

		batch, err := s.userRepo.List(ctx, descriptor)
		if err != nil {
			return nil, err
		}

		students = append(students, batch...)
		if len(batch) < descriptor.Limit {
			break
		}
	}

	if len(students) > MaxExportRows {
		students = students[:MaxExportRows]
	}

	s.logger.Info("students exported", "rows", len(students))
	return students, nil
}
