package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	domainerrors "github.com/maisaeducacao/students-api/internal/domain/errors"
	"github.com/maisaeducacao/students-api/internal/domain/query"
	"github.com/maisaeducacao/students-api/internal/domain/repositories"
	"github.com/maisaeducacao/students-api/internal/domain/valueobjects"
)

// Colunas correspondentes aos campos da consulta
var sortColumns = map[query.SortField]string{
	query.SortByName:      "name",
	query.SortByEmail:     "email",
	query.SortByCPF:       "cpf",
	query.SortByRA:        "ra",
	query.SortByCreatedAt: "created_at",
}

var filterColumns = map[query.FilterField]string{
	query.FilterName:  "name",
	query.FilterEmail: "email",
	query.FilterCPF:   "cpf",
	query.FilterRA:    "ra",
}

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB) repositories.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	model := r.toModel(user)
	if model.ID == "" {
		model.ID = uuid.NewString()
	}

	db := r.getDB(ctx)
	if err := db.Create(model).Error; err != nil {
		return translateError(err)
	}

	user.ID = model.ID
	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByIDAndRole(ctx context.Context, id string, role entities.Role) (*entities.User, error) {
	return r.findOne(ctx, "id = ? AND role = ?", id, string(role))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) FindByCPF(ctx context.Context, cpf string) (*entities.User, error) {
	return r.findOne(ctx, "cpf = ?", cpf)
}

func (r *UserRepository) FindByRA(ctx context.Context, ra string) (*entities.User, error) {
	return r.findOne(ctx, "ra = ?", ra)
}

func (r *UserRepository) findOne(ctx context.Context, where string, args ...any) (*entities.User, error) {
	var model UserModel

	db := r.getDB(ctx)
	if err := db.Where(where, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toEntity(&model)
}

// Update altera apenas uma linha existente; sem linha retorna ErrUserNotFound
func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	model := r.toModel(user)
	model.UpdatedAt = time.Now()

	db := r.getDB(ctx)
	result := db.Model(&UserModel{}).Where("id = ?", model.ID).Updates(map[string]any{
		"name":          model.Name,
		"email":         model.Email,
		"cpf":           model.CPF,
		"ra":            model.RA,
		"password_hash": model.PasswordHash,
		"updated_at":    model.UpdatedAt,
	})
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}

	user.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	db := r.getDB(ctx)
	return db.Where("id = ?", id).Delete(&UserModel{}).Error
}

func (r *UserRepository) List(ctx context.Context, d query.Descriptor) ([]*entities.User, error) {
	var models []*UserModel

	q := r.scoped(ctx, d.Predicate)

	for _, o := range d.Ordering {
		column, ok := sortColumns[o.Field]
		if !ok {
			panic(fmt.Sprintf("postgres: unmapped sort field %q", o.Field))
		}
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Name: column},
			Desc:   o.Direction == query.Desc,
		})
	}

	if err := q.Offset(d.Skip).Limit(d.Limit).Find(&models).Error; err != nil {
		return nil, err
	}

	return r.toEntities(models)
}

func (r *UserRepository) Count(ctx context.Context, p query.Predicate) (int64, error) {
	var total int64
	if err := r.scoped(ctx, p).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// scoped aplica role AND (condições OR)
func (r *UserRepository) scoped(ctx context.Context, p query.Predicate) *gorm.DB {
	q := r.getDB(ctx).Model(&UserModel{}).Where("role = ?", string(p.Role))

	exprs := make([]clause.Expression, 0, len(p.Or))
	for _, c := range p.Or {
		exprs = append(exprs, conditionExpr(c))
	}

	switch len(exprs) {
	case 0:
	case 1:
		// clause.Or com um único termo seria renderizado como "role = ? OR ..."
		q = q.Where(exprs[0])
	default:
		q = q.Where(clause.Or(exprs...))
	}

	return q
}

func conditionExpr(c query.Condition) clause.Expression {
	column, ok := filterColumns[c.Field]
	if !ok {
		panic(fmt.Sprintf("postgres: unmapped filter field %q", c.Field))
	}

	switch c.Operator {
	case query.OpContainsInsensitive:
		return clause.Expr{
			SQL:  "LOWER(" + column + `) LIKE ? ESCAPE '\'`,
			Vars: []any{"%" + escapeLike(strings.ToLower(c.Value)) + "%"},
		}
	case query.OpEquals:
		return clause.Eq{Column: clause.Column{Name: column}, Value: c.Value}
	default:
		panic(fmt.Sprintf("postgres: unsupported operator %q", c.Operator))
	}
}

// escapeLike trata % e _ digitados pelo usuário como literais
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// getDB extrai DB do contexto (para suportar transações)
func (r *UserRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := transaction(ctx); ok {
		return tx.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// Conversores
func (r *UserRepository) toModel(user *entities.User) *UserModel {
	return &UserModel{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email.String(),
		CPF:          user.CPF.String(),
		RA:           user.RA,
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

func (r *UserRepository) toEntity(model *UserModel) (*entities.User, error) {
	email, err := valueobjects.NewEmail(model.Email)
	if err != nil {
		return nil, err
	}

	return &entities.User{
		ID:           model.ID,
		Name:         model.Name,
		Email:        email,
		CPF:          valueobjects.CPFFromTrusted(model.CPF),
		RA:           model.RA,
		PasswordHash: model.PasswordHash,
		Role:         entities.Role(model.Role),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}, nil
}

func (r *UserRepository) toEntities(models []*UserModel) ([]*entities.User, error) {
	entities := make([]*entities.User, 0, len(models))

	for _, model := range models {
		entity, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}

	return entities, nil
}
