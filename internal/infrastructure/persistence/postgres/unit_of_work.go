package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/maisaeducacao/students-api/internal/domain/ports"
)

type txContextKey struct{}

// txKey guarda a transação ativa; os repositórios a usam no lugar do *gorm.DB base
var txKey = txContextKey{}

var errNoTransaction = errors.New("no transaction in context")

// UnitOfWork abre transações GORM carregadas pelo contexto
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork cria um novo UnitOfWork
func NewUnitOfWork(db *gorm.DB) ports.UnitOfWork {
	return &UnitOfWork{db: db}
}

// Begin retorna um contexto derivado com a transação. Chamadas aninhadas
// reutilizam a transação já aberta.
func (uow *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if _, ok := transaction(ctx); ok {
		return ctx, nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return ctx, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return context.WithValue(ctx, txKey, tx), nil
}

func (uow *UnitOfWork) Commit(ctx context.Context) error {
	tx, ok := transaction(ctx)
	if !ok {
		return errNoTransaction
	}
	return tx.Commit().Error
}

func (uow *UnitOfWork) Rollback(ctx context.Context) error {
	tx, ok := transaction(ctx)
	if !ok {
		return errNoTransaction
	}
	return tx.Rollback().Error
}

// WithTransaction executa fn em uma transação; erro ou panic desfazem tudo
func (uow *UnitOfWork) WithTransaction(ctx context.Context, fn func(context.Context) error) (err error) {
	if _, ok := transaction(ctx); ok {
		return fn(ctx)
	}

	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = uow.Rollback(txCtx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := uow.Rollback(txCtx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	return uow.Commit(txCtx)
}

func transaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey).(*gorm.DB)
	return tx, ok
}
