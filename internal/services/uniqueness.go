package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	domainerrors "github.com/maisaeducacao/students-api/internal/domain/errors"
	"github.com/maisaeducacao/students-api/internal/domain/repositories"
)

// uniqueKeys são as chaves únicas de um usuário a verificar antes da escrita
type uniqueKeys struct {
	email string
	cpf   string
	ra    string // vazio: não verificado
}

// checkUniqueness consulta e-mail, CPF e RA em paralelo e só decide depois que
// todas as consultas terminam, sempre na ordem e-mail, CPF, RA.
// O índice único do banco continua sendo a garantia final.
func checkUniqueness(ctx context.Context, users repositories.UserRepository, keys uniqueKeys) error {
	var emailTaken, cpfTaken, raTaken *entities.User

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := users.FindByEmail(gctx, keys.email)
		emailTaken = u
		return err
	})
	g.Go(func() error {
		u, err := users.FindByCPF(gctx, keys.cpf)
		cpfTaken = u
		return err
	})
	if keys.ra != "" {
		g.Go(func() error {
			u, err := users.FindByRA(gctx, keys.ra)
			raTaken = u
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	switch {
	case emailTaken != nil:
		return domainerrors.ErrEmailAlreadyExists
	case cpfTaken != nil:
		return domainerrors.ErrCPFAlreadyExists
	case raTaken != nil:
		return domainerrors.ErrRAAlreadyExists
	}
	return nil
}
