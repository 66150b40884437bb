package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	domainerrors "github.com/maisaeducacao/students-api/internal/domain/errors"
)

const pgUniqueViolation = "23505"

// Conflitos por constraint (nome no PostgreSQL, coluna no SQLite)
var uniqueConflicts = map[string]*domainerrors.DomainError{
	"users_email_key": domainerrors.ErrEmailAlreadyExists,
	"users_cpf_key":   domainerrors.ErrCPFAlreadyExists,
	"users_ra_key":    domainerrors.ErrRAAlreadyExists,
	"users.email":     domainerrors.ErrEmailAlreadyExists,
	"users.cpf":       domainerrors.ErrCPFAlreadyExists,
	"users.ra":        domainerrors.ErrRAAlreadyExists,
}

// translateError converte violações de unicidade do banco nos conflitos do domínio.
// A checagem prévia nos services é só um atalho: esta é a garantia real.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if conflict, ok := uniqueConflicts[pgErr.ConstraintName]; ok {
			return domainerrors.Wrap(conflict, err)
		}
		return err
	}

	// SQLite: "UNIQUE constraint failed: users.email"
	const sqliteUnique = "UNIQUE constraint failed: "
	if msg := err.Error(); strings.Contains(msg, sqliteUnique) {
		column := msg[strings.Index(msg, sqliteUnique)+len(sqliteUnique):]
		if conflict, ok := uniqueConflicts[strings.TrimSpace(column)]; ok {
			return domainerrors.Wrap(conflict, err)
		}
	}

	return err
}
