// Package seed popula o banco com administradores e alunos de exemplo.
package seed

import (
	"context"
	"fmt"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/domain/repositories"
	"github.com/maisaeducacao/students-api/internal/domain/valueobjects"
)

// DefaultPassword é a senha dos administradores de exemplo
const DefaultPassword = "12345678"

type record struct {
	name  string
	email string
	cpf   string
	ra    string
}

var admins = []record{
	{name: "Admin User", email: "admin@maisaeducacao.com.br", cpf: "123.456.789-09"},
	{name: "Super Administrator", email: "superadmin@maisaeducacao.com.br", cpf: "987.654.321-00"},
}

var students = []record{
	{"Ana Silva Santos", "ana.silva@estudante.com", "533.258.580-23", "RA2025001"},
	{"Carlos Eduardo Lima", "carlos.lima@estudante.com", "922.962.034-34", "RA2025002"},
	{"Maria Fernanda Costa", "maria.costa@estudante.com", "846.682.812-55", "RA2025003"},
	{"João Pedro Oliveira", "joao.oliveira@estudante.com", "199.263.598-68", "RA2025004"},
	{"Beatriz Almeida Rocha", "beatriz.rocha@estudante.com", "323.308.397-15", "RA2025005"},
	{"Lucas Gabriel Torres", "lucas.torres@estudante.com", "791.355.003-10", "RA2025006"},
	{"Camila Rodrigues Souza", "camila.souza@estudante.com", "159.864.542-00", "RA2025007"},
	{"Rafael Henrique Santos", "rafael.santos@estudante.com", "195.297.354-64", "RA2025008"},
	{"Júlia Martins Pereira", "julia.pereira@estudante.com", "082.060.635-95", "RA2025009"},
	{"Bruno César Ferreira", "bruno.ferreira@estudante.com", "329.581.819-36", "RA2025010"},
	{"Larissa Campos Nascimento", "larissa.nascimento@estudante.com", "119.277.578-35", "RA2025011"},
	{"Diego Alessandro Silva", "diego.silva@estudante.com", "552.995.276-32", "RA2025012"},
	{"Isabela Gonçalves Lima", "isabela.lima@estudante.com", "215.178.576-94", "RA2025013"},
	{"Thiago Barbosa Costa", "thiago.costa@estudante.com", "271.102.818-68", "RA2025014"},
	{"Amanda Cristina Santos", "amanda.santos@estudante.com", "612.815.773-40", "RA2025015"},
}

// Seeder grava os registros de exemplo; registros cujo e-mail já existe são ignorados
type Seeder struct {
	uow    ports.UnitOfWork
	users  repositories.UserRepository
	hasher ports.PasswordHasher
	logger ports.Logger
}

// NewSeeder cria um novo Seeder
func NewSeeder(uow ports.UnitOfWork, users repositories.UserRepository, hasher ports.PasswordHasher, logger ports.Logger) *Seeder {
	return &Seeder{uow: uow, users: users, hasher: hasher, logger: logger}
}

// Result conta os registros criados e ignorados
type Result struct {
	Created int
	Skipped int
}

// Run cria administradores e alunos, cada grupo em sua própria transação
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	var total Result

	for _, group := range []struct {
		records []record
		role    entities.Role
	}{
		{admins, entities.RoleAdmin},
		{students, entities.RoleStudent},
	} {
		var result Result
		err := s.uow.WithTransaction(ctx, func(txCtx context.Context) error {
			var err error
			result, err = s.createAll(txCtx, group.records, group.role)
			return err
		})
		if err != nil {
			return total, fmt.Errorf("failed to seed %s users: %w", group.role, err)
		}

		total.Created += result.Created
		total.Skipped += result.Skipped
	}

	return total, nil
}

func (s *Seeder) createAll(ctx context.Context, records []record, role entities.Role) (Result, error) {
	var result Result

	for _, r := range records {
		found, err := s.users.FindByEmail(ctx, r.email)
		if err != nil {
			return result, err
		}
		if found != nil {
			s.logger.Info("seed user already exists", "email", r.email, "role", role)
			result.Skipped++
			continue
		}

		user, err := s.newUser(r, role)
		if err != nil {
			return result, err
		}
		if err := s.users.Create(ctx, user); err != nil {
			return result, fmt.Errorf("failed to create %s: %w", r.email, err)
		}

		s.logger.Info("seed user created", "email", r.email, "role", role)
		result.Created++
	}

	return result, nil
}

func (s *Seeder) newUser(r record, role entities.Role) (*entities.User, error) {
	email, err := valueobjects.NewEmail(r.email)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", r.email, err)
	}
	cpf, err := valueobjects.NewCPF(r.cpf)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", r.email, err)
	}

	user := &entities.User{Name: r.name, Email: email, CPF: cpf, Role: role}
	if r.ra != "" {
		ra := r.ra
		user.RA = &ra
	}
	if role == entities.RoleAdmin {
		hash, err := s.hasher.Hash(DefaultPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = &hash
	}

	return user, user.Validate()
}
