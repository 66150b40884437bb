package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	domainerrors "github.com/maisaeducacao/students-api/internal/domain/errors"
	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/domain/repositories"
	"github.com/maisaeducacao/students-api/internal/domain/valueobjects"
)

// AuthService contém a lógica de cadastro e sessão de administradores
type AuthService struct {
	userRepo repositories.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	denylist ports.TokenDenylist
	logger   ports.Logger
	now      func() time.Time
}

// NewAuthService cria um novo AuthService. denylist pode ser nil (signout sem efeito).
func NewAuthService(
	userRepo repositories.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	denylist ports.TokenDenylist,
	logger ports.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		denylist: denylist,
		logger:   logger,
		now:      time.Now,
	}
}

// SignupInput representa os dados para cadastrar um administrador
type SignupInput struct {
	Name     string
	Email    string
	CPF      string
	Password string
}

// Signup cadastra um administrador
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*entities.User, error) {
	email, err := valueobjects.NewEmail(input.Email)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.ErrInvalidEmail, err)
	}
	cpf, err := valueobjects.NewCPF(input.CPF)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.ErrInvalidCPF, err)
	}

	if err := checkUniqueness(ctx, s.userRepo, uniqueKeys{email: email.String(), cpf: cpf.String()}); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		CPF:          cpf,
		PasswordHash: &hash,
		Role:         entities.RoleAdmin,
	}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidUserData, err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("admin signed up", "user_id", user.ID)
	return user, nil
}

// Signin valida as credenciais e emite um token de acesso.
// Usuário inexistente, sem senha ou com senha errada resultam no mesmo erro.
func (s *AuthService) Signin(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil || !user.CanSignIn() || !s.hasher.Compare(password, *user.PasswordHash) {
		return "", domainerrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("user signed in", "user_id", user.ID, "role", user.Role)
	return token, nil
}

// Me retorna o usuário autenticado
func (s *AuthService) Me(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}
	return user, nil
}

// Signout revoga o token até sua expiração
func (s *AuthService) Signout(ctx context.Context, claims *ports.TokenClaims) error {
	if s.denylist == nil {
		s.logger.Debug("token denylist disabled, signout is a no-op")
		return nil
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.denylist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.logger.Info("user signed out", "user_id", claims.UserID)
	return nil
}
