package services_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	domainerrors "github.com/maisaeducacao/students-api/internal/domain/errors"
	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/domain/query"
	"github.com/maisaeducacao/students-api/internal/domain/valueobjects"
)

var errStore = errors.New("store unavailable")

// memoryUserRepository é um repositório em memória. A listagem respeita
// role, skip e limit; filtros e ordenação são cobertos nos testes do repositório.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*entities.User
	order []string

	failFind  bool
	failList  bool
	failCount bool
	lastQuery query.Descriptor
	creates   int

	// beforeUpdate roda antes da escrita, fora do lock
	beforeUpdate func()
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*entities.User)}
}

func (r *memoryUserRepository) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	copied := *user
	r.users[user.ID] = &copied
	r.order = append(r.order, user.ID)
	r.creates++
	return nil
}

func (r *memoryUserRepository) findBy(match func(*entities.User) bool) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failFind {
		return nil, errStore
	}
	for _, id := range r.order {
		if u, ok := r.users[id]; ok && match(u) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*entities.User, error) {
	return r.findBy(func(u *entities.User) bool { return u.ID == id })
}

func (r *memoryUserRepository) FindByIDAndRole(_ context.Context, id string, role entities.Role) (*entities.User, error) {
	return r.findBy(func(u *entities.User) bool { return u.ID == id && u.Role == role })
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.findBy(func(u *entities.User) bool { return u.Email.String() == email })
}

func (r *memoryUserRepository) FindByCPF(_ context.Context, cpf string) (*entities.User, error) {
	return r.findBy(func(u *entities.User) bool { return u.CPF.String() == cpf })
}

func (r *memoryUserRepository) FindByRA(_ context.Context, ra string) (*entities.User, error) {
	return r.findBy(func(u *entities.User) bool { return u.RA != nil && *u.RA == ra })
}

func (r *memoryUserRepository) Update(_ context.Context, user *entities.User) error {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return domainerrors.ErrUserNotFound
	}
	user.UpdatedAt = time.Now()
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

func (r *memoryUserRepository) matching(role entities.Role) []*entities.User {
	var out []*entities.User
	for _, id := range r.order {
		if u, ok := r.users[id]; ok && u.Role == role {
			copied := *u
			out = append(out, &copied)
		}
	}
	return out
}

func (r *memoryUserRepository) List(_ context.Context, d query.Descriptor) ([]*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastQuery = d
	if r.failList {
		return nil, errStore
	}

	all := r.matching(d.Predicate.Role)
	if d.Skip >= len(all) {
		return []*entities.User{}, nil
	}
	end := min(d.Skip+d.Limit, len(all))
	return all[d.Skip:end], nil
}

func (r *memoryUserRepository) Count(_ context.Context, p query.Predicate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCount {
		return 0, errStore
	}
	return int64(len(r.matching(p.Role))), nil
}

// seed grava um usuário diretamente, sem passar pelo serviço
func (r *memoryUserRepository) seed(name, email, cpf string, ra *string, role entities.Role) *entities.User {
	e, err := valueobjects.NewEmail(email)
	if err != nil {
		panic(err)
	}
	c, err := valueobjects.NewCPF(cpf)
	if err != nil {
		panic(err)
	}

	user := &entities.User{Name: name, Email: e, CPF: c, RA: ra, Role: role}
	if role == entities.RoleAdmin {
		hash := "hashed:senha1234"
		user.PasswordHash = &hash
	}
	_ = r.Create(context.Background(), user)
	r.creates = 0
	return user
}

var errLookupsNotConcurrent = errors.New("uniqueness lookups were not issued concurrently")

// barrierRepository segura cada busca de unicidade até que todas as esperadas
// tenham chegado. Buscas feitas uma após a outra esgotam o prazo.
type barrierRepository struct {
	*memoryUserRepository

	expected int
	timeout  time.Duration

	mu      sync.Mutex
	arrived int
	all     chan struct{}
}

func newBarrierRepository(expected int) *barrierRepository {
	return &barrierRepository{
		memoryUserRepository: newMemoryUserRepository(),
		expected:             expected,
		timeout:              2 * time.Second,
		all:                  make(chan struct{}),
	}
}

func (r *barrierRepository) arrive(ctx context.Context) error {
	r.mu.Lock()
	r.arrived++
	if r.arrived == r.expected {
		close(r.all)
	}
	r.mu.Unlock()

	select {
	case <-r.all:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.timeout):
		return errLookupsNotConcurrent
	}
}

func (r *barrierRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	if err := r.arrive(ctx); err != nil {
		return nil, err
	}
	return r.memoryUserRepository.FindByEmail(ctx, email)
}

func (r *barrierRepository) FindByCPF(ctx context.Context, cpf string) (*entities.User, error) {
	if err := r.arrive(ctx); err != nil {
		return nil, err
	}
	return r.memoryUserRepository.FindByCPF(ctx, cpf)
}

func (r *barrierRepository) FindByRA(ctx context.Context, ra string) (*entities.User, error) {
	if err := r.arrive(ctx); err != nil {
		return nil, err
	}
	return r.memoryUserRepository.FindByRA(ctx, ra)
}

type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }

func (fakeHasher) Compare(plaintext, digest string) bool { return digest == "hashed:"+plaintext }

type fakeTokens struct {
	issued []string
}

func (f *fakeTokens) Issue(user *entities.User) (string, error) {
	f.issued = append(f.issued, user.ID)
	return "token-" + user.ID, nil
}

func (f *fakeTokens) Verify(string) (*ports.TokenClaims, error) {
	return nil, errors.New("not implemented")
}

type fakeDenylist struct {
	revoked map[string]time.Duration
	err     error
}

func (f *fakeDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	if f.revoked == nil {
		f.revoked = make(map[string]time.Duration)
	}
	f.revoked[tokenID] = ttl
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.revoked[tokenID]
	return ok, f.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.StudentEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event ports.StudentEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []ports.StudentEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ports.StudentEvent(nil), p.events...)
}

func ptr(s string) *string { return &s }
