package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/handlers/dto"
	httphandlers "github.com/maisaeducacao/students-api/internal/handlers/http"
	"github.com/maisaeducacao/students-api/internal/handlers/middleware"
	"github.com/maisaeducacao/students-api/internal/infrastructure/config"
	"github.com/maisaeducacao/students-api/internal/infrastructure/i18n"
	"github.com/maisaeducacao/students-api/internal/infrastructure/logging"
	"github.com/maisaeducacao/students-api/internal/infrastructure/metrics"
	"github.com/maisaeducacao/students-api/internal/infrastructure/persistence/postgres"
	"github.com/maisaeducacao/students-api/internal/infrastructure/security"
	"github.com/maisaeducacao/students-api/internal/services"
)

// memoryDenylist guarda tokens revogados em memória
type memoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (d *memoryDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if ttl > 0 {
		d.revoked[tokenID] = ttl
	}
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[tokenID]
	return ok, nil
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

func (p *recordingPublisher) Types() []ports.StudentEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.StudentEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type testServer struct {
	router    *gin.Engine
	publisher *recordingPublisher
	tokens    *security.JWTService
}

// newTestServer monta o router completo sobre SQLite em memória
func newTestServer() *testServer {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), postgres.NewGormConfig("error"))
	Expect(err).NotTo(HaveOccurred())

	sqlDB, err := db.DB()
	Expect(err).NotTo(HaveOccurred())
	sqlDB.SetMaxOpenConns(1)
	DeferCleanup(sqlDB.Close)
	Expect(db.AutoMigrate(&postgres.UserModel{})).To(Succeed())

	logger := logging.NewNopLogger()
	i18nService, err := i18n.NewService("", "en")
	Expect(err).NotTo(HaveOccurred())

	userRepo := postgres.NewUserRepository(db)
	tokens := security.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Hour})
	denylist := &memoryDenylist{revoked: make(map[string]time.Duration)}
	publisher := &recordingPublisher{}

	authService := services.NewAuthService(userRepo, security.NewBcryptHasher(bcrypt.MinCost), tokens, denylist, logger)
	studentService := services.NewStudentService(userRepo, publisher, logger)
	validator := dto.NewValidator()

	router := httphandlers.NewRouter(httphandlers.RouterConfig{
		Env:            "test",
		BaseURL:        "http://api.test",
		AllowedOrigins: "http://localhost:5173",
		Logger:         logger,
		I18n:           i18nService,
		Metrics:        metrics.New(),
		Authenticator:  middleware.NewAuthenticator(tokens, denylist, logger),
		AuthHandler:    httphandlers.NewAuthHandler(authService, validator),
		StudentHandler: httphandlers.NewStudentHandler(studentService, validator, nil, logger),
	})

	return &testServer{router: router, publisher: publisher, tokens: tokens}
}

type request struct {
	method string
	path   string
	body   any
	token  string
	lang   string
}

func (s *testServer) do(r request) *httptest.ResponseRecorder {
	var body io.Reader
	if r.body != nil {
		switch b := r.body.(type) {
		case string:
			body = bytes.NewBufferString(b)
		default:
			payload, err := json.Marshal(b)
			Expect(err).NotTo(HaveOccurred())
			body = bytes.NewReader(payload)
		}
	}

	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.lang != "" {
		req.Header.Set("Accept-Language", r.lang)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signupAndSignin cria um administrador e retorna seu token
func (s *testServer) signupAndSignin(email, cpf string) string {
	w := s.do(request{method: http.MethodPost, path: "/api/v1/auth/signup", body: map[string]string{
		"name": "Admin", "email": email, "cpf": cpf, "password": "senha1234",
	}})
	Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())

	w = s.do(request{method: http.MethodPost, path: "/api/v1/auth/signin", body: map[string]string{
		"email": email, "password": "senha1234",
	}})
	Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())

	var resp dto.Response[dto.TokenResponse]
	decode(w, &resp)
	return resp.Data.AccessToken
}

func decode(w *httptest.ResponseRecorder, v any) {
	ExpectWithOffset(1, json.Unmarshal(w.Body.Bytes(), v)).To(Succeed(), w.Body.String())
}

// problem é o corpo RFC 7807 como visto pelo cliente
type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Errors []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
		Tag     string `json:"tag"`
	} `json:"errors"`
}

func decodeProblem(w *httptest.ResponseRecorder) problem {
	ExpectWithOffset(1, w.Header().Get("Content-Type")).To(HavePrefix("application/problem+json"))
	var p problem
	ExpectWithOffset(1, json.Unmarshal(w.Body.Bytes(), &p)).To(Succeed(), w.Body.String())
	return p
}
