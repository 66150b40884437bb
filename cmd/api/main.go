// @title           Students API
// @version         1.0
// @description     Back office de cadastro de alunos.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <token>
package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/maisaeducacao/students-api/docs"
	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/handlers/dto"
	httphandlers "github.com/maisaeducacao/students-api/internal/handlers/http"
	"github.com/maisaeducacao/students-api/internal/handlers/middleware"
	"github.com/maisaeducacao/students-api/internal/infrastructure/config"
	"github.com/maisaeducacao/students-api/internal/infrastructure/i18n"
	"github.com/maisaeducacao/students-api/internal/infrastructure/logging"
	"github.com/maisaeducacao/students-api/internal/infrastructure/metrics"
	"github.com/maisaeducacao/students-api/internal/infrastructure/persistence/postgres"
	redisstore "github.com/maisaeducacao/students-api/internal/infrastructure/persistence/redis"
	"github.com/maisaeducacao/students-api/internal/infrastructure/realtime"
	"github.com/maisaeducacao/students-api/internal/infrastructure/security"
	"github.com/maisaeducacao/students-api/internal/services"
)

func main() {
	// Carregar configurações
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger := logging.NewSlogLogger(cfg.Logging.Level)
	logger.Info("starting students api",
		"env", cfg.Env,
		"version", docs.SwaggerInfo.Version,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Banco de dados
	db, err := postgres.NewDatabaseConnection(&cfg.Database, cfg.Logging.Level, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		log.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}
	defer sqlDB.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.RunMigrations(sqlDB, logger); err != nil {
			logger.Error("failed to run migrations", "error", err)
			log.Fatal(err)
		}
	}

	// Redis é opcional: sem REDIS_URL o signout não revoga tokens
	var denylist ports.TokenDenylist
	if cfg.Redis.URL != "" {
		rdb, err := redisstore.NewClient(ctx, cfg.Redis, logger)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			log.Fatal(err)
		}
		defer rdb.Close()
		denylist = redisstore.NewTokenDenylist(rdb)
	} else {
		logger.Warn("REDIS_URL not set, token revocation disabled")
	}

	// Inicializar i18n
	i18nService, err := i18n.NewService(cfg.I18n.LocalesDir, cfg.I18n.DefaultLanguage)
	if err != nil {
		logger.Error("failed to initialize i18n", "error", err)
		log.Fatal(err)
	}
	logger.Info("i18n initialized",
		"default_language", i18nService.GetDefaultLanguage(),
		"supported_languages", i18nService.GetSupportedLanguages(),
	)

	// Eventos: WebSocket e métricas
	appMetrics := metrics.New()
	hub := realtime.NewHub(middleware.ParseOrigins(cfg.CORS.AllowedOrigins), logger.With("component", "realtime"))
	go hub.Run(ctx)

	// Repositories e services
	userRepo := postgres.NewUserRepository(db)
	tokens := security.NewJWTService(cfg.JWT)
	hasher := security.NewBcryptHasher(security.DefaultCost)

	authService := services.NewAuthService(userRepo, hasher, tokens, denylist, logger.With("component", "auth"))
	studentService := services.NewStudentService(userRepo, services.Publishers{hub, appMetrics}, logger.With("component", "students"))

	// Handlers
	validator := dto.NewValidator()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httphandlers.NewRouter(httphandlers.RouterConfig{
		Env:            cfg.Env,
		BaseURL:        cfg.Server.BaseURL,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         logger,
		I18n:           i18nService,
		Metrics:        appMetrics,
		Authenticator:  middleware.NewAuthenticator(tokens, denylist, logger),
		AuthHandler:    httphandlers.NewAuthHandler(authService, validator),
		StudentHandler: httphandlers.NewStudentHandler(studentService, validator, hub, logger),
		Swagger:        !cfg.IsProduction(),
	})

	// HTTP Server
	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"host", cfg.Server.Host,
			"port", cfg.Server.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
