package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/maisaeducacao/students-api/internal/domain/entities"
	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/handlers/middleware"
	"github.com/maisaeducacao/students-api/internal/infrastructure/i18n"
	"github.com/maisaeducacao/students-api/internal/infrastructure/metrics"
)

// RouterConfig reúne as dependências do router
type RouterConfig struct {
	Env            string
	BaseURL        string
	AllowedOrigins string
	Logger         ports.Logger
	I18n           *i18n.Service
	Metrics        *metrics.Metrics
	Authenticator  *middleware.Authenticator
	AuthHandler    *AuthHandler
	StudentHandler *StudentHandler
	// Swagger habilita /swagger/*any
	Swagger bool
}

// NewRouter monta o engine Gin com middlewares e rotas da API
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.RequestID(),
		middleware.BaseURL(cfg.BaseURL),
		middleware.RequestLogger(cfg.Logger),
		gin.Recovery(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.NewI18nMiddleware(cfg.I18n).DetectLanguage(),
		middleware.Metrics(cfg.Metrics),
		ErrorHandler(cfg.Logger),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Env,
		})
	})
	router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	if cfg.Swagger {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := cfg.Authenticator
	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/signup", cfg.AuthHandler.Signup)
			authGroup.POST("/signin", cfg.AuthHandler.Signin)
			authGroup.GET("/me", auth.Required(), cfg.AuthHandler.Me)
			authGroup.POST("/signout", auth.Required(), cfg.AuthHandler.Signout)
		}

		// O browser não envia headers no handshake WebSocket
		v1.GET("/students/events",
			auth.RequiredAllowQuery(),
			middleware.RequirePermission(entities.PermissionStudentRead),
			cfg.StudentHandler.StudentEvents,
		)

		students := v1.Group("/students", auth.Required())
		{
			read := middleware.RequirePermission(entities.PermissionStudentRead)
			write := middleware.RequirePermission(entities.PermissionStudentWrite)

			students.POST("", write, cfg.StudentHandler.CreateStudent)
			students.GET("", read, cfg.StudentHandler.ListStudents)
			students.GET("/export", read, cfg.StudentHandler.ExportStudents)
			students.GET("/:id", read, cfg.StudentHandler.GetStudent)
			students.PATCH("/:id", write, cfg.StudentHandler.UpdateStudent)
			students.DELETE("/:id", middleware.RequirePermission(entities.PermissionStudentDelete), cfg.StudentHandler.DeleteStudent)
		}
	}

	return router
}
