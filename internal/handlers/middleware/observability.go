package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/maisaeducacao/students-api/internal/domain/ports"
	"github.com/maisaeducacao/students-api/internal/infrastructure/metrics"
)

const (
	// RequestIDHeader propaga o identificador da requisição
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey guarda o identificador no contexto do Gin
	RequestIDContextKey = "request_id"
	// BaseURLContextKey guarda a URL base usada nos tipos RFC 7807
	BaseURLContextKey = "base_url"
)

// BaseURL disponibiliza a URL base da API para as respostas de erro
func BaseURL(baseURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(BaseURLContextKey, baseURL)
		c.Next()
	}
}

// RequestID reaproveita o X-Request-ID recebido ou gera um novo
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}

		c.Set(RequestIDContextKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger registra cada requisição no logger estruturado
func RequestLogger(log ports.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(RequestIDContextKey),
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("request failed", args...)
		case status >= 400:
			log.Warn("request rejected", args...)
		default:
			log.Info("request completed", args...)
		}
	}
}

// Metrics mede duração e contagem de requisições por rota
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
