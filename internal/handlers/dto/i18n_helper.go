package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/maisaeducacao/students-api/internal/handlers/middleware"
	"github.com/maisaeducacao/students-api/internal/infrastructure/i18n"
)

// T é um helper para traduzir mensagens no contexto do Gin
// Uso: dto.T(c, "validation.required", map[string]any{"Field": "name"})
func T(c *gin.Context, key string, params ...map[string]any) string {
	service, ok := c.Value(middleware.I18nServiceContextKey).(*i18n.Service)
	if !ok {
		// Sem o middleware de i18n a chave é retornada
		return key
	}

	return service.T(GetLanguage(c), key, params...)
}

// GetLanguage retorna o idioma configurado no contexto da requisição
func GetLanguage(c *gin.Context) string {
	if lang := c.GetString(middleware.LanguageContextKey); lang != "" {
		return lang
	}
	return "en"
}
