package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/maisaeducacao/students-api/internal/infrastructure/i18n"
)

const (
	// LanguageContextKey guarda o idioma resolvido da requisição
	LanguageContextKey = "language"
	// I18nServiceContextKey guarda o *i18n.Service usado pelos handlers
	I18nServiceContextKey = "i18n_service"
)

// LanguageQueryParam sobrepõe o Accept-Language
const LanguageQueryParam = "lang"

// I18nMiddleware resolve o idioma de cada requisição
type I18nMiddleware struct {
	translations *i18n.Service
}

// NewI18nMiddleware cria um novo middleware de i18n
func NewI18nMiddleware(translations *i18n.Service) *I18nMiddleware {
	return &I18nMiddleware{translations: translations}
}

// DetectLanguage escolhe, nesta ordem: ?lang=, Accept-Language e o idioma padrão.
// O idioma escolhido volta no header Content-Language.
func (m *I18nMiddleware) DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang, ok := m.translations.Match(c.Query(LanguageQueryParam))
		if !ok {
			lang, ok = m.fromAcceptLanguage(c.GetHeader("Accept-Language"))
		}
		if !ok {
			lang = m.translations.GetDefaultLanguage()
		}

		c.Set(LanguageContextKey, lang)
		c.Set(I18nServiceContextKey, m.translations)
		c.Header("Content-Language", lang)

		c.Next()
	}
}

// fromAcceptLanguage percorre as preferências por peso (q) e aceita a
// tag exata ou, em seguida, apenas o idioma base (en-US -> en)
func (m *I18nMiddleware) fromAcceptLanguage(header string) (string, bool) {
	if header == "" {
		return "", false
	}

	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil {
		return "", false
	}

	for _, tag := range tags {
		if lang, ok := m.translations.Match(tag.String()); ok {
			return lang, true
		}

		base, _ := tag.Base()
		if lang, ok := m.translations.Match(base.String()); ok {
			return lang, true
		}
	}

	return "", false
}
