package i18n

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
	"text/template"
)

//go:embed locales/*.json
var embeddedLocales embed.FS

// Service gerencia traduções e internacionalização
type Service struct {
	mu              sync.RWMutex
	translations    map[string]map[string]string // [language][key]message
	canonical       map[string]string            // lower(language) -> language
	templates       map[string]*template.Template
	defaultLanguage string
}

// NewService carrega os arquivos JSON de localesDir.
// Com localesDir vazio usa as traduções embutidas no binário.
func NewService(localesDir, defaultLang string) (*Service, error) {
	if localesDir == "" {
		sub, err := fs.Sub(embeddedLocales, "locales")
		if err != nil {
			return nil, err
		}
		return NewServiceFS(sub, defaultLang)
	}
	if _, err := os.Stat(localesDir); err != nil {
		return nil, fmt.Errorf("locales directory %s: %w", localesDir, err)
	}
	return NewServiceFS(os.DirFS(localesDir), defaultLang)
}

// NewServiceFS carrega um arquivo <idioma>.json por idioma da raiz de fsys
func NewServiceFS(fsys fs.FS, defaultLang string) (*Service, error) {
	s := &Service{
		translations:    make(map[string]map[string]string),
		canonical:       make(map[string]string),
		templates:       make(map[string]*template.Template),
		defaultLanguage: defaultLang,
	}

	files, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to find locale files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no locale files found")
	}

	for _, file := range files {
		lang := strings.TrimSuffix(path.Base(file), ".json")

		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read locale file %s: %w", file, err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("failed to parse locale file %s: %w", file, err)
		}

		s.translations[lang] = translations
		s.canonical[strings.ToLower(lang)] = lang
	}

	if _, ok := s.translations[defaultLang]; !ok {
		return nil, fmt.Errorf("default language %s not found in locale files", defaultLang)
	}

	return s, nil
}

// T traduz uma chave para o idioma especificado, com fallback para o idioma padrão
// e, por fim, para a própria chave. Parâmetros usam templates Go ({{.Field}}).
func (s *Service) T(lang, key string, params ...map[string]any) string {
	s.mu.RLock()
	message := s.getTranslation(lang, key)
	if message == "" {
		lang = s.defaultLanguage
		message = s.getTranslation(lang, key)
	}
	s.mu.RUnlock()

	if message == "" {
		return key
	}
	if len(params) == 0 || !strings.Contains(message, "{{") {
		return message
	}

	tmpl, err := s.template(lang+"\x00"+key, message)
	if err != nil {
		return message
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params[0]); err != nil {
		return message
	}

	return buf.String()
}

// template compila cada mensagem parametrizada uma única vez
func (s *Service) template(id, message string) (*template.Template, error) {
	s.mu.RLock()
	tmpl, ok := s.templates[id]
	s.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := template.New("msg").Parse(message)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.templates[id] = tmpl
	s.mu.Unlock()

	return tmpl, nil
}

func (s *Service) getTranslation(lang, key string) string {
	if langMap, ok := s.translations[lang]; ok {
		return langMap[key]
	}
	return ""
}

// GetDefaultLanguage retorna o idioma padrão configurado
func (s *Service) GetDefaultLanguage() string {
	return s.defaultLanguage
}

// GetSupportedLanguages retorna lista de idiomas suportados
func (s *Service) GetSupportedLanguages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	langs := make([]string, 0, len(s.translations))
	for lang := range s.translations {
		langs = append(langs, lang)
	}
	return langs
}

// Match resolve o idioma sem diferenciar maiúsculas ("pt-br" -> "pt-BR")
func (s *Service) Match(lang string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	canonical, ok := s.canonical[strings.ToLower(strings.TrimSpace(lang))]
	return canonical, ok
}

// IsLanguageSupported verifica se um idioma é suportado
func (s *Service) IsLanguageSupported(lang string) bool {
	_, ok := s.Match(lang)
	return ok
}
