package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Env      string
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Logging  LoggingConfig
	CORS     CORSConfig
	I18n     I18nConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	BaseURL string // URL base da API para construir URIs RFC 7807
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	MaxIdleTime int
	AutoMigrate bool
}

type RedisConfig struct {
	URL string // vazio desativa a revogação de tokens
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

type LoggingConfig struct {
	Level string
}

type CORSConfig struct {
	AllowedOrigins string
}

type I18nConfig struct {
	LocalesDir      string
	DefaultLanguage string
}

// Load carrega as configurações do ambiente (e do arquivo .env, se existir)
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	expiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRY: %w", err)
	}

	config := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("API_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime: v.GetInt("DB_MAX_IDLE_TIME"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: expiry,
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		I18n: I18nConfig{
			LocalesDir:      v.GetString("LOCALES_DIR"),
			DefaultLanguage: v.GetString("DEFAULT_LANGUAGE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("PORT", "8080")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "students")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_MAX_IDLE_TIME", 300)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_ACCESS_EXPIRY", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOCALES_DIR", "./internal/infrastructure/i18n/locales")
	v.SetDefault("DEFAULT_LANGUAGE", "en")
}

// Validate verifica as configurações obrigatórias
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.AccessExpiry <= 0 {
		return errors.New("JWT_ACCESS_EXPIRY must be positive")
	}
	if c.Server.Port == "" {
		return errors.New("PORT is required")
	}
	return nil
}

// IsProduction indica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}
