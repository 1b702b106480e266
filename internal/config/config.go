package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	ExamAPI ExamAPIConfig `mapstructure:"exam_api"`
	Storage StorageConfig
	Cache   CacheConfig
	Logging LoggingConfig
	CORS    CORSConfig
}

type ServerConfig struct {
	Address         string
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ExamAPIConfig описывает подключение к удаленному exam API.
// URL берется из переменной окружения EXAM_API_URL; пустое значение
// считается ошибкой конфигурации и возвращается клиентом при вызове.
type ExamAPIConfig struct {
	URL        string
	Timeout    time.Duration
	RetryCount int           `mapstructure:"retry_count"`
	RetryDelay time.Duration `mapstructure:"retry_delay"`
}

type StorageConfig struct {
	Type     string // "memory" или "file"
	FilePath string `mapstructure:"file_path"`
}

type CacheConfig struct {
	// SurfaceFetchErrors включает возврат ошибок из FetchResults вместо
	// их молчаливого логирования.
	SurfaceFetchErrors bool `mapstructure:"surface_fetch_errors"`
}

type LoggingConfig struct {
	Level   string
	Pretty  bool
	NoColor bool `mapstructure:"no_color"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	viper.AutomaticEnv()

	if err := viper.BindEnv("exam_api.url", "EXAM_API_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.address", ":8090")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.idle_timeout", "60s")
	// Должен быть меньше write_timeout, иначе сервер закроет соединение раньше
	viper.SetDefault("server.request_timeout", "10s")
	viper.SetDefault("server.shutdown_timeout", "10s")

	// Exam API defaults
	viper.SetDefault("exam_api.url", "")
	viper.SetDefault("exam_api.timeout", "15s")
	viper.SetDefault("exam_api.retry_count", 2)
	viper.SetDefault("exam_api.retry_delay", "100ms")

	// Storage defaults
	viper.SetDefault("storage.type", "file")
	viper.SetDefault("storage.file_path", "aptipro-state.json")

	// Cache defaults
	viper.SetDefault("cache.surface_fetch_errors", false)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.pretty", false)
	viper.SetDefault("logging.no_color", false)

	// CORS defaults
	viper.SetDefault("cors.allowed_origins", []string{"*"})
	viper.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	viper.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"})
	viper.SetDefault("cors.exposed_headers", []string{"Link"})
	viper.SetDefault("cors.allow_credentials", true)
	viper.SetDefault("cors.max_age", 300)
}
