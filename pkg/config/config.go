package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Token store backends.
const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

type Config struct {
	Env string

	API     APIConfig
	Tokens  TokenConfig
	Redis   RedisConfig
	Log     LogConfig
	UI      UIConfig
	Export  ExportConfig
	Metrics MetricsConfig
	Mock    MockConfig
}

// APIConfig points the client at the Scanova backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// TokenConfig selects where the credential pair is persisted.
type TokenConfig struct {
	Store     string
	FileDir   string
	KeyPrefix string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
}

// UIConfig tunes ephemeral console state.
type UIConfig struct {
	FilterDebounce time.Duration
	ToastTTL       time.Duration
}

// ExportConfig controls where roster exports are written.
type ExportConfig struct {
	Dir string
}

// MetricsConfig exposes client metrics when Addr is set.
type MetricsConfig struct {
	Addr string
}

// MockConfig configures the development backend stub.
type MockConfig struct {
	Port           int
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("HTTP_TIMEOUT"), 15*time.Second),
	}

	cfg.Tokens = TokenConfig{
		Store:     strings.ToLower(strings.TrimSpace(v.GetString("TOKEN_STORE"))),
		FileDir:   v.GetString("TOKEN_FILE_DIR"),
		KeyPrefix: v.GetString("REDIS_KEY_PREFIX"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.UI = UIConfig{
		FilterDebounce: parseDuration(v.GetString("FILTER_DEBOUNCE"), 350*time.Millisecond),
		ToastTTL:       parseDuration(v.GetString("TOAST_TTL"), 3500*time.Millisecond),
	}

	cfg.Export = ExportConfig{Dir: v.GetString("EXPORT_DIR")}
	cfg.Metrics = MetricsConfig{Addr: v.GetString("METRICS_ADDR")}

	cfg.Mock = MockConfig{
		Port:           v.GetInt("MOCK_PORT"),
		JWTSecret:      v.GetString("MOCK_JWT_SECRET"),
		TokenTTL:       parseDuration(v.GetString("MOCK_TOKEN_TTL"), time.Hour),
		AllowedOrigins: splitAndTrim(v.GetString("MOCK_ALLOWED_ORIGINS")),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:8000")
	v.SetDefault("HTTP_TIMEOUT", "15s")

	v.SetDefault("TOKEN_STORE", TokenStoreFile)
	v.SetDefault("TOKEN_FILE_DIR", defaultTokenDir())
	v.SetDefault("REDIS_KEY_PREFIX", "scanova:")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("FILTER_DEBOUNCE", "350ms")
	v.SetDefault("TOAST_TTL", "3500ms")

	v.SetDefault("EXPORT_DIR", "./exports")
	v.SetDefault("METRICS_ADDR", "")

	v.SetDefault("MOCK_PORT", 8000)
	v.SetDefault("MOCK_JWT_SECRET", "dev_secret")
	v.SetDefault("MOCK_TOKEN_TTL", "1h")
	v.SetDefault("MOCK_ALLOWED_ORIGINS", "")
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
