package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort       string `mapstructure:"HTTP_PORT"`
	GRPCPort       string `mapstructure:"GRPC_PORT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	LogMode        string `mapstructure:"LOG_MODE"`

	DBDriver   string `mapstructure:"DB_DRIVER"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	RedisAddr  string        `mapstructure:"REDIS_ADDR"`
	SessionTTL time.Duration `mapstructure:"SESSION_TTL"`

	AccessSecret string        `mapstructure:"ACCESS_SECRET"`
	AccessTTL    time.Duration `mapstructure:"ACCESS_TTL"`

	IdentityMode        string        `mapstructure:"IDENTITY_MODE"`
	AdminEmail          string        `mapstructure:"ADMIN_EMAIL"`
	AdminPassword       string        `mapstructure:"ADMIN_PASSWORD"`
	AuthTimeout         time.Duration `mapstructure:"AUTH_TIMEOUT"`
	SimulatedAuthDelay  time.Duration `mapstructure:"SIMULATED_AUTH_DELAY"`
	RequireConfirmation bool          `mapstructure:"REQUIRE_EMAIL_CONFIRMATION"`

	CoursesDir     string        `mapstructure:"COURSES_DIR"`
	ContentRoot    string        `mapstructure:"CONTENT_ROOT"`
	ContentBaseURL string        `mapstructure:"CONTENT_BASE_URL"`
	ContentTTL     time.Duration `mapstructure:"CONTENT_CACHE_TTL"`

	APIKey      string `mapstructure:"API_KEY"`
	SMTPEmail   string `mapstructure:"SMTP_EMAIL"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`
}

var keys = []string{
	"HTTP_PORT", "GRPC_PORT", "ALLOWED_ORIGINS", "LOG_MODE",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "SQLITE_PATH",
	"REDIS_ADDR", "SESSION_TTL",
	"ACCESS_SECRET", "ACCESS_TTL",
	"IDENTITY_MODE", "ADMIN_EMAIL", "ADMIN_PASSWORD", "AUTH_TIMEOUT", "SIMULATED_AUTH_DELAY", "REQUIRE_EMAIL_CONFIRMATION",
	"COURSES_DIR", "CONTENT_ROOT", "CONTENT_BASE_URL", "CONTENT_CACHE_TTL",
	"API_KEY", "SMTP_EMAIL", "FRONTEND_URL",
}

func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	v.SetDefault("HTTP_PORT", ":3001")
	v.SetDefault("GRPC_PORT", ":50051")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_MODE", "dev")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("SQLITE_PATH", "glassbird.db")
	v.SetDefault("SESSION_TTL", "12h")
	v.SetDefault("ACCESS_SECRET", "glassbird-dev-secret")
	v.SetDefault("ACCESS_TTL", "15m")
	v.SetDefault("IDENTITY_MODE", "database")
	v.SetDefault("ADMIN_EMAIL", "admin@glassbird.com")
	v.SetDefault("ADMIN_PASSWORD", "admin123")
	v.SetDefault("AUTH_TIMEOUT", "10s")
	v.SetDefault("SIMULATED_AUTH_DELAY", "500ms")
	v.SetDefault("CONTENT_CACHE_TTL", "1h")

	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	// app.env is optional, the environment is enough
	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

func (c Config) Origins() []string {
	var out []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
