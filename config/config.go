package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devJWTSecret = "cafehere-development-secret"

// Config holds runtime configuration read from the environment (and an optional .env file).
type Config struct {
	Port           int    `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	DatabaseDriver   string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDSN      string `mapstructure:"DATABASE_DSN"`
	DatabaseLogLevel string `mapstructure:"DATABASE_LOG_LEVEL"`

	JWTSecret            string        `mapstructure:"JWT_SECRET"`
	AccessTokenLifetime  time.Duration `mapstructure:"ACCESS_TOKEN_LIFETIME"`
	RefreshTokenLifetime time.Duration `mapstructure:"REFRESH_TOKEN_LIFETIME"`
	BlacklistDriver      string        `mapstructure:"BLACKLIST_DRIVER"`
	RedisURL             string        `mapstructure:"REDIS_URL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`

	StorageDriver   string `mapstructure:"STORAGE_DRIVER"`
	UploadDir       string `mapstructure:"UPLOAD_DIR"`
	UploadURLPrefix string `mapstructure:"UPLOAD_URL_PREFIX"`
	MaxImageSize    int64  `mapstructure:"MAX_IMAGE_SIZE"`
	S3Bucket        string `mapstructure:"S3_BUCKET"`
	S3Region        string `mapstructure:"S3_REGION"`
	S3Endpoint      string `mapstructure:"S3_ENDPOINT"`
	S3AccessKey     string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey     string `mapstructure:"S3_SECRET_KEY"`
}

// Load reads .env (if present) into the process environment, then resolves
// every setting from the environment with development defaults.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	// AutomaticEnv only covers keys viper already knows; bind the rest explicitly.
	for _, key := range []string{"ALLOWED_ORIGINS", "REDIS_URL", "LOG_FILE", "S3_BUCKET", "S3_REGION", "S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", 8083)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=cafehere port=5432 sslmode=disable")
	v.SetDefault("DATABASE_LOG_LEVEL", "warn")
	v.SetDefault("JWT_SECRET", devJWTSecret)
	v.SetDefault("ACCESS_TOKEN_LIFETIME", 5*time.Minute)
	v.SetDefault("REFRESH_TOKEN_LIFETIME", 7*24*time.Hour)
	v.SetDefault("BLACKLIST_DRIVER", "database")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("UPLOAD_URL_PREFIX", "/uploads")
	v.SetDefault("MAX_IMAGE_SIZE", 5<<20)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Origins splits ALLOWED_ORIGINS (comma separated) and always includes the local frontend.
func (c *Config) Origins() []string {
	origins := []string{"http://localhost:3000"}
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) Validate() error {
	var errs []error
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == devJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must not be empty"))
	}
	if c.AccessTokenLifetime <= 0 || c.RefreshTokenLifetime <= 0 {
		errs = append(errs, errors.New("token lifetimes must be positive"))
	}
	if !oneOf(c.DatabaseDriver, "postgres", "memory") {
		errs = append(errs, fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver))
	}
	if !oneOf(c.BlacklistDriver, "database", "redis", "memory") {
		errs = append(errs, fmt.Errorf("unknown BLACKLIST_DRIVER %q", c.BlacklistDriver))
	}
	if c.BlacklistDriver == "redis" && c.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required for the redis blacklist"))
	}
	if c.BlacklistDriver == "database" && c.DatabaseDriver == "memory" {
		errs = append(errs, errors.New("the database blacklist needs DATABASE_DRIVER=postgres"))
	}
	if !oneOf(c.StorageDriver, "local", "s3") {
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	if c.StorageDriver == "s3" && c.S3Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required for s3 storage"))
	}
	return errors.Join(errs...)
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
