package config

import (
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/nimasrn/storefront-backoffice/pkg/logger"
	"github.com/pkg/errors"
)

var config *Config

// Config holds every setting of the back-office. Only this struct is read at
// runtime; no package reaches into the environment on its own.
type Config struct {
	AppEnv              string `env:"APP_ENV,default=dev"`
	AppName             string `env:"APP_NAME,default=storefront_backoffice"`
	AppDebug            bool   `env:"APP_DEBUG,default=1"`
	AppDebugMetricsAddr string `env:"APP_DEBUG_METRIC_ADDR"`
	AppDebugMetricsURI  string `env:"APP_DEBUG_METRIC_URI,default=/metrics"`
	AppTimezone         string `env:"APP_TIMEZONE,default=Local"`

	HttpListenAddr     string        `env:"HTTP_LISTEN_ADDR,default=:8080"`
	HttpRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=10s"`
	HttpCORSOrigins    []string      `env:"HTTP_CORS_ORIGINS"`

	PostgresReadHost     string `env:"POSTGRES_READ_HOST"`
	PostgresReadPort     string `env:"POSTGRES_READ_PORT,default=5432"`
	PostgresReadUser     string `env:"POSTGRES_READ_USER"`
	PostgresReadPassword string `env:"POSTGRES_READ_PASSWORD"`
	PostgresReadDatabase string `env:"POSTGRES_READ_DBNAME"`

	PostgresWriteHost     string `env:"POSTGRES_WRITE_HOST"`
	PostgresWritePort     string `env:"POSTGRES_WRITE_PORT,default=5432"`
	PostgresWriteUser     string `env:"POSTGRES_WRITE_USER"`
	PostgresWritePassword string `env:"POSTGRES_WRITE_PASSWORD"`
	PostgresWriteDatabase string `env:"POSTGRES_WRITE_DBNAME"`
	PostgresSSLMode       string `env:"POSTGRES_SSLMODE,default=disable"`

	RedisAddr               string `env:"REDIS_ADDR"`
	RedisUsername           string `env:"REDIS_USER"`
	RedisPassword           string `env:"REDIS_PASS"`
	RedisDatabase           int    `env:"REDIS_DATABASE"`
	RedisUniversalKeyPrefix string `env:"REDIS_UNIVERSAL_KEY_PREFIX,default=backoffice:"`

	PromNamespace string `env:"PROM_NAMESPACE,default=storefront"`

	LogLevel string `env:"LOG_LEVEL"`

	// HS256 secret shared with the identity provider that signs session tokens.
	IdentityJWTSecret string `env:"IDENTITY_JWT_SECRET"`
	IdentityIssuer    string `env:"IDENTITY_ISSUER"`

	AdminRoleCacheTTL time.Duration `env:"ADMIN_ROLE_CACHE_TTL,default=30s"`
	IdempotencyTTL    time.Duration `env:"IDEMPOTENCY_TTL,default=24h"`

	S3Region        string `env:"S3_REGION,default=us-east-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3Bucket        string `env:"S3_BUCKET,default=Public"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
}

func Load(path string) error {
	logger.Info("loading configs..", "path", path)
	c := &Config{}
	var err error
	if path != "" {
		logger.Info("trying to publish env from file", "path", path)
		err = godotenv.Load(path)
		if err != nil {
			return errors.Wrapf(err, "failed to load configuration file %s", path)
		}
	}

	if _, err = env.UnmarshalFromEnviron(c); err != nil {
		return errors.Wrap(err, "failed to map env variables to Configuration object")
	}
	if err = c.validate(); err != nil {
		return err
	}

	config = c
	return nil
}

func (c *Config) validate() error {
	if c.IdentityJWTSecret == "" {
		return errors.New("IDENTITY_JWT_SECRET must be set")
	}
	if _, err := time.LoadLocation(c.AppTimezone); err != nil {
		return errors.Wrapf(err, "invalid APP_TIMEZONE %q", c.AppTimezone)
	}
	return nil
}

// Location is the zone used for expiry strings without an explicit offset.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func Get() *Config {
	if config == nil {
		logger.Panic("Config is not initialized")
	}
	return config
}
