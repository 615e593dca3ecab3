package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Stripe       StripeConfig
	FeatureFlags FeatureFlagsConfig
	Analytics    AnalyticsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CREATORDASH_APP_ENV" required:"true"`
	Port         string `envconfig:"CREATORDASH_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CREATORDASH_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"CREATORDASH_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"CREATORDASH_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"CREATORDASH_DB_DSN"`

	Host     string `envconfig:"CREATORDASH_DB_HOST"`
	Port     int    `envconfig:"CREATORDASH_DB_PORT" default:"5432"`
	User     string `envconfig:"CREATORDASH_DB_USER"`
	Password string `envconfig:"CREATORDASH_DB_PASSWORD"`
	Name     string `envconfig:"CREATORDASH_DB_NAME"`
	SSLMode  string `envconfig:"CREATORDASH_DB_SSLMODE" default:"require"`

	MaxOpenConns    int           `envconfig:"CREATORDASH_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CREATORDASH_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CREATORDASH_DB_CONN_MAX_LIFETIME" default:"30m"`
	ConnMaxIdleTime time.Duration `envconfig:"CREATORDASH_DB_CONN_MAX_IDLE_TIME" default:"5m"`

	// SlowQueryThreshold logs statements slower than this at warn; zero disables it.
	SlowQueryThreshold time.Duration `envconfig:"CREATORDASH_DB_SLOW_QUERY" default:"500ms"`
}

// RedisConfig is optional: with neither URL nor Address set the webhook
// dedupe guard is disabled.
type RedisConfig struct {
	URL            string        `envconfig:"CREATORDASH_REDIS_URL"`
	Address        string        `envconfig:"CREATORDASH_REDIS_ADDR"`
	Password       string        `envconfig:"CREATORDASH_REDIS_PASSWORD"`
	DB             int           `envconfig:"CREATORDASH_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"CREATORDASH_REDIS_POOL_SIZE" default:"10"`
	DialTimeout    time.Duration `envconfig:"CREATORDASH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"CREATORDASH_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout   time.Duration `envconfig:"CREATORDASH_REDIS_WRITE_TIMEOUT" default:"3s"`
	IdempotencyTTL time.Duration `envconfig:"CREATORDASH_WEBHOOK_IDEMPOTENCY_TTL" default:"72h"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

// JWTConfig verifies Supabase-issued access tokens.
type JWTConfig struct {
	Secret   string `envconfig:"CREATORDASH_JWT_SECRET" required:"true"`
	Audience string `envconfig:"CREATORDASH_JWT_AUDIENCE" default:"authenticated"`
	Issuer   string `envconfig:"CREATORDASH_JWT_ISSUER"`
}

type StripeConfig struct {
	APIKey           string        `envconfig:"CREATORDASH_STRIPE_API_KEY" required:"true"`
	WebhookSecret    string        `envconfig:"CREATORDASH_STRIPE_WEBHOOK_SECRET" required:"true"`
	Env              string        `envconfig:"CREATORDASH_STRIPE_ENV" default:"test"`
	WebhookTolerance time.Duration `envconfig:"CREATORDASH_STRIPE_WEBHOOK_TOLERANCE" default:"5m"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CREATORDASH_AUTO_MIGRATE" default:"false"`
}

type AnalyticsConfig struct {
	Procedure string `envconfig:"CREATORDASH_ANALYTICS_PROCEDURE" default:"creator_dashboard_analytics"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
