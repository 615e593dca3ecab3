package config

// EnvPrefix is passed to envconfig; every field carries an explicit name so
// the prefix only matters for fields without one.
const EnvPrefix = "CREATORDASH"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv              = "CREATORDASH_APP_ENV"
	EnvPort                = "CREATORDASH_APP_PORT"
	EnvDBDSN               = "CREATORDASH_DB_DSN"
	EnvDBHost              = "CREATORDASH_DB_HOST"
	EnvDBUser              = "CREATORDASH_DB_USER"
	EnvDBPassword          = "CREATORDASH_DB_PASSWORD"
	EnvDBName              = "CREATORDASH_DB_NAME"
	EnvRedisURL            = "CREATORDASH_REDIS_URL"
	EnvJWTSecret           = "CREATORDASH_JWT_SECRET"
	EnvStripeAPIKey        = "CREATORDASH_STRIPE_API_KEY"
	EnvStripeWebhookSecret = "CREATORDASH_STRIPE_WEBHOOK_SECRET"
	EnvStripeEnv           = "CREATORDASH_STRIPE_ENV"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
