package config

const EnvPrefix = "FOUSHACK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DefaultTimezone  = "Asia/Kolkata"
	DriverPostgres   = "postgres"
	DriverSQLite     = "sqlite"
	DefaultSQLiteDSN = "file:foushack.db?cache=shared&_foreign_keys=on"
)

const (
	EnvAppEnv       = "FOUSHACK_APP_ENV"
	EnvPort         = "FOUSHACK_APP_PORT"
	EnvTimezone     = "FOUSHACK_BUSINESS_TIMEZONE"
	EnvDBDSN        = "FOUSHACK_DB_DSN"
	EnvDBHost       = "FOUSHACK_DB_HOST"
	EnvDBUser       = "FOUSHACK_DB_USER"
	EnvDBName       = "FOUSHACK_DB_NAME"
	EnvRedisURL     = "FOUSHACK_REDIS_URL"
	EnvJWTSecret    = "FOUSHACK_JWT_SECRET"
	EnvJWTIssuer    = "FOUSHACK_JWT_ISSUER"
	EnvJWTExpMins   = "FOUSHACK_JWT_EXPIRATION_MINUTES"
	EnvUseSQLite    = "FOUSHACK_USE_SQLITE"
	EnvPaymentKey   = "FOUSHACK_PAYMENT_KEY_SECRET"
	EnvLockTTL      = "FOUSHACK_INVENTORY_END_DAY_LOCK_TTL"
	EnvHTTPOrigins  = "FOUSHACK_HTTP_ALLOWED_ORIGINS"
	EnvHTTPDeadline = "FOUSHACK_HTTP_REQUEST_TIMEOUT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
