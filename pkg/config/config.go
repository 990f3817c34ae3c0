package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	HTTP          HTTPConfig
	FeatureFlags  FeatureFlagsConfig
	Inventory     InventoryConfig
	Payment       PaymentConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if _, err := cfg.App.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FOUSHACK_APP_ENV" required:"true"`
	Port         string `envconfig:"FOUSHACK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"FOUSHACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOUSHACK_LOG_WARN_STACK" default:"false"`
	Timezone     string `envconfig:"FOUSHACK_BUSINESS_TIMEZONE" default:"Asia/Kolkata"`
	Currency     string `envconfig:"FOUSHACK_CURRENCY" default:"INR"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Location resolves the business timezone used to label inventory days.
func (a AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(a.Timezone)
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading business timezone %q: %w", name, err)
	}
	return loc, nil
}

type DBConfig struct {
	DSN    string `envconfig:"FOUSHACK_DB_DSN"`
	Driver string `envconfig:"FOUSHACK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOUSHACK_DB_HOST"`
	LegacyPort     int    `envconfig:"FOUSHACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOUSHACK_DB_USER"`
	LegacyPassword string `envconfig:"FOUSHACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOUSHACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOUSHACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOUSHACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOUSHACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOUSHACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOUSHACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOUSHACK_REDIS_URL"`
	Address      string        `envconfig:"FOUSHACK_REDIS_ADDR"`
	Password     string        `envconfig:"FOUSHACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOUSHACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOUSHACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOUSHACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOUSHACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOUSHACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOUSHACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint is configured. Without one the API
// runs with in-process locking and no refresh sessions.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret                 string `envconfig:"FOUSHACK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"FOUSHACK_JWT_ISSUER" default:"foushack"`
	ExpirationMinutes      int    `envconfig:"FOUSHACK_JWT_EXPIRATION_MINUTES" default:"720"`
	RefreshTokenTTLMinutes int    `envconfig:"FOUSHACK_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FOUSHACK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FOUSHACK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FOUSHACK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FOUSHACK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FOUSHACK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"FOUSHACK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"FOUSHACK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"FOUSHACK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	OrderWindow     time.Duration `envconfig:"FOUSHACK_AUTH_RATE_LIMIT_ORDER_WINDOW" default:"1m"`
	OrderIPLimit    int           `envconfig:"FOUSHACK_AUTH_RATE_LIMIT_ORDER_IP_LIMIT" default:"10"`
}

type HTTPConfig struct {
	RequestTimeout time.Duration `envconfig:"FOUSHACK_HTTP_REQUEST_TIMEOUT" default:"15s"`
	AllowedOrigins []string      `envconfig:"FOUSHACK_HTTP_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FOUSHACK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FOUSHACK_AUTO_MIGRATE" default:"false"`
}

type InventoryConfig struct {
	EndDayLockTTL time.Duration `envconfig:"FOUSHACK_INVENTORY_END_DAY_LOCK_TTL" default:"2m"`
}

// PaymentConfig holds the gateway credentials used to confirm online payments.
type PaymentConfig struct {
	KeyID     string `envconfig:"FOUSHACK_PAYMENT_KEY_ID"`
	KeySecret string `envconfig:"FOUSHACK_PAYMENT_KEY_SECRET"`
}

// Enabled reports whether online payment confirmation is configured.
func (p PaymentConfig) Enabled() bool {
	return strings.TrimSpace(p.KeySecret) != ""
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if db.DSN != "" {
		return nil
	}
	if useSQLite {
		db.Driver = DriverSQLite
		db.DSN = DefaultSQLiteDSN
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
