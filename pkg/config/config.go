package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix shared by every service binary.
const EnvPrefix = "ZNFORGE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ZNFORGE_DB_DSN"
	EnvDBHost = "ZNFORGE_DB_HOST"
	EnvDBUser = "ZNFORGE_DB_USER"
	EnvDBName = "ZNFORGE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cron          CronConfig
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
	Env          string `envconfig:"ZNFORGE_APP_ENV" required:"true"`
	Port         string `envconfig:"ZNFORGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ZNFORGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ZNFORGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ZNFORGE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ZNFORGE_DB_DSN"`
	Driver string `envconfig:"ZNFORGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ZNFORGE_DB_HOST"`
	LegacyPort     int    `envconfig:"ZNFORGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ZNFORGE_DB_USER"`
	LegacyPassword string `envconfig:"ZNFORGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"ZNFORGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"ZNFORGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ZNFORGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ZNFORGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ZNFORGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ZNFORGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ZNFORGE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"ZNFORGE_REDIS_ADDR"`
	Password     string        `envconfig:"ZNFORGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"ZNFORGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ZNFORGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ZNFORGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ZNFORGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ZNFORGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ZNFORGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"ZNFORGE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"ZNFORGE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"ZNFORGE_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"ZNFORGE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"ZNFORGE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"ZNFORGE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"ZNFORGE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"ZNFORGE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"ZNFORGE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"ZNFORGE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"ZNFORGE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	LoginUsernameLimit int           `envconfig:"ZNFORGE_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"ZNFORGE_FEATURE_AUTO_MIGRATE" default:"true"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"ZNFORGE_CRON_INTERVAL" default:"24h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
