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
	Permissions   PermissionsConfig
	Realtime      RealtimeConfig
	FeatureFlags  FeatureFlagsConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Eventing      EventingConfig
	AuthRateLimit AuthRateLimitConfig
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
	Env          string `envconfig:"RINSR_APP_ENV" required:"true"`
	Port         string `envconfig:"RINSR_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RINSR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RINSR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RINSR_DB_DSN"`
	Driver string `envconfig:"RINSR_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RINSR_DB_HOST"`
	LegacyPort     int    `envconfig:"RINSR_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RINSR_DB_USER"`
	LegacyPassword string `envconfig:"RINSR_DB_PASSWORD"`
	LegacyName     string `envconfig:"RINSR_DB_NAME"`
	LegacySSLMode  string `envconfig:"RINSR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RINSR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RINSR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RINSR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RINSR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RINSR_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RINSR_REDIS_ADDR"`
	Password     string        `envconfig:"RINSR_REDIS_PASSWORD"`
	DB           int           `envconfig:"RINSR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RINSR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RINSR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RINSR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RINSR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RINSR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"RINSR_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"RINSR_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"RINSR_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"RINSR_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"RINSR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"RINSR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"RINSR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"RINSR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"RINSR_ARGON_KEY_LEN" default:"32"`
}

// PermissionsConfig tunes the role permission cache. A permission fetch
// failure always degrades to an empty allowed set regardless of these values.
type PermissionsConfig struct {
	CacheTTL time.Duration `envconfig:"RINSR_PERMISSIONS_CACHE_TTL" default:"5m"`
}

type RealtimeConfig struct {
	ReadBufferSize   int           `envconfig:"RINSR_REALTIME_READ_BUFFER" default:"1024"`
	WriteBufferSize  int           `envconfig:"RINSR_REALTIME_WRITE_BUFFER" default:"1024"`
	WriteTimeout     time.Duration `envconfig:"RINSR_REALTIME_WRITE_TIMEOUT" default:"10s"`
	PongTimeout      time.Duration `envconfig:"RINSR_REALTIME_PONG_TIMEOUT" default:"60s"`
	PingInterval     time.Duration `envconfig:"RINSR_REALTIME_PING_INTERVAL" default:"54s"`
	SendBufferLength int           `envconfig:"RINSR_REALTIME_SEND_BUFFER" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"RINSR_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"RINSR_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"RINSR_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"RINSR_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrderEventsTopic        string `envconfig:"RINSR_PUBSUB_ORDER_EVENTS_TOPIC" default:"rinsr-order-events"`
	OrderEventsSubscription string `envconfig:"RINSR_PUBSUB_ORDER_EVENTS_SUBSCRIPTION" required:"true"`
}

// AuthRateLimitConfig caps login/refresh attempts per IP and per email
// within a fixed window. A zero limit disables that check.
type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"RINSR_AUTH_RL_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit    int           `envconfig:"RINSR_AUTH_RL_LOGIN_IP_LIMIT" default:"10"`
	LoginEmailLimit int           `envconfig:"RINSR_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"5"`
	RefreshWindow   time.Duration `envconfig:"RINSR_AUTH_RL_REFRESH_WINDOW" default:"1m"`
	RefreshIPLimit  int           `envconfig:"RINSR_AUTH_RL_REFRESH_IP_LIMIT" default:"30"`
}

type EventingConfig struct {
	ConsumerIdempotencyTTL time.Duration `envconfig:"RINSR_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
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
