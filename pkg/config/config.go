package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Service ServiceConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	OTP     OTPConfig
	SMS     SMSConfig
	Orders  OrdersConfig
	Payment PaymentConfig
	Cron    CronConfig
	GCP     GCPConfig
	GCS     GCSConfig
	PubSub  PubSubConfig

	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"RASOILINK_APP_ENV" required:"true"`
	Port         string `envconfig:"RASOILINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RASOILINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RASOILINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"RASOILINK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"RASOILINK_DB_DSN"`
	Driver string `envconfig:"RASOILINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RASOILINK_DB_HOST"`
	LegacyPort     int    `envconfig:"RASOILINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RASOILINK_DB_USER"`
	LegacyPassword string `envconfig:"RASOILINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"RASOILINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"RASOILINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RASOILINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RASOILINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RASOILINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RASOILINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RASOILINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"RASOILINK_REDIS_ADDR"`
	Password     string        `envconfig:"RASOILINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"RASOILINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RASOILINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RASOILINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RASOILINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RASOILINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RASOILINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"RASOILINK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RASOILINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RASOILINK_JWT_EXPIRATION_MINUTES" default:"1440"`
	SessionTTLMinutes int    `envconfig:"RASOILINK_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the Redis session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type OTPConfig struct {
	TTL         time.Duration `envconfig:"RASOILINK_OTP_TTL" default:"5m"`
	MaxAttempts int           `envconfig:"RASOILINK_OTP_MAX_ATTEMPTS" default:"5"`
}

type SMSConfig struct {
	Provider   string `envconfig:"RASOILINK_SMS_PROVIDER" default:"log"`
	AccountSID string `envconfig:"RASOILINK_SMS_ACCOUNT_SID"`
	AuthToken  string `envconfig:"RASOILINK_SMS_AUTH_TOKEN"`
	FromNumber string `envconfig:"RASOILINK_SMS_FROM_NUMBER"`
}

type OrdersConfig struct {
	DefaultDurationHours int `envconfig:"RASOILINK_ORDER_DEFAULT_DURATION_HOURS" default:"2"`
	MaxDurationHours     int `envconfig:"RASOILINK_ORDER_MAX_DURATION_HOURS" default:"48"`
}

type PaymentConfig struct {
	// DemoFailures enables the randomized failure path of the simulated
	// gateway. Production keeps this off so payments are deterministic.
	DemoFailures    bool    `envconfig:"RASOILINK_PAYMENT_DEMO_FAILURES" default:"false"`
	DemoFailureRate float64 `envconfig:"RASOILINK_PAYMENT_DEMO_FAILURE_RATE" default:"0.1"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"RASOILINK_CRON_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"RASOILINK_CRON_LOCK_TTL" default:"5m"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"RASOILINK_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"RASOILINK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"RASOILINK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"RASOILINK_GCS_BUCKET_NAME"`
	UploadURLExpiry   time.Duration `envconfig:"RASOILINK_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"RASOILINK_GCS_DOWNLOAD_URL_EXPIRY" default:"24h"`
}

type PubSubConfig struct {
	OrdersTopic    string `envconfig:"RASOILINK_PUBSUB_ORDERS_TOPIC" default:"rl-order-events"`
	InventoryTopic string `envconfig:"RASOILINK_PUBSUB_INVENTORY_TOPIC" default:"rl-inventory-events"`
	PublishRetries int    `envconfig:"RASOILINK_PUBSUB_PUBLISH_RETRIES" default:"3"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"RASOILINK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"RASOILINK_AUTO_MIGRATE" default:"false"`
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
