package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable read by the service.
	EnvPrefix = "KEYSTONE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "KEYSTONE_DB_DSN"
	EnvDBHost = "KEYSTONE_DB_HOST"
	EnvDBUser = "KEYSTONE_DB_USER"
	EnvDBName = "KEYSTONE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	GoogleMaps   GoogleMapsConfig
	Pricing      PricingConfig
	Dispatch     DispatchConfig
	Checkout     CheckoutConfig
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
	Env          string `envconfig:"KEYSTONE_APP_ENV" required:"true"`
	Port         string `envconfig:"KEYSTONE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KEYSTONE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KEYSTONE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KEYSTONE_DB_DSN"`
	Driver string `envconfig:"KEYSTONE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KEYSTONE_DB_HOST"`
	LegacyPort     int    `envconfig:"KEYSTONE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KEYSTONE_DB_USER"`
	LegacyPassword string `envconfig:"KEYSTONE_DB_PASSWORD"`
	LegacyName     string `envconfig:"KEYSTONE_DB_NAME"`
	LegacySSLMode  string `envconfig:"KEYSTONE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KEYSTONE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KEYSTONE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KEYSTONE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KEYSTONE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KEYSTONE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KEYSTONE_REDIS_ADDR"`
	Password     string        `envconfig:"KEYSTONE_REDIS_PASSWORD"`
	DB           int           `envconfig:"KEYSTONE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KEYSTONE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KEYSTONE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KEYSTONE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KEYSTONE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KEYSTONE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"KEYSTONE_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	NotificationTopic string `envconfig:"KEYSTONE_PUBSUB_NOTIFICATION_TOPIC" default:"kn-notification-events"`
}

type GoogleMapsConfig struct {
	APIKey  string `envconfig:"KEYSTONE_GOOGLE_MAPS_API_KEY"`
	BaseURL string `envconfig:"KEYSTONE_GOOGLE_MAPS_BASE_URL"`
}

type PricingConfig struct {
	// OriginAddress is the office address all travel distances are measured from.
	OriginAddress string `envconfig:"KEYSTONE_PRICING_ORIGIN_ADDRESS" default:"1500 Market St, Philadelphia, PA 19102"`
	// RateBookJSON optionally overrides the built-in rate book. Prices are
	// configuration; changing a fee never means changing code.
	RateBookJSON string `envconfig:"KEYSTONE_PRICING_RATEBOOK_JSON"`
}

type DispatchConfig struct {
	DistanceTimeout time.Duration `envconfig:"KEYSTONE_DISPATCH_DISTANCE_TIMEOUT" default:"5s"`
	NotifyTimeout   time.Duration `envconfig:"KEYSTONE_DISPATCH_NOTIFY_TIMEOUT" default:"10s"`
}

type CheckoutConfig struct {
	// PaymentBaseURL is the hosted payment page sessions redirect to.
	PaymentBaseURL string `envconfig:"KEYSTONE_CHECKOUT_PAYMENT_BASE_URL" default:"https://pay.keystonenotarygroup.com/session"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KEYSTONE_AUTO_MIGRATE" default:"false"`
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
