package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "foodbridge.db"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	FeatureFlags FeatureFlagsConfig
	Intake       IntakeConfig
	Impact       ImpactConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Intake.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FOODBRIDGE_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODBRIDGE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FOODBRIDGE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"FOODBRIDGE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"FOODBRIDGE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind        string   `envconfig:"FOODBRIDGE_SERVICE_KIND" default:"api"`
	CORSOrigins []string `envconfig:"FOODBRIDGE_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

type DBConfig struct {
	DSN    string `envconfig:"FOODBRIDGE_DB_DSN"`
	Driver string `envconfig:"FOODBRIDGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOODBRIDGE_DB_HOST"`
	LegacyPort     int    `envconfig:"FOODBRIDGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOODBRIDGE_DB_USER"`
	LegacyPassword string `envconfig:"FOODBRIDGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOODBRIDGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOODBRIDGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODBRIDGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODBRIDGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODBRIDGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODBRIDGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"FOODBRIDGE_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite one.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODBRIDGE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FOODBRIDGE_REDIS_ADDR"`
	Password     string        `envconfig:"FOODBRIDGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODBRIDGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODBRIDGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODBRIDGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODBRIDGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODBRIDGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODBRIDGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"FOODBRIDGE_AUTO_MIGRATE" default:"false"`
}

// IntakeConfig tunes the donation intake flow.
type IntakeConfig struct {
	DemoDonorEmail string `envconfig:"FOODBRIDGE_INTAKE_DEMO_DONOR_EMAIL" default:"demo@foodbridge.org"`
	MinDistanceKm  int    `envconfig:"FOODBRIDGE_INTAKE_MIN_DISTANCE_KM" default:"1"`
	MaxDistanceKm  int    `envconfig:"FOODBRIDGE_INTAKE_MAX_DISTANCE_KM" default:"10"`
	DistanceSeed   int64  `envconfig:"FOODBRIDGE_INTAKE_DISTANCE_SEED" default:"0"`

	RateLimitWindow   time.Duration `envconfig:"FOODBRIDGE_INTAKE_RATE_LIMIT_WINDOW" default:"1m"`
	RateLimitPerIP    int           `envconfig:"FOODBRIDGE_INTAKE_RATE_LIMIT_PER_IP" default:"60"`
	RateLimitPerDonor int           `envconfig:"FOODBRIDGE_INTAKE_RATE_LIMIT_PER_DONOR" default:"20"`
}

func (i IntakeConfig) validate() error {
	if i.MinDistanceKm <= 0 {
		return fmt.Errorf("intake min distance must be positive, got %d", i.MinDistanceKm)
	}
	if i.MaxDistanceKm < i.MinDistanceKm {
		return fmt.Errorf("intake max distance %d is below min distance %d", i.MaxDistanceKm, i.MinDistanceKm)
	}
	return nil
}

// ImpactConfig holds the seed values used when the impact singleton is first created
// and the increments applied when a pickup is accepted.
type ImpactConfig struct {
	SeedMealsServed     int `envconfig:"FOODBRIDGE_IMPACT_SEED_MEALS" default:"1250"`
	SeedHungerReduction int `envconfig:"FOODBRIDGE_IMPACT_SEED_HUNGER_REDUCTION" default:"78"`
	SeedZonesAssisted   int `envconfig:"FOODBRIDGE_IMPACT_SEED_ZONES" default:"0"`
	MealsPerPickup      int `envconfig:"FOODBRIDGE_IMPACT_MEALS_PER_PICKUP" default:"50"`
	HungerPerPickup     int `envconfig:"FOODBRIDGE_IMPACT_HUNGER_PER_PICKUP" default:"2"`
}

type CronConfig struct {
	Interval   time.Duration `envconfig:"FOODBRIDGE_CRON_INTERVAL" default:"1h"`
	JobTimeout time.Duration `envconfig:"FOODBRIDGE_CRON_JOB_TIMEOUT" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = defaultSQLiteDSN
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
