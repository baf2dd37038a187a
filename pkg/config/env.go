package config

const (
	EnvPrefix = "FOODBRIDGE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "FOODBRIDGE_APP_ENV"
	EnvPort     = "FOODBRIDGE_APP_PORT"
	EnvLogLevel  = "FOODBRIDGE_LOG_LEVEL"
	EnvLogFormat = "FOODBRIDGE_LOG_FORMAT"

	EnvDBDSN      = "FOODBRIDGE_DB_DSN"
	EnvDBDriver   = "FOODBRIDGE_DB_DRIVER"
	EnvDBHost     = "FOODBRIDGE_DB_HOST"
	EnvDBPort     = "FOODBRIDGE_DB_PORT"
	EnvDBUser     = "FOODBRIDGE_DB_USER"
	EnvDBPassword = "FOODBRIDGE_DB_PASSWORD"
	EnvDBName     = "FOODBRIDGE_DB_NAME"

	EnvRedisURL = "FOODBRIDGE_REDIS_URL"

	EnvDemoDonorEmail = "FOODBRIDGE_INTAKE_DEMO_DONOR_EMAIL"
	EnvMaxDistanceKm  = "FOODBRIDGE_INTAKE_MAX_DISTANCE_KM"

	EnvImpactSeedMeals = "FOODBRIDGE_IMPACT_SEED_MEALS"
	EnvCronInterval    = "FOODBRIDGE_CRON_INTERVAL"
	EnvCronJobTimeout  = "FOODBRIDGE_CRON_JOB_TIMEOUT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
