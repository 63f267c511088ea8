package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "GROCERY"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv   = "GROCERY_APP_ENV"
	EnvPort     = "GROCERY_APP_PORT"
	EnvDBDSN    = "GROCERY_DB_DSN"
	EnvDBHost   = "GROCERY_DB_HOST"
	EnvDBUser   = "GROCERY_DB_USER"
	EnvDBName   = "GROCERY_DB_NAME"
	EnvRedisURL = "GROCERY_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
