package config

const (
	// EnvPrefix namespaces every environment variable the app reads.
	EnvPrefix = "RASOILINK"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "RASOILINK_APP_ENV"
	EnvDBDSN  = "RASOILINK_DB_DSN"
	EnvDBHost = "RASOILINK_DB_HOST"
	EnvDBUser = "RASOILINK_DB_USER"
	EnvDBName = "RASOILINK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
