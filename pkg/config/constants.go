package config

// EnvPrefix is passed to envconfig; all variables are already fully
// qualified so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvDBDSN  = "RINSR_DB_DSN"
	EnvDBHost = "RINSR_DB_HOST"
	EnvDBUser = "RINSR_DB_USER"
	EnvDBName = "RINSR_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
