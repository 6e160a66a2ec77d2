package config

// EnvPrefix is passed to envconfig; individual fields carry full names so the
// effective prefix lives on the tags.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "OAKLINE_DB_DSN"
	EnvDBHost = "OAKLINE_DB_HOST"
	EnvDBUser = "OAKLINE_DB_USER"
	EnvDBName = "OAKLINE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
