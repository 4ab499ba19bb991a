package config

const (
	EnvPrefix = "TOPPERS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv           = "TOPPERS_APP_ENV"
	EnvPort             = "TOPPERS_APP_PORT"
	EnvDBDSN            = "TOPPERS_DB_DSN"
	EnvDBHost           = "TOPPERS_DB_HOST"
	EnvDBUser           = "TOPPERS_DB_USER"
	EnvDBName           = "TOPPERS_DB_NAME"
	EnvRedisURL         = "TOPPERS_REDIS_URL"
	EnvSessionSecret    = "TOPPERS_SESSION_SECRET"
	EnvSessionTTL       = "TOPPERS_SESSION_TTL"
	EnvAdminPassphrase  = "TOPPERS_ADMIN_PASSPHRASE"
	EnvCacheViewTTL     = "TOPPERS_CACHE_VIEW_TTL"
	EnvCORSOrigins      = "TOPPERS_CORS_ALLOWED_ORIGINS"
	EnvRecentNotesLimit = "TOPPERS_RECENT_NOTES_LIMIT"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
