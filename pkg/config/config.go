package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Session      SessionConfig
	Admin        AdminConfig
	Password     PasswordConfig
	Cache        CacheConfig
	Cart         CartConfig
	Catalog      CatalogConfig
	CORS         CORSConfig
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
	Env          string `envconfig:"TOPPERS_APP_ENV" required:"true"`
	Port         string `envconfig:"TOPPERS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TOPPERS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TOPPERS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "production")
}

type DBConfig struct {
	DSN    string `envconfig:"TOPPERS_DB_DSN"`
	Driver string `envconfig:"TOPPERS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TOPPERS_DB_HOST"`
	LegacyPort     int    `envconfig:"TOPPERS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TOPPERS_DB_USER"`
	LegacyPassword string `envconfig:"TOPPERS_DB_PASSWORD"`
	LegacyName     string `envconfig:"TOPPERS_DB_NAME"`
	LegacySSLMode  string `envconfig:"TOPPERS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TOPPERS_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"TOPPERS_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"TOPPERS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TOPPERS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TOPPERS_REDIS_URL"`
	Address      string        `envconfig:"TOPPERS_REDIS_ADDR"`
	Password     string        `envconfig:"TOPPERS_REDIS_PASSWORD"`
	DB           int           `envconfig:"TOPPERS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TOPPERS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TOPPERS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TOPPERS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TOPPERS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TOPPERS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SessionConfig drives the signed admin session cookie.
type SessionConfig struct {
	Secret       string        `envconfig:"TOPPERS_SESSION_SECRET" required:"true"`
	Issuer       string        `envconfig:"TOPPERS_SESSION_ISSUER" default:"toppers-toolkit"`
	TTL          time.Duration `envconfig:"TOPPERS_SESSION_TTL" default:"24h"`
	CookieName   string        `envconfig:"TOPPERS_SESSION_COOKIE_NAME" default:"admin_session"`
	CookieSecure bool          `envconfig:"TOPPERS_SESSION_COOKIE_SECURE" default:"true"`
	LoginPath    string        `envconfig:"TOPPERS_SESSION_LOGIN_PATH" default:"/auth"`
}

// AdminConfig holds the environment fallback for the admin passphrase. The
// settings row in the database always wins when present.
type AdminConfig struct {
	Passphrase string `envconfig:"TOPPERS_ADMIN_PASSPHRASE"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TOPPERS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TOPPERS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TOPPERS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TOPPERS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TOPPERS_ARGON_KEY_LEN" default:"32"`
}

type CacheConfig struct {
	Enabled bool          `envconfig:"TOPPERS_CACHE_ENABLED" default:"true"`
	ViewTTL time.Duration `envconfig:"TOPPERS_CACHE_VIEW_TTL" default:"5m"`
}

type CartConfig struct {
	TTL        time.Duration `envconfig:"TOPPERS_CART_TTL" default:"720h"`
	CookieName string        `envconfig:"TOPPERS_CART_COOKIE_NAME" default:"cart_token"`
}

type CatalogConfig struct {
	DefaultImageURL string `envconfig:"TOPPERS_DEFAULT_IMAGE_URL" default:"https://github.com/AryansDevStudios/ToppersToolkit/blob/main/icon/background.png?raw=true"`
	RecentLimit     int    `envconfig:"TOPPERS_RECENT_NOTES_LIMIT" default:"8"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"TOPPERS_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TOPPERS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TOPPERS_AUTO_MIGRATE" default:"false"`
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
