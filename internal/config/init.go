package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Settings is the typed view of the environment.
type Settings struct {
	Env                string
	Port               string
	DBDriver           string
	DBDSN              string
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	JWTSecret          string
	JWTTTL             time.Duration
	CORSAllowedOrigins []string
	AdminUsername      string
	AdminPassword      string
}

// App holds the settings loaded by Init.
var App Settings

// Init loads .env (if present) and the process environment into App.
func Init() {
	if err := godotenv.Load(); err != nil {
		Logger.Info("No .env file found, using system environment variables")
	}

	App = Load(viper.New())

	if App.DBDSN == "" {
		Logger.Fatal("DB_DSN is not set")
	}
	if App.JWTSecret == "" {
		Logger.Fatal("JWT_SECRET is not set")
	}
	if App.RedisAddr == "" {
		Logger.Warn("REDIS_ADDR is not set, token revocation disabled")
	}

	Logger.Info("Settings loaded",
		zap.String("env", App.Env),
		zap.String("port", App.Port),
		zap.String("db_driver", App.DBDriver),
		zap.Duration("jwt_ttl", App.JWTTTL),
	)
}

// Load reads settings from v, binding every key to its environment variable.
func Load(v *viper.Viper) Settings {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.AutomaticEnv()

	for _, key := range []string{"DB_DSN", "REDIS_ADDR", "REDIS_PASSWORD", "JWT_SECRET", "ADMIN_USERNAME", "ADMIN_PASSWORD"} {
		_ = v.BindEnv(key)
	}

	ttl := v.GetDuration("JWT_TTL")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	var origins []string
	for _, o := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return Settings{
		Env:                v.GetString("APP_ENV"),
		Port:               v.GetString("APP_PORT"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:              v.GetString("DB_DSN"),
		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisPassword:      v.GetString("REDIS_PASSWORD"),
		RedisDB:            v.GetInt("REDIS_DB"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTTTL:             ttl,
		CORSAllowedOrigins: origins,
		AdminUsername:      v.GetString("ADMIN_USERNAME"),
		AdminPassword:      v.GetString("ADMIN_PASSWORD"),
	}
}
