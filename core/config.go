package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env                string
		Debug              bool
		TestMode           bool
		AppName            string
		Build              string
		SecretKey          string
		JWTExpirationDelta time.Duration
		RollbarToken       string

		Server         ServerConfig
		Cors           CorsConfig
		Database       DatabaseConfig
		BootstrapAdmin BootstrapAdminConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	CorsConfig struct {
		AllowOrigins []string
	}

	DatabaseConfig struct {
		Engine        string // postgres | sqlite
		Host          string
		Port          string
		User          string
		Password      string
		Name          string
		DisableTLS    bool
		AdminUser     string
		AdminPassword string
		Path          string // sqlite only

		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
	}

	// BootstrapAdminConfig describes the admin account seeded at startup.
	// Seeding is skipped when Username or Password is empty.
	BootstrapAdminConfig struct {
		Username string
		Email    string
		Password string
	}
)

func (dc DatabaseConfig) Address() string {
	return dc.Host + ":" + dc.Port
}

func (dc DatabaseConfig) IsSQLite() bool {
	return dc.Engine == "sqlite"
}

// NewConfig reads the configuration from the environment.
// ENV (DEV by default, TEST, QA, PROD) selects both the optional `config/.env.<env>` file
// and the prefix of the environment variables: DEV_DATABASE_HOST -> database.host
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "EduPlatform")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "x8$u2l!q3c9#vd1k@m4p0z7w&e6r5t^y-edu-platform")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.disableRequestLogs", false)
	v.SetDefault("cors.allowOrigins", []string{"*"})
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "edu")
	v.SetDefault("database.password", "edu")
	v.SetDefault("database.name", "eduplatform")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.path", "eduplatform.db")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 5*time.Minute)
	v.SetDefault("bootstrapAdmin.username", "")
	v.SetDefault("bootstrapAdmin.email", "")
	v.SetDefault("bootstrapAdmin.password", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		Env:                env,
		Debug:              v.GetBool("debug"),
		TestMode:           v.GetBool("testMode"),
		AppName:            v.GetString("appName"),
		Build:              v.GetString("build"),
		SecretKey:          v.GetString("secretKey"),
		JWTExpirationDelta: v.GetDuration("jwtExpirationDelta"),
		RollbarToken:       v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Address:         v.GetString("server.address"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableRequestLogs"),
		},
		Cors: CorsConfig{
			AllowOrigins: v.GetStringSlice("cors.allowOrigins"),
		},
		Database: DatabaseConfig{
			Engine:          v.GetString("database.engine"),
			Host:            v.GetString("database.host"),
			Port:            v.GetString("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			Name:            v.GetString("database.name"),
			DisableTLS:      v.GetBool("database.disableTLS"),
			AdminUser:       v.GetString("database.adminUser"),
			AdminPassword:   v.GetString("database.adminPassword"),
			Path:            v.GetString("database.path"),
			MaxOpenConns:    v.GetInt("database.maxOpenConns"),
			MaxIdleConns:    v.GetInt("database.maxIdleConns"),
			ConnMaxLifetime: v.GetDuration("database.connMaxLifetime"),
		},
		BootstrapAdmin: BootstrapAdminConfig{
			Username: v.GetString("bootstrapAdmin.username"),
			Email:    v.GetString("bootstrapAdmin.email"),
			Password: v.GetString("bootstrapAdmin.password"),
		},
	}
}
