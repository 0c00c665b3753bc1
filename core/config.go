package core

import (
	"log"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		Build        string
		AppName      string
		SecretKey    string
		RollbarToken string

		Server   ServerConfig
		Database DatabaseConfig
		Redis    RedisConfig
		Economy  EconomyConfig
		Catalog  CatalogConfig
	}

	ServerConfig struct {
		Host            string
		Address         string
		DebugHost       string
		ReadTimeout     time.Duration
		WriteTimeout    time.Duration
		ShutdownTimeout time.Duration
		JWTIssuer       string
		JWTExpiration   time.Duration
	}

	DatabaseConfig struct {
		Engine        string // postgres | inmem
		Host          string
		Port          string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	RedisConfig struct {
		Addr     string // empty: in-process cache
		Password string
		DB       int
		TTL      time.Duration
	}

	EconomyConfig struct {
		PoolSampleSize int
		WheelSize      int
		SpinCost       int64
		RefreshCost    int64
		Timezone       string
	}

	CatalogConfig struct {
		Path string // empty: embedded sample catalog
	}
)

func (dbc DatabaseConfig) Address() string {
	return net.JoinHostPort(dbc.Host, dbc.Port)
}

func (dbc DatabaseConfig) IsInMemory() bool {
	return dbc.Engine == "inmem"
}

// Validate rejects settings the engine cannot run with, such as an unknown timezone.
func (ec EconomyConfig) Validate() error {
	if _, err := time.LoadLocation(ec.Timezone); err != nil {
		return errors.Wrapf(err, "timezone %q", ec.Timezone)
	}
	switch {
	case ec.PoolSampleSize <= 0:
		return errors.Errorf("poolSampleSize must be positive (got %d)", ec.PoolSampleSize)
	case ec.WheelSize <= 0:
		return errors.Errorf("wheelSize must be positive (got %d)", ec.WheelSize)
	case ec.SpinCost <= 0:
		return errors.Errorf("spinCost must be positive (got %d)", ec.SpinCost)
	case ec.RefreshCost <= 0:
		return errors.Errorf("refreshCost must be positive (got %d)", ec.RefreshCost)
	}
	return nil
}

// Location resolves the reference timezone used for calendar-day comparisons.
// Validate reports a bad timezone; Location falls back to UTC.
func (ec EconomyConfig) Location() *time.Location {
	loc, err := time.LoadLocation(ec.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// NewConfig reads the configuration from the environment, prefixed by ENV (DEV, TEST, QA, PROD).
// A config/.env.<env> file found under the working directory is loaded first.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("build", "develop")
	v.SetDefault("appName", "PokeAyman")
	v.SetDefault("secretKey", "q2x!v8n$0p9z=4ylsr@h7(kd3w_c6bmf1e*j&u5t)ga")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("serverHost", "localhost")
	v.SetDefault("serverAddress", ":8000")
	v.SetDefault("serverDebugHost", ":4000")
	v.SetDefault("serverReadTimeout", 5*time.Second)
	v.SetDefault("serverWriteTimeout", 5*time.Second)
	v.SetDefault("serverShutdownTimeout", 5*time.Second)
	v.SetDefault("jwtIssuer", "PokeAyman")
	v.SetDefault("jwtExpiration", 7*24*time.Hour)

	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbName", "pokeayman")
	v.SetDefault("dbUser", "pokeayman")
	v.SetDefault("dbPassword", "")
	v.SetDefault("dbAdminUser", "")
	v.SetDefault("dbAdminPassword", "")
	v.SetDefault("dbDisableTLS", true)

	v.SetDefault("redisAddr", "")
	v.SetDefault("redisPassword", "")
	v.SetDefault("redisDB", 0)
	v.SetDefault("redisTTL", 30*time.Second)

	v.SetDefault("poolSampleSize", 300)
	v.SetDefault("wheelSize", 12)
	v.SetDefault("spinCost", int64(1))
	v.SetDefault("refreshCost", int64(1))
	v.SetDefault("timezone", "UTC")

	v.SetDefault("catalogPath", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		Build:        v.GetString("build"),
		AppName:      v.GetString("appName"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			Address:         v.GetString("serverAddress"),
			DebugHost:       v.GetString("serverDebugHost"),
			ReadTimeout:     v.GetDuration("serverReadTimeout"),
			WriteTimeout:    v.GetDuration("serverWriteTimeout"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
			JWTIssuer:       v.GetString("jwtIssuer"),
			JWTExpiration:   v.GetDuration("jwtExpiration"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("dbEngine"),
			Host:          v.GetString("dbHost"),
			Port:          v.GetString("dbPort"),
			Name:          v.GetString("dbName"),
			User:          v.GetString("dbUser"),
			Password:      v.GetString("dbPassword"),
			AdminUser:     v.GetString("dbAdminUser"),
			AdminPassword: v.GetString("dbAdminPassword"),
			DisableTLS:    v.GetBool("dbDisableTLS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redisAddr"),
			Password: v.GetString("redisPassword"),
			DB:       v.GetInt("redisDB"),
			TTL:      v.GetDuration("redisTTL"),
		},
		Economy: EconomyConfig{
			PoolSampleSize: v.GetInt("poolSampleSize"),
			WheelSize:      v.GetInt("wheelSize"),
			SpinCost:       v.GetInt64("spinCost"),
			RefreshCost:    v.GetInt64("refreshCost"),
			Timezone:       v.GetString("timezone"),
		},
		Catalog: CatalogConfig{
			Path: v.GetString("catalogPath"),
		},
	}
}

// DefaultEconomy is used when no Config is at hand (tests, CLI).
func DefaultEconomy() EconomyConfig {
	return EconomyConfig{
		PoolSampleSize: 300,
		WheelSize:      12,
		SpinCost:       1,
		RefreshCost:    1,
		Timezone:       "UTC",
	}
}
