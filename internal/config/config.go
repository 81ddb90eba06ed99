// Package config loads application configuration from defaults, command-line
// flags and environment variables (including a .env file), in that order of
// precedence, and validates the result.
package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	env "github.com/caarlos0/env/v6"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting. It is constructed once at process start
// and passed by reference into the components that need it.
type Config struct {
	Port                int           `env:"PORT" validate:"gt=0,lt=65536"`
	DatabaseDSN         string        `env:"DB_CONNECTION_STRING"`
	DBFileName          string        `env:"FILE_STORAGE_PATH" validate:"filepath"`
	JWTSecret           string        `env:"JWT_SECRET" validate:"required"`
	AuthCookieName      string        `env:"AUTH_COOKIE_NAME" validate:"required"`
	TokenTTL            time.Duration `env:"TOKEN_TTL"`
	LogLevel            string        `env:"LOG_LEVEL" validate:"loglevel"`
	DBConnectionTimeout time.Duration `env:"DB_CONNECTION_TIMEOUT"`
	MigrationsDir       string        `env:"MIGRATIONS_DIR"`
}

// RunAddr returns the listen address derived from Port.
func (c *Config) RunAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func validateFilePath(fieldLevel validator.FieldLevel) bool {
	path := fieldLevel.Field().String()
	if path == "" {
		return true
	}
	_, err := os.Stat(path)

	return err == nil || os.IsNotExist(err)
}

func validateLogLevel(fieldLevel validator.FieldLevel) bool {
	value := fieldLevel.Field().String()

	allowedLogLevels := map[string]bool{
		"debug":   true,
		"info":    true,
		"warning": true,
		"error":   true,
		"fatal":   true,
	}

	return allowedLogLevels[value]
}

func validate(cfg *Config) error {
	validate := validator.New()

	err := validate.RegisterValidation("loglevel", validateLogLevel)
	if err != nil {
		return err
	}

	err = validate.RegisterValidation("filepath", validateFilePath)
	if err != nil {
		return err
	}

	return validate.Struct(cfg)
}

// InitOption customizes configuration loading.
type InitOption func(*initOptions)

type initOptions struct {
	disableFlagsParsing bool
}

// WithDisableFlagsParsing skips command-line flag parsing; used in tests.
func WithDisableFlagsParsing(disableFlagsParsing bool) InitOption {
	return func(options *initOptions) {
		options.disableFlagsParsing = disableFlagsParsing
	}
}

// New builds the configuration: defaults, then flags, then environment.
func New(optionsProto ...InitOption) (*Config, error) {
	options := &initOptions{
		disableFlagsParsing: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	err := godotenv.Load()
	if err != nil {
		log.Printf("Unable to load .env file: %v", err)
	}

	cfg := &Config{
		Port:                3000,
		DatabaseDSN:         "",
		DBFileName:          "",
		AuthCookieName:      "auth",
		TokenTTL:            3600 * time.Second,
		LogLevel:            "info",
		DBConnectionTimeout: 10 * time.Second,
		MigrationsDir:       "migrations",
	}
	if !options.disableFlagsParsing {
		flag.IntVar(&cfg.Port, "p", cfg.Port, "port to run server on")
		flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "a string with the database connection details")
		flag.StringVar(&cfg.DBFileName, "f", cfg.DBFileName, "JSON file name with database")
		flag.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "logger level")
		flag.Parse()
	}

	var valuesFromEnv Config
	err = env.Parse(&valuesFromEnv)
	if err != nil {
		return nil, err
	}

	if valuesFromEnv.Port != 0 {
		cfg.Port = valuesFromEnv.Port
	}

	if valuesFromEnv.DatabaseDSN != "" {
		cfg.DatabaseDSN = valuesFromEnv.DatabaseDSN
	}

	if valuesFromEnv.DBFileName != "" {
		cfg.DBFileName = valuesFromEnv.DBFileName
	}

	if valuesFromEnv.JWTSecret != "" {
		cfg.JWTSecret = valuesFromEnv.JWTSecret
	}

	if valuesFromEnv.AuthCookieName != "" {
		cfg.AuthCookieName = valuesFromEnv.AuthCookieName
	}

	if valuesFromEnv.TokenTTL != 0 {
		cfg.TokenTTL = valuesFromEnv.TokenTTL
	}

	if valuesFromEnv.LogLevel != "" {
		cfg.LogLevel = valuesFromEnv.LogLevel
	}

	if valuesFromEnv.DBConnectionTimeout != 0 {
		cfg.DBConnectionTimeout = valuesFromEnv.DBConnectionTimeout
	}

	if valuesFromEnv.MigrationsDir != "" {
		cfg.MigrationsDir = valuesFromEnv.MigrationsDir
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
