// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"strings"
	"time"
)

// StructuredConfig is the top-level configuration of the server. It is built
// once by GetStructuredConfig and handed by value to every constructor; no
// code mutates it afterwards.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
//   - json: key in the optional JSON configuration file.
type StructuredConfig struct {
	App     App     `envPrefix:"APP_" json:"app"`
	Auth    Auth    `envPrefix:"AUTH_" json:"auth"`
	Storage Storage `envPrefix:"STORAGE_" json:"storage"`
	Server  Server  `envPrefix:"SERVER_" json:"server"`
	Agents  Agents  `envPrefix:"AGENTS_" json:"agents"`
	Workers Workers `envPrefix:"WORKERS_" json:"workers"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG" json:"-"`
}

// Environment selects a preset of defaults.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
	EnvTesting     Environment = "testing"
)

func (e Environment) Valid() bool {
	switch e {
	case EnvDevelopment, EnvStaging, EnvProduction, EnvTesting:
		return true
	}
	return false
}

// App holds application identity and logging settings.
type App struct {
	// Env: APP_NAME
	Name string `env:"NAME" json:"name"`
	// Env: APP_VERSION
	Version string `env:"VERSION" json:"version"`
	// Environment picks the preset applied under explicit values.
	// Env: APP_ENVIRONMENT
	Environment Environment `env:"ENVIRONMENT" json:"environment"`
	// LogLevel is a zerolog level name.
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL" json:"log_level"`
}

// Auth holds token and password settings.
type Auth struct {
	// TokenSignKey is the HMAC secret for every issued token.
	// Env: AUTH_SECRET_KEY
	TokenSignKey string `env:"SECRET_KEY" json:"secret_key"`
	// Algorithm is fixed to HS256; any other value fails validation.
	// Env: AUTH_ALGORITHM
	Algorithm string `env:"ALGORITHM" json:"algorithm"`
	// Env: AUTH_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER" json:"token_issuer"`
	// Env: AUTH_ACCESS_TOKEN_EXPIRE_MINUTES
	AccessTokenExpireMinutes int `env:"ACCESS_TOKEN_EXPIRE_MINUTES" json:"access_token_expire_minutes"`
	// Env: AUTH_RESET_TOKEN_TTL
	ResetTokenTTL Duration `env:"RESET_TOKEN_TTL" json:"reset_token_ttl"`
	// Env: AUTH_PASSWORD_MIN_LENGTH
	PasswordMinLength int `env:"PASSWORD_MIN_LENGTH" json:"password_min_length"`
	// Env: AUTH_BCRYPT_COST
	BcryptCost int `env:"BCRYPT_COST" json:"bcrypt_cost"`
}

// AccessTokenTTL is the session token lifetime.
func (a Auth) AccessTokenTTL() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes) * time.Minute
}

// Storage groups the relational database and the blob store.
type Storage struct {
	DB    DB    `envPrefix:"DB_" json:"db"`
	Files Files `envPrefix:"FILES_" json:"files"`
}

// DB holds connection settings for the metadata database.
type DB struct {
	// Driver is "pgx" or "sqlite3". When empty it is inferred from the DSN.
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER" json:"driver"`
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI" json:"dsn"`
	// Env: STORAGE_DB_MAX_OPEN_CONNS
	MaxOpenConns int `env:"MAX_OPEN_CONNS" json:"max_open_conns"`
}

// database/sql driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// DriverName returns the configured driver, or infers it from the DSN:
// postgres URLs and key=value DSNs select pgx, anything else SQLite.
func (d DB) DriverName() string {
	if d.Driver != "" {
		return d.Driver
	}
	dsn := strings.ToLower(strings.TrimSpace(d.DSN))
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Backend names accepted in Files.Backend.
const (
	BackendLocal  = "local"
	BackendS3     = "s3"
	BackendGridFS = "gridfs"
)

// Files configures the blob storage abstraction.
type Files struct {
	// Env: STORAGE_FILES_BACKEND
	Backend string `env:"BACKEND" json:"backend"`
	// Env: STORAGE_FILES_BASE_PATH
	BasePath string `env:"BASE_PATH" json:"base_path"`
	// Env: STORAGE_FILES_AGENTS_SUBPATH
	AgentsSubpath string `env:"AGENTS_SUBPATH" json:"agents_subpath"`
	// Env: STORAGE_FILES_GENERAL_SUBPATH
	GeneralSubpath string `env:"GENERAL_SUBPATH" json:"general_subpath"`
	// Env: STORAGE_FILES_TEMP_SUBPATH
	TempSubpath string `env:"TEMP_SUBPATH" json:"temp_subpath"`
	// MaxFileSize is the upload ceiling in bytes.
	// Env: STORAGE_FILES_MAX_FILE_SIZE
	MaxFileSize int64 `env:"MAX_FILE_SIZE" json:"max_file_size"`
	// Env: STORAGE_FILES_ALLOWED_ARCHIVE_EXTENSIONS (comma separated)
	AllowedArchiveExtensions []string `env:"ALLOWED_ARCHIVE_EXTENSIONS" envSeparator:"," json:"allowed_archive_extensions"`
	// Env: STORAGE_FILES_TEMP_RETENTION_HOURS
	TempRetentionHours int `env:"TEMP_RETENTION_HOURS" json:"temp_retention_hours"`

	S3     S3     `envPrefix:"S3_" json:"s3"`
	GridFS GridFS `envPrefix:"GRIDFS_" json:"gridfs"`
}

// TempRetention is the age after which temp files are removed.
func (f Files) TempRetention() time.Duration {
	return time.Duration(f.TempRetentionHours) * time.Hour
}

// S3 configures the object-storage backend. Empty credentials fall back to
// the default AWS credential chain.
type S3 struct {
	Bucket          string `env:"BUCKET" json:"bucket"`
	Region          string `env:"REGION" json:"region"`
	Prefix          string `env:"PREFIX" json:"prefix"`
	Endpoint        string `env:"ENDPOINT" json:"endpoint"`
	AccessKeyID     string `env:"ACCESS_KEY_ID" json:"access_key_id"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY" json:"secret_access_key"`
}

type GridFS struct {
	URI      string `env:"URI" json:"uri"`
	Database string `env:"DATABASE" json:"database"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS" json:"http_address"`
	// GRPCAddress enables the gRPC health server when set.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS" json:"grpc_address"`
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout Duration `env:"REQUEST_TIMEOUT" json:"request_timeout"`
	// Env: SERVER_SHUTDOWN_TIMEOUT
	ShutdownTimeout Duration `env:"SHUTDOWN_TIMEOUT" json:"shutdown_timeout"`
	// Env: SERVER_API_PREFIX
	APIPrefix string `env:"API_PREFIX" json:"api_prefix"`
	// Env: SERVER_CORS_ORIGINS (comma separated)
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," json:"cors_origins"`
}

// Agents holds per-user and per-record limits.
type Agents struct {
	MaxPerUser           int `env:"MAX_PER_USER" json:"max_per_user"`
	MaxTags              int `env:"MAX_TAGS" json:"max_tags"`
	NameMaxLength        int `env:"NAME_MAX_LENGTH" json:"name_max_length"`
	DescriptionMaxLength int `env:"DESCRIPTION_MAX_LENGTH" json:"description_max_length"`
}

// Workers holds background job intervals. A negative interval disables the
// job.
type Workers struct {
	TempCleanupInterval Duration `env:"TEMP_CLEANUP_INTERVAL" json:"temp_cleanup_interval"`
	ReconcileInterval   Duration `env:"RECONCILE_INTERVAL" json:"reconcile_interval"`
	ReconcileBatchSize  int      `env:"RECONCILE_BATCH_SIZE" json:"reconcile_batch_size"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all sources. Later sources win for non-zero fields:
//  1. built-in defaults
//  2. the preset of the selected environment
//  3. the .env file and the process environment (the process wins)
//  4. command-line flags
//  5. the JSON file named by CONFIG or -c
func GetStructuredConfig() (StructuredConfig, error) {
	return newConfigBuilder().
		withEnv(".env", os.Environ()).
		withFlags(os.Args[0], os.Args[1:]).
		withJSON().
		build()
}
