// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// validate checks the merged configuration before anything is started.
// All group errors are joined so one run reports every problem.
func (cfg *StructuredConfig) validate() error {
	return errors.Join(
		cfg.validateAuth(),
		cfg.validateStorage(),
		cfg.validateServer(),
		cfg.validateAgents(),
		cfg.validateWorkers(),
	)
}

func (cfg *StructuredConfig) validateAuth() error {
	a := cfg.Auth
	switch {
	case a.TokenSignKey == "":
		return fmt.Errorf("%w: secret key is required", ErrInvalidAuthConfigs)
	case cfg.App.Environment == EnvProduction && a.TokenSignKey == DevelopmentSignKey:
		return fmt.Errorf("%w: the development secret key must not be used in production", ErrInvalidAuthConfigs)
	case a.Algorithm != "HS256":
		return fmt.Errorf("%w: unsupported algorithm %q", ErrInvalidAuthConfigs, a.Algorithm)
	case a.TokenIssuer == "":
		return fmt.Errorf("%w: token issuer is required", ErrInvalidAuthConfigs)
	case a.AccessTokenExpireMinutes <= 0 || a.ResetTokenTTL <= 0:
		return fmt.Errorf("%w: token lifetimes must be positive", ErrInvalidAuthConfigs)
	case a.PasswordMinLength < 1:
		return fmt.Errorf("%w: password min length must be positive", ErrInvalidAuthConfigs)
	case a.BcryptCost < bcrypt.MinCost || a.BcryptCost > bcrypt.MaxCost:
		return fmt.Errorf("%w: bcrypt cost %d out of range", ErrInvalidAuthConfigs, a.BcryptCost)
	}
	return nil
}

func (cfg *StructuredConfig) validateStorage() error {
	db, files := cfg.Storage.DB, cfg.Storage.Files

	if db.DSN == "" {
		return fmt.Errorf("%w: database DSN is required", ErrInvalidStorageConfigs)
	}
	if d := db.DriverName(); d != DriverPostgres && d != DriverSQLite {
		return fmt.Errorf("%w: unsupported database driver %q", ErrInvalidStorageConfigs, d)
	}
	if files.MaxFileSize <= 0 {
		return fmt.Errorf("%w: max file size must be positive", ErrInvalidStorageConfigs)
	}
	if files.TempRetentionHours <= 0 {
		return fmt.Errorf("%w: temp retention must be positive", ErrInvalidStorageConfigs)
	}
	for _, ext := range files.AllowedArchiveExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: archive extension %q must start with a dot", ErrInvalidStorageConfigs, ext)
		}
	}

	switch files.Backend {
	case BackendLocal:
		if files.BasePath == "" || files.AgentsSubpath == "" || files.GeneralSubpath == "" || files.TempSubpath == "" {
			return fmt.Errorf("%w: local backend needs a base path and subpaths", ErrInvalidStorageConfigs)
		}
	case BackendS3:
		if files.S3.Bucket == "" || files.S3.Region == "" {
			return fmt.Errorf("%w: s3 backend needs a bucket and a region", ErrInvalidStorageConfigs)
		}
	case BackendGridFS:
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidStorageConfigs, files.Backend)
	}

	return nil
}

func (cfg *StructuredConfig) validateServer() error {
	s := cfg.Server
	switch {
	case s.HTTPAddress == "":
		return fmt.Errorf("%w: http address is required", ErrInvalidServerConfigs)
	case s.RequestTimeout <= 0:
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidServerConfigs)
	case !strings.HasPrefix(s.APIPrefix, "/"):
		return fmt.Errorf("%w: api prefix must start with /", ErrInvalidServerConfigs)
	}
	return nil
}

func (cfg *StructuredConfig) validateAgents() error {
	a := cfg.Agents
	if a.MaxPerUser <= 0 || a.MaxTags <= 0 || a.NameMaxLength <= 0 || a.DescriptionMaxLength <= 0 {
		return fmt.Errorf("%w: limits must be positive", ErrInvalidAgentConfigs)
	}
	return nil
}

func (cfg *StructuredConfig) validateWorkers() error {
	if cfg.Workers.ReconcileInterval > 0 && cfg.Workers.ReconcileBatchSize <= 0 {
		return fmt.Errorf("%w: reconcile batch size must be positive", ErrInvalidWorkerConfigs)
	}
	return nil
}
