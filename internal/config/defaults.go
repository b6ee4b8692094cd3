// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// DevelopmentSignKey is the placeholder secret shipped in the defaults. It
// is rejected in production.
const DevelopmentSignKey = "change-me-development-secret"

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Name:        "AI Pills",
			Version:     "1.0.0",
			Environment: EnvDevelopment,
			LogLevel:    "info",
		},
		Auth: Auth{
			TokenSignKey:             DevelopmentSignKey,
			Algorithm:                "HS256",
			TokenIssuer:              "ai-pills",
			AccessTokenExpireMinutes: 30,
			ResetTokenTTL:            Duration(time.Hour),
			PasswordMinLength:        8,
			BcryptCost:               12,
		},
		Storage: Storage{
			DB: DB{
				DSN:          "file:ai_pills.db?_foreign_keys=on&_busy_timeout=5000",
				MaxOpenConns: 10,
			},
			Files: Files{
				Backend:                  BackendLocal,
				BasePath:                 "./uploads",
				AgentsSubpath:            "agents",
				GeneralSubpath:           "general",
				TempSubpath:              "temp",
				MaxFileSize:              100 * 1024 * 1024,
				AllowedArchiveExtensions: []string{".zip", ".tar.gz", ".tar.xz", ".tar.bz2"},
				TempRetentionHours:       24,
				S3: S3{
					Bucket: "ai-pills-storage",
					Region: "us-east-1",
					Prefix: "uploads",
				},
				GridFS: GridFS{
					Database: "ai_pills_db",
				},
			},
		},
		Server: Server{
			HTTPAddress:     "localhost:8000",
			RequestTimeout:  Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			APIPrefix:       "/api/v1",
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:3001",
				"http://127.0.0.1:3001",
			},
		},
		Agents: Agents{
			MaxPerUser:           50,
			MaxTags:              10,
			NameMaxLength:        100,
			DescriptionMaxLength: 2000,
		},
		Workers: Workers{
			TempCleanupInterval: Duration(time.Hour),
			ReconcileInterval:   Duration(6 * time.Hour),
			ReconcileBatchSize:  200,
		},
	}
}

// presetConfig returns the partial configuration an environment implies.
// Only the non-zero fields are merged over the defaults.
func presetConfig(env Environment) *StructuredConfig {
	switch env {
	case EnvProduction:
		return &StructuredConfig{
			App:     App{LogLevel: "info"},
			Storage: Storage{Files: Files{Backend: BackendS3}},
		}
	case EnvStaging:
		return &StructuredConfig{
			App:     App{LogLevel: "info"},
			Storage: Storage{Files: Files{Backend: BackendS3}},
		}
	case EnvTesting:
		return &StructuredConfig{
			App:  App{LogLevel: "warn"},
			Auth: Auth{BcryptCost: 4},
			Storage: Storage{
				DB:    DB{Driver: DriverSQLite, DSN: "file::memory:?cache=shared"},
				Files: Files{Backend: BackendLocal},
			},
		}
	default:
		return &StructuredConfig{
			App: App{LogLevel: "debug"},
			Storage: Storage{Files: Files{
				Backend:  BackendLocal,
				BasePath: "./uploads",
			}},
		}
	}
}
