package config

import "errors"

// Validation errors returned by [StructuredConfig.validate], one per
// configuration group.
var (
	ErrInvalidAppConfigs     = errors.New("invalid app configuration")
	ErrInvalidAuthConfigs    = errors.New("invalid auth configuration")
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	ErrInvalidServerConfigs  = errors.New("invalid server configuration")
	ErrInvalidAgentConfigs   = errors.New("invalid agent limits configuration")
	ErrInvalidWorkerConfigs  = errors.New("invalid worker configuration")
)
