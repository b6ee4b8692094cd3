package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configBuilder collects the explicit configuration sources in precedence
// order. Defaults and the environment preset are layered under them in
// build.
type configBuilder struct {
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 3),
	}
}

func (b *configBuilder) build() (StructuredConfig, error) {
	if b.err != nil {
		return StructuredConfig{}, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	environment, err := b.environment()
	if err != nil {
		return StructuredConfig{}, err
	}

	config := defaultConfig()
	layers := append([]*StructuredConfig{presetConfig(environment)}, b.configs...)
	for _, layer := range layers {
		if err := mergo.Merge(config, layer, mergo.WithOverride); err != nil {
			return StructuredConfig{}, fmt.Errorf("error merging configs: %w", err)
		}
	}
	config.App.Environment = environment

	return *config, config.validate()
}

// environment resolves the selected environment from the explicit sources
// so its preset can be placed under them.
func (b *configBuilder) environment() (Environment, error) {
	environment := EnvDevelopment
	for _, cfg := range b.configs {
		if cfg.App.Environment != "" {
			environment = cfg.App.Environment
		}
	}
	if !environment.Valid() {
		return "", fmt.Errorf("%w: unknown environment %q", ErrInvalidAppConfigs, environment)
	}
	return environment, nil
}

func (b *configBuilder) withEnv(dotenvPath string, environ []string) *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg, dotenvPath, environ); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(name string, args []string) *configBuilder {
	flagsCfg, err := parseFlags(name, args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flagsCfg)
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append(b.configs, jsonCfg)

	return b
}
