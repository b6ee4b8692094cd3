// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv populates cfg from the optional dotenv file and from environ
// (KEY=VALUE pairs, as returned by os.Environ). Variables from environ win
// over the file. A missing dotenv file is not an error.
func parseEnv(cfg any, dotenvPath string, environ []string) error {
	vars := make(map[string]string)

	if dotenvPath != "" {
		fileVars, err := godotenv.Read(dotenvPath)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading %s: %w", dotenvPath, err)
		}
		maps.Copy(vars, fileVars)
	}
	maps.Copy(vars, env.ToMap(environ))

	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
