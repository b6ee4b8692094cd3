// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run parses the arguments, executes the selected command and blocks
	// until it returns.
	Run(args []string) error
}
