// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client of the AI Pills API.
//
// It builds a cobra command tree over an [adapter.APIClient]. The server
// address and the bearer token come from the --server and --token flags,
// which default to the AIPILLS_SERVER and AIPILLS_TOKEN environment
// variables.
package client
