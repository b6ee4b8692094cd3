// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// AppInfo is returned by the root endpoint.
type AppInfo struct {
	Name           string `json:"name"`
	Version        string `json:"version"`
	Environment    string `json:"environment"`
	StorageBackend string `json:"storage_backend"`
	APIPrefix      string `json:"api_prefix"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Storage  string `json:"storage"`
}

const (
	HealthOK       = "healthy"
	HealthDegraded = "unhealthy"
)
