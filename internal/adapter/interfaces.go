// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the client side of the AI Pills REST API.
//
// [APIClient] is what the command-line client talks to. The package ships a
// single resty-based implementation ([NewHTTPAPIClient]). Non-2xx responses
// are mapped to the sentinel errors in errors.go so callers can use
// [errors.Is] regardless of the server's wording (e.g. [ErrConflict] for 409,
// [ErrUnauthorized] for 401).
package adapter

import (
	"context"
	"io"

	"github.com/MKhiriev/ai-pills/models"
)

// APIClient defines the operations the command-line client performs
// against the server.
type APIClient interface {
	// SetToken stores the bearer token attached to authenticated requests.
	SetToken(token string)

	// Token returns the stored bearer token or an empty string.
	Token() string

	// Register creates an account. It does not log in.
	Register(ctx context.Context, req models.RegisterRequest) (models.UserPublic, error)

	// Login exchanges credentials for an access token and stores it via
	// SetToken.
	Login(ctx context.Context, req models.LoginRequest) (models.Token, error)

	// Me returns the account the stored token belongs to.
	Me(ctx context.Context) (models.UserPublic, error)

	// ListAgents returns a page of the caller's own agents.
	ListAgents(ctx context.Context, page models.Page) ([]models.Agent, error)

	// CreateAgent creates an agent owned by the caller.
	CreateAgent(ctx context.Context, in models.AgentCreate) (models.Agent, error)

	// UploadFile sends content as a multipart upload. agentID and fileType
	// are optional.
	UploadFile(ctx context.Context, filename string, content io.Reader, agentID, fileType string) (models.File, error)

	// DownloadFile copies the content of file id into w and returns the
	// filename announced by the server.
	DownloadFile(ctx context.Context, id string, w io.Writer) (string, error)
}
