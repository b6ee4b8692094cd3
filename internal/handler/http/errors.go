// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Request-level errors produced before a service is called. They are
// reported with 400 or 401 and never reach the error mapper.
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// request carries no "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("not authenticated")

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrInvalidPagination is returned for skip/limit values outside
	// skip >= 0 and 1 <= limit <= 100.
	ErrInvalidPagination = errors.New("skip must be >= 0 and limit between 1 and 100")

	// ErrMissingFile is returned by the upload endpoint when the multipart
	// form has no "file" part.
	ErrMissingFile = errors.New("multipart field \"file\" is required")
)
