package server

import "context"

// Server defines the common lifecycle contract for transport servers managed
// by this package.
type Server interface {
	// RunServer serves until SIGINT, SIGTERM or SIGQUIT and then shuts down
	// gracefully.
	RunServer()

	// Run serves until ctx is cancelled.
	Run(ctx context.Context) error
}

// transport is one listener: HTTP or gRPC.
type transport interface {
	// serve blocks until the transport is stopped. A clean stop returns nil.
	serve() error
	shutdown(ctx context.Context)
	name() string
}
