// Package server wires and runs the application's transport servers.
//
// It binds the HTTP API and the optional gRPC health endpoint, runs the
// background workers next to them, and shuts everything down gracefully on
// a stop signal.
package server
