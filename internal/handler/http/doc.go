// Package http implements the REST transport of the application.
//
// It wires chi routes under the configured API prefix, the request
// middleware chain (trace id, access log, gzip request bodies, CORS, bearer
// authentication) and the handlers that translate JSON and multipart
// requests into service calls. Service errors are turned into status codes
// by a single ordered table.
package http
