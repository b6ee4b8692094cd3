package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses command-line flags into a partial configuration.
//
// Flags:
//
//	-a                server address in format [host]:[port]
//	-grpc-address     grpc server address in format [host]:[port]
//	-d                database DSN
//	-db-driver        database driver (pgx | sqlite3)
//	-f                local file storage base path
//	-storage          storage backend (local | s3 | gridfs)
//	-max-file-size    upload ceiling in bytes
//	-c/-config        json file path with configs
//	-env              environment preset
//	-log-level        log level
//	-secret-key       token signing key
//	-token-issuer     token issuer name
//	-token-expire     access token lifetime in minutes
//	-request-timeout  request timeout (e.g. "30s", "1m")
func parseFlags(name string, args []string) (*StructuredConfig, error) {
	var serverAddress, grpcServerAddress NetAddress
	var cfg StructuredConfig
	var environment string
	var requestTimeout time.Duration

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.Storage.DB.Driver, "db-driver", "", "Database driver (pgx, sqlite3)")
	fs.StringVar(&cfg.Storage.Files.BasePath, "f", "", "Local file storage base path")
	fs.StringVar(&cfg.Storage.Files.Backend, "storage", "", "Storage backend (local, s3, gridfs)")
	fs.Int64Var(&cfg.Storage.Files.MaxFileSize, "max-file-size", 0, "Upload ceiling in bytes")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&environment, "env", "", "Environment (development, staging, production, testing)")
	fs.StringVar(&cfg.App.LogLevel, "log-level", "", "Log level")
	fs.StringVar(&cfg.Auth.TokenSignKey, "secret-key", "", "Token signing key")
	fs.StringVar(&cfg.Auth.TokenIssuer, "token-issuer", "", "Token issuer")
	fs.IntVar(&cfg.Auth.AccessTokenExpireMinutes, "token-expire", 0, "Access token lifetime in minutes")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg.App.Environment = Environment(environment)
	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.Server.GRPCAddress = grpcServerAddress.String()
	cfg.Server.RequestTimeout = Duration(requestTimeout)

	return &cfg, nil
}

// String returns host:port, or an empty string when nothing was set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// Set parses host:port. The host may be empty (all interfaces), "localhost"
// or an IP address.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}
	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return errors.New("incorrect IP-address provided")
	}

	a.Host = host
	a.Port = port
	return nil
}
