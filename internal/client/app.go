package client

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/ai-pills/internal/adapter"
	"github.com/MKhiriev/ai-pills/internal/logger"
)

const (
	envServer = "AIPILLS_SERVER"
	envToken  = "AIPILLS_TOKEN"

	defaultServer  = "http://localhost:8000/api/v1"
	defaultTimeout = 30 * time.Second
)

var ErrNoToken = errors.New("no token: pass --token or set " + envToken)

// APIFactory builds the API client for the resolved server address.
type APIFactory func(server string, timeout time.Duration, logger *logger.Logger) (adapter.APIClient, error)

// App is the cobra-based command-line client.
type App struct {
	root   *cobra.Command
	newAPI APIFactory

	server  string
	token   string
	timeout time.Duration

	logger *logger.Logger
}

// NewApp builds the command tree. Output of commands goes to out, errors
// to errOut.
func NewApp(newAPI APIFactory, out, errOut io.Writer, logger *logger.Logger) *App {
	a := &App{newAPI: newAPI, logger: logger}

	root := &cobra.Command{
		Use:           "aipills",
		Short:         "Command-line client for the AI Pills API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.server, "server", envOr(envServer, defaultServer), "API root URL including the prefix [env "+envServer+"]")
	flags.StringVar(&a.token, "token", os.Getenv(envToken), "bearer token [env "+envToken+"]")
	flags.DurationVar(&a.timeout, "timeout", defaultTimeout, "request timeout")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.meCommand(),
		a.agentsCommand(),
		a.filesCommand(),
	)

	a.root = root
	return a
}

// Run executes the command selected by args. SIGINT and SIGTERM cancel
// the request in flight.
func (a *App) Run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.root.SetArgs(args)
	return a.root.ExecuteContext(ctx)
}

// api returns a client for the configured server. authed clients require
// a token.
func (a *App) api(authed bool) (adapter.APIClient, error) {
	if authed && a.token == "" {
		return nil, ErrNoToken
	}

	api, err := a.newAPI(a.server, a.timeout, a.logger)
	if err != nil {
		return nil, err
	}
	api.SetToken(a.token)
	return api, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
