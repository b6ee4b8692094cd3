package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/handler"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/workers"
)

const defaultShutdownTimeout = 10 * time.Second

type server struct {
	transports []transport
	workers    *workers.Workers

	shutdownTimeout time.Duration
	logger          *logger.Logger
}

// NewServer binds the listeners of every configured transport. workers may
// be nil.
func NewServer(handlers *handler.Handlers, background *workers.Workers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	s := &server{
		workers:         background,
		shutdownTimeout: time.Duration(cfg.ShutdownTimeout),
		logger:          logger,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = defaultShutdownTimeout
	}

	if cfg.HTTPAddress != "" && handlers.HTTP != nil {
		h, err := newHTTPServer(handlers.HTTP.Init(), cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("error listening on %s: %w", cfg.HTTPAddress, err)
		}
		s.transports = append(s.transports, h)
	}
	if cfg.GRPCAddress != "" && handlers.GRPC != nil {
		g, err := newGRPCServer(handlers.GRPC, cfg, logger)
		if err != nil {
			s.closeListeners()
			return nil, fmt.Errorf("error listening on %s: %w", cfg.GRPCAddress, err)
		}
		s.transports = append(s.transports, g)
	}

	if len(s.transports) == 0 {
		return nil, errNoServersAreCreated
	}

	return s, nil
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := s.Run(ctx); err != nil {
		s.logger.Err(err).Msg("error running server")
	}
}

// Run starts every transport and the workers, and stops them all when ctx
// is cancelled or a transport fails.
func (s *server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		errMu   sync.Mutex
		runErrs []error
	)

	for _, t := range s.transports {
		wg.Go(func() {
			if err := t.serve(); err != nil {
				errMu.Lock()
				runErrs = append(runErrs, fmt.Errorf("%s server: %w", t.name(), err))
				errMu.Unlock()
				cancel()
			}
		})
	}
	if s.workers != nil {
		wg.Go(func() { s.workers.Run(ctx) })
	}

	<-ctx.Done()
	s.logger.Info().Msg("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancelShutdown()
	for _, t := range s.transports {
		t.shutdown(shutdownCtx)
	}

	wg.Wait()
	s.logger.Info().Msg("server Shutdown gracefully")

	return errors.Join(runErrs...)
}

func (s *server) closeListeners() {
	for _, t := range s.transports {
		switch l := t.(type) {
		case *httpServer:
			l.listener.Close()
		case *grpcServer:
			l.gRPCNetListener.Close()
		}
	}
}
