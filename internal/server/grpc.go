package server

import (
	"context"
	"errors"
	"net"
	"time"

	"google.golang.org/grpc"

	"github.com/MKhiriev/ai-pills/internal/config"
	myGRPC "github.com/MKhiriev/ai-pills/internal/handler/grpc"
	"github.com/MKhiriev/ai-pills/internal/logger"
)

const healthRefreshInterval = 15 * time.Second

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	gRPCNetListener net.Listener

	refreshCtx  context.Context
	stopRefresh context.CancelFunc

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) (*grpcServer, error) {
	listener, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return nil, err
	}

	server := grpc.NewServer()
	handler.Register(server)

	refreshCtx, stopRefresh := context.WithCancel(context.Background())

	return &grpcServer{
		handler:         handler,
		server:          server,
		gRPCNetListener: listener,
		refreshCtx:      refreshCtx,
		stopRefresh:     stopRefresh,
		logger:          logger,
	}, nil
}

// serve publishes the health status before accepting connections and keeps
// refreshing it while serving.
func (g *grpcServer) serve() error {
	g.handler.Refresh(g.refreshCtx)
	go g.refresh(g.refreshCtx)

	g.logger.Info().Str("address", g.gRPCNetListener.Addr().String()).Msg("launching gRPC server")
	if err := g.server.Serve(g.gRPCNetListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

func (g *grpcServer) refresh(ctx context.Context) {
	ticker := time.NewTicker(healthRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.handler.Refresh(ctx)
		}
	}
}

// shutdown flips health to NOT_SERVING first so clients drain before the
// listener closes. GracefulStop is abandoned when ctx expires.
func (g *grpcServer) shutdown(ctx context.Context) {
	g.stopRefresh()
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		g.logger.Warn().Msg("gRPC graceful stop timed out")
		g.server.Stop()
	}
}

func (g *grpcServer) name() string {
	return "grpc"
}
