// Package health serves the standard gRPC health protocol for the tracker.
package health

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"max.ks1230/expense-tracker/internal/logger"
)

// Service is the name clients ask about; "" covers the whole server.
const Service = "expense-tracker"

type pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	server *grpc.Server
	health *health.Server
	lis    net.Listener
	db     pinger
	period time.Duration
}

func NewServer(port int, db pinger) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, errors.Wrap(err, "cannot create server")
	}
	return newServer(lis, db), nil
}

func newServer(lis net.Listener, db pinger) *Server {
	rpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(rpcServer, hs)

	return &Server{
		server: rpcServer,
		health: hs,
		lis:    lis,
		db:     db,
		period: 15 * time.Second,
	}
}

func (s *Server) Addr() net.Addr {
	return s.lis.Addr()
}

// Serve answers health checks until Shutdown, refreshing the status from
// the database every period while ctx is alive.
func (s *Server) Serve(ctx context.Context) {
	s.refresh(ctx)
	go s.watch(ctx)

	logger.Info("gRPC server listening", zap.Any("addr", s.lis.Addr()))
	err := s.server.Serve(s.lis)
	if err != nil {
		logger.Error("failed to serve gRPC", zap.Error(err))
	}
}

func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.server.GracefulStop()
	logger.Info("grpc server stopped")
}

func (s *Server) watch(ctx context.Context) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *Server) refresh(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if err := s.db.Ping(ctx); err != nil {
		logger.Warn("storage is not reachable", zap.Error(err))
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(Service, status)
}
