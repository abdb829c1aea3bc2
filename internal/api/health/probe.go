package health

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"max.ks1230/expense-tracker/internal/logger"
)

// Probe asks a running tracker whether it is serving.
type Probe struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
}

func NewProbe(addr string) (*Probe, error) {
	conn, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, errors.Wrap(err, "cannot initiate new connection")
	}
	return &Probe{conn, healthpb.NewHealthClient(conn)}, nil
}

func (p *Probe) Close() {
	err := p.conn.Close()
	if err != nil {
		logger.Error("failed to close grpc connection", zap.Error(err))
	}
}

func (p *Probe) Check(ctx context.Context) (string, error) {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: Service})
	if err != nil {
		return "", errors.Wrap(err, "health check")
	}
	return resp.GetStatus().String(), nil
}
