// Package grpc runs the gRPC health endpoint of the inventory API.
//
// The standard grpc.health.v1.Health service reports SERVING or NOT_SERVING
// for the whole server ("") and for each named dependency check:
//
//	srv, err := grpc.Start(ctx, config.GRPCPort(), grpc.Check{
//	    Service: "stockroom.database",
//	    Probe:   func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
//	})
//	defer srv.Stop()
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/shashiranjanraj/stockroom/pkg/logger"
	"github.com/shashiranjanraj/stockroom/pkg/metrics"
)

// ProbeInterval is how often dependency checks run.
var ProbeInterval = 15 * time.Second

var (
	grpcRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockroom",
		Subsystem: "grpc",
		Name:      "handled_total",
		Help:      "Total number of gRPC calls completed by method and code.",
	}, []string{"grpc_method", "grpc_code"})

	grpcRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stockroom",
		Subsystem: "grpc",
		Name:      "handling_seconds",
		Help:      "gRPC response latency in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"grpc_method"})
)

func init() {
	metrics.MustRegister(grpcRequestsTotal, grpcRequestDuration)
}

// ─── Interceptors ─────────────────────────────────────────────────────────────

func recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("grpc: panic recovered",
				"method", info.FullMethod,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			err = status.Errorf(codes.Internal, "internal server error")
		}
	}()
	return handler(ctx, req)
}

// observeInterceptor logs and counts every unary RPC.
func observeInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	dur := time.Since(start)

	code := status.Code(err)
	grpcRequestsTotal.WithLabelValues(info.FullMethod, code.String()).Inc()
	grpcRequestDuration.WithLabelValues(info.FullMethod).Observe(dur.Seconds())
	logger.Debug("grpc: request", "method", info.FullMethod, "duration_ms", dur.Milliseconds(), "code", code.String())
	return resp, err
}

// ─── Server ───────────────────────────────────────────────────────────────────

// Check is one dependency probe reported under Service.
type Check struct {
	Service string
	Probe   func(ctx context.Context) error
}

// Server is a running gRPC server.
type Server struct {
	srv    *grpc.Server
	lis    net.Listener
	health *health.Server
	cancel context.CancelFunc
}

// Start listens on port ("0" picks a free one), registers the health and
// reflection services and probes checks every ProbeInterval until ctx is done
// or Stop is called.
func Start(ctx context.Context, port string, checks ...Check) (*Server, error) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("grpc: listen on :%s: %w", port, err)
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(recoveryInterceptor, observeInterceptor),
		grpc.MaxRecvMsgSize(1<<20),
		grpc.MaxSendMsgSize(1<<20),
	)
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	pctx, cancel := context.WithCancel(ctx)
	s := &Server{srv: srv, lis: lis, health: hs, cancel: cancel}
	s.probe(pctx, checks)
	go s.probeLoop(pctx, checks)

	logger.Info("grpc: server starting", "addr", lis.Addr().String())
	go func() {
		if err := srv.Serve(lis); err != nil {
			logger.Error("grpc: serve error", "error", err)
		}
	}()
	return s, nil
}

// Addr is the bound listen address.
func (s *Server) Addr() string { return s.lis.Addr().String() }

// Stop marks every service NOT_SERVING and drains in-flight RPCs.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	s.cancel()
	s.health.Shutdown()
	s.srv.GracefulStop()
	logger.Info("grpc: server stopped")
}

func (s *Server) probeLoop(ctx context.Context, checks []Check) {
	if len(checks) == 0 {
		return
	}
	t := time.NewTicker(ProbeInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.probe(ctx, checks)
		}
	}
}

// probe runs every check; the server-wide status is SERVING only when all
// checks pass.
func (s *Server) probe(ctx context.Context, checks []Check) {
	overall := grpc_health_v1.HealthCheckResponse_SERVING
	for _, c := range checks {
		cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := c.Probe(cctx)
		cancel()

		st := grpc_health_v1.HealthCheckResponse_SERVING
		if err != nil {
			st = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			overall = st
			logger.Warn("grpc: health probe failed", "service", c.Service, "error", err)
		}
		s.health.SetServingStatus(c.Service, st)
	}
	s.health.SetServingStatus("", overall)
}
