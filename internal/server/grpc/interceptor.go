package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// loggingInterceptor writes one line per unary call.
func (s *HealthServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	args := []any{
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"latency", time.Since(start).String(),
	}
	if err != nil {
		s.logger.Warn(ctx, "grpc call", append(args, "error", err.Error())...)
	} else {
		s.logger.Debug(ctx, "grpc call", args...)
	}
	return resp, err
}
