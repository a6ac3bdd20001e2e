package database

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/utafrali/storefront/pkg/database"

// TracingHook is a redis.Hook that wraps every command and pipeline in a
// client span and logs commands slower than a threshold.
type TracingHook struct {
	slowThreshold time.Duration
	logger        *slog.Logger
}

var _ redis.Hook = (*TracingHook)(nil)

// NewTracingHook creates a hook. A zero threshold or nil logger disables
// slow command logging.
func NewTracingHook(slowThreshold time.Duration, logger *slog.Logger) *TracingHook {
	return &TracingHook{slowThreshold: slowThreshold, logger: logger}
}

// DialHook passes dials through unchanged.
func (h *TracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

// ProcessHook traces a single command.
func (h *TracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, end := h.start(ctx, "redis."+cmd.FullName(), cmd.FullName(), 1)
		err := next(ctx, cmd)
		end(ctx, cmdError(err))
		return err
	}
}

// ProcessPipelineHook traces a pipeline as one span.
func (h *TracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, len(cmds))
		for i, cmd := range cmds {
			names[i] = cmd.Name()
		}
		ctx, end := h.start(ctx, "redis.pipeline", strings.Join(names, " "), len(cmds))
		err := next(ctx, cmds)
		end(ctx, cmdError(err))
		return err
	}
}

func (h *TracingHook) start(ctx context.Context, spanName, operation string, n int) (context.Context, func(context.Context, error)) {
	begin := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
			attribute.Int("db.redis.num_cmd", n),
		),
	)

	return ctx, func(ctx context.Context, err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if h.slowThreshold <= 0 || h.logger == nil {
			return
		}
		if elapsed := time.Since(begin); elapsed >= h.slowThreshold {
			attrs := []any{
				slog.String("operation", operation),
				slog.Duration("duration", elapsed),
			}
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
			}
			h.logger.WarnContext(ctx, "slow redis command", attrs...)
		}
	}
}

// cmdError drops redis.Nil, which only signals a missing key.
func cmdError(err error) error {
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
