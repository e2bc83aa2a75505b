package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type scopeKey struct{}

// scope is the request-scoped logging state kept in a context
type scope struct {
	logger    *zap.Logger
	requestID string
	userID    string
}

func scopeFrom(ctx context.Context) scope {
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func withScope(ctx context.Context, s scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	s := scopeFrom(ctx)
	s.logger = l
	return withScope(ctx, s)
}

// FromContext returns the logger stored in ctx, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if l := scopeFrom(ctx).logger; l != nil {
		return l
	}
	return zap.NewNop()
}

// WithRequestID records requestID and stores a logger that carries it
func WithRequestID(ctx context.Context, l *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	s := scopeFrom(ctx)
	s.requestID = requestID
	s.logger = l.With(zap.String("request_id", requestID))
	return withScope(ctx, s), s.logger
}

// WithUserID records the authenticated user and stores a logger that carries it
func WithUserID(ctx context.Context, l *zap.Logger, userID string) (context.Context, *zap.Logger) {
	s := scopeFrom(ctx)
	s.userID = userID
	s.logger = l.With(zap.String("user_id", userID))
	return withScope(ctx, s), s.logger
}

func GetRequestID(ctx context.Context) string {
	return scopeFrom(ctx).requestID
}

func GetUserID(ctx context.Context) string {
	return scopeFrom(ctx).userID
}

// GetTraceID returns the active span's trace ID, or ""
func GetTraceID(ctx context.Context) string {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}

// L is FromContext plus trace_id and span_id when a span is active
func L(ctx context.Context) *zap.Logger {
	l := FromContext(ctx)
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		l = l.With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return l
}
