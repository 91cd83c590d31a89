package logx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestContextIDs(t *testing.T) {
	ctx := ContextWithTraceID(ContextWithRequestID(context.Background(), "rid-1"), "tid-1")
	require.Equal(t, "rid-1", RequestID(ctx))
	require.Equal(t, "tid-1", TraceID(ctx))
	require.Empty(t, RequestID(context.Background()))
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := logger
	logger = zap.New(core)
	t.Cleanup(func() { logger = prev })

	ctx := ContextWithRequestID(context.Background(), "rid-1")
	WithFields(ctx).Info("hello")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "rid-1", entries[0].ContextMap()["request_id"])
	_, hasTrace := entries[0].ContextMap()["trace_id"]
	require.False(t, hasTrace)
}
