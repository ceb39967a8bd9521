package observability

import (
	"context"
	"testing"

	"github.com/goaltracker/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestInitTracingDisabledIsNoop(t *testing.T) {
	shutdown, err := InitTracing(zaptest.NewLogger(t), config.AppConfig{TracingEnabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracingEnabled(t *testing.T) {
	shutdown, err := InitTracing(zaptest.NewLogger(t), config.AppConfig{TracingEnabled: true, ServiceName: "goaltracker-test", Env: "test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
