// File: internal/observability/logger_test.go
package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/chimera/internal/config"
)

func TestInitializeWritesToConsole(t *testing.T) {
	ResetForTest()
	var buf bytes.Buffer

	Initialize(config.LoggerConfig{
		Level:       "info",
		Format:      "json",
		ServiceName: "test-svc",
	}, zapcore.AddSync(&buf))

	logger := GetLogger()
	require.NotNil(t, logger)
	logger.Info("hello from the test")
	assert.Contains(t, buf.String(), "hello from the test")
	assert.Contains(t, buf.String(), "test-svc")
}

func TestInitializeIsIdempotentUntilReset(t *testing.T) {
	ResetForTest()
	var first, second bytes.Buffer

	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "one"}, zapcore.AddSync(&first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "two"}, zapcore.AddSync(&second))

	GetLogger().Info("routed")
	assert.Contains(t, first.String(), "routed", "the second Initialize must be a no-op")
	assert.Empty(t, second.String())

	ResetForTest()
	Initialize(config.LoggerConfig{Level: "info", Format: "json", ServiceName: "three"}, zapcore.AddSync(&second))
	GetLogger().Info("rerouted")
	assert.Contains(t, second.String(), "rerouted")
}

func TestGetLoggerFallsBackBeforeInitialize(t *testing.T) {
	ResetForTest()
	assert.NotNil(t, GetLogger(), "callers must never receive a nil logger")
}

func TestInvalidLevelDefaultsToInfo(t *testing.T) {
	ResetForTest()
	var buf bytes.Buffer

	Initialize(config.LoggerConfig{Level: "nonsense", Format: "json", ServiceName: "test"}, zapcore.AddSync(&buf))
	GetLogger().Debug("too quiet")
	GetLogger().Info("loud enough")

	assert.NotContains(t, buf.String(), "too quiet")
	assert.Contains(t, buf.String(), "loud enough")
}

func TestSyncDoesNotPanic(t *testing.T) {
	ResetForTest()
	InitializeLogger(config.LoggerConfig{Level: "fatal", Format: "console", ServiceName: "test"})
	assert.NotPanics(t, Sync)
}
