// File: internal/monitor/main_test.go
package monitor

import (
	"context"
	"os"
	"testing"

	"github.com/xkilldash9x/chimera/api/schemas"
	"github.com/xkilldash9x/chimera/internal/config"
	"github.com/xkilldash9x/chimera/internal/observability"
)

func TestMain(m *testing.M) {
	observability.ResetForTest()
	observability.InitializeLogger(config.LoggerConfig{Level: "fatal", Format: "console", ServiceName: "test"})
	os.Exit(m.Run())
}

// stubLLM is a deterministic in-memory LLM for tests. It counts calls so
// tests can assert the short-circuit paths that must not reach the client.
type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}
