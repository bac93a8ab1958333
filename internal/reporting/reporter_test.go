// File: internal/reporting/reporter_test.go
package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestJSONReporterWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	r, err := New("json", path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, r.Write(map[string]any{"run_id": "abc", "score": 0.25}))
	require.NoError(t, r.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "abc", decoded["run_id"])
	assert.Equal(t, 0.25, decoded["score"])
}

func TestEmptyFormatDefaultsToJSON(t *testing.T) {
	r, err := New("", "", zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, r.Close())
}

func TestUnsupportedFormatRejected(t *testing.T) {
	_, err := New("xml", "", zap.NewNop())
	assert.ErrorContains(t, err, "unsupported report format")
}
