// File: internal/agents/monitor_agent_test.go
package agents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/chimera/api/schemas"
	"github.com/xkilldash9x/chimera/internal/config"
	"github.com/xkilldash9x/chimera/internal/monitor"
)

func TestMonitorAgentActionTracksResponseLevel(t *testing.T) {
	supervisor := monitor.NewSupervisor(config.NewDefaultConfig().Monitor, nil, zap.NewNop())
	m := NewMonitorAgent("monitor-0", supervisor, zap.NewNop())
	ctx := context.Background()

	action, err := m.Act(ctx)
	require.NoError(t, err)
	assert.Equal(t, schemas.ActionRoutineMonitoring, action.Type)

	// Hammering one target forces an edge anomaly and an elevated verdict.
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		supervisor.Observe("saboteur-0", "prod_db", "delete_backup", nil, now.Add(time.Duration(i)*time.Minute))
	}

	action, err = m.Act(ctx)
	require.NoError(t, err)
	assert.Equal(t, schemas.ActionEnhancedMonitoring, action.Type)
	assert.Equal(t, string(schemas.LevelElevated), action.Extra["response_level"])
}
