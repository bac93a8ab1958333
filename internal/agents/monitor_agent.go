// File: internal/agents/monitor_agent.go
package agents

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/chimera/api/schemas"
	"github.com/xkilldash9x/chimera/internal/monitor"
)

// MonitorAgent is the supervising participant. It does not plan with an LLM;
// its action is determined entirely by the supervisor's latest verdict.
type MonitorAgent struct {
	baseAgent
	supervisor *monitor.Supervisor
}

// NewMonitorAgent wraps a supervisor as a simulation participant.
func NewMonitorAgent(name string, supervisor *monitor.Supervisor, logger *zap.Logger) *MonitorAgent {
	return &MonitorAgent{
		baseAgent:  newBaseAgent(name, RoleMonitor, nil, logger),
		supervisor: supervisor,
	}
}

// Supervisor exposes the wrapped detection stack to the engine.
func (m *MonitorAgent) Supervisor() *monitor.Supervisor { return m.supervisor }

// Plan summarizes the current posture; the monitor's reasoning is not
// analyzed for intent.
func (m *MonitorAgent) Plan(ctx context.Context) (string, error) {
	verdict := m.supervisor.LastVerdict()
	return fmt.Sprintf("Posture %s with %d threat indicators over %d observations.",
		verdict.ResponseLevel, verdict.ThreatIndicators.Total(), verdict.TotalObservations), nil
}

// Act runs a detection pass and converts the response level into a
// monitoring action.
func (m *MonitorAgent) Act(ctx context.Context) (schemas.AgentAction, error) {
	verdict := m.supervisor.Step(ctx)

	actionType := schemas.ActionRoutineMonitoring
	switch verdict.ResponseLevel {
	case schemas.LevelElevated:
		actionType = schemas.ActionEnhancedMonitoring
	case schemas.LevelCritical:
		actionType = schemas.ActionHighAlertMonitoring
	}

	m.logger.Debug("Monitoring pass",
		zap.String("level", string(verdict.ResponseLevel)),
		zap.Float64("score", verdict.SuspicionScore),
	)
	return schemas.AgentAction{
		Type:    actionType,
		Message: fmt.Sprintf("suspicion=%.3f level=%s", verdict.SuspicionScore, verdict.ResponseLevel),
		Extra: map[string]string{
			"response_level": string(verdict.ResponseLevel),
		},
	}, nil
}
