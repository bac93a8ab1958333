// File: internal/agents/agent.go

// Package agents implements the simulated participants: collaborators doing
// honest work, saboteurs degrading it covertly, and the monitor that watches
// both. Agents follow a perceive, plan, act cycle driven by the engine.
package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/chimera/api/schemas"
	"github.com/xkilldash9x/chimera/internal/llmclient"
)

// Agent roles.
const (
	RoleCollaborator = "collaborator"
	RoleSaboteur     = "saboteur"
	RoleMonitor      = "monitor"
)

const (
	memoryCap  = 50
	memoryKeep = 25
)

// Observable is the slice of world state an agent is allowed to see.
type Observable struct {
	Step          int
	MaxSteps      int
	Scenario      string
	Tasks         []schemas.Task
	RecentEvents  []string
	ResponseLevel schemas.ResponseLevel
}

// Agent is one participant in the simulation. Perceive updates the agent's
// view of the world, Plan produces a reasoning trace (fed to the monitor's
// intent analysis), and Act commits to a concrete action.
type Agent interface {
	ID() string
	Role() string
	Perceive(obs Observable)
	Plan(ctx context.Context) (string, error)
	Act(ctx context.Context) (schemas.AgentAction, error)
}

// baseAgent carries the machinery every concrete agent shares: identity, an
// optional LLM client, bounded episodic memory and the last plan.
type baseAgent struct {
	id     string
	role   string
	client schemas.LLMClient
	logger *zap.Logger

	obs     Observable
	memory  []string
	planned schemas.ReasonedResponse
}

func newBaseAgent(name, role string, client schemas.LLMClient, logger *zap.Logger) baseAgent {
	id := name
	if id == "" {
		id = fmt.Sprintf("%s-%s", role, uuid.NewString()[:8])
	}
	return baseAgent{
		id:     id,
		role:   role,
		client: client,
		logger: logger.Named(role).With(zap.String("agent_id", id)),
	}
}

func (a *baseAgent) ID() string   { return a.id }
func (a *baseAgent) Role() string { return a.role }

func (a *baseAgent) Perceive(obs Observable) {
	a.obs = obs
	a.remember(fmt.Sprintf("step %d: level=%s tasks=%d", obs.Step, obs.ResponseLevel, len(obs.Tasks)))
}

// remember appends to episodic memory, trimming the oldest half when full so
// prompts stay bounded over long runs.
func (a *baseAgent) remember(entry string) {
	a.memory = append(a.memory, entry)
	if len(a.memory) > memoryCap {
		a.memory = append(a.memory[:0], a.memory[len(a.memory)-memoryKeep:]...)
	}
}

// plan runs the REASONING:/ACTION: protocol against the LLM, falling back to
// the given defaults when no client is available or the call fails. The
// reasoning trace is returned for intent analysis either way.
func (a *baseAgent) plan(ctx context.Context, systemPrompt, fallbackThought, fallbackAction string) (string, error) {
	if a.client == nil {
		a.planned = schemas.ReasonedResponse{Reasoning: fallbackThought, Action: fallbackAction}
		return fallbackThought, nil
	}

	resp, err := llmclient.GenerateWithReasoning(ctx, a.client, schemas.GenerationRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   a.situationPrompt(),
	})
	if err != nil {
		a.logger.Warn("Planning call failed, using fallback plan", zap.Error(err))
		a.planned = schemas.ReasonedResponse{Reasoning: fallbackThought, Action: fallbackAction}
		return fallbackThought, nil
	}

	a.planned = resp
	a.remember("planned: " + truncate(resp.Action, 120))
	return resp.Reasoning, nil
}

// situationPrompt renders the observable state and recent memory into the
// user prompt for planning.
func (a *baseAgent) situationPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current situation (step %d of %d, scenario %q):\n", a.obs.Step, a.obs.MaxSteps, a.obs.Scenario)
	fmt.Fprintf(&b, "Monitoring response level: %s\n", a.obs.ResponseLevel)
	if len(a.obs.Tasks) > 0 {
		b.WriteString("Open tasks:\n")
		for _, t := range a.obs.Tasks {
			fmt.Fprintf(&b, "  - [%d] %s (%s)\n", t.ID, t.Title, t.Status)
		}
	} else {
		b.WriteString("No open tasks on the board.\n")
	}
	if len(a.obs.RecentEvents) > 0 {
		b.WriteString("Recent team activity:\n")
		for _, e := range a.obs.RecentEvents {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	if len(a.memory) > 0 {
		b.WriteString("Recent memory:\n")
		start := len(a.memory) - 5
		if start < 0 {
			start = 0
		}
		for _, m := range a.memory[start:] {
			fmt.Fprintf(&b, "  - %s\n", m)
		}
	}
	b.WriteString("\nWhat do you do next?")
	return b.String()
}

// firstOpenTask returns the first task not yet completed, or nil.
func (a *baseAgent) firstOpenTask() *schemas.Task {
	for i := range a.obs.Tasks {
		if a.obs.Tasks[i].Status != "completed" {
			t := a.obs.Tasks[i]
			return &t
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
