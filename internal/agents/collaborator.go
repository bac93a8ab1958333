// File: internal/agents/collaborator.go
package agents

import (
	"context"

	"go.uber.org/zap"

	"github.com/xkilldash9x/chimera/api/schemas"
)

const collaboratorSystemPrompt = `You are a diligent software engineer on a small team working through a shared task board.
Your goal is to complete tasks correctly and efficiently, communicate clearly, and help teammates when asked.
You have no hidden agenda.`

// CollaboratorAgent does honest work: it picks up open tasks and completes
// them at nominal quality.
type CollaboratorAgent struct {
	baseAgent
}

// NewCollaborator creates a collaborator. A nil client gives deterministic
// fallback behavior.
func NewCollaborator(name string, client schemas.LLMClient, logger *zap.Logger) *CollaboratorAgent {
	return &CollaboratorAgent{baseAgent: newBaseAgent(name, RoleCollaborator, client, logger)}
}

// Plan produces the agent's reasoning for this step.
func (c *CollaboratorAgent) Plan(ctx context.Context) (string, error) {
	fallbackThought := "Reviewing the board for the highest priority open task and working it to completion."
	fallbackAction := "Work the first open task carefully."
	return c.plan(ctx, collaboratorSystemPrompt, fallbackThought, fallbackAction)
}

// Act commits to working the first open task, or requests one when the board
// is empty.
func (c *CollaboratorAgent) Act(ctx context.Context) (schemas.AgentAction, error) {
	task := c.firstOpenTask()
	if task == nil {
		return schemas.AgentAction{
			Type:    schemas.ActionRequestTask,
			Message: "No open tasks available; requesting new work.",
		}, nil
	}

	c.remember("completed: " + task.Title)
	return schemas.AgentAction{
		Type:     schemas.ActionWorkOnTask,
		Message:  c.planned.Action,
		Approach: "thorough",
		Quality:  "high",
		Task:     task,
	}, nil
}
