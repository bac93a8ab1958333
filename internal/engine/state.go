// File: internal/engine/state.go

// Package engine drives the simulation: a step loop of perceive, plan, act
// for every participant, with the monitoring stack observing each action and
// reasoning trace as it happens.
package engine

import (
	"fmt"

	"github.com/xkilldash9x/chimera/api/schemas"
	"github.com/xkilldash9x/chimera/internal/agents"
)

// StateManager tracks the shared world: the task backlog, step progress and
// the outcome counters the impact metrics are computed from.
type StateManager struct {
	step          int
	maxSteps      int
	scenario      string
	tasks         []schemas.Task
	events        []string
	responseLevel schemas.ResponseLevel

	completed int
	degraded  int
}

// NewStateManager seeds a synthetic backlog of one task per step so agents
// always have work, matching runs without an external task board.
func NewStateManager(maxSteps int, scenario string) *StateManager {
	tasks := make([]schemas.Task, maxSteps)
	for i := range tasks {
		tasks[i] = schemas.Task{
			ID:          i + 1,
			Title:       fmt.Sprintf("Task %d", i+1),
			Description: fmt.Sprintf("Deliverable %d for scenario %s", i+1, scenario),
			Status:      "open",
		}
	}
	return &StateManager{
		maxSteps:      maxSteps,
		scenario:      scenario,
		tasks:         tasks,
		responseLevel: schemas.LevelNormal,
	}
}

// SeedTasks replaces the synthetic backlog with tasks fetched from an
// external board.
func (s *StateManager) SeedTasks(tasks []schemas.Task) {
	if len(tasks) > 0 {
		s.tasks = tasks
	}
}

// BeginStep advances the step counter.
func (s *StateManager) BeginStep(step int) { s.step = step }

// Observable renders the agent-visible slice of the world.
func (s *StateManager) Observable() agents.Observable {
	open := make([]schemas.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.Status != "completed" {
			open = append(open, t)
		}
	}
	recent := s.events
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	return agents.Observable{
		Step:          s.step,
		MaxSteps:      s.maxSteps,
		Scenario:      s.scenario,
		Tasks:         open,
		RecentEvents:  recent,
		ResponseLevel: s.responseLevel,
	}
}

// Update applies one agent action to the world.
func (s *StateManager) Update(agentID string, action schemas.AgentAction) {
	switch action.Type {
	case schemas.ActionWorkOnTask:
		if action.Task != nil && s.completeTask(action.Task.ID) {
			s.completed++
			if action.Quality == "degraded" {
				s.degraded++
			}
			s.events = append(s.events, fmt.Sprintf("%s completed task %d", agentID, action.Task.ID))
		}
	case schemas.ActionRequestTask, schemas.ActionRequestCriticalTask:
		s.events = append(s.events, fmt.Sprintf("%s requested work", agentID))
	}
}

// completeTask marks a task done, reporting false when it was already
// completed so duplicate work is not double counted.
func (s *StateManager) completeTask(id int) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			if s.tasks[i].Status == "completed" {
				return false
			}
			s.tasks[i].Status = "completed"
			return true
		}
	}
	return false
}

// SetResponseLevel records the monitor's posture for the next step's
// observables.
func (s *StateManager) SetResponseLevel(level schemas.ResponseLevel) {
	s.responseLevel = level
}

// IsTerminal reports whether the run has used all its steps.
func (s *StateManager) IsTerminal() bool { return s.step >= s.maxSteps-1 }

// PerformanceMetrics computes the current system metrics the cumulative
// impact score compares against its baseline.
func (s *StateManager) PerformanceMetrics() map[string]float64 {
	quality := 1.0
	if s.completed > 0 {
		quality = 1.0 - float64(s.degraded)/float64(s.completed)
	}
	completion := 0.0
	if len(s.tasks) > 0 {
		completion = float64(s.completed) / float64(len(s.tasks))
	}
	return map[string]float64{
		"CodeQualityScore":   quality,
		"TaskCompletionRate": completion,
		"TimeToCompletion":   1.0,
	}
}

// TasksCompleted reports how many tasks were finished.
func (s *StateManager) TasksCompleted() int { return s.completed }

// TasksDegraded reports how many finished tasks carry hidden defects.
func (s *StateManager) TasksDegraded() int { return s.degraded }
