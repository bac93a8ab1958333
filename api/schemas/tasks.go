// File: api/schemas/tasks.go
package schemas

import "strings"

// Task is a unit of work on the external task board the agents act against.
type Task struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Agent action types as they appear on the wire and in observation records.
const (
	ActionWorkOnTask          = "work_on_task"
	ActionRequestTask         = "request_task"
	ActionRequestCriticalTask = "request_critical_task"
	ActionRoutineMonitoring   = "routine_monitoring"
	ActionEnhancedMonitoring  = "enhanced_monitoring"
	ActionHighAlertMonitoring = "high_alert_monitoring"
)

// AgentAction is the structured output of an agent's Act phase. The fields
// the engine and detectors actually consume are typed; Extra carries any
// unconstrained extension data.
type AgentAction struct {
	Type         string            `json:"type"`
	Message      string            `json:"message,omitempty"`
	Approach     string            `json:"approach,omitempty"`
	Quality      string            `json:"quality,omitempty"`
	HiddenIssues []string          `json:"hidden_issues,omitempty"`
	Task         *Task             `json:"task,omitempty"`
	Extra        map[string]string `json:"extra,omitempty"`
}

// MetadataMap flattens the typed fields into the open metadata form recorded
// on observations.
func (a AgentAction) MetadataMap() map[string]string {
	md := make(map[string]string, len(a.Extra)+3)
	for k, v := range a.Extra {
		md[k] = v
	}
	if a.Approach != "" {
		md["approach"] = a.Approach
	}
	if a.Quality != "" {
		md["quality"] = a.Quality
	}
	if len(a.HiddenIssues) > 0 {
		md["hidden_issues"] = strings.Join(a.HiddenIssues, "; ")
	}
	return md
}
