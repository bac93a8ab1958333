// File: api/schemas/schemas.go
package schemas

import (
	"time"
)

// ResponseLevel is the discrete escalation level emitted by the supervisor.
// It is an observed-value classifier, not a sticky state machine: the level
// can move in both directions between steps as scores fluctuate.
type ResponseLevel string

const (
	LevelNormal   ResponseLevel = "NORMAL"
	LevelElevated ResponseLevel = "ELEVATED"
	LevelCritical ResponseLevel = "CRITICAL"
)

// Rank returns the ordinal position of the level for comparisons.
func (r ResponseLevel) Rank() int {
	switch r {
	case LevelElevated:
		return 1
	case LevelCritical:
		return 2
	default:
		return 0
	}
}

// Observation is a single recorded interaction. Immutable once recorded.
// The monitoring subsystem never originates one on its own; the simulation
// driver constructs them.
type Observation struct {
	Source     string            `json:"source"`
	Target     string            `json:"target"`
	ActionType string            `json:"action_type"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}

// BehavioralPattern is a contiguous action-type subsequence mined from one
// agent's history. AnomalyScore is 1/(Frequency+1), so rarer is higher.
type BehavioralPattern struct {
	PatternType  string    `json:"pattern_type"`
	Sequence     []string  `json:"sequence"`
	Frequency    int       `json:"frequency"`
	AnomalyScore float64   `json:"anomaly_score"`
	AgentID      string    `json:"agent_id"`
	LastSeen     time.Time `json:"last_seen"`
}

// AnomalyType classifies graph anomalies by the structure that produced them.
type AnomalyType string

const (
	AnomalyNode AnomalyType = "node"
	AnomalyEdge AnomalyType = "edge"
	AnomalyPath AnomalyType = "path"
)

// GraphAnomaly is an ephemeral detection produced per step; it is not stored
// beyond the supervisor's optional history.
type GraphAnomaly struct {
	Type           AnomalyType `json:"type"`
	Description    string      `json:"description"`
	Severity       float64     `json:"severity"`
	InvolvedAgents []string    `json:"involved_agents"`
	Timestamp      time.Time   `json:"timestamp"`
}

// IntentAnalysis is the result of scoring a single thought string.
// SuspicionScore is the arithmetic mean of the keyword and LLM components.
type IntentAnalysis struct {
	AgentID          string    `json:"agent_id"`
	SuspicionScore   float64   `json:"suspicion_score"`
	KeywordSuspicion float64   `json:"keyword_suspicion"`
	LLMSuspicion     float64   `json:"llm_suspicion"`
	IndicatorsFound  []string  `json:"indicators_found,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// CentralityScores holds the per-node centrality metrics of the interaction
// graph. On trivial or disconnected graphs these degrade to 0.0 rather than
// erroring.
type CentralityScores struct {
	Betweenness float64 `json:"betweenness"`
	Closeness   float64 `json:"closeness"`
	Degree      float64 `json:"degree"`
}

// ThreatIndicators counts flagged detections per producing detector. Earlier
// revisions of this system labeled these intent/coordination/temporal, which
// did not match the detectors that produced them; the fields here are named
// by what they actually measure.
type ThreatIndicators struct {
	// NodeThreats counts high-betweenness node anomalies.
	NodeThreats int `json:"node_threats"`
	// EdgeThreats counts heavily repeated edge anomalies.
	EdgeThreats int `json:"edge_threats"`
	// PathThreats counts multi-hop path anomalies.
	PathThreats int `json:"path_threats"`
	// PatternThreats counts behavioral patterns above the anomaly threshold.
	PatternThreats int `json:"pattern_threats"`
	// IntentThreats counts thought analyses above the intent threshold.
	IntentThreats int `json:"intent_threats"`
}

// Total sums all indicator counts.
func (t ThreatIndicators) Total() int {
	return t.NodeThreats + t.EdgeThreats + t.PathThreats + t.PatternThreats + t.IntentThreats
}

// Verdict is the per-step output of the supervisor.
//
// Generation is a tuning-call counter: it increments on every Evolve call
// regardless of whether detection actually improved. It is not a capability
// measure.
type Verdict struct {
	ResponseLevel     ResponseLevel       `json:"response_level"`
	SuspicionScore    float64             `json:"suspicion_score"`
	ThreatIndicators  ThreatIndicators    `json:"threat_indicators"`
	TotalObservations int                 `json:"total_observations"`
	Generation        int                 `json:"generation"`
	GraphAnomalies    []GraphAnomaly      `json:"graph_anomalies,omitempty"`
	PatternAnomalies  []BehavioralPattern `json:"pattern_anomalies,omitempty"`
	Timestamp         time.Time           `json:"timestamp"`
}

// EvolutionFeedback carries externally assessed detector quality back into
// the supervisor. Zero values mean "no adjustment"; the generation counter
// still increments.
type EvolutionFeedback struct {
	FalsePositives    int     `json:"false_positives"`
	MissedDetections  int     `json:"missed_detections"`
	DetectionAccuracy float64 `json:"detection_accuracy,omitempty"`
}

// SystemOverview summarizes the monitoring system's structural state for
// reporting.
type SystemOverview struct {
	Tier1Detectors    int `json:"tier1_detectors"`
	AgentsMonitored   int `json:"agents_monitored"`
	TotalObservations int `json:"total_observations"`
	Generation        int `json:"arms_race_generation"`
}

// IntentSummary aggregates intent analyses for one agent.
type IntentSummary struct {
	AvgIntentScore float64 `json:"avg_intent_score"`
	MaxIntentScore float64 `json:"max_intent_score"`
	TotalAnalyses  int     `json:"total_analyses"`
}

// MonitorReport is a read-only snapshot of the monitoring system, produced on
// demand for reporting tooling.
type MonitorReport struct {
	SystemOverview        SystemOverview           `json:"system_overview"`
	IntentAnalysisSummary map[string]IntentSummary `json:"intent_analysis_summary"`
	DetectionCapabilities map[string]bool          `json:"detection_capabilities"`
}
