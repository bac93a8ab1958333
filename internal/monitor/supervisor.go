// File: internal/monitor/supervisor.go
package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/chimera/api/schemas"
	"github.com/xkilldash9x/chimera/internal/config"
)

const maxPatternAnomalies = 5

// Supervisor is the tiered monitoring orchestrator. It owns the observation
// recorder, pattern miner, interaction graph and intent analyzer, fuses their
// signals into a composite suspicion score each step, and classifies the
// result into a response level.
//
// All public methods are safe for concurrent use; internally a single mutex
// serializes access, which is plenty for the per-step cadence this runs at.
type Supervisor struct {
	mu sync.Mutex

	cfg      config.MonitorConfig
	logger   *zap.Logger
	recorder *Recorder
	miner    *PatternMiner
	graph    *InteractionGraph
	intent   *IntentAnalyzer

	elevatedThreshold float64
	generation        int
	intentThreats     int
	lastVerdict       schemas.Verdict
}

// NewSupervisor wires the detection tiers together. The LLM client may be
// nil; intent analysis then runs on keyword heuristics alone.
func NewSupervisor(cfg config.MonitorConfig, client schemas.LLMClient, logger *zap.Logger) *Supervisor {
	log := logger.Named("supervisor")
	return &Supervisor{
		cfg:               cfg,
		logger:            log,
		recorder:          NewRecorder(cfg.HistoryCap),
		miner:             NewPatternMiner(cfg.MinSupport, cfg.MaxPatternLength),
		graph:             NewInteractionGraph(),
		intent:            NewIntentAnalyzer(client, log),
		elevatedThreshold: cfg.ElevatedThreshold,
	}
}

// Observe feeds one interaction into every tier. Observing and stepping are
// decoupled so a driver can batch several observations before evaluating.
func (s *Supervisor) Observe(source, target, actionType string, metadata map[string]string, timestamp time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recorder.Record(source, target, actionType, metadata, timestamp)
	s.miner.AddAction(source, actionType, timestamp)
	s.graph.AddInteraction(source, target, actionType, timestamp)
}

// AnalyzeThought scores an agent's reasoning trace. High scores count toward
// the intent threat indicator on subsequent steps.
func (s *Supervisor) AnalyzeThought(ctx context.Context, agentID, thought string) schemas.IntentAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	analysis := s.intent.Analyze(ctx, agentID, thought)
	if analysis.SuspicionScore > s.cfg.IntentThreshold {
		s.intentThreats++
		s.logger.Warn("High-suspicion reasoning detected",
			zap.String("agent_id", agentID),
			zap.Float64("score", analysis.SuspicionScore),
			zap.Strings("indicators", analysis.IndicatorsFound),
		)
	}
	return analysis
}

// Step runs one full detection pass over everything observed so far and
// returns the verdict. With no observations at all the verdict is a quiet
// NORMAL rather than an error.
func (s *Supervisor) Step(ctx context.Context) schemas.Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if s.recorder.Len() == 0 {
		verdict := schemas.Verdict{
			ResponseLevel: schemas.LevelNormal,
			Generation:    s.generation,
			Timestamp:     now,
		}
		s.lastVerdict = verdict
		return verdict
	}

	graphAnomalies := s.detectGraphAnomalies(now)
	patternAnomalies := s.detectPatternAnomalies()
	score := s.compositeScore(graphAnomalies, patternAnomalies)
	level := s.classify(score, len(graphAnomalies)+len(patternAnomalies))

	indicators := schemas.ThreatIndicators{
		PatternThreats: len(patternAnomalies),
		IntentThreats:  s.intentThreats,
	}
	for _, a := range graphAnomalies {
		switch a.Type {
		case schemas.AnomalyNode:
			indicators.NodeThreats++
		case schemas.AnomalyEdge:
			indicators.EdgeThreats++
		case schemas.AnomalyPath:
			indicators.PathThreats++
		}
	}

	verdict := schemas.Verdict{
		ResponseLevel:     level,
		SuspicionScore:    score,
		ThreatIndicators:  indicators,
		TotalObservations: s.recorder.Len(),
		Generation:        s.generation,
		GraphAnomalies:    graphAnomalies,
		PatternAnomalies:  patternAnomalies,
		Timestamp:         now,
	}
	s.lastVerdict = verdict

	if level != schemas.LevelNormal {
		s.logger.Warn("Suspicion level raised",
			zap.String("level", string(level)),
			zap.Float64("score", score),
			zap.Int("threat_indicators", indicators.Total()),
		)
	} else {
		s.logger.Debug("Detection pass complete",
			zap.Float64("score", score),
			zap.Int("observations", s.recorder.Len()),
		)
	}
	return verdict
}

// detectGraphAnomalies scans the structural tier: high-betweenness brokers,
// hammered edges and multi-hop influence paths.
func (s *Supervisor) detectGraphAnomalies(now time.Time) []schemas.GraphAnomaly {
	var anomalies []schemas.GraphAnomaly

	centrality := s.graph.CentralityMetrics()
	for _, node := range s.graph.sortedNodes() {
		scores := centrality[node]
		if scores.Betweenness > s.cfg.BetweennessThreshold && s.graph.IsAgent(node) {
			anomalies = append(anomalies, schemas.GraphAnomaly{
				Type:           schemas.AnomalyNode,
				Description:    fmt.Sprintf("agent %s brokers an unusually high share of interaction paths", node),
				Severity:       scores.Betweenness,
				InvolvedAgents: []string{node},
				Timestamp:      now,
			})
		}
	}

	for _, edge := range s.graph.HeavyEdges(s.cfg.EdgeRepeatThreshold) {
		anomalies = append(anomalies, schemas.GraphAnomaly{
			Type:           schemas.AnomalyEdge,
			Description:    fmt.Sprintf("%s repeated %s on %s %d times", edge.Source, edge.ActionType, edge.Target, int(edge.Weight)),
			Severity:       s.cfg.EdgeSeverity,
			InvolvedAgents: []string{edge.Source},
			Timestamp:      now,
		})
	}

	for _, path := range s.graph.UnusualPaths(s.cfg.MaxPathLength) {
		anomalies = append(anomalies, schemas.GraphAnomaly{
			Type:           schemas.AnomalyPath,
			Description:    fmt.Sprintf("multi-hop influence path: %s", strings.Join(path, " -> ")),
			Severity:       s.cfg.PathSeverity,
			InvolvedAgents: path,
			Timestamp:      now,
		})
	}
	return anomalies
}

// detectPatternAnomalies keeps the top mined patterns above the anomaly
// threshold; the miner already sorts by score descending.
func (s *Supervisor) detectPatternAnomalies() []schemas.BehavioralPattern {
	var flagged []schemas.BehavioralPattern
	for _, p := range s.miner.MinePatterns() {
		if p.AnomalyScore <= s.cfg.PatternThreshold {
			break
		}
		flagged = append(flagged, p)
		if len(flagged) == maxPatternAnomalies {
			break
		}
	}
	return flagged
}

// compositeScore averages three fixed components: mean graph anomaly
// severity, mean flagged-pattern anomaly score, and the constant baseline.
// Absent signals contribute 0, which keeps a quiet system's score well below
// the elevated threshold.
func (s *Supervisor) compositeScore(graphAnomalies []schemas.GraphAnomaly, patternAnomalies []schemas.BehavioralPattern) float64 {
	graphComponent := 0.0
	if len(graphAnomalies) > 0 {
		for _, a := range graphAnomalies {
			graphComponent += a.Severity
		}
		graphComponent /= float64(len(graphAnomalies))
	}

	patternComponent := 0.0
	if len(patternAnomalies) > 0 {
		for _, p := range patternAnomalies {
			patternComponent += p.AnomalyScore
		}
		patternComponent /= float64(len(patternAnomalies))
	}

	return (graphComponent + patternComponent + s.cfg.BaselineSuspicion) / 3.0
}

// classify maps the composite score onto a response level. Any concrete
// anomaly raises the floor to ELEVATED even when the averaged score stays
// below the tunable threshold.
func (s *Supervisor) classify(score float64, anomalyCount int) schemas.ResponseLevel {
	switch {
	case score >= s.cfg.CriticalThreshold:
		return schemas.LevelCritical
	case score >= s.elevatedThreshold || anomalyCount > 0:
		return schemas.LevelElevated
	default:
		return schemas.LevelNormal
	}
}

// Evolve tunes the elevated threshold from external feedback: false positives
// desensitize, missed detections sensitize. The generation counter increments
// on every call, adjustment or not.
func (s *Supervisor) Evolve(feedback schemas.EvolutionFeedback) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.elevatedThreshold
	if feedback.FalsePositives > 0 {
		s.elevatedThreshold += s.cfg.TuningStep
	}
	if feedback.MissedDetections > 0 {
		s.elevatedThreshold -= s.cfg.TuningStep
	}
	if s.elevatedThreshold < 0 {
		s.elevatedThreshold = 0
	}
	if s.elevatedThreshold > 1 {
		s.elevatedThreshold = 1
	}
	s.generation++

	s.logger.Info("Detection thresholds evolved",
		zap.Int("generation", s.generation),
		zap.Float64("previous_threshold", previous),
		zap.Float64("new_threshold", s.elevatedThreshold),
		zap.Int("false_positives", feedback.FalsePositives),
		zap.Int("missed_detections", feedback.MissedDetections),
	)
}

// ElevatedThreshold reports the current tuned threshold.
func (s *Supervisor) ElevatedThreshold() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elevatedThreshold
}

// Generation reports how many Evolve calls have been applied.
func (s *Supervisor) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// LastVerdict returns the verdict of the most recent Step.
func (s *Supervisor) LastVerdict() schemas.Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastVerdict
}

// Report snapshots the monitoring system for end-of-run reporting.
func (s *Supervisor) Report() schemas.MonitorReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	agents := 0
	for _, node := range s.graph.sortedNodes() {
		if s.graph.IsAgent(node) {
			agents++
		}
	}

	return schemas.MonitorReport{
		SystemOverview: schemas.SystemOverview{
			Tier1Detectors:    3,
			AgentsMonitored:   agents,
			TotalObservations: s.recorder.Len(),
			Generation:        s.generation,
		},
		IntentAnalysisSummary: s.intent.Summary(),
		DetectionCapabilities: map[string]bool{
			"sequential_patterns":   true,
			"graph_analysis":        true,
			"chain_of_thought":      true,
			"llm_intent_analysis":   s.intent.LLMEnabled(),
			"adaptive_thresholds":   true,
			"cross_agent_detection": true,
		},
	}
}
