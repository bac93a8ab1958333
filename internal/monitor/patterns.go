// File: internal/monitor/patterns.go
package monitor

import (
	"sort"
	"strings"
	"time"

	"github.com/xkilldash9x/chimera/api/schemas"
)

// sequenceSeparator joins action types into map keys. Unit separator rather
// than a printable rune so action names cannot collide.
const sequenceSeparator = "\x1f"

type actionEntry struct {
	action    string
	timestamp time.Time
}

// PatternMiner extracts contiguous action-type subsequences per agent and
// scores them by rarity. Counts are rebuilt from scratch on every mining
// pass, so a recurring pattern shows growing frequency and a monotonically
// shrinking anomaly score across steps.
type PatternMiner struct {
	minSupport float64
	maxLength  int
	sequences  map[string][]actionEntry
	agentOrder []string
	minedTotal int
}

// NewPatternMiner creates a miner. Non-positive maxLength falls back to 5;
// minSupport outside (0,1] falls back to 0.1.
func NewPatternMiner(minSupport float64, maxLength int) *PatternMiner {
	if maxLength < 2 {
		maxLength = 5
	}
	if minSupport <= 0 || minSupport > 1 {
		minSupport = 0.1
	}
	return &PatternMiner{
		minSupport: minSupport,
		maxLength:  maxLength,
		sequences:  make(map[string][]actionEntry),
	}
}

// AddAction appends an action to the agent's sequence.
func (m *PatternMiner) AddAction(agentID, action string, timestamp time.Time) {
	if _, seen := m.sequences[agentID]; !seen {
		m.agentOrder = append(m.agentOrder, agentID)
	}
	m.sequences[agentID] = append(m.sequences[agentID], actionEntry{action: action, timestamp: timestamp})
}

// MinePatterns recomputes all contiguous subsequences of length 2..maxLength
// over every agent's full history and returns them sorted descending by
// anomaly score. Patterns below the support threshold are still included when
// their frequency is exactly 1: the point is surfacing never-seen-before
// sequences, not frequent ones.
func (m *PatternMiner) MinePatterns() []schemas.BehavioralPattern {
	type patternKey struct {
		agentID  string
		sequence string
	}
	counts := make(map[patternKey]int)

	for _, agentID := range m.agentOrder {
		entries := m.sequences[agentID]
		actions := make([]string, len(entries))
		for i, e := range entries {
			actions[i] = e.action
		}
		maxLen := m.maxLength
		if len(actions) < maxLen {
			maxLen = len(actions)
		}
		for length := 2; length <= maxLen; length++ {
			for i := 0; i+length <= len(actions); i++ {
				key := patternKey{
					agentID:  agentID,
					sequence: strings.Join(actions[i:i+length], sequenceSeparator),
				}
				counts[key]++
			}
		}
	}

	patterns := make([]schemas.BehavioralPattern, 0, len(counts))
	for key, frequency := range counts {
		entries := m.sequences[key.agentID]
		support := 0.0
		if len(entries) > 0 {
			support = float64(frequency) / float64(len(entries))
		}
		if support < m.minSupport && frequency != 1 {
			continue
		}
		patterns = append(patterns, schemas.BehavioralPattern{
			PatternType:  "sequential",
			Sequence:     strings.Split(key.sequence, sequenceSeparator),
			Frequency:    frequency,
			AnomalyScore: 1.0 / float64(frequency+1),
			AgentID:      key.agentID,
			LastSeen:     entries[len(entries)-1].timestamp,
		})
	}

	// Deterministic order: score descending, then agent and sequence as
	// tie-breakers so identical histories always mine identically.
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].AnomalyScore != patterns[j].AnomalyScore {
			return patterns[i].AnomalyScore > patterns[j].AnomalyScore
		}
		if patterns[i].AgentID != patterns[j].AgentID {
			return patterns[i].AgentID < patterns[j].AgentID
		}
		return strings.Join(patterns[i].Sequence, sequenceSeparator) < strings.Join(patterns[j].Sequence, sequenceSeparator)
	})

	m.minedTotal = len(patterns)
	return patterns
}

// SequenceLen reports the recorded history length for one agent.
func (m *PatternMiner) SequenceLen(agentID string) int {
	return len(m.sequences[agentID])
}

// LastMinedCount reports how many patterns the previous mining pass
// produced, for reporting.
func (m *PatternMiner) LastMinedCount() int {
	return m.minedTotal
}
