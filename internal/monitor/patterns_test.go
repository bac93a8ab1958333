// File: internal/monitor/patterns_test.go
package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minerWithActions(t *testing.T, actions ...string) *PatternMiner {
	t.Helper()
	m := NewPatternMiner(0.1, 5)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i, a := range actions {
		m.AddAction("agent-1", a, base.Add(time.Duration(i)*time.Minute))
	}
	return m
}

func TestMinePatternsIsDeterministic(t *testing.T) {
	actions := []string{"work", "request", "work", "request", "work"}
	first := minerWithActions(t, actions...).MinePatterns()
	second := minerWithActions(t, actions...).MinePatterns()
	assert.Equal(t, first, second)
}

func TestAnomalyScoreShrinksWithFrequency(t *testing.T) {
	m := NewPatternMiner(0.1, 5)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	find := func() float64 {
		for _, p := range m.MinePatterns() {
			if len(p.Sequence) == 2 && p.Sequence[0] == "work" && p.Sequence[1] == "request" {
				return p.AnomalyScore
			}
		}
		t.Fatalf("pattern not mined")
		return 0
	}

	m.AddAction("agent-1", "work", base)
	m.AddAction("agent-1", "request", base.Add(time.Minute))
	firstScore := find()
	assert.InDelta(t, 0.5, firstScore, 1e-9, "frequency 1 scores 1/(1+1)")

	m.AddAction("agent-1", "work", base.Add(2*time.Minute))
	m.AddAction("agent-1", "request", base.Add(3*time.Minute))
	secondScore := find()
	assert.Less(t, secondScore, firstScore, "a recurring pattern must score lower on the next pass")
}

func TestSingletonPatternsAlwaysIncluded(t *testing.T) {
	// High support floor: nothing in a long unique history qualifies on
	// support alone, yet every frequency-1 pattern must still surface.
	m := NewPatternMiner(0.9, 3)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	actions := []string{"a", "b", "c", "d", "e", "f"}
	for i, a := range actions {
		m.AddAction("agent-1", a, base.Add(time.Duration(i)*time.Minute))
	}

	patterns := m.MinePatterns()
	require.NotEmpty(t, patterns)
	for _, p := range patterns {
		assert.Equal(t, 1, p.Frequency)
		assert.InDelta(t, 0.5, p.AnomalyScore, 1e-9)
	}
}

func TestPatternsAreScopedPerAgent(t *testing.T) {
	m := NewPatternMiner(0.1, 5)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	m.AddAction("agent-1", "work", base)
	m.AddAction("agent-1", "request", base.Add(time.Minute))
	m.AddAction("agent-2", "work", base)
	m.AddAction("agent-2", "request", base.Add(time.Minute))

	patterns := m.MinePatterns()
	require.Len(t, patterns, 2)
	for _, p := range patterns {
		assert.Equal(t, 1, p.Frequency, "identical sequences by different agents must not pool")
	}
}

func TestShortHistoryMinesNothing(t *testing.T) {
	m := NewPatternMiner(0.1, 5)
	m.AddAction("agent-1", "work", time.Now())
	assert.Empty(t, m.MinePatterns())
	assert.Equal(t, 1, m.SequenceLen("agent-1"))
}
