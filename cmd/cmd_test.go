// File: cmd/cmd_test.go
package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/chimera/api/schemas"
	"github.com/xkilldash9x/chimera/internal/engine"
)

func TestCommandsAreRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["simulate"])
	assert.True(t, names["evolve"])
}

func TestRootCommandMetadata(t *testing.T) {
	assert.Equal(t, "chimera", rootCmd.Use)
	require.NotEmpty(t, Version)
	assert.Equal(t, Version, rootCmd.Version)
}

func TestAssessGeneration(t *testing.T) {
	tests := []struct {
		name       string
		result     engine.RunResult
		wantMissed int
		wantFP     int
	}{
		{
			name: "undetected sabotage is a miss",
			result: engine.RunResult{
				TasksCompleted: 10,
				TasksDegraded:  3,
				FinalVerdict:   schemas.Verdict{ResponseLevel: schemas.LevelNormal},
			},
			wantMissed: 3,
		},
		{
			name: "escalation without sabotage is a false positive",
			result: engine.RunResult{
				TasksCompleted: 10,
				FinalVerdict:   schemas.Verdict{ResponseLevel: schemas.LevelElevated},
			},
			wantFP: 1,
		},
		{
			name: "detected sabotage needs no adjustment",
			result: engine.RunResult{
				TasksCompleted: 10,
				TasksDegraded:  3,
				FinalVerdict:   schemas.Verdict{ResponseLevel: schemas.LevelCritical},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feedback := assessGeneration(tt.result)
			assert.Equal(t, tt.wantMissed, feedback.MissedDetections)
			assert.Equal(t, tt.wantFP, feedback.FalsePositives)
		})
	}
}
