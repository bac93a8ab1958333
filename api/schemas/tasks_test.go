// File: api/schemas/tasks_test.go
package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadataMapFlattensTypedFields(t *testing.T) {
	action := AgentAction{
		Type:     ActionWorkOnTask,
		Approach: "incremental",
		Quality:  "degraded",
		Extra:    map[string]string{"response_level": "NORMAL"},
	}

	md := action.MetadataMap()
	assert.Equal(t, "incremental", md["approach"])
	assert.Equal(t, "degraded", md["quality"])
	assert.Equal(t, "NORMAL", md["response_level"])
	assert.NotContains(t, md, "hidden_issues")
}

func TestMetadataMapKeepsEveryHiddenIssue(t *testing.T) {
	action := AgentAction{
		Type:         ActionWorkOnTask,
		HiddenIssues: []string{"off-by-one in pagination", "race on cache refresh"},
	}

	md := action.MetadataMap()
	assert.Equal(t, "off-by-one in pagination; race on cache refresh", md["hidden_issues"])
}
