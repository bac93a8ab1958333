// File: internal/llmutil/parser.go
package llmutil

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xkilldash9x/chimera/api/schemas"
)

var (
	// floatRegex finds the first decimal token in a response. Intent-scoring
	// prompts ask for a single number, but models pad with prose anyway.
	floatRegex = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

	// Regex definitions use \x60 (hex representation) for backticks because Go raw strings cannot contain backticks.
	jsonObjectRegex = regexp.MustCompile("(?s)\x60\x60\x60(?:json)?\\s*({.*})\\s*\x60\x60\x60")
)

// ParseScore extracts a float score from an LLM response and clamps it to
// [0,1]. It returns an error when no numeric token is present, so callers can
// apply their fail-soft fallback.
func ParseScore(response string) (float64, error) {
	token := floatRegex.FindString(strings.TrimSpace(response))
	if token == "" {
		return 0, fmt.Errorf("no numeric score in response (truncated): %s", truncateString(response, 120))
	}
	score, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse score token %q: %w", token, err)
	}
	return clamp01(score), nil
}

// ParseReasonedResponse splits a completion following the REASONING:/ACTION:
// protocol. When the markers are missing, the whole response becomes the
// action and the reasoning notes the parse failure, mirroring the fail-soft
// policy everywhere else in the pipeline.
func ParseReasonedResponse(response string) schemas.ReasonedResponse {
	parts := strings.SplitN(response, "ACTION:", 2)
	if len(parts) == 2 {
		reasoning := strings.TrimSpace(strings.Replace(parts[0], "REASONING:", "", 1))
		return schemas.ReasonedResponse{
			Reasoning:    reasoning,
			Action:       strings.TrimSpace(parts[1]),
			FullResponse: response,
		}
	}
	return schemas.ReasonedResponse{
		Reasoning:    fmt.Sprintf("unable to parse reasoning: response length %d, no ACTION marker", len(response)),
		Action:       strings.TrimSpace(response),
		FullResponse: response,
	}
}

// ParseJSONResponse parses an LLM response into a target Go type, tolerating
// the JSON being wrapped in markdown code fences or conversational text.
func ParseJSONResponse[T any](response string) (*T, error) {
	response = strings.TrimSpace(response)
	jsonStringToParse := response

	if strings.HasPrefix(response, "```") {
		if matches := jsonObjectRegex.FindStringSubmatch(response); len(matches) > 1 {
			jsonStringToParse = matches[1]
		}
	} else if !strings.HasPrefix(response, "{") {
		fb := strings.Index(response, "{")
		lb := strings.LastIndex(response, "}")
		if fb != -1 && lb > fb {
			jsonStringToParse = response[fb : lb+1]
		}
	}

	var result T
	if err := json.Unmarshal([]byte(jsonStringToParse), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal LLM JSON response: %w. Extracted JSON (truncated): %s", err, truncateString(jsonStringToParse, 500))
	}
	return &result, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// truncateString truncates a string to a maximum length for error messages.
func truncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
