package advice

import (
	"encoding/json"
	"strconv"
	"strings"

	"moodjournal/backend/internal/openrouter"
)

const MaxSuggestions = 5

// Analysis is the structured content a provider returns in JSON mode.
type Analysis struct {
	Summary     string
	Suggestions []string
}

// AssistantContent returns choices[0].message.content from a raw completion body.
// Any deviation from the expected envelope yields "".
func AssistantContent(body []byte) string {
	if len(strings.TrimSpace(string(body))) == 0 {
		return ""
	}
	var envelope openrouter.ChatResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if len(envelope.Choices) == 0 {
		return ""
	}
	return envelope.Choices[0].Message.Content
}

// ExtractJSONObject returns the substring between the first '{' and the last '}',
// or "{}" when the text holds no such pair.
func ExtractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return "{}"
	}
	return content[start : end+1]
}

// ParseAnalysis reads summary and suggestions out of assistant text that may be
// fenced or surrounded by commentary. Malformed input yields an empty Analysis.
func ParseAnalysis(content string) Analysis {
	var raw map[string]any
	if err := json.Unmarshal([]byte(ExtractJSONObject(content)), &raw); err != nil || raw == nil {
		return Analysis{}
	}

	summary, _ := raw["summary"].(string)
	result := Analysis{Summary: summary}

	items, _ := raw["suggestions"].([]any)
	for _, item := range items {
		text := strings.TrimSpace(scalarText(item))
		if text != "" {
			result.Suggestions = append(result.Suggestions, text)
		}
	}
	return result
}

func scalarText(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Valid is the acceptance gate for JSON-mode responses.
func (a Analysis) Valid() bool {
	if strings.TrimSpace(a.Summary) == "" {
		return false
	}
	for _, s := range a.Suggestions {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}

// Clean trims the summary and returns suggestions trimmed, blank-free,
// de-duplicated by exact match and capped at MaxSuggestions, in original order.
func (a Analysis) Clean() Analysis {
	seen := make(map[string]struct{}, len(a.Suggestions))
	cleaned := make([]string, 0, MaxSuggestions)
	for _, s := range a.Suggestions {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		cleaned = append(cleaned, trimmed)
		if len(cleaned) == MaxSuggestions {
			break
		}
	}
	return Analysis{Summary: strings.TrimSpace(a.Summary), Suggestions: cleaned}
}

// AcceptAnalysis is the JSON-mode acceptance predicate.
func AcceptAnalysis(content string) bool {
	return ParseAnalysis(content).Valid()
}

// AcceptText is the text-mode acceptance predicate.
func AcceptText(content string) bool {
	return strings.TrimSpace(content) != ""
}
