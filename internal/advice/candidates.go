package advice

import "strings"

type Mode string

const (
	ModeJSON Mode = "json"
	ModeText Mode = "text"
)

const (
	DefaultAnalysisPrimaryModel   = "meta-llama/llama-3.1-8b-instruct:free"
	DefaultAnalysisSecondaryModel = "mistralai/mistral-7b-instruct:free"

	planTemperature = 0.8
	planMaxTokens   = 1100
)

// DefaultAuxiliaryModels are free-tier models tried after the configured plan models.
var DefaultAuxiliaryModels = []string{
	"meta-llama/llama-3.2-3b-instruct:free",
	"mistralai/mistral-7b-instruct:free",
	"qwen/qwen2.5-7b-instruct:free",
}

// Candidate is one provider attempt in a fallback chain.
type Candidate struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Mode        Mode
}

// Models names the provider models used by each chain.
type Models struct {
	AnalysisPrimary   string
	AnalysisSecondary string
	PlanPrimary       string
	PlanFallback      string
	PlanAuxiliary     []string
}

func (m Models) withDefaults() Models {
	if strings.TrimSpace(m.AnalysisPrimary) == "" {
		m.AnalysisPrimary = DefaultAnalysisPrimaryModel
	}
	if strings.TrimSpace(m.AnalysisSecondary) == "" {
		m.AnalysisSecondary = DefaultAnalysisSecondaryModel
	}
	if m.PlanAuxiliary == nil {
		m.PlanAuxiliary = DefaultAuxiliaryModels
	}
	return m
}

// AnalysisCandidates escalates temperature on the primary model as the last
// resort to break out of repeated empty output.
func AnalysisCandidates(m Models) []Candidate {
	m = m.withDefaults()
	return []Candidate{
		{Model: strings.TrimSpace(m.AnalysisPrimary), Temperature: 0.6, MaxTokens: 500, Mode: ModeJSON},
		{Model: strings.TrimSpace(m.AnalysisSecondary), Temperature: 0.7, MaxTokens: 600, Mode: ModeJSON},
		{Model: strings.TrimSpace(m.AnalysisPrimary), Temperature: 0.9, MaxTokens: 650, Mode: ModeJSON},
	}
}

// PlanCandidates lists the configured primary and fallback models followed by
// the auxiliary models, blanks removed and duplicates dropped in first-seen order.
func PlanCandidates(m Models) []Candidate {
	m = m.withDefaults()
	names := append([]string{m.PlanPrimary, m.PlanFallback}, m.PlanAuxiliary...)
	seen := make(map[string]struct{}, len(names))
	candidates := make([]Candidate, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		candidates = append(candidates, Candidate{
			Model:       name,
			Temperature: planTemperature,
			MaxTokens:   planMaxTokens,
			Mode:        ModeText,
		})
	}
	return candidates
}
