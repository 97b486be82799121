package advice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisCandidatesEscalateTemperature(t *testing.T) {
	candidates := AnalysisCandidates(Models{})
	require.Len(t, candidates, 3)

	assert.Equal(t, Candidate{Model: DefaultAnalysisPrimaryModel, Temperature: 0.6, MaxTokens: 500, Mode: ModeJSON}, candidates[0])
	assert.Equal(t, Candidate{Model: DefaultAnalysisSecondaryModel, Temperature: 0.7, MaxTokens: 600, Mode: ModeJSON}, candidates[1])
	assert.Equal(t, Candidate{Model: DefaultAnalysisPrimaryModel, Temperature: 0.9, MaxTokens: 650, Mode: ModeJSON}, candidates[2])
}

func TestAnalysisCandidatesUseConfiguredModels(t *testing.T) {
	candidates := AnalysisCandidates(Models{AnalysisPrimary: " p ", AnalysisSecondary: "s"})
	assert.Equal(t, "p", candidates[0].Model)
	assert.Equal(t, "s", candidates[1].Model)
	assert.Equal(t, "p", candidates[2].Model)
}

func TestPlanCandidatesDedupAndDropBlanks(t *testing.T) {
	candidates := PlanCandidates(Models{
		PlanPrimary:   " mistralai/mistral-7b-instruct:free ",
		PlanFallback:  "",
		PlanAuxiliary: []string{"a", "mistralai/mistral-7b-instruct:free", " ", "b", "a"},
	})

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Model)
		assert.Equal(t, ModeText, c.Mode)
		assert.Equal(t, 0.8, c.Temperature)
		assert.Equal(t, 1100, c.MaxTokens)
	}
	assert.Equal(t, []string{"mistralai/mistral-7b-instruct:free", "a", "b"}, names)
}

func TestPlanCandidatesDefaultAuxiliaryModels(t *testing.T) {
	candidates := PlanCandidates(Models{PlanPrimary: "primary", PlanFallback: "fallback"})
	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.Model)
	}
	assert.Equal(t, []string{
		"primary",
		"fallback",
		"meta-llama/llama-3.2-3b-instruct:free",
		"mistralai/mistral-7b-instruct:free",
		"qwen/qwen2.5-7b-instruct:free",
	}, names)
}
