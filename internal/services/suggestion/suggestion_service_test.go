package suggestion

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubGenerator struct {
	lastSystem string
	lastPrompt string
	text       string
	err        error
}

func (s *stubGenerator) GenerateText(_ context.Context, system, prompt string) (string, error) {
	s.lastSystem = system
	s.lastPrompt = prompt
	return s.text, s.err
}

func TestProjectSuggestions(t *testing.T) {
	gen := &stubGenerator{text: "1. Use feature branches"}
	svc := NewSuggestionService(gen)

	got := svc.ProjectSuggestions(context.Background(), "Nebula", "Space sim")
	assert.Equal(t, "1. Use feature branches", got)
	assert.Contains(t, gen.lastPrompt, `"Nebula"`)
	assert.Contains(t, gen.lastPrompt, `"Space sim"`)
	assert.Contains(t, gen.lastSystem, "project manager")
}

func TestProjectSuggestionsFallback(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream down")}
	svc := NewSuggestionService(gen)

	got := svc.ProjectSuggestions(context.Background(), "Nebula", "Space sim")
	assert.Equal(t, "AI suggestions temporarily unavailable.", got)
}

func TestProjectRisks(t *testing.T) {
	gen := &stubGenerator{text: "Risk: scope creep"}
	svc := NewSuggestionService(gen)

	got := svc.ProjectRisks(context.Background(), &RiskInput{
		Name:        "Nebula",
		Description: "Space sim",
		Deadline:    "2026-12-31",
		TeamSize:    4,
	})
	assert.Equal(t, "Risk: scope creep", got)
	assert.Contains(t, gen.lastPrompt, "Project: Nebula")
	assert.Contains(t, gen.lastPrompt, "Team Size: 4")
}

func TestProjectRisksFallback(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream down")}
	svc := NewSuggestionService(gen)

	got := svc.ProjectRisks(context.Background(), &RiskInput{Name: "Nebula"})
	assert.Equal(t, "Risk analysis temporarily unavailable.", got)
}
