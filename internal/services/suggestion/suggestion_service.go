package suggestion

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	suggestionsFallback = "AI suggestions temporarily unavailable."
	risksFallback       = "Risk analysis temporarily unavailable."

	suggestionsSystem = "You are an expert project manager and technical consultant for game development projects."
	risksSystem       = "You are a senior project manager specializing in game development risk assessment."
)

// TextGenerator is the LLM surface the service needs. *gemini.Client
// satisfies it.
type TextGenerator interface {
	GenerateText(ctx context.Context, system, prompt string) (string, error)
}

// RiskInput describes the project attributes fed into risk analysis
type RiskInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	TeamSize    int    `json:"teamSize"`
}

// SuggestionService generates advisory text for projects. Generation
// failures degrade to a fixed fallback string rather than an error, so the
// endpoints stay usable when the upstream model is down.
type SuggestionService struct {
	generator TextGenerator
}

func NewSuggestionService(generator TextGenerator) *SuggestionService {
	return &SuggestionService{generator: generator}
}

// ProjectSuggestions returns 3-5 actionable suggestions for the project
func (s *SuggestionService) ProjectSuggestions(ctx context.Context, name, description string) string {
	prompt := fmt.Sprintf(
		`Based on the project name %q and description %q, provide 3-5 actionable suggestions for project management, team collaboration, or technical implementation. Keep suggestions practical and specific.`,
		name, description,
	)

	text, err := s.generator.GenerateText(ctx, suggestionsSystem, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "suggestion generation failed", "error", err)
		return suggestionsFallback
	}

	return text
}

// ProjectRisks returns a risk assessment with mitigation strategies
func (s *SuggestionService) ProjectRisks(ctx context.Context, input *RiskInput) string {
	prompt := fmt.Sprintf(`Analyze potential risks for this game development project:

Project: %s
Description: %s
Deadline: %s
Team Size: %d

Identify 3-5 key risks and provide mitigation strategies.`,
		input.Name, input.Description, input.Deadline, input.TeamSize,
	)

	text, err := s.generator.GenerateText(ctx, risksSystem, prompt)
	if err != nil {
		slog.ErrorContext(ctx, "risk analysis failed", "error", err)
		return risksFallback
	}

	return text
}
