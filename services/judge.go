package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"debatehub/config"
	"debatehub/models"
)

// Transcript is the structured debate text handed to a judging backend
type Transcript struct {
	DebateID       string
	Topic          string
	Description    string
	SideAName      string
	SideBName      string
	SideAArguments []string
	SideBArguments []string
}

// Verdict is the judging backend's structured answer: per-side overall and
// component scores on a 0-100 scale, a winner tag and free-text reasoning.
type Verdict struct {
	SideAScore           float64
	SideBScore           float64
	SideALogicScore      float64
	SideAEvidenceScore   float64
	SideAPersuasionScore float64
	SideBLogicScore      float64
	SideBEvidenceScore   float64
	SideBPersuasionScore float64
	Winner               models.Winner
	Reasoning            string
}

// Judge scores a debate transcript. Each provider hides its own wire shape
// behind this interface.
type Judge interface {
	EvaluateTranscript(ctx context.Context, transcript Transcript) (*Verdict, error)
}

// NewJudge builds the judge selected in the configuration
func NewJudge(ctx context.Context, cfg *config.Config) (Judge, error) {
	switch cfg.Judge.Provider {
	case "gemini":
		return NewGeminiJudge(ctx, cfg.Gemini.ApiKey, cfg.Judge.Model)
	case "chat":
		return NewChatJudge(cfg.Openai.ApiKey, cfg.Openai.URL, cfg.Judge.Model), nil
	case "argquality":
		return NewArgQualityJudge(cfg.ArgQuality.URL), nil
	default:
		return nil, fmt.Errorf("unknown judge provider: %s", cfg.Judge.Provider)
	}
}

// buildTranscriptText renders the transcript the way the judge prompt
// expects: topic first, then each side's arguments enumerated in order.
func buildTranscriptText(t Transcript) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "DEBATE TOPIC: %s\n", t.Topic)
	if t.Description != "" {
		fmt.Fprintf(&sb, "DESCRIPTION: %s\n", t.Description)
	}
	fmt.Fprintf(&sb, "\nSIDE A (%s):\n", t.SideAName)
	for i, arg := range t.SideAArguments {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, arg)
	}
	fmt.Fprintf(&sb, "\nSIDE B (%s):\n", t.SideBName)
	for i, arg := range t.SideBArguments {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, arg)
	}
	return sb.String()
}

// buildJudgePrompt asks for the strict JSON schema shared by the LLM-backed
// providers.
func buildJudgePrompt(t Transcript) string {
	return fmt.Sprintf(`You are an expert debate judge. Analyze the debate below.
Evaluate logic, evidence and persuasiveness of each side. Respond with JSON only:
{
  "side_a_score": number,
  "side_b_score": number,
  "side_a_logic_score": number,
  "side_a_evidence_score": number,
  "side_a_persuasion_score": number,
  "side_b_logic_score": number,
  "side_b_evidence_score": number,
  "side_b_persuasion_score": number,
  "winner": "a"|"b"|"tie",
  "reasoning": string
}
All scores are on a 0-100 scale.

%s
Provide ONLY the JSON output without any additional text.`, buildTranscriptText(t))
}

// verdictPayload matches the JSON schema the LLM judges are instructed to
// return. Keys mirror the stored result columns. Every score is a pointer so
// an absent field is distinguishable from a genuine zero.
type verdictPayload struct {
	SideAScore           *float64 `json:"side_a_score"`
	SideBScore           *float64 `json:"side_b_score"`
	SideALogicScore      *float64 `json:"side_a_logic_score"`
	SideAEvidenceScore   *float64 `json:"side_a_evidence_score"`
	SideAPersuasionScore *float64 `json:"side_a_persuasion_score"`
	SideBLogicScore      *float64 `json:"side_b_logic_score"`
	SideBEvidenceScore   *float64 `json:"side_b_evidence_score"`
	SideBPersuasionScore *float64 `json:"side_b_persuasion_score"`
	Winner               string   `json:"winner"`
	Reasoning            string   `json:"reasoning"`
}

// cleanModelOutput strips markdown fences models like to wrap JSON in
func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// parseVerdict decodes and validates a judge response. Any missing score
// field or an unknown winner tag is treated as a malformed response.
func parseVerdict(text string) (*Verdict, error) {
	var payload verdictPayload
	if err := json.Unmarshal([]byte(cleanModelOutput(text)), &payload); err != nil {
		return nil, fmt.Errorf("judge response is not valid JSON: %w", err)
	}
	for _, score := range []*float64{
		payload.SideAScore, payload.SideBScore,
		payload.SideALogicScore, payload.SideAEvidenceScore, payload.SideAPersuasionScore,
		payload.SideBLogicScore, payload.SideBEvidenceScore, payload.SideBPersuasionScore,
	} {
		if score == nil {
			return nil, fmt.Errorf("judge response is missing score fields")
		}
	}
	winner := models.Winner(payload.Winner)
	if !winner.Valid() {
		return nil, fmt.Errorf("judge response has invalid winner: %q", payload.Winner)
	}

	return &Verdict{
		SideAScore:           clampScore(*payload.SideAScore),
		SideBScore:           clampScore(*payload.SideBScore),
		SideALogicScore:      clampScore(*payload.SideALogicScore),
		SideAEvidenceScore:   clampScore(*payload.SideAEvidenceScore),
		SideAPersuasionScore: clampScore(*payload.SideAPersuasionScore),
		SideBLogicScore:      clampScore(*payload.SideBLogicScore),
		SideBEvidenceScore:   clampScore(*payload.SideBEvidenceScore),
		SideBPersuasionScore: clampScore(*payload.SideBPersuasionScore),
		Winner:               winner,
		Reasoning:            payload.Reasoning,
	}, nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
