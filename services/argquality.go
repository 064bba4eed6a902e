package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"debatehub/models"
)

// ArgQualityJudge calls a bespoke argument-quality scoring endpoint that
// rates the combined transcript on 1-5 scales. The overall score is used as
// a proxy for side A's strength; side B gets the complement. Scores are
// rescaled linearly to 0-100.
type ArgQualityJudge struct {
	URL string
}

func NewArgQualityJudge(url string) *ArgQualityJudge {
	return &ArgQualityJudge{URL: url}
}

type argQualityResponse struct {
	OverallScore    *float64 `json:"overall_score"`
	LogicalScore    float64  `json:"logical_score"`
	RhetoricalScore float64  `json:"rhetorical_score"`
}

func (a *ArgQualityJudge) EvaluateTranscript(ctx context.Context, transcript Transcript) (*Verdict, error) {
	payload, err := json.Marshal(map[string]string{
		"argument_text": buildTranscriptText(transcript),
	})
	if err != nil {
		return nil, models.EvaluationServiceError(fmt.Errorf("failed to marshal request data: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.URL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, models.EvaluationServiceError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, models.EvaluationServiceError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, models.EvaluationServiceError(fmt.Errorf("failed to read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, models.EvaluationServiceError(fmt.Errorf("failed to evaluate debate: %s", string(body)))
	}

	var scores argQualityResponse
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, models.EvaluationServiceError(fmt.Errorf("failed to parse response: %w", err))
	}
	if scores.OverallScore == nil {
		return nil, models.EvaluationServiceError(fmt.Errorf("scoring response is missing overall_score"))
	}

	overall := rescaleToHundred(*scores.OverallScore)
	logic := rescaleToHundred(scores.LogicalScore)
	persuasion := rescaleToHundred(scores.RhetoricalScore)

	winner := models.WinnerTie
	if overall > 50.1 {
		winner = models.WinnerA
	} else if overall < 49.9 {
		winner = models.WinnerB
	}

	return &Verdict{
		SideAScore:           overall,
		SideBScore:           clampScore(100 - overall),
		SideALogicScore:      logic,
		SideAEvidenceScore:   logic, // the scorer has no evidence axis; logic stands in
		SideAPersuasionScore: persuasion,
		SideBLogicScore:      clampScore(100 - logic),
		SideBEvidenceScore:   clampScore(100 - logic),
		SideBPersuasionScore: clampScore(100 - persuasion),
		Winner:               winner,
		Reasoning: fmt.Sprintf(
			"Verdict based on an argument-quality model using a single-transcript proxy. The overall quality score was %.2f (out of 5.0).",
			*scores.OverallScore),
	}, nil
}

// rescaleToHundred maps the scorer's 1-5 scale to 0-100
func rescaleToHundred(score float64) float64 {
	return clampScore((score - 1) / 4 * 100)
}
