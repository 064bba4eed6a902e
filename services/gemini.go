package services

import (
	"context"
	"fmt"
	"strings"

	"debatehub/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiJudge scores transcripts with a Gemini model asked for strict JSON
type GeminiJudge struct {
	client *genai.Client
	model  string
}

func NewGeminiJudge(ctx context.Context, apiKey, model string) (*GeminiJudge, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiJudge{client: client, model: model}, nil
}

func (g *GeminiJudge) EvaluateTranscript(ctx context.Context, transcript Transcript) (*Verdict, error) {
	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(buildJudgePrompt(transcript)))
	if err != nil {
		return nil, models.EvaluationServiceError(fmt.Errorf("gemini request failed: %w", err))
	}

	text := extractResponseText(resp)
	if text == "" {
		return nil, models.EvaluationServiceError(fmt.Errorf("gemini returned an empty response"))
	}

	verdict, err := parseVerdict(text)
	if err != nil {
		return nil, models.EvaluationServiceError(err)
	}
	return verdict, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
