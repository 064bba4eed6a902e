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

const (
	defaultChatURL   = "https://api.openai.com/v1/chat/completions"
	defaultChatModel = "gpt-4o-mini"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// ChatJudge calls an OpenAI-compatible chat-completions endpoint and parses
// the JSON verdict out of the assistant message.
type ChatJudge struct {
	APIKey string
	URL    string
	Model  string
}

func NewChatJudge(apiKey, url, model string) *ChatJudge {
	if url == "" {
		url = defaultChatURL
	}
	if model == "" {
		model = defaultChatModel
	}
	return &ChatJudge{APIKey: apiKey, URL: url, Model: model}
}

func (c *ChatJudge) EvaluateTranscript(ctx context.Context, transcript Transcript) (*Verdict, error) {
	requestData := chatRequest{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert debate judge. Always respond with valid JSON only."},
			{Role: "user", Content: buildJudgePrompt(transcript)},
		},
	}

	payload, err := json.Marshal(requestData)
	if err != nil {
		return nil, models.EvaluationServiceError(fmt.Errorf("failed to marshal request data: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.URL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, models.EvaluationServiceError(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))

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
		return nil, models.EvaluationServiceError(fmt.Errorf("AI evaluation failed: %s", string(body)))
	}

	var responseData struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &responseData); err != nil {
		return nil, models.EvaluationServiceError(fmt.Errorf("failed to parse response: %w", err))
	}
	if len(responseData.Choices) == 0 {
		return nil, models.EvaluationServiceError(fmt.Errorf("unexpected response format"))
	}

	verdict, err := parseVerdict(responseData.Choices[0].Message.Content)
	if err != nil {
		return nil, models.EvaluationServiceError(err)
	}
	return verdict, nil
}
