package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	DefaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAIProvider speaks the OpenAI chat-completions protocol, which Groq and
// most hosted gateways also accept under their own base URL.
type OpenAIProvider struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewOpenAIProvider(apiKey, baseURL, model string) *OpenAIProvider {
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		// Caller context still bounds each call via NewRequestWithContext.
		httpClient: &http.Client{Timeout: 3 * time.Minute},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends prompt as one user message and returns the first choice's content.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(p.apiKey) == "" {
		return "", upstream("openai", errors.New("missing api key"))
	}

	reqBody, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.4,
	})
	if err != nil {
		return "", upstream("openai", fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return "", upstream("openai", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", upstream("openai", fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", upstream("openai", fmt.Errorf("read response: %w", err))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", upstream("openai", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
		}
		return "", upstream("openai", fmt.Errorf("unmarshal response: %w", err))
	}
	if cr.Error != nil {
		return "", upstream("openai", fmt.Errorf("api error (status %d): %s", resp.StatusCode, cr.Error.Message))
	}
	if resp.StatusCode != http.StatusOK {
		return "", upstream("openai", fmt.Errorf("status %d", resp.StatusCode))
	}
	if len(cr.Choices) == 0 {
		return "", upstream("openai", fmt.Errorf("API returned empty choices array (raw: %s)", body))
	}
	return cr.Choices[0].Message.Content, nil
}
