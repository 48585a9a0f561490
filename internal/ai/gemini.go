package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	DefaultGeminiModel          = "gemini-2.0-flash"
	DefaultGeminiEmbeddingModel = "text-embedding-004"
	geminiEmbeddingDimensions   = 768
)

// geminiClient creates the SDK client on first use so that a missing key only
// surfaces when a call is attempted.
type geminiClient struct {
	apiKey string

	mu     sync.Mutex
	client *genai.Client
}

func (g *geminiClient) get(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if strings.TrimSpace(g.apiKey) == "" {
		return nil, errors.New("missing api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	g.client = client
	return client, nil
}

func (g *geminiClient) close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client != nil {
		g.client.Close()
		g.client = nil
	}
}

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client      *geminiClient
	modelName   string
	temperature float32
}

// NewGeminiProvider prepares a Gemini-backed provider.
// apiKey should be provided from environment variables.
func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiProvider{
		client:      &geminiClient{apiKey: apiKey},
		modelName:   modelName,
		temperature: 0.4,
	}
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.close()
}

// Generate sends prompt as a single user turn and returns the concatenated text parts.
func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := p.client.get(ctx)
	if err != nil {
		return "", upstream("gemini", err)
	}

	model := client.GenerativeModel(p.modelName)
	// Ask for JSON; fences can still appear and are handled by the normalizer.
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(p.temperature)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", upstream("gemini", fmt.Errorf("generate content: %w", err))
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", upstream("gemini", errors.New("API returned empty candidates"))
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}
	if strings.TrimSpace(responseText.String()) == "" {
		return "", upstream("gemini", errors.New("API returned empty text parts"))
	}
	return responseText.String(), nil
}

// GeminiEmbedder implements Embedder with the Gemini embedding endpoint.
type GeminiEmbedder struct {
	client    *geminiClient
	modelName string
}

func NewGeminiEmbedder(apiKey, modelName string) *GeminiEmbedder {
	if modelName == "" {
		modelName = DefaultGeminiEmbeddingModel
	}
	return &GeminiEmbedder{client: &geminiClient{apiKey: apiKey}, modelName: modelName}
}

func (e *GeminiEmbedder) Close() {
	e.client.close()
}

func (e *GeminiEmbedder) Dimensions() int { return geminiEmbeddingDimensions }

func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	client, err := e.client.get(ctx)
	if err != nil {
		return nil, upstream("gemini embed", err)
	}
	res, err := client.EmbeddingModel(e.modelName).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, upstream("gemini embed", fmt.Errorf("embed content: %w", err))
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, upstream("gemini embed", errors.New("API returned empty embedding"))
	}
	return res.Embedding.Values, nil
}
