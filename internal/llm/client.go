package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// chatTemperature is fixed for both query answering and notes generation.
const chatTemperature = 0.7

// Client talks to Ollama through its OpenAI-compatible API.
// Model names containing the cloud marker are routed to the cloud host,
// everything else to the local host.
type Client struct {
	LocalHost      string
	CloudHost      string
	APIKey         string
	EmbeddingModel string
	ExpectedSize   int // Expected embedding vector size for validation
}

// cloudMarker selects the cloud-hosted endpoint when present in a model name.
const cloudMarker = "cloud"

// NewClient creates a new LLM client.
// expectedSize is the expected embedding vector size (from QDRANT_VECTOR_SIZE
// config). All embeddings returned by EmbedTexts are validated against it.
func NewClient(localHost, cloudHost, apiKey, embeddingModel string, expectedSize int) *Client {
	return &Client{
		LocalHost:      localHost,
		CloudHost:      cloudHost,
		APIKey:         apiKey,
		EmbeddingModel: embeddingModel,
		ExpectedSize:   expectedSize,
	}
}

// HostFor returns the base host for a model name.
func (c *Client) HostFor(model string) string {
	if strings.Contains(model, cloudMarker) {
		return c.CloudHost
	}
	return c.LocalHost
}

// apiFor builds an OpenAI-compatible client for the given model's host.
func (c *Client) apiFor(model string) *openai.Client {
	cfg := openai.DefaultConfig(c.APIKey)
	cfg.BaseURL = strings.TrimSuffix(c.HostFor(model), "/") + "/v1"
	return openai.NewClientWithConfig(cfg)
}

// ChatJSON sends a single-message chat completion request, asking the model
// for a JSON object response. It returns the raw message content.
func (c *Client) ChatJSON(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.apiFor(model).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: chatTemperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}

// EmbedTexts generates embeddings for the given texts using the local
// embedding model. Returns one float32 vector per input text and validates
// that every vector matches the expected size.
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("empty input array")
	}

	resp, err := c.apiFor(c.EmbeddingModel).CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.EmbeddingModel),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	result := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		if len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(data.Embedding), c.ExpectedSize)
		}
		result[i] = data.Embedding
	}

	return result, nil
}
