package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Default models used when configuration does not override them.
const (
	DefaultChatModel      = "gpt-4o-mini"
	DefaultEmbeddingModel = "text-embedding-3-small"
)

// OpenAIProvider implements text generation and embedding against an
// OpenAI-compatible API. Failures surface immediately as ErrRateLimited
// or ErrUnavailable; the provider does not retry.
type OpenAIProvider struct {
	client         *openai.Client
	chatModel      string
	embeddingModel string
}

// OpenAIOption is a functional option for OpenAIProvider.
type OpenAIOption func(*openAIConfig)

type openAIConfig struct {
	baseURL        string
	chatModel      string
	embeddingModel string
	timeout        time.Duration
}

// WithBaseURL points the provider at an OpenAI-compatible endpoint.
func WithBaseURL(url string) OpenAIOption {
	return func(c *openAIConfig) { c.baseURL = url }
}

// WithChatModel sets the chat completion model.
func WithChatModel(model string) OpenAIOption {
	return func(c *openAIConfig) { c.chatModel = model }
}

// WithEmbeddingModel sets the embedding model.
func WithEmbeddingModel(model string) OpenAIOption {
	return func(c *openAIConfig) { c.embeddingModel = model }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) OpenAIOption {
	return func(c *openAIConfig) { c.timeout = d }
}

// NewOpenAIProvider creates an OpenAI provider.
func NewOpenAIProvider(apiKey string, opts ...OpenAIOption) *OpenAIProvider {
	cfg := openAIConfig{
		chatModel:      DefaultChatModel,
		embeddingModel: DefaultEmbeddingModel,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}
	if cfg.timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: cfg.timeout}
	}

	return &OpenAIProvider{
		client:         openai.NewClientWithConfig(clientCfg),
		chatModel:      cfg.chatModel,
		embeddingModel: cfg.embeddingModel,
	}
}

// ChatCompletion generates a buffered chat completion.
func (p *OpenAIProvider) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, p.buildChatRequest(req, false))
	if err != nil {
		return ChatCompletionResponse{}, p.wrapError("chat_completion", err)
	}
	if len(resp.Choices) == 0 {
		return ChatCompletionResponse{}, NewProviderError(
			"chat_completion", 0, "no choices in response", ErrUnavailable,
		)
	}

	usage := NewUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens, resp.Usage.TotalTokens)
	return NewChatCompletionResponse(
		resp.Choices[0].Message.Content,
		string(resp.Choices[0].FinishReason),
		usage,
	), nil
}

// ChatCompletionStream generates a streamed chat completion. The returned
// channel carries content deltas and is closed at end of stream. A
// mid-stream failure delivers one final fragment with Err set.
func (p *OpenAIProvider) ChatCompletionStream(ctx context.Context, req ChatCompletionRequest) (<-chan StreamFragment, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, p.buildChatRequest(req, true))
	if err != nil {
		return nil, p.wrapError("chat_completion_stream", err)
	}

	out := make(chan StreamFragment)
	go func() {
		defer close(out)
		defer stream.Close()
		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				select {
				case out <- StreamFragment{Err: p.wrapError("chat_completion_stream", err)}:
				case <-ctx.Done():
				}
				return
			}
			if len(chunk.Choices) == 0 {
				continue
			}
			delta := chunk.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case out <- StreamFragment{Content: delta}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Embed generates embeddings for the given texts in one API call.
func (p *OpenAIProvider) Embed(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error) {
	texts := req.Texts()
	if len(texts) == 0 {
		return NewEmbeddingResponse([][]float64{}, NewUsage(0, 0, 0)), nil
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.embeddingModel),
		Input: texts,
	})
	if err != nil {
		return EmbeddingResponse{}, p.wrapError("embedding", err)
	}
	if len(resp.Data) != len(texts) {
		return EmbeddingResponse{}, NewProviderError(
			"embedding", 0,
			fmt.Sprintf("got %d vectors for %d texts", len(resp.Data), len(texts)),
			ErrUnavailable,
		)
	}

	embeddings := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = make([]float64, len(data.Embedding))
		for j, v := range data.Embedding {
			embeddings[i][j] = float64(v)
		}
	}

	usage := NewUsage(resp.Usage.PromptTokens, 0, resp.Usage.TotalTokens)
	return NewEmbeddingResponse(embeddings, usage), nil
}

// EmbedOne embeds a single text.
func (p *OpenAIProvider) EmbedOne(ctx context.Context, text string) ([]float64, error) {
	resp, err := p.Embed(ctx, NewEmbeddingRequest([]string{text}))
	if err != nil {
		return nil, err
	}
	return resp.Embeddings()[0], nil
}

func (p *OpenAIProvider) buildChatRequest(req ChatCompletionRequest, stream bool) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages()))
	for i, m := range req.Messages() {
		messages[i] = openai.ChatCompletionMessage{
			Role:    m.Role(),
			Content: m.Content(),
		}
	}

	out := openai.ChatCompletionRequest{
		Model:    p.chatModel,
		Messages: messages,
		Stream:   stream,
	}
	if req.MaxTokens() > 0 {
		out.MaxTokens = req.MaxTokens()
	}
	if req.Temperature() > 0 {
		out.Temperature = float32(req.Temperature())
	}
	if req.JSONMode() {
		out.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	return out
}

// wrapError classifies an upstream failure as rate-limited or unavailable
// and wraps it with operation context.
func (p *OpenAIProvider) wrapError(operation string, err error) error {
	status := 0
	message := err.Error()

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatusCode
		message = apiErr.Message
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		status = reqErr.HTTPStatusCode
	}

	sentinel := ErrUnavailable
	if status == http.StatusTooManyRequests {
		sentinel = ErrRateLimited
	}
	return NewProviderError(operation, status, message, fmt.Errorf("%w: %w", sentinel, err))
}

// Ensure OpenAIProvider implements the interfaces.
var (
	_ TextGenerator = (*OpenAIProvider)(nil)
	_ Embedder      = (*OpenAIProvider)(nil)
)
