// Package provider implements language-model and embedding providers.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors surfaced to callers. Handlers map these to HTTP status
// codes.
var (
	// ErrRateLimited indicates the upstream model API rejected the call
	// with HTTP 429.
	ErrRateLimited = errors.New("model provider rate limited")

	// ErrUnavailable indicates the upstream model API failed for any
	// non-rate-limit reason.
	ErrUnavailable = errors.New("model provider unavailable")

	// ErrUnsupportedOperation indicates the provider does not implement
	// the requested capability.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// Message roles.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one turn of a chat conversation.
type Message struct {
	role    string
	content string
}

// SystemMessage creates a system-role message.
func SystemMessage(content string) Message {
	return Message{role: RoleSystem, content: content}
}

// UserMessage creates a user-role message.
func UserMessage(content string) Message {
	return Message{role: RoleUser, content: content}
}

// Role returns the message role.
func (m Message) Role() string { return m.role }

// Content returns the message content.
func (m Message) Content() string { return m.content }

// ChatCompletionRequest is a request for a chat completion.
type ChatCompletionRequest struct {
	messages    []Message
	maxTokens   int
	temperature float64
	jsonMode    bool
}

// ChatCompletionOption configures a ChatCompletionRequest.
type ChatCompletionOption func(*ChatCompletionRequest)

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) ChatCompletionOption {
	return func(r *ChatCompletionRequest) { r.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ChatCompletionOption {
	return func(r *ChatCompletionRequest) { r.temperature = t }
}

// WithJSONMode requests a JSON object response from the model.
func WithJSONMode() ChatCompletionOption {
	return func(r *ChatCompletionRequest) { r.jsonMode = true }
}

// NewChatCompletionRequest creates a chat completion request.
func NewChatCompletionRequest(messages []Message, opts ...ChatCompletionOption) ChatCompletionRequest {
	ms := make([]Message, len(messages))
	copy(ms, messages)
	r := ChatCompletionRequest{messages: ms}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Messages returns the conversation messages (copy).
func (r ChatCompletionRequest) Messages() []Message {
	result := make([]Message, len(r.messages))
	copy(result, r.messages)
	return result
}

// MaxTokens returns the completion length cap, 0 for provider default.
func (r ChatCompletionRequest) MaxTokens() int { return r.maxTokens }

// Temperature returns the sampling temperature, 0 for provider default.
func (r ChatCompletionRequest) Temperature() float64 { return r.temperature }

// JSONMode reports whether a JSON object response was requested.
func (r ChatCompletionRequest) JSONMode() bool { return r.jsonMode }

// Usage records token consumption for one API call.
type Usage struct {
	promptTokens     int
	completionTokens int
	totalTokens      int
}

// NewUsage creates a usage record.
func NewUsage(prompt, completion, total int) Usage {
	return Usage{promptTokens: prompt, completionTokens: completion, totalTokens: total}
}

// PromptTokens returns the prompt token count.
func (u Usage) PromptTokens() int { return u.promptTokens }

// CompletionTokens returns the completion token count.
func (u Usage) CompletionTokens() int { return u.completionTokens }

// TotalTokens returns the total token count.
func (u Usage) TotalTokens() int { return u.totalTokens }

// ChatCompletionResponse is the result of a chat completion.
type ChatCompletionResponse struct {
	content      string
	finishReason string
	usage        Usage
}

// NewChatCompletionResponse creates a chat completion response.
func NewChatCompletionResponse(content, finishReason string, usage Usage) ChatCompletionResponse {
	return ChatCompletionResponse{content: content, finishReason: finishReason, usage: usage}
}

// Content returns the completion text.
func (r ChatCompletionResponse) Content() string { return r.content }

// FinishReason returns why the model stopped.
func (r ChatCompletionResponse) FinishReason() string { return r.finishReason }

// Usage returns the token usage.
func (r ChatCompletionResponse) Usage() Usage { return r.usage }

// EmbeddingRequest is a request to embed one or more texts.
type EmbeddingRequest struct {
	texts []string
}

// NewEmbeddingRequest creates an embedding request.
func NewEmbeddingRequest(texts []string) EmbeddingRequest {
	ts := make([]string, len(texts))
	copy(ts, texts)
	return EmbeddingRequest{texts: ts}
}

// Texts returns the texts to embed (copy).
func (r EmbeddingRequest) Texts() []string {
	result := make([]string, len(r.texts))
	copy(result, r.texts)
	return result
}

// EmbeddingResponse is the result of an embedding call. Vectors are
// positionally aligned with the request texts.
type EmbeddingResponse struct {
	embeddings [][]float64
	usage      Usage
}

// NewEmbeddingResponse creates an embedding response.
func NewEmbeddingResponse(embeddings [][]float64, usage Usage) EmbeddingResponse {
	return EmbeddingResponse{embeddings: embeddings, usage: usage}
}

// Embeddings returns the embedding vectors.
func (r EmbeddingResponse) Embeddings() [][]float64 { return r.embeddings }

// Usage returns the token usage.
func (r EmbeddingResponse) Usage() Usage { return r.usage }

// TextGenerator generates chat completions, buffered or streamed. Stream
// sends fragments on the returned channel and closes it at end of stream;
// a mid-stream error closes the channel after sending a fragment with Err
// set.
type TextGenerator interface {
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error)
	ChatCompletionStream(ctx context.Context, req ChatCompletionRequest) (<-chan StreamFragment, error)
}

// StreamFragment is one delta of a streamed completion.
type StreamFragment struct {
	Content string
	Err     error
}

// Embedder generates embedding vectors.
type Embedder interface {
	Embed(ctx context.Context, req EmbeddingRequest) (EmbeddingResponse, error)
	EmbedOne(ctx context.Context, text string) ([]float64, error)
}

// ProviderError wraps an upstream API failure with operation context.
type ProviderError struct {
	operation  string
	statusCode int
	message    string
	cause      error
}

// NewProviderError creates a provider error.
func NewProviderError(operation string, statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{operation: operation, statusCode: statusCode, message: message, cause: cause}
}

// Operation returns the failed operation name.
func (e *ProviderError) Operation() string { return e.operation }

// StatusCode returns the upstream HTTP status, 0 when unknown.
func (e *ProviderError) StatusCode() int { return e.statusCode }

// Error implements error.
func (e *ProviderError) Error() string {
	if e.statusCode > 0 {
		return fmt.Sprintf("provider %s failed (status %d): %s", e.operation, e.statusCode, e.message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.operation, e.message)
}

// Unwrap returns the chain of underlying errors: the sentinel
// classification first, then the raw cause.
func (e *ProviderError) Unwrap() error { return e.cause }
