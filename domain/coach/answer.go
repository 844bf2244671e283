// Package coach provides the AI coach answer types and the stream
// demultiplexer that separates prose from trailing metadata.
package coach

import "time"

// Reference is a retrieved workout summary cited by an answer.
type Reference struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// Metadata is the structured trailer the model appends after the prose
// portion of an answer.
type Metadata struct {
	SuggestedNextSteps []string `json:"suggested_next_steps,omitempty"`
	References         []int    `json:"references,omitempty"`
}

// Answer is a complete coach response.
type Answer struct {
	Text       string      `json:"text"`
	References []Reference `json:"references,omitempty"`
	Metadata   *Metadata   `json:"metadata,omitempty"`
}

// StreamEventType discriminates events on a streaming answer.
type StreamEventType string

// Stream event types.
const (
	StreamEventMessage  StreamEventType = "message"
	StreamEventMetadata StreamEventType = "metadata"
)

// StreamEvent is one unit of a streaming coach answer: either a prose
// fragment or the final metadata trailer.
type StreamEvent struct {
	Type     StreamEventType
	Message  string
	Metadata *Metadata
}
