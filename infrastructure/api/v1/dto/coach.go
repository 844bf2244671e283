// Package dto defines the request and response shapes for the v1 API.
package dto

import "time"

// AskRequest is the body of POST /api/v1/coach/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// ReferenceResponse is one cited workout summary in a coach answer.
type ReferenceResponse struct {
	ID   string    `json:"id"`
	Text string    `json:"text"`
	Date time.Time `json:"date"`
}

// AskResponse is a buffered coach answer.
type AskResponse struct {
	Answer             string              `json:"answer"`
	SuggestedNextSteps []string            `json:"suggestedNextSteps,omitempty"`
	References         []ReferenceResponse `json:"references,omitempty"`
}

// StreamMessage is one server-sent event in the streaming coach answer.
// Data is a prose fragment for type "message" and the metadata object for
// type "metadata".
type StreamMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
