package api

import "time"

// ErrorResponse is the body of non JSON:API errors such as 401.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// LiveRequest is a client message on the live search socket. Fields mirror
// the list endpoint's query parameters.
type LiveRequest struct {
	Search string `json:"search"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Past   string `json:"past"`
}

// LiveMessage is a server message on the live search socket. Type is
// "init", "results" or "error".
type LiveMessage struct {
	Type     string `json:"type"`
	Document any    `json:"document,omitempty"`
	Message  string `json:"message,omitempty"`
}
