package models

import "time"

// ErrorLog is an in-memory record of a server-side failure.
type ErrorLog struct {
	ID        int       `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`   // ERROR, WARN
	Source    string    `json:"source"`  // component that failed
	Message   string    `json:"message"` // message returned to the caller
	Detail    string    `json:"detail"`  // underlying cause
	Stack     string    `json:"stack"`
	Context   string    `json:"context"` // JSON
}
