package service

import "strings"

// ValidationError aggregates every violated field constraint for one request,
// so the caller sees the full list instead of the first failure.
type ValidationError struct {
	Messages []string
}

// Error joins all field messages into one string.
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

type validation struct {
	messages []string
}

func (v *validation) add(message string) {
	v.messages = append(v.messages, message)
}

func (v *validation) err() error {
	if len(v.messages) == 0 {
		return nil
	}
	return &ValidationError{Messages: v.messages}
}
