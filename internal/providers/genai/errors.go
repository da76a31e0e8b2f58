package genai

import "fmt"

// PolicyBlockError reports a request rejected by the upstream safety filter
// before any generation ran.
type PolicyBlockError struct {
	Reason  string
	Message string
}

func (e *PolicyBlockError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("genai: request blocked (%s): %s", e.Reason, e.Message)
	}
	return fmt.Sprintf("genai: request blocked (%s)", e.Reason)
}

// StopError reports generation that halted for a non-standard finish reason
// (safety, recitation, or otherwise) instead of completing.
type StopError struct {
	Reason string
}

func (e *StopError) Error() string {
	return fmt.Sprintf("genai: generation stopped early (%s)", e.Reason)
}

// NoImageError reports a completed response that carried no image payload.
// Any text the model returned instead is kept as diagnostic context.
type NoImageError struct {
	Text string
}

func (e *NoImageError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("genai: no image returned, model said: %q", e.Text)
	}
	return "genai: no image returned"
}
