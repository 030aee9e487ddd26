// Package genai is the LLM boundary: a JSON-mode intent classifier used as
// fallback when deterministic classification is inconclusive, and a
// conversational renderer that turns formatted Canvas data into a reply.
// Both talk to an OpenAI-compatible endpoint (Groq by default).
package genai

// MetricsRecorder records chat completion outcomes.
type MetricsRecorder interface {
	RecordLLMRequest(kind, status string, duration float64)
}

// Message roles understood by the chat completion API.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one prior conversation turn forwarded to the renderer.
type Message struct {
	Role    string
	Content string
}
