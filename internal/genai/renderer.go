package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// historyWindow caps how many prior turns are forwarded to the model.
const historyWindow = 10

// Renderer turns formatted Canvas data into a conversational reply.
type Renderer struct {
	client  openai.Client
	model   string
	metrics MetricsRecorder
}

// NewRenderer creates a renderer against an OpenAI-compatible endpoint.
// Returns nil if apiKey is empty (conversational rendering disabled).
func NewRenderer(apiKey, baseURL, model string) *Renderer {
	if apiKey == "" {
		return nil
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &Renderer{
		client: client,
		model:  model,
	}
}

// SetMetrics sets the metrics recorder for completion monitoring.
func (r *Renderer) SetMetrics(recorder MetricsRecorder) {
	if r == nil {
		return
	}
	r.metrics = recorder
}

func (r *Renderer) record(status string, duration time.Duration) {
	if r.metrics != nil {
		r.metrics.RecordLLMRequest("render", status, duration.Seconds())
	}
}

// Render asks the model to phrase contextData as an answer to userMessage.
// history carries prior turns, oldest first; only the last ten are sent.
// Callers must fall back to the formatted data verbatim on any error.
func (r *Renderer) Render(ctx context.Context, userMessage, contextData string, history []Message) (string, error) {
	if r == nil {
		return "", errors.New("renderer disabled")
	}

	if contextData == "" {
		contextData = "No Canvas data available."
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(RendererSystemPrompt + contextData),
	}

	for _, msg := range tailMessages(history, historyWindow) {
		switch msg.Role {
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(msg.Content))
		default:
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}

	messages = append(messages, openai.UserMessage(userMessage))

	params := openai.ChatCompletionNewParams{
		Model:       r.model,
		Messages:    messages,
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(1024),
	}

	start := time.Now()
	resp, err := r.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		r.record("error", duration)
		slog.WarnContext(ctx, "response rendering call failed",
			"model", r.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		r.record("error", duration)
		return "", errors.New("empty response from model")
	}

	r.record("success", duration)
	slog.DebugContext(ctx, "response rendering completed",
		"model", r.model,
		"input_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.CompletionTokens,
		"duration_ms", duration.Milliseconds())

	return resp.Choices[0].Message.Content, nil
}

func tailMessages(history []Message, n int) []Message {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
