package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	domerrors "github.com/canvasbot/canvas-agent-go/internal/errors"
	"github.com/canvasbot/canvas-agent-go/internal/intent"
)

// Classifier asks the model to classify a chat message into an Intent.
// It is only consulted when deterministic classification was inconclusive,
// and it makes exactly one attempt per message.
type Classifier struct {
	client  openai.Client
	model   string
	metrics MetricsRecorder
}

// NewClassifier creates a classifier against an OpenAI-compatible endpoint.
// Returns nil if apiKey is empty (LLM classification disabled).
func NewClassifier(apiKey, baseURL, model string) *Classifier {
	if apiKey == "" {
		return nil
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)

	return &Classifier{
		client: client,
		model:  model,
	}
}

// SetMetrics sets the metrics recorder for completion monitoring.
func (c *Classifier) SetMetrics(recorder MetricsRecorder) {
	if c == nil {
		return
	}
	c.metrics = recorder
}

func (c *Classifier) record(status string, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordLLMRequest("classify", status, duration.Seconds())
	}
}

// classifiedIntent is the JSON object the model is constrained to return.
// ID fields arrive as strings or numbers depending on the model's mood.
type classifiedIntent struct {
	Action         string          `json:"action"`
	CourseID       json.RawMessage `json:"courseId"`
	CourseName     string          `json:"courseName"`
	AssignmentID   json.RawMessage `json:"assignmentId"`
	AnnouncementID json.RawMessage `json:"announcementId"`
	TimeFrame      string          `json:"timeFrame"`
	SearchTerm     string          `json:"searchTerm"`
}

// Classify returns the model's intent classification for message.
// Callers must treat any error as "default to listing courses".
func (c *Classifier) Classify(ctx context.Context, message string) (intent.Intent, error) {
	if c == nil {
		return intent.Intent{}, errors.New("classifier disabled")
	}

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(ClassifierSystemPrompt),
			openai.UserMessage(message),
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(256),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		},
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		c.record("error", duration)
		slog.WarnContext(ctx, "intent classification call failed",
			"model", c.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return intent.Intent{}, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		c.record("error", duration)
		return intent.Intent{}, errors.New("empty response from model")
	}

	result, err := parseIntentJSON(resp.Choices[0].Message.Content)
	if err != nil {
		c.record("error", duration)
		slog.WarnContext(ctx, "intent classification unparseable",
			"model", c.model,
			"error", err)
		return intent.Intent{}, err
	}

	c.record("success", duration)
	slog.DebugContext(ctx, "intent classification completed",
		"model", c.model,
		"action", string(result.Action),
		"input_tokens", resp.Usage.PromptTokens,
		"output_tokens", resp.Usage.CompletionTokens,
		"duration_ms", duration.Milliseconds())

	return result, nil
}

// parseIntentJSON decodes the model's JSON object into an Intent.
func parseIntentJSON(content string) (intent.Intent, error) {
	var raw classifiedIntent
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return intent.Intent{}, fmt.Errorf("decode intent: %w", err)
	}

	action := intent.Action(raw.Action)
	if !action.Valid() {
		return intent.Intent{}, fmt.Errorf("%w: action %q", domerrors.ErrUnknownIntent, raw.Action)
	}

	result := intent.Intent{
		Action:         action,
		CourseID:       flexibleID(raw.CourseID),
		CourseName:     cleanField(raw.CourseName),
		AssignmentID:   flexibleID(raw.AssignmentID),
		AnnouncementID: flexibleID(raw.AnnouncementID),
		SearchTerm:     cleanField(raw.SearchTerm),
	}

	switch tf := intent.TimeFrame(strings.ToLower(raw.TimeFrame)); tf {
	case intent.TimeFrameUpcoming, intent.TimeFramePast, intent.TimeFrameRecent:
		result.TimeFrame = tf
	default:
		result.TimeFrame = intent.TimeFrameAll
	}

	return result, nil
}

// flexibleID accepts 42, "42", null, or junk, and returns 0 for anything
// that is not a positive integer.
func flexibleID(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0
	}
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

// cleanField normalizes the model's ways of saying "not present".
func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "null") || strings.EqualFold(s, "none") {
		return ""
	}
	return s
}
