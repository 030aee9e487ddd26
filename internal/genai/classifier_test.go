package genai

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domerrors "github.com/canvasbot/canvas-agent-go/internal/errors"
	"github.com/canvasbot/canvas-agent-go/internal/intent"
)

func TestNewClassifierDisabledWithoutKey(t *testing.T) {
	assert.Nil(t, NewClassifier("", "https://api.groq.com/openai/v1", "llama3-70b-8192"))
}

func TestNilClassifierReturnsError(t *testing.T) {
	var c *Classifier
	_, err := c.Classify(context.Background(), "show my courses")
	assert.Error(t, err)
}

type recordedLLMRequest struct {
	kind     string
	status   string
	duration float64
}

type fakeLLMRecorder struct {
	requests []recordedLLMRequest
}

func (f *fakeLLMRecorder) RecordLLMRequest(kind, status string, duration float64) {
	f.requests = append(f.requests, recordedLLMRequest{kind: kind, status: status, duration: duration})
}

func TestClassifierSetMetricsNilReceiver(t *testing.T) {
	var c *Classifier
	assert.NotPanics(t, func() { c.SetMetrics(&fakeLLMRecorder{}) })
}

func TestClassifierRecordsCompletions(t *testing.T) {
	rec := &fakeLLMRecorder{}
	c := &Classifier{model: "llama3-70b-8192"}
	c.SetMetrics(rec)

	c.record("error", 250*time.Millisecond)
	c.record("success", 500*time.Millisecond)

	require.Len(t, rec.requests, 2)
	assert.Equal(t, recordedLLMRequest{kind: "classify", status: "error", duration: 0.25}, rec.requests[0])
	assert.Equal(t, recordedLLMRequest{kind: "classify", status: "success", duration: 0.5}, rec.requests[1])
}

func TestClassifierRecordWithoutRecorder(t *testing.T) {
	c := &Classifier{model: "llama3-70b-8192"}
	assert.NotPanics(t, func() { c.record("success", time.Second) })
}

func TestParseIntentJSON(t *testing.T) {
	got, err := parseIntentJSON(`{"action":"list_assignments","courseId":"42","courseName":"Linear Algebra","timeFrame":"upcoming"}`)
	require.NoError(t, err)
	assert.Equal(t, intent.ActionListAssignments, got.Action)
	assert.Equal(t, 42, got.CourseID)
	assert.Equal(t, "Linear Algebra", got.CourseName)
	assert.Equal(t, intent.TimeFrameUpcoming, got.TimeFrame)
}

func TestParseIntentJSONNumericIDs(t *testing.T) {
	got, err := parseIntentJSON(`{"action":"get_assignment_details","courseId":42,"assignmentId":7}`)
	require.NoError(t, err)
	assert.Equal(t, intent.ActionAssignmentDetails, got.Action)
	assert.Equal(t, 42, got.CourseID)
	assert.Equal(t, 7, got.AssignmentID)
}

func TestParseIntentJSONNullFields(t *testing.T) {
	got, err := parseIntentJSON(`{"action":"list_courses","courseId":null,"courseName":"null","searchTerm":"null"}`)
	require.NoError(t, err)
	assert.Equal(t, intent.ActionListCourses, got.Action)
	assert.Zero(t, got.CourseID)
	assert.Empty(t, got.CourseName)
	assert.Empty(t, got.SearchTerm)
	assert.Equal(t, intent.TimeFrameAll, got.TimeFrame)
}

func TestParseIntentJSONUnknownAction(t *testing.T) {
	_, err := parseIntentJSON(`{"action":"drop_tables"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, domerrors.ErrUnknownIntent)
}

func TestParseIntentJSONMalformed(t *testing.T) {
	_, err := parseIntentJSON(`here is your intent: list_courses`)
	assert.Error(t, err)
}

func TestFlexibleID(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`42`, 42},
		{`"42"`, 42},
		{`null`, 0},
		{`""`, 0},
		{`"abc"`, 0},
		{`-1`, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, flexibleID(json.RawMessage(tt.raw)), tt.raw)
	}
	assert.Equal(t, 0, flexibleID(nil))
}
