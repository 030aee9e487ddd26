package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyKeywords(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Action
	}{
		{"announcements", "any announcements this week?", ActionListAnnouncements},
		{"news maps to announcements", "what's the latest news?", ActionListAnnouncements},
		{"assignments", "show my assignments", ActionListAssignments},
		{"homework", "do I have homework?", ActionListAssignments},
		{"due", "what is due tomorrow?", ActionListAssignments},
		{"modules", "open the modules for course 42", ActionGetModules},
		{"materials", "where are the course materials?", ActionGetModules},
		{"courses", "list all my courses", ActionListCourses},
		{"classes", "show me my classes", ActionListCourses},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.message)
			assert.True(t, ok)
			assert.Equal(t, tt.want, got.Action)
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	// Both categories present, announcements win.
	got, ok := Classify("any announcements about the assignment?")
	assert.True(t, ok)
	assert.Equal(t, ActionListAnnouncements, got.Action)

	// Assignments beat modules.
	got, ok = Classify("assignment content for week 1")
	assert.True(t, ok)
	assert.Equal(t, ActionListAssignments, got.Action)
}

func TestClassifyInconclusive(t *testing.T) {
	_, ok := Classify("hello there")
	assert.False(t, ok)

	_, ok = Classify("what can you do?")
	assert.False(t, ok)
}

func TestExtractCourseID(t *testing.T) {
	tests := []struct {
		message string
		want    int
	}{
		{"assignments for course id: 42", 42},
		{"assignments for course id 42", 42},
		{"assignments for course 42", 42},
		{"assignments for id: 42", 42},
		{"assignments for my math class", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractCourseID(tt.message), tt.message)
	}
}

func TestExtractCourseName(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"assignments from my Linear Algebra course", "Linear Algebra"},
		{"announcements in Data Structures", "Data Structures"},
		{"homework for my calculus class", "calculus"},
		{"list all courses", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractCourseName(tt.message), tt.message)
	}
}

func TestClassifyCourseScope(t *testing.T) {
	got, ok := Classify("show assignments for course 42")
	assert.True(t, ok)
	assert.Equal(t, ActionListAssignments, got.Action)
	assert.Equal(t, 42, got.CourseID)
	assert.True(t, got.Scoped())

	got, ok = Classify("announcements from my Linear Algebra course")
	assert.True(t, ok)
	assert.Equal(t, "Linear Algebra", got.CourseName)
	assert.True(t, got.Scoped())

	// Plain course listing never carries scope.
	got, ok = Classify("list all my courses")
	assert.True(t, ok)
	assert.Equal(t, ActionListCourses, got.Action)
	assert.False(t, got.Scoped())
}
