package agent

import (
	"strings"

	"github.com/canvasbot/canvas-agent-go/internal/canvas"
)

// FindCourseByName resolves a user-supplied course name against a course
// list. Exact case-insensitive match wins; otherwise the first course whose
// name contains the query wins. Returns nil when nothing matches or either
// input is empty.
func FindCourseByName(courses []canvas.Course, name string) *canvas.Course {
	if len(courses) == 0 || name == "" {
		return nil
	}

	lower := strings.ToLower(name)

	for i := range courses {
		if strings.ToLower(courses[i].Name) == lower {
			return &courses[i]
		}
	}

	for i := range courses {
		if strings.Contains(strings.ToLower(courses[i].Name), lower) {
			return &courses[i]
		}
	}

	return nil
}
