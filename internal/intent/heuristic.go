package intent

import (
	"regexp"
	"strconv"
	"strings"
)

var courseIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)course\s+id\s*:?\s*(\d+)`),
	regexp.MustCompile(`(?i)course\s+(\d+)`),
	regexp.MustCompile(`(?i)id\s*:?\s*(\d+)`),
}

var courseNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)from\s+(?:my\s+)?([a-zA-Z0-9\s]+?)(?:\s+class|\s+course|$)`),
	regexp.MustCompile(`(?i)in\s+(?:my\s+)?([a-zA-Z0-9\s]+?)(?:\s+class|\s+course|$)`),
	regexp.MustCompile(`(?i)for\s+(?:my\s+)?([a-zA-Z0-9\s]+?)(?:\s+class|\s+course|$)`),
}

// keyword category order is fixed: announcements win over assignments,
// assignments over modules, modules over courses.
var keywordCategories = []struct {
	action   Action
	keywords []string
}{
	{ActionListAnnouncements, []string{"announcement", "news", "update"}},
	{ActionListAssignments, []string{"assignment", "homework", "due", "task"}},
	{ActionGetModules, []string{"module", "content", "material"}},
	{ActionListCourses, []string{"course", "class", "list all", "show me", "get all"}},
}

// Classify attempts deterministic intent classification. It returns false
// when no keyword category matched, signalling the caller to fall back to
// the LLM classifier.
func Classify(message string) (Intent, bool) {
	lower := strings.ToLower(message)

	courseID := extractCourseID(message)
	courseName := extractCourseName(message)

	for _, category := range keywordCategories {
		for _, keyword := range category.keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			result := Intent{Action: category.action}
			// A plain course listing carries no course scope.
			if category.action != ActionListCourses {
				result.CourseID = courseID
				result.CourseName = courseName
			}
			return result, true
		}
	}

	return Intent{}, false
}

func extractCourseID(message string) int {
	for _, pattern := range courseIDPatterns {
		if m := pattern.FindStringSubmatch(message); m != nil {
			id, err := strconv.Atoi(m[1])
			if err == nil {
				return id
			}
		}
	}
	return 0
}

func extractCourseName(message string) string {
	for _, pattern := range courseNamePatterns {
		if m := pattern.FindStringSubmatch(message); m != nil {
			name := strings.TrimSpace(m[1])
			if name != "" {
				return name
			}
		}
	}
	return ""
}
