package agent

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/canvasbot/canvas-agent-go/internal/canvas"
	"github.com/canvasbot/canvas-agent-go/internal/intent"
)

const (
	displayTime = "Jan 2, 2006 3:04 PM"

	announcementExcerptLen = 100
	assignmentExcerptLen   = 200
	announcementListLimit  = 10
)

// stripHTML reduces an HTML fragment to its text content. On parse failure
// the input is returned unchanged.
func stripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.TrimSpace(doc.Text())
}

// excerpt strips HTML and truncates to at most n runes.
func excerpt(s string, n int) string {
	text := stripHTML(s)
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

// scopeHeading renders "## <noun> from <scope>" with the course name
// preferred over the numeric ID, falling back to the unscoped variant.
func scopeHeading(noun string, it intent.Intent, unscoped string) string {
	if !it.Scoped() {
		return unscoped
	}
	if it.CourseName != "" {
		return fmt.Sprintf("## %s from %s\n\n", noun, it.CourseName)
	}
	return fmt.Sprintf("## %s from Course ID: %d\n\n", noun, it.CourseID)
}

// FormatCourses renders a course list.
func FormatCourses(courses []canvas.Course) string {
	var b strings.Builder
	b.WriteString("## Your Canvas Courses\n\n")

	if len(courses) == 0 {
		b.WriteString("No courses found in your Canvas account.\n")
		return b.String()
	}

	for i, course := range courses {
		fmt.Fprintf(&b, "%d. **%s** (ID: %d)\n", i+1, course.Name, course.ID)
		if course.CourseCode != "" {
			fmt.Fprintf(&b, "   - Course Code: %s\n", course.CourseCode)
		}
		if course.Term != nil {
			fmt.Fprintf(&b, "   - Term: %s\n", course.Term.Name)
		}
	}

	return b.String()
}

// FormatAssignments renders an assignment list sorted ascending by due
// date, undated items last. Due dates before now are annotated.
func FormatAssignments(assignments []canvas.Assignment, it intent.Intent, now time.Time) string {
	var b strings.Builder
	b.WriteString(scopeHeading("Assignments", it, "## Assignments Across All Courses\n\n"))

	if len(assignments) == 0 {
		b.WriteString("No assignments found.\n")
		return b.String()
	}

	sorted := make([]canvas.Assignment, len(assignments))
	copy(sorted, assignments)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.DueAt == nil {
			return false
		}
		if b.DueAt == nil {
			return true
		}
		return a.DueAt.Before(*b.DueAt)
	})

	for i, assignment := range sorted {
		fmt.Fprintf(&b, "%d. **%s** (ID: %d)\n", i+1, assignment.Name, assignment.ID)

		if assignment.CourseName != "" {
			fmt.Fprintf(&b, "   - Course: %s\n", assignment.CourseName)
		}

		if assignment.DueAt != nil {
			if assignment.DueAt.Before(now) {
				fmt.Fprintf(&b, "   - Due: %s (Past Due)\n", assignment.DueAt.Format(displayTime))
			} else {
				fmt.Fprintf(&b, "   - Due: %s\n", assignment.DueAt.Format(displayTime))
			}
		} else {
			b.WriteString("   - Due: No due date\n")
		}

		if assignment.PointsPossible > 0 {
			fmt.Fprintf(&b, "   - Points: %g\n", assignment.PointsPossible)
		} else {
			b.WriteString("   - Points: Not specified\n")
		}

		if len(assignment.SubmissionTypes) > 0 {
			fmt.Fprintf(&b, "   - Submission Type: %s\n", strings.Join(assignment.SubmissionTypes, ", "))
		}

		if assignment.HasSubmittedSubmissions != nil {
			if *assignment.HasSubmittedSubmissions {
				b.WriteString("   - Submitted: Yes\n")
			} else {
				b.WriteString("   - Submitted: No\n")
			}
		}

		if assignment.Description != "" {
			fmt.Fprintf(&b, "   - Description: \"%s...\"\n", excerpt(assignment.Description, assignmentExcerptLen))
		}

		b.WriteString("---\n")
	}

	return b.String()
}

// FormatAnnouncements renders an announcement list sorted newest first and
// truncated to the 10 most recent.
func FormatAnnouncements(announcements []canvas.Announcement, it intent.Intent) string {
	var b strings.Builder
	b.WriteString(scopeHeading("Announcements", it, "## Recent Announcements Across All Courses\n\n"))

	if len(announcements) == 0 {
		b.WriteString("No announcements found.\n")
		return b.String()
	}

	sorted := make([]canvas.Announcement, len(announcements))
	copy(sorted, announcements)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.PostedAt == nil {
			return false
		}
		if b.PostedAt == nil {
			return true
		}
		return a.PostedAt.After(*b.PostedAt)
	})

	if len(sorted) > announcementListLimit {
		sorted = sorted[:announcementListLimit]
	}

	for i, announcement := range sorted {
		fmt.Fprintf(&b, "%d. **%s** (ID: %d)\n", i+1, announcement.Title, announcement.ID)

		if announcement.CourseName != "" {
			fmt.Fprintf(&b, "   - Course: %s\n", announcement.CourseName)
		}

		if announcement.PostedAt != nil {
			fmt.Fprintf(&b, "   - Posted: %s\n", announcement.PostedAt.Format(displayTime))
		}

		if announcement.Message != "" {
			fmt.Fprintf(&b, "   - Excerpt: \"%s...\"\n", excerpt(announcement.Message, announcementExcerptLen))
		}

		b.WriteString("---\n")
	}

	return b.String()
}

// FormatModules renders a module list.
func FormatModules(modules []canvas.Module, it intent.Intent) string {
	var b strings.Builder
	b.WriteString(scopeHeading("Modules", it, "## Modules\n\n"))

	if len(modules) == 0 {
		b.WriteString("No modules found.\n")
		return b.String()
	}

	for i, module := range modules {
		fmt.Fprintf(&b, "%d. **%s** (ID: %d)\n", i+1, module.Name, module.ID)

		if module.CourseName != "" {
			fmt.Fprintf(&b, "   - Course: %s\n", module.CourseName)
		}
		if module.ItemsCount > 0 {
			fmt.Fprintf(&b, "   - Items: %d\n", module.ItemsCount)
		}
		if module.State != "" {
			fmt.Fprintf(&b, "   - State: %s\n", module.State)
		}

		b.WriteString("---\n")
	}

	return b.String()
}

// FormatTabs renders the navigation tabs of a course.
func FormatTabs(tabs []canvas.Tab, it intent.Intent) string {
	var b strings.Builder
	b.WriteString(scopeHeading("Course Tabs", it, "## Course Tabs\n\n"))

	if len(tabs) == 0 {
		b.WriteString("No tabs found.\n")
		return b.String()
	}

	for i, tab := range tabs {
		fmt.Fprintf(&b, "%d. **%s** (Type: %s)\n", i+1, tab.Label, tab.Type)
	}

	return b.String()
}

// FormatAssignmentDetails renders a single assignment in full, including
// the HTML-stripped description.
func FormatAssignmentDetails(assignment *canvas.Assignment, now time.Time) string {
	if assignment == nil {
		return "No assignment found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Assignment Details: %s\n\n", assignment.Name)
	fmt.Fprintf(&b, "- **ID**: %d\n", assignment.ID)

	if assignment.DueAt != nil {
		if assignment.DueAt.Before(now) {
			fmt.Fprintf(&b, "- **Due Date**: %s (Past Due)\n", assignment.DueAt.Format(displayTime))
		} else {
			fmt.Fprintf(&b, "- **Due Date**: %s\n", assignment.DueAt.Format(displayTime))
		}
	} else {
		b.WriteString("- **Due Date**: No due date\n")
	}

	if assignment.PointsPossible > 0 {
		fmt.Fprintf(&b, "- **Points Possible**: %g\n", assignment.PointsPossible)
	} else {
		b.WriteString("- **Points Possible**: Not specified\n")
	}

	if len(assignment.SubmissionTypes) > 0 {
		fmt.Fprintf(&b, "- **Submission Type**: %s\n", strings.Join(assignment.SubmissionTypes, ", "))
	}

	if assignment.Description != "" {
		fmt.Fprintf(&b, "\n**Description**:\n%s\n", stripHTML(assignment.Description))
	}

	return b.String()
}

// FormatAnnouncementDetails renders a single announcement in full,
// including the HTML-stripped message body.
func FormatAnnouncementDetails(announcement *canvas.Announcement) string {
	if announcement == nil {
		return "No announcement found.\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Announcement Details: %s\n\n", announcement.Title)
	fmt.Fprintf(&b, "- **ID**: %d\n", announcement.ID)

	if announcement.PostedAt != nil {
		fmt.Fprintf(&b, "- **Posted**: %s\n", announcement.PostedAt.Format(displayTime))
	}

	if announcement.Message != "" {
		fmt.Fprintf(&b, "\n**Message**:\n%s\n", stripHTML(announcement.Message))
	}

	return b.String()
}
