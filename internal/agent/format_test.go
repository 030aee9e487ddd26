package agent

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/canvasbot/canvas-agent-go/internal/canvas"
	"github.com/canvasbot/canvas-agent-go/internal/intent"
)

func TestFormatCourses(t *testing.T) {
	out := FormatCourses([]canvas.Course{
		{ID: 101, Name: "Linear Algebra", CourseCode: "2WF20", Term: &canvas.Term{Name: "Fall 2025"}},
		{ID: 102, Name: "Data Structures"},
	})

	assert.Contains(t, out, "## Your Canvas Courses")
	assert.Contains(t, out, "1. **Linear Algebra** (ID: 101)")
	assert.Contains(t, out, "   - Course Code: 2WF20")
	assert.Contains(t, out, "   - Term: Fall 2025")
	assert.Contains(t, out, "2. **Data Structures** (ID: 102)")
	assert.NotContains(t, out, "Data Structures** (ID: 102)\n   - Course Code")
}

func TestFormatCoursesEmpty(t *testing.T) {
	out := FormatCourses(nil)
	assert.Contains(t, out, "No courses found in your Canvas account.")
}

func TestFormatAssignmentsSortsAndAnnotates(t *testing.T) {
	now := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)
	early := now.Add(24 * time.Hour)
	late := now.Add(72 * time.Hour)
	overdue := now.Add(-24 * time.Hour)
	submitted := true

	out := FormatAssignments([]canvas.Assignment{
		{ID: 3, Name: "Undated"},
		{ID: 2, Name: "Later", DueAt: &late, PointsPossible: 50},
		{ID: 1, Name: "Overdue", DueAt: &overdue, SubmissionTypes: []string{"online_upload", "online_text_entry"}},
		{ID: 4, Name: "Soon", DueAt: &early, HasSubmittedSubmissions: &submitted},
	}, intent.Intent{}, now)

	assert.Contains(t, out, "## Assignments Across All Courses")

	// Ascending by due date, undated last.
	posOverdue := strings.Index(out, "**Overdue**")
	posSoon := strings.Index(out, "**Soon**")
	posLater := strings.Index(out, "**Later**")
	posUndated := strings.Index(out, "**Undated**")
	assert.True(t, posOverdue < posSoon && posSoon < posLater && posLater < posUndated)

	assert.Contains(t, out, "(Past Due)")
	assert.Contains(t, out, "   - Due: No due date")
	assert.Contains(t, out, "   - Points: 50")
	assert.Contains(t, out, "   - Points: Not specified")
	assert.Contains(t, out, "   - Submission Type: online_upload, online_text_entry")
	assert.Contains(t, out, "   - Submitted: Yes")

	// Upcoming due dates carry no annotation.
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, early.Format(displayTime)) {
			assert.NotContains(t, line, "Past Due")
		}
	}
}

func TestFormatAssignmentsHeadings(t *testing.T) {
	now := time.Now()
	out := FormatAssignments(nil, intent.Intent{CourseName: "Linear Algebra"}, now)
	assert.Contains(t, out, "## Assignments from Linear Algebra")
	assert.Contains(t, out, "No assignments found.")

	out = FormatAssignments(nil, intent.Intent{CourseID: 42}, now)
	assert.Contains(t, out, "## Assignments from Course ID: 42")
}

func TestFormatAssignmentDescriptionExcerpt(t *testing.T) {
	now := time.Now()
	long := "<p>" + strings.Repeat("x", 300) + "</p>"
	out := FormatAssignments([]canvas.Assignment{
		{ID: 1, Name: "Essay", Description: long},
	}, intent.Intent{CourseID: 1}, now)

	assert.Contains(t, out, "   - Description: \""+strings.Repeat("x", assignmentExcerptLen)+"...\"")
	assert.NotContains(t, out, strings.Repeat("x", assignmentExcerptLen+1))
}

func TestFormatAnnouncementsSortsAndTruncates(t *testing.T) {
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	var announcements []canvas.Announcement
	for i := 0; i < 15; i++ {
		posted := base.Add(time.Duration(i) * time.Hour)
		announcements = append(announcements, canvas.Announcement{
			ID:       i + 1,
			Title:    fmt.Sprintf("Announcement %d", i+1),
			PostedAt: &posted,
		})
	}

	out := FormatAnnouncements(announcements, intent.Intent{})
	assert.Contains(t, out, "## Recent Announcements Across All Courses")

	// Newest first, capped at 10.
	assert.Contains(t, out, "1. **Announcement 15**")
	assert.Contains(t, out, "10. **Announcement 6**")
	assert.NotContains(t, out, "**Announcement 5**")
	assert.NotContains(t, out, "11. ")
}

func TestFormatAnnouncementsExcerptStripsHTML(t *testing.T) {
	posted := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	out := FormatAnnouncements([]canvas.Announcement{
		{ID: 1, Title: "Exam", Message: "<p>The <b>exam</b> moved rooms</p>", PostedAt: &posted, CourseName: "Algebra"},
	}, intent.Intent{CourseID: 7})

	assert.Contains(t, out, "## Announcements from Course ID: 7")
	assert.Contains(t, out, "   - Course: Algebra")
	assert.Contains(t, out, "   - Excerpt: \"The exam moved rooms...\"")
	assert.NotContains(t, out, "<b>")
}

func TestFormatAnnouncementsEmpty(t *testing.T) {
	out := FormatAnnouncements(nil, intent.Intent{CourseName: "Algebra"})
	assert.Contains(t, out, "## Announcements from Algebra")
	assert.Contains(t, out, "No announcements found.")
}

func TestFormatModules(t *testing.T) {
	out := FormatModules([]canvas.Module{
		{ID: 1, Name: "Week 1", State: "completed", ItemsCount: 4, CourseName: "Algebra"},
		{ID: 2, Name: "Week 2"},
	}, intent.Intent{CourseName: "Algebra"})

	assert.Contains(t, out, "## Modules from Algebra")
	assert.Contains(t, out, "1. **Week 1** (ID: 1)")
	assert.Contains(t, out, "   - Items: 4")
	assert.Contains(t, out, "   - State: completed")

	assert.Contains(t, FormatModules(nil, intent.Intent{}), "No modules found.")
}

func TestFormatTabs(t *testing.T) {
	out := FormatTabs([]canvas.Tab{
		{ID: "home", Label: "Home", Type: "internal"},
		{ID: "zoom", Label: "Zoom", Type: "external"},
	}, intent.Intent{CourseID: 42})

	assert.Contains(t, out, "## Course Tabs from Course ID: 42")
	assert.Contains(t, out, "1. **Home** (Type: internal)")
	assert.Contains(t, out, "2. **Zoom** (Type: external)")

	assert.Contains(t, FormatTabs(nil, intent.Intent{}), "No tabs found.")
}

func TestFormatAssignmentDetails(t *testing.T) {
	now := time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC)
	due := now.Add(-time.Hour)

	out := FormatAssignmentDetails(&canvas.Assignment{
		ID:              7,
		Name:            "Essay",
		DueAt:           &due,
		PointsPossible:  100,
		SubmissionTypes: []string{"online_upload"},
		Description:     "<p>Write about <i>graphs</i>.</p>",
	}, now)

	assert.Contains(t, out, "## Assignment Details: Essay")
	assert.Contains(t, out, "- **ID**: 7")
	assert.Contains(t, out, "(Past Due)")
	assert.Contains(t, out, "- **Points Possible**: 100")
	assert.Contains(t, out, "**Description**:\nWrite about graphs.")

	assert.Equal(t, "No assignment found.\n", FormatAssignmentDetails(nil, now))
}

func TestFormatAnnouncementDetails(t *testing.T) {
	posted := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

	out := FormatAnnouncementDetails(&canvas.Announcement{
		ID:       3,
		Title:    "Room change",
		PostedAt: &posted,
		Message:  "<p>We moved to <b>Aud 5</b>.</p>",
	})

	assert.Contains(t, out, "## Announcement Details: Room change")
	assert.Contains(t, out, "- **ID**: 3")
	assert.Contains(t, out, "**Message**:\nWe moved to Aud 5.")

	assert.Equal(t, "No announcement found.\n", FormatAnnouncementDetails(nil))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "plain text", stripHTML("plain text"))
	assert.Equal(t, "bold and link", stripHTML("<b>bold</b> and <a href='x'>link</a>"))
}
