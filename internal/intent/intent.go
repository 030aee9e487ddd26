// Package intent models the data-retrieval request behind a chat message
// and classifies messages deterministically before any LLM is consulted.
package intent

// Action identifies a Canvas data-retrieval operation.
type Action string

const (
	ActionListCourses         Action = "list_courses"
	ActionListAssignments     Action = "list_assignments"
	ActionListAnnouncements   Action = "list_announcements"
	ActionGetModules          Action = "get_modules"
	ActionGetCourseTabs       Action = "get_course_tabs"
	ActionAssignmentDetails   Action = "get_assignment_details"
	ActionAnnouncementDetails Action = "get_announcement_details"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionListCourses, ActionListAssignments, ActionListAnnouncements,
		ActionGetModules, ActionGetCourseTabs,
		ActionAssignmentDetails, ActionAnnouncementDetails:
		return true
	}
	return false
}

// TimeFrame restricts list results to a time window.
type TimeFrame string

const (
	TimeFrameAll      TimeFrame = "all"
	TimeFrameUpcoming TimeFrame = "upcoming"
	TimeFramePast     TimeFrame = "past"
	TimeFrameRecent   TimeFrame = "recent"
)

// Intent is a classified user request. CourseID and CourseName scope the
// action to one course; both empty means an unscoped request. TimeFrame,
// SearchTerm and the item IDs are only ever filled by the LLM fallback.
type Intent struct {
	Action         Action
	CourseID       int
	CourseName     string
	TimeFrame      TimeFrame
	SearchTerm     string
	AssignmentID   int
	AnnouncementID int
}

// Scoped reports whether the intent targets a single course.
func (i Intent) Scoped() bool {
	return i.CourseID != 0 || i.CourseName != ""
}
