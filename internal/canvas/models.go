package canvas

import (
	"fmt"
	"time"
)

// Credential is a Canvas bearer token plus the instance it belongs to.
// The token is never logged in full; use Preview for diagnostics.
type Credential struct {
	Token   string
	BaseURL string
}

// Preview returns a short token prefix safe for logging.
func (c Credential) Preview() string {
	if len(c.Token) <= 8 {
		return c.Token
	}
	return c.Token[:8] + "..."
}

// IsZero reports whether no token is set.
func (c Credential) IsZero() bool {
	return c.Token == ""
}

// Term is the enrollment term a course belongs to.
type Term struct {
	Name string `json:"name"`
}

// Course is a Canvas course snapshot.
type Course struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code,omitempty"`
	Term       *Term  `json:"term,omitempty"`
}

// Assignment is a Canvas assignment, optionally tagged with its source
// course when fetched through a fan-out.
type Assignment struct {
	ID                      int        `json:"id"`
	Name                    string     `json:"name"`
	Description             string     `json:"description,omitempty"`
	DueAt                   *time.Time `json:"due_at,omitempty"`
	CreatedAt               *time.Time `json:"created_at,omitempty"`
	PointsPossible          float64    `json:"points_possible,omitempty"`
	SubmissionTypes         []string   `json:"submission_types,omitempty"`
	HasSubmittedSubmissions *bool      `json:"has_submitted_submissions,omitempty"`
	CourseID                int        `json:"course_id,omitempty"`
	CourseName              string     `json:"course_name,omitempty"`
}

// Announcement is a Canvas announcement (a discussion topic restricted to
// announcements), optionally tagged with its source course.
type Announcement struct {
	ID         int        `json:"id"`
	Title      string     `json:"title"`
	Message    string     `json:"message,omitempty"`
	PostedAt   *time.Time `json:"posted_at,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	CourseID   int        `json:"course_id,omitempty"`
	CourseName string     `json:"course_name,omitempty"`
}

// Module is a Canvas course module.
type Module struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	State      string `json:"state,omitempty"`
	ItemsCount int    `json:"items_count,omitempty"`
	CourseID   int    `json:"course_id,omitempty"`
	CourseName string `json:"course_name,omitempty"`
}

// Tab is a navigation tab exposed by a course.
type Tab struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// PrimaryTime returns the date used for upcoming/past filtering.
func (a Assignment) PrimaryTime() (time.Time, bool) {
	if a.DueAt != nil {
		return *a.DueAt, true
	}
	return time.Time{}, false
}

// BestTime returns the best-available date for recency filtering,
// due date first, then creation date.
func (a Assignment) BestTime() (time.Time, bool) {
	if a.DueAt != nil {
		return *a.DueAt, true
	}
	if a.CreatedAt != nil {
		return *a.CreatedAt, true
	}
	return time.Time{}, false
}

// SearchText returns the title and body used for free-text filtering.
func (a Assignment) SearchText() (string, string) {
	return a.Name, a.Description
}

// PrimaryTime returns the date used for upcoming/past filtering.
func (n Announcement) PrimaryTime() (time.Time, bool) {
	if n.PostedAt != nil {
		return *n.PostedAt, true
	}
	return time.Time{}, false
}

// BestTime returns the best-available date for recency filtering,
// posted date first, then creation date.
func (n Announcement) BestTime() (time.Time, bool) {
	if n.PostedAt != nil {
		return *n.PostedAt, true
	}
	if n.CreatedAt != nil {
		return *n.CreatedAt, true
	}
	return time.Time{}, false
}

// SearchText returns the title and body used for free-text filtering.
func (n Announcement) SearchText() (string, string) {
	return n.Title, n.Message
}

// String implements fmt.Stringer without exposing the token.
func (c Credential) String() string {
	return fmt.Sprintf("Credential(%s @ %s)", c.Preview(), c.BaseURL)
}
