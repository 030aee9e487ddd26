// Package agent orchestrates a conversation turn: credential extraction,
// intent classification, Canvas data retrieval, filtering, formatting, and
// conversational rendering.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/canvasbot/canvas-agent-go/internal/canvas"
	domerrors "github.com/canvasbot/canvas-agent-go/internal/errors"
	"github.com/canvasbot/canvas-agent-go/internal/genai"
	"github.com/canvasbot/canvas-agent-go/internal/intent"
	"github.com/canvasbot/canvas-agent-go/internal/logger"
)

const (
	missingCredentialReply = "I need your Canvas API token to access your Canvas data. Please provide it in your message. For example: 'My Canvas token is 1234~abcdefg'"
	internalErrorReply     = "I encountered an error while processing your request. Please try again."
)

func courseNotFoundReply(name string) string {
	return fmt.Sprintf("I couldn't find a course named \"%s\" in your Canvas account. Please check the course name and try again.", name)
}

// DataSource is the Canvas read surface the orchestrator depends on.
type DataSource interface {
	ListAllCourses(ctx context.Context, cred canvas.Credential) []canvas.Course
	CourseAssignments(ctx context.Context, cred canvas.Credential, courseID int) ([]canvas.Assignment, error)
	CourseAnnouncements(ctx context.Context, cred canvas.Credential, courseID int) ([]canvas.Announcement, error)
	CourseModules(ctx context.Context, cred canvas.Credential, courseID int) ([]canvas.Module, error)
	CourseTabs(ctx context.Context, cred canvas.Credential, courseID int) ([]canvas.Tab, error)
	AssignmentDetails(ctx context.Context, cred canvas.Credential, courseID, assignmentID int) (*canvas.Assignment, error)
	AnnouncementDetails(ctx context.Context, cred canvas.Credential, courseID, announcementID int) (*canvas.Announcement, error)
	AllAssignments(ctx context.Context, cred canvas.Credential) []canvas.Assignment
	AllAnnouncements(ctx context.Context, cred canvas.Credential) []canvas.Announcement
}

// Classifier is the LLM fallback for intent classification.
type Classifier interface {
	Classify(ctx context.Context, message string) (intent.Intent, error)
}

// Renderer phrases formatted data as a conversational reply.
type Renderer interface {
	Render(ctx context.Context, userMessage, contextData string, history []genai.Message) (string, error)
}

// CredentialStore persists per-user Canvas credentials and the
// conversation log. All failures are swallowed by the orchestrator.
type CredentialStore interface {
	SaveCredential(ctx context.Context, userID string, cred canvas.Credential) error
	Credential(ctx context.Context, userID string) (canvas.Credential, error)
	SaveConversation(ctx context.Context, userID, message, response string) error
}

// MetricsRecorder records per-turn outcomes.
type MetricsRecorder interface {
	RecordTurn(action, status string, duration float64)
}

// ChatTurn is one message of the conversation history, oldest first.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is the wire shape of an answered turn.
type Response struct {
	Content      string `json:"content"`
	IsFinal      bool   `json:"is_final"`
	SearchNeeded bool   `json:"search_needed"`
}

// Agent answers Canvas questions. Classifier and Renderer may be backed by
// nil implementations; every LLM failure degrades to a deterministic path.
type Agent struct {
	data       DataSource
	classifier Classifier
	renderer   Renderer
	store      CredentialStore
	metrics    MetricsRecorder
	log        *logger.Logger

	classifyTimeout time.Duration
	renderTimeout   time.Duration
}

// Options configures an Agent.
type Options struct {
	Data            DataSource
	Classifier      Classifier
	Renderer        Renderer
	Store           CredentialStore
	Metrics         MetricsRecorder
	Log             *logger.Logger
	ClassifyTimeout time.Duration
	RenderTimeout   time.Duration
}

// New creates an Agent. Data and Log are required; everything else
// degrades gracefully when absent.
func New(opts Options) *Agent {
	return &Agent{
		data:            opts.Data,
		classifier:      opts.Classifier,
		renderer:        opts.Renderer,
		store:           opts.Store,
		metrics:         opts.Metrics,
		log:             opts.Log,
		classifyTimeout: opts.ClassifyTimeout,
		renderTimeout:   opts.RenderTimeout,
	}
}

// ProcessTurn answers the last message of history. It never returns an
// error; every failure mode maps to a final, user-safe reply.
func (a *Agent) ProcessTurn(ctx context.Context, userID string, history []ChatTurn) (resp Response) {
	start := time.Now()
	action := "unknown"
	status := "success"

	defer func() {
		if r := recover(); r != nil {
			a.log.Error("panic while processing turn", "panic", fmt.Sprintf("%v", r))
			resp = Response{Content: internalErrorReply, IsFinal: true}
			status = "panic"
		}
		if a.metrics != nil {
			a.metrics.RecordTurn(action, status, time.Since(start).Seconds())
		}
	}()

	if len(history) == 0 {
		status = "empty_history"
		return Response{Content: internalErrorReply, IsFinal: true}
	}
	userMessage := history[len(history)-1].Content

	cred := a.resolveCredential(ctx, userID, userMessage)
	if cred.IsZero() {
		a.log.Info("turn without canvas credential", "user_id", userID)
		status = "missing_credential"
		return Response{Content: missingCredentialReply, IsFinal: true}
	}

	it := a.classify(ctx, userMessage)
	action = string(it.Action)

	contextData, ok := a.execute(ctx, cred, it)
	if !ok {
		// Course name resolution miss; contextData holds the reply.
		status = "course_not_found"
		resp = Response{Content: contextData, IsFinal: true}
		a.saveConversation(ctx, userID, userMessage, resp.Content)
		return resp
	}

	content := a.render(ctx, userMessage, contextData, history[:len(history)-1])

	resp = Response{Content: content, IsFinal: true}
	a.saveConversation(ctx, userID, userMessage, resp.Content)
	return resp
}

// resolveCredential prefers a token in the current message over the stored
// one, persisting newly seen tokens for later turns. The stored instance
// URL applies either way.
func (a *Agent) resolveCredential(ctx context.Context, userID, message string) canvas.Credential {
	cred := canvas.Credential{Token: ExtractToken(message)}

	if cred.Token != "" {
		a.log.Info("canvas token found in message", "token_preview", cred.Preview())
		if userID != "" && a.store != nil {
			if err := a.store.SaveCredential(ctx, userID, cred); err != nil {
				a.log.WithError(err).Warn("failed to store canvas token", "user_id", userID)
			}
		}
	}

	if userID != "" && a.store != nil {
		stored, err := a.store.Credential(ctx, userID)
		if err != nil {
			a.log.WithError(err).Debug("no stored canvas token", "user_id", userID)
		} else {
			if cred.Token == "" {
				cred.Token = stored.Token
			}
			if stored.BaseURL != "" {
				cred.BaseURL = stored.BaseURL
			}
		}
	}

	return cred
}

// classify runs the deterministic classifier, falling back to the LLM for
// inconclusive messages. Any fallback failure defaults to listing courses.
func (a *Agent) classify(ctx context.Context, message string) intent.Intent {
	if it, ok := intent.Classify(message); ok {
		return it
	}

	if a.classifier == nil {
		return intent.Intent{Action: intent.ActionListCourses}
	}

	cctx := ctx
	if a.classifyTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, a.classifyTimeout)
		defer cancel()
	}

	it, err := a.classifier.Classify(cctx, message)
	if err != nil {
		a.log.WithError(err).Warn("llm classification failed, defaulting to course listing")
		return intent.Intent{Action: intent.ActionListCourses}
	}
	return it
}

// execute fetches, filters, and formats the data for an intent. The second
// return is false when a course name failed to resolve; the first return is
// then the user-facing reply.
func (a *Agent) execute(ctx context.Context, cred canvas.Credential, it intent.Intent) (string, bool) {
	// Resolve a course name to an ID. An explicit ID wins over a name.
	if it.CourseID == 0 && it.CourseName != "" && it.Action != intent.ActionListCourses {
		courses := a.data.ListAllCourses(ctx, cred)
		course := FindCourseByName(courses, it.CourseName)
		if course == nil {
			a.log.WithError(domerrors.ErrCourseNotFound).Info("course name did not resolve", "course_name", it.CourseName)
			return courseNotFoundReply(it.CourseName), false
		}
		it.CourseID = course.ID
		it.CourseName = course.Name
	}

	now := time.Now()

	switch it.Action {
	case intent.ActionListAssignments:
		var assignments []canvas.Assignment
		if it.CourseID != 0 {
			assignments = a.courseAssignments(ctx, cred, it)
		} else {
			assignments = a.data.AllAssignments(ctx, cred)
		}
		assignments = FilterByTimeFrame(assignments, it.TimeFrame, now)
		assignments = FilterBySearchTerm(assignments, it.SearchTerm)
		return FormatAssignments(assignments, it, now), true

	case intent.ActionListAnnouncements:
		var announcements []canvas.Announcement
		if it.CourseID != 0 {
			announcements = a.courseAnnouncements(ctx, cred, it)
		} else {
			announcements = a.data.AllAnnouncements(ctx, cred)
		}
		announcements = FilterByTimeFrame(announcements, it.TimeFrame, now)
		announcements = FilterBySearchTerm(announcements, it.SearchTerm)
		return FormatAnnouncements(announcements, it), true

	case intent.ActionGetModules:
		if it.CourseID == 0 {
			return "Please tell me which course you would like to see modules for, by name or course ID.", true
		}
		modules, err := a.data.CourseModules(ctx, cred, it.CourseID)
		if err != nil {
			a.log.WithError(err).Warn("module fetch failed", "course_id", it.CourseID)
			modules = nil
		}
		return FormatModules(modules, it), true

	case intent.ActionGetCourseTabs:
		if it.CourseID == 0 {
			return "Please tell me which course you would like to see tabs for, by name or course ID.", true
		}
		tabs, err := a.data.CourseTabs(ctx, cred, it.CourseID)
		if err != nil {
			a.log.WithError(err).Warn("tab fetch failed", "course_id", it.CourseID)
			tabs = nil
		}
		return FormatTabs(tabs, it), true

	case intent.ActionAssignmentDetails:
		if it.CourseID == 0 || it.AssignmentID == 0 {
			return "Please tell me both the course and the assignment ID you are interested in.", true
		}
		assignment, err := a.data.AssignmentDetails(ctx, cred, it.CourseID, it.AssignmentID)
		if err != nil {
			a.log.WithError(err).Warn("assignment detail fetch failed",
				"course_id", it.CourseID, "assignment_id", it.AssignmentID)
			assignment = nil
		}
		return FormatAssignmentDetails(assignment, now), true

	case intent.ActionAnnouncementDetails:
		if it.CourseID == 0 || it.AnnouncementID == 0 {
			return "Please tell me both the course and the announcement ID you are interested in.", true
		}
		announcement, err := a.data.AnnouncementDetails(ctx, cred, it.CourseID, it.AnnouncementID)
		if err != nil {
			a.log.WithError(err).Warn("announcement detail fetch failed",
				"course_id", it.CourseID, "announcement_id", it.AnnouncementID)
			announcement = nil
		}
		return FormatAnnouncementDetails(announcement), true

	default:
		courses := a.data.ListAllCourses(ctx, cred)
		return FormatCourses(courses), true
	}
}

func (a *Agent) courseAssignments(ctx context.Context, cred canvas.Credential, it intent.Intent) []canvas.Assignment {
	assignments, err := a.data.CourseAssignments(ctx, cred, it.CourseID)
	if err != nil {
		a.log.WithError(err).Warn("assignment fetch failed", "course_id", it.CourseID)
		return nil
	}
	for i := range assignments {
		if assignments[i].CourseName == "" {
			assignments[i].CourseName = it.CourseName
		}
		if assignments[i].CourseID == 0 {
			assignments[i].CourseID = it.CourseID
		}
	}
	return assignments
}

func (a *Agent) courseAnnouncements(ctx context.Context, cred canvas.Credential, it intent.Intent) []canvas.Announcement {
	announcements, err := a.data.CourseAnnouncements(ctx, cred, it.CourseID)
	if err != nil {
		a.log.WithError(err).Warn("announcement fetch failed", "course_id", it.CourseID)
		return nil
	}
	for i := range announcements {
		if announcements[i].CourseName == "" {
			announcements[i].CourseName = it.CourseName
		}
		if announcements[i].CourseID == 0 {
			announcements[i].CourseID = it.CourseID
		}
	}
	return announcements
}

// render phrases contextData conversationally, falling back to the
// formatted data verbatim when the LLM is unavailable.
func (a *Agent) render(ctx context.Context, userMessage, contextData string, history []ChatTurn) string {
	if a.renderer == nil {
		return contextData
	}

	rctx := ctx
	if a.renderTimeout > 0 {
		var cancel context.CancelFunc
		rctx, cancel = context.WithTimeout(ctx, a.renderTimeout)
		defer cancel()
	}

	messages := make([]genai.Message, 0, len(history))
	for _, turn := range history {
		messages = append(messages, genai.Message{Role: turn.Role, Content: turn.Content})
	}

	rendered, err := a.renderer.Render(rctx, userMessage, contextData, messages)
	if err != nil {
		a.log.WithError(err).Warn("llm rendering failed, returning formatted data")
		return contextData
	}
	return rendered
}

func (a *Agent) saveConversation(ctx context.Context, userID, message, response string) {
	if userID == "" || a.store == nil {
		return
	}
	if err := a.store.SaveConversation(ctx, userID, message, response); err != nil {
		a.log.WithError(err).Warn("failed to store conversation", "user_id", userID)
	}
}
