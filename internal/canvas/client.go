// Package canvas provides a read-only client for the Canvas LMS REST API.
// List operations degrade to empty results on upstream failure so callers
// always have a valid, possibly empty, input to format.
package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domerrors "github.com/canvasbot/canvas-agent-go/internal/errors"
)

// MetricsRecorder defines the interface for recording Canvas request metrics
type MetricsRecorder interface {
	RecordCanvasRequest(endpoint, status string, duration float64)
}

// Client is an HTTP client for the Canvas REST API
type Client struct {
	httpClient     *http.Client
	defaultBaseURL string
	pageSize       int
	fanoutLimit    int
	metrics        MetricsRecorder // optional
}

// NewClient creates a new Canvas API client.
// defaultBaseURL is used when a credential carries no instance URL.
func NewClient(defaultBaseURL string, timeout time.Duration, pageSize, fanoutLimit int) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		defaultBaseURL: normalizeBaseURL(defaultBaseURL),
		pageSize:       pageSize,
		fanoutLimit:    fanoutLimit,
	}
}

// SetMetrics sets the metrics recorder for request monitoring
func (c *Client) SetMetrics(recorder MetricsRecorder) {
	c.metrics = recorder
}

// normalizeBaseURL strips a trailing slash and an /api/v1 suffix so the
// client can append its own path regardless of how the URL was supplied.
func normalizeBaseURL(base string) string {
	base = strings.TrimSuffix(base, "/")
	base = strings.TrimSuffix(base, "/api/v1")
	return base
}

// get performs a GET request against the Canvas API and decodes the JSON
// response into out. A 401 wraps ErrInvalidCredential and a 404 wraps
// ErrNotFound so callers can distinguish them in diagnostics.
func (c *Client) get(ctx context.Context, cred Credential, endpoint string, params url.Values, out any) error {
	base := normalizeBaseURL(cred.BaseURL)
	if base == "" {
		base = c.defaultBaseURL
	}

	reqURL := base + "/api/v1" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domerrors.NewAPIError(endpoint, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.record(endpoint, "error", duration)
		return domerrors.NewAPIError(endpoint, 0, fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			c.record(endpoint, "unauthorized", duration)
			slog.WarnContext(ctx, "canvas rejected credential",
				"endpoint", endpoint,
				"status", resp.StatusCode,
				"token_preview", cred.Preview())
			return domerrors.NewAPIError(endpoint, resp.StatusCode, domerrors.ErrInvalidCredential)
		case http.StatusNotFound:
			c.record(endpoint, "not_found", duration)
			slog.DebugContext(ctx, "canvas resource not found",
				"endpoint", endpoint,
				"status", resp.StatusCode)
			return domerrors.NewAPIError(endpoint, resp.StatusCode, domerrors.ErrNotFound)
		case http.StatusTooManyRequests:
			c.record(endpoint, "rate_limited", duration)
			return domerrors.NewAPIError(endpoint, resp.StatusCode, domerrors.ErrRateLimitExceeded)
		default:
			c.record(endpoint, "error", duration)
			return domerrors.NewAPIError(endpoint, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode))
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.record(endpoint, "error", duration)
		return domerrors.NewAPIError(endpoint, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	c.record(endpoint, "success", duration)
	return nil
}

func (c *Client) record(endpoint, status string, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordCanvasRequest(endpointKind(endpoint), status, duration.Seconds())
	}
}

// endpointKind collapses concrete endpoint paths into a bounded label set
// to keep metric cardinality low.
func endpointKind(endpoint string) string {
	switch {
	case strings.HasSuffix(endpoint, "/assignments"):
		return "assignments"
	case strings.Contains(endpoint, "/assignments/"):
		return "assignment_detail"
	case strings.HasSuffix(endpoint, "/discussion_topics"):
		return "announcements"
	case strings.Contains(endpoint, "/discussion_topics/"):
		return "announcement_detail"
	case strings.HasSuffix(endpoint, "/modules"):
		return "modules"
	case strings.HasSuffix(endpoint, "/tabs"):
		return "tabs"
	case strings.HasSuffix(endpoint, "/courses"):
		return "courses"
	default:
		return "other"
	}
}

// ListCourses fetches a single page of active courses.
func (c *Client) ListCourses(ctx context.Context, cred Credential) ([]Course, error) {
	params := url.Values{}
	params.Add("include[]", "term")
	params.Set("enrollment_state", "active")

	var courses []Course
	if err := c.get(ctx, cred, "/courses", params, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListAllCourses paginates through all active courses. A fetch error aborts
// pagination and returns whatever was accumulated so far; it never fails.
func (c *Client) ListAllCourses(ctx context.Context, cred Credential) []Course {
	var all []Course

	for page := 1; ; page++ {
		params := url.Values{}
		params.Add("include[]", "term")
		params.Set("enrollment_state", "active")
		params.Set("page", fmt.Sprintf("%d", page))
		params.Set("per_page", fmt.Sprintf("%d", c.pageSize))

		var courses []Course
		if err := c.get(ctx, cred, "/courses", params, &courses); err != nil {
			slog.WarnContext(ctx, "course pagination aborted",
				"page", page,
				"accumulated", len(all),
				"error", err)
			break
		}
		if len(courses) == 0 {
			break
		}
		all = append(all, courses...)
	}

	return all
}

// CourseAssignments fetches assignments for a course.
func (c *Client) CourseAssignments(ctx context.Context, cred Credential, courseID int) ([]Assignment, error) {
	var assignments []Assignment
	endpoint := fmt.Sprintf("/courses/%d/assignments", courseID)
	if err := c.get(ctx, cred, endpoint, nil, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

// CourseAnnouncements fetches announcements for a course. Canvas models
// announcements as discussion topics behind an only_announcements filter.
func (c *Client) CourseAnnouncements(ctx context.Context, cred Credential, courseID int) ([]Announcement, error) {
	params := url.Values{}
	params.Set("only_announcements", "true")

	var announcements []Announcement
	endpoint := fmt.Sprintf("/courses/%d/discussion_topics", courseID)
	if err := c.get(ctx, cred, endpoint, params, &announcements); err != nil {
		return nil, err
	}
	return announcements, nil
}

// CourseModules fetches modules for a course.
func (c *Client) CourseModules(ctx context.Context, cred Credential, courseID int) ([]Module, error) {
	var modules []Module
	endpoint := fmt.Sprintf("/courses/%d/modules", courseID)
	if err := c.get(ctx, cred, endpoint, nil, &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

// CourseTabs fetches the navigation tabs of a course.
func (c *Client) CourseTabs(ctx context.Context, cred Credential, courseID int) ([]Tab, error) {
	var tabs []Tab
	endpoint := fmt.Sprintf("/courses/%d/tabs", courseID)
	if err := c.get(ctx, cred, endpoint, nil, &tabs); err != nil {
		return nil, err
	}
	return tabs, nil
}

// AssignmentDetails fetches a single assignment.
func (c *Client) AssignmentDetails(ctx context.Context, cred Credential, courseID, assignmentID int) (*Assignment, error) {
	var assignment Assignment
	endpoint := fmt.Sprintf("/courses/%d/assignments/%d", courseID, assignmentID)
	if err := c.get(ctx, cred, endpoint, nil, &assignment); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// AnnouncementDetails fetches a single announcement.
func (c *Client) AnnouncementDetails(ctx context.Context, cred Credential, courseID, announcementID int) (*Announcement, error) {
	var announcement Announcement
	endpoint := fmt.Sprintf("/courses/%d/discussion_topics/%d", courseID, announcementID)
	if err := c.get(ctx, cred, endpoint, nil, &announcement); err != nil {
		return nil, err
	}
	return &announcement, nil
}
