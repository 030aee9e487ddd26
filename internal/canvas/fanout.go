package canvas

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// AllAssignments fetches assignments across every enrolled course, tagging
// each item with its course. Courses that fail to fetch are skipped.
func (c *Client) AllAssignments(ctx context.Context, cred Credential) []Assignment {
	courses := c.ListAllCourses(ctx, cred)
	if len(courses) == 0 {
		return nil
	}

	var (
		mu  sync.Mutex
		all []Assignment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fanoutLimit)

	for _, course := range courses {
		g.Go(func() error {
			assignments, err := c.CourseAssignments(gctx, cred, course.ID)
			if err != nil {
				slog.WarnContext(gctx, "skipping course assignments",
					"course_id", course.ID,
					"course_name", course.Name,
					"error", err)
				return nil
			}
			for i := range assignments {
				assignments[i].CourseID = course.ID
				assignments[i].CourseName = course.Name
			}
			mu.Lock()
			all = append(all, assignments...)
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors, so Wait only synchronizes.
	_ = g.Wait()
	return all
}

// AllAnnouncements fetches announcements across every enrolled course,
// tagging each item with its course. Courses that fail to fetch are skipped.
func (c *Client) AllAnnouncements(ctx context.Context, cred Credential) []Announcement {
	courses := c.ListAllCourses(ctx, cred)
	if len(courses) == 0 {
		return nil
	}

	var (
		mu  sync.Mutex
		all []Announcement
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.fanoutLimit)

	for _, course := range courses {
		g.Go(func() error {
			announcements, err := c.CourseAnnouncements(gctx, cred, course.ID)
			if err != nil {
				slog.WarnContext(gctx, "skipping course announcements",
					"course_id", course.ID,
					"course_name", course.Name,
					"error", err)
				return nil
			}
			for i := range announcements {
				announcements[i].CourseID = course.ID
				announcements[i].CourseName = course.Name
			}
			mu.Lock()
			all = append(all, announcements...)
			mu.Unlock()
			return nil
		})
	}

	_ = g.Wait()
	return all
}
