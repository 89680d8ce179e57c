package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"agency-backend/internal/blog"
	"agency-backend/internal/calendar"
	"agency-backend/internal/jobs"
)

const (
	blogPath      = "/api/blog"
	adminBlogPath = "/api/admin/blog"
	jobsPath      = "/api/jobs"
	calendarPath  = "/api/calendar"
)

type BlogQuery struct {
	Category string
	Tag      string
	Limit    int
	Offset   int
	// Drafts lists through the admin endpoint, which includes unpublished
	// posts.
	Drafts bool
}

type PostList struct {
	Items []blog.Post `json:"items"`
	Total int64       `json:"total"`
}

func (c *Client) ListBlog(ctx context.Context, q BlogQuery) (PostList, error) {
	values := url.Values{}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Tag != "" {
		values.Set("tag", q.Tag)
	}
	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		values.Set("offset", strconv.Itoa(q.Offset))
	}
	path := blogPath
	if q.Drafts {
		path = adminBlogPath
	}
	var out PostList
	err := c.Get(ctx, path, values, &out)
	return out, err
}

func (c *Client) GetBlog(ctx context.Context, idOrSlug string) (blog.View, error) {
	var out blog.View
	err := c.Get(ctx, blogPath+"/"+url.PathEscape(idOrSlug), nil, &out)
	return out, err
}

func (c *Client) CreateBlog(ctx context.Context, req blog.UpsertRequest) (blog.Post, error) {
	var out blog.Post
	err := c.Post(ctx, blogPath, req, &out, blogPath, adminBlogPath)
	return out, err
}

func (c *Client) UpdateBlog(ctx context.Context, id string, req blog.UpsertRequest) (blog.Post, error) {
	var out blog.Post
	err := c.Put(ctx, blogPath+"/"+url.PathEscape(id), req, &out, blogPath, adminBlogPath)
	return out, err
}

func (c *Client) DeleteBlog(ctx context.Context, id string) error {
	return c.Delete(ctx, blogPath+"/"+url.PathEscape(id), nil, blogPath, adminBlogPath)
}

// ListJobs returns active postings, or every posting when all is set.
func (c *Client) ListJobs(ctx context.Context, all bool) ([]jobs.Job, error) {
	path := jobsPath
	if all {
		path = jobsPath + "/all"
	}
	var out struct {
		Items []jobs.Job `json:"items"`
	}
	err := c.Get(ctx, path, nil, &out)
	return out.Items, err
}

// Upcoming always goes to the server; due-date classification depends on
// the current time.
func (c *Client) Upcoming(ctx context.Context) ([]calendar.EventView, error) {
	body, err := c.do(ctx, http.MethodGet, calendarPath+"/upcoming", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []calendar.EventView
	err = decode(body, &out)
	return out, err
}

func (c *Client) Schedule(ctx context.Context) (calendar.ContentSchedule, error) {
	var out calendar.ContentSchedule
	err := c.Get(ctx, calendarPath+"/schedule", nil, &out)
	return out, err
}

func (c *Client) UpdateSchedule(ctx context.Context, req calendar.ScheduleRequest) (calendar.ContentSchedule, error) {
	var out calendar.ContentSchedule
	err := c.Post(ctx, calendarPath+"/update-schedule", req, &out, calendarPath)
	return out, err
}

func (c *Client) SendReminder(ctx context.Context, eventID, email string) (calendar.CalendarEvent, error) {
	var out calendar.CalendarEvent
	err := c.Post(ctx, calendarPath+"/send-reminder", calendar.ReminderRequest{EventID: eventID, Email: email}, &out, calendarPath)
	return out, err
}

func (c *Client) ExportICS(ctx context.Context) ([]byte, error) {
	return c.GetRaw(ctx, calendarPath+"/export", nil)
}
