package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type TimelineFilterType string

const (
	TimelineAll          TimelineFilterType = "all"
	TimelineApplications TimelineFilterType = "applications"
	TimelineInterviews   TimelineFilterType = "interviews"
	TimelineAssessments  TimelineFilterType = "assessments"
)

type TimelineRange string

const (
	TimelineRangeAll   TimelineRange = "all"
	TimelineRangeWeek  TimelineRange = "week"
	TimelineRangeMonth TimelineRange = "month"
)

// TimelineItem is one dated event on the activity feed.
type TimelineItem struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	Title         string `json:"title"`
	Subtitle      string `json:"subtitle,omitempty"`
	Date          string `json:"date"`
	ApplicationID string `json:"application_id,omitempty"`
}

type TimelineMeta struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

type TimelinePage struct {
	Items []TimelineItem `json:"items"`
	Meta  TimelineMeta   `json:"meta"`
}

// TimelineParams pages and filters the activity feed. Zero values fall back
// to the backend defaults (all types, all time, page 1, 20 per page).
type TimelineParams struct {
	Type    TimelineFilterType
	Range   TimelineRange
	Page    int
	PerPage int
}

func (c *Client) GetTimeline(ctx context.Context, p TimelineParams) (*TimelinePage, error) {
	if p.Type == "" {
		p.Type = TimelineAll
	}
	if p.Range == "" {
		p.Range = TimelineRangeAll
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = 20
	}

	params := url.Values{}
	params.Set("type", string(p.Type))
	params.Set("range", string(p.Range))
	params.Set("page", strconv.Itoa(p.Page))
	params.Set("per_page", strconv.Itoa(p.PerPage))

	var page TimelinePage
	if err := c.do(ctx, http.MethodGet, "/api/timeline", params, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
