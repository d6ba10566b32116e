package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// StatusCounts breaks the application total down by pipeline stage.
type StatusCounts struct {
	Saved     int `json:"saved"`
	Applied   int `json:"applied"`
	Interview int `json:"interview"`
	Offer     int `json:"offer"`
	Rejected  int `json:"rejected"`
}

// DashboardStats is the headline summary shown on the dashboard.
type DashboardStats struct {
	TotalApplications  int          `json:"total_applications"`
	ActiveApplications int          `json:"active_applications"`
	InterviewCount     int          `json:"interview_count"`
	OfferCount         int          `json:"offer_count"`
	StatusCounts       StatusCounts `json:"status_counts"`
	UpdatedAt          string       `json:"updated_at"`
}

func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

type UpcomingFilterType string

const (
	UpcomingAll         UpcomingFilterType = "all"
	UpcomingInterviews  UpcomingFilterType = "interviews"
	UpcomingAssessments UpcomingFilterType = "assessments"
)

// Countdown describes how soon an upcoming item is due.
type Countdown struct {
	Text      string `json:"text"`
	Urgency   string `json:"urgency"` // overdue | today | upcoming | scheduled
	DaysUntil int    `json:"days_until"`
}

// UpcomingItem is an interview or assessment with an approaching date.
type UpcomingItem struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"` // interview | assessment
	Title         string    `json:"title"`
	CompanyName   string    `json:"company_name"`
	JobTitle      string    `json:"job_title"`
	DueDate       string    `json:"due_date"`
	ApplicationID string    `json:"application_id"`
	Countdown     Countdown `json:"countdown"`
	Link          string    `json:"link"`
}

// ListUpcoming returns the next due interviews and assessments. A limit of
// zero or less falls back to the backend default of 4; "all" is implied by
// an empty filter.
func (c *Client) ListUpcoming(ctx context.Context, limit int, filter UpcomingFilterType) ([]UpcomingItem, error) {
	if limit <= 0 {
		limit = 4
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if filter != "" && filter != UpcomingAll {
		params.Set("type", string(filter))
	}

	var items []UpcomingItem
	if err := c.do(ctx, http.MethodGet, "/api/dashboard/upcoming", params, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListRecentApplications returns the most recently updated applications for
// the dashboard, newest first.
func (c *Client) ListRecentApplications(ctx context.Context, limit int) ([]Application, error) {
	if limit <= 0 {
		limit = 4
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	var list ApplicationList
	if err := c.do(ctx, http.MethodGet, "/api/applications/recent", params, nil, &list); err != nil {
		return nil, err
	}
	return list.Applications, nil
}
