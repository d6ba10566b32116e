package api

import (
	"context"
	"net/http"
	"net/url"
)

type InterviewType string

const (
	InterviewPhoneScreen InterviewType = "phone_screen"
	InterviewTechnical   InterviewType = "technical"
	InterviewBehavioral  InterviewType = "behavioral"
	InterviewPanel       InterviewType = "panel"
	InterviewOnsite      InterviewType = "onsite"
	InterviewOther       InterviewType = "other"
)

type Interview struct {
	ID              string `json:"id"`
	ApplicationID   string `json:"application_id"`
	RoundNumber     int    `json:"round_number"`
	InterviewType   string `json:"interview_type"`
	ScheduledDate   string `json:"scheduled_date"`
	ScheduledTime   string `json:"scheduled_time,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type CreateInterviewRequest struct {
	ApplicationID   string        `json:"application_id"`
	InterviewType   InterviewType `json:"interview_type"`
	ScheduledDate   string        `json:"scheduled_date"`
	ScheduledTime   string        `json:"scheduled_time,omitempty"`
	DurationMinutes *int          `json:"duration_minutes,omitempty"`
}

type interviewResponse struct {
	Interview Interview `json:"interview"`
}

func (c *Client) CreateInterview(ctx context.Context, req CreateInterviewRequest) (*Interview, error) {
	var resp interviewResponse
	if err := c.do(ctx, http.MethodPost, "/api/interviews", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Interview, nil
}

// ListInterviews returns the interviews for one application, ordered by round.
func (c *Client) ListInterviews(ctx context.Context, applicationID string) ([]Interview, error) {
	params := url.Values{}
	params.Set("application_id", applicationID)

	var interviews []Interview
	if err := c.do(ctx, http.MethodGet, "/api/interviews", params, nil, &interviews); err != nil {
		return nil, err
	}
	return interviews, nil
}

type UpdateInterviewRequest struct {
	InterviewType   *InterviewType `json:"interview_type,omitempty"`
	ScheduledDate   *string        `json:"scheduled_date,omitempty"`
	ScheduledTime   *string        `json:"scheduled_time,omitempty"`
	DurationMinutes *int           `json:"duration_minutes,omitempty"`
}

func (c *Client) UpdateInterview(ctx context.Context, id string, req UpdateInterviewRequest) (*Interview, error) {
	var resp interviewResponse
	if err := c.do(ctx, http.MethodPut, "/api/interviews/"+id, nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Interview, nil
}

func (c *Client) DeleteInterview(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/interviews/"+id, nil, nil, nil)
}
