package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ApplicationStatus is a user-defined pipeline stage ("Applied",
// "Interviewing", ...).
type ApplicationStatus struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

type Job struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	JobType     string `json:"job_type,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
}

// Application is a job application with its joined job, company and status
// records, as returned by /api/applications/with-details.
type Application struct {
	ID                  string  `json:"id"`
	UserID              string  `json:"user_id"`
	JobID               string  `json:"job_id"`
	ApplicationStatusID string  `json:"application_status_id"`
	AppliedAt           string  `json:"applied_at"`
	OfferReceived       bool    `json:"offer_received"`
	AttemptNumber       int     `json:"attempt_number"`
	Notes               string  `json:"notes,omitempty"`
	ResumeFileID        *string `json:"resume_file_id,omitempty"`
	CoverLetterFileID   *string `json:"cover_letter_file_id,omitempty"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`

	Job     *Job               `json:"job,omitempty"`
	Company *Company           `json:"company,omitempty"`
	Status  *ApplicationStatus `json:"status,omitempty"`
}

type SortColumn string

const (
	SortByCompany   SortColumn = "company"
	SortByPosition  SortColumn = "position"
	SortByStatus    SortColumn = "status"
	SortByAppliedAt SortColumn = "applied_at"
	SortByLocation  SortColumn = "location"
)

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ApplicationFilters narrows and orders an application listing. Zero values
// are omitted from the query.
type ApplicationFilters struct {
	StatusIDs   []string
	CompanyName string
	JobTitle    string
	DateFrom    string // YYYY-MM-DD
	DateTo      string // YYYY-MM-DD
	SortBy      SortColumn
	SortOrder   SortOrder
	Page        int
	Limit       int
}

func (f ApplicationFilters) query() url.Values {
	params := url.Values{}
	if len(f.StatusIDs) > 0 {
		params.Set("status_ids", strings.Join(f.StatusIDs, ","))
	}
	if f.CompanyName != "" {
		params.Set("company_name", f.CompanyName)
	}
	if f.JobTitle != "" {
		params.Set("job_title", f.JobTitle)
	}
	if f.DateFrom != "" {
		params.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		params.Set("date_to", f.DateTo)
	}
	if f.SortBy != "" {
		params.Set("sort_by", string(f.SortBy))
	}
	if f.SortOrder != "" {
		params.Set("sort_order", string(f.SortOrder))
	}
	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	return params
}

// ApplicationList is one page of applications.
type ApplicationList struct {
	Applications []Application `json:"applications"`
	Total        int           `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
	HasMore      bool          `json:"has_more"`
}

// ListApplications returns applications with their job/company/status details.
func (c *Client) ListApplications(ctx context.Context, filters ApplicationFilters) (*ApplicationList, error) {
	var list ApplicationList
	if err := c.do(ctx, http.MethodGet, "/api/applications/with-details", filters.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetApplication returns a single application with details, or ErrNotFound.
func (c *Client) GetApplication(ctx context.Context, id string) (*Application, error) {
	var app Application
	if err := c.do(ctx, http.MethodGet, "/api/applications/"+id, nil, nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateApplicationRequest carries the mutable application fields. Nil fields
// are left untouched.
type UpdateApplicationRequest struct {
	ApplicationStatusID *string `json:"application_status_id,omitempty"`
	AppliedAt           *string `json:"applied_at,omitempty"`
	OfferReceived       *bool   `json:"offer_received,omitempty"`
	Notes               *string `json:"notes,omitempty"`
}

func (c *Client) UpdateApplication(ctx context.Context, id string, req UpdateApplicationRequest) (*Application, error) {
	var app Application
	if err := c.do(ctx, http.MethodPatch, "/api/applications/"+id, nil, req, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *Client) DeleteApplication(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/applications/"+id, nil, nil, nil)
}

type statusList struct {
	Statuses []ApplicationStatus `json:"statuses"`
}

// ListApplicationStatuses returns the user's pipeline stages.
func (c *Client) ListApplicationStatuses(ctx context.Context) ([]ApplicationStatus, error) {
	var list statusList
	if err := c.do(ctx, http.MethodGet, "/api/application-statuses", nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Statuses, nil
}
