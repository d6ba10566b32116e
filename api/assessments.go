package api

import (
	"context"
	"net/http"
	"net/url"
)

type AssessmentType string

const (
	AssessmentTakeHomeProject AssessmentType = "take_home_project"
	AssessmentLiveCoding      AssessmentType = "live_coding"
	AssessmentSystemDesign    AssessmentType = "system_design"
	AssessmentDataStructures  AssessmentType = "data_structures"
	AssessmentCaseStudy       AssessmentType = "case_study"
	AssessmentOther           AssessmentType = "other"
)

type AssessmentStatus string

const (
	AssessmentNotStarted AssessmentStatus = "not_started"
	AssessmentInProgress AssessmentStatus = "in_progress"
	AssessmentSubmitted  AssessmentStatus = "submitted"
	AssessmentPassed     AssessmentStatus = "passed"
	AssessmentFailed     AssessmentStatus = "failed"
)

type SubmissionType string

const (
	SubmissionGithub     SubmissionType = "github"
	SubmissionFileUpload SubmissionType = "file_upload"
	SubmissionNotes      SubmissionType = "notes"
)

type Assessment struct {
	ID             string           `json:"id"`
	ApplicationID  string           `json:"application_id"`
	InterviewID    string           `json:"interview_id,omitempty"`
	AssessmentType AssessmentType   `json:"assessment_type"`
	Status         AssessmentStatus `json:"status"`
	DueDate        string           `json:"due_date,omitempty"`
	SubmissionType SubmissionType   `json:"submission_type,omitempty"`
	SubmissionURL  string           `json:"submission_url,omitempty"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      string           `json:"created_at"`
	UpdatedAt      string           `json:"updated_at"`
}

type CreateAssessmentRequest struct {
	ApplicationID  string         `json:"application_id"`
	InterviewID    string         `json:"interview_id,omitempty"`
	AssessmentType AssessmentType `json:"assessment_type"`
	DueDate        string         `json:"due_date,omitempty"`
	Notes          string         `json:"notes,omitempty"`
}

func (c *Client) CreateAssessment(ctx context.Context, req CreateAssessmentRequest) (*Assessment, error) {
	var assessment Assessment
	if err := c.do(ctx, http.MethodPost, "/api/assessments", nil, req, &assessment); err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (c *Client) ListAssessments(ctx context.Context, applicationID string) ([]Assessment, error) {
	params := url.Values{}
	params.Set("application_id", applicationID)

	var assessments []Assessment
	if err := c.do(ctx, http.MethodGet, "/api/assessments", params, nil, &assessments); err != nil {
		return nil, err
	}
	return assessments, nil
}

type UpdateAssessmentRequest struct {
	Status         *AssessmentStatus `json:"status,omitempty"`
	DueDate        *string           `json:"due_date,omitempty"`
	SubmissionType *SubmissionType   `json:"submission_type,omitempty"`
	SubmissionURL  *string           `json:"submission_url,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
}

func (c *Client) UpdateAssessment(ctx context.Context, id string, req UpdateAssessmentRequest) (*Assessment, error) {
	var assessment Assessment
	if err := c.do(ctx, http.MethodPatch, "/api/assessments/"+id, nil, req, &assessment); err != nil {
		return nil, err
	}
	return &assessment, nil
}

func (c *Client) DeleteAssessment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/assessments/"+id, nil, nil, nil)
}
