package api

import (
	"context"
	"net/http"
	"net/url"
)

// PresignedUpload is the negotiated upload target: a time-limited URL the
// file bytes are PUT to directly, bypassing the backend.
type PresignedUpload struct {
	PresignedURL string `json:"presigned_url"`
	S3Key        string `json:"s3_key"`
	ExpiresIn    int    `json:"expires_in"`
}

// FileRecord is the backend's record of a confirmed upload.
type FileRecord struct {
	ID         string `json:"id"`
	FileName   string `json:"file_name"`
	FileType   string `json:"file_type"`
	FileSize   int64  `json:"file_size"`
	S3Key      string `json:"s3_key"`
	UploadedAt string `json:"uploaded_at"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// PresignUploadRequest describes the file and the records that will own it.
// SubmissionContext is "assessment" for assessment submissions, empty
// otherwise.
type PresignUploadRequest struct {
	FileName          string `json:"file_name"`
	FileType          string `json:"file_type"`
	FileSize          int64  `json:"file_size"`
	ApplicationID     string `json:"application_id"`
	InterviewID       string `json:"interview_id,omitempty"`
	SubmissionContext string `json:"submission_context,omitempty"`
}

// PresignUpload negotiates an upload target for the described file.
func (c *Client) PresignUpload(ctx context.Context, req PresignUploadRequest) (*PresignedUpload, error) {
	var presigned PresignedUpload
	if err := c.do(ctx, http.MethodPost, "/api/files/presigned-upload", nil, req, &presigned); err != nil {
		return nil, err
	}
	return &presigned, nil
}

// ConfirmUploadRequest associates a transferred object with its owning
// records.
type ConfirmUploadRequest struct {
	S3Key             string `json:"s3_key"`
	FileName          string `json:"file_name"`
	FileType          string `json:"file_type"`
	FileSize          int64  `json:"file_size"`
	ApplicationID     string `json:"application_id"`
	InterviewID       string `json:"interview_id,omitempty"`
	SubmissionContext string `json:"submission_context,omitempty"`
}

// ConfirmUpload finalizes an upload after the bytes have reached storage.
func (c *Client) ConfirmUpload(ctx context.Context, req ConfirmUploadRequest) (*FileRecord, error) {
	var record FileRecord
	if err := c.do(ctx, http.MethodPost, "/api/files/confirm-upload", nil, req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListFiles returns file records scoped to an application and/or interview.
func (c *Client) ListFiles(ctx context.Context, applicationID, interviewID string) ([]FileRecord, error) {
	params := url.Values{}
	if applicationID != "" {
		params.Set("application_id", applicationID)
	}
	if interviewID != "" {
		params.Set("interview_id", interviewID)
	}

	var records []FileRecord
	if err := c.do(ctx, http.MethodGet, "/api/files", params, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FileDownload is a time-limited download URL for a stored file.
type FileDownload struct {
	PresignedURL string `json:"presigned_url"`
	ExpiresIn    int    `json:"expires_in"`
	FileName     string `json:"file_name"`
	FileSize     int64  `json:"file_size"`
	FileType     string `json:"file_type"`
}

func (c *Client) GetFileDownload(ctx context.Context, fileID string) (*FileDownload, error) {
	var download FileDownload
	if err := c.do(ctx, http.MethodGet, "/api/files/"+fileID+"/download", nil, nil, &download); err != nil {
		return nil, err
	}
	return &download, nil
}

func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	return c.do(ctx, http.MethodDelete, "/api/files/"+fileID, nil, nil, nil)
}
