package api

import (
	"context"
	"net/http"
	"net/url"
)

// StorageStats reports the user's file storage quota usage.
type StorageStats struct {
	UsedBytes       int64   `json:"used_bytes"`
	TotalBytes      int64   `json:"total_bytes"`
	FileCount       int     `json:"file_count"`
	UsagePercentage float64 `json:"usage_percentage"`
	Warning         bool    `json:"warning"`
	LimitReached    bool    `json:"limit_reached"`
}

func (c *Client) GetStorageStats(ctx context.Context) (*StorageStats, error) {
	var stats StorageStats
	if err := c.do(ctx, http.MethodGet, "/api/users/storage-stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// CanUpload reports whether a file of the given size fits in the remaining
// quota.
func (s *StorageStats) CanUpload(fileSize int64) bool {
	return s.UsedBytes+fileSize <= s.TotalBytes
}

// UserFile is a stored file with the application it belongs to.
type UserFile struct {
	ID                 string `json:"id"`
	FileName           string `json:"file_name"`
	FileType           string `json:"file_type"`
	FileSize           int64  `json:"file_size"`
	ApplicationID      string `json:"application_id"`
	UploadedAt         string `json:"uploaded_at"`
	ApplicationCompany string `json:"application_company,omitempty"`
	ApplicationTitle   string `json:"application_title,omitempty"`
}

type userFileList struct {
	Files []UserFile `json:"files"`
}

// ListUserFiles returns every stored file, sorted by the given column
// (file_size when empty).
func (c *Client) ListUserFiles(ctx context.Context, sortBy string) ([]UserFile, error) {
	if sortBy == "" {
		sortBy = "file_size"
	}
	params := url.Values{}
	params.Set("sort_by", sortBy)

	var list userFileList
	if err := c.do(ctx, http.MethodGet, "/api/users/files", params, nil, &list); err != nil {
		return nil, err
	}
	return list.Files, nil
}
