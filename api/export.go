package api

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportJSON ExportFormat = "json"
)

// Export is a downloaded export blob. Filename comes from the response's
// Content-Disposition hint when present.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportApplications downloads the applications export, narrowed by filters.
func (c *Client) ExportApplications(ctx context.Context, format ExportFormat, filters ApplicationFilters) (*Export, error) {
	return c.export(ctx, "/api/export/applications", "applications", format, filters)
}

// ExportInterviews downloads the interviews export, narrowed by the same
// application filters.
func (c *Client) ExportInterviews(ctx context.Context, format ExportFormat, filters ApplicationFilters) (*Export, error) {
	return c.export(ctx, "/api/export/interviews", "interviews", format, filters)
}

func (c *Client) export(ctx context.Context, path, kind string, format ExportFormat, filters ApplicationFilters) (*Export, error) {
	if format == "" {
		format = ExportCSV
	}
	params := filters.query()
	params.Set("format", string(format))

	resp, err := c.send(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, DecodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	filename := exportFilename(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		filename = fmt.Sprintf("%s_%s.%s", kind, NowTimeFunc().Format("2006-01-02"), format)
	}

	return &Export{
		Filename:    filename,
		ContentType: resp.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// exportFilename extracts the filename hint from a Content-Disposition
// header, or "" when absent or malformed.
func exportFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
