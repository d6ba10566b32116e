package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// MinSearchQueryLength is the shortest query sent to the backend. Shorter
// queries return an empty result set without a network call.
const MinSearchQueryLength = 3

// SearchResult is one full-text match across the user's records.
type SearchResult struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"` // application | interview | assessment | note
	Title       string  `json:"title"`
	Snippet     string  `json:"snippet"`
	CompanyName string  `json:"company_name,omitempty"`
	Rank        float64 `json:"rank"`
	Link        string  `json:"link"`
	UpdatedAt   string  `json:"updated_at"`
}

// SearchResults groups matches by record type.
type SearchResults struct {
	Applications []SearchResult `json:"applications"`
	Interviews   []SearchResult `json:"interviews"`
	Assessments  []SearchResult `json:"assessments"`
	Notes        []SearchResult `json:"notes"`
	TotalCount   int            `json:"total_count"`
	Query        string         `json:"query"`
}

// Search runs a full-text search across applications, interviews,
// assessments and notes. Queries shorter than MinSearchQueryLength
// short-circuit to an empty result. A limit of zero or less falls back to
// the backend default of 10 per group.
func (c *Client) Search(ctx context.Context, query string, limit int) (*SearchResults, error) {
	if len(query) < MinSearchQueryLength {
		return &SearchResults{Query: query}, nil
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var results SearchResults
	if err := c.do(ctx, http.MethodGet, "/api/search", params, nil, &results); err != nil {
		return nil, err
	}
	return &results, nil
}
