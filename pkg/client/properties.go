// Package client holds helpers for consumers of the listings API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/smartrentsystem/backend/internal/domain/entities"
)

// Pagination mirrors the pagination block of GET /api/properties
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
	Pages int `json:"pages,omitempty"`
}

// PropertiesPage is a decoded GET /api/properties body
type PropertiesPage struct {
	Properties         []*entities.Listing `json:"properties"`
	Pagination         Pagination          `json:"pagination"`
	ActiveFilters      int                 `json:"activeFilters"`
	TotalBeforeFilters int                 `json:"totalBeforeFilters"`
}

// DecodePropertiesResponse accepts the paged object form as well as a bare
// array of listings. A bare array gets a pagination total of its length.
func DecodePropertiesResponse(data []byte) (*PropertiesPage, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty properties response")
	}

	switch data[0] {
	case '[':
		var listings []*entities.Listing
		if err := json.Unmarshal(data, &listings); err != nil {
			return nil, fmt.Errorf("decode properties array: %w", err)
		}
		return &PropertiesPage{
			Properties:         listings,
			Pagination:         Pagination{Total: len(listings)},
			TotalBeforeFilters: len(listings),
		}, nil

	case '{':
		var page PropertiesPage
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("decode properties object: %w", err)
		}
		if page.Properties == nil {
			page.Properties = []*entities.Listing{}
		}
		if page.Pagination.Total == 0 {
			page.Pagination.Total = len(page.Properties)
		}
		return &page, nil

	default:
		return nil, fmt.Errorf("unexpected properties response starting with %q", data[0])
	}
}
