package handlers

import "github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"

// The envelope types below mirror errors.Envelope for the swagger docs and tests.

// ErrorResponse is a failed envelope
// @Description Failed request. data is always null.
type ErrorResponse struct {
	Data     interface{} `json:"data"`
	IsFailed bool        `json:"isFailed" example:"true"`
	Message  string      `json:"message" example:"partNumber is required"`
}

// SearchResponse wraps one page of search results
// @Description Successful search. total counts every match, items holds the requested page.
type SearchResponse struct {
	Data     *models.SearchResult `json:"data"`
	IsFailed bool                 `json:"isFailed" example:"false"`
	Message  string               `json:"message,omitempty"`
}

// PeakAvailabilityResponse wraps a per-branch availability breakdown
// @Description Successful peak availability lookup. totalAvailable is the sum of branches[].qty.
type PeakAvailabilityResponse struct {
	Data     *models.AvailabilityResult `json:"data"`
	IsFailed bool                       `json:"isFailed" example:"false"`
	Message  string                     `json:"message,omitempty"`
}

// PartResponse wraps every branch record of one part
type PartResponse struct {
	Data     *[]models.InventoryItem `json:"data"`
	IsFailed bool                    `json:"isFailed" example:"false"`
	Message  string                  `json:"message,omitempty"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
