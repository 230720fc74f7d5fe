package marketplaceclient

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"renohub/services/assistant-api/internal/domain/marketplace"
)

// Client is the HTTP read client for the marketplace catalogue service. It
// implements marketplace.Reader.
type Client struct {
	httpClient *resty.Client
}

// NewClient creates a Resty-backed marketplace client.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(10 * time.Second),
	}
}

type searchResponse struct {
	Professionals []marketplace.Professional `json:"professionals"`
	Total         int                        `json:"total"`
}

type reviewsResponse struct {
	Reviews []marketplace.Review `json:"reviews"`
}

type categoriesResponse struct {
	Categories []marketplace.Category `json:"categories"`
}

// SearchProfessionals calls GET /v1/professionals with the query filters.
func (c *Client) SearchProfessionals(ctx context.Context, query marketplace.SearchQuery) ([]marketplace.Professional, int, error) {
	params := map[string]string{
		"sort":  string(query.Sort),
		"limit": strconv.Itoa(query.Limit),
	}
	if query.Category != "" {
		params["category"] = query.Category
	}
	if query.Subcategory != "" {
		params["subcategory"] = query.Subcategory
	}
	if query.MinRating != nil {
		params["min_rating"] = strconv.FormatFloat(*query.MinRating, 'f', -1, 64)
	}
	if query.MinPrice != nil {
		params["min_price"] = strconv.FormatFloat(*query.MinPrice, 'f', -1, 64)
	}
	if query.MaxPrice != nil {
		params["max_price"] = strconv.FormatFloat(*query.MaxPrice, 'f', -1, 64)
	}

	var result searchResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(&result).
		Get("/v1/professionals")
	if err != nil {
		return nil, 0, err
	}
	if resp.IsError() {
		return nil, 0, fmt.Errorf("marketplace api error: %s", resp.String())
	}
	return result.Professionals, result.Total, nil
}

// GetProfessional calls GET /v1/professionals/{id}.
func (c *Client) GetProfessional(ctx context.Context, id string) (*marketplace.Professional, error) {
	var result marketplace.Professional
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&result).
		Get("/v1/professionals/{id}")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, marketplace.ErrNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("marketplace api error: %s", resp.String())
	}
	return &result, nil
}

// ListReviews calls GET /v1/professionals/{id}/reviews.
func (c *Client) ListReviews(ctx context.Context, professionalID string, limit int) ([]marketplace.Review, error) {
	var result reviewsResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", professionalID).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&result).
		Get("/v1/professionals/{id}/reviews")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, marketplace.ErrNotFound
	}
	if resp.IsError() {
		return nil, fmt.Errorf("marketplace api error: %s", resp.String())
	}
	return result.Reviews, nil
}

// ListCategories calls GET /v1/categories.
func (c *Client) ListCategories(ctx context.Context) ([]marketplace.Category, error) {
	var result categoriesResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/v1/categories")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("marketplace api error: %s", resp.String())
	}
	return result.Categories, nil
}

// Ensure interface compliance.
var _ marketplace.Reader = (*Client)(nil)
