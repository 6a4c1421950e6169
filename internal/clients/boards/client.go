package boards

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

type getListingsResponse struct {
	Listings []ListingPreview `json:"items"`
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to a job board's public JSON API.
type Client struct {
	baseURL     string
	httpClient  HTTPClient
	rateLimiter *rate.Limiter
}

func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, httpClient: &http.Client{}}
}

func (c *Client) SetHTTPClient(client HTTPClient) {
	c.httpClient = client
}

func (c *Client) SetRateLimit(maxRequestsPerSecond float32) {
	c.rateLimiter = rate.NewLimiter(rate.Limit(maxRequestsPerSecond), 1)
}

func (c *Client) GetListings(parameters SearchParameters) ([]ListingPreview, error) {

	if err := parameters.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	apiURL := c.baseURL + "/vacancies"
	params := parameters.ToUrlParams()

	body, err := c.sendRequest("GET", apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var listingsResponse getListingsResponse
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&listingsResponse); err != nil {
		return nil, fmt.Errorf("error decoding JSON response: %v", err)
	}

	return listingsResponse.Listings, nil
}

func (c *Client) GetListing(id string) (Listing, error) {

	apiURL := c.baseURL + "/vacancies/" + id

	body, err := c.sendRequest("GET", apiURL, nil)
	if err != nil {
		return Listing{}, err
	}

	var listing Listing
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&listing); err != nil {
		return Listing{}, fmt.Errorf("error decoding JSON response: %v", err)
	}

	return listing, nil
}

func (c *Client) sendRequest(method, url string, requestBody io.Reader) ([]byte, error) {

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(context.Background()); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequest(method, url, requestBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %v", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %v", err)
	}

	return body, nil
}
