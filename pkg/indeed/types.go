package indeed

import "net/http"

// Config defines Indeed publisher API settings
type Config struct {
	PublisherID string
	BaseURL     string
	HTTPClient  *http.Client
	Limit       int
	FromAgeDays int
}

// Client queries the Indeed publisher job search API
type Client struct {
	publisherID string
	baseURL     string
	httpClient  *http.Client
	limit       int
	fromAge     int
}

// SearchParams describe a job search request. Radius is in miles.
type SearchParams struct {
	Query       string
	Location    string
	RadiusMiles int
	JobType     string
}

type SearchResponse struct {
	TotalResults int       `json:"totalResults"`
	Results      []Posting `json:"results"`
}

// Posting is a single Indeed result as returned by the API
type Posting struct {
	JobKey            string   `json:"jobkey"`
	JobTitle          string   `json:"jobtitle"`
	Company           string   `json:"company"`
	City              string   `json:"city"`
	State             string   `json:"state"`
	Country           string   `json:"country"`
	FormattedLocation string   `json:"formattedLocation"`
	Snippet           string   `json:"snippet"`
	URL               string   `json:"url"`
	Date              string   `json:"date"`
	JobType           string   `json:"jobtype"`
	Salary            string   `json:"salary"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
}
