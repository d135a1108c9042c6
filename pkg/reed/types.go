package reed

import "net/http"

// Config defines Reed API client settings
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	PageSize   int
}

// Client queries the Reed.co.uk job search API
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	pageSize   int
}

// SearchParams describe a job search request. Distance is in miles.
type SearchParams struct {
	Keywords      string
	LocationName  string
	DistanceMiles int
	FullTime      bool
	PartTime      bool
	Permanent     bool
	Contract      bool
	Temp          bool
}

type SearchResponse struct {
	TotalResults int       `json:"totalResults"`
	Results      []Posting `json:"results"`
}

// Posting is a single Reed result as returned by the API
type Posting struct {
	JobID          int      `json:"jobId"`
	EmployerName   string   `json:"employerName"`
	JobTitle       string   `json:"jobTitle"`
	LocationName   string   `json:"locationName"`
	TownName       string   `json:"townName"`
	MinimumSalary  *float64 `json:"minimumSalary"`
	MaximumSalary  *float64 `json:"maximumSalary"`
	Currency       string   `json:"currency"`
	Date           string   `json:"date"`
	DatePosted     string   `json:"datePosted"`
	JobDescription string   `json:"jobDescription"`
	JobURL         string   `json:"jobUrl"`
	ContractType   string   `json:"contractType"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
}
