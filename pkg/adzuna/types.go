package adzuna

import (
	"net/http"
)

// Config defines Adzuna API client settings
type Config struct {
	AppID      string
	AppKey     string
	Country    string
	BaseURL    string
	HTTPClient *http.Client
	PageSize   int
}

// Client queries Adzuna job search API
type Client struct {
	appID      string
	appKey     string
	country    string
	baseURL    string
	httpClient *http.Client
	pageSize   int
}

// SearchParams describe a job search request. Zero values are omitted.
type SearchParams struct {
	What       string
	Where      string
	DistanceKm int
	FullTime   bool
	PartTime   bool
	Contract   bool
	Permanent  bool
}

// SearchResponse is the Adzuna search payload
type SearchResponse struct {
	Count   int       `json:"count"`
	Mean    float64   `json:"mean"`
	Results []Posting `json:"results"`
}

// Posting is a single Adzuna result as returned by the API
type Posting struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Company      Company  `json:"company"`
	Location     Location `json:"location"`
	Description  string   `json:"description"`
	Created      string   `json:"created"`
	RedirectURL  string   `json:"redirect_url"`
	ContractTime string   `json:"contract_time"`
	ContractType string   `json:"contract_type"`
	Category     Category `json:"category"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	SalaryMin    *float64 `json:"salary_min"`
	SalaryMax    *float64 `json:"salary_max"`
}

type Company struct {
	DisplayName string `json:"display_name"`
}

type Location struct {
	DisplayName string   `json:"display_name"`
	Area        []string `json:"area"`
}

type Category struct {
	Label string `json:"label"`
	Tag   string `json:"tag"`
}
