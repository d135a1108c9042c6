package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinels used when a vendor payload lacks a value
const (
	UnknownValue = "Unknown"
	UnknownTitle = "Unknown Position"
	NotAvailable = "N/A"
)

// jobNamespace seeds name-based job identifiers
var jobNamespace = uuid.MustParse("6f1c2a4e-5b7d-4c1e-9a3f-2d8e0b7c4a91")

// Company is the employer as reported by the vendor
type Company struct {
	DisplayName string `json:"display_name"`
}

// Location holds the vendor's location fragments (city, region, country)
type Location struct {
	Area []string `json:"area"`
}

// Category is a best-effort classification label
type Category struct {
	Label string `json:"label"`
}

// CompanyMetadata is contact information for the employer
type CompanyMetadata struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	MapsURL string `json:"maps_url"`
}

// Job is the canonical, vendor-agnostic job posting
type Job struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Company         Company         `json:"company"`
	Location        Location        `json:"location"`
	Description     string          `json:"description,omitempty"`
	RedirectURL     string          `json:"redirect_url,omitempty"`
	Latitude        *float64        `json:"latitude"`
	Longitude       *float64        `json:"longitude"`
	Distance        *float64        `json:"distance,omitempty"`
	Category        Category        `json:"category"`
	ContractType    string          `json:"contract_type"`
	SalaryMin       *float64        `json:"salary_min,omitempty"`
	SalaryMax       *float64        `json:"salary_max,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	CompanyMetadata CompanyMetadata `json:"company_metadata"`
	SourceAPI       string          `json:"source_api"`
	Created         *time.Time      `json:"created"`
}

// NewJob returns a job carrying every sentinel default for the given source
func NewJob(source string) Job {
	return Job{
		Title:        UnknownTitle,
		Company:      Company{DisplayName: UnknownValue},
		Location:     Location{Area: []string{}},
		Category:     Category{Label: UnknownValue},
		ContractType: UnknownValue,
		CompanyMetadata: CompanyMetadata{
			Address: NotAvailable,
			Phone:   NotAvailable,
			Website: NotAvailable,
			MapsURL: NotAvailable,
		},
		SourceAPI: source,
	}
}

// HasCoordinates reports whether both latitude and longitude are present.
// A zero pair is treated as absent, vendors use it for "unknown".
func (j Job) HasCoordinates() bool {
	if j.Latitude == nil || j.Longitude == nil {
		return false
	}
	return *j.Latitude != 0 || *j.Longitude != 0
}

// MetadataUnset reports whether no company metadata field carries a value
func (j Job) MetadataUnset() bool {
	return isBlank(j.CompanyMetadata.Address) &&
		isBlank(j.CompanyMetadata.Phone) &&
		isBlank(j.CompanyMetadata.Website) &&
		isBlank(j.CompanyMetadata.MapsURL)
}

// Populated counts the fields that carry real (non-empty, non-sentinel) data
func (j Job) Populated() int {
	n := 0
	for _, s := range []string{
		j.ID, j.Title, j.Company.DisplayName, j.Description, j.RedirectURL,
		j.Category.Label, j.ContractType, j.Currency, j.SourceAPI,
		j.CompanyMetadata.Address, j.CompanyMetadata.Phone,
		j.CompanyMetadata.Website, j.CompanyMetadata.MapsURL,
	} {
		if !isBlank(s) {
			n++
		}
	}
	for _, f := range []*float64{j.Latitude, j.Longitude, j.Distance, j.SalaryMin, j.SalaryMax} {
		if f != nil {
			n++
		}
	}
	if len(j.Location.Area) > 0 {
		n++
	}
	if j.Created != nil {
		n++
	}
	return n
}

// DedupKey identifies the same posting across vendors
func (j Job) DedupKey() string {
	return normalize(j.Title) + "\x00" + normalize(j.Company.DisplayName)
}

// DeriveJobID builds a stable identifier from title, company and location area
func DeriveJobID(title, company string, area []string) string {
	name := normalize(title) + "|" + normalize(company) + "|" + normalize(strings.Join(area, ","))
	return uuid.NewSHA1(jobNamespace, []byte(name)).String()
}

// Float returns a pointer to v, for optional numeric fields
func Float(v float64) *float64 {
	return &v
}

// OrDefault returns s unless it is blank, then def
func OrDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// IsUnknown reports whether s is empty or one of the sentinel values
func IsUnknown(s string) bool {
	return isBlank(s)
}

func isBlank(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == NotAvailable || s == UnknownValue || s == UnknownTitle
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// SearchRequest is a location-scoped job query. Radius is in kilometers.
type SearchRequest struct {
	Location   string
	Radius     float64
	Categories []string
	JobTypes   []string
}

// Validate rejects requests that must never reach a connector
func (r SearchRequest) Validate() error {
	if strings.TrimSpace(r.Location) == "" {
		return InvalidInput("location is required", nil)
	}
	if r.Radius <= 0 {
		return InvalidInput("radius must be greater than zero", nil)
	}
	return nil
}

// SearchCenter is the geocoded origin of a search
type SearchCenter struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
}

// SearchResult wraps aggregated search output
type SearchResult struct {
	ID          string       `json:"search_id"`
	Jobs        []Job        `json:"results"`
	Total       int          `json:"total"`
	Center      SearchCenter `json:"center"`
	SourceCount int          `json:"source_count"`
	FetchedAt   time.Time    `json:"fetched_at"`
}

// SavedCompany is a company bookmarked by the user
type SavedCompany struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Metadata CompanyMetadata `json:"company_metadata"`
	JobID    string          `json:"job_id,omitempty"`
	JobTitle string          `json:"job_title,omitempty"`
	Notes    string          `json:"notes,omitempty"`
	SavedAt  time.Time       `json:"saved_at"`
}
