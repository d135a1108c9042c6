package places

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("places: no matching business")

// Details is the contact information of a business listing
type Details struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Website string `json:"website"`
	MapsURL string `json:"maps_url"`
}

// Finder looks up a business by name, optionally near a place
type Finder interface {
	Lookup(ctx context.Context, company, near string) (Details, error)
}

func queryText(company, near string) string {
	company = strings.TrimSpace(company)
	near = strings.TrimSpace(near)
	if near == "" {
		return company
	}
	return company + " " + near
}
