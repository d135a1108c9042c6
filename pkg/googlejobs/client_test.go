package googlejobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if !strings.HasSuffix(r.URL.Path, "/v4/projects/proj-1/tenants/default/jobs:search") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "AIzaTest" {
			t.Errorf("expected api key on the query, got %q", r.URL.RawQuery)
		}

		var body struct {
			SearchMode string `json:"searchMode"`
			JobQuery   struct {
				Query           string   `json:"query"`
				EmploymentTypes []string `json:"employmentTypes"`
				LocationFilters []struct {
					Address         string  `json:"address"`
					DistanceInMiles float64 `json:"distanceInMiles"`
				} `json:"locationFilters"`
			} `json:"jobQuery"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
			return
		}
		if body.SearchMode != "JOB_SEARCH" || body.JobQuery.Query != "IT OR Sales" {
			t.Errorf("unexpected body %+v", body)
		}
		if len(body.JobQuery.LocationFilters) != 1 || body.JobQuery.LocationFilters[0].Address != "London" {
			t.Errorf("unexpected location filters %+v", body.JobQuery.LocationFilters)
		}
		if len(body.JobQuery.EmploymentTypes) != 1 || body.JobQuery.EmploymentTypes[0] != "FULL_TIME" {
			t.Errorf("unexpected employment types %v", body.JobQuery.EmploymentTypes)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"matchingJobs":[{"job":{
			"name":"projects/proj-1/tenants/default/jobs/1",
			"title":"Data Engineer",
			"companyDisplayName":"Acme"
		}},{}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), Config{
		APIKey:    "AIzaTest",
		ProjectID: "proj-1",
		Endpoint:  srv.URL + "/",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	got, err := c.Search(context.Background(), SearchParams{
		Query:           "IT OR Sales",
		Address:         "London",
		DistanceMiles:   6.2,
		EmploymentTypes: []string{"FULL_TIME"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].CompanyDisplayName != "Acme" {
		t.Fatalf("unexpected jobs %+v", got)
	}
}

func TestNewClient_RequiresCredentials(t *testing.T) {
	if _, err := NewClient(context.Background(), Config{APIKey: "k"}); err == nil {
		t.Fatal("expected an error without a project id")
	}
}
