package reed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/honeycarbs/company-hunter/pkg/apierror"
)

func TestSearch_SendsBasicAuthAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "secret" || pass != "" {
			t.Errorf("unexpected basic auth %q:%q (%v)", user, pass, ok)
		}
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		q := r.URL.Query()
		want := map[string]string{
			"keywords":             "IT & Telecoms",
			"locationName":         "Leeds",
			"distanceFromLocation": "6",
			"resultsToTake":        "100",
			"fullTime":             "true",
		}
		for k, v := range want {
			if q.Get(k) != v {
				t.Errorf("%s = %q, want %q", k, q.Get(k), v)
			}
		}
		if q.Has("partTime") {
			t.Error("expected partTime to be omitted")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"totalResults":1,"results":[{
			"jobId":42,
			"employerName":"Acme",
			"jobTitle":"Support Engineer",
			"locationName":"Leeds",
			"minimumSalary":30000,
			"maximumSalary":35000,
			"date":"01/03/2024",
			"jobUrl":"https://www.reed.co.uk/jobs/42"
		}]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "secret", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := c.Search(context.Background(), SearchParams{
		Keywords:      "IT & Telecoms",
		LocationName:  "Leeds",
		DistanceMiles: 6,
		FullTime:      true,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].JobID != 42 {
		t.Fatalf("unexpected results %+v", resp.Results)
	}
	if resp.Results[0].MaximumSalary == nil || *resp.Results[0].MaximumSalary != 35000 {
		t.Errorf("unexpected maximum salary %v", resp.Results[0].MaximumSalary)
	}
}

func TestSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, _ := NewClient(Config{APIKey: "bad", BaseURL: srv.URL})
	if _, err := c.Search(context.Background(), SearchParams{}); apierror.StatusCode(err) != http.StatusForbidden {
		t.Fatalf("expected a 403 API error, got %v", err)
	}
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected an error without an api key")
	}
}
