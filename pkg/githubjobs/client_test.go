package githubjobs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/positions.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("location") != "Berlin" || q.Get("description") != "DevOps" || q.Get("full_time") != "true" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"g1","title":"SRE","company":"Acme","location":"Berlin, Germany"}]`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	postings, err := c.Search(context.Background(), SearchParams{
		Description: "DevOps",
		Location:    "Berlin",
		FullTime:    true,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(postings) != 1 || postings[0].Company != "Acme" {
		t.Fatalf("unexpected postings %+v", postings)
	}
}

func TestSearch_Gone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer srv.Close()

	if _, err := NewClient(Config{BaseURL: srv.URL}).Search(context.Background(), SearchParams{}); err == nil {
		t.Fatal("expected an error for a retired endpoint")
	}
}
