package hub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestTags(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/v2/repositories/library/python/tags" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("page_size") != "100" {
			t.Errorf("page_size = %q", r.URL.Query().Get("page_size"))
		}
		w.Write([]byte(`{"results":[{"name":"3.12"},{"name":"latest"},{"name":""}]}`))
	}))
	defer srv.Close()

	c := New(time.Second, 8).WithBaseURL(srv.URL)

	tags, err := c.Tags(context.Background(), "library", "python")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 || tags[0] != "3.12" || tags[1] != "latest" {
		t.Errorf("tags = %v", tags)
	}

	// Second lookup for the same repository is served from cache.
	if _, err := c.Tags(context.Background(), "library", "python"); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestTags_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(time.Second, 8).WithBaseURL(srv.URL)
	if _, err := c.Tags(context.Background(), "library", "nosuch"); err == nil {
		t.Fatal("want error on 404")
	}
}

func TestTags_ErrorsAreNotCached(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"results":[{"name":"1.0"}]}`))
	}))
	defer srv.Close()

	c := New(time.Second, 8).WithBaseURL(srv.URL)
	if _, err := c.Tags(context.Background(), "library", "app"); err == nil {
		t.Fatal("want error on 500")
	}
	tags, err := c.Tags(context.Background(), "library", "app")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 || tags[0] != "1.0" {
		t.Errorf("tags = %v", tags)
	}
}
