// Package hub talks to the Docker Hub tag listing API. Lookups are
// best-effort: callers treat any error as "no additional information".
package hub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultBaseURL = "https://hub.docker.com"

type Client struct {
	base  string
	http  *http.Client
	cache *lru.Cache[string, []string]
}

// New builds a client with a bounded request timeout and an LRU cache of
// recent tag listings, so several FROM lines against the same image cost
// one round trip.
func New(timeout time.Duration, cacheSize int) *Client {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if cacheSize <= 0 {
		cacheSize = 64
	}
	cache, _ := lru.New[string, []string](cacheSize)
	return &Client{
		base:  defaultBaseURL,
		http:  &http.Client{Timeout: timeout},
		cache: cache,
	}
}

// WithBaseURL points the client at a different registry endpoint (tests).
func (c *Client) WithBaseURL(base string) *Client {
	c.base = base
	return c
}

type tagPage struct {
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

// Tags returns up to one page (100) of tag names for namespace/name.
func (c *Client) Tags(ctx context.Context, namespace, name string) ([]string, error) {
	key := namespace + "/" + name
	if tags, ok := c.cache.Get(key); ok {
		return tags, nil
	}

	u := fmt.Sprintf("%s/v2/repositories/%s/%s/tags?page_size=100",
		c.base, url.PathEscape(namespace), url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("hub: unexpected status %d for %s", resp.StatusCode, key)
	}

	var page tagPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("hub: decode tags for %s: %w", key, err)
	}
	tags := make([]string, 0, len(page.Results))
	for _, r := range page.Results {
		if r.Name != "" {
			tags = append(tags, r.Name)
		}
	}

	c.cache.Add(key, tags)
	return tags, nil
}
