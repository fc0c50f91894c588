package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/su1ph3r/perlustro/pkg/types"
)

func testConfig(depth int) *types.Config {
	config := types.DefaultConfig()
	config.Crawl.MaxDepth = depth
	config.Crawl.Delay = 0
	config.Crawl.MaxRetries = 0
	config.Crawl.Timeout = 5 * time.Second
	return config
}

// countingHandler serves a small site and records how often each path is hit.
type countingHandler struct {
	mu    sync.Mutex
	hits  map[string]int
	pages map[string]string
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.hits[r.URL.Path]++
	h.mu.Unlock()

	body, ok := h.pages[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, body)
}

func (h *countingHandler) count(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[path]
}

func newTestSite(pages map[string]string) (*countingHandler, *httptest.Server) {
	handler := &countingHandler{hits: make(map[string]int), pages: pages}
	return handler, httptest.NewServer(handler)
}

func TestCrawlDepthZero(t *testing.T) {
	handler, server := newTestSite(map[string]string{
		"/": `<html><body>
			<a href="/next?id=5">Next</a>
			<form action="/login" method="post"><input name="user"><input name="pass"></form>
		</body></html>`,
		"/next": `<a href="/deeper">deeper</a>`,
	})
	defer server.Close()

	c := New(testConfig(0), nil)
	result, err := c.Crawl(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	if len(result.Pages) != 1 {
		t.Errorf("depth 0 should visit only the start page, got %v", result.Pages)
	}
	if handler.count("/next") != 0 {
		t.Error("depth 0 must not fetch linked pages")
	}

	if len(result.Forms) != 1 {
		t.Fatalf("expected 1 form from the start page, got %d", len(result.Forms))
	}
	form := result.Forms[0]
	if form.ActionURL != server.URL+"/login" || form.Method != "post" {
		t.Errorf("unexpected form: %+v", form)
	}

	if len(result.Params) != 1 || result.Params[0].URL != server.URL+"/next?id=5" {
		t.Errorf("expected the linked parameterized URL to be recorded, got %+v", result.Params)
	}
	if len(result.Params) == 1 && (len(result.Params[0].Params) != 1 || result.Params[0].Params[0] != "id") {
		t.Errorf("unexpected param names: %v", result.Params[0].Params)
	}
}

func TestCrawlVisitsEachPageOnce(t *testing.T) {
	handler, server := newTestSite(map[string]string{
		"/":  `<a href="/a">a</a> <a href="/b">b</a>`,
		"/a": `<a href="/">home</a> <a href="/b">b</a>`,
		"/b": `<a href="/a">a</a> <a href="/">home</a>`,
	})
	defer server.Close()

	c := New(testConfig(3), nil)
	result, err := c.Crawl(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	for _, path := range []string{"/", "/a", "/b"} {
		if n := handler.count(path); n != 1 {
			t.Errorf("page %s fetched %d times, want exactly once", path, n)
		}
	}
	if len(result.Pages) != 3 {
		t.Errorf("pages = %v, want 3 entries", result.Pages)
	}
	for i := 1; i < len(result.Pages); i++ {
		if result.Pages[i-1] >= result.Pages[i] {
			t.Errorf("pages not sorted: %v", result.Pages)
		}
	}
}

func TestCrawlDeduplicatesFormsAndParams(t *testing.T) {
	// The same form markup on one page, and the same parameterized link
	// reachable from two pages.
	_, server := newTestSite(map[string]string{
		"/": `
			<form action="/submit" method="post"><input name="a"></form>
			<form action="/submit" method="post"><input name="a"></form>
			<a href="/item?id=1">one</a>
			<a href="/x">x</a>`,
		"/x":    `<a href="/item?id=1">one again</a>`,
		"/item": `ok`,
	})
	defer server.Close()

	c := New(testConfig(2), nil)
	result, err := c.Crawl(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	if len(result.Forms) != 1 {
		t.Errorf("identical forms should collapse to one, got %d", len(result.Forms))
	}
	if len(result.Params) != 1 {
		t.Errorf("identical parameterized URLs should collapse to one, got %+v", result.Params)
	}
}

func TestCrawlParamDedupFirstWins(t *testing.T) {
	// Same URL string cannot carry different params, so exercise first-wins
	// through merge order: two pages link the same parameterized URL.
	_, server := newTestSite(map[string]string{
		"/":  `<a href="/p?id=1&sort=asc">p</a>`,
		"/p": `<a href="/p?id=1&sort=asc">self</a>`,
	})
	defer server.Close()

	c := New(testConfig(2), nil)
	result, err := c.Crawl(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	if len(result.Params) != 1 {
		t.Fatalf("expected a single param record, got %+v", result.Params)
	}
	want := []string{"id", "sort"}
	got := result.Params[0].Params
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("param names = %v, want %v", got, want)
	}
}

func TestCrawlUnreachablePageIsNotFatal(t *testing.T) {
	_, server := newTestSite(map[string]string{
		"/":      `<a href="http://127.0.0.1:1/dead">dead</a> <a href="/alive?x=1">alive</a>`,
		"/alive": `ok`,
	})
	defer server.Close()

	c := New(testConfig(1), nil)
	result, err := c.Crawl(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("an unreachable page must not fail the crawl: %v", err)
	}

	// The dead URL was attempted and stays in the visited page list.
	found := false
	for _, page := range result.Pages {
		if page == "http://127.0.0.1:1/dead" {
			found = true
		}
	}
	if !found {
		t.Errorf("unreachable page missing from pages: %v", result.Pages)
	}
	if len(result.Params) != 1 {
		t.Errorf("surviving pages should still be processed, params = %+v", result.Params)
	}
}

func TestCrawlBoundedConcurrency(t *testing.T) {
	const limit = 2

	var mu sync.Mutex
	inFlight, peak := 0, 0

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(30 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()

		if r.URL.Path == "/" {
			fmt.Fprint(w, `<a href="/1">1</a><a href="/2">2</a><a href="/3">3</a><a href="/4">4</a><a href="/5">5</a>`)
		}
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	config := testConfig(1)
	config.Crawl.Concurrency = limit
	c := New(config, nil)

	if _, err := c.Crawl(context.Background(), server.URL+"/"); err != nil {
		t.Fatalf("Crawl failed: %v", err)
	}

	if peak > limit {
		t.Errorf("peak concurrency %d exceeded limit %d", peak, limit)
	}
}

func TestCrawlInvalidStartURL(t *testing.T) {
	c := New(testConfig(1), nil)
	if _, err := c.Crawl(context.Background(), "javascript:alert(1)"); err == nil {
		t.Error("expected error for non-http start URL")
	}
}

func TestCrawlContextCancellation(t *testing.T) {
	_, server := newTestSite(map[string]string{"/": `<a href="/a">a</a>`, "/a": `ok`})
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(testConfig(2), nil)
	if _, err := c.Crawl(ctx, server.URL+"/"); err == nil {
		t.Error("expected error from cancelled context")
	}
}
