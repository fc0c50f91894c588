package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/su1ph3r/perlustro/pkg/types"
)

// Crawler walks a target site breadth-first, collecting pages, forms, and
// parameterized URLs up to a configured depth. At most Concurrency fetches
// are in flight at once; a politeness delay elapses after every fetch.
type Crawler struct {
	client *http.Client
	cfg    types.CrawlSettings
	http   types.HTTPSettings
	retry  RetryPolicy
	sink   types.EventSink
}

// New creates a crawler from the given configuration.
func New(config *types.Config, sink types.EventSink) *Crawler {
	if sink == nil {
		sink = types.NopSink{}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if config.HTTP.ProxyURL != "" {
		if proxyURL, err := url.Parse(config.HTTP.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &Crawler{
		client: &http.Client{
			Timeout:   config.Crawl.Timeout,
			Transport: transport,
		},
		cfg:   config.Crawl,
		http:  config.HTTP,
		retry: DefaultRetryPolicy(config.Crawl.MaxRetries),
		sink:  sink,
	}
}

// SetRetryPolicy replaces the default retry policy. Mainly for tests, which
// inject a policy with a fake sleep.
func (c *Crawler) SetRetryPolicy(p RetryPolicy) {
	c.retry = p
}

// pageResult carries one fetched page's extraction back to the level loop.
type pageResult struct {
	pageURL string
	status  int
	content *PageContent
}

// Crawl performs a breadth-first crawl starting from startURL. The frontier
// is drained level by level: every URL at the current depth is fetched
// before any URL at the next depth. An unreachable page is recorded with
// status 0 and never aborts the crawl.
func (c *Crawler) Crawl(ctx context.Context, startURL string) (*types.CrawlResult, error) {
	start, ok := NormalizeURL(startURL, startURL)
	if !ok {
		return nil, fmt.Errorf("invalid start URL: %q", startURL)
	}

	visited := map[string]bool{start: true}
	formSeen := make(map[string]bool)
	paramSeen := make(map[string]bool)
	result := &types.CrawlResult{}

	sem := make(chan struct{}, c.cfg.Concurrency)
	frontier := []string{start}

	var runErr error

levels:
	for depth := 0; depth <= c.cfg.MaxDepth && len(frontier) > 0; depth++ {
		c.sink.Infof("crawling depth %d (%d urls)", depth, len(frontier))

		var (
			mu      sync.Mutex
			wg      sync.WaitGroup
			results []pageResult
		)

		for _, pageURL := range frontier {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				wg.Wait()
				runErr = ctx.Err()
				break levels
			}

			wg.Add(1)
			go func(pageURL string) {
				defer wg.Done()
				defer func() { <-sem }()

				res := c.fetchPage(ctx, pageURL)

				mu.Lock()
				results = append(results, res)
				mu.Unlock()

				if c.cfg.Delay > 0 {
					_ = sleepContext(ctx, c.cfg.Delay)
				}
			}(pageURL)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		// Merge this level's extractions single-threaded, in a stable
		// order, so dedup outcomes do not depend on fetch timing.
		sort.Slice(results, func(i, j int) bool { return results[i].pageURL < results[j].pageURL })

		var next []string
		for _, res := range results {
			if res.content == nil {
				continue
			}

			for _, form := range res.content.Forms {
				if key := form.Key(); !formSeen[key] {
					formSeen[key] = true
					result.Forms = append(result.Forms, form)
				}
			}

			for _, link := range res.content.Links {
				if params := ExtractQueryParams(link); len(params) > 0 && !paramSeen[link] {
					paramSeen[link] = true
					result.Params = append(result.Params, types.ParamURL{URL: link, Params: params})
				}

				// Only enqueue when the next level is still within the
				// depth budget; pages are never discovered beyond it.
				if depth < c.cfg.MaxDepth && !visited[link] {
					visited[link] = true
					next = append(next, link)
				}
			}
		}
		frontier = next
	}

	for page := range visited {
		result.Pages = append(result.Pages, page)
	}
	sort.Strings(result.Pages)

	c.sink.Infof("crawl complete: %d pages, %d forms, %d parameterized urls",
		len(result.Pages), len(result.Forms), len(result.Params))

	// Partial results from an interrupted crawl are still usable.
	return result, runErr
}

// fetchPage fetches one URL with retries and parses its body. Exhausting
// the retry budget yields status 0 and no content.
func (c *Crawler) fetchPage(ctx context.Context, pageURL string) pageResult {
	var (
		status int
		body   string
	)

	err := c.retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}
		c.setHeaders(req)

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		status = resp.StatusCode
		body = string(data)
		return nil
	})
	if err != nil {
		c.sink.Warnf("unreachable: %s (%v)", pageURL, err)
		return pageResult{pageURL: pageURL, status: 0}
	}

	content, err := ParseHTML(strings.NewReader(body), pageURL)
	if err != nil {
		c.sink.Warnf("unparseable body: %s (%v)", pageURL, err)
		return pageResult{pageURL: pageURL, status: status}
	}

	return pageResult{pageURL: pageURL, status: status, content: content}
}

func (c *Crawler) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.http.UserAgent)
	if c.http.Accept != "" {
		req.Header.Set("Accept", c.http.Accept)
	}
	for name, value := range c.http.Headers {
		req.Header.Set(name, value)
	}
}
