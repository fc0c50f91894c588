// Package engine executes generated test cases against the target with
// bounded concurrency and optional rate limiting.
package engine

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/su1ph3r/perlustro/pkg/types"
)

// placeholderValue fills every non-target form field so the submission is
// well-formed while only the target field carries the payload.
const placeholderValue = "test_value"

// Engine submits test cases through a worker pool. At most
// Scan.Concurrency submissions are in flight at once.
type Engine struct {
	config      types.Config
	client      *http.Client
	rateLimiter *RateLimiter
	sink        types.EventSink
	wg          sync.WaitGroup
}

// Result pairs a submitted test case with its response record, ready for
// classification.
type Result struct {
	Case     types.TestCase
	Response *types.ResponseRecord
}

// NewEngine creates an execution engine from the given configuration.
func NewEngine(config *types.Config, sink types.EventSink) *Engine {
	if sink == nil {
		sink = types.NopSink{}
	}

	transport := &http.Transport{
		MaxIdleConns:        config.Scan.Concurrency * 2,
		MaxIdleConnsPerHost: config.Scan.Concurrency,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: !config.Scan.VerifySSL,
		},
	}

	if config.HTTP.ProxyURL != "" {
		if proxyURL, err := url.Parse(config.HTTP.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Scan.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !config.Scan.FollowRedirects {
				return http.ErrUseLastResponse
			}
			if len(via) >= config.Scan.MaxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}

	return &Engine{
		config:      *config,
		client:      client,
		rateLimiter: NewRateLimiter(config.Scan.RateLimit),
		sink:        sink,
	}
}

// Run submits every test case through the worker pool and streams results.
// The returned channel is closed once all cases have been processed or the
// context is cancelled. Result ordering follows completion, not input
// order; no ordering guarantee is provided.
func (e *Engine) Run(ctx context.Context, cases []types.TestCase) <-chan *Result {
	workers := e.config.Scan.Concurrency
	if workers < 1 {
		workers = 1
	}

	caseChan := make(chan types.TestCase, workers*2)
	results := make(chan *Result, workers*2)

	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go e.worker(ctx, caseChan, results)
	}

	go func() {
		defer close(caseChan)
		for _, tc := range cases {
			select {
			case <-ctx.Done():
				return
			case caseChan <- tc:
			}
		}
	}()

	go func() {
		e.wg.Wait()
		close(results)
	}()

	return results
}

func (e *Engine) worker(ctx context.Context, cases <-chan types.TestCase, results chan<- *Result) {
	defer e.wg.Done()

	for tc := range cases {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := e.rateLimiter.Wait(ctx); err != nil {
			return
		}

		results <- &Result{Case: tc, Response: e.Submit(ctx, tc)}
	}
}

// Submit executes a single test case and returns its response record. Any
// transport failure (timeout, connection error, DNS failure) is captured
// as a record with status 0; submission never returns an error.
func (e *Engine) Submit(ctx context.Context, tc types.TestCase) *types.ResponseRecord {
	req, err := e.buildRequest(ctx, tc)
	if err != nil {
		return &types.ResponseRecord{Status: 0, Err: err}
	}

	start := time.Now()
	resp, err := e.client.Do(req)
	elapsed := time.Since(start).Seconds()

	if err != nil {
		e.sink.Warnf("request failed: %s %s (%v)", tc.Method, tc.URL, err)
		return &types.ResponseRecord{Status: 0, Elapsed: elapsed, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	elapsed = time.Since(start).Seconds()
	if err != nil {
		return &types.ResponseRecord{Status: 0, Elapsed: elapsed, Err: err}
	}

	headers := make(map[string]string, len(resp.Header))
	for name, values := range resp.Header {
		headers[name] = strings.Join(values, ", ")
	}

	return &types.ResponseRecord{
		Status:   resp.StatusCode,
		Headers:  headers,
		Body:     string(body),
		FinalURL: resp.Request.URL.String(),
		Elapsed:  elapsed,
	}
}

// buildRequest constructs the HTTP request for a test case. GET targets
// the case URL directly (the payload is already embedded in its query
// string); POST submits a form-encoded body where the target field carries
// the payload and every other declared field an inert placeholder.
func (e *Engine) buildRequest(ctx context.Context, tc types.TestCase) (*http.Request, error) {
	var req *http.Request
	var err error

	if tc.Method == http.MethodPost {
		form := url.Values{}
		if len(tc.FormInputs) > 0 {
			for _, input := range tc.FormInputs {
				if input == tc.Param {
					form.Set(input, tc.Payload)
				} else {
					form.Set(input, placeholderValue)
				}
			}
		} else {
			form.Set(tc.Param, tc.Payload)
		}

		req, err = http.NewRequestWithContext(ctx, http.MethodPost, tc.URL, strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, tc.URL, nil)
		if err != nil {
			return nil, err
		}
	}

	req.Header.Set("User-Agent", e.config.HTTP.UserAgent)
	if e.config.HTTP.Accept != "" {
		req.Header.Set("Accept", e.config.HTTP.Accept)
	}
	for name, value := range e.config.HTTP.Headers {
		if req.Header.Get(name) == "" {
			req.Header.Set(name, value)
		}
	}

	return req, nil
}

// Client returns the underlying HTTP client.
func (e *Engine) Client() *http.Client { return e.client }
