package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hemlocksec/pii-radar/internal/detect"
	"github.com/hemlocksec/pii-radar/internal/engine"
)

// Endpoint describes one HTTP request the HTTPAdapter issues.
type Endpoint struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
}

// HTTPAdapter scans the response bodies of a configured set of HTTP
// endpoints, deliberately built on the standard net/http client rather
// than a third-party HTTP client (see DESIGN.md).
type HTTPAdapter struct {
	Endpoints   []Endpoint
	Timeout     time.Duration
	NoRedirects bool
}

// Items issues each configured request in turn and yields one item per
// response body.
func (a *HTTPAdapter) Items(ctx context.Context) <-chan engine.Item {
	out := make(chan engine.Item)
	go func() {
		defer close(out)

		client := &http.Client{Timeout: a.Timeout}
		if a.NoRedirects {
			client.CheckRedirect = func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			}
		}

		for _, ep := range a.Endpoints {
			select {
			case <-ctx.Done():
				return
			case out <- a.fetch(ctx, client, ep):
			}
		}
	}()
	return out
}

func (a *HTTPAdapter) fetch(ctx context.Context, client *http.Client, ep Endpoint) engine.Item {
	method := ep.Method
	if method == "" {
		method = http.MethodGet
	}

	var bodyReader io.Reader
	if ep.Body != "" {
		bodyReader = strings.NewReader(ep.Body)
	}

	req, err := http.NewRequestWithContext(ctx, method, ep.URL, bodyReader)
	if err != nil {
		return item{sourceID: ep.URL, err: fmt.Errorf("source: building request for %q: %w", ep.URL, err)}
	}
	for k, v := range ep.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return item{sourceID: ep.URL, err: fmt.Errorf("source: requesting %q: %w", ep.URL, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return item{sourceID: ep.URL, err: fmt.Errorf("source: reading response from %q: %w", ep.URL, err)}
	}

	return item{
		sourceID: ep.URL,
		text:     string(data),
		loc: detect.LocationContext{
			SourceID: ep.URL,
			URL:      ep.URL,
			Method:   method,
		},
	}
}
