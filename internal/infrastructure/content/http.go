package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"glassbird/internal/domain"
)

const maxMarkupBytes = 4 << 20

// HTTPFetcher downloads markup documents relative to a base URL.
type HTTPFetcher struct {
	baseURL *url.URL
	client  *http.Client
}

func NewHTTPFetcher(baseURL string, timeout time.Duration) (*HTTPFetcher, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{baseURL: u, client: &http.Client{Timeout: timeout}}, nil
}

func (f *HTTPFetcher) Resolve(ctx context.Context, ref domain.ContentRef) (domain.Content, error) {
	rel, err := url.Parse(strings.TrimPrefix(ref.Location, "/"))
	if err != nil || rel.IsAbs() || rel.Host != "" {
		return domain.Content{}, fmt.Errorf("%w: invalid location %q", domain.ErrContentResolution, ref.Location)
	}
	target := f.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return domain.Content{}, err
	}
	req.Header.Set("Accept", "text/html, text/markdown, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Content{}, fmt.Errorf("%w: %v", domain.ErrContentResolution, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Content{}, fmt.Errorf("%w: %s returned status %d", domain.ErrContentResolution, target, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxMarkupBytes))
	if err != nil {
		return domain.Content{}, fmt.Errorf("%w: %v", domain.ErrContentResolution, err)
	}
	return domain.Content{Type: domain.ContentMarkup, Text: string(body)}, nil
}
