package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	SchedulesURL = "https://hamariweb.com/cricket/schedules.aspx"
	UserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	Timeout = 20 * time.Second
)

// ErrForeignURL is returned by FetchPage for URLs outside the upstream host
var ErrForeignURL = errors.New("url is not on the upstream host")

// UpstreamError reports a failed request to the upstream site: a transport
// error, a timeout, or a non-success status code.
type UpstreamError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("fetching upstream: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstreamError reports whether err is or wraps an *UpstreamError
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// Fetcher handles fetching pages from the upstream cricket site
type Fetcher struct {
	client *resty.Client
	url    string
}

// New creates a Fetcher for the default schedules URL
func New() *Fetcher {
	return NewWithOptions(SchedulesURL, UserAgent, Timeout)
}

// NewWithOptions creates a Fetcher for pageURL. Empty userAgent or zero timeout fall back to
// the package defaults.
func NewWithOptions(pageURL, userAgent string, timeout time.Duration) *Fetcher {
	if userAgent == "" {
		userAgent = UserAgent
	}
	if timeout <= 0 {
		timeout = Timeout
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"User-Agent":      userAgent,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Cache-Control":   "no-cache",
			"Pragma":          "no-cache",
		})

	return &Fetcher{
		client: client,
		url:    pageURL,
	}
}

// URL returns the schedules page URL this fetcher reads
func (f *Fetcher) URL() string {
	return f.url
}

// Fetch fetches the schedules page and returns its HTML. It makes exactly one request;
// failures are returned as *UpstreamError.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	return f.get(ctx, f.url)
}

// FetchPage fetches another page on the upstream host, such as a match scorecard.
// Relative URLs are resolved against the schedules URL.
func (f *Fetcher) FetchPage(ctx context.Context, pageURL string) (string, error) {
	resolved, err := f.ResolvePageURL(pageURL)
	if err != nil {
		return "", err
	}
	return f.get(ctx, resolved)
}

// ResolvePageURL resolves pageURL against the schedules URL and checks it stays on the
// upstream host.
func (f *Fetcher) ResolvePageURL(pageURL string) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return "", fmt.Errorf("%w: empty url", ErrForeignURL)
	}

	base, err := url.Parse(f.url)
	if err != nil {
		return "", fmt.Errorf("parsing upstream url: %w", err)
	}
	ref, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrForeignURL, err)
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q", ErrForeignURL, resolved.Scheme)
	}
	if !sameHost(base.Hostname(), resolved.Hostname()) {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, resolved.Hostname())
	}

	return resolved.String(), nil
}

func (f *Fetcher) get(ctx context.Context, pageURL string) (string, error) {
	resp, err := f.client.R().
		SetContext(ctx).
		Get(pageURL)
	if err != nil {
		return "", &UpstreamError{URL: pageURL, Err: err}
	}

	if !resp.IsSuccess() {
		return "", &UpstreamError{
			URL:        pageURL,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode()),
		}
	}

	return resp.String(), nil
}

// sameHost treats "www." as insignificant so links between hamariweb.com and
// www.hamariweb.com stay allowed
func sameHost(a, b string) bool {
	a = strings.TrimPrefix(strings.ToLower(a), "www.")
	b = strings.TrimPrefix(strings.ToLower(b), "www.")
	return a != "" && a == b
}
