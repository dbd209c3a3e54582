// Package fetch retrieves job postings by URL and reduces them to readable
// text for job analysis.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/resume-markup/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeMarkup/1.0)"

// DefaultMaxBodyBytes caps how much of a response body is read
const DefaultMaxBodyBytes = 5 << 20

// Page holds the raw content of a fetched URL.
type Page struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Headers      map[string]string
	MaxBodyBytes int64
	// UseBrowser enables headless rendering when plain HTTP yields too little
	// text. Requires Chrome or Chromium on the host.
	UseBrowser     bool
	BrowserTimeout time.Duration
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() Options {
	return Options{
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		MaxBodyBytes:   DefaultMaxBodyBytes,
		BrowserTimeout: DefaultTimeout,
	}
}

// Client fetches job postings
type Client struct {
	opts   Options
	http   *http.Client
	log    logger.Logger
	render func(ctx context.Context, url string, platform Platform) (string, error)
}

// NewClient creates a fetch client. Zero option fields take defaults.
func NewClient(opts Options, log logger.Logger) *Client {
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaults.UserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if opts.BrowserTimeout <= 0 {
		opts.BrowserTimeout = defaults.BrowserTimeout
	}
	c := &Client{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
		log:  logger.OrNop(log),
	}
	c.render = func(ctx context.Context, u string, p Platform) (string, error) {
		return Render(ctx, u, p, c.opts.BrowserTimeout, c.log)
	}
	return c
}

// JobText fetches a posting and extracts its description text. Pages that
// yield too little text over plain HTTP are rendered in a headless browser
// when enabled.
func (c *Client) JobText(ctx context.Context, rawURL string) (string, error) {
	platform := DetectPlatform(rawURL)
	log := c.log.WithFields(map[string]interface{}{"url": rawURL, "platform": string(platform)})

	page, err := c.Get(ctx, rawURL)
	if err != nil {
		return "", err
	}
	text, err := ExtractMainText(page.HTML, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to parse HTML", Cause: err}
	}

	if ShouldUseBrowser(text) && c.opts.UseBrowser {
		log.Debug("page text too thin, rendering in browser", map[string]interface{}{"words": len(strings.Fields(text))})
		html, err := c.render(ctx, rawURL, platform)
		if err != nil {
			log.WithError(err).Warn("browser rendering failed, keeping HTTP text", nil)
		} else if rendered, err := ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...); err == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", &Error{URL: rawURL, Message: "no readable text on page"}
	}
	log.Info("fetched job posting", map[string]interface{}{"chars": len(text)})
	return text, nil
}

// Get retrieves HTML content from a URL. A non-200 status returns the page
// together with an error.
func (c *Client) Get(ctx context.Context, rawURL string) (*Page, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Host == "" || (parsedURL.Scheme != "http" && parsedURL.Scheme != "https") {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	for key, value := range c.opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// ExtractMainText parses HTML and returns the text of the first element
// matching contentSelectors, or of the body when none match. Noise elements
// are removed first.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}
	return cleanWhitespace(main.Text()), nil
}

// cleanWhitespace trims every line and drops blank ones
func cleanWhitespace(text string) string {
	var cleaned []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
