package bbref

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/fortuna/ballpark/internal/ingest"
)

const (
	// BaseURL of Baseball-Reference.
	BaseURL = "https://www.baseball-reference.com"

	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval keeps us under the site's crawl limit.
	MinRequestInterval = 3 * time.Second
)

// Fetcher returns the HTML of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches pages with a plain HTTP client.
type HTTPFetcher struct {
	httpClient *http.Client
}

// NewHTTPFetcher creates a fetcher with the given request timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{httpClient: &http.Client{Timeout: timeout}}
}

// Fetch implements Fetcher. A 404 is reported as ingest.ErrGameNotFound.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%s: %w", url, ingest.ErrGameNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	return string(body), nil
}

// BrowserFetcher renders pages in headless Chrome.
type BrowserFetcher struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	timeout  time.Duration
}

// NewBrowserFetcher starts a headless Chrome allocator.
func NewBrowserFetcher(timeout time.Duration) *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &BrowserFetcher{
		allocCtx: allocCtx,
		cancel:   cancel,
		timeout:  timeout,
	}
}

// Close releases resources
func (f *BrowserFetcher) Close() {
	if f.cancel != nil {
		f.cancel()
	}
}

// Fetch implements Fetcher.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(f.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, f.timeout)
	defer cancel()

	// Stop the browser run if the caller gives up first.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var htmlContent string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(`body`, chromedp.ByQuery),
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}
	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}
	return htmlContent, nil
}

// Client fetches box score pages with rate limiting.
type Client struct {
	fetcher  Fetcher
	baseURL  string
	interval time.Duration
	logger   *zap.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

// NewClient creates a client. An empty baseURL uses BaseURL.
func NewClient(fetcher Fetcher, baseURL string, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = BaseURL
	}
	return &Client{
		fetcher:  fetcher,
		baseURL:  strings.TrimRight(baseURL, "/"),
		interval: MinRequestInterval,
		logger:   logger,
	}
}

// BoxScoreURL returns the page of the game-number-th game the home team
// played on date (YYYYMMDD). Single games use number 0.
func (c *Client) BoxScoreURL(homeCode, date string, number int) string {
	return fmt.Sprintf("%s/boxes/%s/%s%s%d.shtml", c.baseURL, homeCode, homeCode, date, number)
}

// FetchBoxScore fetches and parses a box score page.
func (c *Client) FetchBoxScore(ctx context.Context, url string) (*goquery.Document, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	c.logger.Debug("fetching bbref box score", zap.String("url", url))
	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return ParseHTML(html)
}

// wait enforces the minimum interval between requests.
func (c *Client) wait(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastRequest.IsZero() {
		if waitTime := c.interval - time.Since(c.lastRequest); waitTime > 0 {
			c.logger.Debug("rate limiting bbref request", zap.Duration("wait", waitTime))
			timer := time.NewTimer(waitTime)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	c.lastRequest = time.Now()
	return nil
}

// ParseHTML converts raw HTML to a goquery Document. Baseball-Reference ships
// most stat tables inside HTML comments, so comment markers are removed
// first.
func ParseHTML(htmlContent string) (*goquery.Document, error) {
	uncommented := strings.NewReplacer("<!--", "", "-->", "").Replace(htmlContent)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(uncommented))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
