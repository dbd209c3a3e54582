package fetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/jonathan/resume-markup/internal/logger"
)

// MinPostingWords is the word count below which extracted text is assumed
// to come from a page that fills its description client-side
const MinPostingWords = 80

// contentWait bounds how long a rendered page may take to show its
// description element once the body is ready
const contentWait = 5 * time.Second

// ShouldUseBrowser reports whether extracted text is too thin to be a
// complete job posting
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.Fields(extractedText)) < MinPostingWords
}

// browserOptions are the headless Chrome flags used for rendering. The
// sandbox is disabled so rendering works inside containers.
var browserOptions = append(chromedp.DefaultExecAllocatorOptions[:],
	chromedp.Flag("headless", true),
	chromedp.Flag("disable-gpu", true),
	chromedp.Flag("no-sandbox", true),
	chromedp.Flag("disable-dev-shm-usage", true),
	chromedp.Flag("blink-settings", "imagesEnabled=false"),
)

// Render loads a posting in headless Chrome and returns the rendered HTML.
// It waits for the platform's description element, and captures the page
// anyway if that element never shows up.
func Render(ctx context.Context, url string, platform Platform, timeout time.Duration, log logger.Logger) (string, error) {
	log = logger.OrNop(log).WithFields(map[string]interface{}{"url": url, "platform": string(platform)})
	log.Debug("starting headless browser", nil)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, browserOptions...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	if err := chromedp.Run(browserCtx, chromedp.Navigate(url), chromedp.WaitReady("body")); err != nil {
		return "", fmt.Errorf("browser navigation failed: %w", err)
	}

	selector := strings.Join(PlatformContentSelectors(platform), ", ")
	waitCtx, cancelWait := context.WithTimeout(browserCtx, contentWait)
	err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	cancelWait()
	if err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return "", fmt.Errorf("browser wait failed: %w", err)
	}
	if err != nil {
		log.Debug("description element not found, capturing page as is", nil)
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("browser capture failed: %w", err)
	}

	log.Debug("browser rendered page", map[string]interface{}{"bytes": len(html)})
	return html, nil
}
