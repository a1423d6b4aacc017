package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// maxTextLen caps extracted source text so a pathological page can't blow up
// prompt size (rare, but safe).
const maxTextLen = 120_000

const userAgent = "Mozilla/5.0 (compatible; CFMPersonalPodcast/1.0)"

var blankLines = regexp.MustCompile(`\n{3,}`)

// Fetcher downloads a study-week page and extracts readable plain text from
// it. Extraction is best-effort; the page layout is not under our control.
type Fetcher struct {
	client *http.Client
}

func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchWeekText downloads the page at pageURL and returns its readable text.
func (f *Fetcher) FetchWeekText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response from %s: %w", pageURL, err)
	}

	text, err := extractText(string(body), pageURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from %s: %w", pageURL, err)
	}

	return text, nil
}

// extractText pulls readable article text out of HTML, preferring readability
// extraction with a goquery fallback for pages readability can't handle.
func extractText(htmlContent, pageURL string) (string, error) {
	parsedURL, _ := url.Parse(pageURL)

	article, err := readability.FromReader(strings.NewReader(htmlContent), parsedURL)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return cleanText(article.TextContent), nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, header, footer, aside, script, style").Remove()

	root := doc.Selection
	for _, selector := range []string{"article", "main", "div.manual-page", "div.content", "div.page-content"} {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			root = sel
			break
		}
	}

	text := cleanText(root.Text())
	if text == "" {
		return "", fmt.Errorf("no readable text found")
	}
	return text, nil
}

func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))

	if len(text) > maxTextLen {
		text = text[:maxTextLen] + "\n\n[TRUNCATED]"
	}
	return text
}
