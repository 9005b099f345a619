package ops

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const pageTextLimit = 64 * 1024

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe         = regexp.MustCompile(`<[^>]+>`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// FetchPageText downloads a page and strips it down to visible text for
// role detection. Best effort: any failure returns an empty string with
// the error, and callers fall back to the general role.
func FetchPageText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, pageTextLimit))
	if err != nil {
		return "", err
	}

	text := scriptStyleRe.ReplaceAllString(string(body), " ")
	text = tagRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text), nil
}
