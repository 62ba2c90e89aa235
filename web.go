package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const defaultFetchTimeout = 30 * time.Second

// maxPageBytes caps how much of one page is read. Larger pages fail rather than being
// counted truncated.
var maxPageBytes int64 = 10 << 20

// fetchPages fetches startURL and, up to maxDepth levels, the same-host pages it links to.
// Every page becomes one unit holding its content (HTML converted to Markdown). A failure on
// the starting page is returned as a unit carrying the error; failures on followed links are
// logged and skipped.
func fetchPages(ctx context.Context, client *http.Client, startURL string, maxDepth int, logger *zap.Logger) []Unit {
	start, err := url.Parse(startURL)
	if err != nil {
		return []Unit{{Kind: UnitFile, Label: startURL, Err: fmt.Errorf("invalid URL: %w", err)}}
	}
	start.Fragment = ""

	type queued struct {
		u     *url.URL
		depth int
	}
	visited := map[string]bool{start.String(): true}
	queue := []queued{{u: start, depth: 0}}
	var units []Unit

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		pageURL := item.u.String()

		body, isHTML, err := fetchURL(ctx, client, pageURL)
		if err != nil {
			if item.depth == 0 {
				// Keep the argument as typed so the diagnostic names what the user asked for.
				units = append(units, Unit{Kind: UnitFile, Label: startURL, Err: err})
			} else {
				logger.Warn("skipping linked page", zap.String("url", pageURL), zap.Error(err))
			}
			continue
		}

		label := pageURL
		if item.depth == 0 {
			label = startURL
		}
		content := body
		if isHTML {
			converter := md.NewConverter("", true, nil)
			markdown, convErr := converter.ConvertString(string(body))
			if convErr != nil {
				logger.Warn("could not convert HTML to Markdown, counting raw HTML",
					zap.String("url", pageURL), zap.Error(convErr))
			} else {
				content = []byte(markdown)
			}
		}
		units = append(units, Unit{Kind: UnitFile, Label: label, Content: content})
		logger.Debug("fetched page", zap.String("url", pageURL), zap.Int("depth", item.depth), zap.Int("bytes", len(content)))

		if !isHTML || item.depth >= maxDepth {
			continue
		}
		for _, link := range extractLinks(item.u, body, logger) {
			key := link.String()
			if visited[key] {
				continue
			}
			visited[key] = true
			queue = append(queue, queued{u: link, depth: item.depth + 1})
		}
	}
	return units
}

// fetchURL returns the response body and whether it is HTML.
func fetchURL(ctx context.Context, client *http.Client, pageURL string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, false, err
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, false, fmt.Errorf("status code %d", res.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(res.Body, maxPageBytes+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > maxPageBytes {
		return nil, false, fmt.Errorf("page exceeds %d bytes", maxPageBytes)
	}
	isHTML := strings.Contains(strings.ToLower(res.Header.Get("Content-Type")), "text/html")
	return body, isHTML, nil
}

// extractLinks resolves the anchors of an HTML page against base, keeping same-host
// http(s) links without fragments.
func extractLinks(base *url.URL, body []byte, logger *zap.Logger) []*url.URL {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		logger.Warn("failed to parse HTML for links", zap.String("url", base.String()), zap.Error(err))
		return nil
	}

	var links []*url.URL
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		lower := strings.ToLower(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "javascript:") {
			return
		}
		resolved, err := base.Parse(href)
		if err != nil {
			logger.Debug("could not resolve link", zap.String("href", href), zap.Error(err))
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if resolved.Host != base.Host {
			return
		}
		resolved.Fragment = ""
		links = append(links, resolved)
	})
	return links
}
