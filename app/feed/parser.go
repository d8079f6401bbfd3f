package feed

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/mmcdole/gofeed"
)

const (
	soupPrefix        = "soup"
	soupAttributesTag = "attributes"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// ReadFile parses the export at path. Any failure is returned as *ParseError.
func (p *Parser) ReadFile(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	items, err := p.Run(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	slog.Info("Items found in soup rss", "path", path, "count", len(items))
	return items, nil
}

// Run parses feed data and returns its items oldest first. Exports list the
// newest post at the top.
func (p *Parser) Run(data []byte) ([]Item, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, item := range feed.Items {
		items = append(items, p.normalizeItem(item))
	}
	slices.Reverse(items)

	return items, nil
}

func (p *Parser) normalizeItem(item *gofeed.Item) Item {
	normalized := Item{
		GUID:      cmp.Or(item.GUID, item.Link),
		Title:     item.Title,
		Link:      item.Link,
		Published: item.Published,
	}

	if item.PublishedParsed != nil {
		normalized.PublishedAt = item.PublishedParsed
	}

	raw, ok := p.findAttributes(item)
	if !ok {
		slog.Warn("Item has no soup attributes", "guid", normalized.GUID)
		return normalized
	}

	if err := json.Unmarshal([]byte(raw), &normalized.Attributes); err != nil {
		slog.Warn("Failed to decode soup attributes", "guid", normalized.GUID, "error", err)
		normalized.Attributes = Attributes{}
	}

	return normalized
}

// findAttributes looks up <soup:attributes>, falling back to any namespace
// prefix the export may have declared for it.
func (p *Parser) findAttributes(item *gofeed.Item) (string, bool) {
	if exts, ok := item.Extensions[soupPrefix]; ok {
		if values := exts[soupAttributesTag]; len(values) > 0 {
			return values[0].Value, true
		}
	}

	for _, exts := range item.Extensions {
		if values := exts[soupAttributesTag]; len(values) > 0 {
			return values[0].Value, true
		}
	}

	return "", false
}
