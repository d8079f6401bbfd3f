package feed

import (
	"fmt"
	"time"
)

type Item struct {
	GUID        string
	Title       string
	Link        string
	Published   string     // pubDate as it appears in the export
	PublishedAt *time.Time // nil when pubDate could not be parsed
	Attributes  Attributes
}

// Attributes is the JSON blob soup.io stores in <soup:attributes>.
// JSON nulls decode to empty values.
type Attributes struct {
	Type           string   `json:"type"`
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	Source         string   `json:"source"`
	URL            string   `json:"url"`
	EmbedCodeOrURL string   `json:"embedcode_or_url"`
	Tags           []string `json:"tags"`
}

// ParseError reports a feed export that is missing, unreadable or malformed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to read feed %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
