package post

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML returns the text content of s when s is a single well-formed
// markup element. Anything else, including malformed markup, is returned
// unchanged.
func StripHTML(s string) string {
	if s == "" {
		return s
	}

	decoder := xml.NewDecoder(strings.NewReader(s))

	var text strings.Builder
	depth := 0
	roots := 0

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return s
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return s
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 {
				if strings.TrimSpace(string(t)) != "" {
					return s
				}
				continue
			}
			text.Write(t)
		}
	}

	if roots != 1 || depth != 0 {
		return s
	}

	return text.String()
}

// FirstImage returns the src of the first <img> in an HTML fragment.
func FirstImage(body string) string {
	if body == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}
