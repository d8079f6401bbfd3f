package post

import "strings"

// Type is the Tumblr post type a feed item is submitted as.
type Type string

const (
	TypePhoto Type = "photo"
	TypeVideo Type = "video"
	TypeText  Type = "text"
	TypeLink  Type = "link"
	TypeQuote Type = "quote"
)

// Post is one of Photo, Video, Text, Link or Quote.
type Post interface {
	Type() Type
	Metadata() Meta
	// Fields returns the API parameters with empty values removed.
	Fields() map[string]string
	isPost()
}

// Meta holds the parameters shared by every post type.
type Meta struct {
	Date string
	Tags []string
	Slug string
}

func (m Meta) Metadata() Meta {
	return m
}

func (m Meta) fields(t Type, specific map[string]string) map[string]string {
	fields := map[string]string{
		"type": string(t),
		"date": m.Date,
		"tags": strings.Join(m.Tags, ","),
		"slug": m.Slug,
	}
	for k, v := range specific {
		fields[k] = v
	}
	return Clean(fields)
}

type Photo struct {
	Meta
	Caption string
	Link    string // click-through URL
	Source  string // image URL
}

func (Photo) Type() Type { return TypePhoto }
func (Photo) isPost()    {}

func (p Photo) Fields() map[string]string {
	return p.fields(TypePhoto, map[string]string{
		"caption": p.Caption,
		"link":    p.Link,
		"source":  p.Source,
	})
}

type Video struct {
	Meta
	Caption string
	Embed   string // embed code or video URL
}

func (Video) Type() Type { return TypeVideo }
func (Video) isPost()    {}

func (p Video) Fields() map[string]string {
	return p.fields(TypeVideo, map[string]string{
		"caption": p.Caption,
		"embed":   p.Embed,
	})
}

type Text struct {
	Meta
	Title string
	Body  string
}

func (Text) Type() Type { return TypeText }
func (Text) isPost()    {}

func (p Text) Fields() map[string]string {
	return p.fields(TypeText, map[string]string{
		"title": p.Title,
		"body":  p.Body,
	})
}

type Link struct {
	Meta
	Title       string
	URL         string
	Description string
}

func (Link) Type() Type { return TypeLink }
func (Link) isPost()    {}

func (p Link) Fields() map[string]string {
	return p.fields(TypeLink, map[string]string{
		"title":       p.Title,
		"url":         p.URL,
		"description": p.Description,
	})
}

type Quote struct {
	Meta
	Quote  string
	Source string
}

func (Quote) Type() Type { return TypeQuote }
func (Quote) isPost()    {}

func (p Quote) Fields() map[string]string {
	return p.fields(TypeQuote, map[string]string{
		"quote":  p.Quote,
		"source": p.Source,
	})
}

// Clean returns a copy of fields without the keys whose value is empty.
// The API treats an empty parameter differently from a missing one.
func Clean(fields map[string]string) map[string]string {
	cleaned := make(map[string]string, len(fields))
	for k, v := range fields {
		if v == "" {
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}
