package post

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/lysyi3m/soublr/app/feed"
)

var ErrUnsupportedType = errors.New("post type not supported")

const (
	FooterLinkPlaceholder = "{soup_link}"
	tumblrDateLayout      = "2006-01-02 15:04:05 GMT"
)

type builder func(item feed.Item, meta Meta, footer string) Post

// builders maps soup.io type tags to the Tumblr post they become.
var builders = map[string]builder{
	"image": func(item feed.Item, meta Meta, footer string) Post {
		attrs := item.Attributes
		source := attrs.URL
		if source == "" {
			source = FirstImage(attrs.Body)
		}
		return Photo{
			Meta:    meta,
			Caption: attrs.Body + footer,
			Link:    attrs.Source,
			Source:  source,
		}
	},
	"video": func(item feed.Item, meta Meta, footer string) Post {
		return Video{
			Meta:    meta,
			Caption: item.Attributes.Body + footer,
			Embed:   item.Attributes.EmbedCodeOrURL,
		}
	},
	"regular": func(item feed.Item, meta Meta, footer string) Post {
		return Text{
			Meta:  meta,
			Title: StripHTML(item.Attributes.Title),
			Body:  item.Attributes.Body + footer,
		}
	},
	"link": func(item feed.Item, meta Meta, footer string) Post {
		return Link{
			Meta:        meta,
			Title:       item.Attributes.Title,
			URL:         item.Attributes.Source,
			Description: item.Attributes.Body + footer,
		}
	},
	"quote": func(item feed.Item, meta Meta, footer string) Post {
		return Quote{
			Meta:   meta,
			Quote:  item.Attributes.Body,
			Source: item.Attributes.Title + footer,
		}
	},
}

// Mapper turns feed items into Tumblr posts.
type Mapper struct {
	footer      string
	platformTag string
}

func NewMapper(footer, platformTag string) *Mapper {
	return &Mapper{
		footer:      footer,
		platformTag: platformTag,
	}
}

func (m *Mapper) Run(item feed.Item) (Post, error) {
	build, ok := builders[item.Attributes.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, item.Attributes.Type)
	}

	meta := Meta{
		Date: m.date(item),
		Tags: m.tags(item.Attributes.Tags),
		Slug: Slug(item.Title),
	}

	return build(item, meta, m.Footer(item.Link)), nil
}

// Footer renders the footer template for the original post link.
func (m *Mapper) Footer(link string) string {
	return strings.ReplaceAll(m.footer, FooterLinkPlaceholder, link)
}

func (m *Mapper) date(item feed.Item) string {
	if item.PublishedAt != nil {
		return item.PublishedAt.In(time.UTC).Format(tumblrDateLayout)
	}
	return item.Published
}

func (m *Mapper) tags(itemTags []string) []string {
	tags := make([]string, 0, len(itemTags)+1)
	seen := make(map[string]bool, len(itemTags)+1)

	for _, tag := range slices.Concat(itemTags, []string{m.platformTag}) {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	return tags
}
