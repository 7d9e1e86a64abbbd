package metadata

import (
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"github.com/araddon/dateparse"
	"golang.org/x/net/html"
)

// publishDateTag describes an element carrying the publish date: which
// attribute identifies it and which attribute holds the value.
type publishDateTag struct {
	Attribute string
	Value     string
	Content   string
}

// KnownPublishDateTags are tried in order; the first one present wins.
var KnownPublishDateTags = []publishDateTag{
	{Attribute: "property", Value: "rnews:datePublished", Content: "content"},
	{Attribute: "property", Value: "article:published_time", Content: "content"},
	{Attribute: "name", Value: "OriginalPublicationDate", Content: "content"},
	{Attribute: "itemprop", Value: "datePublished", Content: "datetime"},
}

// PublishDate returns the raw publish date of the page. An element that
// matches but has no value still stops the search.
func PublishDate(doc *html.Node) string {
	for _, tag := range KnownPublishDateTags {
		if n := first(doc, "//*["+ciContains(tag.Attribute, tag.Value)+"]"); n != nil {
			return strings.TrimSpace(htmlquery.SelectAttr(n, tag.Content))
		}
	}
	return ""
}

// ParseDate parses a publish date in any common layout. Unparseable values
// return the zero time.
func ParseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
