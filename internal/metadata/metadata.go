// Package metadata reads the descriptive fields of a page: opengraph data,
// title, language, description, keywords, favicon, canonical link, tags,
// authors and publish date. None of these lookups score anything; each takes
// the first match it finds.
package metadata

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/mrjoshuak/gravigo/internal/dom"
)

// Metas holds everything read from a page before cleaning.
type Metas struct {
	Title         string
	Description   string
	Keywords      string
	Lang          string
	Favicon       string
	CanonicalLink string
	Domain        string
	OpenGraph     map[string]string
	Tags          []string
	Authors       []string
	PublishDate   string
	PublishTime   time.Time
}

var regexpLang = regexp.MustCompile(`^[A-Za-z]{2}$`)

// Extract reads all page metadata from doc. finalURL is the address the page
// was served from and may be empty.
func Extract(doc *html.Node, finalURL string) *Metas {
	m := &Metas{}
	if doc == nil {
		return m
	}
	m.OpenGraph = OpenGraph(doc)
	m.Domain = Domain(finalURL)
	m.Title = Title(doc, m.OpenGraph, m.Domain)
	m.Lang = MetaLang(doc)
	m.Favicon = Favicon(doc)
	m.Description = MetaContent(doc, "meta[name=description]")
	m.Keywords = MetaContent(doc, "meta[name=keywords]")
	m.CanonicalLink = CanonicalLink(doc, finalURL)
	m.Tags = Tags(doc)
	m.Authors = Authors(doc)
	m.PublishDate = PublishDate(doc)
	m.PublishTime = ParseDate(m.PublishDate)
	return m
}

// ciContains builds an XPath predicate matching attr case-insensitively
// against a lowercase substring.
func ciContains(attr, value string) string {
	return "contains(translate(@" + attr + ",'ABCDEFGHIJKLMNOPQRSTUVWXYZ','abcdefghijklmnopqrstuvwxyz'),'" +
		strings.ToLower(value) + "')"
}

// first returns the first node matched by expr, or nil when there is none or
// the expression does not compile.
func first(top *html.Node, expr string) *html.Node {
	n, err := htmlquery.Query(top, expr)
	if err != nil {
		return nil
	}
	return n
}

func all(top *html.Node, expr string) []*html.Node {
	nodes, err := htmlquery.QueryAll(top, expr)
	if err != nil {
		return nil
	}
	return nodes
}

// OpenGraph collects og:* meta properties keyed by the name after the prefix.
// og:image:width is stored under "image" like og:image; later tags win.
func OpenGraph(doc *html.Node) map[string]string {
	og := make(map[string]string)
	for _, meta := range all(doc, "//meta[starts-with(@property,'og:')]") {
		parts := strings.Split(htmlquery.SelectAttr(meta, "property"), ":")
		og[parts[1]] = htmlquery.SelectAttr(meta, "content")
	}
	return og
}

// Domain returns the host name of pageURL without port.
func Domain(pageURL string) string {
	if pageURL == "" {
		return ""
	}
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// MetaLang returns the two letter language declared by the page, lowercase.
// The lang attribute of the root element wins; content-language and lang
// metas are read only when it is absent.
func MetaLang(doc *html.Node) string {
	root := dom.Root(doc)
	lang, ok := dom.Attr(root, "lang")
	if !ok {
		for _, expr := range []string{
			"//meta[" + ciContains("http-equiv", "content-language") + "]",
			"//meta[" + ciContains("name", "lang") + "]",
		} {
			if meta := first(doc, expr); meta != nil {
				lang = htmlquery.SelectAttr(meta, "content")
				break
			}
		}
	}
	if len(lang) > 2 {
		lang = lang[:2]
	}
	if regexpLang.MatchString(lang) {
		return strings.ToLower(lang)
	}
	return ""
}

// Favicon returns the href of the first icon link.
func Favicon(doc *html.Node) string {
	if link := first(doc, "//link["+ciContains("rel", "icon")+"]"); link != nil {
		return htmlquery.SelectAttr(link, "href")
	}
	return ""
}

// MetaContent returns the trimmed content attribute of the first element
// matching the CSS selector.
func MetaContent(doc *html.Node, selector string) string {
	metas := dom.Select(doc, selector)
	if len(metas) == 0 {
		return ""
	}
	return strings.TrimSpace(dom.AttrOr(metas[0], "content", ""))
}

// CanonicalLink returns the canonical link of the page. Host-relative links
// are joined to the scheme and host of pageURL; pageURL is returned when the
// page declares none.
func CanonicalLink(doc *html.Node, pageURL string) string {
	if pageURL == "" {
		return ""
	}
	link := first(doc, "//link["+ciContains("rel", "canonical")+"]")
	if link == nil {
		return pageURL
	}
	href := strings.TrimSpace(htmlquery.SelectAttr(link, "href"))
	if href == "" {
		return pageURL
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.Hostname() != "" {
		return href
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return href
	}
	return (&url.URL{Scheme: base.Scheme, Host: base.Hostname()}).ResolveReference(u).String()
}

const (
	relTagSelector  = "a[rel=tag]"
	hrefTagSelector = "a[href*='/tag/'], a[href*='/tags/'], a[href*='/topic/'], a[href*='?keyword=']"
)

// Tags returns the distinct texts of tag links, preferring rel=tag anchors
// over tag-like hrefs.
func Tags(doc *html.Node) []string {
	elements := dom.Select(doc, relTagSelector)
	if len(elements) == 0 {
		elements = dom.Select(doc, hrefTagSelector)
	}
	var tags []string
	for _, el := range elements {
		if tag := dom.Text(el); tag != "" {
			tags = append(tags, tag)
		}
	}
	return dedupe(tags)
}

// Authors returns the distinct names found under itemprop=author elements.
func Authors(doc *html.Node) []string {
	var authors []string
	for _, author := range all(doc, "//*["+ciContains("itemprop", "author")+"]") {
		name := first(author, ".//*["+ciContains("itemprop", "name")+"]")
		if name == nil {
			continue
		}
		authors = append(authors, dom.Text(name))
	}
	return dedupe(authors)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
