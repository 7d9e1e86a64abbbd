package metadata

import (
	"regexp"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/mrjoshuak/gravigo/internal/dom"
)

// titleSplitters separate a site name from the headline, e.g.
// "TechCrunch | my article".
var titleSplitters = map[string]bool{"|": true, "-": true, "»": true, ":": true}

// Title returns the article title: og:title first, then a headline meta, then
// the document title. The chosen value is cleaned with CleanTitle.
func Title(doc *html.Node, og map[string]string, domain string) string {
	if t := og["title"]; t != "" {
		return CleanTitle(t, og, domain)
	}
	if meta := first(doc, "//meta["+ciContains("name", "headline")+"]"); meta != nil {
		if t := htmlquery.SelectAttr(meta, "content"); t != "" {
			return CleanTitle(t, og, domain)
		}
		return ""
	}
	if title := first(doc, "//title"); title != nil {
		if t := dom.Text(title); t != "" {
			return CleanTitle(t, og, domain)
		}
	}
	return ""
}

// CleanTitle removes the og:site_name and the domain from title, then drops a
// splitter token at either end.
func CleanTitle(title string, og map[string]string, domain string) string {
	if site, ok := og["site_name"]; ok && site != "" {
		title = strings.TrimSpace(strings.ReplaceAll(title, site, ""))
	}
	if domain != "" {
		re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(domain))
		title = strings.TrimSpace(re.ReplaceAllString(title, ""))
	}

	words := strings.Fields(title)
	if len(words) > 0 && titleSplitters[words[0]] {
		words = words[1:]
	}
	if len(words) > 0 && titleSplitters[words[len(words)-1]] {
		words = words[:len(words)-1]
	}
	return strings.TrimSpace(strings.Join(words, " "))
}
