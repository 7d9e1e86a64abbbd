package metadata

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/mrjoshuak/gravigo/internal/content"
	"github.com/mrjoshuak/gravigo/internal/dom"
)

// The lookups below run on the top node once it has been chosen.

// Video is an embedded player found in the article body.
type Video struct {
	EmbedCode string
	EmbedType string
	Width     string
	Height    string
	Src       string
	Provider  string
}

var (
	videoTags      = []string{"iframe", "embed", "object"}
	videoProviders = []string{"youtube", "vimeo", "dailymotion", "kewego"}
)

// Tweets returns the markup of embedded tweets under top, without gravity
// annotations.
func Tweets(top *html.Node) []string {
	if top == nil {
		return nil
	}
	var tweets []string
	for _, bq := range all(top, ".//blockquote["+ciContains("class", "twitter-tweet")+"]") {
		content.StripAnnotations(bq)
		tweets = append(tweets, dom.OuterHTML(bq))
	}
	return tweets
}

// Links returns the href of every anchor under top, in document order.
func Links(top *html.Node) []string {
	if top == nil {
		return nil
	}
	var links []string
	for _, a := range all(top, ".//a[@href]") {
		if href := htmlquery.SelectAttr(a, "href"); href != "" {
			links = append(links, href)
		}
	}
	return links
}

// Videos returns the embeds under top whose src points at a known video
// provider. A src naming several providers yields one video per provider.
func Videos(top *html.Node) []Video {
	if top == nil {
		return nil
	}
	var videos []Video
	for _, n := range dom.ElementsByTags(top, videoTags...) {
		src := dom.AttrOr(n, "src", "")
		if src == "" {
			continue
		}
		for _, provider := range videoProviders {
			if !strings.Contains(src, provider) {
				continue
			}
			videos = append(videos, Video{
				EmbedCode: dom.OuterHTML(n),
				EmbedType: dom.Tag(n),
				Width:     dom.AttrOr(n, "width", ""),
				Height:    dom.AttrOr(n, "height", ""),
				Src:       src,
				Provider:  provider,
			})
		}
	}
	return videos
}
