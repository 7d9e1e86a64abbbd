package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/mrjoshuak/gravigo/internal/dom"
)

const articlePage = `<html lang="en-US"><head>
<title>Ignored title</title>
<meta property="og:title" content="Big News | Example Site">
<meta property="og:site_name" content="Example Site">
<meta property="og:image" content="https://example.com/a.jpg">
<meta name="description" content="  A description. ">
<meta name="keywords" content="news, stuff">
<link rel="shortcut icon" href="/favicon.ico">
<link rel="canonical" href="/news/big">
<meta property="article:published_time" content="2023-03-27T15:04:05Z">
</head><body>
<div itemprop="author"><span itemprop="name">Jane Doe</span></div>
<div itemprop="author"><span itemprop="name">Jane Doe</span></div>
<div itemprop="author">no name here</div>
<a rel="tag" href="/t/go">Go</a><a rel="tag" href="/t/html">HTML</a><a rel="tag">Go</a>
<a href="/tag/ignored">Ignored</a>
</body></html>`

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := dom.ParseString(src)
	require.NoError(t, err)
	return doc
}

func TestExtract(t *testing.T) {
	t.Parallel()

	m := Extract(parse(t, articlePage), "https://example.com:8443/path")

	assert.Equal(t, "Big News", m.Title)
	assert.Equal(t, "en", m.Lang)
	assert.Equal(t, "/favicon.ico", m.Favicon)
	assert.Equal(t, "A description.", m.Description)
	assert.Equal(t, "news, stuff", m.Keywords)
	assert.Equal(t, "example.com", m.Domain)
	assert.Equal(t, "https://example.com/news/big", m.CanonicalLink)
	assert.Equal(t, []string{"Go", "HTML"}, m.Tags)
	assert.Equal(t, []string{"Jane Doe"}, m.Authors)
	assert.Equal(t, "2023-03-27T15:04:05Z", m.PublishDate)
	assert.True(t, m.PublishTime.Equal(time.Date(2023, 3, 27, 15, 4, 5, 0, time.UTC)))
	assert.Equal(t, map[string]string{
		"title":     "Big News | Example Site",
		"site_name": "Example Site",
		"image":     "https://example.com/a.jpg",
	}, m.OpenGraph)
}

func TestExtractNilDocument(t *testing.T) {
	t.Parallel()

	m := Extract(nil, "https://example.com/")
	assert.Empty(t, m.Title)
	assert.Nil(t, m.OpenGraph)
}

func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		page   string
		domain string
		want   string
	}{
		{
			name: "headline meta",
			page: `<html><head><meta name="headline" content="From headline :"><title>T</title></head></html>`,
			want: "From headline",
		},
		{
			name: "empty headline stops the search",
			page: `<html><head><meta name="headline" content=""><title>T</title></head></html>`,
			want: "",
		},
		{
			name:   "title element without domain",
			page:   `<html><head><title>Example.com - Story of the day</title></head></html>`,
			domain: "example.com",
			want:   "Story of the day",
		},
		{
			name: "leading and trailing splitters",
			page: `<html><head><title>» Middle words |</title></head></html>`,
			want: "Middle words",
		},
		{
			name: "no title",
			page: `<html><head></head><body><p>x</p></body></html>`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc := parse(t, tt.page)
			assert.Equal(t, tt.want, Title(doc, OpenGraph(doc), tt.domain))
		})
	}
}

func TestCleanTitleKeepsInnerSplitters(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Go - the language", CleanTitle("Go - the language", nil, ""))
	assert.Equal(t, "Story", CleanTitle("Story | Site", map[string]string{"site_name": "Site"}, ""))
}

func TestMetaLang(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		page string
		want string
	}{
		{"html lang", `<html lang="DE"><head></head></html>`, "de"},
		{"content-language meta", `<html><head><meta http-equiv="Content-Language" content="FR"></head></html>`, "fr"},
		{"lang meta", `<html><head><meta name="lang" content="es-ES"></head></html>`, "es"},
		{"empty lang attribute skips metas", `<html lang=""><head><meta name="lang" content="es"></head></html>`, ""},
		{"not letters", `<html lang="12"><head></head></html>`, ""},
		{"nothing declared", `<html><head></head></html>`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MetaLang(parse(t, tt.page)))
		})
	}
}

func TestCanonicalLink(t *testing.T) {
	t.Parallel()

	noLink := parse(t, `<html><head></head></html>`)
	assert.Equal(t, "https://example.com/a", CanonicalLink(noLink, "https://example.com/a"))
	assert.Empty(t, CanonicalLink(noLink, ""))

	abs := parse(t, `<html><head><link rel="canonical" href=" https://other.org/b "></head></html>`)
	assert.Equal(t, "https://other.org/b", CanonicalLink(abs, "https://example.com/a"))
}

func TestTagsFallBackToHrefPatterns(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body><a href="/tag/go">Go</a><a href="/topic/web">Web</a><a href="/about">About</a><a href="/tags/go">Go</a></body></html>`)
	assert.Equal(t, []string{"Go", "Web"}, Tags(doc))
	assert.Empty(t, Tags(parse(t, `<html><body><p>none</p></body></html>`)))
}

func TestPublishDate(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body><time itemprop="datePublished" datetime="2020-01-02">Jan 2</time></body></html>`)
	assert.Equal(t, "2020-01-02", PublishDate(doc))
	assert.True(t, ParseDate("2020-01-02").Equal(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)))

	assert.True(t, ParseDate("not a date").IsZero())
	assert.True(t, ParseDate("").IsZero())
	assert.Empty(t, PublishDate(parse(t, `<html><body></body></html>`)))
}

func TestTopNodeLookups(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body><div id="top">
<p>Read <a href="https://a.example/1">one</a> and <a href="/two">two</a> and <a>none</a>.</p>
<blockquote class="twitter-tweet" gravityScore="5"><p>tweet</p></blockquote>
<iframe src="https://www.youtube.com/embed/xyz" width="560" height="315"></iframe>
<embed src="https://player.vimeo.com/v/1">
<iframe src="https://maps.example.com/"></iframe>
</div></body></html>`)
	top := dom.ElementByID(doc, "top")

	assert.Equal(t, []string{"https://a.example/1", "/two"}, Links(top))

	tweets := Tweets(top)
	require.Len(t, tweets, 1)
	assert.Contains(t, tweets[0], "twitter-tweet")
	assert.NotContains(t, tweets[0], "gravityscore")

	videos := Videos(top)
	require.Len(t, videos, 2)
	assert.Equal(t, "youtube", videos[0].Provider)
	assert.Equal(t, "iframe", videos[0].EmbedType)
	assert.Equal(t, "560", videos[0].Width)
	assert.Equal(t, "315", videos[0].Height)
	assert.Contains(t, videos[0].EmbedCode, "<iframe")
	assert.Equal(t, "vimeo", videos[1].Provider)
	assert.Equal(t, "embed", videos[1].EmbedType)

	assert.Nil(t, Links(nil))
	assert.Nil(t, Videos(nil))
	assert.Nil(t, Tweets(nil))
}
