package crawler

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrjoshuak/gravigo/internal/dom"
	"github.com/mrjoshuak/gravigo/internal/images"
	"github.com/mrjoshuak/gravigo/internal/stopwords"
)

const (
	para1 = "The fox was in the garden with the dog and it was there all day."
	para2 = "It was the end of the summer and the fox had been there for a while."
	para3 = "The dog saw the fox from the house and it ran out to the garden."
)

const navbarPage = `<html lang="es"><head><title>Fox story</title>
<meta property="og:image" content="/img/lead.jpg">
</head><body>
<div class="navbar"><a href="/a">Home</a> <a href="/b">World</a> <a href="/c">Sports</a></div>
<div id="article">
<p>` + para1 + `</p>
<p>` + para2 + `</p>
<p>` + para3 + `</p>
</div>
</body></html>`

const pageURL = "https://example.com/news/fox.html"

type fakeFetcher struct {
	body     string
	finalURL string
	err      error
	calls    int
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string) (string, string, error) {
	f.calls++
	return f.body, f.finalURL, f.err
}

type fakeReleaser struct {
	hashes []string
}

func (r *fakeReleaser) Release(linkHash string) error {
	r.hashes = append(r.hashes, linkHash)
	return nil
}

func TestCrawlNavbarScenario(t *testing.T) {
	t.Parallel()

	rel := &fakeReleaser{}
	c := New(Config{}, WithReleaser(rel))

	article, err := c.Crawl(context.Background(), Candidate{URL: pageURL, RawHTML: navbarPage})
	require.NoError(t, err)
	require.NotNil(t, article.TopNode)

	assert.Equal(t, "article", dom.AttrOr(article.TopNode, "id", ""))
	assert.Equal(t, para1+"\n\n"+para2+"\n\n"+para3, article.CleanedText)
	assert.Empty(t, dom.Select(article.Doc, ".navbar"), "navbar is removed while cleaning")
	assert.NotEmpty(t, dom.Select(article.RawDoc, ".navbar"), "raw snapshot is untouched")

	assert.Equal(t, "Fox story", article.Title)
	assert.Equal(t, "example.com", article.Domain)
	assert.Equal(t, "es", article.MetaLang)
	assert.Equal(t, DefaultLanguage, article.Language)
	assert.Equal(t, pageURL, article.FinalURL)
	assert.Empty(t, article.Links)
	assert.Nil(t, article.TopImage, "image fetching is off")
	assert.Contains(t, article.TopNodeHTML, `id="article"`)
	assert.Empty(t, article.Markdown)

	require.Len(t, rel.hashes, 1)
	assert.Equal(t, article.LinkHash, rel.hashes[0])
}

func TestCrawlKeepsWordsSplitByInlineTags(t *testing.T) {
	t.Parallel()

	page := `<html><head><title>Fox</title></head><body><div id="article">
<p><span class="dropcap">T</span>he fox was in the garden with the dog and it was there all day.</p>
<p>It was the end of the sum<b>mer</b> and the fox had been there for a while.</p>
<p>The dog saw the fox from the house and it ran out to the <a>garden</a>s.</p>
</div></body></html>`

	article, err := New(Config{}).Crawl(context.Background(), Candidate{URL: pageURL, RawHTML: page})
	require.NoError(t, err)

	paras := strings.Split(article.CleanedText, "\n\n")
	require.Len(t, paras, 3, article.CleanedText)
	assert.Equal(t, para1, paras[0])
	assert.Equal(t, para2, paras[1])
	assert.Equal(t, "The dog saw the fox from the house and it ran out to the gardens.", paras[2])
}

func TestCrawlUsesMetaLanguage(t *testing.T) {
	t.Parallel()

	c := New(Config{UseMetaLanguage: true, TargetLanguage: "en"})
	article, err := c.Crawl(context.Background(), Candidate{URL: pageURL, RawHTML: navbarPage})
	require.NoError(t, err)
	assert.Equal(t, "es", article.Language)
}

func TestCrawlImageAndMarkdown(t *testing.T) {
	t.Parallel()

	c := New(Config{EnableImageFetching: true, Markdown: true, AnnotateScores: true},
		WithImageExtractor(images.New(nil)))

	article, err := c.Crawl(context.Background(), Candidate{URL: pageURL, RawHTML: navbarPage})
	require.NoError(t, err)

	require.NotNil(t, article.TopImage)
	assert.Equal(t, images.TypeOpenGraph, article.TopImage.ExtractionType)
	assert.Equal(t, "https://example.com/img/lead.jpg", article.TopImage.Src)

	assert.Contains(t, article.Markdown, "The fox was in the garden")
	assert.Contains(t, article.TopNodeHTML, "gravityScore")
	assert.Equal(t, para1+"\n\n"+para2+"\n\n"+para3, article.CleanedText)
}

func TestCrawlFetchesWhenNoRawHTML(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{body: navbarPage, finalURL: "https://example.com/final"}
	article, err := New(Config{}, WithFetcher(f)).Crawl(context.Background(), Candidate{URL: pageURL})
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, "https://example.com/final", article.FinalURL)
	assert.NotEmpty(t, article.CleanedText)

	f = &fakeFetcher{body: "ignored"}
	_, err = New(Config{}, WithFetcher(f)).Crawl(context.Background(), Candidate{URL: pageURL, RawHTML: navbarPage})
	require.NoError(t, err)
	assert.Zero(t, f.calls, "raw HTML is never refetched")
}

func TestCrawlErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := New(Config{}, WithFetcher(&fakeFetcher{err: boom})).Crawl(context.Background(), Candidate{URL: pageURL})
	require.Error(t, err)
	assert.True(t, IsFetchError(err))
	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, boom)

	_, err = New(Config{}).Crawl(context.Background(), Candidate{URL: pageURL})
	assert.ErrorIs(t, err, ErrFetch)
}

func TestCrawlEmptyFetchedBody(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{body: " \n ", finalURL: pageURL}
	article, err := New(Config{}, WithFetcher(f)).Crawl(context.Background(), Candidate{URL: pageURL})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoDocument)
	assert.True(t, IsFetchError(err))
	assert.Empty(t, article.CleanedText)
}

// panickingWords fails inside the scorer.
type panickingWords struct{}

func (panickingWords) Count(string, string) stopwords.WordStats {
	panic("word list exploded")
}

func TestCrawlRecoversFromPanics(t *testing.T) {
	t.Parallel()

	rel := &fakeReleaser{}
	c := New(Config{}, WithWordStats(panickingWords{}), WithReleaser(rel))

	article, err := c.Crawl(context.Background(), Candidate{URL: pageURL, RawHTML: navbarPage})
	require.Error(t, err)
	assert.True(t, IsExtractionError(err))
	assert.Contains(t, err.Error(), "word list exploded")
	require.NotNil(t, article)
	assert.Equal(t, pageURL, article.FinalURL)
	assert.Len(t, rel.hashes, 1, "temporary files are released even when a stage panics")
}

func TestCrawlEmptyInput(t *testing.T) {
	t.Parallel()

	article, err := New(Config{}).Crawl(context.Background(), Candidate{})
	require.NoError(t, err)
	assert.Empty(t, article.CleanedText)
	assert.Nil(t, article.TopNode)
	assert.Empty(t, article.LinkHash)
}

func TestCrawlWithoutTopNode(t *testing.T) {
	t.Parallel()

	page := `<html><body><div>Hi</div></body></html>`
	article, err := New(Config{}).Crawl(context.Background(), Candidate{RawHTML: page})
	require.NoError(t, err)
	assert.Nil(t, article.TopNode)
	assert.Empty(t, article.CleanedText)
	assert.Nil(t, article.TopImage)

	article, err = New(Config{ReadabilityFallback: true}).Crawl(context.Background(), Candidate{RawHTML: page})
	require.NoError(t, err)
	assert.Equal(t, article.CleanedText != "", article.Fallback)
}

func TestLinkHash(t *testing.T) {
	t.Parallel()

	sum := md5.Sum([]byte(pageURL))
	got := LinkHash(pageURL, time.Unix(0, 42))
	assert.Equal(t, hex.EncodeToString(sum[:])+".42", got)
	assert.True(t, strings.HasSuffix(got, ".42"))
}
