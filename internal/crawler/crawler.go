// Package crawler runs the extraction pipeline for one page: parse, read
// metadata, clean, score, pick an image, reattach siblings and format the
// text.
package crawler

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	readability "github.com/go-shiori/go-readability"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/mrjoshuak/gravigo/internal/cleaner"
	"github.com/mrjoshuak/gravigo/internal/content"
	"github.com/mrjoshuak/gravigo/internal/dom"
	"github.com/mrjoshuak/gravigo/internal/formatter"
	"github.com/mrjoshuak/gravigo/internal/images"
	"github.com/mrjoshuak/gravigo/internal/metadata"
	"github.com/mrjoshuak/gravigo/internal/stopwords"
)

// DefaultLanguage is used when neither the page nor the caller names one.
const DefaultLanguage = "en"

// PageFetcher downloads a page and reports the URL it was served from.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (body string, finalURL string, err error)
}

// Releaser deletes temporary files kept for one extraction.
type Releaser interface {
	Release(linkHash string) error
}

// Candidate is a page to extract: a URL, raw HTML, or both. When RawHTML is
// set nothing is fetched and URL is only used to resolve links.
type Candidate struct {
	URL     string
	RawHTML string
}

// Config selects the optional stages of the pipeline.
type Config struct {
	TargetLanguage      string
	UseMetaLanguage     bool
	EnableImageFetching bool
	ReadabilityFallback bool
	Markdown            bool
	AnnotateScores      bool
}

// Article is everything extracted from one page.
type Article struct {
	FinalURL    string
	LinkHash    string
	RawHTML     string
	RawDoc      *html.Node
	Doc         *html.Node
	TopNode     *html.Node
	TopNodeHTML string
	CleanedText string
	Markdown    string
	TopImage    *images.Image
	Language    string

	Title         string
	Description   string
	Keywords      string
	MetaLang      string
	Favicon       string
	CanonicalLink string
	Domain        string
	Tags          []string
	OpenGraph     map[string]string
	Authors       []string
	PublishDate   string
	PublishTime   time.Time

	Tweets []string
	Links  []string
	Movies []metadata.Video

	// Fallback is set when the text came from the readability fallback.
	Fallback bool
}

// Crawler extracts articles. It holds no per-page state and may be shared.
type Crawler struct {
	cfg      Config
	words    stopwords.Provider
	fetcher  PageFetcher
	images   *images.Extractor
	releaser Releaser
	markdown *converter.Converter
	log      zerolog.Logger
	now      func() time.Time
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithFetcher sets the fetcher used for candidates without raw HTML.
func WithFetcher(f PageFetcher) Option {
	return func(c *Crawler) {
		c.fetcher = f
	}
}

// WithImageExtractor sets the extractor used when image fetching is enabled.
func WithImageExtractor(e *images.Extractor) Option {
	return func(c *Crawler) {
		c.images = e
	}
}

// WithReleaser sets what cleans up temporary files after each extraction.
func WithReleaser(r Releaser) Option {
	return func(c *Crawler) {
		c.releaser = r
	}
}

// WithWordStats replaces the bundled stopword lists.
func WithWordStats(p stopwords.Provider) Option {
	return func(c *Crawler) {
		c.words = p
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Crawler) {
		c.log = log
	}
}

// New returns a Crawler for cfg.
func New(cfg Config, opts ...Option) *Crawler {
	if cfg.TargetLanguage == "" {
		cfg.TargetLanguage = DefaultLanguage
	}
	c := &Crawler{
		cfg:   cfg,
		words: stopwords.New(),
		log:   zerolog.Nop(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.Markdown {
		c.markdown = converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		)
	}
	return c
}

// LinkHash identifies one extraction of pageURL: the md5 of the URL plus
// the time the extraction started.
func LinkHash(pageURL string, at time.Time) string {
	sum := md5.Sum([]byte(pageURL))
	return hex.EncodeToString(sum[:]) + "." + strconv.FormatInt(at.UnixNano(), 10)
}

// Crawl extracts the article of cand. A page without a top node yields an
// Article with empty text and no error. A panic in any stage is returned as
// an extraction error.
func (c *Crawler) Crawl(ctx context.Context, cand Candidate) (article *Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Str("url", cand.URL).Msg("extraction panicked")
			article = &Article{FinalURL: cand.URL}
			err = WrapExtractionError(fmt.Errorf("panic: %v", r), "Crawl", cand.URL)
		}
	}()
	return c.crawl(ctx, cand)
}

func (c *Crawler) crawl(ctx context.Context, cand Candidate) (*Article, error) {
	article := &Article{FinalURL: cand.URL}

	rawHTML := cand.RawHTML
	if rawHTML == "" && cand.URL != "" {
		if c.fetcher == nil {
			return article, WrapFetchError(ErrFetch, "Crawl", "no fetcher configured")
		}
		body, finalURL, err := c.fetcher.Fetch(ctx, cand.URL)
		if err != nil {
			return article, WrapFetchError(fmt.Errorf("%w: %w", ErrFetch, err), "Crawl", cand.URL)
		}
		if strings.TrimSpace(body) == "" {
			return article, WrapFetchError(ErrNoDocument, "Crawl", cand.URL)
		}
		rawHTML = body
		article.FinalURL = finalURL
	}
	if strings.TrimSpace(rawHTML) == "" {
		return article, nil
	}

	doc, err := dom.ParseString(dom.NormalizeDocument(rawHTML))
	if err != nil {
		return &Article{FinalURL: article.FinalURL}, WrapParseError(fmt.Errorf("%w: %w", ErrParse, err), "Crawl", "parsing HTML")
	}
	if dom.Root(doc) == nil {
		return article, WrapParseError(ErrNoDocument, "Crawl", "no root element")
	}

	article.LinkHash = LinkHash(article.FinalURL, c.now())
	article.RawHTML = rawHTML
	article.Doc = doc
	article.RawDoc = dom.Clone(doc)
	if c.releaser != nil {
		defer c.release(article.LinkHash)
	}

	c.applyMetadata(article, metadata.Extract(doc, article.FinalURL))
	article.Language = c.language(article.MetaLang)

	article.Doc = cleaner.New(c.log).Clean(doc)

	scorer := content.NewScorer(c.words, article.Language, c.log)
	top, scores := scorer.BestNode(article.Doc)
	if top != nil {
		article.Movies = metadata.Videos(top)
		article.Tweets = metadata.Tweets(top)
		article.Links = metadata.Links(top)

		if c.cfg.EnableImageFetching && c.images != nil {
			article.TopImage = c.images.BestImage(ctx, images.Page{
				URL:      article.FinalURL,
				Domain:   article.Domain,
				LinkHash: article.LinkHash,
			}, article.RawDoc, top)
		}

		top = scorer.PostCleanup(top, scores)
		if c.cfg.AnnotateScores {
			scores.Annotate()
		}
		article.TopNode = top
		article.TopNodeHTML = dom.OuterHTML(top)
		if c.markdown != nil {
			article.Markdown = c.toMarkdown(article.TopNodeHTML, article.FinalURL)
		}
		article.CleanedText = formatter.New(c.words, article.Language, c.log).Format(top, scores)
	}

	if article.CleanedText == "" && c.cfg.ReadabilityFallback {
		article.CleanedText = c.fallbackText(rawHTML, article.FinalURL)
		article.Fallback = article.CleanedText != ""
	}

	c.log.Debug().
		Str("url", article.FinalURL).
		Str("lang", article.Language).
		Bool("top_node", top != nil).
		Int("text_len", len(article.CleanedText)).
		Msg("crawl complete")
	return article, nil
}

func (c *Crawler) applyMetadata(a *Article, m *metadata.Metas) {
	a.Title = m.Title
	a.Description = m.Description
	a.Keywords = m.Keywords
	a.MetaLang = m.Lang
	a.Favicon = m.Favicon
	a.CanonicalLink = m.CanonicalLink
	a.Domain = m.Domain
	a.Tags = m.Tags
	a.OpenGraph = m.OpenGraph
	a.Authors = m.Authors
	a.PublishDate = m.PublishDate
	a.PublishTime = m.PublishTime
}

// language picks the page language when allowed, else the configured one.
func (c *Crawler) language(metaLang string) string {
	if c.cfg.UseMetaLanguage && metaLang != "" {
		return metaLang
	}
	return c.cfg.TargetLanguage
}

func (c *Crawler) toMarkdown(fragment, pageURL string) string {
	var (
		md  string
		err error
	)
	if pageURL != "" {
		md, err = c.markdown.ConvertString(fragment, converter.WithDomain(pageURL))
	} else {
		md, err = c.markdown.ConvertString(fragment)
	}
	if err != nil {
		c.log.Debug().Err(err).Msg("markdown conversion failed")
		return ""
	}
	return strings.TrimSpace(md)
}

func (c *Crawler) fallbackText(rawHTML, pageURL string) string {
	parsed := &url.URL{}
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			parsed = u
		}
	}
	fb, err := readability.FromReader(strings.NewReader(rawHTML), parsed)
	if err != nil {
		c.log.Debug().Err(err).Msg("readability fallback failed")
		return ""
	}
	return strings.TrimSpace(fb.TextContent)
}

func (c *Crawler) release(linkHash string) {
	if err := c.releaser.Release(linkHash); err != nil {
		c.log.Warn().Err(err).Str("link_hash", linkHash).Msg("releasing image cache")
	}
}
