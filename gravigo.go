package gravigo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrjoshuak/gravigo/internal/crawler"
	"github.com/mrjoshuak/gravigo/internal/images"
	"github.com/mrjoshuak/gravigo/internal/imagestore"
	"github.com/mrjoshuak/gravigo/internal/network"
	"github.com/mrjoshuak/gravigo/internal/stopwords"
)

// Extractor extracts articles from HTML or from a URL.
type Extractor interface {
	// ExtractFromHTML extracts an article from an HTML string. pageURL is
	// used to resolve relative links and may be empty.
	ExtractFromHTML(ctx context.Context, html, pageURL string) (*Article, error)

	// ExtractFromReader extracts an article from an io.Reader
	ExtractFromReader(ctx context.Context, r io.Reader, pageURL string) (*Article, error)

	// ExtractFromURL downloads pageURL and extracts its article
	ExtractFromURL(ctx context.Context, pageURL string) (*Article, error)
}

// Option represents a function that modifies ExtractionOptions.
type Option func(*ExtractionOptions)

// WithLanguage sets the language used when the page declares none, or always
// when meta language is disabled.
func WithLanguage(lang string) Option {
	return func(o *ExtractionOptions) {
		o.TargetLanguage = lang
	}
}

// WithMetaLanguage enables or disables using the language declared by the
// page for stopword counting.
func WithMetaLanguage(enable bool) Option {
	return func(o *ExtractionOptions) {
		o.UseMetaLanguage = enable
	}
}

// WithImageFetching enables or disables top image extraction. Image
// extraction downloads candidate images to measure them.
func WithImageFetching(enable bool) Option {
	return func(o *ExtractionOptions) {
		o.EnableImageFetching = enable
	}
}

// WithLocalStoragePath sets the directory downloaded images are kept in.
func WithLocalStoragePath(path string) Option {
	return func(o *ExtractionOptions) {
		o.LocalStoragePath = path
	}
}

// WithMinImageBytes sets the smallest file size accepted for a large image.
func WithMinImageBytes(n int64) Option {
	return func(o *ExtractionOptions) {
		o.MinImageBytes = n
	}
}

// WithUserAgent sets the User-Agent of page and image requests.
func WithUserAgent(ua string) Option {
	return func(o *ExtractionOptions) {
		o.UserAgent = ua
	}
}

// WithHTTPTimeout sets the timeout of a single HTTP request.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *ExtractionOptions) {
		o.HTTPTimeout = d
	}
}

// WithHTTPClient sets the client used for page and image requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *ExtractionOptions) {
		o.HTTPClient = c
	}
}

// WithImageRateLimit caps image downloads per second. A non-positive rps
// disables the limit.
func WithImageRateLimit(rps float64, burst int) Option {
	return func(o *ExtractionOptions) {
		o.ImageRateLimit = rps
		o.ImageBurst = burst
	}
}

// WithSiteMapping replaces the bundled domain to image class mapping.
func WithSiteMapping(m map[string][]string) Option {
	return func(o *ExtractionOptions) {
		o.SiteMapping = m
	}
}

// WithTimeout sets the timeout duration for a whole extraction.
// This prevents extraction from hanging on slow image servers or huge pages.
func WithTimeout(timeout time.Duration) Option {
	return func(o *ExtractionOptions) {
		o.Timeout = timeout
	}
}

// WithReadabilityFallback fills the text with go-readability's output when
// no content node is found.
func WithReadabilityFallback(enable bool) Option {
	return func(o *ExtractionOptions) {
		o.ReadabilityFallback = enable
	}
}

// WithMarkdown renders the content node as Markdown into Article.Markdown.
func WithMarkdown(enable bool) Option {
	return func(o *ExtractionOptions) {
		o.Markdown = enable
	}
}

// WithScoreAnnotations writes gravityScore and gravityNodes attributes into
// Article.TopNodeHTML.
func WithScoreAnnotations(enable bool) Option {
	return func(o *ExtractionOptions) {
		o.AnnotateScores = enable
	}
}

// WithLogger sets the logger receiving debug events of every stage.
func WithLogger(log zerolog.Logger) Option {
	return func(o *ExtractionOptions) {
		o.Logger = log
	}
}

// LoadSiteMapping reads a domain^class1|class2 mapping file for use with
// WithSiteMapping.
func LoadSiteMapping(path string) (map[string][]string, error) {
	m, err := images.LoadSiteMapping(path)
	if err != nil {
		return nil, crawler.WrapConfigError(err, "LoadSiteMapping", path)
	}
	return m, nil
}

// articleExtractor is the concrete implementation of the Extractor interface.
type articleExtractor struct {
	options ExtractionOptions
	crawler *crawler.Crawler
}

// New creates a new Extractor with the provided options.
//
// Example:
//
//	extractor := gravigo.New(
//	    gravigo.WithLanguage("fr"),
//	    gravigo.WithTimeout(time.Second*60),
//	)
func New(opts ...Option) Extractor {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	client := options.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	log := options.Logger

	fetcher := network.NewFetcher(
		network.WithHTTPClient(client),
		network.WithTimeout(options.HTTPTimeout),
		network.WithUserAgent(options.UserAgent),
		network.WithLogger(log),
	)
	store := imagestore.New(options.LocalStoragePath,
		imagestore.WithHTTPClient(client),
		imagestore.WithTimeout(options.HTTPTimeout),
		imagestore.WithUserAgent(options.UserAgent),
		imagestore.WithRateLimit(options.ImageRateLimit, options.ImageBurst),
		imagestore.WithLogger(log),
	)
	imageOpts := []images.Option{
		images.WithMinBytes(options.MinImageBytes),
		images.WithLogger(log),
	}
	if options.SiteMapping != nil {
		imageOpts = append(imageOpts, images.WithSiteMapping(images.SiteMapping(options.SiteMapping)))
	}

	c := crawler.New(crawler.Config{
		TargetLanguage:      options.TargetLanguage,
		UseMetaLanguage:     options.UseMetaLanguage,
		EnableImageFetching: options.EnableImageFetching,
		ReadabilityFallback: options.ReadabilityFallback,
		Markdown:            options.Markdown,
		AnnotateScores:      options.AnnotateScores,
	},
		crawler.WithFetcher(fetcher),
		crawler.WithImageExtractor(images.New(store, imageOpts...)),
		crawler.WithReleaser(store),
		crawler.WithWordStats(stopwords.New()),
		crawler.WithLogger(log),
	)

	return &articleExtractor{options: options, crawler: c}
}

// ExtractFromHTML extracts an article from an HTML string.
func (e *articleExtractor) ExtractFromHTML(ctx context.Context, html, pageURL string) (*Article, error) {
	return e.run(ctx, crawler.Candidate{URL: pageURL, RawHTML: html})
}

// ExtractFromReader reads the entire content from r and passes it to
// ExtractFromHTML.
func (e *articleExtractor) ExtractFromReader(ctx context.Context, r io.Reader, pageURL string) (*Article, error) {
	html, err := io.ReadAll(r)
	if err != nil {
		return nil, crawler.WrapParseError(err, "ExtractFromReader", "reading input")
	}
	return e.ExtractFromHTML(ctx, string(html), pageURL)
}

// ExtractFromURL downloads pageURL and extracts its article.
func (e *articleExtractor) ExtractFromURL(ctx context.Context, pageURL string) (*Article, error) {
	return e.run(ctx, crawler.Candidate{URL: pageURL})
}

// run crawls cand in a goroutine and gives up once the extraction timeout or
// ctx expires.
func (e *articleExtractor) run(ctx context.Context, cand crawler.Candidate) (*Article, error) {
	if e.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.options.Timeout)
		defer cancel()
	}

	type result struct {
		article *crawler.Article
		err     error
	}
	resultCh := make(chan result, 1)

	go func() {
		article, err := e.crawler.Crawl(ctx, cand)
		resultCh <- result{article, err}
	}()

	select {
	case r := <-resultCh:
		if r.err != nil {
			return nil, r.err
		}
		return convertArticle(r.article), nil
	case <-ctx.Done():
		return nil, crawler.WrapError(fmt.Errorf("%w: %w", ErrTimeout, ctx.Err()), crawler.TimeoutError, "Extract",
			fmt.Sprintf("extraction did not finish within %v", e.options.Timeout))
	}
}

func convertArticle(a *crawler.Article) *Article {
	out := &Article{
		Title:       a.Title,
		CleanedText: a.CleanedText,
		Meta: Meta{
			Description: a.Description,
			Lang:        a.MetaLang,
			Keywords:    a.Keywords,
			Favicon:     a.Favicon,
			Canonical:   a.CanonicalLink,
		},
		Domain:      a.Domain,
		FinalURL:    a.FinalURL,
		LinkHash:    a.LinkHash,
		Language:    a.Language,
		OpenGraph:   a.OpenGraph,
		Tags:        a.Tags,
		Tweets:      a.Tweets,
		Links:       a.Links,
		Authors:     a.Authors,
		PublishDate: a.PublishDate,
		TopNodeHTML: a.TopNodeHTML,
		Markdown:    a.Markdown,
		Fallback:    a.Fallback,
		RawHTML:     a.RawHTML,
	}
	if !a.PublishTime.IsZero() {
		t := a.PublishTime
		out.PublishTime = &t
	}
	for _, m := range a.Movies {
		out.Movies = append(out.Movies, Video{
			EmbedType: m.EmbedType,
			Provider:  m.Provider,
			Width:     m.Width,
			Height:    m.Height,
			EmbedCode: m.EmbedCode,
			Src:       m.Src,
		})
	}
	if img := a.TopImage; img != nil {
		out.TopImage = &Image{
			Src:            img.Src,
			Width:          img.Width,
			Height:         img.Height,
			Bytes:          img.Bytes,
			FileExtension:  img.FileExtension,
			MimeType:       img.MimeType,
			ExtractionType: img.ExtractionType,
			Confidence:     img.Confidence,
		}
	}
	return out
}
