package images

import (
	"context"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/mrjoshuak/gravigo/internal/dom"
)

const (
	// DefaultMinBytes is the smallest file size accepted for a large image.
	DefaultMinBytes   = 4500
	maxBytes          = 15728640
	maxByteChecks     = 30
	maxScoredImages   = 30
	maxParentDepth    = 2
	minWidth          = 50
	deepMinWidth      = 300
	initialAreaFactor = 1.48
)

// Extractor finds the best image of an article.
type Extractor struct {
	store    Store
	mapping  SiteMapping
	minBytes int64
	log      zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithSiteMapping replaces the bundled site mapping.
func WithSiteMapping(m SiteMapping) Option {
	return func(e *Extractor) {
		e.mapping = m
	}
}

// WithMinBytes sets the smallest accepted image size.
func WithMinBytes(n int64) Option {
	return func(e *Extractor) {
		e.minBytes = n
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Extractor) {
		e.log = log
	}
}

// New returns an Extractor fetching images through store. A nil store makes
// every image look unfetchable.
func New(store Store, opts ...Option) *Extractor {
	e := &Extractor{
		store:    store,
		mapping:  DefaultSiteMapping(),
		minBytes: DefaultMinBytes,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Page identifies the article the images belong to.
type Page struct {
	URL      string
	Domain   string
	LinkHash string
}

// BestImage looks for the article image in three phases: known site
// containers in the raw document, large images around the top node, and
// finally link and meta tags. It returns nil when nothing is found.
func (e *Extractor) BestImage(ctx context.Context, page Page, raw, top *html.Node) *Image {
	if img := e.checkForKnownElements(ctx, page, raw); img != nil {
		e.log.Debug().Str("src", img.Src).Msg("image from known element")
		return img
	}
	if top != nil {
		if img := e.checkForLargeImages(ctx, page, top); img != nil {
			e.log.Debug().Str("src", img.Src).Int("confidence", img.Confidence).Msg("image from large images")
			return img
		}
	}
	if img := e.checkForMetaTag(ctx, page, raw); img != nil {
		e.log.Debug().Str("src", img.Src).Str("type", img.ExtractionType).Msg("image from meta tag")
		return img
	}
	return nil
}

func (e *Extractor) resolve(ctx context.Context, page Page, src string) *Details {
	if e.store == nil || src == "" {
		return nil
	}
	d, err := e.store.Resolve(ctx, src, page.LinkHash)
	if err != nil {
		e.log.Debug().Err(err).Str("src", src).Msg("image fetch failed")
		return nil
	}
	return d
}

func (e *Extractor) fill(ctx context.Context, page Page, img *Image) *Image {
	if d := e.resolve(ctx, page, img.Src); d != nil {
		img.Bytes = d.Bytes
		img.Width = d.Width
		img.Height = d.Height
		img.FileExtension = d.FileExtension
		img.MimeType = d.MimeType
	}
	return img
}

func (e *Extractor) checkForKnownElements(ctx context.Context, page Page, raw *html.Node) *Image {
	names := append(append([]string(nil), KnownImageNames...), e.mapping.Lookup(page.Domain)...)

	var known *html.Node
	for _, name := range names {
		container := dom.ElementByID(raw, name)
		if container == nil {
			if matches := dom.ElementsByAttr(raw, "", "class", nameRegexp(name)); len(matches) > 0 {
				container = matches[0]
			}
		}
		if container == nil {
			continue
		}
		if imgs := dom.ElementsByTag(container, "img"); len(imgs) > 0 {
			known = imgs[0]
		}
	}
	if known == nil {
		return nil
	}
	return e.fill(ctx, page, &Image{
		Src:            BuildImagePath(page.URL, dom.AttrOr(known, "src", "")),
		ExtractionType: TypeKnown,
		Confidence:     90,
	})
}

func nameRegexp(name string) *regexp.Regexp {
	re, err := regexp.Compile("(?i)" + name)
	if err != nil {
		return regexp.MustCompile("(?i)" + regexp.QuoteMeta(name))
	}
	return re
}

// checkForLargeImages scores the images under node, then under its previous
// siblings, then under its ancestors, stopping past two parent levels.
func (e *Extractor) checkForLargeImages(ctx context.Context, page Page, node *html.Node) *Image {
	parentDepth, siblingDepth := 0, 0
	for node != nil {
		if img := e.scoreCandidates(ctx, page, node, parentDepth); img != nil {
			return img
		}
		if parentDepth > maxParentDepth {
			return nil
		}
		if sib := dom.PrevElement(node); sib != nil {
			node = sib
			siblingDepth++
		} else {
			node = dom.Parent(node)
			parentDepth++
			siblingDepth = 0
		}
		e.log.Trace().Int("parent_depth", parentDepth).Int("sibling_depth", siblingDepth).Msg("climbing for images")
	}
	return nil
}

type scored struct {
	details *Details
	score   float64
}

func (e *Extractor) scoreCandidates(ctx context.Context, page Page, node *html.Node, depth int) *Image {
	candidates := e.imageCandidates(ctx, page, node)
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) > maxScoredImages {
		candidates = candidates[:maxScoredImages]
	}

	var (
		results     []scored
		initialArea float64
		cnt         = 1.0
	)
	for _, img := range candidates {
		d := e.resolve(ctx, page, BuildImagePath(page.URL, dom.AttrOr(img, "src", "")))
		if d == nil {
			continue
		}
		if d.FileExtension == ".gif" {
			continue
		}
		if depth >= 1 && d.Width <= deepMinWidth {
			continue
		}
		if IsBannerDimensions(d.Width, d.Height) || d.Width <= minWidth {
			continue
		}
		area := float64(d.Width * d.Height)
		var total float64
		if initialArea == 0 {
			initialArea = area * initialAreaFactor
			total = 1
		} else {
			total = (1.0 / cnt) * (area / initialArea)
		}
		results = append(results, scored{details: d, score: total})
		cnt += 2
	}
	if len(results) == 0 {
		return nil
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.score > best.score {
			best = r
		}
	}
	return &Image{
		Src:            best.details.Src,
		Width:          best.details.Width,
		Height:         best.details.Height,
		Bytes:          best.details.Bytes,
		FileExtension:  best.details.FileExtension,
		MimeType:       best.details.MimeType,
		ExtractionType: TypeBigImage,
		Confidence:     100 / len(results),
	}
}

// imageCandidates returns the images under node with an acceptable name and
// file size. Images that could not be fetched count as size unknown.
func (e *Extractor) imageCandidates(ctx context.Context, page Page, node *html.Node) []*html.Node {
	var named []*html.Node
	for _, img := range dom.ElementsByTag(node, "img") {
		src := dom.AttrOr(img, "src", "")
		if src == "" || RegexpBadImageNames.MatchString(src) {
			continue
		}
		named = append(named, img)
	}

	var good []*html.Node
	for cnt, img := range named {
		if cnt > maxByteChecks {
			break
		}
		var size int64
		if d := e.resolve(ctx, page, BuildImagePath(page.URL, dom.AttrOr(img, "src", ""))); d != nil {
			size = d.Bytes
		}
		if (size == 0 || size > e.minBytes) && size < maxBytes {
			good = append(good, img)
		}
	}
	return good
}

// attrContains reports whether attribute attr of n contains sub, ignoring
// case.
func attrContains(n *html.Node, attr, sub string) bool {
	return strings.Contains(strings.ToLower(dom.AttrOr(n, attr, "")), sub)
}

func (e *Extractor) checkForMetaTag(ctx context.Context, page Page, raw *html.Node) *Image {
	for _, link := range dom.ElementsByTag(raw, "link") {
		if !attrContains(link, "rel", "image_src") {
			continue
		}
		if href := strings.TrimSpace(dom.AttrOr(link, "href", "")); href != "" {
			return e.fill(ctx, page, &Image{
				Src:            BuildImagePath(page.URL, href),
				ExtractionType: TypeLinkTag,
				Confidence:     100,
			})
		}
	}
	for _, meta := range dom.ElementsByTag(raw, "meta") {
		if !attrContains(meta, "property", "og:image") {
			continue
		}
		if content := strings.TrimSpace(dom.AttrOr(meta, "content", "")); content != "" {
			return e.fill(ctx, page, &Image{
				Src:            BuildImagePath(page.URL, content),
				ExtractionType: TypeOpenGraph,
				Confidence:     100,
			})
		}
	}
	return nil
}
