// Package images picks the image that best represents an article.
package images

import (
	"context"
	"net/url"
	"regexp"
)

// Extraction types reported on an Image.
const (
	TypeKnown     = "known"
	TypeLinkTag   = "linktag"
	TypeOpenGraph = "opengraph"
	TypeBigImage  = "bigimage"
)

// Image is the chosen article image.
type Image struct {
	Src            string
	Width          int
	Height         int
	Bytes          int64
	FileExtension  string
	MimeType       string
	ExtractionType string
	Confidence     int
}

// Details describes an image fetched by a Store.
type Details struct {
	Src           string
	LocalFile     string
	Bytes         int64
	FileExtension string
	MimeType      string
	Width         int
	Height        int
}

// Store fetches images and reports their size and dimensions. linkHash ties
// cached files to one extraction so they can be released afterwards.
type Store interface {
	Resolve(ctx context.Context, src, linkHash string) (*Details, error)
}

// Image names that are never article images: gifs, buttons, social badges
// and ad servers.
var RegexpBadImageNames = regexp.MustCompile(
	`.html|.gif|.ico|button|twitter.jpg|facebook.jpg|ap_buy_photo` +
		`|digg.jpg|digg.png|delicious.png|facebook.png|reddit.jpg` +
		`|doubleclick|diggthis|diggThis|adserver|/ads/|ec.atdmt.com` +
		`|mediaplex.com|adsatt|view.atdmt`)

// KnownImageNames are ids or classes whose first image is the article image
// on well known sites.
var KnownImageNames = []string{
	"yn-story-related-media",
	"cnn_strylccimg300cntr",
	"big_photo",
	"ap-smallphoto-a",
}

// BuildImagePath makes src absolute. Absolute URLs are returned as they are;
// anything else, scheme-relative URLs included, is resolved against pageURL.
func BuildImagePath(pageURL, src string) string {
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	if u.IsAbs() {
		return u.String()
	}
	base, err := url.Parse(pageURL)
	if err != nil || pageURL == "" {
		return src
	}
	return base.ResolveReference(u).String()
}

// IsBannerDimensions reports an aspect ratio above 5 in either direction.
// Exactly 5 is not a banner.
func IsBannerDimensions(width, height int) bool {
	if width == height || width <= 0 || height <= 0 {
		return false
	}
	if width > height {
		return float64(width)/float64(height) > 5
	}
	return float64(height)/float64(width) > 5
}
