package gravigo

import (
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// Version information for the gravigo library.
const (
	Version = "0.1.0"
	Name    = "gravigo"
)

// Image is the picture chosen to represent an article.
type Image struct {
	Src            string `json:"url"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Bytes          int64  `json:"bytes,omitempty"`
	FileExtension  string `json:"file_extension,omitempty"`
	MimeType       string `json:"mime_type,omitempty"`
	ExtractionType string `json:"extraction_type"`
	Confidence     int    `json:"confidence"`
}

// Video is an embedded player found in the article body.
type Video struct {
	EmbedType string `json:"embed_type"`
	Provider  string `json:"provider"`
	Width     string `json:"width"`
	Height    string `json:"height"`
	EmbedCode string `json:"embed_code"`
	Src       string `json:"src"`
}

// Meta groups the values read from the page's meta and link tags.
type Meta struct {
	Description string `json:"description"`
	Lang        string `json:"lang"`
	Keywords    string `json:"keywords"`
	Favicon     string `json:"favicon"`
	Canonical   string `json:"canonical"`
}

// Article is the result of one extraction. CleanedText is empty when no
// content node was found.
type Article struct {
	Title       string            `json:"title"`
	CleanedText string            `json:"cleaned_text"`
	Meta        Meta              `json:"meta"`
	Domain      string            `json:"domain"`
	FinalURL    string            `json:"final_url"`
	LinkHash    string            `json:"link_hash"`
	Language    string            `json:"language"`
	OpenGraph   map[string]string `json:"opengraph"`
	Tags        []string          `json:"tags"`
	Tweets      []string          `json:"tweets"`
	Movies      []Video           `json:"movies"`
	Links       []string          `json:"links"`
	Authors     []string          `json:"authors"`
	PublishDate string            `json:"publish_date"`
	PublishTime *time.Time        `json:"publish_time,omitempty"`
	TopImage    *Image            `json:"image"`
	TopNodeHTML string            `json:"top_node_html,omitempty"`
	Markdown    string            `json:"markdown,omitempty"`
	Fallback    bool              `json:"fallback,omitempty"`
	RawHTML     string            `json:"-"`
}

// ExtractionOptions configures an Extractor.
type ExtractionOptions struct {
	TargetLanguage      string              // Language used when the page declares none
	UseMetaLanguage     bool                // Prefer the language declared by the page
	EnableImageFetching bool                // Download candidate images to pick the top image
	LocalStoragePath    string              // Directory for downloaded images
	MinImageBytes       int64               // Smallest file accepted as a large image
	UserAgent           string              // User-Agent for page and image requests
	HTTPTimeout         time.Duration       // Timeout of a single HTTP request
	HTTPClient          *http.Client        // Client for page and image requests
	ImageRateLimit      float64             // Image downloads per second, 0 for unlimited
	ImageBurst          int                 // Burst allowed above ImageRateLimit
	SiteMapping         map[string][]string // Domain to image container classes; nil uses the bundled list
	Timeout             time.Duration       // Timeout of a whole extraction
	ReadabilityFallback bool                // Use go-readability when no content node is found
	Markdown            bool                // Render the content node as Markdown
	AnnotateScores      bool                // Write gravity scores onto the content node HTML
	Logger              zerolog.Logger      // Debug events of every stage
}

// DefaultOptions returns the default extraction options: English, page
// language preferred, image fetching on, images kept in /tmp/goosetmp while
// an extraction runs, and a 30 second extraction timeout.
func DefaultOptions() ExtractionOptions {
	return ExtractionOptions{
		TargetLanguage:      "en",
		UseMetaLanguage:     true,
		EnableImageFetching: true,
		LocalStoragePath:    "/tmp/goosetmp",
		MinImageBytes:       4500,
		UserAgent:           "gravigo/" + Version,
		HTTPTimeout:         10 * time.Second,
		ImageRateLimit:      10,
		ImageBurst:          5,
		Timeout:             30 * time.Second,
		Logger:              zerolog.Nop(),
	}
}

// BuildInfo contains version and build information for the gravigo library.
type BuildInfo struct {
	Version   string
	Name      string
	GoVersion string
}

// GetBuildInfo returns the current version information.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Name:      Name,
		GoVersion: runtime.Version(),
	}
}
