package api

import "github.com/mrjoshuak/gravigo"

// ExtractRequest is the body of POST /api/v1/extract. Exactly one of URL and
// HTML is required; with HTML, URL only resolves relative links.
type ExtractRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

// ImageResponse describes the top image.
type ImageResponse struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Type   string `json:"type"`
}

// MovieResponse describes an embedded video.
type MovieResponse struct {
	EmbedType string `json:"embed_type"`
	Provider  string `json:"provider"`
	Width     string `json:"width"`
	Height    string `json:"height"`
	EmbedCode string `json:"embed_code"`
	Src       string `json:"src"`
}

// ExtractResponse is the extraction result returned to API clients.
type ExtractResponse struct {
	Title       string            `json:"title"`
	Summary     string            `json:"summary"`
	Content     string            `json:"content"`
	PublishedAt string            `json:"published_at"`
	OpenGraph   map[string]string `json:"opengraph"`
	Authors     []string          `json:"authors"`
	Links       []string          `json:"links"`
	Image       []ImageResponse   `json:"image"`
	Movies      []MovieResponse   `json:"movies"`
	Tweets      []string          `json:"tweets"`
	Tags        []string          `json:"tags"`
	FinalURL    string            `json:"final_url,omitempty"`
	Language    string            `json:"language,omitempty"`
	Markdown    string            `json:"markdown,omitempty"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// Error codes.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeFetchFailed  = "FETCH_FAILED"
	ErrCodeParseFailed  = "PARSE_FAILED"
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// NewExtractResponse converts a into the API shape. Lists are never null.
func NewExtractResponse(a *gravigo.Article) ExtractResponse {
	resp := ExtractResponse{
		Title:       a.Title,
		Summary:     a.Meta.Description,
		Content:     a.CleanedText,
		PublishedAt: a.PublishDate,
		OpenGraph:   a.OpenGraph,
		Authors:     nonNil(a.Authors),
		Links:       nonNil(a.Links),
		Image:       []ImageResponse{},
		Movies:      []MovieResponse{},
		Tweets:      nonNil(a.Tweets),
		Tags:        nonNil(a.Tags),
		FinalURL:    a.FinalURL,
		Language:    a.Language,
		Markdown:    a.Markdown,
	}
	if resp.OpenGraph == nil {
		resp.OpenGraph = map[string]string{}
	}
	if img := a.TopImage; img != nil {
		resp.Image = append(resp.Image, ImageResponse{
			URL:    img.Src,
			Width:  img.Width,
			Height: img.Height,
			Type:   "image",
		})
	}
	for _, m := range a.Movies {
		resp.Movies = append(resp.Movies, MovieResponse(m))
	}
	return resp
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
