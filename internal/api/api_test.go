package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrjoshuak/gravigo"
	"github.com/mrjoshuak/gravigo/internal/crawler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubExtractor records its calls and returns fixed results.
type stubExtractor struct {
	article *gravigo.Article
	err     error

	gotHTML string
	gotURL  string
}

func (s *stubExtractor) ExtractFromHTML(_ context.Context, html, pageURL string) (*gravigo.Article, error) {
	s.gotHTML, s.gotURL = html, pageURL
	return s.article, s.err
}

func (s *stubExtractor) ExtractFromReader(ctx context.Context, r io.Reader, pageURL string) (*gravigo.Article, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return s.ExtractFromHTML(ctx, string(b), pageURL)
}

func (s *stubExtractor) ExtractFromURL(_ context.Context, pageURL string) (*gravigo.Article, error) {
	s.gotURL = pageURL
	return s.article, s.err
}

func sampleArticle() *gravigo.Article {
	return &gravigo.Article{
		Title:       "Fox story",
		CleanedText: "The quick brown fox.",
		Meta:        gravigo.Meta{Description: "About a fox"},
		PublishDate: "2020-01-02",
		OpenGraph:   map[string]string{"title": "Fox story"},
		Authors:     []string{"Jane Doe"},
		TopImage:    &gravigo.Image{Src: "https://example.com/fox.png", Width: 640, Height: 480},
		Movies:      []gravigo.Video{{EmbedType: "iframe", Provider: "youtube", Src: "https://youtube.com/embed/x"}},
		FinalURL:    "https://example.com/fox",
	}
}

func do(t *testing.T, r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestExtractFromURL(t *testing.T) {
	ex := &stubExtractor{article: sampleArticle()}
	r := NewRouter(ex, Options{Logger: zerolog.Nop()})

	w := do(t, r, http.MethodPost, "/api/v1/extract", `{"url":" https://example.com/fox "}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/fox", ex.gotURL)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Fox story", resp.Title)
	assert.Equal(t, "About a fox", resp.Summary)
	assert.Equal(t, "The quick brown fox.", resp.Content)
	assert.Equal(t, "2020-01-02", resp.PublishedAt)
	assert.Equal(t, []string{"Jane Doe"}, resp.Authors)
	require.Len(t, resp.Image, 1)
	assert.Equal(t, ImageResponse{URL: "https://example.com/fox.png", Width: 640, Height: 480, Type: "image"}, resp.Image[0])
	require.Len(t, resp.Movies, 1)
	assert.Equal(t, "youtube", resp.Movies[0].Provider)
}

func TestExtractFromHTMLBody(t *testing.T) {
	ex := &stubExtractor{article: &gravigo.Article{Title: "t"}}
	r := NewRouter(ex, Options{Logger: zerolog.Nop()})

	w := do(t, r, http.MethodPost, "/api/v1/extract", `{"html":"<p>hi</p>","url":"https://example.com/"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<p>hi</p>", ex.gotHTML)
	assert.Equal(t, "https://example.com/", ex.gotURL)

	// empty lists are encoded as [] so clients never see null
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	for _, key := range []string{"authors", "links", "image", "movies", "tweets", "tags"} {
		assert.Equal(t, []any{}, raw[key], key)
	}
	assert.Equal(t, map[string]any{}, raw["opengraph"])
}

func TestExtractInvalidInput(t *testing.T) {
	r := NewRouter(&stubExtractor{}, Options{Logger: zerolog.Nop()})

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"neither url nor html", `{"url":"  ","html":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodPost, "/api/v1/extract", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, ErrCodeInvalidInput, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
		})
	}
}

func TestExtractErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"fetch", crawler.WrapFetchError(crawler.ErrFetch, "Crawl", "down"), http.StatusBadGateway, ErrCodeFetchFailed},
		{"parse", crawler.WrapParseError(crawler.ErrParse, "Crawl", "bad"), http.StatusUnprocessableEntity, ErrCodeParseFailed},
		{"timeout", crawler.WrapError(crawler.ErrTimeout, crawler.TimeoutError, "Extract", "slow"), http.StatusGatewayTimeout, ErrCodeTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(&stubExtractor{err: tt.err}, Options{Logger: zerolog.Nop()})
			w := do(t, r, http.MethodPost, "/api/v1/extract", `{"url":"https://example.com/"}`)
			assert.Equal(t, tt.status, w.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
		})
	}
}

func TestExtractByQuery(t *testing.T) {
	ex := &stubExtractor{article: sampleArticle()}
	r := NewRouter(ex, Options{Logger: zerolog.Nop()})

	w := do(t, r, http.MethodGet, "/api/extract.json?url=https://example.com/fox", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://example.com/fox", ex.gotURL)

	w = do(t, r, http.MethodGet, "/api/extract.json", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	r := NewRouter(&stubExtractor{}, Options{RateLimit: 1, Burst: 1, Logger: zerolog.Nop()})

	for i := 0; i < 3; i++ {
		w := do(t, r, http.MethodGet, "/api/v1/health", "")
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := do(t, r, http.MethodGet, "/api/v1/health", "")
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, gravigo.Version, resp.Version)
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := NewRouter(&stubExtractor{}, Options{Logger: zerolog.Nop()})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	ex := &stubExtractor{article: &gravigo.Article{}}
	r := NewRouter(ex, Options{RateLimit: 0.001, Burst: 2, Logger: zerolog.Nop()})

	for i := 0; i < 2; i++ {
		w := do(t, r, http.MethodPost, "/api/v1/extract", `{"url":"https://example.com/"}`)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := do(t, r, http.MethodPost, "/api/v1/extract", `{"url":"https://example.com/"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, ErrCodeRateLimited, resp.Code)
}
