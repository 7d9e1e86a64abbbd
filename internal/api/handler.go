package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrjoshuak/gravigo"
)

// Extract returns the handler for POST /api/v1/extract.
func Extract(ex gravigo.Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondInvalid(c, err.Error())
			return
		}
		req.URL = strings.TrimSpace(req.URL)
		if req.URL == "" && strings.TrimSpace(req.HTML) == "" {
			respondInvalid(c, "one of url or html is required")
			return
		}

		var (
			article *gravigo.Article
			err     error
		)
		if req.HTML != "" {
			article, err = ex.ExtractFromHTML(c.Request.Context(), req.HTML, req.URL)
		} else {
			article, err = ex.ExtractFromURL(c.Request.Context(), req.URL)
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, NewExtractResponse(article))
	}
}

// ExtractByQuery returns the handler for GET /api/extract.json?url=...
func ExtractByQuery(ex gravigo.Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		pageURL := strings.TrimSpace(c.Query("url"))
		if pageURL == "" {
			respondInvalid(c, "url query parameter is required")
			return
		}
		article, err := ex.ExtractFromURL(c.Request.Context(), pageURL)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, NewExtractResponse(article))
	}
}

// Health returns the handler for GET /api/v1/health.
func Health(startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status:  "healthy",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: gravigo.Version,
		})
	}
}

func respondInvalid(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:      ErrCodeInvalidInput,
		Message:   msg,
		RequestID: c.GetString(requestIDKey),
	})
}

// respondError maps extraction errors to status codes.
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, ErrCodeInternal
	switch {
	case gravigo.IsTimeoutError(err):
		status, code = http.StatusGatewayTimeout, ErrCodeTimeout
	case gravigo.IsFetchError(err):
		status, code = http.StatusBadGateway, ErrCodeFetchFailed
	case gravigo.IsParseError(err):
		status, code = http.StatusUnprocessableEntity, ErrCodeParseFailed
	}
	_ = c.Error(err)
	c.JSON(status, ErrorResponse{
		Code:      code,
		Message:   err.Error(),
		RequestID: c.GetString(requestIDKey),
	})
}
