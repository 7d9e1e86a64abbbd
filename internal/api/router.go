// Package api serves extraction over HTTP.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mrjoshuak/gravigo"
)

// Options configures the router.
type Options struct {
	RateLimit float64 // requests per second per client IP, 0 for unlimited
	Burst     int
	Logger    zerolog.Logger
}

// NewRouter returns a gin engine serving ex.
//
// Middleware chain:
//
//	Global:      Recovery → RequestID → Logger
//	Extraction:  RateLimit
//
// Health sits outside the rate limit so health checks always answer.
func NewRouter(ex gravigo.Extractor, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(Logger(opts.Logger))

	limited := RateLimit(opts.RateLimit, opts.Burst)

	v1 := r.Group("/api/v1")
	v1.GET("/health", Health(time.Now()))
	v1.POST("/extract", limited, Extract(ex))

	// query form kept for old clients
	r.GET("/api/extract.json", limited, ExtractByQuery(ex))

	return r
}
