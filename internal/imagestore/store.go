// Package imagestore downloads article images to a local directory and
// reports their size, type and dimensions.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/mrjoshuak/gravigo/internal/images"
)

const (
	// DefaultDir is where fetched images are kept while an extraction runs.
	DefaultDir = "/tmp/goosetmp"
	// DefaultTimeout bounds a single image download.
	DefaultTimeout = 10 * time.Second
	// DefaultUserAgent is sent with every image request.
	DefaultUserAgent = "gravigo/1.0"

	maxImageBytes = 15728640
)

// ErrHTTPStatus is returned for non-2xx image responses.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

// Ensure Store implements images.Store at compile time.
var _ images.Store = (*Store)(nil)

// Store fetches images over HTTP and caches them on disk as
// <dir>/<linkHash>_<hash of src>. Concurrent requests for the same file are
// collapsed into one download.
type Store struct {
	dir       string
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   *rate.Limiter
	group     singleflight.Group
	log       zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithHTTPClient sets the client used for downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		s.client = c
	}
}

// WithTimeout sets the per-image download timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *Store) {
		s.userAgent = ua
	}
}

// WithRateLimit caps downloads at rps per second with the given burst. A
// non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Store) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// New returns a Store writing into dir, or DefaultDir when dir is empty.
func New(dir string, opts ...Option) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	s := &Store{
		dir:       dir,
		client:    http.DefaultClient,
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LocalFileName returns the cache path for src within one extraction.
func (s *Store) LocalFileName(linkHash, src string) string {
	return filepath.Join(s.dir, linkHash+"_"+strconv.FormatUint(xxhash.Sum64String(src), 16))
}

// Resolve returns the details of src, downloading it when it is not cached.
func (s *Store) Resolve(ctx context.Context, src, linkHash string) (*images.Details, error) {
	src = strings.ReplaceAll(src, " ", "%20")
	path := s.LocalFileName(linkHash, src)

	if d, err := readFileInfo(path, src); err == nil {
		return d, nil
	}

	// The download is shared by every waiter, so one caller giving up must
	// not cancel it for the others.
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(path, func() (any, error) {
		if d, err := readFileInfo(path, src); err == nil {
			return d, nil
		}
		data, err := s.fetch(shared, src)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return nil, fmt.Errorf("create image dir: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write image: %w", err)
		}
		return readFileInfo(path, src)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*images.Details), nil
	}
}

func (s *Store) fetch(ctx context.Context, src string) ([]byte, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d for %s", ErrHTTPStatus, resp.StatusCode, src)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("src", src).Int("bytes", len(data)).Msg("fetched image")
	return data, nil
}

// readFileInfo describes a cached file. Files that are not decodable images
// keep their size but report no dimensions.
func readFileInfo(path, src string) (*images.Details, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	d := &images.Details{
		Src:           src,
		LocalFile:     path,
		Bytes:         st.Size(),
		FileExtension: "NA",
	}
	if mt, err := mimetype.DetectFile(path); err == nil {
		d.MimeType = mt.String()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if cfg, format, err := image.DecodeConfig(f); err == nil {
		d.Width = cfg.Width
		d.Height = cfg.Height
		d.FileExtension = extensionFor(format)
	}
	return d, nil
}

func extensionFor(format string) string {
	switch strings.ToLower(format) {
	case "png":
		return ".png"
	case "jpg", "jpeg":
		return ".jpg"
	case "gif":
		return ".gif"
	default:
		return "NA"
	}
}

// Release deletes every file cached for linkHash.
func (s *Store) Release(linkHash string) error {
	if linkHash == "" {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, linkHash+"_*"))
	if err != nil {
		return err
	}
	var errs []error
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
