// Package config loads gravigo settings from a YAML file and GRAVIGO_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/mrjoshuak/gravigo"
)

// Config is the file schema. Sections mirror the command line flags.
type Config struct {
	Language struct {
		Target  string `yaml:"target"`
		UseMeta bool   `yaml:"useMeta"`
	} `yaml:"language"`

	Images struct {
		Enable      bool    `yaml:"enable"`
		Dir         string  `yaml:"dir"`
		MinBytes    int64   `yaml:"minBytes"`
		RateLimit   float64 `yaml:"rateLimit"`
		Burst       int     `yaml:"burst"`
		SiteMapping string  `yaml:"siteMapping"`
	} `yaml:"images"`

	HTTP struct {
		UserAgent string        `yaml:"userAgent"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"http"`

	Extraction struct {
		Timeout             time.Duration `yaml:"timeout"`
		ReadabilityFallback bool          `yaml:"readabilityFallback"`
		Markdown            bool          `yaml:"markdown"`
		AnnotateScores      bool          `yaml:"annotateScores"`
	} `yaml:"extraction"`

	API struct {
		Addr      string  `yaml:"addr"`
		RateLimit float64 `yaml:"rateLimit"`
		Burst     int     `yaml:"burst"`
	} `yaml:"api"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	opts := gravigo.DefaultOptions()

	var c Config
	c.Language.Target = opts.TargetLanguage
	c.Language.UseMeta = opts.UseMetaLanguage
	c.Images.Enable = opts.EnableImageFetching
	c.Images.Dir = opts.LocalStoragePath
	c.Images.MinBytes = opts.MinImageBytes
	c.Images.RateLimit = opts.ImageRateLimit
	c.Images.Burst = opts.ImageBurst
	c.HTTP.UserAgent = opts.UserAgent
	c.HTTP.Timeout = opts.HTTPTimeout
	c.Extraction.Timeout = opts.Timeout
	c.API.Addr = ":8080"
	c.API.RateLimit = 5
	c.API.Burst = 10
	return c
}

// Load returns the defaults overlaid with the file at path, when path is not
// empty, and then with the environment.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse yaml: %w", err)
		}
	}
	if err := ApplyEnv(&c, os.LookupEnv); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// ApplyEnv overrides c with every GRAVIGO_* variable that lookup finds.
func ApplyEnv(c *Config, lookup func(string) (string, bool)) error {
	var errs []error

	setString := func(dst *string, key string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	setBool := func(dst *bool, key string) {
		v, ok := lookup(key)
		if !ok {
			return
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off", "":
			*dst = false
		default:
			errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, v))
		}
	}
	setInt64 := func(dst *int64, key string) {
		if v, ok := lookup(key); ok {
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	setInt := func(dst *int, key string) {
		var n int64 = int64(*dst)
		setInt64(&n, key)
		*dst = int(n)
	}
	setFloat := func(dst *float64, key string) {
		if v, ok := lookup(key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = f
		}
	}
	setDuration := func(dst *time.Duration, key string) {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	setString(&c.Language.Target, "GRAVIGO_LANGUAGE")
	setBool(&c.Language.UseMeta, "GRAVIGO_USE_META_LANGUAGE")
	setBool(&c.Images.Enable, "GRAVIGO_ENABLE_IMAGES")
	setString(&c.Images.Dir, "GRAVIGO_IMAGE_DIR")
	setInt64(&c.Images.MinBytes, "GRAVIGO_MIN_IMAGE_BYTES")
	setFloat(&c.Images.RateLimit, "GRAVIGO_IMAGE_RATE_LIMIT")
	setInt(&c.Images.Burst, "GRAVIGO_IMAGE_BURST")
	setString(&c.Images.SiteMapping, "GRAVIGO_SITE_MAPPING")
	setString(&c.HTTP.UserAgent, "GRAVIGO_USER_AGENT")
	setDuration(&c.HTTP.Timeout, "GRAVIGO_HTTP_TIMEOUT")
	setDuration(&c.Extraction.Timeout, "GRAVIGO_TIMEOUT")
	setBool(&c.Extraction.ReadabilityFallback, "GRAVIGO_READABILITY_FALLBACK")
	setBool(&c.Extraction.Markdown, "GRAVIGO_MARKDOWN")
	setBool(&c.Extraction.AnnotateScores, "GRAVIGO_ANNOTATE_SCORES")
	setString(&c.API.Addr, "GRAVIGO_ADDR")
	setFloat(&c.API.RateLimit, "GRAVIGO_API_RATE_LIMIT")
	setInt(&c.API.Burst, "GRAVIGO_API_BURST")

	return errors.Join(errs...)
}

// Validate rejects values the extractor cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Language.Target == "" {
		errs = append(errs, errors.New("language.target must not be empty"))
	}
	if c.Images.MinBytes < 0 {
		errs = append(errs, errors.New("images.minBytes must not be negative"))
	}
	if c.HTTP.Timeout <= 0 {
		errs = append(errs, errors.New("http.timeout must be positive"))
	}
	if c.Extraction.Timeout <= 0 {
		errs = append(errs, errors.New("extraction.timeout must be positive"))
	}
	return errors.Join(errs...)
}

// ToOptions converts c into extractor options. The site mapping file, when
// set, is read here.
func (c Config) ToOptions() ([]gravigo.Option, error) {
	opts := []gravigo.Option{
		gravigo.WithLanguage(c.Language.Target),
		gravigo.WithMetaLanguage(c.Language.UseMeta),
		gravigo.WithImageFetching(c.Images.Enable),
		gravigo.WithLocalStoragePath(c.Images.Dir),
		gravigo.WithMinImageBytes(c.Images.MinBytes),
		gravigo.WithImageRateLimit(c.Images.RateLimit, c.Images.Burst),
		gravigo.WithUserAgent(c.HTTP.UserAgent),
		gravigo.WithHTTPTimeout(c.HTTP.Timeout),
		gravigo.WithTimeout(c.Extraction.Timeout),
		gravigo.WithReadabilityFallback(c.Extraction.ReadabilityFallback),
		gravigo.WithMarkdown(c.Extraction.Markdown),
		gravigo.WithScoreAnnotations(c.Extraction.AnnotateScores),
	}
	if c.Images.SiteMapping != "" {
		m, err := gravigo.LoadSiteMapping(c.Images.SiteMapping)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gravigo.WithSiteMapping(m))
	}
	return opts, nil
}
