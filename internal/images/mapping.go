package images

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed resources/known-image-css.txt
var defaultMapping string

// SiteMapping lists, per domain, extra id or class names whose first image
// is a known good article image.
type SiteMapping map[string][]string

// Lookup returns the names registered for domain. A leading "www." is
// ignored.
func (m SiteMapping) Lookup(domain string) []string {
	if m == nil {
		return nil
	}
	return m[cleanDomain(domain)]
}

func cleanDomain(domain string) string {
	return strings.TrimPrefix(strings.ToLower(domain), "www.")
}

// ParseSiteMapping reads lines of the form domain^class1|class2. Blank lines
// and lines starting with # are skipped.
func ParseSiteMapping(r io.Reader) (SiteMapping, error) {
	m := make(SiteMapping)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		domain, classes, ok := strings.Cut(text, "^")
		if !ok || domain == "" {
			return nil, fmt.Errorf("site mapping line %d: expected domain^class1|class2", line)
		}
		for _, c := range strings.Split(classes, "|") {
			if c = strings.TrimSpace(c); c != "" {
				key := cleanDomain(domain)
				m[key] = append(m[key], c)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadSiteMapping reads a mapping file from disk.
func LoadSiteMapping(path string) (SiteMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSiteMapping(f)
}

// DefaultSiteMapping returns the mapping bundled with the package.
func DefaultSiteMapping() SiteMapping {
	m, err := ParseSiteMapping(strings.NewReader(defaultMapping))
	if err != nil {
		panic(err)
	}
	return m
}
