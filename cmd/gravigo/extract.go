package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mrjoshuak/gravigo"
)

// Run extracts one page and writes it in the requested format.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	if c.URL == "" && c.Input == "" {
		return errors.New("one of --url or --input is required")
	}

	opts := []gravigo.Option{gravigo.WithMarkdown(c.Format == "markdown")}
	if c.NoImages {
		opts = append(opts, gravigo.WithImageFetching(false))
	}
	if c.Language != "" {
		opts = append(opts, gravigo.WithLanguage(c.Language), gravigo.WithMetaLanguage(false))
	}
	if c.Timeout > 0 {
		opts = append(opts, gravigo.WithTimeout(c.Timeout))
	}
	if c.Fallback {
		opts = append(opts, gravigo.WithReadabilityFallback(true))
	}
	ex, err := deps.NewExtractor(opts...)
	if err != nil {
		return err
	}

	var article *gravigo.Article
	if c.URL != "" {
		article, err = ex.ExtractFromURL(deps.Ctx, c.URL)
	} else {
		var in io.Reader = deps.Stdin
		if c.Input != "-" {
			f, err := os.Open(c.Input)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()
			in = f
		}
		article, err = ex.ExtractFromReader(deps.Ctx, in, c.BaseURL)
	}
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	deps.Log.Debug().Str("title", article.Title).Int("text_len", len(article.CleanedText)).Msg("extracted")

	data, err := c.render(article)
	if err != nil {
		return err
	}

	if c.Output == "" {
		return writeOutput(deps.Stdout, data)
	}
	f, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	return writeAndClose(f, data)
}

func writeOutput(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// writeAndClose reports a failed Close, which is where a full disk or a
// network filesystem surfaces a lost write.
func writeAndClose(wc io.WriteCloser, data []byte) error {
	err := writeOutput(wc, data)
	if cerr := wc.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("close output: %w", cerr)
	}
	return err
}

func (c *ExtractCmd) render(a *gravigo.Article) ([]byte, error) {
	switch c.Format {
	case "text":
		return []byte(a.CleanedText), nil
	case "html":
		return []byte(a.TopNodeHTML), nil
	case "markdown":
		return []byte(a.Markdown), nil
	}
	if c.Compact {
		return json.Marshal(a)
	}
	return json.MarshalIndent(a, "", "  ")
}

// Run prints the version.
func (c *VersionCmd) Run(deps *Dependencies) error {
	info := gravigo.GetBuildInfo()
	_, err := fmt.Fprintf(deps.Stdout, "%s version %s (%s)\n", info.Name, info.Version, info.GoVersion)
	return err
}
