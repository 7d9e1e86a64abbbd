/*
Package gravigo extracts the main article from an HTML page: its title, body
text stripped of navigation and boilerplate, a representative image and the
page metadata. Extraction is heuristic and needs no per-site rules.

The pipeline cleans the document of scripts, comments and elements whose
id, class or name looks like boilerplate, then scores paragraphs by their
stopword counts and link density. Scores propagate to parents and
grandparents, and the best scoring node becomes the content node. Related
paragraphs from its preceding siblings are pulled in, link lists and weak
children are dropped, and the remaining text is joined into paragraphs.

Basic Usage:

	import "github.com/mrjoshuak/gravigo"

	// Create a new extractor
	ext := gravigo.New()

	// Extract from an HTML string
	article, err := ext.ExtractFromHTML(ctx, htmlString, "https://example.com/story.html")
	if err != nil {
		// Handle error
	}

	fmt.Printf("Title: %s\n", article.Title)
	fmt.Printf("Text: %s\n", article.CleanedText)
	if article.TopImage != nil {
		fmt.Printf("Image: %s\n", article.TopImage.Src)
	}

Advanced Usage with Options:

	ext := gravigo.New(
	    gravigo.WithLanguage("de"),
	    gravigo.WithMetaLanguage(false),
	    gravigo.WithImageFetching(false),
	    gravigo.WithMarkdown(true),
	    gravigo.WithTimeout(time.Second*60),
	)

	// Download and extract
	article, err := ext.ExtractFromURL(ctx, "https://example.com/story.html")

Features:

  - Content node selection by stopword and link density scoring
  - Stopword lists for fifteen languages, with word segmentation for Chinese
    and Japanese and light stemming for Arabic and Persian
  - Top image selection from known containers, large images near the
    content node, and link or opengraph tags
  - Title, description, keywords, tags, authors, publish date, videos,
    tweets and links
  - Optional Markdown rendering and go-readability fallback
*/
package gravigo
