package gravigo_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mrjoshuak/gravigo"
)

const examplePage = `<html><head><title>The fox and the dog | Daily Fox</title>
<meta property="og:site_name" content="Daily Fox"></head><body>
<div class="navbar"><a href="/">Home</a> <a href="/world">World</a></div>
<div id="story">
<p>The fox was in the garden with the dog and it was there all day.</p>
<p>It was the end of the summer and the fox had been there for a while.</p>
<p>The dog saw the fox from the house and it ran out to the garden.</p>
</div>
<div class="footer">Copyright</div>
</body></html>`

func ExampleNew() {
	// Create a new extractor that does not download images
	ext := gravigo.New(gravigo.WithImageFetching(false))

	article, err := ext.ExtractFromHTML(context.Background(), examplePage, "https://example.com/fox.html")
	if err != nil {
		fmt.Printf("Error extracting article: %v\n", err)
		return
	}

	fmt.Printf("Title: %s\n", article.Title)
	fmt.Printf("Paragraphs: %d\n", len(strings.Split(article.CleanedText, "\n\n")))
	fmt.Printf("Domain: %s\n", article.Domain)
	// Output:
	// Title: The fox and the dog
	// Paragraphs: 3
	// Domain: example.com
}

func ExampleWithTimeout() {
	ext := gravigo.New(
		gravigo.WithImageFetching(false),
		gravigo.WithTimeout(time.Second*60),
	)

	article, err := ext.ExtractFromHTML(context.Background(), examplePage, "")
	if err != nil {
		fmt.Printf("Error extracting article: %v\n", err)
		return
	}

	fmt.Println(strings.HasPrefix(article.CleanedText, "The fox was in the garden"))
	// Output: true
}

func ExampleExtractor_ExtractFromReader() {
	ext := gravigo.New(gravigo.WithImageFetching(false))

	article, err := ext.ExtractFromReader(context.Background(), strings.NewReader(examplePage), "https://example.com/fox.html")
	if err != nil {
		fmt.Printf("Error extracting article: %v\n", err)
		return
	}

	fmt.Printf("Has text: %v\n", article.CleanedText != "")
	fmt.Printf("Canonical: %s\n", article.Meta.Canonical)
	// Output:
	// Has text: true
	// Canonical: https://example.com/fox.html
}
