package gravigo

import "github.com/mrjoshuak/gravigo/internal/crawler"

// Errors returned by extraction. Use errors.Is to test for them.
var (
	ErrNoDocument = crawler.ErrNoDocument
	ErrParse      = crawler.ErrParse
	ErrTimeout    = crawler.ErrTimeout
	ErrFetch      = crawler.ErrFetch
)

// IsParseError reports whether err was raised while parsing the document.
func IsParseError(err error) bool {
	return crawler.IsParseError(err)
}

// IsFetchError reports whether err was raised while downloading the page.
func IsFetchError(err error) bool {
	return crawler.IsFetchError(err)
}

// IsTimeoutError reports whether the extraction ran out of time.
func IsTimeoutError(err error) bool {
	return crawler.IsErrorType(err, crawler.TimeoutError)
}
