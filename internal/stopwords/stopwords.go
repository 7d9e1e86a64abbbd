// Package stopwords counts the stopwords in a piece of text. The count is the
// main signal the content scorer uses to tell prose from boilerplate.
package stopwords

import (
	"bufio"
	"bytes"
	"embed"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed lists/*.txt
var lists embed.FS

// asciiPunctuation is the set stripped by the default strategy.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// WordStats is the result of counting one piece of text.
type WordStats struct {
	// WordCount is the number of candidate words, empty pieces included.
	WordCount int
	// StopWordCount is the number of candidates found in the stopword list.
	StopWordCount int
	// StopWords holds the matched candidates, lower-cased, in order.
	StopWords []string
}

// Provider computes word statistics for text in a given language.
type Provider interface {
	Count(text, lang string) WordStats
}

// strategy turns text into candidate words.
type strategy func(text string) []string

// Lists is a Provider backed by the embedded stopword lists. Each list is
// loaded once and shared by every caller.
type Lists struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

var _ Provider = (*Lists)(nil)

// New returns a provider with an empty cache.
func New() *Lists {
	return &Lists{sets: make(map[string]map[string]struct{})}
}

// Count returns the word statistics of text for lang. Empty text yields zero
// stats. An unknown language has an empty list, so nothing matches.
func (l *Lists) Count(text, lang string) WordStats {
	var ws WordStats
	if text == "" {
		return ws
	}
	code := Normalize(lang)
	set := l.set(code)
	for _, w := range strategyFor(code)(text) {
		ws.WordCount++
		lw := strings.ToLower(w)
		if _, ok := set[lw]; ok {
			ws.StopWords = append(ws.StopWords, lw)
		}
	}
	ws.StopWordCount = len(ws.StopWords)
	return ws
}

// Has reports whether lang has a non-empty list.
func (l *Lists) Has(lang string) bool {
	return len(l.set(Normalize(lang))) > 0
}

func (l *Lists) set(code string) map[string]struct{} {
	l.mu.RLock()
	s, ok := l.sets[code]
	l.mu.RUnlock()
	if ok {
		return s
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.sets[code]; ok {
		return s
	}
	s = load(code)
	l.sets[code] = s
	return s
}

func load(code string) map[string]struct{} {
	set := make(map[string]struct{})
	data, err := lists.ReadFile("lists/stopwords-" + code + ".txt")
	if err != nil {
		return set
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			set[strings.ToLower(w)] = struct{}{}
		}
	}
	return set
}

// Normalize reduces a language tag to its base language code, so "en-US" and
// "EN" both become "en". Unparseable tags are lower-cased as they are.
func Normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return strings.ToLower(lang)
	}
	base, conf := tag.Base()
	if conf == language.No {
		return strings.ToLower(lang)
	}
	return base.String()
}

func strategyFor(code string) strategy {
	switch code {
	case "zh", "ja":
		return cjkWords
	case "ar", "fa":
		return arabicWords
	default:
		return defaultWords
	}
}

// defaultWords strips ASCII punctuation and splits on single spaces. Runs of
// spaces produce empty candidates, which still count as words.
func defaultWords(text string) []string {
	return strings.Split(stripPunctuation(text), " ")
}

func stripPunctuation(text string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, text)
}
