package stopwords

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// cjkWords strips ASCII punctuation, splits the rest on Unicode word
// boundaries and adds every pair of adjacent segments, so two-character words
// are matched the way a full-mode segmenter would offer them. Whitespace
// segments are dropped.
func cjkWords(text string) []string {
	var segs []string
	state := -1
	for rest := stripPunctuation(text); len(rest) > 0; {
		var w string
		w, rest, state = uniseg.FirstWordInString(rest, state)
		if strings.TrimSpace(w) == "" {
			continue
		}
		segs = append(segs, w)
	}

	out := make([]string, 0, len(segs)*2)
	for i, s := range segs {
		out = append(out, s)
		if i+1 < len(segs) && isIdeographic(s) && isIdeographic(segs[i+1]) {
			out = append(out, s+segs[i+1])
		}
	}
	return out
}

func isIdeographic(s string) bool {
	for _, r := range s {
		if !unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana) {
			return false
		}
	}
	return s != ""
}

var wordPunct = regexp.MustCompile(`[\p{L}\p{N}_]+|[^\p{L}\p{N}_\s]+`)

// arabicWords tokenises into word and punctuation runs and stems each token.
func arabicWords(text string) []string {
	tokens := wordPunct.FindAllString(text, -1)
	for i, t := range tokens {
		tokens[i] = stemArabic(t)
	}
	return tokens
}

var (
	arabicDiacritics = regexp.MustCompile(`[\x{064B}-\x{0652}\x{0640}]`)
	hamzaForms       = strings.NewReplacer("أ", "ا", "إ", "ا", "آ", "ا")
	prefixes3        = []string{"كال", "بال", "ولل", "وال"}
	prefixes2        = []string{"ال", "لل"}
	suffixes2        = []string{"ات", "ون", "ين", "ها", "هم", "هن", "كم", "نا"}
)

// stemArabic is a light root-preserving stemmer in the manner of ISRI: it
// removes diacritics, unifies hamza forms and strips the common two and
// three letter affixes when enough of the word remains.
func stemArabic(w string) string {
	w = arabicDiacritics.ReplaceAllString(w, "")
	w = hamzaForms.Replace(w)
	n := len([]rune(w))
	if n <= 3 {
		return w
	}
	for _, p := range prefixes3 {
		if n >= 6 && strings.HasPrefix(w, p) {
			w = strings.TrimPrefix(w, p)
			n -= 3
			break
		}
	}
	for _, p := range prefixes2 {
		if n >= 5 && strings.HasPrefix(w, p) {
			w = strings.TrimPrefix(w, p)
			n -= 2
			break
		}
	}
	for _, s := range suffixes2 {
		if n >= 5 && strings.HasSuffix(w, s) {
			w = strings.TrimSuffix(w, s)
			break
		}
	}
	return w
}
