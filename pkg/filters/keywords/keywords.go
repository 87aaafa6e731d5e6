// Package keywords extracts the most characteristic terms of a piece of
// content, e.g. for a meta keywords tag.
package keywords

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"

	"github.com/mmichie/sitefilter/pkg/filters"
)

// DefaultLimit is the number of terms returned when no "limit" param is set.
const DefaultLimit = 10

// Filter scores terms by TF-IDF and returns the best ones.
type Filter struct {
	filters.Base
}

// New creates a keywords filter.
func New(assigns filters.Assigns) filters.Filter {
	return &Filter{Base: filters.NewBase(assigns)}
}

// Register declares the keywords filter on r.
func Register(r *filters.Registry) {
	r.Register(New, "keywords", "tfidf")
}

// Run returns up to "limit" terms joined by ", ". Markup is ignored unless
// "strip_html" is false; terms shorter than "min_length" (default 3) are
// skipped.
func (f *Filter) Run(content string, params filters.Params) (string, error) {
	if params.Bool("strip_html", true) {
		content = textContent(content)
	}

	minLength := params.Int("min_length", 3)
	words := []string{}
	for _, w := range strings.FieldsFunc(strings.ToLower(content), isSeparator) {
		if len([]rune(w)) >= minLength {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return "", nil
	}

	scores := score(words)
	return strings.Join(top(scores, params.Int("limit", DefaultLimit)), ", "), nil
}

// textContent returns the text of an HTML fragment with entities decoded.
// Script and style bodies are not text.
func textContent(s string) string {
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		case html.StartTagToken:
			if name, _ := z.TagName(); isCode(string(name)) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isCode(string(name)) && skip > 0 {
				skip--
			}
		}
	}
}

func isCode(tag string) bool {
	return tag == "script" || tag == "style"
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func score(words []string) map[string]float64 {
	totalTerms := len(words)
	termFrequency := calculateFrequency(words)
	scores := make(map[string]float64, len(termFrequency))

	for word, count := range termFrequency {
		tf := float64(count) / float64(totalTerms)
		idf := math.Log10(1.0 + float64(totalTerms)/float64(count))
		scores[word] = tf * idf
	}
	return scores
}

func calculateFrequency(words []string) map[string]int {
	freq := make(map[string]int)
	for _, word := range words {
		freq[word]++
	}
	return freq
}

// top returns the limit highest scoring words, ties broken alphabetically.
func top(scores map[string]float64, limit int) []string {
	words := make([]string, 0, len(scores))
	for word := range scores {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if scores[words[i]] != scores[words[j]] {
			return scores[words[i]] > scores[words[j]]
		}
		return words[i] < words[j]
	})
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	return words
}
