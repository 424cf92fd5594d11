// Package text turns raw announcement text into normalized tokens: word
// tokenization, lowercasing, stopword and punctuation removal, and Porter-style
// stemming.
package text

import (
	"bufio"
	_ "embed"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/kljensen/snowball/english"
)

//go:embed stopwords_english.txt
var stopwordsEnglish string

var (
	loadOnce  sync.Once
	stopwords map[string]struct{}

	// A token is either a word (letters/digits, optionally joined by an
	// apostrophe) or a run of punctuation.
	tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*|[^\s\p{L}\p{N}]+`)
)

func load() {
	loadOnce.Do(func() {
		stopwords = make(map[string]struct{}, 200)
		sc := bufio.NewScanner(strings.NewReader(stopwordsEnglish))
		for sc.Scan() {
			w := strings.TrimSpace(sc.Text())
			if w != "" {
				stopwords[w] = struct{}{}
			}
		}
	})
}

// Normalizer is the English normalizer. The zero value is ready to use and
// safe for concurrent use.
type Normalizer struct{}

// NewNormalizer returns an English normalizer.
func NewNormalizer() Normalizer { return Normalizer{} }

// Normalize implements domain.Normalizer.
func (Normalizer) Normalize(text string) []string { return Normalize(text) }

// Normalize tokenizes text and returns the stemmed, lowercased tokens that are
// neither stopwords nor punctuation. Repeated words are kept.
func Normalize(text string) []string {
	load()
	raw := Tokenize(text)
	if len(raw) == 0 {
		return nil
	}
	out := raw[:0]
	for _, tok := range raw {
		if isPunct(tok) {
			continue
		}
		tok = strings.ReplaceAll(tok, "’", "'")
		if IsStopword(tok) {
			continue
		}
		// A stem can itself be a stopword ("cans" -> "can").
		stem := english.Stem(tok, true)
		if IsStopword(stem) {
			continue
		}
		out = append(out, stem)
	}
	return out
}

// Tokenize splits text into lowercase word and punctuation tokens.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// IsStopword reports whether the lowercase token is an English stopword.
func IsStopword(tok string) bool {
	load()
	_, ok := stopwords[tok]
	return ok
}

func isPunct(tok string) bool {
	for _, r := range tok {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
