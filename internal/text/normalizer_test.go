package text

import (
	"reflect"
	"sort"
	"strings"
	"sync"
	"testing"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("Hello, world-123!")
	expected := []string{"hello", ",", "world", "-", "123", "!"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{"stemming", "Running talks about learning systems", []string{"run", "talk", "learn", "system"}},
		{"punctuation and case", "The RAIN, the cloud!", []string{"rain", "cloud"}},
		{"repetition kept", "rain rain cloud", []string{"rain", "rain", "cloud"}},
		{"contractions are stopwords", "Don't stop", []string{"stop"}},
		{"numbers kept", "Room 2018", []string{"room", "2018"}},
		{"only stopwords", "the and of it", nil},
		{"stems that are stopwords", "cans of soup", []string{"soup"}},
		{"only punctuation", "!!! ... ,", nil},
		{"empty", "", nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.text)
			if len(got) == 0 && len(tc.expected) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Running talks about learning systems",
		"Cloud talks and weather seminars.",
		"A seminar on rain, clouds and weather forecasting.",
		"cans of soup",
		"wills and estates",
		"ons",
	}
	for _, in := range inputs {
		first := Normalize(in)
		second := Normalize(strings.Join(first, " "))
		if !reflect.DeepEqual(toSet(first), toSet(second)) {
			t.Errorf("normalization not idempotent for %q: %v vs %v", in, first, second)
		}
	}
}

func TestNormalizeConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	results := make([][]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Normalize("Talks on cloud systems")
		}(i)
	}
	wg.Wait()
	for i := 1; i < len(results); i++ {
		if !reflect.DeepEqual(results[0], results[i]) {
			t.Fatalf("concurrent results differ: %v vs %v", results[0], results[i])
		}
	}
}

func TestIsStopword(t *testing.T) {
	for _, w := range []string{"the", "and", "don't", "y"} {
		if !IsStopword(w) {
			t.Errorf("%q should be a stopword", w)
		}
	}
	if IsStopword("cloud") {
		t.Error("cloud should not be a stopword")
	}
}

func toSet(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}
