// Package selector picks the candidate words whose frequencies are compared
// between the community and generated corpora.
package selector

import (
	"sort"
	"strings"

	"github.com/wordgap/wordgap/pkg/corpus"
	"github.com/wordgap/wordgap/pkg/lang"
)

// Classifier reports how a word reads linguistically. *lang.Classifier
// satisfies it; tests substitute stubs.
type Classifier interface {
	Classify(word string) lang.Class
}

// Candidate is a word chosen for testing, together with its total count in
// the community corpus. The count is informational; downstream only needs
// the word.
type Candidate struct {
	Word  string
	Count int
}

// Select returns up to y candidates: the highest-frequency words of the
// community corpus that sit outside the exclusion set, classify as English,
// contain no apostrophe (contractions and possessives), and also occur in
// the generated corpus. The language filter applies to the community side
// only. When fewer than y words survive, all of them are returned. The
// relative order of words with equal counts is unspecified.
func Select(y int, exclude map[string]struct{}, cls Classifier, community, generated corpus.Corpus) []Candidate {
	if y <= 0 {
		return nil
	}

	communityTotals := restrict(corpus.Aggregate(community), exclude)
	generatedTotals := restrict(corpus.Aggregate(generated), exclude)

	candidates := make([]Candidate, 0, len(communityTotals))
	for word, count := range communityTotals {
		if strings.Contains(word, "'") {
			continue
		}
		if cls.Classify(word) != lang.English {
			continue
		}
		if _, ok := generatedTotals[word]; !ok {
			continue
		}
		candidates = append(candidates, Candidate{Word: word, Count: count})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Count > candidates[j].Count
	})
	if len(candidates) > y {
		candidates = candidates[:y]
	}
	return candidates
}

// restrict copies totals without the excluded words. Filtering builds a new
// map; the shared aggregate is never edited in place.
func restrict(totals map[string]int, exclude map[string]struct{}) map[string]int {
	out := make(map[string]int, len(totals))
	for w, n := range totals {
		if _, skip := exclude[w]; skip {
			continue
		}
		out[w] = n
	}
	return out
}
