// Package corpus builds per-document word-count vectors from cleaned text.
package corpus

// Document maps a normalized token to the number of times it occurs in a
// single forum reply or generated response. Documents are never mutated
// after Vectorize returns them.
type Document map[string]int

// Count returns the occurrence count for word, or zero when the word does
// not appear in the document.
func (d Document) Count(word string) int { return d[word] }

// Corpus is an ordered collection of documents from one source (community
// replies or generated responses). Only the length is statistically
// meaningful; which document sits at which index carries no weight.
type Corpus []Document

// Vectorize counts each token verbatim. Tokens are expected to be cleaned
// and lowercased already; no further normalization happens here.
func Vectorize(tokens []string) Document {
	doc := make(Document, len(tokens))
	for _, t := range tokens {
		doc[t]++
	}
	return doc
}

// Aggregate sums word counts across every document in the corpus.
func Aggregate(c Corpus) map[string]int {
	totals := make(map[string]int)
	for _, doc := range c {
		for w, n := range doc {
			totals[w] += n
		}
	}
	return totals
}
