// Package freqref loads the ranked English word-frequency reference used to
// exclude globally common words from candidate selection.
package freqref

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// List is an immutable ranked word list. Index 0 holds the most frequent
// word in general English.
type List struct {
	words []string
}

// Load reads the reference dataset from a CSV whose first column is the
// word, ordered most frequent first (the unigram_freq.csv layout). A
// missing dataset is fatal to the run; the returned error wraps
// fs.ErrNotExist so callers can recognize it.
func Load(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open frequency reference: %w", err)
	}
	defer f.Close()

	l, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("frequency reference %s: %w", path, err)
	}
	return l, nil
}

// Read parses the ranked word list from r. An optional "word,count" header
// row is skipped.
func Read(r io.Reader) (*List, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var words []string
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 0 || rec[0] == "" {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(rec[0], "word") {
				continue
			}
		}
		words = append(words, rec[0])
	}
	return &List{words: words}, nil
}

// Len reports the number of ranked words.
func (l *List) Len() int { return len(l.words) }

// TopK returns the k highest-ranked words. A k beyond the dataset size
// returns the whole dataset; a negative k returns nothing.
func (l *List) TopK(k int) []string {
	if k < 0 {
		k = 0
	}
	if k > len(l.words) {
		k = len(l.words)
	}
	out := make([]string, k)
	copy(out, l.words[:k])
	return out
}

// ExcludeSet returns the top-k words as a set.
func (l *List) ExcludeSet(k int) map[string]struct{} {
	top := l.TopK(k)
	set := make(map[string]struct{}, len(top))
	for _, w := range top {
		set[w] = struct{}{}
	}
	return set
}
