// Package permtest computes empirical p-values for per-word frequency
// differences between two corpora.
//
// The null distribution is built by resampling with replacement from the
// pooled per-document counts, not by permuting group labels without
// replacement. That bootstrap-style construction is intentional and must
// stay, even though it differs from the textbook permutation test:
// changing it changes every p-value.
package permtest

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"

	"github.com/wordgap/wordgap/pkg/corpus"
)

// DefaultResamples is the number of bootstrap iterations R used when the
// engine does not specify one.
const DefaultResamples = 10000

// ErrEmptyCorpus reports a test requested against a corpus with no
// documents. A mean over zero documents is undefined, so this surfaces as
// an error instead of a division by zero.
var ErrEmptyCorpus = errors.New("permtest: corpus has no documents")

// Result is the outcome for one word: the observed absolute difference of
// per-document mean counts, and its empirical p-value in [0,1].
type Result struct {
	Word       string
	EffectSize float64
	PValue     float64
}

// Engine runs the resampling test.
type Engine struct {
	// Resamples is the number of bootstrap iterations R. Zero or negative
	// falls back to DefaultResamples.
	Resamples int
}

// Test computes the empirical p-value for word. rng is the only source of
// randomness, so callers control determinism through its seed; an Engine is
// safe for concurrent use as long as each call gets its own rng.
func (e *Engine) Test(rng *rand.Rand, word string, community, generated corpus.Corpus) (Result, error) {
	n := len(community)
	m := len(generated)
	if n == 0 || m == 0 {
		return Result{}, fmt.Errorf("test %q (n=%d, m=%d): %w", word, n, m, ErrEmptyCorpus)
	}

	// Pool holds community values in [0,n) and generated values in [n,n+m).
	pool := make([]float64, 0, n+m)
	for _, doc := range community {
		pool = append(pool, float64(doc.Count(word)))
	}
	for _, doc := range generated {
		pool = append(pool, float64(doc.Count(word)))
	}

	observed := math.Abs(stat.Mean(pool[:n], nil) - stat.Mean(pool[n:], nil))

	resamples := e.Resamples
	if resamples <= 0 {
		resamples = DefaultResamples
	}

	a := make([]float64, n)
	b := make([]float64, m)
	hits := 0
	for i := 0; i < resamples; i++ {
		for j := range a {
			a[j] = pool[rng.Intn(len(pool))]
		}
		for j := range b {
			b[j] = pool[rng.Intn(len(pool))]
		}
		diff := math.Abs(stat.Mean(a, nil) - stat.Mean(b, nil))
		// >= keeps boundary ties significant.
		if diff >= observed {
			hits++
		}
	}

	return Result{
		Word:       word,
		EffectSize: observed,
		PValue:     float64(hits) / float64(resamples),
	}, nil
}
