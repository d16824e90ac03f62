// Package driver orchestrates candidate selection and permutation testing
// across a sweep of exclusion-threshold trials.
package driver

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/wordgap/wordgap/pkg/corpus"
	"github.com/wordgap/wordgap/pkg/freqref"
	"github.com/wordgap/wordgap/pkg/permtest"
	"github.com/wordgap/wordgap/pkg/selector"
)

// TrialParams is one (y, x) configuration: test the TopWords most frequent
// candidate words after excluding the ExcludeTop most common English words.
type TrialParams struct {
	TopWords   int
	ExcludeTop int
}

// TrialResult holds one trial's outcomes. Words whose test failed land in
// Failed instead of aborting the rest of the batch.
type TrialResult struct {
	Params TrialParams
	Words  map[string]permtest.Result
	Failed map[string]error
}

// SweepParams builds a trial sequence whose exclusion threshold grows by
// interval per trial: base, base+interval, base+2*interval, and so on.
// Later trials therefore test progressively less common vocabulary.
func SweepParams(base, interval, trials, topWords int) []TrialParams {
	if trials <= 0 {
		return nil
	}
	out := make([]TrialParams, 0, trials)
	for i := 0; i < trials; i++ {
		out = append(out, TrialParams{
			TopWords:   topWords,
			ExcludeTop: base + i*interval,
		})
	}
	return out
}

// Tester runs the per-word significance test. *permtest.Engine satisfies
// it.
type Tester interface {
	Test(rng *rand.Rand, word string, community, generated corpus.Corpus) (permtest.Result, error)
}

// Driver wires the frequency reference, language classifier and test
// engine together. All fields are read-only during RunTrials.
type Driver struct {
	Ref        *freqref.List
	Classifier selector.Classifier
	Engine     Tester

	// Workers bounds concurrent word tests. Values below 1 run a single
	// worker.
	Workers int
	// Seed derives each work unit's private RNG, which keeps results
	// independent of scheduling order.
	Seed int64

	Log *zap.SugaredLogger
}

// unit is one (trial, word) pair scheduled on the pool.
type unit struct {
	trial int
	word  string
}

// RunTrials runs every trial against the two read-only corpora. Each
// selected word becomes one unit of work on the pool; cancellation is
// honored between units and surfaces as ctx.Err() alongside whatever
// results completed. Per-word test failures are recorded in the trial's
// Failed map and never abort sibling words.
func (d *Driver) RunTrials(ctx context.Context, trials []TrialParams, community, generated corpus.Corpus) ([]TrialResult, error) {
	log := d.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	results := make([]TrialResult, len(trials))
	var units []unit
	for i, p := range trials {
		exclude := d.Ref.ExcludeSet(p.ExcludeTop)
		cands := selector.Select(p.TopWords, exclude, d.Classifier, community, generated)
		log.Infow("selected candidates",
			"trial", i, "excludeTop", p.ExcludeTop, "words", len(cands))

		results[i] = TrialResult{
			Params: p,
			Words:  make(map[string]permtest.Result, len(cands)),
			Failed: make(map[string]error),
		}
		for _, c := range cands {
			units = append(units, unit{trial: i, word: c.Word})
		}
	}

	type outcome struct {
		res permtest.Result
		err error
		ok  bool
	}
	outcomes := make([]outcome, len(units))

	pool := newWorkerPool(d.Workers)
	pool.start(ctx)

	var submitErr error
	for i, u := range units {
		i, u := i, u
		err := pool.submit(ctx, func(ctx context.Context) {
			rng := rand.New(rand.NewSource(d.Seed + int64(i)))
			res, err := d.Engine.Test(rng, u.word, community, generated)
			outcomes[i] = outcome{res: res, err: err, ok: true}
		})
		if err != nil {
			submitErr = err
			break
		}
	}
	pool.close()

	for i, u := range units {
		o := outcomes[i]
		if !o.ok {
			continue // never ran: canceled before the worker got to it
		}
		if o.err != nil {
			log.Warnw("word test failed", "trial", u.trial, "word", u.word, "err", o.err)
			results[u.trial].Failed[u.word] = o.err
			continue
		}
		results[u.trial].Words[u.word] = o.res
	}

	if submitErr != nil && submitErr != ErrPoolClosed {
		return results, submitErr
	}
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
