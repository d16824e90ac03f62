package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/wordgap/wordgap/pkg/driver"
	"github.com/wordgap/wordgap/pkg/freqref"
	"github.com/wordgap/wordgap/pkg/lang"
	"github.com/wordgap/wordgap/pkg/permtest"
	"github.com/wordgap/wordgap/pkg/store"
)

var analyzeRunID int64

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the word significance trials over a stored run",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd.Context(), analyzeRunID)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect and analyze in one shot",
	RunE: func(cmd *cobra.Command, args []string) error {
		runID, err := runCollect(cmd.Context())
		if err != nil {
			return err
		}
		return runAnalyze(cmd.Context(), runID)
	},
}

func init() {
	analyzeCmd.Flags().Int64Var(&analyzeRunID, "run", 0, "run id to analyze (default: latest)")
}

func runAnalyze(ctx context.Context, runID int64) error {
	log := logger.Sugar()

	db, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if runID == 0 {
		runID, err = store.LatestRun(db)
		if err != nil {
			return err
		}
	}

	community, err := store.LoadCorpus(db, runID, store.KindCommunity)
	if err != nil {
		return fmt.Errorf("loading community corpus: %w", err)
	}
	generated, err := store.LoadCorpus(db, runID, store.KindGenerated)
	if err != nil {
		return fmt.Errorf("loading generated corpus: %w", err)
	}
	if len(community) == 0 || len(generated) == 0 {
		return fmt.Errorf("run %d has an empty corpus (community=%d, generated=%d)",
			runID, len(community), len(generated))
	}

	ref, err := freqref.Load(cfg.Reference.Path)
	if err != nil {
		return fmt.Errorf("loading frequency reference: %w", err)
	}

	seed := cfg.Test.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		log.Infow("seeding from clock", "seed", seed)
	}

	d := &driver.Driver{
		Ref:        ref,
		Classifier: lang.NewClassifier(),
		Engine:     &permtest.Engine{Resamples: cfg.Test.Resamples},
		Workers:    cfg.Test.Workers,
		Seed:       seed,
		Log:        log,
	}
	trials := driver.SweepParams(cfg.Trials.ExcludeBase, cfg.Trials.Interval,
		cfg.Trials.Count, cfg.Trials.TopWords)

	log.Infow("running trials", "run", runID, "trials", len(trials),
		"resamples", cfg.Test.Resamples, "workers", cfg.Test.Workers)
	results, err := d.RunTrials(ctx, trials, community, generated)
	if err != nil {
		return err
	}

	if err := store.SaveResults(db, runID, results); err != nil {
		return fmt.Errorf("saving results: %w", err)
	}
	if cfg.Storage.ResultsPath != "" {
		if err := exportResults(cfg.Storage.ResultsPath, results); err != nil {
			return fmt.Errorf("writing %s: %w", cfg.Storage.ResultsPath, err)
		}
	}

	printResults(results)
	return nil
}

// exportResults writes the combined word map as JSON, each entry holding
// [effect size, p-value]. Later trials overwrite earlier ones for words
// selected more than once.
func exportResults(path string, results []driver.TrialResult) error {
	combined := make(map[string][2]float64)
	for _, tr := range results {
		for word, res := range tr.Words {
			combined[word] = [2]float64{res.EffectSize, res.PValue}
		}
	}
	data, err := json.MarshalIndent(combined, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printResults(results []driver.TrialResult) {
	for _, tr := range results {
		fmt.Printf("--- excluding top %d words, testing top %d ---\n",
			tr.Params.ExcludeTop, tr.Params.TopWords)
		for word, res := range tr.Words {
			fmt.Printf("%-20s effect=%.4f p=%.4f\n", word, res.EffectSize, res.PValue)
		}
		for word, err := range tr.Failed {
			fmt.Printf("%-20s failed: %v\n", word, err)
		}
	}
}
