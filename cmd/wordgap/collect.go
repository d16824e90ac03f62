package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wordgap/wordgap/pkg/generate"
	"github.com/wordgap/wordgap/pkg/scrape"
	"github.com/wordgap/wordgap/pkg/store"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Scrape the forum, generate LLM replies, and store both corpora",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := runCollect(cmd.Context())
		return err
	},
}

// runCollect scrapes the community corpus, generates the LLM counterpart for
// the same posts, and persists both under a new run. Returns the run id so
// an analysis can follow in the same process.
func runCollect(ctx context.Context) (int64, error) {
	log := logger.Sugar()

	s := scrape.New(log)
	if cfg.Scrape.Parallel > 0 {
		s.Parallel = cfg.Scrape.Parallel
	}
	if cfg.Scrape.Timeout > 0 {
		s.Client.Timeout = cfg.Scrape.Timeout
	}

	log.Infow("scraping forum", "url", cfg.Scrape.ForumURL)
	res, err := s.ScrapeAll(ctx, cfg.Scrape.ForumURL)
	if err != nil {
		return 0, fmt.Errorf("scraping %s: %w", cfg.Scrape.ForumURL, err)
	}
	if len(res.Replies) == 0 {
		return 0, fmt.Errorf("no community replies found at %s", cfg.Scrape.ForumURL)
	}
	log.Infow("scrape complete", "posts", len(res.Posts), "replies", len(res.Replies))

	gen, err := generate.New(ctx, os.Getenv(cfg.Generate.APIKeyEnv), cfg.Generate.Model, log)
	if err != nil {
		return 0, err
	}
	generated, err := gen.ReplyAll(ctx, cfg.Scrape.GameTitle, res.Posts)
	if err != nil {
		return 0, err
	}

	db, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	runID, err := store.CreateRun(db, cfg.Scrape.ForumURL, cfg.Scrape.GameTitle)
	if err != nil {
		return 0, err
	}
	if err := store.SaveCorpus(db, runID, store.KindCommunity, res.Replies); err != nil {
		return 0, fmt.Errorf("saving community corpus: %w", err)
	}
	if err := store.SaveCorpus(db, runID, store.KindGenerated, generated); err != nil {
		return 0, fmt.Errorf("saving generated corpus: %w", err)
	}

	log.Infow("collection complete", "run", runID,
		"communityDocs", len(res.Replies), "generatedDocs", len(generated))
	return runID, nil
}
