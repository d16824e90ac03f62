package store

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/wordgap/wordgap/pkg/corpus"
	"github.com/wordgap/wordgap/pkg/driver"
	"github.com/wordgap/wordgap/pkg/permtest"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCorpusRoundTrip(t *testing.T) {
	db := setupDB(t)

	runID, err := CreateRun(db, "https://steamcommunity.com/app/1055540/discussions/0/", "A Short Hike")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	original := corpus.Corpus{
		corpus.Vectorize([]string{"feather", "feather", "mountain"}),
		corpus.Vectorize(nil), // empty document must survive the trip
		corpus.Vectorize([]string{"boat"}),
	}

	if err := SaveCorpus(db, runID, KindCommunity, original); err != nil {
		t.Fatalf("SaveCorpus: %v", err)
	}

	loaded, err := LoadCorpus(db, runID, KindCommunity)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if len(loaded) != len(original) {
		t.Fatalf("loaded %d documents, want %d", len(loaded), len(original))
	}
	if loaded[0].Count("feather") != 2 {
		t.Errorf("document 0 feather count = %d, want 2", loaded[0].Count("feather"))
	}
	if len(loaded[1]) != 0 {
		t.Errorf("document 1 should be empty, got %v", loaded[1])
	}
	if loaded[2].Count("boat") != 1 {
		t.Errorf("document 2 boat count = %d, want 1", loaded[2].Count("boat"))
	}
}

func TestCorpusKindsAreSeparate(t *testing.T) {
	db := setupDB(t)
	runID, err := CreateRun(db, "url", "game")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	community := corpus.Corpus{corpus.Vectorize([]string{"human"})}
	generated := corpus.Corpus{corpus.Vectorize([]string{"machine"}), corpus.Vectorize([]string{"machine"})}

	if err := SaveCorpus(db, runID, KindCommunity, community); err != nil {
		t.Fatalf("SaveCorpus community: %v", err)
	}
	if err := SaveCorpus(db, runID, KindGenerated, generated); err != nil {
		t.Fatalf("SaveCorpus generated: %v", err)
	}

	got, err := LoadCorpus(db, runID, KindGenerated)
	if err != nil {
		t.Fatalf("LoadCorpus: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("generated corpus has %d documents, want 2", len(got))
	}
	if got[0].Count("human") != 0 {
		t.Error("community words leaked into the generated corpus")
	}
}

func TestSaveResults(t *testing.T) {
	db := setupDB(t)
	runID, err := CreateRun(db, "url", "game")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	trials := []driver.TrialResult{
		{
			Params: driver.TrialParams{TopWords: 10, ExcludeTop: 500},
			Words: map[string]permtest.Result{
				"feather": {Word: "feather", EffectSize: 1.0, PValue: 0.031},
			},
			Failed: map[string]error{
				"broken": errors.New("corpus has no documents"),
			},
		},
	}

	if err := SaveResults(db, runID, trials); err != nil {
		t.Fatalf("SaveResults: %v", err)
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM results WHERE run_id = ?`, runID).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("stored %d result rows, want 2 (one success, one failure)", n)
	}

	var p float64
	err = db.QueryRow(`SELECT p_value FROM results WHERE run_id = ? AND word = 'feather'`, runID).Scan(&p)
	if err != nil {
		t.Fatalf("querying feather result: %v", err)
	}
	if p != 0.031 {
		t.Errorf("p_value = %v, want 0.031", p)
	}
}

func TestLatestRun(t *testing.T) {
	db := setupDB(t)

	if _, err := LatestRun(db); err == nil {
		t.Error("LatestRun on an empty database should fail")
	}

	first, err := CreateRun(db, "url", "game")
	if err != nil {
		t.Fatal(err)
	}
	second, err := CreateRun(db, "url", "game")
	if err != nil {
		t.Fatal(err)
	}
	if second <= first {
		t.Fatalf("run ids should increase: %d then %d", first, second)
	}

	got, err := LatestRun(db)
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if got != second {
		t.Errorf("LatestRun = %d, want %d", got, second)
	}
}

func TestBatchWriterRejectsAfterClose(t *testing.T) {
	db := setupDB(t)
	bw := NewBatchWriter(db, 4, 0)
	if err := bw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bw.Submit(func(tx *sql.Tx) error { return nil }); !errors.Is(err, ErrBatchWriterClosed) {
		t.Errorf("Submit after Close: err = %v, want ErrBatchWriterClosed", err)
	}
}
