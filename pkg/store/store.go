// Package store persists runs, corpora and test results in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wordgap/wordgap/pkg/corpus"
	"github.com/wordgap/wordgap/pkg/driver"
)

// Corpus kinds as stored in the documents table.
const (
	KindCommunity = "community"
	KindGenerated = "generated"
)

const migrationsSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	forum_url TEXT NOT NULL,
	game_title TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS documents (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	kind TEXT NOT NULL,
	position INTEGER NOT NULL,
	UNIQUE(run_id, kind, position)
);
CREATE TABLE IF NOT EXISTS word_counts (
	document_id INTEGER NOT NULL REFERENCES documents(id),
	word TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY (document_id, word)
);
CREATE TABLE IF NOT EXISTS results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	exclude_top INTEGER NOT NULL,
	top_words INTEGER NOT NULL,
	word TEXT NOT NULL,
	effect_size REAL,
	p_value REAL,
	error TEXT
)`

// Execer is satisfied by both *sql.DB and *sql.Tx so helpers can run inside
// or outside a transaction.
type Execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Open opens (or creates) the SQLite database at path and runs migrations.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// One connection keeps SQLite away from "database is locked" and makes
	// :memory: databases visible to every goroutine.
	db.SetMaxOpenConns(1)
	if err := Init(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Init applies the embedded migration SQL statement by statement.
func Init(db *sql.DB) error {
	for _, stmt := range strings.Split(migrationsSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// CreateRun records a new collection run and returns its id.
func CreateRun(db Execer, forumURL, gameTitle string) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO runs (forum_url, game_title, created_at) VALUES (?, ?, ?)`,
		forumURL, gameTitle, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("create run: %w", err)
	}
	return res.LastInsertId()
}

// LatestRun returns the id of the most recent run.
func LatestRun(db Execer) (int64, error) {
	var id int64
	err := db.QueryRow(`SELECT id FROM runs ORDER BY id DESC LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("no runs recorded yet")
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// insertDocument creates one document row and returns its id.
func insertDocument(db Execer, runID int64, kind string, position int) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO documents (run_id, kind, position) VALUES (?, ?, ?)`,
		runID, kind, position,
	)
	if err != nil {
		return 0, fmt.Errorf("insert document %s/%d: %w", kind, position, err)
	}
	return res.LastInsertId()
}

// SaveCorpus writes every document of the corpus under (runID, kind),
// batching the word-count inserts through the transactional writer since a
// corpus easily carries tens of thousands of counts.
func SaveCorpus(db *sql.DB, runID int64, kind string, c corpus.Corpus) error {
	bw := NewBatchWriter(db, 50, 100*time.Millisecond)

	for position, doc := range c {
		position, doc := position, doc
		err := bw.Submit(func(tx *sql.Tx) error {
			docID, err := insertDocument(tx, runID, kind, position)
			if err != nil {
				return err
			}
			for word, count := range doc {
				if _, err := tx.Exec(
					`INSERT INTO word_counts (document_id, word, count) VALUES (?, ?, ?)`,
					docID, word, count,
				); err != nil {
					return fmt.Errorf("insert count for %q: %w", word, err)
				}
			}
			return nil
		})
		if err != nil {
			bw.Close()
			return err
		}
	}
	return bw.Close()
}

// LoadCorpus rebuilds the ordered corpus stored under (runID, kind).
// Documents with no word counts come back as empty maps, preserving corpus
// length.
func LoadCorpus(db Execer, runID int64, kind string) (corpus.Corpus, error) {
	rows, err := db.Query(`
		SELECT d.position, w.word, w.count
		FROM documents d
		LEFT JOIN word_counts w ON w.document_id = d.id
		WHERE d.run_id = ? AND d.kind = ?
		ORDER BY d.position`, runID, kind)
	if err != nil {
		return nil, fmt.Errorf("load corpus %s: %w", kind, err)
	}
	defer rows.Close()

	byPosition := make(map[int]corpus.Document)
	for rows.Next() {
		var position int
		var word sql.NullString
		var count sql.NullInt64
		if err := rows.Scan(&position, &word, &count); err != nil {
			return nil, err
		}
		doc, ok := byPosition[position]
		if !ok {
			doc = corpus.Document{}
			byPosition[position] = doc
		}
		if word.Valid {
			doc[word.String] = int(count.Int64)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	positions := make([]int, 0, len(byPosition))
	for p := range byPosition {
		positions = append(positions, p)
	}
	sort.Ints(positions)

	out := make(corpus.Corpus, 0, len(positions))
	for _, p := range positions {
		out = append(out, byPosition[p])
	}
	return out, nil
}

// SaveResults persists every trial's word outcomes, failed words included.
func SaveResults(db Execer, runID int64, trials []driver.TrialResult) error {
	for _, tr := range trials {
		for word, res := range tr.Words {
			if _, err := db.Exec(
				`INSERT INTO results (run_id, exclude_top, top_words, word, effect_size, p_value) VALUES (?, ?, ?, ?, ?, ?)`,
				runID, tr.Params.ExcludeTop, tr.Params.TopWords, word, res.EffectSize, res.PValue,
			); err != nil {
				return fmt.Errorf("save result for %q: %w", word, err)
			}
		}
		for word, werr := range tr.Failed {
			if _, err := db.Exec(
				`INSERT INTO results (run_id, exclude_top, top_words, word, error) VALUES (?, ?, ?, ?, ?)`,
				runID, tr.Params.ExcludeTop, tr.Params.TopWords, word, werr.Error(),
			); err != nil {
				return fmt.Errorf("save failure for %q: %w", word, err)
			}
		}
	}
	return nil
}
