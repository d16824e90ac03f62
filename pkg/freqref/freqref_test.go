package freqref

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
)

const sample = "word,count\nthe,23135851162\nof,13151942776\nand,12997637966\nto,12136980858\n"

func TestReadSkipsHeader(t *testing.T) {
	l, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if l.Len() != 4 {
		t.Fatalf("Len = %d, want 4", l.Len())
	}
	top := l.TopK(1)
	if len(top) != 1 || top[0] != "the" {
		t.Errorf("TopK(1) = %v, want [the]", top)
	}
}

func TestTopKBounds(t *testing.T) {
	l, err := Read(strings.NewReader("a\nb\nc\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got := l.TopK(10); len(got) != 3 {
		t.Errorf("TopK beyond dataset returned %d words, want 3", len(got))
	}
	if got := l.TopK(0); len(got) != 0 {
		t.Errorf("TopK(0) returned %d words, want 0", len(got))
	}
	if got := l.TopK(-5); len(got) != 0 {
		t.Errorf("TopK(-5) returned %d words, want 0", len(got))
	}
	if got := l.TopK(2); len(got) != 2 || got[1] != "b" {
		t.Errorf("TopK(2) = %v, want [a b]", got)
	}
}

func TestExcludeSet(t *testing.T) {
	l, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	set := l.ExcludeSet(2)
	if len(set) != 2 {
		t.Fatalf("ExcludeSet(2) has %d entries, want 2", len(set))
	}
	if _, ok := set["the"]; !ok {
		t.Error("expected 'the' in exclusion set")
	}
	if _, ok := set["and"]; ok {
		t.Error("'and' is rank 2 and should not be in a top-2 set")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("no/such/file.csv")
	if err == nil {
		t.Fatal("expected error for missing dataset")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist, got %v", err)
	}
}
