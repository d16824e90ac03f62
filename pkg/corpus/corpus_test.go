package corpus

import "testing"

func TestVectorizeCounts(t *testing.T) {
	doc := Vectorize([]string{"hike", "feather", "hike", "golden", "hike"})

	if got := doc.Count("hike"); got != 3 {
		t.Errorf("Count(hike) = %d, want 3", got)
	}
	if got := doc.Count("feather"); got != 1 {
		t.Errorf("Count(feather) = %d, want 1", got)
	}
	if got := doc.Count("missing"); got != 0 {
		t.Errorf("Count(missing) = %d, want 0", got)
	}
}

func TestVectorizeEmpty(t *testing.T) {
	doc := Vectorize(nil)
	if len(doc) != 0 {
		t.Errorf("expected empty document, got %d entries", len(doc))
	}
	if doc.Count("anything") != 0 {
		t.Error("empty document should count 0 for any word")
	}
}

func TestAggregate(t *testing.T) {
	c := Corpus{
		Vectorize([]string{"hike", "hike", "map"}),
		Vectorize([]string{"hike", "boat"}),
		Vectorize(nil),
	}

	totals := Aggregate(c)
	if totals["hike"] != 3 {
		t.Errorf("total for hike = %d, want 3", totals["hike"])
	}
	if totals["map"] != 1 || totals["boat"] != 1 {
		t.Errorf("unexpected totals: %v", totals)
	}
	if _, ok := totals["missing"]; ok {
		t.Error("aggregate should not contain unseen words")
	}
}

func TestCleanStripsPunctuation(t *testing.T) {
	tokens := Clean("Hello, World! This-is (a) [test].")
	want := []string{"hello", "world", "thisis", "a", "test"}
	if len(tokens) != len(want) {
		t.Fatalf("Clean returned %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, tokens[i], want[i])
		}
	}
}

func TestCleanSlashesAndNewlines(t *testing.T) {
	tokens := Clean("one/two\nthree")
	if len(tokens) != 3 {
		t.Fatalf("Clean returned %v, want three tokens", tokens)
	}
}

func TestCleanKeepsApostrophes(t *testing.T) {
	tokens := Clean("don't stop")
	if len(tokens) != 2 || tokens[0] != "don't" {
		t.Errorf("Clean returned %v, want [don't stop]", tokens)
	}
}
