package lang

import "testing"

func TestClassifyEmptyIsAmbiguous(t *testing.T) {
	c := NewClassifier()
	if got := c.Classify(""); got != Ambiguous {
		t.Errorf("Classify(\"\") = %v, want ambiguous", got)
	}
}

func TestClassifyEnglishWord(t *testing.T) {
	c := NewClassifier()
	if got := c.Classify("awesome"); got != English {
		t.Errorf("Classify(awesome) = %v, want english", got)
	}
}

func TestClassifyNonLatinScript(t *testing.T) {
	c := NewClassifier()
	for _, word := range []string{"привет", "不思議"} {
		if got := c.Classify(word); got == English {
			t.Errorf("Classify(%q) = english, want anything else", word)
		}
	}
}

// Classify must be total: no input may panic or error, whatever the
// detector thinks of it.
func TestClassifyIsTotal(t *testing.T) {
	c := NewClassifier()
	for _, word := range []string{"a", "123", "?!", "ééé", "mixedскрипт", " "} {
		got := c.Classify(word)
		if got != English && got != NotEnglish && got != Ambiguous {
			t.Errorf("Classify(%q) returned unknown class %d", word, got)
		}
	}
}

func TestClassString(t *testing.T) {
	if English.String() != "english" || Ambiguous.String() != "ambiguous" {
		t.Error("unexpected Class string forms")
	}
}
