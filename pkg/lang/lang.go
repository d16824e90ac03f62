// Package lang classifies candidate words by language. Classification is a
// total function: every input maps to a Class, detector ambiguity included,
// so callers never branch on errors.
package lang

import "github.com/pemistahl/lingua-go"

// Class is the outcome of classifying a single word.
type Class int

const (
	// English means the detector confidently read the word as English.
	English Class = iota
	// NotEnglish means the detector settled on some other language.
	NotEnglish
	// Ambiguous means the detector could not decide. Candidate filtering
	// treats Ambiguous like NotEnglish and drops the word.
	Ambiguous
)

func (c Class) String() string {
	switch c {
	case English:
		return "english"
	case NotEnglish:
		return "not-english"
	default:
		return "ambiguous"
	}
}

// Classifier wraps a language detector behind Classify.
type Classifier struct {
	detector lingua.LanguageDetector
}

// NewClassifier builds a detector over a fixed language set. Restricting
// the set keeps per-word detection tractable; the non-English entries are
// the languages that actually show up on international game forums.
func NewClassifier() *Classifier {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.Spanish,
			lingua.French,
			lingua.German,
			lingua.Portuguese,
			lingua.Russian,
			lingua.Chinese,
			lingua.Japanese,
			lingua.Korean,
		).
		Build()
	return &Classifier{detector: detector}
}

// Classify reports whether word reads as English. Degenerate input and
// inconclusive detections come back Ambiguous rather than an error.
func (c *Classifier) Classify(word string) Class {
	if word == "" {
		return Ambiguous
	}
	language, ok := c.detector.DetectLanguageOf(word)
	if !ok {
		return Ambiguous
	}
	if language == lingua.English {
		return English
	}
	return NotEnglish
}
