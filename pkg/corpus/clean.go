package corpus

import (
	"regexp"
	"strings"
)

// extraChars matches the punctuation stripped from forum and LLM text
// before tokenization. Apostrophes survive on purpose so contractions can
// be filtered out later by the selector.
var extraChars = regexp.MustCompile("[\\[\\]\\r\\t?\".,#!$%^&*;:{}=\\-_`~()]")

// Clean lowercases text, strips punctuation and splits it into tokens.
// Slashes and newlines become spaces so path-like and multi-line content
// still separates into words.
func Clean(text string) []string {
	text = strings.ReplaceAll(text, "/", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = extraChars.ReplaceAllString(text, "")
	return strings.Fields(strings.ToLower(text))
}
