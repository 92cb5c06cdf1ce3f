package textstats

import (
	"strings"
	"unicode"
)

// Stats holds basic counts over a piece of text.
type Stats struct {
	Words      int `json:"words"`
	Characters int `json:"characters"`
	Letters    int `json:"letters"`
	Sentences  int `json:"sentences"`
}

// LetterCount counts occurrences of letter in text, case-insensitively.
// Empty inputs count zero.
func LetterCount(text, letter string) int {
	if text == "" || letter == "" {
		return 0
	}
	return strings.Count(strings.ToLower(text), strings.ToLower(letter))
}

// Analyze computes word, character, letter and sentence counts. Sentences are
// approximated by terminal punctuation.
func Analyze(text string) Stats {
	if text == "" {
		return Stats{}
	}

	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
		}
	}

	return Stats{
		Words:      len(strings.Fields(text)),
		Characters: len([]rune(text)),
		Letters:    letters,
		Sentences:  strings.Count(text, ".") + strings.Count(text, "!") + strings.Count(text, "?"),
	}
}
