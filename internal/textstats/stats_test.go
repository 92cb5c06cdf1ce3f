package textstats

import "testing"

func TestLetterCountCaseInsensitive(t *testing.T) {
	if got := LetterCount("Alabama", "a"); got != 4 {
		t.Fatalf("expected 4, got %d", got)
	}
	if got := LetterCount("Alabama", "A"); got != 4 {
		t.Fatalf("expected 4 for uppercase needle, got %d", got)
	}
}

func TestLetterCountEmptyInputs(t *testing.T) {
	if got := LetterCount("", "a"); got != 0 {
		t.Fatalf("expected 0 for empty text, got %d", got)
	}
	if got := LetterCount("abc", ""); got != 0 {
		t.Fatalf("expected 0 for empty letter, got %d", got)
	}
}

func TestAnalyze(t *testing.T) {
	stats := Analyze("Hello world! How are you?")
	if stats.Words != 5 {
		t.Fatalf("expected 5 words, got %d", stats.Words)
	}
	if stats.Sentences != 2 {
		t.Fatalf("expected 2 sentences, got %d", stats.Sentences)
	}
	if stats.Characters != 25 {
		t.Fatalf("expected 25 characters, got %d", stats.Characters)
	}
	if stats.Letters != 19 {
		t.Fatalf("expected 19 letters, got %d", stats.Letters)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	if stats := Analyze(""); stats != (Stats{}) {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}
