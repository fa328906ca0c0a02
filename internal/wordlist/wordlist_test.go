package wordlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFallsBackToEmbeddedEnglish(t *testing.T) {
	words, err := Load("en", filepath.Join(t.TempDir(), "en.txt"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(words) < 100 {
		t.Fatalf("expected embedded dictionary, got %d words", len(words))
	}
}

func TestLoadMissingOtherLanguage(t *testing.T) {
	if _, err := Load("de", filepath.Join(t.TempDir(), "de.txt")); err == nil {
		t.Fatalf("expected error for missing non-embedded language")
	}
}

func TestLoadPrefersFileAndFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "en.txt")
	if err := os.WriteFile(path, []byte("hello\n\nWorld\nco-op\nthere\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, err := Load("en", path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(words) != 2 || words[0] != "hello" || words[1] != "there" {
		t.Fatalf("unexpected words: %v", words)
	}
}

func TestLoadWordsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("\n  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadWords(path); err == nil {
		t.Fatalf("expected error for empty list")
	}
}
