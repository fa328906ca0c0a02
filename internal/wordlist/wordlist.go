// Package wordlist loads word lists from files.
package wordlist

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// EmbeddedLang is the language shipped inside the binary.
const EmbeddedLang = "en"

//go:embed en.txt
var embeddedEnglish string

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return readWords(file)
}

// Load returns the dictionary for lang. A file at path takes precedence;
// the embedded English list is used when no file exists for "en".
func Load(lang, path string) ([]string, error) {
	words, err := LoadWords(path)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && strings.EqualFold(lang, EmbeddedLang):
		words, err = readWords(strings.NewReader(embeddedEnglish))
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	filter := FilterForLang(lang)
	kept := words[:0]
	for _, w := range words {
		if filter(w) {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("word list has no usable %s words", lang)
	}
	return kept, nil
}

func readWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
