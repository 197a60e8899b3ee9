package game

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed words.json
var embeddedBank []byte

// WordBank maps a category label to the words that can be drawn from it.
// Words are lowercase letters, with single spaces allowed between words.
type WordBank map[string][]string

// bankFile is the on-disk layout shared by the JSON and YAML loaders.
type bankFile struct {
	Categories map[string][]string `json:"categories" yaml:"categories"`
}

// DefaultWordBank returns the bank compiled into the binary. It panics if the
// embedded file is malformed, which only a broken build can cause.
func DefaultWordBank() WordBank {
	bank, err := decodeBank(embeddedBank, ".json")
	if err != nil {
		panic(fmt.Sprintf("embedded word bank: %v", err))
	}
	return bank
}

// LoadWordBank reads a word bank from a .json, .yaml or .yml file.
func LoadWordBank(path string) (WordBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word bank: %w", err)
	}
	bank, err := decodeBank(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("load word bank %s: %w", path, err)
	}
	return bank, nil
}

func decodeBank(data []byte, ext string) (WordBank, error) {
	var file bankFile
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported word bank format %q", ext)
	}

	bank := make(WordBank, len(file.Categories))
	for category, words := range file.Categories {
		bank[strings.TrimSpace(category)] = lo.Map(words, func(w string, _ int) string {
			return strings.ToLower(strings.TrimSpace(w))
		})
	}
	if err := bank.Validate(); err != nil {
		return nil, err
	}
	return bank, nil
}

// Validate reports the first structural problem in the bank.
func (b WordBank) Validate() error {
	if len(b) == 0 {
		return ErrEmptyBank
	}
	for _, category := range b.Categories() {
		if category == "" {
			return fmt.Errorf("unnamed category: %w", ErrInvalidWord)
		}
		words := b[category]
		if len(words) == 0 {
			return fmt.Errorf("category %q: %w", category, ErrEmptyBank)
		}
		for _, w := range words {
			if !validWord(w) {
				return fmt.Errorf("category %q word %q: %w", category, w, ErrInvalidWord)
			}
		}
	}
	return nil
}

// Categories returns the category labels in sorted order.
func (b WordBank) Categories() []string {
	keys := lo.Keys(b)
	slices.Sort(keys)
	return keys
}

// Size returns the total number of words across all categories.
func (b WordBank) Size() int {
	return lo.SumBy(lo.Values(b), func(words []string) int { return len(words) })
}

func validWord(w string) bool {
	if w == "" || strings.TrimSpace(w) != w || strings.Contains(w, "  ") {
		return false
	}
	hasLetter := false
	for _, r := range w {
		switch {
		case r >= 'a' && r <= 'z':
			hasLetter = true
		case r == ' ':
		default:
			return false
		}
	}
	return hasLetter
}
