package data_test

import (
	"testing"

	"github.com/trendscope/analyzer/internal/data"
)

func TestCategoryKeywords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"canonical slug", "guzellik-bakim", true},
		{"display name with accents", "Güzellik & Bakım", true},
		{"shorthand alias", "kozmetik", true},
		{"mixed case", "MODA", true},
		{"unknown category", "elektronik", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keywords, ok := data.CategoryKeywords(tt.input)
			if ok != tt.expected {
				t.Errorf("CategoryKeywords(%q) ok = %v, want %v", tt.input, ok, tt.expected)
			}
			if ok && len(keywords) == 0 {
				t.Errorf("CategoryKeywords(%q) returned empty pool", tt.input)
			}
		})
	}
}

func TestNormalizeCategoryName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"accents stripped", "Güzellik & Bakım", "guzellik & bakim"},
		{"dotless i folded", "BAKIM", "bakim"},
		{"whitespace collapsed", "  ev   &  yaşam ", "ev & yasam"},
		{"already normalized", "oto-arac", "oto-arac"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := data.NormalizeCategoryName(tt.input); got != tt.expected {
				t.Errorf("NormalizeCategoryName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCategoriesReturnsCopy(t *testing.T) {
	first := data.Categories()
	for name := range first {
		first[name] = nil
	}

	second := data.Categories()
	for name, keywords := range second {
		if len(keywords) == 0 {
			t.Errorf("category %q pool was mutated through a returned copy", name)
		}
	}
}
