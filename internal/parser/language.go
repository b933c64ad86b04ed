package parser

import (
	"path/filepath"
	"strings"
)

// Language represents a supported source grammar.
type Language string

const (
	LangCSharp Language = "csharp"
	LangGo     Language = "go"
)

// LanguageFromExtension maps a file extension to its grammar.
func LanguageFromExtension(ext string) (Language, bool) {
	switch strings.ToLower(ext) {
	case ".cs", ".csx":
		return LangCSharp, true
	case ".go":
		return LangGo, true
	default:
		return "", false
	}
}

// LanguageFromPath detects the grammar for a file path.
func LanguageFromPath(path string) (Language, bool) {
	return LanguageFromExtension(filepath.Ext(path))
}

// IsStructural reports whether a file path has a registered grammar.
// Files without one fall back to the line-based differ.
func IsStructural(path string) bool {
	_, ok := LanguageFromPath(path)
	return ok
}
