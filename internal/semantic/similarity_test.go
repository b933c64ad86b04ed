package semantic

import "testing"

func TestExtractBody(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"block body", "int Add(int a, int b) { return a + b; }", "{ return a + b; }"},
		{"expression body", "int Twice(int a) => a * 2;", " a * 2;"},
		{"no body", "private int count;", ""},
		{"type body", "class Foo { int x; }", "{ int x; }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractBody(tt.text); got != tt.want {
				t.Errorf("ExtractBody(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeBody(t *testing.T) {
	in := "{\n\tvar x  =   1;\n\n    return x;\t\n}"
	want := "{\nvar x = 1;\nreturn x;\n}"
	if got := NormalizeBody(in); got != want {
		t.Errorf("NormalizeBody() = %q, want %q", got, want)
	}
}

func TestBodySimilarity(t *testing.T) {
	t.Run("both empty bodies are identical", func(t *testing.T) {
		if sim := BodySimilarity("int x;", "int y;"); sim != 1.0 {
			t.Errorf("similarity = %v, want exactly 1.0", sim)
		}
	})

	t.Run("identical bodies are identical", func(t *testing.T) {
		a := "int OldMethod(int a, int b) { return a + b; }"
		b := "int NewMethod(int a, int b) { return a + b; }"
		if sim := BodySimilarity(a, b); sim != 1.0 {
			t.Errorf("similarity = %v, want exactly 1.0", sim)
		}
	})

	t.Run("whitespace differences are canonical", func(t *testing.T) {
		a := "void M() {\n    work();\n}"
		b := "void M() {\n\twork();\n}"
		if sim := BodySimilarity(a, b); sim != 1.0 {
			t.Errorf("similarity = %v, want 1.0 after normalization", sim)
		}
	})

	t.Run("header rename does not deflate score", func(t *testing.T) {
		a := "void VeryLongOldName() { a(); b(); c(); }"
		b := "void X() { a(); b(); c(); }"
		if sim := BodySimilarity(a, b); sim != 1.0 {
			t.Errorf("similarity = %v, header must be excluded", sim)
		}
	})

	t.Run("different bodies score below one", func(t *testing.T) {
		a := "void M() { open(); read(); close(); }"
		b := "void M() { connect(); send(); receive(); disconnect(); }"
		sim := BodySimilarity(a, b)
		if sim >= RenameThreshold {
			t.Errorf("similarity = %v, want below rename threshold", sim)
		}
	})
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
		{"a", "b", 1},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
