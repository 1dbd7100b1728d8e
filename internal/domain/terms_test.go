package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr error
	}{
		{name: "valid simple query", query: "golang tutorial", wantErr: nil},
		{name: "empty query", query: "", wantErr: ErrQueryTooShort},
		{name: "whitespace only", query: "   ", wantErr: ErrQueryTooShort},
		{name: "single character", query: "x", wantErr: ErrQueryTooShort},
		{name: "two characters is enough", query: "go", wantErr: nil},
		{name: "sql keyword union", query: "union select password", wantErr: ErrQueryUnsafe},
		{name: "sql keyword drop", query: "drop tables please", wantErr: ErrQueryUnsafe},
		{name: "line comment", query: "test -- comment", wantErr: ErrQueryUnsafe},
		{name: "hash comment", query: "test # comment", wantErr: ErrQueryUnsafe},
		{name: "block comment open", query: "test /* hidden", wantErr: ErrQueryUnsafe},
		{name: "statement separator", query: "test; other", wantErr: ErrQueryUnsafe},
		{name: "numeric tautology", query: "x or 1=1", wantErr: ErrQueryUnsafe},
		{name: "quoted tautology", query: `x or ''=''`, wantErr: ErrQueryUnsafe},
		{name: "keyword inside word is fine", query: "dropdown menu", wantErr: nil},
		{name: "selection is not select", query: "natural selection", wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query, MinTermLength)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateQuery(%q) = %v, want %v", tt.query, err, tt.wantErr)
			}
		})
	}
}

func TestProcessTerms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "lowercases and splits",
			query: "Golang Tutorial",
			want:  []string{"golang", "tutorial"},
		},
		{
			name:  "collapses whitespace",
			query: "  golang \t  tutorial  ",
			want:  []string{"golang", "tutorial"},
		},
		{
			name:  "removes stop words",
			query: "the quick and the lazy",
			want:  []string{"quick", "lazy"},
		},
		{
			name:  "drops short tokens",
			query: "go x tutorial",
			want:  []string{"go", "tutorial"},
		},
		{
			name:  "deduplicates keeping order",
			query: "cache redis cache",
			want:  []string{"cache", "redis"},
		},
		{
			name:  "all stop words leaves nothing",
			query: "the and of",
			want:  nil,
		},
		{
			name:  "empty query",
			query: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := ProcessTerms(tt.query, MinTermLength)
			var got []string
			for _, term := range terms {
				got = append(got, term.Text)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ProcessTerms(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestProcessTermsStems(t *testing.T) {
	terms := ProcessTerms("running databases", MinTermLength)
	if len(terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(terms))
	}
	if terms[0].Stem != "runn" { // "running" minus "ing"
		t.Errorf("Stem(running) = %q, want %q", terms[0].Stem, "runn")
	}
	if terms[1].Stem != "databas" { // "databases" minus "es"
		t.Errorf("Stem(databases) = %q, want %q", terms[1].Stem, "databas")
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		word string
		want string
	}{
		{word: "running", want: "runn"},   // ing stripped
		{word: "biggest", want: "bigg"},   // est stripped
		{word: "jumped", want: "jump"},    // ed stripped
		{word: "boxes", want: "box"},      // es stripped
		{word: "faster", want: "fast"},    // er stripped
		{word: "cats", want: "cat"},       // s stripped
		{word: "queries", want: "query"},  // ies -> y
		{word: "go", want: "go"},          // nothing to strip
		{word: "is", want: "is"},          // stripping "s" would leave 1 char
		{word: "best", want: "best"},      // stripping "est" would leave 1 char
		{word: "search", want: "search"},  // no matching suffix
		{word: "classes", want: "class"},  // es beats s (longest first)
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := Stem(tt.word); got != tt.want {
				t.Errorf("Stem(%q) = %q, want %q", tt.word, got, tt.want)
			}
		})
	}
}

func TestStemText(t *testing.T) {
	got := StemText("running faster queries")
	want := "runn fast query"
	if got != want {
		t.Errorf("StemText = %q, want %q", got, want)
	}
}
