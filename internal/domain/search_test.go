package domain

import (
	"testing"
)

func TestSearchOptionsValidate(t *testing.T) {
	tests := []struct {
		name       string
		opts       SearchOptions
		wantLimit  int
		wantOffset int
		wantErr    bool
	}{
		{
			name:       "defaults applied",
			opts:       SearchOptions{Query: "golang"},
			wantLimit:  DefaultLimit,
			wantOffset: 0,
		},
		{
			name:       "valid values kept",
			opts:       SearchOptions{Query: "golang", Limit: 25, Offset: 50},
			wantLimit:  25,
			wantOffset: 50,
		},
		{
			name:       "limit above max resets to default",
			opts:       SearchOptions{Query: "golang", Limit: 500},
			wantLimit:  DefaultLimit,
			wantOffset: 0,
		},
		{
			name:       "negative offset resets to zero",
			opts:       SearchOptions{Query: "golang", Limit: 10, Offset: -5},
			wantLimit:  10,
			wantOffset: 0,
		},
		{
			name:    "unknown source rejected",
			opts:    SearchOptions{Query: "golang", Sources: []SourceType{"rss"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.opts.Limit != tt.wantLimit {
				t.Errorf("Limit = %d, want %d", tt.opts.Limit, tt.wantLimit)
			}
			if tt.opts.Offset != tt.wantOffset {
				t.Errorf("Offset = %d, want %d", tt.opts.Offset, tt.wantOffset)
			}
		})
	}
}

func TestSearchOptionsValidateDefaultsSources(t *testing.T) {
	opts := SearchOptions{Query: "golang"}
	if err := opts.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts.Sources) != 3 {
		t.Fatalf("expected all 3 sources enabled, got %v", opts.Sources)
	}
	for _, s := range []SourceType{SourceArticle, SourcePageBuilder, SourceCustomField} {
		if !opts.WantsSource(s) {
			t.Errorf("source %s should be enabled by default", s)
		}
	}
}

func TestFingerprintDeterminism(t *testing.T) {
	opts := SearchOptions{Query: "Golang  Caching", Limit: 10}
	viewer := Viewer{AccessLevels: []int64{1, 5}, Language: "en-GB"}

	a := Fingerprint(opts, viewer)
	b := Fingerprint(SearchOptions{Query: "golang caching", Limit: 10}, viewer)
	if a != b {
		t.Error("case and whitespace variants should share a fingerprint")
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(a))
	}
}

func TestFingerprintSegmentation(t *testing.T) {
	base := SearchOptions{Query: "golang", Limit: 10}
	viewer := Viewer{AccessLevels: []int64{1}, Language: "en-GB"}
	baseline := Fingerprint(base, viewer)

	tests := []struct {
		name   string
		opts   SearchOptions
		viewer Viewer
	}{
		{
			name:   "different query",
			opts:   SearchOptions{Query: "redis", Limit: 10},
			viewer: viewer,
		},
		{
			name:   "different limit",
			opts:   SearchOptions{Query: "golang", Limit: 20},
			viewer: viewer,
		},
		{
			name:   "different offset",
			opts:   SearchOptions{Query: "golang", Limit: 10, Offset: 10},
			viewer: viewer,
		},
		{
			name:   "different access levels",
			opts:   base,
			viewer: Viewer{AccessLevels: []int64{1, 2}, Language: "en-GB"},
		},
		{
			name:   "different language",
			opts:   base,
			viewer: Viewer{AccessLevels: []int64{1}, Language: "de-DE"},
		},
		{
			name:   "different categories",
			opts:   SearchOptions{Query: "golang", Limit: 10, Categories: []int64{4}},
			viewer: viewer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if Fingerprint(tt.opts, tt.viewer) == baseline {
				t.Error("variant should not collide with the baseline fingerprint")
			}
		})
	}
}

func TestViewerAccessSignature(t *testing.T) {
	a := Viewer{AccessLevels: []int64{5, 1, 3}}
	b := Viewer{AccessLevels: []int64{1, 3, 5}}
	if a.AccessSignature() != b.AccessSignature() {
		t.Error("access signature should not depend on level order")
	}
	if got := a.AccessSignature(); got != "1,3,5" {
		t.Errorf("AccessSignature = %q, want %q", got, "1,3,5")
	}
	if got := (Viewer{}).AccessSignature(); got != "" {
		t.Errorf("empty viewer signature = %q, want empty", got)
	}
}
