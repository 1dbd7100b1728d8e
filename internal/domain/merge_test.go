package domain

import "testing"

func hit(source SourceType, id int64, relevance int) SearchHit {
	return SearchHit{
		Item:      ContentItem{ID: id, Source: source},
		Relevance: relevance,
	}
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name string
		in   []SearchHit
		want []SearchHit
	}{
		{
			name: "no duplicates",
			in:   []SearchHit{hit(SourceArticle, 1, 50), hit(SourceArticle, 2, 40)},
			want: []SearchHit{hit(SourceArticle, 1, 50), hit(SourceArticle, 2, 40)},
		},
		{
			name: "higher duplicate replaces in place",
			in:   []SearchHit{hit(SourceArticle, 1, 30), hit(SourceArticle, 2, 40), hit(SourceArticle, 1, 60)},
			want: []SearchHit{hit(SourceArticle, 1, 60), hit(SourceArticle, 2, 40)},
		},
		{
			name: "equal duplicate keeps first seen",
			in:   []SearchHit{hit(SourceArticle, 1, 30), hit(SourceArticle, 1, 30)},
			want: []SearchHit{hit(SourceArticle, 1, 30)},
		},
		{
			name: "lower duplicate discarded",
			in:   []SearchHit{hit(SourceArticle, 1, 50), hit(SourceArticle, 1, 10)},
			want: []SearchHit{hit(SourceArticle, 1, 50)},
		},
		{
			name: "same id different sources kept apart",
			in:   []SearchHit{hit(SourceArticle, 1, 50), hit(SourcePageBuilder, 1, 40)},
			want: []SearchHit{hit(SourceArticle, 1, 50), hit(SourcePageBuilder, 1, 40)},
		},
		{
			name: "custom field match collapses into its article",
			in:   []SearchHit{hit(SourceArticle, 7, 50), hit(SourceCustomField, 7, 40)},
			want: []SearchHit{hit(SourceArticle, 7, 50)},
		},
		{
			name: "custom field match wins when it scored higher",
			in:   []SearchHit{hit(SourceArticle, 7, 40), hit(SourceCustomField, 7, 60)},
			want: []SearchHit{hit(SourceCustomField, 7, 60)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dedupe(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Dedupe returned %d hits, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].Item.Key() != tt.want[i].Item.Key() || got[i].Relevance != tt.want[i].Relevance {
					t.Errorf("hit %d = %s/%d, want %s/%d",
						i, got[i].Item.Key(), got[i].Relevance,
						tt.want[i].Item.Key(), tt.want[i].Relevance)
				}
			}
		})
	}
}

func TestMergeHitsSortsByRelevance(t *testing.T) {
	in := []SearchHit{
		hit(SourceArticle, 1, 20),
		hit(SourceArticle, 2, 80),
		hit(SourceArticle, 3, 50),
	}

	got, total := MergeHits(in, 0, 10)
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	for i, wantID := range []int64{2, 3, 1} {
		if got[i].Item.ID != wantID {
			t.Errorf("position %d = item %d, want %d", i, got[i].Item.ID, wantID)
		}
	}
}

func TestMergeHitsStableOnTies(t *testing.T) {
	// Equal relevance keeps retrieval order, so the article arriving
	// before an equally scored custom-field hit stays first.
	in := []SearchHit{
		hit(SourceArticle, 1, 50),
		hit(SourceCustomField, 9, 50),
	}

	got, _ := MergeHits(in, 0, 10)
	if got[0].Item.Source != SourceArticle {
		t.Errorf("first hit = %s, want article", got[0].Item.Source)
	}
}

func TestMergeHitsCrossAdapterDuplicate(t *testing.T) {
	// The same article retrieved by the plain-text scan and by its custom
	// field values is one logical result carrying the higher score.
	in := []SearchHit{
		hit(SourceArticle, 7, 50),
		hit(SourceArticle, 8, 30),
		hit(SourceCustomField, 7, 40),
	}

	got, total := MergeHits(in, 0, 10)
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if got[0].Item.ID != 7 || got[0].Relevance != 50 {
		t.Errorf("first hit = item %d/%d, want 7/50", got[0].Item.ID, got[0].Relevance)
	}
}

func TestMergeHitsPagination(t *testing.T) {
	in := []SearchHit{
		hit(SourceArticle, 1, 90),
		hit(SourceArticle, 2, 80),
		hit(SourceArticle, 3, 70),
		hit(SourceArticle, 4, 60),
	}

	tests := []struct {
		name      string
		offset    int
		limit     int
		wantIDs   []int64
		wantTotal int
	}{
		{name: "first page", offset: 0, limit: 2, wantIDs: []int64{1, 2}, wantTotal: 4},
		{name: "second page", offset: 2, limit: 2, wantIDs: []int64{3, 4}, wantTotal: 4},
		{name: "offset past end", offset: 10, limit: 2, wantIDs: nil, wantTotal: 4},
		{name: "limit past end", offset: 3, limit: 5, wantIDs: []int64{4}, wantTotal: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total := MergeHits(append([]SearchHit(nil), in...), tt.offset, tt.limit)
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("page size = %d, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].Item.ID != id {
					t.Errorf("position %d = item %d, want %d", i, got[i].Item.ID, id)
				}
			}
		})
	}
}
