package domain

import "sort"

// Dedupe collapses hits sharing the same item key. The first occurrence
// keeps its slot; a later duplicate replaces it in place only when it
// scored strictly higher.
func Dedupe(hits []SearchHit) []SearchHit {
	index := make(map[string]int, len(hits))
	out := hits[:0]

	for _, hit := range hits {
		key := hit.Item.Key()
		if at, seen := index[key]; seen {
			if hit.Relevance > out[at].Relevance {
				out[at] = hit
			}
			continue
		}
		index[key] = len(out)
		out = append(out, hit)
	}
	return out
}

// MergeHits deduplicates, sorts by relevance and applies pagination.
// The returned total counts distinct items before pagination. The sort is
// stable, so equal scores keep retrieval order.
func MergeHits(hits []SearchHit, offset, limit int) ([]SearchHit, int) {
	merged := Dedupe(hits)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Relevance > merged[j].Relevance
	})

	total := len(merged)
	if offset >= total {
		return nil, total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return merged[offset:end], total
}
