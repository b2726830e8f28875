package views

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

func searchText(item Item) string {
	if len(item.Keywords) == 0 {
		return item.Title
	}
	return item.Title + " " + strings.Join(item.Keywords, " ")
}

// FilterItems returns items matching the query, in their original order.
// Fuzzy matches on title and keywords win; a plain substring match on the
// id is the fallback.
func FilterItems(items []Item, q string) []Item {
	trimmed := strings.TrimSpace(q)
	if trimmed == "" {
		return cloneItems(items)
	}
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = searchText(item)
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, texts)
	if len(ranks) > 0 {
		matches := make(map[int]struct{}, len(ranks))
		for _, rank := range ranks {
			matches[rank.OriginalIndex] = struct{}{}
		}
		filtered := make([]Item, 0, len(matches))
		for idx, item := range items {
			if _, ok := matches[idx]; ok {
				filtered = append(filtered, item)
			}
		}
		return filtered
	}
	lower := strings.ToLower(trimmed)
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.ID), lower) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// BestMatchIndex picks the row the cursor should land on for q: an exact
// title, then a title prefix, then a substring, then the closest fuzzy match.
func BestMatchIndex(items []Item, q string) int {
	trimmed := strings.TrimSpace(q)
	if len(items) == 0 {
		return -1
	}
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	for i, item := range items {
		if strings.EqualFold(item.Title, trimmed) {
			return i
		}
	}
	for i, item := range items {
		if strings.HasPrefix(strings.ToLower(item.Title), lower) {
			return i
		}
	}
	for i, item := range items {
		if strings.Contains(strings.ToLower(item.Title), lower) {
			return i
		}
	}
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = searchText(item)
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, texts)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance || (rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	return best.OriginalIndex
}
