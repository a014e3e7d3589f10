package ranking

import (
	"cmp"
	"slices"

	"github.com/golf-alone/teetime-service/internal/domain/search"
	"github.com/golf-alone/teetime-service/internal/domain/teetimes"
)

// Rank drops results whose best score is below minScore and orders the rest by key.
// Ties fall back to course ID so equal inputs always produce the same order.
func Rank(results []search.Result, minScore float64, key search.SortKey) []search.Result {
	out := make([]search.Result, 0, len(results))
	for _, r := range results {
		if r.BestScore >= minScore {
			out = append(out, r)
		}
	}

	slices.SortStableFunc(out, func(a, b search.Result) int {
		var c int
		switch key {
		case search.SortByDistance:
			c = cmp.Compare(a.DistanceMiles, b.DistanceMiles)
		case search.SortByPrice:
			c = cmp.Compare(a.Price, b.Price)
		default:
			c = cmp.Compare(b.BestScore, a.BestScore)
		}
		if c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// SortSlots orders slots by score, highest first, then by clock time.
func SortSlots(list []teetimes.ScoredSlot) {
	slices.SortStableFunc(list, func(a, b teetimes.ScoredSlot) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Time.Minutes(), b.Time.Minutes())
	})
}
