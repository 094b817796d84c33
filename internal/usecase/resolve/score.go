package resolve

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

// tokenSortRatio computes the token-order-insensitive similarity of two
// canonical token sequences on a 0..100 scale. Both sides are sorted and
// joined before computing the indel distance (Wagner-Fischer with
// substitution cost 2), which reproduces the classic token_sort_ratio:
//
//	ratio = 100 * (len(a)+len(b) - distance) / (len(a)+len(b))
//
// The result is symmetric in token order and fully deterministic.
func tokenSortRatio(a, b []string) float64 {
	sa := sortedJoin(a)
	sb := sortedJoin(b)

	total := len(sa) + len(sb)
	if total == 0 {
		return 0
	}

	d := smetrics.WagnerFischer(sa, sb, 1, 1, 2)
	return 100 * float64(total-d) / float64(total)
}

func sortedJoin(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}
