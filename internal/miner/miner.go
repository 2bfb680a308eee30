// Package miner enumerates frequent itemsets over a transaction dataset
// using vertical tid-list intersection (the ECLAT approach): each item is
// mapped to the set of transaction indices containing it, and candidate
// itemsets are grown depth-first by intersecting tid-lists. A candidate
// below the support threshold is never extended, since no superset of an
// infrequent set can be frequent, and that keeps enumeration tractable.
package miner

import (
	"sort"
	"strings"

	"github.com/shelfline/basketminer/internal/basket"
)

// Itemset is a frequent itemset: its sorted items, the number of
// transactions containing all of them, and that count as a ratio of the
// dataset size.
type Itemset struct {
	Items   []string
	Count   int
	Support float64
}

// Key returns a canonical string key for the itemset, usable as a map key
// when looking up subset supports. Items are joined with the unit
// separator so labels containing commas stay unambiguous.
func (is Itemset) Key() string {
	return Key(is.Items)
}

// Key builds the canonical key for a sorted item slice.
func Key(items []string) string {
	return strings.Join(items, "\x1f")
}

// Mine returns every itemset with size in [minLen, maxLen] and support
// ratio >= minSupport, ordered by size then lexicographically.
//
// minLen > maxLen or maxLen < 1 yields an empty result, not an error.
// minSupport <= 0 returns every itemset occurring in at least one
// transaction, up to maxLen; that can be combinatorially large and is
// the caller's responsibility. An empty store yields an empty result.
func Mine(st *basket.Store, minSupport float64, minLen, maxLen int) []Itemset {
	total := st.Size()
	if total == 0 || minLen > maxLen || maxLen < 1 {
		return nil
	}
	if minLen < 1 {
		minLen = 1
	}

	// Build single-item tid-lists in vocabulary (lexicographic) order.
	// The fixed total order guarantees each itemset is generated once.
	vocab := st.Items()
	tidlists := make([][]int, len(vocab))
	for tid, tx := range st.Transactions() {
		for _, item := range tx.Items {
			i := sort.SearchStrings(vocab, item)
			tidlists[i] = append(tidlists[i], tid)
		}
	}

	frequent := func(tids []int) bool {
		if len(tids) == 0 {
			return false
		}
		return float64(len(tids))/float64(total) >= minSupport
	}

	type extension struct {
		item string
		tids []int
	}

	var result []Itemset

	emit := func(items []string, tids []int) {
		if len(items) < minLen {
			return
		}
		set := Itemset{
			Items:   append([]string(nil), items...),
			Count:   len(tids),
			Support: float64(len(tids)) / float64(total),
		}
		result = append(result, set)
	}

	// grow extends prefix by each frequent extension in turn, recursing
	// with the extensions lexicographically greater than the chosen one.
	var grow func(prefix []string, exts []extension)
	grow = func(prefix []string, exts []extension) {
		for i, ext := range exts {
			items := append(prefix, ext.item)
			emit(items, ext.tids)

			if len(items) == maxLen {
				continue
			}

			var next []extension
			for _, later := range exts[i+1:] {
				tids := intersect(ext.tids, later.tids)
				if frequent(tids) {
					next = append(next, extension{item: later.item, tids: tids})
				}
			}
			if len(next) > 0 {
				grow(items, next)
			}
		}
	}

	var roots []extension
	for i, item := range vocab {
		if frequent(tidlists[i]) {
			roots = append(roots, extension{item: item, tids: tidlists[i]})
		}
	}
	grow(make([]string, 0, maxLen), roots)

	sort.Slice(result, func(i, j int) bool {
		if len(result[i].Items) != len(result[j].Items) {
			return len(result[i].Items) < len(result[j].Items)
		}
		return result[i].Key() < result[j].Key()
	})

	return result
}

// intersect returns the intersection of two sorted tid-lists.
func intersect(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// SupportIndex builds a lookup from canonical itemset key to support
// ratio. The rule generator uses it to resolve subset supports.
func SupportIndex(itemsets []Itemset) map[string]float64 {
	index := make(map[string]float64, len(itemsets))
	for _, is := range itemsets {
		index[is.Key()] = is.Support
	}
	return index
}
