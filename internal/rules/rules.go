// Package rules derives association rules from frequent itemsets and
// provides the statistical and structural filters applied to them.
// Everything here is a pure function over its inputs: filters return new
// collections, never edit rules in place.
package rules

import (
	"errors"
	"sort"
	"strings"

	"github.com/shelfline/basketminer/internal/miner"
)

// ErrEmptyRuleSet is returned when a filter is asked to operate on an
// empty rule collection.
var ErrEmptyRuleSet = errors.New("empty rule set")

// Rule is an association rule LHS → RHS derived from the frequent itemset
// LHS∪RHS. LHS and RHS are disjoint, non-empty, sorted item slices.
//
// Support is the support ratio of LHS∪RHS, Confidence is
// support(LHS∪RHS)/support(LHS), Lift is Confidence/support(RHS), and
// Coverage is support(LHS). PValue is populated by the significance
// filter and is 0 until then.
type Rule struct {
	LHS        []string
	RHS        []string
	Support    float64
	Confidence float64
	Lift       float64
	Coverage   float64
	PValue     float64
}

// String renders the rule as "a, b => c" for display and stable ordering.
func (r Rule) String() string {
	return strings.Join(r.LHS, ", ") + " => " + strings.Join(r.RHS, ", ")
}

// Generate derives rules from the mined itemsets. For every itemset with
// at least minLen items, every non-empty proper subset becomes a
// candidate LHS (the remainder is the RHS); the candidate is emitted when
// its confidence meets minConfidence.
//
// Subset supports are resolved from the mined set itself. A split whose
// LHS or RHS support is missing (pruned below minSupport during mining)
// is skipped: its confidence or lift is indeterminate, not zero.
func Generate(itemsets []miner.Itemset, minConfidence float64, minLen int) []Rule {
	if minLen < 2 {
		minLen = 2 // a rule needs a non-empty side each
	}
	support := miner.SupportIndex(itemsets)

	var out []Rule
	for _, is := range itemsets {
		n := len(is.Items)
		if n < minLen {
			continue
		}

		// Enumerate non-empty proper subsets by bitmask. Frequent
		// itemsets are short in practice, so 2^n stays small.
		for mask := 1; mask < (1<<uint(n))-1; mask++ {
			lhs := make([]string, 0, n-1)
			rhs := make([]string, 0, n-1)
			for i := 0; i < n; i++ {
				if mask&(1<<uint(i)) != 0 {
					lhs = append(lhs, is.Items[i])
				} else {
					rhs = append(rhs, is.Items[i])
				}
			}

			lhsSupport, ok := support[miner.Key(lhs)]
			if !ok || lhsSupport == 0 {
				continue
			}
			rhsSupport, ok := support[miner.Key(rhs)]
			if !ok || rhsSupport == 0 {
				continue
			}

			confidence := is.Support / lhsSupport
			if confidence < minConfidence {
				continue
			}

			out = append(out, Rule{
				LHS:        lhs,
				RHS:        rhs,
				Support:    is.Support,
				Confidence: confidence,
				Lift:       confidence / rhsSupport,
				Coverage:   lhsSupport,
			})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].String() < out[j].String()
	})

	return out
}

// isSubset reports whether a ⊆ b. Both slices must be sorted.
func isSubset(a, b []string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			i++
			j++
		case a[i] > b[j]:
			j++
		default:
			return false
		}
	}
	return i == len(a)
}
