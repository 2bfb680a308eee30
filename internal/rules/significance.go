package rules

import (
	"fmt"
	"math"

	"github.com/shelfline/basketminer/internal/basket"
)

// Adjustment selects the multiple-testing correction applied by
// FilterSignificant. The default is no correction.
type Adjustment string

const (
	AdjustNone       Adjustment = "none"
	AdjustBonferroni Adjustment = "bonferroni"
)

// ParseAdjustment validates an adjustment name from the CLI.
func ParseAdjustment(name string) (Adjustment, error) {
	switch Adjustment(name) {
	case AdjustNone, AdjustBonferroni:
		return Adjustment(name), nil
	default:
		return "", fmt.Errorf("invalid adjustment %q (must be none or bonferroni)", name)
	}
}

// Significance returns the one-sided Fisher exact p-value for the null
// hypothesis that the rule's LHS and RHS occur independently.
//
// The 2×2 contingency table over transaction counts is
//
//	n11 = |LHS ∧ RHS|   n10 = |LHS ∧ ¬RHS|
//	n01 = |¬LHS ∧ RHS|  n00 = |¬LHS ∧ ¬RHS|
//
// and the p-value is the upper hypergeometric tail: the probability of
// observing n11 or more co-occurrences given the margins. Small p means
// the co-occurrence is unlikely under independence.
func Significance(r Rule, st *basket.Store) float64 {
	total := st.Size()
	if total == 0 {
		return 1
	}

	both := st.CountContaining(append(append([]string{}, r.LHS...), r.RHS...))
	lhs := st.CountContaining(r.LHS)
	rhs := st.CountContaining(r.RHS)

	return hypergeomUpperTail(total, lhs, rhs, both)
}

// IsSignificant reports whether the rule's p-value is below alpha.
func IsSignificant(r Rule, st *basket.Store, alpha float64) bool {
	return Significance(r, st) < alpha
}

// FilterSignificant returns the rules whose Fisher exact p-value is below
// alpha, with PValue populated on the returned copies. With
// AdjustBonferroni the threshold becomes alpha/len(rules).
// Filtering an empty collection returns ErrEmptyRuleSet.
func FilterSignificant(in []Rule, st *basket.Store, alpha float64, adjust Adjustment) ([]Rule, error) {
	if len(in) == 0 {
		return nil, ErrEmptyRuleSet
	}

	threshold := alpha
	if adjust == AdjustBonferroni {
		threshold = alpha / float64(len(in))
	}

	out := make([]Rule, 0, len(in))
	for _, r := range in {
		p := Significance(r, st)
		if p < threshold {
			r.PValue = p
			out = append(out, r)
		}
	}
	return out, nil
}

// hypergeomUpperTail computes P(X >= k) where X is hypergeometric with
// population total, K successes (transactions containing LHS) and n draws
// (transactions containing RHS).
func hypergeomUpperTail(total, lhs, rhs, k int) float64 {
	hi := lhs
	if rhs < hi {
		hi = rhs
	}
	if k > hi {
		return 0
	}
	lo := lhs + rhs - total // minimum feasible overlap
	if k < lo {
		k = lo
	}
	if k < 0 {
		k = 0
	}

	p := 0.0
	for i := k; i <= hi; i++ {
		p += math.Exp(logChoose(lhs, i) + logChoose(total-lhs, rhs-i) - logChoose(total, rhs))
	}
	if p > 1 {
		p = 1 // guard against float accumulation
	}
	return p
}

// logChoose returns ln C(n, k) via the log-gamma function.
func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	a, _ := math.Lgamma(float64(n + 1))
	b, _ := math.Lgamma(float64(k + 1))
	c, _ := math.Lgamma(float64(n - k + 1))
	return a - b - c
}
