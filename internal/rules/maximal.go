package rules

// IsMaximal reports whether the rule is not implied by a more general
// rule in the collection. Rule r is redundant when some other rule g has
// a strictly smaller LHS (g.LHS ⊂ r.LHS), an equal-or-larger RHS
// (g.RHS ⊇ r.RHS), and is at least as strong on both metrics
// (support(g) >= support(r) and confidence(g) >= confidence(r)): the
// generalization already says everything r does.
func IsMaximal(r Rule, all []Rule) bool {
	for _, g := range all {
		if len(g.LHS) >= len(r.LHS) {
			continue // not a strictly smaller LHS
		}
		if !isSubset(g.LHS, r.LHS) {
			continue
		}
		if !isSubset(r.RHS, g.RHS) {
			continue
		}
		if g.Support >= r.Support && g.Confidence >= r.Confidence {
			return false
		}
	}
	return true
}

// FilterMaximal removes every non-maximal rule. The comparison is against
// the full input collection, so the result is independent of input order,
// and filtering an already-maximal set returns it unchanged. Filtering an
// empty collection returns ErrEmptyRuleSet.
func FilterMaximal(in []Rule) ([]Rule, error) {
	if len(in) == 0 {
		return nil, ErrEmptyRuleSet
	}

	out := make([]Rule, 0, len(in))
	for _, r := range in {
		if IsMaximal(r, in) {
			out = append(out, r)
		}
	}
	return out, nil
}
