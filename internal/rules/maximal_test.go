package rules

import (
	"errors"
	"reflect"
	"testing"
)

func TestIsMaximal_RedundantRule(t *testing.T) {
	general := Rule{LHS: []string{"a"}, RHS: []string{"c"}, Support: 0.5, Confidence: 0.8}
	specific := Rule{LHS: []string{"a", "b"}, RHS: []string{"c"}, Support: 0.4, Confidence: 0.7}
	all := []Rule{general, specific}

	if !IsMaximal(general, all) {
		t.Error("general rule should be maximal")
	}
	if IsMaximal(specific, all) {
		t.Error("specific rule implied by a stronger general rule should not be maximal")
	}
}

func TestIsMaximal_StrongerSpecificRuleKept(t *testing.T) {
	// The specific rule beats its generalization on confidence, so the
	// generalization does not imply it.
	general := Rule{LHS: []string{"a"}, RHS: []string{"c"}, Support: 0.5, Confidence: 0.6}
	specific := Rule{LHS: []string{"a", "b"}, RHS: []string{"c"}, Support: 0.4, Confidence: 0.9}
	all := []Rule{general, specific}

	if !IsMaximal(specific, all) {
		t.Error("specific rule stronger than its generalization should be maximal")
	}
}

func TestIsMaximal_RHSSuperset(t *testing.T) {
	// A generalization may also promise more: smaller LHS and larger RHS.
	general := Rule{LHS: []string{"a"}, RHS: []string{"c", "d"}, Support: 0.5, Confidence: 0.8}
	specific := Rule{LHS: []string{"a", "b"}, RHS: []string{"c"}, Support: 0.4, Confidence: 0.7}
	all := []Rule{general, specific}

	if IsMaximal(specific, all) {
		t.Error("rule implied by a generalization with superset RHS should not be maximal")
	}
}

func TestIsMaximal_UnrelatedLHS(t *testing.T) {
	r1 := Rule{LHS: []string{"a"}, RHS: []string{"c"}, Support: 0.5, Confidence: 0.9}
	r2 := Rule{LHS: []string{"b"}, RHS: []string{"c"}, Support: 0.4, Confidence: 0.7}
	all := []Rule{r1, r2}

	// Neither LHS is a subset of the other; both are maximal.
	if !IsMaximal(r1, all) || !IsMaximal(r2, all) {
		t.Error("rules with unrelated LHS should both be maximal")
	}
}

func TestFilterMaximal(t *testing.T) {
	general := Rule{LHS: []string{"a"}, RHS: []string{"c"}, Support: 0.5, Confidence: 0.8}
	redundant := Rule{LHS: []string{"a", "b"}, RHS: []string{"c"}, Support: 0.4, Confidence: 0.7}
	unrelated := Rule{LHS: []string{"d"}, RHS: []string{"e"}, Support: 0.3, Confidence: 0.6}

	out, err := FilterMaximal([]Rule{general, redundant, unrelated})
	if err != nil {
		t.Fatalf("FilterMaximal failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 maximal rules, got %d: %v", len(out), out)
	}
	for _, r := range out {
		if r.String() == redundant.String() {
			t.Errorf("redundant rule %s survived", r)
		}
	}
}

func TestFilterMaximal_Idempotent(t *testing.T) {
	general := Rule{LHS: []string{"a"}, RHS: []string{"c"}, Support: 0.5, Confidence: 0.8}
	redundant := Rule{LHS: []string{"a", "b"}, RHS: []string{"c"}, Support: 0.4, Confidence: 0.7}

	once, err := FilterMaximal([]Rule{general, redundant})
	if err != nil {
		t.Fatalf("FilterMaximal failed: %v", err)
	}
	twice, err := FilterMaximal(once)
	if err != nil {
		t.Fatalf("second FilterMaximal failed: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filtering an already-maximal set changed it: %v vs %v", once, twice)
	}
}

func TestFilterMaximal_Empty(t *testing.T) {
	_, err := FilterMaximal(nil)
	if !errors.Is(err, ErrEmptyRuleSet) {
		t.Errorf("expected ErrEmptyRuleSet, got %v", err)
	}
}
