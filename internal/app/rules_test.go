package app

import (
	"math"
	"testing"

	"github.com/shelfline/basketminer/internal/basket"
	"github.com/shelfline/basketminer/internal/rules"
)

func TestRulesCommand_FlagDefaults(t *testing.T) {
	flag := rulesCmd.Flags().Lookup("min-confidence")
	if flag == nil {
		t.Fatal("min-confidence flag not found")
	}
	if flag.DefValue != "0.5" {
		t.Errorf("min-confidence default: got %s, want 0.5", flag.DefValue)
	}

	flag = rulesCmd.Flags().Lookup("alpha")
	if flag == nil {
		t.Fatal("alpha flag not found")
	}
	if flag.DefValue != "0" {
		t.Errorf("alpha default: got %s, want 0 (disabled)", flag.DefValue)
	}
}

func TestRunRules_Validation(t *testing.T) {
	tests := []struct {
		name  string
		setup func()
	}{
		{"bad confidence", func() { rulesMinConfidence = 2 }},
		{"bad alpha", func() { rulesAlpha = -1 }},
		{"bad adjustment", func() { rulesAdjust = "holm" }},
		{"bad sort", func() { rulesSort = "name" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetPipelineFlags(t)
			tt.setup()
			if err := runRules(rulesCmd, nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMinePipeline_ReferenceScenario(t *testing.T) {
	resetPipelineFlags(t)
	rulesMinSupport = 0.5
	rulesMinConfidence = 0.6
	rulesMaxLen = 3

	ds := scenarioDataset(t)
	ruleSet, itemsetCount, err := minePipeline(ds)
	if err != nil {
		t.Fatalf("minePipeline failed: %v", err)
	}

	if itemsetCount != 6 {
		t.Errorf("expected 6 frequent itemsets, got %d", itemsetCount)
	}

	// All six pair rules have confidence 2/3 at this threshold.
	if len(ruleSet) != 6 {
		t.Fatalf("expected 6 rules, got %d: %v", len(ruleSet), ruleSet)
	}
	for _, r := range ruleSet {
		if math.Abs(r.Confidence-2.0/3.0) > 1e-12 {
			t.Errorf("rule %s: confidence %v, want 2/3", r, r.Confidence)
		}
	}
}

func TestMinePipeline_SignificanceFilter(t *testing.T) {
	resetPipelineFlags(t)
	rulesMinSupport = 0.25
	rulesMinConfidence = 0.5
	rulesAlpha = 0.05

	// In the reference dataset no pair co-occurs more than independence
	// predicts, so the Fisher filter drops everything.
	ds := scenarioDataset(t)
	ruleSet, _, err := minePipeline(ds)
	if err != nil {
		t.Fatalf("minePipeline failed: %v", err)
	}
	if len(ruleSet) != 0 {
		t.Errorf("expected no significant rules, got %v", ruleSet)
	}
}

func TestMinePipeline_MaximalFilter(t *testing.T) {
	resetPipelineFlags(t)
	rulesMinSupport = 0.25
	rulesMinConfidence = 0.5
	rulesMaxLen = 3
	rulesMaximal = true

	ds := scenarioDataset(t)
	ruleSet, _, err := minePipeline(ds)
	if err != nil {
		t.Fatalf("minePipeline failed: %v", err)
	}
	for _, r := range ruleSet {
		if !rules.IsMaximal(r, ruleSet) {
			t.Errorf("non-maximal rule %s survived the filter", r)
		}
	}
}

func TestSortRules(t *testing.T) {
	ruleSet := []rules.Rule{
		{LHS: []string{"a"}, RHS: []string{"b"}, Support: 0.5, Confidence: 0.6, Lift: 1.2},
		{LHS: []string{"c"}, RHS: []string{"d"}, Support: 0.7, Confidence: 0.9, Lift: 0.8},
	}

	sortRules(ruleSet, "confidence")
	if ruleSet[0].Confidence != 0.9 {
		t.Errorf("confidence sort: got %v first", ruleSet[0])
	}
	sortRules(ruleSet, "lift")
	if ruleSet[0].Lift != 1.2 {
		t.Errorf("lift sort: got %v first", ruleSet[0])
	}
	sortRules(ruleSet, "support")
	if ruleSet[0].Support != 0.7 {
		t.Errorf("support sort: got %v first", ruleSet[0])
	}
}

// scenarioDataset builds the in-memory reference dataset.
func scenarioDataset(t *testing.T) *basket.Store {
	t.Helper()
	ds, err := basket.Load([]basket.Record{
		{TxID: "t1", Item: "a"}, {TxID: "t1", Item: "b"},
		{TxID: "t2", Item: "a"}, {TxID: "t2", Item: "b"}, {TxID: "t2", Item: "c"},
		{TxID: "t3", Item: "b"}, {TxID: "t3", Item: "c"},
		{TxID: "t4", Item: "a"}, {TxID: "t4", Item: "c"},
	})
	if err != nil {
		t.Fatalf("failed to build dataset: %v", err)
	}
	return ds
}
