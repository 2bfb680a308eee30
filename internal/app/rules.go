package app

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shelfline/basketminer/internal/basket"
	"github.com/shelfline/basketminer/internal/miner"
	"github.com/shelfline/basketminer/internal/output"
	"github.com/shelfline/basketminer/internal/rules"
	"github.com/shelfline/basketminer/internal/store"
	"github.com/spf13/cobra"
)

var (
	rulesMinSupport    float64
	rulesMinConfidence float64
	rulesMinLen        int
	rulesMaxLen        int
	rulesAlpha         float64
	rulesAdjust        string
	rulesMaximal       bool
	rulesSort          string
	rulesLimit         int
	rulesSave          bool

	rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "Mine association rules",
		Long: `Run the full pipeline: mine frequent itemsets, derive association
rules meeting the confidence threshold, then filter.

Each rule LHS => RHS carries:
  support     fraction of transactions containing LHS and RHS together
  confidence  support(LHS u RHS) / support(LHS)
  lift        confidence / support(RHS); above 1 means positive association
  coverage    support(LHS)

With --alpha > 0, rules whose one-sided Fisher exact p-value is not
below alpha are dropped (the null hypothesis being that LHS and RHS
occur independently). --adjust bonferroni divides alpha by the number
of rules tested. With --maximal, rules implied by a more general rule
that is at least as strong are dropped.`,
		Example: `  # Rules with defaults (support 0.1, confidence 0.5)
  basketminer rules

  # Lower thresholds, significance-filtered at alpha 0.01
  basketminer rules --min-support 0.02 --min-confidence 0.3 --alpha 0.01

  # Bonferroni-corrected, maximal rules only, sorted by lift
  basketminer rules --alpha 0.05 --adjust bonferroni --maximal --sort lift`,
		RunE: runRules,
	}
)

func init() {
	rulesCmd.Flags().Float64Var(&rulesMinSupport, "min-support", 0.1, "minimum support ratio (0-1)")
	rulesCmd.Flags().Float64Var(&rulesMinConfidence, "min-confidence", 0.5, "minimum confidence (0-1)")
	rulesCmd.Flags().IntVar(&rulesMinLen, "min-len", 2, "minimum itemset size for rule derivation")
	rulesCmd.Flags().IntVar(&rulesMaxLen, "max-len", 8, "maximum itemset size")
	rulesCmd.Flags().Float64Var(&rulesAlpha, "alpha", 0, "significance level for the Fisher exact filter (0 disables)")
	rulesCmd.Flags().StringVar(&rulesAdjust, "adjust", "none", "multiple-testing adjustment: none, bonferroni")
	rulesCmd.Flags().BoolVar(&rulesMaximal, "maximal", false, "drop rules implied by a more general rule")
	rulesCmd.Flags().StringVar(&rulesSort, "sort", "confidence", "sort by: confidence, lift, support")
	rulesCmd.Flags().IntVar(&rulesLimit, "limit", 0, "show at most N rules (0 = all)")
	rulesCmd.Flags().BoolVar(&rulesSave, "save", false, "save the run to the database")

	RootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, args []string) error {
	if err := validateRatio("min-support", rulesMinSupport); err != nil {
		return err
	}
	if err := validateRatio("min-confidence", rulesMinConfidence); err != nil {
		return err
	}
	if err := validateRatio("alpha", rulesAlpha); err != nil {
		return err
	}
	adjust, err := rules.ParseAdjustment(rulesAdjust)
	if err != nil {
		return err
	}
	if rulesSort != "confidence" && rulesSort != "lift" && rulesSort != "support" {
		return fmt.Errorf("invalid sort: %s (must be confidence, lift, or support)", rulesSort)
	}
	if rulesLimit < 0 {
		return fmt.Errorf("invalid --limit value %d", rulesLimit)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ds, err := loadDataset(st)
	if err != nil {
		return err
	}

	ruleSet, itemsetCount, err := minePipeline(ds)
	if err != nil {
		return err
	}

	sortRules(ruleSet, rulesSort)

	shown := ruleSet
	if rulesLimit > 0 && len(shown) > rulesLimit {
		shown = shown[:rulesLimit]
	}
	fmt.Print(output.RenderRuleTable(shown, rulesAlpha > 0))
	fmt.Println()
	if len(shown) < len(ruleSet) {
		fmt.Printf("Showing %d of %d rules (--limit %d)\n", len(shown), len(ruleSet), rulesLimit)
	}
	fmt.Printf("%d rules from %d frequent itemsets (min-confidence %.2f", len(ruleSet), itemsetCount, rulesMinConfidence)
	if rulesAlpha > 0 {
		fmt.Printf(", alpha %.3f/%s", rulesAlpha, adjust)
	}
	if rulesMaximal {
		fmt.Print(", maximal only")
	}
	fmt.Println(")")

	if rulesSave {
		runID, err := st.SaveRun(&store.Run{
			CreatedAt:     time.Now(),
			Kind:          "rules",
			MinSupport:    rulesMinSupport,
			MinConfidence: rulesMinConfidence,
			MinLen:        rulesMinLen,
			MaxLen:        rulesMaxLen,
			Alpha:         rulesAlpha,
		}, nil, ruleSet)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Printf("Saved as run %d\n", runID)
	}

	return nil
}

// minePipeline mines itemsets, derives rules, and applies the configured
// filters. Shared by the rules and watch commands.
func minePipeline(ds *basket.Store) ([]rules.Rule, int, error) {
	itemsets := miner.Mine(ds, rulesMinSupport, 1, rulesMaxLen)

	ruleSet := rules.Generate(itemsets, rulesMinConfidence, rulesMinLen)
	if len(ruleSet) == 0 {
		return nil, len(itemsets), nil
	}

	if rulesAlpha > 0 {
		// The exact test scans the dataset once per rule.
		spinner := output.NewSpinner("Testing rule significance")
		spinner.Start()
		filtered, err := rules.FilterSignificant(ruleSet, ds, rulesAlpha, rules.Adjustment(rulesAdjust))
		spinner.Stop()
		if err != nil && !errors.Is(err, rules.ErrEmptyRuleSet) {
			return nil, len(itemsets), err
		}
		ruleSet = filtered
	}

	if rulesMaximal && len(ruleSet) > 0 {
		filtered, err := rules.FilterMaximal(ruleSet)
		if err != nil && !errors.Is(err, rules.ErrEmptyRuleSet) {
			return nil, len(itemsets), err
		}
		ruleSet = filtered
	}
	return ruleSet, len(itemsets), nil
}

// sortRules orders rules for display.
func sortRules(ruleSet []rules.Rule, sortBy string) {
	switch sortBy {
	case "confidence":
		sort.SliceStable(ruleSet, func(i, j int) bool {
			if ruleSet[i].Confidence != ruleSet[j].Confidence {
				return ruleSet[i].Confidence > ruleSet[j].Confidence
			}
			return ruleSet[i].String() < ruleSet[j].String()
		})
	case "lift":
		sort.SliceStable(ruleSet, func(i, j int) bool {
			if ruleSet[i].Lift != ruleSet[j].Lift {
				return ruleSet[i].Lift > ruleSet[j].Lift
			}
			return ruleSet[i].String() < ruleSet[j].String()
		})
	case "support":
		sort.SliceStable(ruleSet, func(i, j int) bool {
			if ruleSet[i].Support != ruleSet[j].Support {
				return ruleSet[i].Support > ruleSet[j].Support
			}
			return ruleSet[i].String() < ruleSet[j].String()
		})
	}
}
