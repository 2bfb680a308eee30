package app

import (
	"fmt"
	"sort"
	"time"

	"github.com/shelfline/basketminer/internal/miner"
	"github.com/shelfline/basketminer/internal/output"
	"github.com/shelfline/basketminer/internal/store"
	"github.com/spf13/cobra"
)

var (
	mineMinSupport float64
	mineMinLen     int
	mineMaxLen     int
	mineSort       string
	mineLimit      int
	mineSave       bool

	mineCmd = &cobra.Command{
		Use:   "mine",
		Short: "Mine frequent itemsets",
		Long: `Enumerate all itemsets meeting the minimum support threshold, within
the given size range.

The miner is vertical: each item maps to the list of transactions
containing it, candidates grow by tid-list intersection, and any
candidate below the support threshold is pruned together with all of
its extensions (no superset of an infrequent set can be frequent).

A --min-support of 0 enumerates every itemset occurring in the data up
to --max-len, which can be combinatorially large on wide baskets.`,
		Example: `  # Itemsets in at least 5% of transactions
  basketminer mine --min-support 0.05

  # Pairs and triples only, sorted by support
  basketminer mine --min-len 2 --max-len 3

  # Persist the result for later inspection
  basketminer mine --min-support 0.02 --save`,
		RunE: runMine,
	}
)

func init() {
	mineCmd.Flags().Float64Var(&mineMinSupport, "min-support", 0.1, "minimum support ratio (0-1)")
	mineCmd.Flags().IntVar(&mineMinLen, "min-len", 1, "minimum itemset size")
	mineCmd.Flags().IntVar(&mineMaxLen, "max-len", 8, "maximum itemset size")
	mineCmd.Flags().StringVar(&mineSort, "sort", "support", "sort by: support, size, items")
	mineCmd.Flags().IntVar(&mineLimit, "limit", 0, "show at most N itemsets (0 = all)")
	mineCmd.Flags().BoolVar(&mineSave, "save", false, "save the run to the database")

	RootCmd.AddCommand(mineCmd)
}

func runMine(cmd *cobra.Command, args []string) error {
	if err := validateRatio("min-support", mineMinSupport); err != nil {
		return err
	}
	if mineSort != "support" && mineSort != "size" && mineSort != "items" {
		return fmt.Errorf("invalid sort: %s (must be support, size, or items)", mineSort)
	}
	if mineLimit < 0 {
		return fmt.Errorf("invalid --limit value %d", mineLimit)
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

	spinner := output.NewSpinner("Mining frequent itemsets")
	spinner.Start()
	itemsets := miner.Mine(ds, mineMinSupport, mineMinLen, mineMaxLen)
	spinner.Stop()

	sortItemsets(itemsets, mineSort)

	shown := itemsets
	if mineLimit > 0 && len(shown) > mineLimit {
		shown = shown[:mineLimit]
	}
	fmt.Print(output.RenderItemsetTable(shown))
	fmt.Println()
	if len(shown) < len(itemsets) {
		fmt.Printf("Showing %d of %d itemsets (--limit %d)\n", len(shown), len(itemsets), mineLimit)
	}
	fmt.Printf("%d frequent itemsets (min-support %.3f, size %d-%d, %d transactions)\n",
		len(itemsets), mineMinSupport, mineMinLen, mineMaxLen, ds.Size())

	if mineSave {
		runID, err := st.SaveRun(&store.Run{
			CreatedAt:  time.Now(),
			Kind:       "mine",
			MinSupport: mineMinSupport,
			MinLen:     mineMinLen,
			MaxLen:     mineMaxLen,
		}, itemsets, nil)
		if err != nil {
			return fmt.Errorf("failed to save run: %w", err)
		}
		fmt.Printf("Saved as run %d\n", runID)
	}

	return nil
}

// sortItemsets orders itemsets for display. Mine returns size-then-lex
// order ("items"); support and size sorts fall back to that order on ties.
func sortItemsets(itemsets []miner.Itemset, sortBy string) {
	switch sortBy {
	case "support":
		sort.SliceStable(itemsets, func(i, j int) bool {
			if itemsets[i].Support != itemsets[j].Support {
				return itemsets[i].Support > itemsets[j].Support
			}
			return itemsets[i].Key() < itemsets[j].Key()
		})
	case "size":
		sort.SliceStable(itemsets, func(i, j int) bool {
			if len(itemsets[i].Items) != len(itemsets[j].Items) {
				return len(itemsets[i].Items) > len(itemsets[j].Items)
			}
			return itemsets[i].Support > itemsets[j].Support
		})
	case "items":
		// already in canonical order
	}
}
