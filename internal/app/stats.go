package app

import (
	"fmt"

	"github.com/shelfline/basketminer/internal/output"
	"github.com/spf13/cobra"
)

var (
	statsTop int

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Show dataset statistics",
		Long: `Show exploratory statistics for the loaded dataset: transaction and
item counts, the basket-size distribution, and the most frequent items.`,
		Example: `  # Dataset summary with the default top-10 items
  basketminer stats

  # Show the 25 most frequent items
  basketminer stats --top 25`,
		RunE: runStats,
	}
)

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 10, "number of top items to show")

	RootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	if statsTop < 1 {
		return fmt.Errorf("invalid --top value %d (must be >= 1)", statsTop)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	txCount, err := st.TransactionCount()
	if err != nil {
		return err
	}
	if txCount == 0 {
		fmt.Println("No transactions loaded. Run 'basketminer load <file>' first.")
		return nil
	}

	itemCount, err := st.ItemCountDistinct()
	if err != nil {
		return err
	}
	rowCount, err := st.RowCount()
	if err != nil {
		return err
	}

	fmt.Printf("Transactions:   %d\n", txCount)
	fmt.Printf("Distinct items: %d\n", itemCount)
	fmt.Printf("Rows:           %d\n", rowCount)
	fmt.Printf("Mean basket:    %.2f items\n", float64(rowCount)/float64(txCount))

	if imp, err := st.LatestImport(); err == nil && imp != nil {
		fmt.Printf("Last import:    %s (%s)\n", imp.Source, imp.ImportedAt.Format("2006-01-02 15:04"))
	}
	fmt.Println()

	dist, err := st.BasketSizeDistribution()
	if err != nil {
		return err
	}
	fmt.Print(output.RenderBasketHistogram(dist))
	fmt.Println()

	top, err := st.TopItems(statsTop)
	if err != nil {
		return err
	}
	fmt.Print(output.RenderTopItems(top, txCount))

	return nil
}
