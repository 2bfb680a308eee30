package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dbPath string

	// RootCmd is the root command for basketminer
	RootCmd = &cobra.Command{
		Use:   "basketminer",
		Short: "Market-basket analysis: frequent itemsets and association rules",
		Long: `basketminer imports transactional purchase data and mines it for
frequent itemsets and association rules.

Itemsets are enumerated with a vertical (tid-list intersection) miner;
rules are derived from the frequent itemsets and can be filtered by a
one-sided Fisher exact significance test and by maximality (dropping
rules implied by a more general rule).

Quick Start:
  1. basketminer load transactions.csv
  2. basketminer stats
  3. basketminer mine --min-support 0.05
  4. basketminer rules --min-support 0.05 --min-confidence 0.5

Examples:
  # Import a (transaction_id, item) CSV
  basketminer load transactions.csv

  # Explore the dataset
  basketminer stats --top 15

  # Mine frequent itemsets of 2-4 items
  basketminer mine --min-support 0.02 --min-len 2 --max-len 4

  # Significant, maximal rules only
  basketminer rules --alpha 0.01 --maximal

  # Re-mine whenever the input file changes
  basketminer watch transactions.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := getDBPath()
			fmt.Println("basketminer: market-basket itemset and rule mining")
			fmt.Println()
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Println("Run 'basketminer load <file>' to import a dataset.")
				fmt.Println("Run 'basketminer --help' for the full reference.")
			} else {
				fmt.Println("Tip: Run 'basketminer stats' to explore the loaded dataset.")
				fmt.Println("     Run 'basketminer rules' to mine association rules.")
				fmt.Println("     Run 'basketminer --help' for all commands.")
			}
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.basketminer/basketminer.db)")

	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// getDBPath returns the database path, using the flag value or default
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	dir := filepath.Join(home, ".basketminer")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create basketminer directory: %w", err)
	}

	return filepath.Join(dir, "basketminer.db"), nil
}
