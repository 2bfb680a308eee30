package app

import (
	"fmt"

	"github.com/shelfline/basketminer/internal/output"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List saved mining runs",
	Long: `List mining runs saved with --save, most recent first, with their
parameters and result counts.`,
	RunE: runRuns,
}

func init() {
	RootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns()
	if err != nil {
		return err
	}

	fmt.Print(output.RenderRunTable(runs))
	return nil
}
