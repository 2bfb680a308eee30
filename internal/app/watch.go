package app

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shelfline/basketminer/internal/basket"
	"github.com/shelfline/basketminer/internal/output"
	"github.com/shelfline/basketminer/internal/rules"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-mine rules whenever the transaction file changes",
	Long: `Watch a transaction file and re-run the rules pipeline on every change.

The file is re-imported and re-mined after each write, using the same
flags as the rules command. Writes are debounced so tools that save in
several steps trigger a single run. Stop with Ctrl-C.

Note: the watch does not persist anything; use 'basketminer load' plus
'basketminer rules --save' to record a run.`,
	Example: `  # Live view while a transaction export keeps growing
  basketminer watch transactions.csv --min-support 0.02 --alpha 0.01`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	// The pipeline flags are shared with the rules command.
	watchCmd.Flags().Float64Var(&rulesMinSupport, "min-support", 0.1, "minimum support ratio (0-1)")
	watchCmd.Flags().Float64Var(&rulesMinConfidence, "min-confidence", 0.5, "minimum confidence (0-1)")
	watchCmd.Flags().IntVar(&rulesMinLen, "min-len", 2, "minimum itemset size for rule derivation")
	watchCmd.Flags().IntVar(&rulesMaxLen, "max-len", 8, "maximum itemset size")
	watchCmd.Flags().Float64Var(&rulesAlpha, "alpha", 0, "significance level for the Fisher exact filter (0 disables)")
	watchCmd.Flags().StringVar(&rulesAdjust, "adjust", "none", "multiple-testing adjustment: none, bonferroni")
	watchCmd.Flags().BoolVar(&rulesMaximal, "maximal", false, "drop rules implied by a more general rule")
	watchCmd.Flags().StringVar(&rulesSort, "sort", "confidence", "sort by: confidence, lift, support")
	watchCmd.Flags().IntVar(&rulesLimit, "limit", 20, "show at most N rules (0 = all)")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := validateRatio("min-support", rulesMinSupport); err != nil {
		return err
	}
	if err := validateRatio("min-confidence", rulesMinConfidence); err != nil {
		return err
	}
	if err := validateRatio("alpha", rulesAlpha); err != nil {
		return err
	}
	if _, err := rules.ParseAdjustment(rulesAdjust); err != nil {
		return err
	}

	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors and exporters commonly
	// replace the file, which would drop a watch on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target := filepath.Base(path)

	fmt.Printf("Watching %s (Ctrl-C to stop)\n\n", path)
	if err := watchRemine(path); err != nil {
		fmt.Fprintf(os.Stderr, "watch: %v\n", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Debounce timer: multi-step saves (write + rename) collapse into
	// one re-mine.
	var debounce *time.Timer
	debounced := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(500*time.Millisecond, func() {
				select {
				case debounced <- struct{}{}:
				default:
				}
			})

		case <-debounced:
			fmt.Printf("── %s changed at %s ──\n\n", target, time.Now().Format("15:04:05"))
			if err := watchRemine(path); err != nil {
				fmt.Fprintf(os.Stderr, "watch: %v\n", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch: %v\n", err)

		case <-sigCh:
			fmt.Println("\nStopping watch.")
			return nil
		}
	}
}

// watchRemine re-imports the file in memory and runs the rules pipeline.
func watchRemine(path string) error {
	records, err := basket.ReadFile(path, basket.ReadOptions{Delimiter: ','})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s: no records found", path)
	}

	ds, err := basket.Load(records)
	if err != nil {
		return err
	}

	ruleSet, itemsetCount, err := minePipeline(ds)
	if err != nil {
		return err
	}

	sortRules(ruleSet, rulesSort)
	if rulesLimit > 0 && len(ruleSet) > rulesLimit {
		ruleSet = ruleSet[:rulesLimit]
	}

	fmt.Printf("%d transactions, %d frequent itemsets\n", ds.Size(), itemsetCount)
	fmt.Print(output.RenderRuleTable(ruleSet, rulesAlpha > 0))
	fmt.Println()
	return nil
}
