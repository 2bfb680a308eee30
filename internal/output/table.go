// Package output provides terminal output utilities for basketminer.
//
// This package includes:
//   - Table rendering for frequent itemsets, association rules, and item frequencies
//   - An ASCII histogram for the basket-size distribution
//   - Progress indicators for long-running mining passes
//
// All rendering uses ASCII characters plus ANSI color codes, with color
// gated behind a TTY check and the NO_COLOR convention.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/shelfline/basketminer/internal/miner"
	"github.com/shelfline/basketminer/internal/rules"
	"github.com/shelfline/basketminer/internal/store"
)

// ANSI color codes used for lift direction in rule tables.
const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled,
// otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// RenderItemsetTable renders mined itemsets. Expects the slice to be
// pre-sorted by the caller.
func RenderItemsetTable(itemsets []miner.Itemset) string {
	if len(itemsets) == 0 {
		return "No frequent itemsets found.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-44s %-6s %-8s %s\n", "Itemset", "Size", "Count", "Support"))
	sb.WriteString(strings.Repeat("─", 70))
	sb.WriteString("\n")

	for _, is := range itemsets {
		label := strings.Join(is.Items, ", ")
		sb.WriteString(fmt.Sprintf("%-44s %-6d %-8d %s\n",
			truncate(label, 44),
			len(is.Items),
			is.Count,
			formatRatio(is.Support)))
	}

	return sb.String()
}

// RenderRuleTable renders association rules. When showPValue is set, a
// p-value column is included (rules that passed the significance filter
// carry one). Expects the slice to be pre-sorted by the caller.
func RenderRuleTable(ruleSet []rules.Rule, showPValue bool) string {
	if len(ruleSet) == 0 {
		return "No rules found.\n"
	}

	var sb strings.Builder

	if showPValue {
		sb.WriteString(fmt.Sprintf("%-44s %-9s %-7s %-7s %-9s %s\n",
			"Rule", "Support", "Conf", "Lift", "Coverage", "p-value"))
		sb.WriteString(strings.Repeat("─", 88))
	} else {
		sb.WriteString(fmt.Sprintf("%-44s %-9s %-7s %-7s %s\n",
			"Rule", "Support", "Conf", "Lift", "Coverage"))
		sb.WriteString(strings.Repeat("─", 78))
	}
	sb.WriteString("\n")

	for _, r := range ruleSet {
		lift := fmt.Sprintf("%.3f", r.Lift)
		// Lift above 1 means the items co-occur more than independence
		// predicts; below 1 means they repel each other.
		switch {
		case r.Lift > 1:
			lift = colorize(colorGreen, lift)
		case r.Lift < 1:
			lift = colorize(colorRed, lift)
		}

		row := fmt.Sprintf("%-44s %-9s %-7s %-7s %-9s",
			truncate(r.String(), 44),
			formatRatio(r.Support),
			fmt.Sprintf("%.3f", r.Confidence),
			lift,
			formatRatio(r.Coverage))
		if showPValue {
			row += fmt.Sprintf(" %s", formatPValue(r.PValue))
		}
		sb.WriteString(row)
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderBasketHistogram renders the basket-size distribution as ASCII
// bars, one row per size.
func RenderBasketHistogram(dist map[int]int) string {
	if len(dist) == 0 {
		return "No transactions loaded.\n"
	}

	sizes := make([]int, 0, len(dist))
	maxCount := 0
	for size, count := range dist {
		sizes = append(sizes, size)
		if count > maxCount {
			maxCount = count
		}
	}
	sort.Ints(sizes)

	const barWidth = 40

	var sb strings.Builder
	sb.WriteString("Basket size distribution:\n")
	for _, size := range sizes {
		count := dist[size]
		bar := barWidth * count / maxCount
		if bar == 0 && count > 0 {
			bar = 1
		}
		sb.WriteString(fmt.Sprintf("  %3d items │%-40s %d\n",
			size, strings.Repeat("█", bar), count))
	}

	return sb.String()
}

// RenderTopItems renders the most frequent items with their support,
// relative to total transactions.
func RenderTopItems(items []store.ItemCount, totalTx int) string {
	if len(items) == 0 {
		return "No items found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-30s %-8s %s\n", "Item", "Count", "Support"))
	sb.WriteString(strings.Repeat("─", 48))
	sb.WriteString("\n")

	for _, ic := range items {
		support := 0.0
		if totalTx > 0 {
			support = float64(ic.Count) / float64(totalTx)
		}
		sb.WriteString(fmt.Sprintf("%-30s %-8d %s\n",
			truncate(ic.Item, 30), ic.Count, formatRatio(support)))
	}

	return sb.String()
}

// RenderRunTable renders saved mining runs, most recent first.
func RenderRunTable(runs []store.Run) string {
	if len(runs) == 0 {
		return "No saved runs. Use --save with mine or rules.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-5s %-20s %-6s %-9s %-9s %-9s %-9s %s\n",
		"ID", "Created", "Kind", "MinSupp", "MinConf", "Itemsets", "Rules", "Alpha"))
	sb.WriteString(strings.Repeat("─", 84))
	sb.WriteString("\n")

	for _, run := range runs {
		alpha := "—"
		if run.Alpha > 0 {
			alpha = fmt.Sprintf("%.3f", run.Alpha)
		}
		minConf := "—"
		if run.Kind == "rules" {
			minConf = fmt.Sprintf("%.2f", run.MinConfidence)
		}
		sb.WriteString(fmt.Sprintf("%-5d %-20s %-6s %-9s %-9s %-9d %-9d %s\n",
			run.ID,
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Kind,
			fmt.Sprintf("%.2f", run.MinSupport),
			minConf,
			run.ItemsetCount,
			run.RuleCount,
			alpha))
	}

	return sb.String()
}

// formatRatio renders a support-style ratio as a percentage with one
// decimal, e.g. 0.5 -> "50.0%".
func formatRatio(r float64) string {
	return fmt.Sprintf("%.1f%%", r*100)
}

// formatPValue renders a p-value compactly, switching to scientific
// notation for very small values.
func formatPValue(p float64) string {
	if p == 0 {
		return "<1e-16"
	}
	if p < 0.001 {
		return fmt.Sprintf("%.2e", p)
	}
	return fmt.Sprintf("%.4f", p)
}

// truncate shortens a string to maxLen, appending "..." when cut.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
