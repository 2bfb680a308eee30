package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shelfline/basketminer/internal/basket"
	"github.com/shelfline/basketminer/internal/miner"
	"github.com/shelfline/basketminer/internal/rules"
)

// Dataset operations

// ReplaceTransactions clears the dataset and inserts the given records in
// a single SQL transaction. Duplicate (tx_id, item) pairs collapse via
// the primary key.
func (s *Store) ReplaceTransactions(records []basket.Record) error {
	return s.insertTransactions(records, true)
}

// AppendTransactions inserts records without clearing existing ones.
func (s *Store) AppendTransactions(records []basket.Record) error {
	return s.insertTransactions(records, false)
}

// ClearTransactions deletes the stored dataset. Used by replace-mode
// imports that insert in chunks.
func (s *Store) ClearTransactions() error {
	if _, err := s.db.Exec("DELETE FROM transactions"); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	return nil
}

func (s *Store) insertTransactions(records []basket.Record, replace bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if replace {
		if _, err := tx.Exec("DELETE FROM transactions"); err != nil {
			return fmt.Errorf("failed to clear transactions: %w", err)
		}
	}

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO transactions (tx_id, item) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.TxID, rec.Item); err != nil {
			return fmt.Errorf("failed to insert record (%s, %s): %w", rec.TxID, rec.Item, err)
		}
	}

	return tx.Commit()
}

// LoadRecords returns the stored dataset in insertion order, ready for
// basket.Load.
func (s *Store) LoadRecords() ([]basket.Record, error) {
	rows, err := s.db.Query("SELECT tx_id, item FROM transactions ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var records []basket.Record
	for rows.Next() {
		var rec basket.Record
		if err := rows.Scan(&rec.TxID, &rec.Item); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// TransactionCount returns the number of distinct transactions.
func (s *Store) TransactionCount() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(DISTINCT tx_id) FROM transactions").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

// ItemCountDistinct returns the vocabulary size.
func (s *Store) ItemCountDistinct() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(DISTINCT item) FROM transactions").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

// RowCount returns the number of stored (tx_id, item) pairs.
func (s *Store) RowCount() (int, error) {
	var n int
	err := s.db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return n, nil
}

// BasketSizeDistribution returns a histogram of transaction sizes:
// basket size -> number of transactions of that size.
func (s *Store) BasketSizeDistribution() (map[int]int, error) {
	rows, err := s.db.Query(`
		SELECT size, COUNT(*) FROM
			(SELECT COUNT(*) AS size FROM transactions GROUP BY tx_id)
		GROUP BY size ORDER BY size
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query basket sizes: %w", err)
	}
	defer rows.Close()

	dist := make(map[int]int)
	for rows.Next() {
		var size, count int
		if err := rows.Scan(&size, &count); err != nil {
			return nil, fmt.Errorf("failed to scan basket size: %w", err)
		}
		dist[size] = count
	}
	return dist, rows.Err()
}

// TopItems returns the n most frequent items with the number of
// transactions each appears in.
func (s *Store) TopItems(n int) ([]ItemCount, error) {
	rows, err := s.db.Query(`
		SELECT item, COUNT(DISTINCT tx_id) AS cnt FROM transactions
		GROUP BY item ORDER BY cnt DESC, item ASC LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query top items: %w", err)
	}
	defer rows.Close()

	var out []ItemCount
	for rows.Next() {
		var ic ItemCount
		if err := rows.Scan(&ic.Item, &ic.Count); err != nil {
			return nil, fmt.Errorf("failed to scan item count: %w", err)
		}
		out = append(out, ic)
	}
	return out, rows.Err()
}

// Import provenance

// RecordImport saves the provenance of a dataset load and returns its id.
func (s *Store) RecordImport(imp *Import) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO imports (source, imported_at, row_count, tx_count, item_count)
		VALUES (?, ?, ?, ?, ?)
	`, imp.Source, imp.ImportedAt.Format(time.RFC3339), imp.RowCount, imp.TxCount, imp.ItemCount)
	if err != nil {
		return 0, fmt.Errorf("failed to record import: %w", err)
	}
	return res.LastInsertId()
}

// LatestImport returns the most recent import, or nil if none exists.
func (s *Store) LatestImport() (*Import, error) {
	var imp Import
	var importedAt string
	err := s.db.QueryRow(`
		SELECT id, source, imported_at, row_count, tx_count, item_count
		FROM imports ORDER BY id DESC LIMIT 1
	`).Scan(&imp.ID, &imp.Source, &importedAt, &imp.RowCount, &imp.TxCount, &imp.ItemCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest import: %w", err)
	}

	imp.ImportedAt, err = time.Parse(time.RFC3339, importedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse imported_at: %w", err)
	}
	return &imp, nil
}

// Mining runs

// SaveRun persists a mining run with its itemsets and rules, returning
// the run id.
func (s *Store) SaveRun(run *Run, itemsets []miner.Itemset, ruleSet []rules.Rule) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (created_at, kind, min_support, min_confidence, min_len, max_len, alpha, itemset_count, rule_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.CreatedAt.Format(time.RFC3339), run.Kind, run.MinSupport, run.MinConfidence,
		run.MinLen, run.MaxLen, run.Alpha, len(itemsets), len(ruleSet))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for _, is := range itemsets {
		_, err := tx.Exec(`
			INSERT INTO run_itemsets (run_id, items, size, support_count, support)
			VALUES (?, ?, ?, ?, ?)
		`, runID, strings.Join(is.Items, ", "), len(is.Items), is.Count, is.Support)
		if err != nil {
			return 0, fmt.Errorf("failed to insert itemset: %w", err)
		}
	}

	for _, r := range ruleSet {
		_, err := tx.Exec(`
			INSERT INTO run_rules (run_id, lhs, rhs, support, confidence, lift, coverage, p_value)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, strings.Join(r.LHS, ", "), strings.Join(r.RHS, ", "),
			r.Support, r.Confidence, r.Lift, r.Coverage, r.PValue)
		if err != nil {
			return 0, fmt.Errorf("failed to insert rule: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns saved runs, most recent first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, kind, min_support, min_confidence, min_len, max_len, alpha, itemset_count, rule_count
		FROM runs ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		var createdAt string
		if err := rows.Scan(&run.ID, &createdAt, &run.Kind, &run.MinSupport, &run.MinConfidence,
			&run.MinLen, &run.MaxLen, &run.Alpha, &run.ItemsetCount, &run.RuleCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
