// Package basket holds the in-memory transaction dataset that mining
// operates on. A dataset is loaded once from raw (transaction id, item)
// records and is immutable afterwards: the mining passes only read it.
package basket

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidInput indicates malformed load data, such as an empty item
// label or an empty transaction id. Load errors are fatal; there is no
// partial load.
var ErrInvalidInput = errors.New("invalid input record")

// Record is a single raw input row: one item purchased in one transaction.
type Record struct {
	TxID string
	Item string
}

// Transaction is one basket: a transaction id and its distinct items,
// sorted lexicographically.
type Transaction struct {
	ID    string
	Items []string
}

// Has reports whether the transaction contains the given item.
func (t Transaction) Has(item string) bool {
	i := sort.SearchStrings(t.Items, item)
	return i < len(t.Items) && t.Items[i] == item
}

// Store is the loaded transaction dataset. Transaction order follows
// first appearance in the input; items within a transaction are
// deduplicated and sorted.
type Store struct {
	txs   []Transaction
	vocab []string
}

// Load groups raw records into transactions. Items are deduplicated per
// transaction. A record with an empty transaction id or an empty item
// label fails the whole load with ErrInvalidInput.
func Load(records []Record) (*Store, error) {
	order := make([]string, 0)
	items := make(map[string]map[string]bool)

	for i, rec := range records {
		if rec.TxID == "" {
			return nil, fmt.Errorf("record %d: empty transaction id: %w", i, ErrInvalidInput)
		}
		if rec.Item == "" {
			return nil, fmt.Errorf("record %d (transaction %s): empty item label: %w", i, rec.TxID, ErrInvalidInput)
		}

		set, ok := items[rec.TxID]
		if !ok {
			set = make(map[string]bool)
			items[rec.TxID] = set
			order = append(order, rec.TxID)
		}
		set[rec.Item] = true
	}

	st := &Store{txs: make([]Transaction, 0, len(order))}
	vocab := make(map[string]bool)

	for _, id := range order {
		tx := Transaction{ID: id, Items: make([]string, 0, len(items[id]))}
		for item := range items[id] {
			tx.Items = append(tx.Items, item)
			vocab[item] = true
		}
		sort.Strings(tx.Items)
		st.txs = append(st.txs, tx)
	}

	st.vocab = make([]string, 0, len(vocab))
	for item := range vocab {
		st.vocab = append(st.vocab, item)
	}
	sort.Strings(st.vocab)

	return st, nil
}

// Size returns the number of transactions.
func (s *Store) Size() int {
	return len(s.txs)
}

// Items returns the sorted item vocabulary.
func (s *Store) Items() []string {
	return s.vocab
}

// Transactions returns the transactions in load order.
func (s *Store) Transactions() []Transaction {
	return s.txs
}

// ItemFrequency returns the support ratio of the single-item itemset
// {item}: the fraction of transactions containing it. Returns 0 for an
// unknown item or an empty store.
func (s *Store) ItemFrequency(item string) float64 {
	if len(s.txs) == 0 {
		return 0
	}
	count := 0
	for _, tx := range s.txs {
		if tx.Has(item) {
			count++
		}
	}
	return float64(count) / float64(len(s.txs))
}

// CountContaining returns the number of transactions that contain every
// item in the given set. The significance filter uses it to build
// contingency tables.
func (s *Store) CountContaining(items []string) int {
	count := 0
	for _, tx := range s.txs {
		all := true
		for _, item := range items {
			if !tx.Has(item) {
				all = false
				break
			}
		}
		if all {
			count++
		}
	}
	return count
}
