package app

import (
	"fmt"

	"github.com/shelfline/basketminer/internal/basket"
	"github.com/shelfline/basketminer/internal/store"
)

// openStore opens the database at the configured path.
func openStore() (*store.Store, error) {
	path, err := getDBPath()
	if err != nil {
		return nil, err
	}
	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return st, nil
}

// loadDataset reads the stored transaction records into an in-memory
// basket store for mining.
func loadDataset(st *store.Store) (*basket.Store, error) {
	records, err := st.LoadRecords()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no transactions loaded; run 'basketminer load <file>' first")
	}
	ds, err := basket.Load(records)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction store: %w", err)
	}
	return ds, nil
}

// validateRatio checks a [0,1] threshold flag.
func validateRatio(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("invalid --%s value %v (must be between 0 and 1)", name, v)
	}
	return nil
}
