package store

import "time"

// Import records the provenance of one dataset load.
type Import struct {
	ID         int64
	Source     string
	ImportedAt time.Time
	RowCount   int
	TxCount    int
	ItemCount  int
}

// Run is a saved mining run with its parameters and result counts.
type Run struct {
	ID            int64
	CreatedAt     time.Time
	Kind          string // "mine" or "rules"
	MinSupport    float64
	MinConfidence float64
	MinLen        int
	MaxLen        int
	Alpha         float64
	ItemsetCount  int
	RuleCount     int
}

// ItemCount pairs an item label with the number of transactions
// containing it.
type ItemCount struct {
	Item  string
	Count int
}
