package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/shelfline/basketminer/internal/basket"
	"github.com/shelfline/basketminer/internal/miner"
	"github.com/shelfline/basketminer/internal/rules"
)

func testRecords() []basket.Record {
	return []basket.Record{
		{TxID: "t1", Item: "a"}, {TxID: "t1", Item: "b"},
		{TxID: "t2", Item: "a"}, {TxID: "t2", Item: "b"}, {TxID: "t2", Item: "c"},
		{TxID: "t3", Item: "b"}, {TxID: "t3", Item: "c"},
		{TxID: "t4", Item: "a"}, {TxID: "t4", Item: "c"},
	}
}

func TestReplaceAndLoadRecords(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	if err := s.ReplaceTransactions(testRecords()); err != nil {
		t.Fatalf("ReplaceTransactions failed: %v", err)
	}

	records, err := s.LoadRecords()
	if err != nil {
		t.Fatalf("LoadRecords failed: %v", err)
	}
	if !reflect.DeepEqual(records, testRecords()) {
		t.Errorf("round trip mismatch: got %v", records)
	}

	// Replace clears previous contents.
	if err := s.ReplaceTransactions([]basket.Record{{TxID: "x", Item: "y"}}); err != nil {
		t.Fatalf("second ReplaceTransactions failed: %v", err)
	}
	n, err := s.RowCount()
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row after replace, got %d", n)
	}
}

func TestAppendTransactions(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	if err := s.ReplaceTransactions(testRecords()); err != nil {
		t.Fatalf("ReplaceTransactions failed: %v", err)
	}
	if err := s.AppendTransactions([]basket.Record{{TxID: "t5", Item: "a"}}); err != nil {
		t.Fatalf("AppendTransactions failed: %v", err)
	}

	n, err := s.TransactionCount()
	if err != nil {
		t.Fatalf("TransactionCount failed: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 transactions, got %d", n)
	}

	// Duplicate pairs collapse via the primary key.
	if err := s.AppendTransactions([]basket.Record{{TxID: "t5", Item: "a"}}); err != nil {
		t.Fatalf("duplicate append failed: %v", err)
	}
	rows, err := s.RowCount()
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if rows != 10 {
		t.Errorf("expected 10 rows after duplicate append, got %d", rows)
	}
}

func TestCounts(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	if err := s.ReplaceTransactions(testRecords()); err != nil {
		t.Fatalf("ReplaceTransactions failed: %v", err)
	}

	tx, err := s.TransactionCount()
	if err != nil {
		t.Fatalf("TransactionCount failed: %v", err)
	}
	if tx != 4 {
		t.Errorf("TransactionCount: got %d, want 4", tx)
	}

	items, err := s.ItemCountDistinct()
	if err != nil {
		t.Fatalf("ItemCountDistinct failed: %v", err)
	}
	if items != 3 {
		t.Errorf("ItemCountDistinct: got %d, want 3", items)
	}

	rows, err := s.RowCount()
	if err != nil {
		t.Fatalf("RowCount failed: %v", err)
	}
	if rows != 9 {
		t.Errorf("RowCount: got %d, want 9", rows)
	}
}

func TestBasketSizeDistribution(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	if err := s.ReplaceTransactions(testRecords()); err != nil {
		t.Fatalf("ReplaceTransactions failed: %v", err)
	}

	dist, err := s.BasketSizeDistribution()
	if err != nil {
		t.Fatalf("BasketSizeDistribution failed: %v", err)
	}
	// Three baskets of 2 items, one of 3.
	want := map[int]int{2: 3, 3: 1}
	if !reflect.DeepEqual(dist, want) {
		t.Errorf("got %v, want %v", dist, want)
	}
}

func TestTopItems(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	if err := s.ReplaceTransactions(testRecords()); err != nil {
		t.Fatalf("ReplaceTransactions failed: %v", err)
	}

	top, err := s.TopItems(2)
	if err != nil {
		t.Fatalf("TopItems failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 items, got %d", len(top))
	}
	// All three items appear in 3 transactions; alphabetical tie-break.
	if top[0].Item != "a" || top[0].Count != 3 {
		t.Errorf("top item: got %+v, want a/3", top[0])
	}
	if top[1].Item != "b" {
		t.Errorf("second item: got %s, want b", top[1].Item)
	}
}

func TestImports(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	latest, err := s.LatestImport()
	if err != nil {
		t.Fatalf("LatestImport failed: %v", err)
	}
	if latest != nil {
		t.Errorf("expected nil for no imports, got %+v", latest)
	}

	imp := &Import{
		Source:     "transactions.csv",
		ImportedAt: time.Now(),
		RowCount:   9,
		TxCount:    4,
		ItemCount:  3,
	}
	if _, err := s.RecordImport(imp); err != nil {
		t.Fatalf("RecordImport failed: %v", err)
	}

	latest, err = s.LatestImport()
	if err != nil {
		t.Fatalf("LatestImport failed: %v", err)
	}
	if latest == nil {
		t.Fatal("expected an import record")
	}
	if latest.Source != "transactions.csv" || latest.TxCount != 4 {
		t.Errorf("unexpected import: %+v", latest)
	}
}

func TestSaveAndListRuns(t *testing.T) {
	s := setupTestStore(t)
	defer s.Close()

	itemsets := []miner.Itemset{
		{Items: []string{"a", "b"}, Count: 2, Support: 0.5},
	}
	ruleSet := []rules.Rule{
		{LHS: []string{"a"}, RHS: []string{"b"}, Support: 0.5, Confidence: 0.667, Lift: 0.889, Coverage: 0.75},
	}

	runID, err := s.SaveRun(&Run{
		CreatedAt:     time.Now(),
		Kind:          "rules",
		MinSupport:    0.5,
		MinConfidence: 0.5,
		MinLen:        2,
		MaxLen:        3,
		Alpha:         0.05,
	}, itemsets, ruleSet)
	if err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}
	if runID == 0 {
		t.Error("expected non-zero run id")
	}

	runs, err := s.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.Kind != "rules" || run.ItemsetCount != 1 || run.RuleCount != 1 {
		t.Errorf("unexpected run: %+v", run)
	}
	if run.MinSupport != 0.5 || run.Alpha != 0.05 {
		t.Errorf("run parameters not persisted: %+v", run)
	}
}
