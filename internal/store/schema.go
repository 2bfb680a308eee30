package store

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
    tx_id TEXT NOT NULL,
    item TEXT NOT NULL,
    PRIMARY KEY (tx_id, item)
);

CREATE TABLE IF NOT EXISTS imports (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    imported_at TIMESTAMP NOT NULL,
    row_count INTEGER,
    tx_count INTEGER,
    item_count INTEGER
);

CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL,
    kind TEXT NOT NULL,
    min_support REAL,
    min_confidence REAL,
    min_len INTEGER,
    max_len INTEGER,
    alpha REAL,
    itemset_count INTEGER,
    rule_count INTEGER
);

CREATE TABLE IF NOT EXISTS run_itemsets (
    run_id INTEGER NOT NULL,
    items TEXT NOT NULL,
    size INTEGER NOT NULL,
    support_count INTEGER NOT NULL,
    support REAL NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS run_rules (
    run_id INTEGER NOT NULL,
    lhs TEXT NOT NULL,
    rhs TEXT NOT NULL,
    support REAL NOT NULL,
    confidence REAL NOT NULL,
    lift REAL NOT NULL,
    coverage REAL NOT NULL,
    p_value REAL,
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_transactions_item ON transactions(item);
CREATE INDEX IF NOT EXISTS idx_run_itemsets_run ON run_itemsets(run_id);
CREATE INDEX IF NOT EXISTS idx_run_rules_run ON run_rules(run_id);
`
