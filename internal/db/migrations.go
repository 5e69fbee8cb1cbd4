package db

const schemaSQL = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    title TEXT NOT NULL,
    url TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    volume TEXT NOT NULL,
    liquidity TEXT NOT NULL,
    end_date TEXT NOT NULL,
    captured_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_snapshots_time ON snapshots(captured_at);

CREATE TABLE IF NOT EXISTS outcome_prices (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    snapshot_id INTEGER NOT NULL REFERENCES snapshots(id),
    question TEXT NOT NULL,
    outcome TEXT NOT NULL,
    price REAL
);
CREATE INDEX IF NOT EXISTS idx_outcome_prices_snapshot ON outcome_prices(snapshot_id);
`
