package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS holdings (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol               TEXT NOT NULL,
    company_name         TEXT NOT NULL DEFAULT '',
    quantity             REAL NOT NULL,
    buy_price            REAL NOT NULL,
    buy_date             TEXT NOT NULL,
    sector               TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goals (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    name                 TEXT NOT NULL,
    goal_type            TEXT NOT NULL,
    target_amount        REAL NOT NULL,
    current_savings      REAL NOT NULL DEFAULT 0,
    monthly_contribution REAL NOT NULL DEFAULT 0,
    expected_return      REAL NOT NULL DEFAULT 8.0,
    target_date          TEXT,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS watchlist (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol               TEXT NOT NULL UNIQUE,
    company_name         TEXT NOT NULL DEFAULT '',
    sector               TEXT NOT NULL DEFAULT '',
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_holdings_symbol ON holdings(symbol);
`
