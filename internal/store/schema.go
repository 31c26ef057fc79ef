package store

const sqliteSchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    external_id  TEXT NOT NULL UNIQUE,
    email        TEXT NOT NULL UNIQUE,
    age          INTEGER,
    start_year   INTEGER,
    is_active    BOOLEAN NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS expenses (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name         TEXT NOT NULL,
    amount       REAL NOT NULL,
    frequency    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS savings (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id      INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name         TEXT NOT NULL,
    amount       REAL NOT NULL,
    frequency    TEXT NOT NULL,
    is_lump_sum  BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS assumptions (
    user_id         INTEGER PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    return_rate     REAL NOT NULL,
    inflation_rate  REAL NOT NULL,
    life_expectancy INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses(user_id);
CREATE INDEX IF NOT EXISTS idx_savings_user ON savings(user_id);
`

const postgresSchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    id           BIGSERIAL PRIMARY KEY,
    external_id  TEXT NOT NULL UNIQUE,
    email        TEXT NOT NULL UNIQUE,
    age          INTEGER,
    start_year   INTEGER,
    is_active    BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS expenses (
    id           BIGSERIAL PRIMARY KEY,
    user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name         TEXT NOT NULL,
    amount       DOUBLE PRECISION NOT NULL,
    frequency    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS savings (
    id           BIGSERIAL PRIMARY KEY,
    user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name         TEXT NOT NULL,
    amount       DOUBLE PRECISION NOT NULL,
    frequency    TEXT NOT NULL,
    is_lump_sum  BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS assumptions (
    user_id         BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
    return_rate     DOUBLE PRECISION NOT NULL,
    inflation_rate  DOUBLE PRECISION NOT NULL,
    life_expectancy INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses(user_id);
CREATE INDEX IF NOT EXISTS idx_savings_user ON savings(user_id);
`
