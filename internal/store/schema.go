package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS kv (
    key                  TEXT PRIMARY KEY,
    value                BLOB NOT NULL,
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reminders (
    id                   TEXT PRIMARY KEY,
    fire_at_ns           INTEGER NOT NULL,
    title                TEXT NOT NULL,
    body                 TEXT NOT NULL,
    created_at           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reminders_fire ON reminders(fire_at_ns);
`
