package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are stored as TEXT so decimals survive the round trip exactly.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS trips (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    next_person_id INTEGER NOT NULL DEFAULT 1,
    next_expense_id INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS people (
    trip_id TEXT NOT NULL,
    id INTEGER NOT NULL,
    name TEXT NOT NULL,
    departed INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (trip_id, id),
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expenses (
    trip_id TEXT NOT NULL,
    id INTEGER NOT NULL,
    description TEXT NOT NULL,
    amount TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (trip_id, id),
    FOREIGN KEY (trip_id) REFERENCES trips(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS expense_shares (
    trip_id TEXT NOT NULL,
    expense_id INTEGER NOT NULL,
    side TEXT NOT NULL CHECK (side IN ('paid', 'split')),
    position INTEGER NOT NULL,
    person_id INTEGER NOT NULL,
    amount TEXT NOT NULL,
    PRIMARY KEY (trip_id, expense_id, side, position),
    FOREIGN KEY (trip_id, expense_id) REFERENCES expenses(trip_id, id) ON DELETE CASCADE,
    FOREIGN KEY (trip_id, person_id) REFERENCES people(trip_id, id)
);

CREATE INDEX IF NOT EXISTS idx_trips_owner_id ON trips(owner_id);
CREATE INDEX IF NOT EXISTS idx_expense_shares_expense ON expense_shares(trip_id, expense_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
