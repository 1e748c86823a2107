package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Amounts are stored as base-10 TEXT because they exceed 64 bits.
// IMPORTANT: users must be created BEFORE plans and group_members due to foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    address TEXT PRIMARY KEY,
    total_balance TEXT NOT NULL DEFAULT '0',
    savings_count INTEGER NOT NULL DEFAULT 0,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS counters (
    name TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS plans (
    id INTEGER PRIMARY KEY,
    owner TEXT NOT NULL,
    kind TEXT NOT NULL,
    balance TEXT NOT NULL DEFAULT '0',
    start_time INTEGER NOT NULL DEFAULT 0,
    last_deposit INTEGER NOT NULL DEFAULT 0,
    last_withdraw INTEGER NOT NULL DEFAULT 0,
    interest_rate INTEGER NOT NULL DEFAULT 0,
    is_completed INTEGER NOT NULL DEFAULT 0,
    unlock_time INTEGER,
    goal_label TEXT,
    target_amount TEXT,
    target_time INTEGER,
    is_public INTEGER,
    contribution_type INTEGER,
    end_time INTEGER,
    title TEXT,
    description TEXT,
    category TEXT,
    contribution_amount TEXT,
    member_count INTEGER,
    FOREIGN KEY (owner) REFERENCES users(address)
);

CREATE TABLE IF NOT EXISTS group_members (
    plan_id INTEGER NOT NULL,
    address TEXT NOT NULL,
    contributed TEXT NOT NULL DEFAULT '0',
    joined_at INTEGER NOT NULL,
    PRIMARY KEY (plan_id, address),
    FOREIGN KEY (plan_id) REFERENCES plans(id),
    FOREIGN KEY (address) REFERENCES users(address)
);

CREATE INDEX IF NOT EXISTS idx_plans_owner ON plans(owner);
CREATE INDEX IF NOT EXISTS idx_group_members_address ON group_members(address);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
