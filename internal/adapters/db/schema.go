package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS listings (
		id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		owner_id         UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		price            NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		currency         TEXT NOT NULL DEFAULT 'CHF',
		category         TEXT NOT NULL,
		status           TEXT NOT NULL DEFAULT 'active',
		year             INTEGER,
		mileage          INTEGER,
		engine_size      INTEGER,
		fuel_type        TEXT NOT NULL DEFAULT '',
		transmission     TEXT NOT NULL DEFAULT '',
		condition        TEXT NOT NULL DEFAULT '',
		location         TEXT NOT NULL DEFAULT '',
		images           TEXT[] NOT NULL DEFAULT '{}',
		views            INTEGER NOT NULL DEFAULT 0,
		bid_count        INTEGER NOT NULL DEFAULT 0,
		featured         BOOLEAN NOT NULL DEFAULT FALSE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		auction_end_date TIMESTAMPTZ,
		current_bid      NUMERIC(12,2),
		reserve_price    NUMERIC(12,2),
		buy_now_price    NUMERIC(12,2)
	)`,
	`CREATE INDEX IF NOT EXISTS listings_status_created_idx ON listings (status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS listings_owner_idx ON listings (owner_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS listings_auction_end_idx ON listings (auction_end_date) WHERE auction_end_date IS NOT NULL`,
}

// EnsureSchema creates the tables and indexes if they do not exist
func (client *Connection) EnsureSchema(ctx context.Context) error {
	return client.ExecuteTransaction(ctx, func(tx *sql.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return nil
	})
}
