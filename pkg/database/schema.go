package database

import (
	"context"
	"fmt"
)

// CreateSchema creates the database schema for schedule-entry storage
func (db *DB) CreateSchema(ctx context.Context) error {
	db.logger.Info("Creating database schema...")

	if err := db.createExtensions(ctx); err != nil {
		return fmt.Errorf("failed to create extensions: %w", err)
	}

	tables := []string{
		createScheduleEntriesTable,
	}

	for _, table := range tables {
		if _, err := db.ExecContext(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		createScheduleEntriesIndexes,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return fmt.Errorf("failed to create indexes: %w", err)
		}
	}

	db.logger.Info("Database schema created successfully")
	return nil
}

// createExtensions creates required PostgreSQL extensions
func (db *DB) createExtensions(ctx context.Context) error {
	extensions := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	}

	for _, ext := range extensions {
		if _, err := db.ExecContext(ctx, ext); err != nil {
			return fmt.Errorf("failed to create extension: %w", err)
		}
	}

	return nil
}

// SQL DDL statements for table creation
const (
	createScheduleEntriesTable = `
		CREATE TABLE IF NOT EXISTS schedule_entries (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			staff_id VARCHAR(64) NOT NULL,
			entry_type VARCHAR(32) NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'active',
			priority INTEGER NOT NULL DEFAULT 0,
			day_of_week SMALLINT,
			effective_date DATE,
			expiry_date DATE,
			start_time VARCHAR(5),
			end_time VARCHAR(5),
			payload JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			CONSTRAINT chk_day_of_week CHECK (day_of_week IS NULL OR day_of_week BETWEEN 0 AND 6)
		);`

	createScheduleEntriesIndexes = `
		CREATE INDEX IF NOT EXISTS idx_schedule_entries_staff ON schedule_entries(staff_id);
		CREATE INDEX IF NOT EXISTS idx_schedule_entries_type ON schedule_entries(entry_type);
		CREATE INDEX IF NOT EXISTS idx_schedule_entries_status ON schedule_entries(status);
		CREATE INDEX IF NOT EXISTS idx_schedule_entries_effective ON schedule_entries(effective_date);
		CREATE INDEX IF NOT EXISTS idx_schedule_entries_day ON schedule_entries(day_of_week);`
)
