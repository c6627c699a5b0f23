package db

import (
	"context"
	"fmt"
	"time"
)

// CleanupResult contains statistics about a cleanup operation.
type CleanupResult struct {
	// DocumentHistoryDeleted is the number of rows deleted from document_history
	DocumentHistoryDeleted int64
	// ErrorLogDeleted is the number of rows deleted from error_log
	ErrorLogDeleted int64
	// TotalDeleted is the sum of all deleted rows
	TotalDeleted int64
	// Duration is how long the cleanup took
	Duration time.Duration
}

// tablesToClean defines the tables with retention policies. All must have
// a created_at DATETIME column.
var tablesToClean = []string{
	"document_history",
	"error_log",
}

// Cleanup deletes rows older than retentionDays from the retention-managed
// tables and runs VACUUM to reclaim disk space. The deletions run in one
// transaction; any failure rolls back the whole operation.
func (d *Database) Cleanup(ctx context.Context, retentionDays int) (CleanupResult, error) {
	start := time.Now()
	result := CleanupResult{}

	if retentionDays < 0 {
		return result, fmt.Errorf("retentionDays must be non-negative, got %d", retentionDays)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return result, fmt.Errorf("database connection is closed")
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			tx.Rollback()
		}
	}()

	deletedCounts := make(map[string]int64)
	for _, table := range tablesToClean {
		query := fmt.Sprintf(
			"DELETE FROM %s WHERE created_at < datetime('now', '-%d days')",
			table, retentionDays,
		)
		res, err := tx.ExecContext(ctx, query)
		if err != nil {
			return result, fmt.Errorf("failed to delete from %s: %w", table, err)
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return result, fmt.Errorf("failed to get rows affected for %s: %w", table, err)
		}
		deletedCounts[table] = rowsAffected
		result.TotalDeleted += rowsAffected
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	result.DocumentHistoryDeleted = deletedCounts["document_history"]
	result.ErrorLogDeleted = deletedCounts["error_log"]

	// VACUUM must run outside the transaction. Its failure is not
	// critical since the rows are already gone.
	if _, err := d.db.ExecContext(ctx, "VACUUM"); err != nil {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("cleanup succeeded but VACUUM failed: %w", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}
