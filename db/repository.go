package db

import (
	"context"
	"fmt"
	"time"
)

// DocumentHistory is a row in the document_history table: one processed
// document run with its outcome and record counts.
type DocumentHistory struct {
	ID             int64     // Auto-incremented primary key
	RunID          string    // Unique identifier for tracing one processing run
	Filename       string    // Source document path
	DocumentType   string    // Inferred document category
	QualityLevel   string    // Assessed text quality bucket
	Method         string    // Text extraction method
	PageCount      int       // Pages in the source document
	WordCount      int       // Words in the extracted text
	ModuleCount    int       // Modules extracted
	StepCount      int       // Procedural steps extracted
	DecisionCount  int       // Decision points extracted
	EquipmentCount int       // Equipment records extracted
	Confidence     float64   // Final document confidence score
	DurationMS     int       // Processing duration in milliseconds
	Status         string    // "success" or "error"
	ErrorMessage   string    // Error detail if status is "error"
	CreatedAt      time.Time // Timestamp when the record was created
}

// ErrorLogEntry is a row in the error_log table.
type ErrorLogEntry struct {
	ID           int64     // Auto-incremented primary key
	RunID        string    // Correlates with a document_history run
	Stage        string    // Pipeline stage that produced the error
	ErrorMessage string    // Error description
	CreatedAt    time.Time // Timestamp when the error was logged
}

// Repository provides typed access to the history tables. When an
// AsyncWriter is configured inserts are queued; a full queue falls back
// to a synchronous write.
type Repository struct {
	db          *Database
	asyncWriter *AsyncWriter
}

// NewRepository creates a Repository. asyncWriter may be nil for fully
// synchronous writes.
func NewRepository(db *Database, asyncWriter *AsyncWriter) *Repository {
	return &Repository{db: db, asyncWriter: asyncWriter}
}

// asyncInsertOp is the payload queued on the AsyncWriter.
type asyncInsertOp struct {
	query string
	args  []interface{}
}

// NewInsertHandler returns a WriteHandler that applies queued inserts
// against the given database.
func NewInsertHandler(database *Database) WriteHandler {
	return func(op WriteOperation) error {
		insert, ok := op.Data.(asyncInsertOp)
		if !ok {
			return fmt.Errorf("unexpected write payload %T", op.Data)
		}
		_, err := database.Exec(insert.query, insert.args...)
		return err
	}
}

// InsertDocumentHistory records one document processing run. Returns the
// inserted row id, or 0 when the write was queued asynchronously.
func (r *Repository) InsertDocumentHistory(ctx context.Context, record DocumentHistory) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	query := `
		INSERT INTO document_history (
			run_id, filename, document_type, quality_level, method,
			page_count, word_count, module_count, step_count,
			decision_count, equipment_count, confidence, duration_ms,
			status, error_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	args := []interface{}{
		record.RunID,
		record.Filename,
		record.DocumentType,
		record.QualityLevel,
		record.Method,
		record.PageCount,
		record.WordCount,
		record.ModuleCount,
		record.StepCount,
		record.DecisionCount,
		record.EquipmentCount,
		record.Confidence,
		record.DurationMS,
		record.Status,
		record.ErrorMessage,
	}

	if r.asyncWriter != nil && r.asyncWriter.IsStarted() {
		if r.asyncWriter.Write(asyncInsertOp{query: query, args: args}) {
			return 0, nil
		}
	}

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert document history: %w", err)
	}
	return result.LastInsertId()
}

// QueryRecentHistory retrieves the most recent document runs, newest
// first.
func (r *Repository) QueryRecentHistory(ctx context.Context, limit int) ([]DocumentHistory, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, run_id, filename, document_type, quality_level, method,
		       page_count, word_count, module_count, step_count,
		       decision_count, equipment_count, confidence, duration_ms,
		       status, error_message, created_at
		FROM document_history
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query document history: %w", err)
	}
	defer rows.Close()

	var records []DocumentHistory
	for rows.Next() {
		var rec DocumentHistory
		if err := rows.Scan(
			&rec.ID, &rec.RunID, &rec.Filename, &rec.DocumentType,
			&rec.QualityLevel, &rec.Method, &rec.PageCount, &rec.WordCount,
			&rec.ModuleCount, &rec.StepCount, &rec.DecisionCount,
			&rec.EquipmentCount, &rec.Confidence, &rec.DurationMS,
			&rec.Status, &rec.ErrorMessage, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan document history: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountByStatus returns the number of runs per status value.
func (r *Repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM document_history GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count document history: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// InsertErrorLog records a stage-level error for a run.
func (r *Repository) InsertErrorLog(ctx context.Context, entry ErrorLogEntry) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("database connection is nil")
	}

	query := `INSERT INTO error_log (run_id, stage, error_message) VALUES (?, ?, ?)`
	args := []interface{}{entry.RunID, entry.Stage, entry.ErrorMessage}

	if r.asyncWriter != nil && r.asyncWriter.IsStarted() {
		if r.asyncWriter.Write(asyncInsertOp{query: query, args: args}) {
			return 0, nil
		}
	}

	result, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert error log: %w", err)
	}
	return result.LastInsertId()
}

// QueryErrorsByRun returns every logged error for one run, oldest first.
func (r *Repository) QueryErrorsByRun(ctx context.Context, runID string) ([]ErrorLogEntry, error) {
	if r.db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	rows, err := r.db.Query(`
		SELECT id, run_id, stage, error_message, created_at
		FROM error_log
		WHERE run_id = ?
		ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query error log: %w", err)
	}
	defer rows.Close()

	var entries []ErrorLogEntry
	for rows.Next() {
		var entry ErrorLogEntry
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Stage, &entry.ErrorMessage, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan error log: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
