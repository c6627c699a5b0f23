package metrics

// Collector defines the interface for recording document processing
// metrics.
//
// Implementation notes:
//   - Methods must be safe for concurrent use; batch mode records from
//     multiple workers.
//   - Zero values are returned for unavailable metrics.
type Collector interface {
	// RecordDocument logs a completed document processing run.
	RecordDocument(record DocumentRecord)

	// GetStats returns aggregated processing statistics.
	GetStats() DocumentStats

	// GetRecent returns the N most recent document records, newest first.
	GetRecent(limit int) []DocumentRecord

	// GetTypeStats returns per-document-type statistics.
	GetTypeStats() map[string]TypeStats
}
