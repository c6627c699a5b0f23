package metrics

import (
	"sync"
	"time"
)

// Store is the in-memory Collector implementation. It keeps a circular
// buffer of recent document records plus running aggregates, guarded by a
// single RWMutex.
type Store struct {
	mu sync.RWMutex

	// Recent document history (circular buffer)
	history []DocumentRecord
	cap     int
	head    int
	size    int

	// Running aggregates
	totalDocuments int64
	successCount   int64
	errorCount     int64
	sumConfidence  float64
	sumDuration    time.Duration
	totalModules   int64
	totalSteps     int64
	totalDecisions int64
	totalEquipment int64

	// Per-document-type aggregation
	byType map[string]*typeAccumulator
}

type typeAccumulator struct {
	count         int64
	successCount  int64
	sumConfidence float64
	sumDuration   time.Duration
}

// StoreConfig configures the Store behavior.
type StoreConfig struct {
	// HistoryCapacity is the max number of document records to retain
	HistoryCapacity int
}

// DefaultStoreConfig returns a default configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{HistoryCapacity: 100}
}

// NewStore creates a Store with the specified configuration.
func NewStore(config StoreConfig) *Store {
	capacity := config.HistoryCapacity
	if capacity < 1 {
		capacity = 100
	}
	return &Store{
		history: make([]DocumentRecord, capacity),
		cap:     capacity,
		byType:  make(map[string]*typeAccumulator),
	}
}

// RecordDocument logs a completed document processing run.
func (s *Store) RecordDocument(record DocumentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[s.head] = record
	s.head = (s.head + 1) % s.cap
	if s.size < s.cap {
		s.size++
	}

	s.totalDocuments++
	switch record.Status {
	case StatusSuccess:
		s.successCount++
	case StatusError:
		s.errorCount++
	}
	s.sumConfidence += record.Confidence
	s.sumDuration += record.Duration
	s.totalModules += int64(record.ModuleCount)
	s.totalSteps += int64(record.StepCount)
	s.totalDecisions += int64(record.DecisionCount)
	s.totalEquipment += int64(record.EquipmentCount)

	acc, ok := s.byType[record.DocumentType]
	if !ok {
		acc = &typeAccumulator{}
		s.byType[record.DocumentType] = acc
	}
	acc.count++
	if record.Status == StatusSuccess {
		acc.successCount++
	}
	acc.sumConfidence += record.Confidence
	acc.sumDuration += record.Duration
}

// GetStats returns aggregated processing statistics.
func (s *Store) GetStats() DocumentStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := DocumentStats{
		TotalDocuments: s.totalDocuments,
		SuccessCount:   s.successCount,
		ErrorCount:     s.errorCount,
		TotalModules:   s.totalModules,
		TotalSteps:     s.totalSteps,
		TotalDecisions: s.totalDecisions,
		TotalEquipment: s.totalEquipment,
	}
	if s.totalDocuments > 0 {
		stats.SuccessRate = float64(s.successCount) / float64(s.totalDocuments)
		stats.AverageConfidence = s.sumConfidence / float64(s.totalDocuments)
		stats.AverageDuration = s.sumDuration / time.Duration(s.totalDocuments)
	}
	return stats
}

// GetRecent returns up to limit document records, newest first.
func (s *Store) GetRecent(limit int) []DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit < 1 || limit > s.size {
		limit = s.size
	}

	records := make([]DocumentRecord, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (s.head - 1 - i + s.cap*2) % s.cap
		records = append(records, s.history[idx])
	}
	return records
}

// GetTypeStats returns per-document-type statistics.
func (s *Store) GetTypeStats() map[string]TypeStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]TypeStats, len(s.byType))
	for docType, acc := range s.byType {
		entry := TypeStats{
			Count:        acc.count,
			SuccessCount: acc.successCount,
		}
		if acc.count > 0 {
			entry.AverageConfidence = acc.sumConfidence / float64(acc.count)
			entry.AverageDuration = acc.sumDuration / time.Duration(acc.count)
		}
		out[docType] = entry
	}
	return out
}
