package metrics

import (
	"fmt"
	"math"
	"sync"
	"testing"
	"time"
)

func sampleRecord(id string, status string, confidence float64) DocumentRecord {
	return DocumentRecord{
		ID:           id,
		Filename:     id + ".pdf",
		DocumentType: "maintenance_manual",
		Status:       status,
		Duration:     2 * time.Second,
		Confidence:   confidence,
		ModuleCount:  2,
		StepCount:    5,
	}
}

func TestStore_GetStats_Empty(t *testing.T) {
	store := NewStore(DefaultStoreConfig())
	stats := store.GetStats()
	if stats.TotalDocuments != 0 || stats.SuccessRate != 0 || stats.AverageConfidence != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestStore_RecordDocument_Aggregates(t *testing.T) {
	store := NewStore(DefaultStoreConfig())
	store.RecordDocument(sampleRecord("a", StatusSuccess, 0.8))
	store.RecordDocument(sampleRecord("b", StatusSuccess, 0.6))
	store.RecordDocument(sampleRecord("c", StatusError, 0.0))

	stats := store.GetStats()
	if stats.TotalDocuments != 3 {
		t.Errorf("TotalDocuments = %d, want 3", stats.TotalDocuments)
	}
	if stats.SuccessCount != 2 || stats.ErrorCount != 1 {
		t.Errorf("success/error = %d/%d, want 2/1", stats.SuccessCount, stats.ErrorCount)
	}
	if want := 2.0 / 3.0; stats.SuccessRate != want {
		t.Errorf("SuccessRate = %v, want %v", stats.SuccessRate, want)
	}
	if want := (0.8 + 0.6) / 3.0; math.Abs(stats.AverageConfidence-want) > 1e-9 {
		t.Errorf("AverageConfidence = %v, want %v", stats.AverageConfidence, want)
	}
	if stats.TotalModules != 6 || stats.TotalSteps != 15 {
		t.Errorf("modules/steps = %d/%d, want 6/15", stats.TotalModules, stats.TotalSteps)
	}
}

func TestStore_GetRecent_NewestFirst(t *testing.T) {
	store := NewStore(StoreConfig{HistoryCapacity: 3})
	for i := 0; i < 5; i++ {
		store.RecordDocument(sampleRecord(fmt.Sprintf("doc%d", i), StatusSuccess, 0.5))
	}

	recent := store.GetRecent(10)
	if len(recent) != 3 {
		t.Fatalf("expected 3 records after wraparound, got %d", len(recent))
	}
	want := []string{"doc4", "doc3", "doc2"}
	for i, w := range want {
		if recent[i].ID != w {
			t.Errorf("recent[%d].ID = %q, want %q", i, recent[i].ID, w)
		}
	}
}

func TestStore_GetTypeStats(t *testing.T) {
	store := NewStore(DefaultStoreConfig())
	store.RecordDocument(sampleRecord("a", StatusSuccess, 0.8))
	store.RecordDocument(DocumentRecord{
		ID: "b", DocumentType: "safety_procedure", Status: StatusError,
	})

	byType := store.GetTypeStats()
	if len(byType) != 2 {
		t.Fatalf("expected 2 types, got %d", len(byType))
	}
	mm := byType["maintenance_manual"]
	if mm.Count != 1 || mm.SuccessCount != 1 || mm.AverageConfidence != 0.8 {
		t.Errorf("maintenance_manual stats = %+v", mm)
	}
	sp := byType["safety_procedure"]
	if sp.Count != 1 || sp.SuccessCount != 0 {
		t.Errorf("safety_procedure stats = %+v", sp)
	}
}

func TestStore_ConcurrentRecording(t *testing.T) {
	store := NewStore(DefaultStoreConfig())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				store.RecordDocument(sampleRecord(fmt.Sprintf("w%d-%d", n, j), StatusSuccess, 0.5))
			}
		}(i)
	}
	wg.Wait()

	stats := store.GetStats()
	if stats.TotalDocuments != 200 {
		t.Errorf("TotalDocuments = %d, want 200", stats.TotalDocuments)
	}
}
