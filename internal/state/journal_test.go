package state

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord(jobID string) JobRecord {
	return JobRecord{
		JobID:       jobID,
		File:        "document.pdf",
		PutURL:      "https://store/put/" + jobID,
		GetURL:      "https://store/get/" + jobID,
		SubmittedAt: time.Now().UTC(),
		Status:      "Pending",
	}
}

func TestJournal_RecordAndLookup(t *testing.T) {
	dir := t.TempDir()

	journal, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Expected journal to open, got: %v", err)
	}
	defer journal.Close()

	if err := journal.Record(testRecord("job-1")); err != nil {
		t.Fatalf("Expected record to succeed, got: %v", err)
	}

	rec, ok := journal.Lookup("job-1")
	if !ok {
		t.Fatal("Expected job-1 to be found")
	}
	if rec.GetURL != "https://store/get/job-1" {
		t.Errorf("Expected get_url preserved, got '%s'", rec.GetURL)
	}

	if _, ok := journal.Lookup("job-2"); ok {
		t.Error("Expected job-2 to be absent")
	}
}

func TestJournal_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	journal, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Expected journal to open, got: %v", err)
	}
	if err := journal.Record(testRecord("job-1")); err != nil {
		t.Fatalf("Expected record to succeed, got: %v", err)
	}
	if err := journal.Close(); err != nil {
		t.Fatalf("Expected close to succeed, got: %v", err)
	}

	reopened, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Expected journal to reopen, got: %v", err)
	}
	defer reopened.Close()

	if reopened.Len() != 1 {
		t.Errorf("Expected 1 record after reopen, got %d", reopened.Len())
	}
	if _, ok := reopened.Lookup("job-1"); !ok {
		t.Error("Expected job-1 to survive reopen")
	}
}

func TestJournal_LockContention(t *testing.T) {
	dir := t.TempDir()

	first, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Expected first open to succeed, got: %v", err)
	}
	defer first.Close()

	if _, err := Open(dir, testLogger()); err == nil {
		t.Error("Expected second open to fail while the lock is held")
	}
}

func TestJournal_UpdateStatus(t *testing.T) {
	dir := t.TempDir()

	journal, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Expected journal to open, got: %v", err)
	}
	defer journal.Close()

	if err := journal.Record(testRecord("job-1")); err != nil {
		t.Fatalf("Expected record to succeed, got: %v", err)
	}
	if err := journal.UpdateStatus("job-1", "Done"); err != nil {
		t.Fatalf("Expected update to succeed, got: %v", err)
	}

	rec, _ := journal.Lookup("job-1")
	if rec.Status != "Done" {
		t.Errorf("Expected status 'Done', got '%s'", rec.Status)
	}

	// Updating an unknown job is a no-op, not an error.
	if err := journal.UpdateStatus("job-404", "Done"); err != nil {
		t.Errorf("Expected unknown job update to be ignored, got: %v", err)
	}
}

func TestJournal_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, journalFileName), []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write corrupt journal: %v", err)
	}

	journal, err := Open(dir, testLogger())
	if err != nil {
		t.Fatalf("Expected a corrupt journal to be tolerated, got: %v", err)
	}
	defer journal.Close()

	if journal.Len() != 0 {
		t.Errorf("Expected an empty journal, got %d records", journal.Len())
	}

	// New records must be writable after recovery.
	if err := journal.Record(testRecord("job-1")); err != nil {
		t.Errorf("Expected record to succeed after recovery, got: %v", err)
	}
}
