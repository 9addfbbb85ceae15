package state

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	journalFileName = "jobs.json"
	lockFileName    = ".lock"
)

// JobRecord is one submitted job as remembered locally. The journal exists so
// a job submitted with --no-wait can be checked and fetched by a later
// invocation; it is a convenience, never a pipeline stage.
type JobRecord struct {
	JobID       string    `json:"job_id"`
	File        string    `json:"file"`
	PutURL      string    `json:"put_url"`
	GetURL      string    `json:"get_url"`
	SubmittedAt time.Time `json:"submitted_at"`
	Status      string    `json:"status"`
}

// Journal is a flock-guarded record of submitted jobs in a directory.
type Journal struct {
	lock    *flock.Flock
	path    string
	logger  *slog.Logger
	records map[string]JobRecord
}

type journalFile struct {
	Jobs map[string]JobRecord `json:"jobs"`
}

// Open creates the journal directory if needed, acquires the file lock, and
// loads any existing records. It returns an error if another curaflow
// instance holds the lock.
func Open(dir string, logger *slog.Logger) (*Journal, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create journal directory %s: %w", dir, err)
	}

	lockPath := filepath.Join(dir, lockFileName)
	fileLock := flock.New(lockPath)

	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("could not acquire journal lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("journal directory %s is locked by another curaflow instance", dir)
	}

	j := &Journal{
		lock:    fileLock,
		path:    filepath.Join(dir, journalFileName),
		logger:  logger.With("component", "journal"),
		records: make(map[string]JobRecord),
	}

	if err := j.load(); err != nil {
		// A corrupt journal should never block a new submission; start fresh
		// and leave the bad file readable for inspection.
		j.logger.Warn("Could not load existing journal, starting empty.", "path", j.path, "error", err)
		j.records = make(map[string]JobRecord)
	}

	return j, nil
}

func (j *Journal) load() error {
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read journal file: %w", err)
	}

	var jf journalFile
	if err := json.Unmarshal(data, &jf); err != nil {
		return fmt.Errorf("could not parse journal file: %w", err)
	}
	if jf.Jobs != nil {
		j.records = jf.Jobs
	}
	return nil
}

// save atomically writes the journal via a temp file and rename.
func (j *Journal) save() error {
	data, err := json.MarshalIndent(journalFile{Jobs: j.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal journal: %w", err)
	}

	tmpPath := j.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("could not write temporary journal file: %w", err)
	}
	if err := os.Rename(tmpPath, j.path); err != nil {
		return fmt.Errorf("could not rename journal file: %w", err)
	}
	return nil
}

// Record stores or replaces a job record and persists the journal.
func (j *Journal) Record(rec JobRecord) error {
	j.records[rec.JobID] = rec
	return j.save()
}

// Lookup returns the record for a job ID, if one exists.
func (j *Journal) Lookup(jobID string) (JobRecord, bool) {
	rec, ok := j.records[jobID]
	return rec, ok
}

// UpdateStatus records the latest known status for a job. Unknown job IDs are
// ignored.
func (j *Journal) UpdateStatus(jobID, status string) error {
	rec, ok := j.records[jobID]
	if !ok {
		return nil
	}
	rec.Status = status
	j.records[jobID] = rec
	return j.save()
}

// Len returns the number of recorded jobs.
func (j *Journal) Len() int {
	return len(j.records)
}

// Close releases the journal lock.
func (j *Journal) Close() error {
	return j.lock.Unlock()
}
