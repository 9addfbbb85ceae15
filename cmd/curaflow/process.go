package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tracertea/curaflow/internal/archive"
	"github.com/tracertea/curaflow/internal/curation"
	"github.com/tracertea/curaflow/internal/logging"
	"github.com/tracertea/curaflow/internal/state"
)

var (
	outputPath    string
	optionsJSON   string
	chunking      bool
	chunkSize     int
	embedding     bool
	jsonSchema    bool
	normQuotes    bool
	normDashes    bool
	noWait        bool
	maxRetries    int
	retryDelay    time.Duration
	archiveBucket string
	archivePrefix string
	archiveRegion string
	journalDir    string
	logLevel      string
	logFilePath   string
)

var processCmd = &cobra.Command{
	Use:   "process <file>",
	Short: "Process a file through the Data Curation API",
	Long: `Upload a file for curation, wait for processing to complete, and print the
curated result to stdout (or write it with -o).

Examples:
  # Process a file and print the curated text
  curaflow process document.pdf

  # Write the result to a file
  curaflow process document.pdf -o curated.txt

  # Enable chunking and embedding
  curaflow process document.pdf --chunking --chunk-size 800 --embedding

  # Supply the presign options as a raw JSON blob
  curaflow process document.pdf --options-json '{"embedding":true}'

  # Submit without waiting; check later with 'curaflow status'
  curaflow process document.pdf --no-wait

  # Archive the result to S3 after fetching it
  curaflow process document.pdf --archive-bucket my-results`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	logger, logFile := logging.New(logLevel, logFilePath)
	if logFile != nil {
		defer logFile.Close()
	}

	payload, err := buildPayload(cmd)
	if err != nil {
		return err
	}

	orch, err := buildOrchestrator(logger)
	if err != nil {
		return err
	}
	defer orch.Close()

	ctx, cancel := signalContext()
	defer cancel()

	journal := openJournal(logger)
	if journal != nil {
		defer journal.Close()
	}

	if noWait {
		job, uploaded, err := orch.Submit(ctx, filePath, payload)
		if err != nil {
			return err
		}
		recordJob(journal, job, filePath, curation.StatusPending, logger)
		logger.Info("Job submitted, not waiting for completion.", "job_id", job.JobID, "uploaded_bytes", uploaded)

		blob, err := jobJSON(job)
		if err != nil {
			return err
		}
		return writeResult(blob, outputPath, logger)
	}

	result, err := orch.Run(ctx, filePath, payload)
	if err != nil {
		return err
	}
	recordJob(journal, result.Job, filePath, curation.StatusDone, logger)
	orch.Stats().LogSummary(logger)

	if archiveBucket != "" {
		archiver, err := archive.NewS3Archiver(ctx, archiveRegion, archiveBucket, logger)
		if err != nil {
			return err
		}
		key := archive.ResultKey(archivePrefix, result.Job.JobID)
		if err := archiver.Store(ctx, key, result.Output); err != nil {
			return err
		}
	}

	return writeResult(result.Output, outputPath, logger)
}

// buildPayload assembles the presign request body from the option flags, or
// passes a caller-supplied raw blob through untouched. Typed flags and
// --options-json are mutually exclusive.
func buildPayload(cmd *cobra.Command) ([]byte, error) {
	typedFlags := []string{"chunking", "chunk-size", "embedding", "json-schema", "normalize-quotations", "normalize-dashes"}
	typedUsed := false
	for _, name := range typedFlags {
		if cmd.Flags().Changed(name) {
			typedUsed = true
			break
		}
	}

	if optionsJSON != "" {
		if typedUsed {
			return nil, fmt.Errorf("--options-json cannot be combined with typed option flags")
		}
		// Passed through opaquely; the service is authoritative for
		// validating the options schema.
		return []byte(optionsJSON), nil
	}

	if !typedUsed {
		return nil, nil
	}

	opts := &curation.ProcessingOptions{
		Normalization: curation.NormalizationOptions{
			Quotations: normQuotes,
			Dashes:     normDashes,
		},
		Chunking: curation.ChunkingOptions{
			Enabled:   chunking,
			ChunkSize: chunkSize,
		},
		Embedding:  embedding,
		JSONSchema: jsonSchema,
	}
	return opts.Payload()
}

func writeResult(data []byte, path string, logger *slog.Logger) error {
	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not write output file %s: %w", path, err)
	}
	logger.Info("Result saved.", "path", path, "size_bytes", len(data))
	return nil
}

func recordJob(journal *state.Journal, job *curation.Job, filePath string, status curation.JobStatus, logger *slog.Logger) {
	if journal == nil {
		return
	}
	rec := state.JobRecord{
		JobID:       job.JobID,
		File:        filePath,
		PutURL:      job.PutURL,
		GetURL:      job.GetURL,
		SubmittedAt: time.Now().UTC(),
		Status:      status.String(),
	}
	if err := journal.Record(rec); err != nil {
		logger.Warn("Could not record job in journal.", "job_id", job.JobID, "error", err)
	}
}

func init() {
	processCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")

	processCmd.Flags().StringVar(&optionsJSON, "options-json", "", "Raw JSON presign options, passed through unmodified")
	processCmd.Flags().BoolVar(&chunking, "chunking", false, "Enable content chunking")
	processCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Chunk size (service accepts 100-5000)")
	processCmd.Flags().BoolVar(&embedding, "embedding", false, "Enable content embedding")
	processCmd.Flags().BoolVar(&jsonSchema, "json-schema", false, "Request JSON-shaped output")
	processCmd.Flags().BoolVar(&normQuotes, "normalize-quotations", false, "Normalize quotation marks")
	processCmd.Flags().BoolVar(&normDashes, "normalize-dashes", false, "Normalize dashes")

	processCmd.Flags().BoolVar(&noWait, "no-wait", false, "Submit the job and return its details without polling")
	processCmd.Flags().IntVar(&maxRetries, "max-retries", curation.DefaultMaxRetries, "Maximum status poll attempts")
	processCmd.Flags().DurationVar(&retryDelay, "retry-delay", curation.DefaultRetryDelay, "Delay between status polls")

	processCmd.Flags().StringVar(&archiveBucket, "archive-bucket", "", "S3 bucket to archive the result to")
	processCmd.Flags().StringVar(&archivePrefix, "archive-prefix", "", "Key prefix for archived results")
	processCmd.Flags().StringVar(&archiveRegion, "archive-region", "", "AWS region for the archive bucket")
}
