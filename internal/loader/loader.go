package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Summary reports what one LoadAll run persisted.
type Summary struct {
	RunID    string
	Files    int
	Rows     int
	Batches  int
	Duration time.Duration
}

// Loader drives a full reload: every CSV under the data root, batch by batch.
type Loader struct {
	writer    BatchWriter
	batchSize int
}

// New returns a Loader writing through w. Batch sizes outside
// [1, MaxBatchSize] fall back to DefaultBatchSize.
func New(w BatchWriter, batchSize int) *Loader {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		log.Warn().Int("batch_size", batchSize).Int("default", DefaultBatchSize).
			Msg("batch size out of range, using default")
		batchSize = DefaultBatchSize
	}
	return &Loader{writer: w, batchSize: batchSize}
}

// Discover returns the .csv files found directly inside each immediate
// subdirectory of root, sorted by directory then file name.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	var files []string
	for _, dir := range entries {
		if !dir.IsDir() {
			continue
		}
		sub := filepath.Join(root, dir.Name())
		children, err := os.ReadDir(sub)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", sub, err)
		}
		for _, f := range children {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".csv") {
				continue
			}
			files = append(files, filepath.Join(sub, f.Name()))
		}
	}
	return files, nil
}

// LoadAll reloads every discovered file. The first read or insert error
// stops the run and is returned; batches already written stay written.
// The writer is closed when LoadAll returns.
func (l *Loader) LoadAll(ctx context.Context, root string) (Summary, error) {
	defer l.writer.Close()

	start := time.Now()
	sum := Summary{RunID: uuid.NewString()}
	logger := log.With().Str("run_id", sum.RunID).Logger()

	files, err := Discover(root)
	if err != nil {
		return sum, err
	}
	if len(files) == 0 {
		logger.Warn().Str("data_dir", root).Msg("no csv files found")
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		rows, batches, err := l.LoadFile(ctx, path)
		if err != nil {
			return sum, err
		}
		logger.Info().Str("file", path).Int("rows", rows).Int("batches", batches).Msg("file loaded")
		sum.Files++
		sum.Rows += rows
		sum.Batches += batches
	}

	sum.Duration = time.Since(start)
	logger.Info().
		Int("files", sum.Files).
		Int("rows", sum.Rows).
		Int("batches", sum.Batches).
		Dur("elapsed", sum.Duration).
		Msg("all data loaded")
	return sum, nil
}

// LoadFile reads path fully into memory, then writes it in batches.
// It returns the row and batch counts written.
func (l *Loader) LoadFile(ctx context.Context, path string) (int, int, error) {
	records, err := ReadFile(path)
	if err != nil {
		return 0, 0, err
	}

	batches := 0
	for i := 0; i < len(records); i += l.batchSize {
		end := min(i+l.batchSize, len(records))
		if err := l.writer.InsertBatch(ctx, records[i:end]); err != nil {
			return i, batches, fmt.Errorf("%s rows %d-%d: %w", path, i, end-1, err)
		}
		batches++
	}
	return len(records), batches, nil
}
