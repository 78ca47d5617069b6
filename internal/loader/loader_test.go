package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Recording BatchWriter stub ───────────────────────────────────────────────

type stubWriter struct {
	batches [][]Record
	failOn  int // 1-based call that fails; 0 never fails
	calls   int
	closed  bool
}

var _ BatchWriter = (*stubWriter)(nil)

func (w *stubWriter) InsertBatch(_ context.Context, rows []Record) error {
	w.calls++
	if w.failOn > 0 && w.calls == w.failOn {
		return errors.New("connection reset")
	}
	w.batches = append(w.batches, append([]Record(nil), rows...))
	return nil
}

func (w *stubWriter) Close() { w.closed = true }

func (w *stubWriter) sizes() []int {
	out := make([]int, len(w.batches))
	for i, b := range w.batches {
		out[i] = len(b)
	}
	return out
}

// ── Helpers ──────────────────────────────────────────────────────────────────

const testHeader = "id_mutation,date_mutation,valeur_fonciere,surface_reelle_bati,type_local"

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writeRows(t *testing.T, path string, n int) {
	t.Helper()
	var b strings.Builder
	b.WriteString(testHeader + "\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "2023-%d,2023-03-01,\"%d,5\",50,Appartement\n", i, 100000+i)
	}
	writeFile(t, path, b.String())
}

// ── Discover ─────────────────────────────────────────────────────────────────

func TestDiscover_OnlyImmediateSubdirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top-level.csv"), testHeader+"\n")
	writeFile(t, filepath.Join(root, "2022", "full.csv"), testHeader+"\n")
	writeFile(t, filepath.Join(root, "2022", "notes.txt"), "not data")
	writeFile(t, filepath.Join(root, "2022", "nested", "deep.csv"), testHeader+"\n")
	writeFile(t, filepath.Join(root, "2021", "full.csv"), testHeader+"\n")

	files, err := Discover(root)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "2021", "full.csv"),
		filepath.Join(root, "2022", "full.csv"),
	}, files)
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

// ── LoadAll ──────────────────────────────────────────────────────────────────

func TestLoadAll_SplitsIntoBatches(t *testing.T) {
	root := t.TempDir()
	writeRows(t, filepath.Join(root, "2023", "full.csv"), 1200)

	w := &stubWriter{}
	sum, err := New(w, 500).LoadAll(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, []int{500, 500, 200}, w.sizes())
	assert.Equal(t, 1, sum.Files)
	assert.Equal(t, 1200, sum.Rows)
	assert.Equal(t, 3, sum.Batches)
	assert.NotEmpty(t, sum.RunID)
	assert.True(t, w.closed)

	// Row order inside the file is preserved across batches.
	assert.Equal(t, "2023-0", w.batches[0][0][fieldIndex["id_mutation"]])
	assert.Equal(t, "2023-500", w.batches[1][0][fieldIndex["id_mutation"]])
	assert.Equal(t, 100000.5, w.batches[0][0][fieldIndex["valeur_fonciere"]])
}

func TestLoadAll_HeaderOnlyFileWritesNothing(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2023", "empty.csv"), testHeader+"\n")

	w := &stubWriter{}
	sum, err := New(w, 500).LoadAll(context.Background(), root)

	require.NoError(t, err)
	assert.Equal(t, 0, w.calls)
	assert.Equal(t, 1, sum.Files)
	assert.Equal(t, 0, sum.Rows)
}

func TestLoadAll_NoFilesIsNotAnError(t *testing.T) {
	w := &stubWriter{}
	sum, err := New(w, 500).LoadAll(context.Background(), t.TempDir())

	require.NoError(t, err)
	assert.Zero(t, sum.Files)
	assert.True(t, w.closed)
}

func TestLoadAll_InsertErrorStopsRun(t *testing.T) {
	root := t.TempDir()
	writeRows(t, filepath.Join(root, "2021", "full.csv"), 10)
	writeRows(t, filepath.Join(root, "2022", "full.csv"), 10)

	w := &stubWriter{failOn: 2}
	_, err := New(w, 4).LoadAll(context.Background(), root)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Contains(t, err.Error(), filepath.Join("2021", "full.csv"))
	// The first batch stays written; nothing after the failure is attempted.
	assert.Equal(t, 2, w.calls)
	assert.Equal(t, []int{4}, w.sizes())
	assert.True(t, w.closed)
}

func TestLoadAll_ParseErrorStopsRun(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2021", "broken.csv"), "id_mutation,nature_mutation\n2021-1,Ven\"te\n")
	writeRows(t, filepath.Join(root, "2022", "full.csv"), 3)

	w := &stubWriter{}
	_, err := New(w, 500).LoadAll(context.Background(), root)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.csv")
	assert.Equal(t, 0, w.calls)
	assert.True(t, w.closed)
}

func TestLoadAll_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeRows(t, filepath.Join(root, "2023", "full.csv"), 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := &stubWriter{}
	_, err := New(w, 500).LoadAll(ctx, root)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, w.calls)
}

func TestNew_OutOfRangeBatchSizeFallsBack(t *testing.T) {
	assert.Equal(t, DefaultBatchSize, New(&stubWriter{}, 0).batchSize)
	assert.Equal(t, DefaultBatchSize, New(&stubWriter{}, MaxBatchSize+1).batchSize)
	assert.Equal(t, MaxBatchSize, New(&stubWriter{}, MaxBatchSize).batchSize)
}

func TestLoadAll_IntoMemoryWriter(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2023", "full.csv"),
		testHeader+"\n"+
			"2023-1,2023-01-05,\"250000,50\",50,Appartement\n"+
			"2023-1,2023-01-05,\"250000,50\",,Dépendance\n"+
			"2023-2,not-a-date,,0,\n")

	w := NewMemoryWriter()
	_, err := New(w, 2).LoadAll(context.Background(), root)
	require.NoError(t, err)

	rows := w.Mutations()
	require.Len(t, rows, 3)

	assert.Equal(t, int64(1), rows[0].ID)
	assert.Equal(t, int64(3), rows[2].ID)
	assert.Equal(t, "2023-1", *rows[0].IDMutation)
	require.NotNil(t, rows[0].DateMutation)
	assert.Equal(t, 2023, rows[0].DateMutation.Year())
	assert.True(t, rows[0].ValeurFonciere.Valid)
	assert.Equal(t, "250000.5", rows[0].ValeurFonciere.Decimal.String())
	assert.Equal(t, 50.0, *rows[0].SurfaceReelleBati)
	assert.Nil(t, rows[1].SurfaceReelleBati)
	assert.Equal(t, "Dépendance", *rows[1].TypeLocal)

	assert.Nil(t, rows[2].DateMutation)
	assert.False(t, rows[2].ValeurFonciere.Valid)
	assert.Nil(t, rows[2].SurfaceReelleBati) // zero coerces to null
	assert.Nil(t, rows[2].TypeLocal)
}
