package loader

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/romaxnova/dvf-api/internal/infra"
	"github.com/romaxnova/dvf-api/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

// BatchWriter persists one batch of records atomically.
type BatchWriter interface {
	InsertBatch(ctx context.Context, rows []Record) error
	Close()
}

// BuildInsert renders a single multi-row INSERT for rows. Placeholders are
// numbered row-major: row 0 binds $1..$n, row 1 binds $n+1..$2n, and so on,
// and args is the matching flattened value list.
func BuildInsert(table string, fields []string, rows []Record) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(fields, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(fields))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		offset := i * len(fields)
		for j := range fields {
			if j > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(offset + j + 1))
			var v any
			if j < len(row) {
				v = row[j]
			}
			args = append(args, v)
		}
		b.WriteByte(')')
	}
	return b.String(), args
}

// ── Postgres ─────────────────────────────────────────────────────────────────

// PgxWriter inserts batches through a pgx pool. One statement per batch, so
// Postgres makes each batch atomic without an explicit transaction.
type PgxWriter struct {
	pool *pgxpool.Pool
}

func NewPgxWriter(pool *pgxpool.Pool) *PgxWriter { return &PgxWriter{pool: pool} }

// EnsureSchema creates the dvf table and indexes if they are missing.
func (w *PgxWriter) EnsureSchema(ctx context.Context) error {
	for _, stmt := range infra.SchemaStatements {
		if _, err := w.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (w *PgxWriter) InsertBatch(ctx context.Context, rows []Record) error {
	if len(rows) == 0 {
		return nil
	}
	query, args := BuildInsert(model.TableName, Fields, rows)
	if _, err := w.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert batch of %d rows: %w", len(rows), err)
	}
	return nil
}

func (w *PgxWriter) Close() { w.pool.Close() }

// ── In-memory ────────────────────────────────────────────────────────────────

// MemoryWriter keeps every inserted record. It backs the snapshot store,
// which serves queries from memory instead of Postgres.
type MemoryWriter struct {
	mu      sync.Mutex
	records []Record
}

func NewMemoryWriter() *MemoryWriter { return &MemoryWriter{} }

func (w *MemoryWriter) InsertBatch(_ context.Context, rows []Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, rows...)
	return nil
}

func (w *MemoryWriter) Close() {}

// Mutations converts the collected records, assigning sequential IDs the way
// the identity column would.
func (w *MemoryWriter) Mutations() []model.Mutation {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]model.Mutation, len(w.records))
	for i, rec := range w.records {
		out[i] = rec.Mutation()
		out[i].ID = int64(i + 1)
	}
	return out
}
