// Package history archives completed analysis records so past runs can be
// listed and re-rendered. The engine itself stays per-invocation; this
// store sits around it, one row per run.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/quasar/internal/database"
	"github.com/aristath/quasar/internal/modules/analysis"
)

// ErrNotFound is returned when no archived run matches the requested ID.
var ErrNotFound = errors.New("analysis run not found")

// Summary is the listing view of an archived run.
type Summary struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Backend    string    `json:"backend"`
	Qubits     int       `json:"qubits"`
	Depth      int       `json:"depth"`
	Operations int       `json:"operations"`
}

// Repository stores analysis records in sqlite. The full record travels as
// a msgpack blob; the indexed columns exist for listing and pruning.
type Repository struct {
	db  *database.DB
	log zerolog.Logger
}

// NewRepository creates the repository and ensures the schema exists.
func NewRepository(db *database.DB, log zerolog.Logger) (*Repository, error) {
	repo := &Repository{
		db:  db,
		log: log.With().Str("repository", "history").Logger(),
	}
	if err := repo.initSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *Repository) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id          TEXT PRIMARY KEY,
		created_at  TEXT NOT NULL,
		backend     TEXT NOT NULL,
		qubits      INTEGER NOT NULL,
		depth       INTEGER NOT NULL,
		operations  INTEGER NOT NULL,
		record      BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analysis_runs_created_at ON analysis_runs(created_at);
	`
	if _, err := r.db.Conn().Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return nil
}

// Save archives one completed record.
func (r *Repository) Save(rec *analysis.Record) error {
	blob, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode analysis record %s: %w", rec.ID, err)
	}

	_, err = r.db.Conn().Exec(`
		INSERT INTO analysis_runs (id, created_at, backend, qubits, depth, operations, record)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		rec.Backend,
		rec.Qubits,
		rec.Depth,
		rec.Operations,
		blob,
	)
	if err != nil {
		return fmt.Errorf("failed to store analysis record %s: %w", rec.ID, err)
	}

	r.log.Debug().Str("id", rec.ID).Int("qubits", rec.Qubits).Msg("Archived analysis record")
	return nil
}

// Get returns the full archived record for the given ID.
func (r *Repository) Get(id string) (*analysis.Record, error) {
	var blob []byte
	err := r.db.Conn().QueryRow(`SELECT record FROM analysis_runs WHERE id = ?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load analysis record %s: %w", id, err)
	}

	var rec analysis.Record
	if err := msgpack.Unmarshal(blob, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode analysis record %s: %w", id, err)
	}
	return &rec, nil
}

// List returns run summaries, newest first. limit <= 0 means no limit.
func (r *Repository) List(limit int) ([]Summary, error) {
	query := `
		SELECT id, created_at, backend, qubits, depth, operations
		FROM analysis_runs
		ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		var created string
		if err := rows.Scan(&s.ID, &created, &s.Backend, &s.Qubits, &s.Depth, &s.Operations); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			s.CreatedAt = t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes one archived run.
func (r *Repository) Delete(id string) error {
	res, err := r.db.Conn().Exec(`DELETE FROM analysis_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis record %s: %w", id, err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// PruneOlderThan removes runs created before the cutoff and returns how
// many rows were deleted.
func (r *Repository) PruneOlderThan(cutoff time.Time) (int64, error) {
	res, err := r.db.Conn().Exec(
		`DELETE FROM analysis_runs WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune analysis runs: %w", err)
	}
	return res.RowsAffected()
}
