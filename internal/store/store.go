// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/keycast/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a named recording does not exist.
var ErrNotFound = errors.New("recording not found")

// ErrExists is returned when a recording name is already taken.
var ErrExists = errors.New("recording already exists")

// Store wraps SQLite access for recorded event streams.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS recordings (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			key_mode TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS recording_events (
			recording_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			offset_ms INTEGER NOT NULL,
			symbol TEXT NOT NULL,
			string TEXT NOT NULL,
			pressed INTEGER NOT NULL,
			repeated INTEGER NOT NULL,
			filtered INTEGER NOT NULL,
			mods INTEGER NOT NULL,
			code INTEGER NOT NULL,
			PRIMARY KEY (recording_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_recording_events_symbol ON recording_events(symbol);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// InsertRecording stores a named event stream. Event times are kept as
// millisecond offsets from the first event.
func (s *Store) InsertRecording(ctx context.Context, name string, mode model.KeyMode, events []model.KeyEvent, createdAt time.Time) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM recordings WHERE name = ?`, name).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists > 0 {
		err = fmt.Errorf("%w: %s", ErrExists, name)
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO recordings (name, created_at, key_mode) VALUES (?, ?, ?)`,
		name, createdAt.Format(time.RFC3339Nano), string(mode))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(events) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO recording_events (recording_id, seq, offset_ms, symbol, string, pressed, repeated, filtered, mods, code)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		start := events[0].Time
		for i, ev := range events {
			offset := ev.Time.Sub(start).Milliseconds()
			if offset < 0 {
				offset = 0
			}
			if _, err = stmt.ExecContext(ctx, id, i, offset, ev.Symbol, ev.String,
				boolInt(ev.Pressed), boolInt(ev.Repeated), boolInt(ev.Filtered), int(ev.Mods), ev.Code); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListRecordings returns all recordings, newest first.
func (s *Store) ListRecordings(ctx context.Context) ([]model.Recording, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT r.id, r.name, r.created_at, r.key_mode,
		COUNT(e.seq), COALESCE(MAX(e.offset_ms), 0)
		FROM recordings r
		LEFT JOIN recording_events e ON e.recording_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC, r.id DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.Recording
	for rows.Next() {
		rec, err := scanRecording(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecording(row scanner) (model.Recording, error) {
	var rec model.Recording
	var createdAt, mode string
	var durationMs int64
	if err := row.Scan(&rec.ID, &rec.Name, &createdAt, &mode, &rec.Events, &durationMs); err != nil {
		return model.Recording{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Recording{}, err
	}
	rec.CreatedAt = parsed
	rec.KeyMode = model.KeyMode(mode)
	rec.Duration = time.Duration(durationMs) * time.Millisecond
	return rec, nil
}

// GetRecording looks up a recording by name.
func (s *Store) GetRecording(ctx context.Context, name string) (model.Recording, error) {
	row := s.db.QueryRowContext(ctx, `SELECT r.id, r.name, r.created_at, r.key_mode,
		COUNT(e.seq), COALESCE(MAX(e.offset_ms), 0)
		FROM recordings r
		LEFT JOIN recording_events e ON e.recording_id = r.id
		WHERE r.name = ?
		GROUP BY r.id`, name)
	rec, err := scanRecording(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Recording{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return rec, err
}

// LoadEvents returns a recording and its events in capture order. Event
// times are rebuilt from the recording creation time plus each offset.
func (s *Store) LoadEvents(ctx context.Context, name string) (model.Recording, []model.KeyEvent, error) {
	rec, err := s.GetRecording(ctx, name)
	if err != nil {
		return model.Recording{}, nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT offset_ms, symbol, string, pressed, repeated, filtered, mods, code
		FROM recording_events
		WHERE recording_id = ?
		ORDER BY seq ASC`, rec.ID)
	if err != nil {
		return model.Recording{}, nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	events := make([]model.KeyEvent, 0, rec.Events)
	for rows.Next() {
		var ev model.KeyEvent
		var offset int64
		var pressed, repeated, filtered, mods int
		if err := rows.Scan(&offset, &ev.Symbol, &ev.String, &pressed, &repeated, &filtered, &mods, &ev.Code); err != nil {
			return model.Recording{}, nil, err
		}
		ev.Pressed = pressed != 0
		ev.Repeated = repeated != 0
		ev.Filtered = filtered != 0
		ev.Mods = model.ModState(mods)
		ev.Time = rec.CreatedAt.Add(time.Duration(offset) * time.Millisecond)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return model.Recording{}, nil, err
	}
	return rec, events, nil
}

// DeleteRecording removes a recording and its events.
func (s *Store) DeleteRecording(ctx context.Context, name string) (err error) {
	rec, err := s.GetRecording(ctx, name)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM recording_events WHERE recording_id = ?`, rec.ID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM recordings WHERE id = ?`, rec.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// SymbolCounts aggregates presses and auto-repeats per symbol for a recording.
func (s *Store) SymbolCounts(ctx context.Context, name string) ([]model.SymbolCount, error) {
	rec, err := s.GetRecording(ctx, name)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT symbol,
		SUM(CASE WHEN repeated = 0 THEN 1 ELSE 0 END) AS presses,
		SUM(repeated) AS repeats
		FROM recording_events
		WHERE recording_id = ? AND pressed = 1 AND filtered = 0
		GROUP BY symbol`, rec.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SymbolCount
	for rows.Next() {
		var sc model.SymbolCount
		if err := rows.Scan(&sc.Symbol, &sc.Presses, &sc.Repeats); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
