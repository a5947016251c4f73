package journal

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"candlescope/internal/model"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

var log = logrus.WithField("component", "journal")

// SQLiteRecorder persists measurements to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite journal opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS measurements (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			interval       TEXT NOT NULL,
			kind           TEXT NOT NULL,
			group_id       TEXT,
			start_x        REAL,
			end_x          REAL,
			start_price    REAL,
			end_price      REAL,
			tap            INTEGER,
			bars           INTEGER,
			min_low        REAL,
			max_high       REAL,
			avg            REAL,
			change         REAL,
			change_percent REAL,
			volume         REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_measurements_symbol_ts ON measurements(symbol, timestamp)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Record implements Recorder.
func (r *SQLiteRecorder) Record(e Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(`INSERT INTO measurements
		(timestamp, symbol, interval, kind, group_id, start_x, end_x, start_price, end_price,
		 tap, bars, min_low, max_high, avg, change, change_percent, volume)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.RecordedAt.UnixMilli(), e.Symbol, string(e.Interval), e.Kind, e.GroupID,
		e.StartX, e.EndX, e.StartPrice, e.EndPrice,
		e.Tap, e.Bars, e.MinLow, e.MaxHigh, e.Avg, e.Change, e.ChangePercent, e.Volume,
	)
	if err != nil {
		return fmt.Errorf("insert measurement: %w", err)
	}
	return nil
}

// Recent implements Recorder, newest first.
func (r *SQLiteRecorder) Recent(symbol string, limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(`SELECT id, timestamp, symbol, interval, kind, group_id,
		start_x, end_x, start_price, end_price, tap, bars,
		min_low, max_high, avg, change, change_percent, volume
		FROM measurements WHERE symbol = ? ORDER BY id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			ts       int64
			interval string
		)
		if err := rows.Scan(&e.ID, &ts, &e.Symbol, &interval, &e.Kind, &e.GroupID,
			&e.StartX, &e.EndX, &e.StartPrice, &e.EndPrice, &e.Tap, &e.Bars,
			&e.MinLow, &e.MaxHigh, &e.Avg, &e.Change, &e.ChangePercent, &e.Volume); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		e.RecordedAt = time.UnixMilli(ts).UTC()
		e.Interval = model.Interval(interval)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close implements Recorder.
func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite journal")
	return r.db.Close()
}
