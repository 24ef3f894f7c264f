package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"BreakoutBoard/internal/model"
)

// SQLiteStore persists candle history and backtest runs to a SQLite
// database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboard reads don't block refresh writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_data (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			source    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			open      REAL NOT NULL,
			high      REAL NOT NULL,
			low       REAL NOT NULL,
			close     REAL NOT NULL,
			volume    REAL NOT NULL,
			UNIQUE(source, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_source_ts ON price_data(source, timestamp)`,

		`CREATE TABLE IF NOT EXISTS data_sources (
			source           TEXT PRIMARY KEY,
			display_name     TEXT NOT NULL,
			status           TEXT NOT NULL,
			last_updated     INTEGER,
			total_candles    INTEGER DEFAULT 0,
			date_range_start INTEGER,
			date_range_end   INTEGER,
			error_message    TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS backtest_results (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			source     TEXT NOT NULL,
			parameters TEXT NOT NULL,
			result     TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtest_source ON backtest_results(source, created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) SaveCandles(source string, candles []model.Candle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO price_data (source, timestamp, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(source, timestamp) DO UPDATE SET
			open=excluded.open, high=excluded.high, low=excluded.low,
			close=excluded.close, volume=excluded.volume`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.Exec(source, c.Time.UnixMilli(), c.Open, c.High, c.Low, c.Close, c.Volume); err != nil {
			return fmt.Errorf("upsert candle %s: %w", c.Time, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Candles(source string) ([]model.Candle, error) {
	rows, err := s.db.Query(`SELECT timestamp, open, high, low, close, volume
		FROM price_data WHERE source = ? ORDER BY timestamp`, source)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Candle
	for rows.Next() {
		var ts int64
		var c model.Candle
		if err := rows.Scan(&ts, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, err
		}
		c.Time = time.UnixMilli(ts).UTC()
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SetSourceStatus(info model.SourceInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var lastUpdated, rangeStart, rangeEnd any
	if info.LastUpdated != nil {
		lastUpdated = info.LastUpdated.UnixMilli()
	}
	if info.RangeStart != nil {
		rangeStart = info.RangeStart.UnixMilli()
	}
	if info.RangeEnd != nil {
		rangeEnd = info.RangeEnd.UnixMilli()
	}

	_, err := s.db.Exec(`INSERT INTO data_sources
		(source, display_name, status, last_updated, total_candles, date_range_start, date_range_end, error_message)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(source) DO UPDATE SET
			display_name=excluded.display_name, status=excluded.status,
			last_updated=excluded.last_updated, total_candles=excluded.total_candles,
			date_range_start=excluded.date_range_start, date_range_end=excluded.date_range_end,
			error_message=excluded.error_message`,
		info.Name, info.DisplayName, info.Status, lastUpdated,
		info.TotalCandles, rangeStart, rangeEnd, info.ErrorMessage,
	)
	return err
}

func (s *SQLiteStore) RecordBacktest(result *model.BacktestResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	params, err := json.Marshal(result.Params)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`INSERT INTO backtest_results (source, parameters, result, created_at)
		VALUES (?,?,?,?)`,
		result.Source, string(params), string(payload), time.Now().UnixMilli(),
	)
	return err
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}
