package recorder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	_ "modernc.org/sqlite"

	"SIPAdvisor/internal/model"
)

// SQLiteRecorder persists evaluation history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger arbor.ILogger
	now    func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger arbor.ILogger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("SQLite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id      TEXT NOT NULL UNIQUE,
			timestamp     INTEGER NOT NULL,
			source        TEXT,
			instrument_id TEXT NOT NULL,
			name          TEXT,
			category      TEXT,
			kind          TEXT,
			lookback      TEXT,
			start_date    TEXT,
			end_date      TEXT,
			start_value   REAL,
			end_value     REAL,
			pct_return    REAL,
			signal        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_eval_instrument ON evaluations(instrument_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS projections (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id        TEXT NOT NULL UNIQUE,
			timestamp       INTEGER NOT NULL,
			source          TEXT,
			monthly_amount  REAL,
			years           INTEGER,
			annual_rate_pct REAL,
			invested        REAL,
			future_value    REAL,
			gain            REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_proj_ts ON projections(timestamp)`,

		`CREATE TABLE IF NOT EXISTS scans (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id   TEXT NOT NULL UNIQUE,
			timestamp  INTEGER NOT NULL,
			query      TEXT,
			lookback   TEXT,
			evaluated  INTEGER,
			ranked     INTEGER,
			skipped    INTEGER,
			top_id     TEXT,
			top_return REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_ts ON scans(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordEvaluation(ctx context.Context, evt *EvaluationEvent) error {
	if evt.Result == nil {
		return fmt.Errorf("%w: evaluation without result", model.ErrInvalidInput)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	res := evt.Result
	_, err := r.db.ExecContext(ctx, `INSERT INTO evaluations
		(event_id, timestamp, source, instrument_id, name, category, kind, lookback,
		 start_date, end_date, start_value, end_value, pct_return, signal)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		uuid.New().String(), r.now().UnixNano(), evt.Source,
		evt.Instrument.ID, evt.Instrument.Name, evt.Instrument.Category, string(evt.Instrument.Kind),
		string(res.Window), res.StartDate.Format(time.RFC3339), res.EndDate.Format(time.RFC3339),
		res.StartValue, res.EndValue, res.PctReturn, string(res.Signal),
	)
	return err
}

func (r *SQLiteRecorder) RecordProjection(ctx context.Context, evt *ProjectionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO projections
		(event_id, timestamp, source, monthly_amount, years, annual_rate_pct, invested, future_value, gain)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		uuid.New().String(), r.now().UnixNano(), evt.Source,
		evt.Plan.MonthlyAmount, evt.Plan.Years, evt.Plan.AnnualRatePct,
		evt.Projection.Invested, evt.Projection.FutureValue, evt.Projection.Gain,
	)
	return err
}

func (r *SQLiteRecorder) RecordScan(ctx context.Context, evt *ScanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `INSERT INTO scans
		(event_id, timestamp, query, lookback, evaluated, ranked, skipped, top_id, top_return)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		uuid.New().String(), r.now().UnixNano(), evt.Query, string(evt.Window),
		evt.Evaluated, evt.Ranked, evt.Skipped, evt.TopID, evt.TopReturn,
	)
	return err
}

func (r *SQLiteRecorder) LastSignal(ctx context.Context, instrumentID string, window model.LookbackWindow) (model.Signal, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var signal string
	err := r.db.QueryRowContext(ctx, `SELECT signal FROM evaluations
		WHERE instrument_id = ? AND lookback = ?
		ORDER BY timestamp DESC, id DESC LIMIT 1`, instrumentID, string(window)).Scan(&signal)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query last signal: %w", err)
	}
	return model.Signal(signal), true, nil
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("Closing SQLite recorder")
	return r.db.Close()
}
