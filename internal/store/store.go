// Package store persists comparison reports in a local SQLite database
// so past runs can be listed and re-rendered. Payloads are stored as
// zstd-compressed JSON; change trees for large files compress well.
package store

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite"

	"structdiff/internal/errors"
	"structdiff/internal/logging"
	"structdiff/internal/render"
	"structdiff/internal/structural"
)

// ReportsDatabaseFile is the database filename under the state directory.
const ReportsDatabaseFile = "reports.db"

// timeFormat is fixed-width so ORDER BY created_at sorts correctly as
// text; RFC3339Nano trims trailing zeros and does not.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Store provides persistence for comparison reports.
type Store struct {
	conn    *sql.DB
	logger  *logging.Logger
	dbPath  string
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// Entry is one row of report history without its payload.
type Entry struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"createdAt"`
	OldLabel  string              `json:"oldLabel"`
	NewLabel  string              `json:"newLabel"`
	Summary   *structural.Summary `json:"summary"`
}

// Open opens or creates the reports database under stateDir.
func Open(stateDir string, logger *logging.Logger) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, errors.New(errors.StoreUnavailable, "failed to create state directory", err)
	}

	dbPath := filepath.Join(stateDir, ReportsDatabaseFile)
	dbExists := fileExists(dbPath)

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.New(errors.StoreUnavailable, "failed to open reports database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, errors.New(errors.StoreUnavailable, "failed to set pragma", err)
		}
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = conn.Close()
		return nil, errors.New(errors.InternalError, "failed to create zstd encoder", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		_ = conn.Close()
		return nil, errors.New(errors.InternalError, "failed to create zstd decoder", err)
	}

	store := &Store{
		conn:    conn,
		logger:  logger,
		dbPath:  dbPath,
		encoder: encoder,
		decoder: decoder,
	}

	if !dbExists {
		logger.Info("creating reports database", map[string]interface{}{
			"path": dbPath,
		})
	}
	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, errors.New(errors.StoreUnavailable, "failed to initialize reports schema", err)
	}

	return store, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (s *Store) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			old_label TEXT NOT NULL,
			new_label TEXT NOT NULL,
			summary_json TEXT NOT NULL,
			payload BLOB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at DESC);

		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Close releases the database handle and the compression contexts.
func (s *Store) Close() error {
	s.encoder.Close()
	s.decoder.Close()
	return s.conn.Close()
}

// Save persists one report and returns its id.
func (s *Store) Save(report *render.Report) (string, error) {
	if report == nil {
		return "", errors.New(errors.InvalidArgument, "report must not be nil", nil)
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return "", errors.New(errors.InternalError, "failed to encode report", err)
	}
	compressed := s.encoder.EncodeAll(payload, nil)

	summaryJSON, err := json.Marshal(report.Summary)
	if err != nil {
		return "", errors.New(errors.InternalError, "failed to encode summary", err)
	}

	id := uuid.NewString()
	createdAt := report.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.conn.Exec(
		`INSERT INTO reports (id, created_at, old_label, new_label, summary_json, payload)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, createdAt.UTC().Format(timeFormat), report.OldPath, report.NewPath, string(summaryJSON), compressed,
	)
	if err != nil {
		return "", errors.New(errors.StoreUnavailable, "failed to save report", err)
	}

	s.logger.Debug("saved report", map[string]interface{}{
		"id":         id,
		"payload":    len(payload),
		"compressed": len(compressed),
	})
	return id, nil
}

// List returns report history newest first, up to limit rows. A limit
// of zero or less means no limit.
func (s *Store) List(limit int) ([]Entry, error) {
	query := `SELECT id, created_at, old_label, new_label, summary_json FROM reports ORDER BY created_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, errors.New(errors.StoreUnavailable, "failed to list reports", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdAt, summaryJSON string
		if err := rows.Scan(&e.ID, &createdAt, &e.OldLabel, &e.NewLabel, &summaryJSON); err != nil {
			return nil, errors.New(errors.StoreUnavailable, "failed to scan report row", err)
		}
		if t, err := time.Parse(timeFormat, createdAt); err == nil {
			e.CreatedAt = t
		}
		if err := json.Unmarshal([]byte(summaryJSON), &e.Summary); err != nil {
			return nil, errors.New(errors.InternalError, "failed to decode summary", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get loads one stored report by id.
func (s *Store) Get(id string) (*render.Report, error) {
	var compressed []byte
	err := s.conn.QueryRow(`SELECT payload FROM reports WHERE id = ?`, id).Scan(&compressed)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.ReportNotFound, "no report with id %s", id)
	}
	if err != nil {
		return nil, errors.New(errors.StoreUnavailable, "failed to load report", err)
	}

	payload, err := s.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, errors.New(errors.InternalError, "failed to decompress report", err)
	}

	var report render.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, errors.New(errors.InternalError, "failed to decode report", err)
	}
	return &report, nil
}
