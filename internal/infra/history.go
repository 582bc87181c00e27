package infra

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sqlcipher "github.com/mutecomm/go-sqlcipher/v4"

	"github.com/eliteGoblin/focusd/winsnap/internal/domain"
)

// Ensure sqlcipher driver is registered.
var _ = sqlcipher.ErrBusy

const historyDBName = "history.db"

// EncryptedHistory implements domain.RestoreHistory on a SQLCipher database.
// Window titles can leak document names, so the file is encrypted.
type EncryptedHistory struct {
	db     *sql.DB
	dbPath string
}

// NewEncryptedHistory opens (or creates) <dataDir>/history.db with key.
func NewEncryptedHistory(dataDir string, key []byte) (*EncryptedHistory, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, historyDBName)
	dsn := fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", dbPath, hex.EncodeToString(key))
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	// A wrong key only surfaces on first use.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	h := &EncryptedHistory{db: db, dbPath: dbPath}
	if err := h.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return h, nil
}

// OpenHistory resolves the key through kp and opens the history database.
func OpenHistory(dataDir string, kp domain.KeyProvider) (*EncryptedHistory, error) {
	key, err := kp.LoadOrCreate()
	if err != nil {
		return nil, err
	}
	return NewEncryptedHistory(dataDir, key)
}

func (h *EncryptedHistory) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS restore_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		snapshot TEXT NOT NULL,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		total INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS restore_outcomes (
		run_id INTEGER NOT NULL REFERENCES restore_runs(id) ON DELETE CASCADE,
		outcome TEXT NOT NULL,
		count INTEGER NOT NULL,
		PRIMARY KEY (run_id, outcome)
	);
	`
	_, err := h.db.Exec(schema)
	return err
}

// Record stores a summary of r.
func (h *EncryptedHistory) Record(r domain.RestoreReport) error {
	tx, err := h.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO restore_runs (snapshot, started_at, finished_at, total)
		VALUES (?, ?, ?, ?)`,
		r.Snapshot, r.StartedAt.UnixMilli(), r.FinishedAt.UnixMilli(), len(r.Entries),
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for outcome, n := range r.Counts() {
		if _, err := tx.Exec(`INSERT INTO restore_outcomes (run_id, outcome, count) VALUES (?, ?, ?)`,
			runID, string(outcome), n); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Recent returns up to limit runs, newest first.
func (h *EncryptedHistory) Recent(limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := h.db.Query(`
		SELECT id, snapshot, started_at, finished_at, total
		FROM restore_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var started, finished int64
		if err := rows.Scan(&e.ID, &e.Snapshot, &started, &finished, &e.Total); err != nil {
			rows.Close()
			return nil, err
		}
		e.StartedAt = time.UnixMilli(started)
		e.FinishedAt = time.UnixMilli(finished)
		e.Counts = make(map[domain.RestoreOutcome]int)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range entries {
		if err := h.loadCounts(&entries[i]); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (h *EncryptedHistory) loadCounts(e *domain.HistoryEntry) error {
	rows, err := h.db.Query(`SELECT outcome, count FROM restore_outcomes WHERE run_id = ?`, e.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return err
		}
		e.Counts[domain.RestoreOutcome(outcome)] = n
	}
	return rows.Err()
}

// Path returns the database file path.
func (h *EncryptedHistory) Path() string {
	return h.dbPath
}

// Close releases the database connection.
func (h *EncryptedHistory) Close() error {
	if h.db != nil {
		return h.db.Close()
	}
	return nil
}

// Ensure EncryptedHistory implements domain.RestoreHistory.
var _ domain.RestoreHistory = (*EncryptedHistory)(nil)
