package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"marketplace-api/internal/model"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// ArchivedEntry is one audit log entry as stored in the archive, with the
// raw JSON line preserved alongside the indexed columns.
type ArchivedEntry struct {
	ID        int64  `json:"id"`
	Stream    string `json:"stream"`
	TS        string `json:"ts"`
	Action    string `json:"action"`
	Username  string `json:"username,omitempty"`
	IP        string `json:"ip,omitempty"`
	Entry     string `json:"entry"`
	CreatedAt string `json:"created_at"`
}

// AuditArchive indexes audit log entries into a queryable table. All writes
// are best-effort from the logger's point of view.
type AuditArchive interface {
	Insert(ctx context.Context, stream string, entry model.LogEntry, raw []byte) error
	List(ctx context.Context, stream string, limit, offset int) ([]ArchivedEntry, int64, error)
	Close() error
}

// SQLiteAuditArchive implements AuditArchive using SQLite.
type SQLiteAuditArchive struct {
	db *sql.DB
}

// NewSQLiteAuditArchive opens (or creates) the archive database.
func NewSQLiteAuditArchive(dbPath string) (*SQLiteAuditArchive, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := createAuditTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	log.Printf("[SQLiteAuditArchive] Initialized with database: %s", dbPath)
	return &SQLiteAuditArchive{db: db}, nil
}

func createAuditTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		stream TEXT NOT NULL,
		ts TEXT NOT NULL,
		action TEXT NOT NULL,
		username TEXT DEFAULT '',
		ip TEXT DEFAULT '',
		entry TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_stream ON audit_log(stream);
	CREATE INDEX IF NOT EXISTS idx_audit_action ON audit_log(action);
	CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_log(created_at);
	`
	_, err := db.Exec(query)
	return err
}

// Insert records one entry with its raw JSON line.
func (a *SQLiteAuditArchive) Insert(ctx context.Context, stream string, entry model.LogEntry, raw []byte) error {
	ip := ""
	if entry.IP != nil {
		ip = *entry.IP
	}

	query := `
		INSERT INTO audit_log (stream, ts, action, username, ip, entry, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err := a.db.ExecContext(ctx, query,
		stream, entry.TS, entry.Action, entry.Username, ip, string(raw), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// List returns newest-first entries, optionally filtered by stream, with the
// total count for pagination.
func (a *SQLiteAuditArchive) List(ctx context.Context, stream string, limit, offset int) ([]ArchivedEntry, int64, error) {
	where := ""
	args := []any{}
	if stream != "" {
		where = "WHERE stream = ?"
		args = append(args, stream)
	}

	query := fmt.Sprintf(`
		SELECT id, stream, ts, action, username, ip, entry, created_at
		FROM audit_log %s
		ORDER BY id DESC
		LIMIT ? OFFSET ?`, where)
	args = append(args, limit, offset)

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	entries := []ArchivedEntry{}
	for rows.Next() {
		var e ArchivedEntry
		if err := rows.Scan(&e.ID, &e.Stream, &e.TS, &e.Action, &e.Username, &e.IP, &e.Entry, &e.CreatedAt); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := "SELECT COUNT(*) FROM audit_log"
	countArgs := []any{}
	if stream != "" {
		countQuery += " WHERE stream = ?"
		countArgs = append(countArgs, stream)
	}

	var total int64
	if err := a.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// Close closes the archive database.
func (a *SQLiteAuditArchive) Close() error {
	return a.db.Close()
}
