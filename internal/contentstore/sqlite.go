// Package contentstore reads and writes reviewed chunk sets in SQLite. It is
// the bulk replacement channel used by the sync command.
package contentstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"prospectus/internal/domain"
)

// SQLiteSource implements domain.ChunkSource using modernc.org/sqlite.
type SQLiteSource struct {
	db *sql.DB
}

var _ domain.ChunkSource = (*SQLiteSource)(nil)

// OpenSQLite opens the database at dsn, configures WAL mode and creates the
// schema when missing.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	s := &SQLiteSource{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS content_chunks (
	position      INTEGER PRIMARY KEY AUTOINCREMENT,
	id            TEXT NOT NULL DEFAULT '',
	text          TEXT NOT NULL,
	page          INTEGER NOT NULL DEFAULT 0,
	tag           TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL DEFAULT '',
	filename      TEXT NOT NULL DEFAULT '',
	section_title TEXT NOT NULL DEFAULT '',
	created_at    DATETIME
);
`

func (s *SQLiteSource) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

// LoadChunks returns every stored chunk in insertion order. Missing fields
// come back as zero values for the caller to default.
func (s *SQLiteSource) LoadChunks(ctx context.Context) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, page, tag, status, filename, section_title, created_at
		 FROM content_chunks ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query chunks")
	}
	defer rows.Close()

	var out []domain.Chunk
	for rows.Next() {
		var (
			c       domain.Chunk
			tag     string
			status  string
			created sql.NullTime
		)
		if err := rows.Scan(&c.ID, &c.Text, &c.Page, &tag, &status, &c.Filename, &c.SectionTitle, &created); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan chunk")
		}
		c.Tag = domain.Tag(tag)
		c.Status = domain.Status(status)
		if created.Valid {
			c.Timestamp = created.Time
		}
		out = append(out, c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate chunks")
}

// SaveChunks replaces the stored set with chunks in one transaction.
func (s *SQLiteSource) SaveChunks(ctx context.Context, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM content_chunks`); err != nil {
		return eris.Wrap(err, "sqlite: clear chunks")
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO content_chunks (id, text, page, tag, status, filename, section_title, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for _, c := range chunks {
		ts := c.Timestamp
		if ts.IsZero() {
			ts = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Text, c.Page, string(c.Tag), string(c.Status),
			c.Filename, c.SectionTitle, ts.UTC()); err != nil {
			return eris.Wrapf(err, "sqlite: insert chunk %s", c.ID)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit")
}
