// Package store persists a candidate.Dictionary: a SQLite database queried
// by reading, plus flat JSON, text and gob exports.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/temporal-IPA/tonedict/pkg/candidate"
)

// ErrNotFound is returned by Lookup for an unknown reading.
var ErrNotFound = errors.New("reading not found")

var schema = []string{
	`CREATE TABLE reading_char(
		reading   TEXT    NOT NULL,
		char      TEXT    NOT NULL,
		frequency REAL    NOT NULL,
		rare_tone INTEGER NOT NULL,
		rank      INTEGER NOT NULL,
		PRIMARY KEY (reading, char)
	) WITHOUT ROWID`,
	`CREATE TABLE reading_candidates(
		reading    TEXT PRIMARY KEY,
		candidates TEXT NOT NULL
	) WITHOUT ROWID`,
	`CREATE TABLE build_info(
		id       TEXT PRIMARY KEY,
		built_at TEXT    NOT NULL,
		entries  INTEGER NOT NULL,
		readings INTEGER NOT NULL
	)`,
}

// BuildInfo identifies one build of a database.
type BuildInfo struct {
	ID       uuid.UUID
	BuiltAt  time.Time
	Entries  int
	Readings int
}

// WriteSQLite writes dict to a fresh SQLite database at path and returns
// the recorded build information. The database is assembled next to path
// and renamed into place, so an existing database is only replaced by a
// complete one.
//
// reading_char holds one row per candidate with its rank (0 first);
// reading_candidates holds the space-joined candidates of every reading.
func WriteSQLite(ctx context.Context, path string, dict *candidate.Dictionary) (BuildInfo, error) {
	info := BuildInfo{
		ID:       uuid.New(),
		BuiltAt:  time.Now().UTC().Truncate(time.Second),
		Readings: dict.Len(),
	}

	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		return info, fmt.Errorf("remove %s: %w", tmp, err)
	}
	db, err := sql.Open("sqlite", tmp)
	if err != nil {
		return info, fmt.Errorf("open %s: %w", tmp, err)
	}

	if err := writeTables(ctx, db, dict, &info); err != nil {
		db.Close()
		os.Remove(tmp)
		return info, err
	}
	if err := db.Close(); err != nil {
		os.Remove(tmp)
		return info, fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return info, fmt.Errorf("rename %s: %w", tmp, err)
	}
	return info, nil
}

func writeTables(ctx context.Context, db *sql.DB, dict *candidate.Dictionary, info *BuildInfo) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	charStmt, err := tx.PrepareContext(ctx, `INSERT INTO reading_char(reading, char, frequency, rare_tone, rank) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare reading_char: %w", err)
	}
	defer charStmt.Close()
	listStmt, err := tx.PrepareContext(ctx, `INSERT INTO reading_candidates(reading, candidates) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare reading_candidates: %w", err)
	}
	defer listStmt.Close()

	for _, reading := range dict.Keys() {
		cands := dict.Lookup(reading)
		chars := make([]string, len(cands))
		for rank, c := range cands {
			rare := 0
			if c.RareTone {
				rare = 1
			}
			if _, err := charStmt.ExecContext(ctx, reading, c.Char, c.Frequency, rare, rank); err != nil {
				return fmt.Errorf("insert %s/%s: %w", reading, c.Char, err)
			}
			chars[rank] = c.Char
		}
		if _, err := listStmt.ExecContext(ctx, reading, strings.Join(chars, " ")); err != nil {
			return fmt.Errorf("insert %s: %w", reading, err)
		}
		info.Entries += len(cands)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO build_info(id, built_at, entries, readings) VALUES (?, ?, ?, ?)`,
		info.ID.String(), info.BuiltAt.Format(time.RFC3339), info.Entries, info.Readings); err != nil {
		return fmt.Errorf("insert build_info: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Store is a read-only handle on a database written by WriteSQLite.
type Store struct {
	db *sql.DB
}

// Open opens the database at path read-only.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Lookup returns the candidates of a canonical reading in rank order.
// It returns ErrNotFound for an unknown reading.
func (s *Store) Lookup(ctx context.Context, reading string) ([]candidate.Candidate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT char, frequency, rare_tone FROM reading_char WHERE reading = ? ORDER BY rank`, reading)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", reading, err)
	}
	defer rows.Close()

	var out []candidate.Candidate
	for rows.Next() {
		var c candidate.Candidate
		if err := rows.Scan(&c.Char, &c.Frequency, &c.RareTone); err != nil {
			return nil, fmt.Errorf("lookup %s: %w", reading, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lookup %s: %w", reading, err)
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Dictionary loads the whole database back into memory.
func (s *Store) Dictionary(ctx context.Context) (*candidate.Dictionary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT reading, char, frequency, rare_tone FROM reading_char ORDER BY reading, rank`)
	if err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	defer rows.Close()

	dict := &candidate.Dictionary{Readings: make(map[string][]candidate.Candidate)}
	for rows.Next() {
		var reading string
		var c candidate.Candidate
		if err := rows.Scan(&reading, &c.Char, &c.Frequency, &c.RareTone); err != nil {
			return nil, fmt.Errorf("load dictionary: %w", err)
		}
		dict.Readings[reading] = append(dict.Readings[reading], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load dictionary: %w", err)
	}
	return dict, nil
}

// BuildInfo returns the build information recorded in the database.
func (s *Store) BuildInfo(ctx context.Context) (BuildInfo, error) {
	var info BuildInfo
	var id, builtAt string
	err := s.db.QueryRowContext(ctx, `SELECT id, built_at, entries, readings FROM build_info LIMIT 1`).
		Scan(&id, &builtAt, &info.Entries, &info.Readings)
	if err != nil {
		return info, fmt.Errorf("build info: %w", err)
	}
	if info.ID, err = uuid.Parse(id); err != nil {
		return info, fmt.Errorf("build info id: %w", err)
	}
	if info.BuiltAt, err = time.Parse(time.RFC3339, builtAt); err != nil {
		return info, fmt.Errorf("build info time: %w", err)
	}
	return info, nil
}
