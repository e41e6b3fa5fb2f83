package audio

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS hash_data(
		hash TEXT PRIMARY KEY,
		data BLOB NOT NULL
	) WITHOUT ROWID`,
	`CREATE TABLE IF NOT EXISTS audio_key(
		key  TEXT PRIMARY KEY,
		hash TEXT NOT NULL
	) WITHOUT ROWID`,
}

// Store caches synthesized audio in a SQLite database.
type Store struct {
	db    *sql.DB
	synth Synthesizer
}

// OpenStore opens or creates the audio database at path. synth may be nil
// for a store that is only read.
func OpenStore(ctx context.Context, path string, synth Synthesizer) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audio store %s: %w", path, err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create audio schema: %w", err)
		}
	}
	return &Store{db: db, synth: synth}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Key returns the cache key of a request. A single character is
// pronounced from its reading alone, so all characters sharing a reading
// share one sample. Words are synthesized from their characters, letting
// the synthesizer apply tone sandhi, and are keyed by them.
func Key(chars, reading string) string {
	if utf8.RuneCountInString(chars) == 1 {
		return reading
	}
	return chars
}

// ContentHash is the hex SHA-1 of data.
func ContentHash(data []byte) string {
	h := sha1.Sum(data)
	return hex.EncodeToString(h[:])
}

// Ensure returns the content hash of the audio of (chars, reading),
// synthesizing and storing it the first time only.
func (s *Store) Ensure(ctx context.Context, chars, reading string) (string, error) {
	key := Key(chars, reading)
	hash, err := s.hashOf(ctx, key)
	if err == nil {
		return hash, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	if s.synth == nil {
		return "", fmt.Errorf("audio for %s: no synthesizer", key)
	}

	text, ssml := chars, false
	if key == reading {
		text, ssml = ReadingSSML(reading), true
	}
	data, err := s.synth.Synthesize(ctx, text, ssml)
	if err != nil {
		return "", err
	}
	hash = ContentHash(data)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("audio for %s: %w", key, err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO hash_data(hash, data) VALUES (?, ?)`, hash, data); err != nil {
		return "", fmt.Errorf("store audio %s: %w", hash, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO audio_key(key, hash) VALUES (?, ?)`, key, hash); err != nil {
		return "", fmt.Errorf("store audio key %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("audio for %s: %w", key, err)
	}
	return hash, nil
}

func (s *Store) hashOf(ctx context.Context, key string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT hash FROM audio_key WHERE key = ?`, key).Scan(&hash)
	return hash, err
}

// Data returns the audio stored under hash.
func (s *Store) Data(ctx context.Context, hash string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM hash_data WHERE hash = ?`, hash).Scan(&data)
	if err != nil {
		return nil, fmt.Errorf("audio %s: %w", hash, err)
	}
	return data, nil
}

// Counts returns the number of keys and of distinct audio samples.
func (s *Store) Counts(ctx context.Context) (keys, samples int, err error) {
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audio_key`).Scan(&keys); err != nil {
		return 0, 0, err
	}
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hash_data`).Scan(&samples); err != nil {
		return 0, 0, err
	}
	return keys, samples, nil
}

// FilePath returns the relative path of a sample in an exported tree:
// single_char/<reading>.mp3 for characters, and
// multi_char/<b1>/<b2>/<b3>/<chars>.mp3 for words, where b1..b3 are the
// first UTF-8 bytes of the word in hex.
func FilePath(chars, reading string) string {
	if utf8.RuneCountInString(chars) == 1 {
		return filepath.Join("single_char", reading+".mp3")
	}
	parts := []string{"multi_char"}
	for i := 0; i < len(chars) && i < 3; i++ {
		parts = append(parts, fmt.Sprintf("%X", chars[i]))
	}
	parts = append(parts, chars+".mp3")
	return filepath.Join(parts...)
}

// Export writes the audio of (chars, reading) under dir at FilePath,
// unless the file already exists.
func (s *Store) Export(ctx context.Context, dir, chars, reading string) (string, error) {
	path := filepath.Join(dir, FilePath(chars, reading))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	hash, err := s.hashOf(ctx, Key(chars, reading))
	if err != nil {
		return "", fmt.Errorf("export %s: %w", chars, err)
	}
	data, err := s.Data(ctx, hash)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
