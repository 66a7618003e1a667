package options

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/JaimeStill/newsqual/pkg/repository"
)

// Store persists the option bank document. Writes replace the whole document.
type Store interface {
	// Initialized reports whether a document has ever been written.
	Initialized(ctx context.Context) (bool, error)
	// Read returns the stored document.
	Read(ctx context.Context) ([]byte, error)
	// Write replaces the stored document.
	Write(ctx context.Context, data []byte) error
}

const firstRunMarker = "First run completed"

// FileStore keeps the document in a JSON file. A separate flag file records
// that the first run has completed.
type FileStore struct {
	path string
	flag string
}

// NewFileStore creates a store for the document at path with its first-run
// flag at flag.
func NewFileStore(path, flag string) *FileStore {
	return &FileStore{path: path, flag: flag}
}

func (s *FileStore) Initialized(ctx context.Context) (bool, error) {
	_, err := os.Stat(s.flag)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("check first run flag: %w", err)
}

func (s *FileStore) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, nil
}

// Write replaces the document through a temporary file and rename, then
// creates the first-run flag if it is missing.
func (s *FileStore) Write(ctx context.Context, data []byte) error {
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}

	ok, err := s.Initialized(ctx)
	if err != nil {
		return err
	}
	if !ok {
		if err := writeFileAtomic(s.flag, []byte(firstRunMarker)); err != nil {
			return fmt.Errorf("write %s: %w", s.flag, err)
		}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".options-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

const bankRowID = 1

// DBStore keeps the document in the single-row option_bank table on
// PostgreSQL or SQLite.
type DBStore struct {
	db     *sql.DB
	driver string
}

// NewDBStore creates a store over db. driver selects placeholder syntax.
func NewDBStore(db *sql.DB, driver string) *DBStore {
	return &DBStore{db: db, driver: driver}
}

func (s *DBStore) Initialized(ctx context.Context) (bool, error) {
	q := repository.Rebind(s.driver, "SELECT COUNT(*) FROM option_bank WHERE id = $1")

	n, err := repository.QueryOne(ctx, s.db, q, []any{bankRowID}, scanCount)
	if err != nil {
		return false, fmt.Errorf("check option bank: %w", err)
	}
	return n > 0, nil
}

func (s *DBStore) Read(ctx context.Context) ([]byte, error) {
	q := repository.Rebind(s.driver, "SELECT document FROM option_bank WHERE id = $1")

	doc, err := repository.QueryOne(ctx, s.db, q, []any{bankRowID}, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotInitialized, ErrNotInitialized)
	}
	return []byte(doc), nil
}

func (s *DBStore) Write(ctx context.Context, data []byte) error {
	q := repository.Rebind(s.driver, `
		INSERT INTO option_bank (id, document, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (id) DO UPDATE
		SET document = excluded.document, updated_at = excluded.updated_at`)

	_, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, bankRowID, string(data))
	})
	if err != nil {
		return fmt.Errorf("write option bank: %w", err)
	}
	return nil
}

func scanCount(s repository.Scanner) (int, error) {
	var n int
	err := s.Scan(&n)
	return n, err
}

func scanDocument(s repository.Scanner) (string, error) {
	var doc string
	err := s.Scan(&doc)
	return doc, err
}
