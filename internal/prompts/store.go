package prompts

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mattn/go-sqlite3"
)

// Store persists prompts in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the prompt database.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS prompts (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		content TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT 'general',
		variables TEXT NOT NULL DEFAULT '[]',
		use_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		record_type TEXT NOT NULL DEFAULT 'prompt',
		schema_version INTEGER NOT NULL DEFAULT 1
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var value string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`,
			strconv.Itoa(SchemaVersion))
		if err != nil {
			return fmt.Errorf("write schema version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	default:
		got, err := strconv.Atoi(value)
		if err != nil || got != SchemaVersion {
			return &SchemaVersionError{Want: SchemaVersion, Got: got}
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

const promptColumns = `id, name, content, category, variables, use_count,
	created_at, updated_at, record_type, schema_version`

func scanPrompt(row interface{ Scan(...any) error }) (Prompt, error) {
	var p Prompt
	var variables string
	err := row.Scan(&p.ID, &p.Name, &p.Content, &p.Category, &variables,
		&p.UseCount, &p.CreatedAt, &p.UpdatedAt, &p.RecordType, &p.SchemaVersion)
	if err != nil {
		return Prompt{}, err
	}
	if err := json.Unmarshal([]byte(variables), &p.Variables); err != nil {
		p.Variables = nil
	}
	return p, nil
}

// Save inserts a new prompt. Names are unique.
func (s *Store) Save(p Prompt) error {
	variables, _ := json.Marshal(p.Variables)
	if p.Variables == nil {
		variables = []byte("[]")
	}

	_, err := s.db.Exec(`
		INSERT INTO prompts (`+promptColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Content, p.Category, string(variables),
		p.UseCount, p.CreatedAt, p.UpdatedAt, p.RecordType, p.SchemaVersion)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return &AlreadyExistsError{Name: p.Name}
		}
		return fmt.Errorf("save prompt: %w", err)
	}
	return nil
}

// Get returns a prompt by name.
func (s *Store) Get(name string) (Prompt, error) {
	row := s.db.QueryRow(`SELECT `+promptColumns+` FROM prompts WHERE name = ?`, name)
	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Prompt{}, &NotFoundError{Name: name}
	}
	if err != nil {
		return Prompt{}, fmt.Errorf("get prompt: %w", err)
	}
	return p, nil
}

// Delete removes a prompt by name and returns it.
func (s *Store) Delete(name string) (Prompt, error) {
	p, err := s.Get(name)
	if err != nil {
		return Prompt{}, err
	}
	if _, err := s.db.Exec(`DELETE FROM prompts WHERE name = ?`, name); err != nil {
		return Prompt{}, fmt.Errorf("delete prompt: %w", err)
	}
	return p, nil
}

// List returns prompts ordered by name, optionally limited to a category.
func (s *Store) List(category string) ([]Prompt, error) {
	var rows *sql.Rows
	var err error
	if category != "" {
		rows, err = s.db.Query(`SELECT `+promptColumns+` FROM prompts WHERE category = ? ORDER BY name`, category)
	} else {
		rows, err = s.db.Query(`SELECT ` + promptColumns + ` FROM prompts ORDER BY name`)
	}
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return collect(rows)
}

// Search matches the query against name, content and category.
func (s *Store) Search(query string) ([]Prompt, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT `+promptColumns+` FROM prompts
		WHERE name LIKE ? OR content LIKE ? OR category LIKE ?
		ORDER BY name`, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search prompts: %w", err)
	}
	return collect(rows)
}

// Recent returns the most recently updated prompts.
func (s *Store) Recent(limit int) ([]Prompt, error) {
	rows, err := s.db.Query(`SELECT `+promptColumns+` FROM prompts ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent prompts: %w", err)
	}
	return collect(rows)
}

// RecordUse bumps the use counter and returns the updated prompt.
func (s *Store) RecordUse(name string) (Prompt, error) {
	if _, err := s.Get(name); err != nil {
		return Prompt{}, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.Exec(`UPDATE prompts SET use_count = use_count + 1, updated_at = ? WHERE name = ?`, now, name); err != nil {
		return Prompt{}, fmt.Errorf("record use: %w", err)
	}
	return s.Get(name)
}

func collect(rows *sql.Rows) ([]Prompt, error) {
	defer rows.Close()

	var result []Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
