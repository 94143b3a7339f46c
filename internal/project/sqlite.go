package project

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lukasclt/Lumina/internal/timeline"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Compile-time check that SQLiteRepository implements Repository.
var _ Repository = (*SQLiteRepository)(nil)

// SQLiteRepository is a durable implementation of Repository backed by a
// single SQLite file. The timeline document is stored as a JSON column, so
// the schema stays stable while the document model evolves.
type SQLiteRepository struct {
	conn   *sql.DB
	logger *slog.Logger
}

// NewSQLiteRepository opens (or creates) the database at dbPath and runs
// pending migrations.
func NewSQLiteRepository(dbPath string, logger *slog.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// modernc.org/sqlite is single-writer; one connection avoids SQLITE_BUSY.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	r := &SQLiteRepository{conn: conn, logger: logger}
	if err := r.migrate(); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return r, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.conn.Close()
}

func (r *SQLiteRepository) migrate() error {
	migrations, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	for _, m := range migrations {
		if m.IsDir() {
			continue
		}
		name := m.Name()
		if r.isMigrationApplied(name) {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := r.conn.Exec(string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", name, err)
		}
		if _, err := r.conn.Exec("INSERT INTO _migrations (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		r.logger.Info("applied migration", slog.String("name", name))
	}
	return nil
}

func (r *SQLiteRepository) isMigrationApplied(name string) bool {
	var exists int
	err := r.conn.QueryRow("SELECT 1 FROM sqlite_master WHERE type='table' AND name='_migrations'").Scan(&exists)
	if err != nil {
		return false
	}

	var applied int
	err = r.conn.QueryRow("SELECT 1 FROM _migrations WHERE name = ?", name).Scan(&applied)
	return err == nil && applied == 1
}

// Save persists a project, inserting or updating by id.
func (r *SQLiteRepository) Save(ctx context.Context, p *Project) error {
	c := p.Clone()
	document, err := json.Marshal(c.Timeline)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	_, err = r.conn.ExecContext(ctx, `
		INSERT INTO projects (id, name, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			document = excluded.document,
			updated_at = excluded.updated_at
	`, c.ID, c.Name, string(document), c.CreatedAt.Format(time.RFC3339Nano), c.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save project %s: %w", c.ID, err)
	}
	return nil
}

// FindByID retrieves a project by its ID.
func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	row := r.conn.QueryRowContext(ctx, `
		SELECT id, name, document, created_at, updated_at
		FROM projects WHERE id = ?
	`, id)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find project %s: %w", id, err)
	}
	return p, nil
}

// List returns all projects ordered by most recently updated.
func (r *SQLiteRepository) List(ctx context.Context) ([]*Project, error) {
	rows, err := r.conn.QueryContext(ctx, `
		SELECT id, name, document, created_at, updated_at
		FROM projects ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return result, nil
}

// Delete removes a project from storage.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if affected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (*Project, error) {
	var (
		p         Project
		document  string
		createdAt string
		updatedAt string
	)
	if err := s.Scan(&p.ID, &p.Name, &document, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	doc := timeline.NewDocument()
	if err := json.Unmarshal([]byte(document), doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	p.Timeline = doc

	var err error
	if p.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &p, nil
}
