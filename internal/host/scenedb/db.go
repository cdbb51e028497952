// Package scenedb is a SQLite-backed host scene. Nodes, vertex positions,
// attributes and keyframes live in four tables whose schema is managed by
// golang-migrate from the embedded migrations directory.
package scenedb

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/monitoring"
	"gonum.org/v1/gonum/spatial/r3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// MigrationsFS returns the embedded migrations rooted at the directory
// holding the .sql files.
func MigrationsFS() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// DB is a scene stored in SQLite.
type DB struct {
	*sql.DB
	path string
}

// Open opens (creating if needed) the scene database at path and migrates
// it to the latest schema. Use ":memory:" for a throwaway scene.
func Open(path string) (*DB, error) {
	db, err := OpenRaw(path)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(MigrationsFS()); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenRaw opens the database without running migrations.
func OpenRaw(path string) (*DB, error) {
	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// foreign_keys is per connection; one connection keeps it applied and
	// serialises writers the way SQLite wants anyway.
	sdb.SetMaxOpenConns(1)
	for _, p := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := sdb.Exec(p); err != nil {
			sdb.Close()
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	monitoring.Debugf("scenedb: opened %s", path)
	return &DB{DB: sdb, path: path}, nil
}

// Path is the file the database was opened from.
func (db *DB) Path() string { return db.path }

// AddNode creates or replaces a node with the given pivot and object-space
// positions. Every node gets float attributes for host.TransformChannels.
func (db *DB) AddNode(ctx context.Context, n host.Node, pivot r3.Vec, positions ...r3.Vec) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM nodes WHERE name = ?`, string(n)); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes (name, pivot_x, pivot_y, pivot_z) VALUES (?, ?, ?, ?)`,
			string(n), pivot.X, pivot.Y, pivot.Z); err != nil {
			return err
		}
		for i, p := range positions {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO positions (node, idx, x, y, z) VALUES (?, ?, ?, ?, ?)`,
				string(n), i, p.X, p.Y, p.Z); err != nil {
				return err
			}
		}
		for _, ch := range host.TransformChannels {
			v := "0"
			if strings.HasPrefix(ch, "scale") {
				v = "1"
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO attrs (node, name, type, value) VALUES (?, ?, ?, ?)`,
				string(n), ch, int(host.AttrFloat), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Nodes lists node names in ascending order.
func (db *DB) Nodes(ctx context.Context) ([]host.Node, error) {
	rows, err := db.QueryContext(ctx, `SELECT name FROM nodes ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []host.Node
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, host.Node(name))
	}
	return out, rows.Err()
}

// Exists reports whether n is a node in the scene.
func (db *DB) Exists(ctx context.Context, n host.Node) (bool, error) {
	var one int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM nodes WHERE name = ?`, string(n)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func mustExist(ctx context.Context, q querier, n host.Node) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM nodes WHERE name = ?`, string(n)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", n, host.ErrNoNode)
	}
	return err
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Compile-time interface checks.
var (
	_ host.GeometryProvider  = (*DB)(nil)
	_ host.AttrProvider      = (*DB)(nil)
	_ host.AnimProvider      = (*DB)(nil)
	_ host.KeyClearer        = (*DB)(nil)
	_ host.LifecycleProvider = (*DB)(nil)
	_ host.Renamer           = (*DB)(nil)
)
