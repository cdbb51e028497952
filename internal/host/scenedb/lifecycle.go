package scenedb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/google/uuid"
)

// Duplicate implements host.LifecycleProvider. The copy carries every
// position, attribute and key and is named <n>_dup_<8 hex>.
func (db *DB) Duplicate(ctx context.Context, n host.Node) (host.Node, error) {
	name := host.Node(fmt.Sprintf("%s_dup_%s", n, uuid.NewString()[:8]))
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, n); err != nil {
			return err
		}
		for _, q := range []string{
			`INSERT INTO nodes (name, pivot_x, pivot_y, pivot_z)
			 SELECT ?, pivot_x, pivot_y, pivot_z FROM nodes WHERE name = ?`,
			`INSERT INTO positions (node, idx, x, y, z)
			 SELECT ?, idx, x, y, z FROM positions WHERE node = ?`,
			`INSERT INTO attrs (node, name, type, enum_values, value, locked)
			 SELECT ?, name, type, enum_values, value, locked FROM attrs WHERE node = ?`,
			`INSERT INTO anim_keys (node, channel, time, value)
			 SELECT ?, channel, time, value FROM anim_keys WHERE node = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, string(name), string(n)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("duplicate %s: %w", n, err)
	}
	return name, nil
}

// Delete implements host.LifecycleProvider. Dependent rows cascade.
func (db *DB) Delete(ctx context.Context, n host.Node) error {
	res, err := db.ExecContext(ctx, `DELETE FROM nodes WHERE name = ?`, string(n))
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("%s: %w", n, host.ErrNoNode)
	}
	return nil
}

// Rename implements host.Renamer. Renaming onto an existing name fails.
func (db *DB) Rename(ctx context.Context, n host.Node, name string) (host.Node, error) {
	to := host.Node(name)
	if to == n {
		return n, mustExist(ctx, db, n)
	}
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, n); err != nil {
			return err
		}
		if err := mustExist(ctx, tx, to); err == nil {
			return fmt.Errorf("cannot rename %s: %s already exists", n, to)
		}
		_, err := tx.ExecContext(ctx, `UPDATE nodes SET name = ? WHERE name = ?`, name, string(n))
		return err
	})
	if err != nil {
		return "", err
	}
	return to, nil
}
