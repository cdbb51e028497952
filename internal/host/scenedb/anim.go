package scenedb

import (
	"context"
	"database/sql"
	"math"

	"github.com/banshee-data/mirror/internal/host"
)

// Key is one keyframe on an animation curve.
type Key struct {
	Time  float64
	Value float64
}

// rangeArgs turns a nil-able TimeRange into inclusive SQL bounds.
func rangeArgs(tr *host.TimeRange) (float64, float64) {
	if tr == nil {
		return -math.MaxFloat64, math.MaxFloat64
	}
	return tr.Start, tr.End
}

// CopyKeys implements host.AnimProvider with replace semantics: dst's keys
// inside the range are dropped and src's keys inside the range copied in.
func (db *DB) CopyKeys(ctx context.Context, src, dst host.Node, channel string, tr *host.TimeRange) (bool, error) {
	lo, hi := rangeArgs(tr)
	copied := false
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		for _, n := range []host.Node{src, dst} {
			if err := mustExist(ctx, tx, n); err != nil {
				return err
			}
		}
		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM anim_keys WHERE node = ? AND channel = ? AND time BETWEEN ? AND ?`,
			string(src), channel, lo, hi).Scan(&count); err != nil {
			return err
		}
		if count == 0 || src == dst {
			copied = count > 0
			return nil
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM anim_keys WHERE node = ? AND channel = ? AND time BETWEEN ? AND ?`,
			string(dst), channel, lo, hi); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO anim_keys (node, channel, time, value)
			 SELECT ?, channel, time, value FROM anim_keys
			 WHERE node = ? AND channel = ? AND time BETWEEN ? AND ?`,
			string(dst), string(src), channel, lo, hi); err != nil {
			return err
		}
		copied = true
		return nil
	})
	return copied, err
}

// ScaleKeys implements host.AnimProvider. A channel without keys is left
// alone.
func (db *DB) ScaleKeys(ctx context.Context, n host.Node, channel string, factor float64, tr *host.TimeRange) error {
	lo, hi := rangeArgs(tr)
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, n); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE anim_keys SET value = value * ? WHERE node = ? AND channel = ? AND time BETWEEN ? AND ?`,
			factor, string(n), channel, lo, hi)
		return err
	})
}

// ClearKeys implements host.KeyClearer.
func (db *DB) ClearKeys(ctx context.Context, n host.Node, channel string, tr *host.TimeRange) error {
	lo, hi := rangeArgs(tr)
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, n); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`DELETE FROM anim_keys WHERE node = ? AND channel = ? AND time BETWEEN ? AND ?`,
			string(n), channel, lo, hi)
		return err
	})
}

// SetKeys replaces the curve on channel with keys.
func (db *DB) SetKeys(ctx context.Context, n host.Node, channel string, keys ...Key) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if err := mustExist(ctx, tx, n); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM anim_keys WHERE node = ? AND channel = ?`, string(n), channel); err != nil {
			return err
		}
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR REPLACE INTO anim_keys (node, channel, time, value) VALUES (?, ?, ?, ?)`,
				string(n), channel, k.Time, k.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

// Keys returns the curve on channel ordered by time.
func (db *DB) Keys(ctx context.Context, n host.Node, channel string) ([]Key, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT time, value FROM anim_keys WHERE node = ? AND channel = ? ORDER BY time`,
		string(n), channel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Key
	for rows.Next() {
		var k Key
		if err := rows.Scan(&k.Time, &k.Value); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
