package scenedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/mirror/internal/host"
	"gonum.org/v1/gonum/spatial/r3"
)

// Pivot implements host.GeometryProvider.
func (db *DB) Pivot(ctx context.Context, n host.Node) (r3.Vec, error) {
	return pivot(ctx, db, n)
}

func pivot(ctx context.Context, q querier, n host.Node) (r3.Vec, error) {
	var p r3.Vec
	err := q.QueryRowContext(ctx,
		`SELECT pivot_x, pivot_y, pivot_z FROM nodes WHERE name = ?`, string(n)).
		Scan(&p.X, &p.Y, &p.Z)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("%s: %w", n, host.ErrNoNode)
	}
	return p, err
}

// Positions implements host.GeometryProvider. World space adds the pivot.
func (db *DB) Positions(ctx context.Context, n host.Node, space host.Space) ([]r3.Vec, error) {
	piv, err := db.Pivot(ctx, n)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT x, y, z FROM positions WHERE node = ? ORDER BY idx`, string(n))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []r3.Vec{}
	for rows.Next() {
		var p r3.Vec
		if err := rows.Scan(&p.X, &p.Y, &p.Z); err != nil {
			return nil, err
		}
		if space == host.WorldSpace {
			p = r3.Add(p, piv)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetPosition implements host.GeometryProvider.
func (db *DB) SetPosition(ctx context.Context, n host.Node, index int, p r3.Vec, space host.Space) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		piv, err := pivot(ctx, tx, n)
		if err != nil {
			return err
		}
		if space == host.WorldSpace {
			p = r3.Sub(p, piv)
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE positions SET x = ?, y = ?, z = ? WHERE node = ? AND idx = ?`,
			p.X, p.Y, p.Z, string(n), index)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return fmt.Errorf("%s: vertex index %d out of range", n, index)
		}
		return nil
	})
}

// BoundingBox implements host.GeometryProvider in world space. A node with
// no vertices has a degenerate box at its pivot.
func (db *DB) BoundingBox(ctx context.Context, n host.Node) (r3.Vec, r3.Vec, error) {
	pts, err := db.Positions(ctx, n, host.WorldSpace)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	if len(pts) == 0 {
		p, err := db.Pivot(ctx, n)
		return p, p, err
	}
	lo := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range pts {
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return lo, hi, nil
}
