package scenedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/mirror/internal/host"
)

// enumSep joins enum field names in the enum_values column.
const enumSep = ":"

type attrRow struct {
	typ    host.AttrType
	enum   []string
	value  string
	locked bool
}

func getAttr(ctx context.Context, q querier, n host.Node, name string) (attrRow, error) {
	var (
		r      attrRow
		typ    int
		enum   string
		locked int
	)
	err := q.QueryRowContext(ctx,
		`SELECT type, enum_values, value, locked FROM attrs WHERE node = ? AND name = ?`,
		string(n), name).Scan(&typ, &enum, &r.value, &locked)
	if errors.Is(err, sql.ErrNoRows) {
		if nerr := mustExist(ctx, q, n); nerr != nil {
			return r, nerr
		}
		return r, fmt.Errorf("%s.%s: %w", n, name, host.ErrNoAttr)
	}
	if err != nil {
		return r, err
	}
	r.typ = host.AttrType(typ)
	if enum != "" {
		r.enum = strings.Split(enum, enumSep)
	}
	r.locked = locked != 0
	return r, nil
}

func encodeValue(typ host.AttrType, v any) string {
	switch typ {
	case host.AttrFloat:
		return strconv.FormatFloat(v.(float64), 'g', -1, 64)
	case host.AttrInt, host.AttrEnum:
		return strconv.Itoa(v.(int))
	case host.AttrBool:
		if v.(bool) {
			return "1"
		}
		return "0"
	}
	return v.(string)
}

func decodeValue(typ host.AttrType, s string) (any, error) {
	switch typ {
	case host.AttrFloat:
		return strconv.ParseFloat(s, 64)
	case host.AttrInt, host.AttrEnum:
		return strconv.Atoi(s)
	case host.AttrBool:
		return s == "1", nil
	}
	return s, nil
}

// GetAttr implements host.AttrProvider.
func (db *DB) GetAttr(ctx context.Context, n host.Node, name string) (any, error) {
	r, err := getAttr(ctx, db, n, name)
	if err != nil {
		return nil, err
	}
	v, err := decodeValue(r.typ, r.value)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: stored value %q: %w", n, name, r.value, err)
	}
	return v, nil
}

// SetAttr implements host.AttrProvider. The attribute must exist and not be
// locked; value is coerced to the attribute's type.
func (db *DB) SetAttr(ctx context.Context, n host.Node, name string, value any) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		r, err := getAttr(ctx, tx, n, name)
		if err != nil {
			return err
		}
		if r.locked {
			return fmt.Errorf("%s.%s is locked", n, name)
		}
		v, err := host.Coerce(r.typ, r.enum, value)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", n, name, err)
		}
		_, err = tx.ExecContext(ctx, `UPDATE attrs SET value = ? WHERE node = ? AND name = ?`,
			encodeValue(r.typ, v), string(n), name)
		return err
	})
}

// HasAttr implements host.AttrProvider.
func (db *DB) HasAttr(ctx context.Context, n host.Node, name string) (bool, error) {
	_, err := getAttr(ctx, db, n, name)
	if errors.Is(err, host.ErrNoAttr) {
		return false, nil
	}
	return err == nil, err
}

// AddAttr implements host.AttrProvider. Re-adding an attribute of the same
// type is a no-op; a type change is an error.
func (db *DB) AddAttr(ctx context.Context, n host.Node, name string, typ host.AttrType, enumValues []string) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		r, err := getAttr(ctx, tx, n, name)
		switch {
		case err == nil:
			if r.typ != typ {
				return fmt.Errorf("%s.%s already exists as %s, not %s", n, name, r.typ, typ)
			}
			return nil
		case !errors.Is(err, host.ErrNoAttr):
			return err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO attrs (node, name, type, enum_values, value) VALUES (?, ?, ?, ?, ?)`,
			string(n), name, int(typ), strings.Join(enumValues, enumSep), encodeValue(typ, host.ZeroValue(typ)))
		return err
	})
}

// RemoveAttr implements host.AttrProvider.
func (db *DB) RemoveAttr(ctx context.Context, n host.Node, name string) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM attrs WHERE node = ? AND name = ?`, string(n), name)
		if err != nil {
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			if err := mustExist(ctx, tx, n); err != nil {
				return err
			}
			return fmt.Errorf("%s.%s: %w", n, name, host.ErrNoAttr)
		}
		return nil
	})
}

// LockAttr makes later SetAttr calls on name fail.
func (db *DB) LockAttr(ctx context.Context, n host.Node, name string) error {
	res, err := db.ExecContext(ctx, `UPDATE attrs SET locked = 1 WHERE node = ? AND name = ?`, string(n), name)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("%s.%s: %w", n, name, host.ErrNoAttr)
	}
	return nil
}

// Attr is one row of ListAttrs.
type Attr struct {
	Name  string
	Type  host.AttrType
	Value any
}

// ListAttrs returns every attribute on n ordered by name.
func (db *DB) ListAttrs(ctx context.Context, n host.Node) ([]Attr, error) {
	if err := mustExist(ctx, db, n); err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT name, type, value FROM attrs WHERE node = ? ORDER BY name`, string(n))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Attr
	for rows.Next() {
		var (
			a   Attr
			typ int
			raw string
		)
		if err := rows.Scan(&a.Name, &typ, &raw); err != nil {
			return nil, err
		}
		a.Type = host.AttrType(typ)
		if a.Value, err = decodeValue(a.Type, raw); err != nil {
			return nil, fmt.Errorf("%s.%s: %w", n, a.Name, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
