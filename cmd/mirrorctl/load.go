package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/host/scenedb"
	"github.com/banshee-data/mirror/internal/mirror"
	"gonum.org/v1/gonum/spatial/r3"
)

// sceneFile is the JSON layout read by the load command.
type sceneFile struct {
	Nodes []sceneNode `json:"nodes"`
}

type sceneNode struct {
	Name      string                  `json:"name"`
	Pivot     [3]float64              `json:"pivot"`
	Positions [][3]float64            `json:"positions"`
	Attrs     map[string]any          `json:"attrs"`
	Keys      map[string][][2]float64 `json:"keys"` // channel -> [[time, value], ...]
	Mirror    *sceneMirror            `json:"mirror"`
}

type sceneMirror struct {
	Side any       `json:"side"`
	Slot int       `json:"slot"`
	Axis *[]string `json:"axis"`
}

func vec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }

func cmdLoad(ctx context.Context, args []string, out io.Writer) error {
	var c common
	fs := newFlagSet("load", &c)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: mirrorctl load [--db file] <scene.json>")
	}
	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	var sf sceneFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("failed to parse scene JSON: %w", err)
	}

	db, err := c.open()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, n := range sf.Nodes {
		if err := loadNode(ctx, db, n); err != nil {
			return fmt.Errorf("node %q: %w", n.Name, err)
		}
	}
	fmt.Fprintf(out, "loaded %d nodes into %s\n", len(sf.Nodes), db.Path())
	return nil
}

func loadNode(ctx context.Context, db *scenedb.DB, n sceneNode) error {
	if n.Name == "" {
		return errors.New("missing name")
	}
	node := host.Node(n.Name)
	pts := make([]r3.Vec, len(n.Positions))
	for i, p := range n.Positions {
		pts[i] = vec(p)
	}
	if err := db.AddNode(ctx, node, vec(n.Pivot), pts...); err != nil {
		return err
	}

	for name, v := range n.Attrs {
		typ, ok := attrTypeOf(v)
		if !ok {
			return fmt.Errorf("attribute %s: unsupported value %v", name, v)
		}
		if err := db.AddAttr(ctx, node, name, typ, nil); err != nil {
			return err
		}
		if err := db.SetAttr(ctx, node, name, v); err != nil {
			return err
		}
	}

	for ch, keys := range n.Keys {
		ks := make([]scenedb.Key, len(keys))
		for i, k := range keys {
			ks[i] = scenedb.Key{Time: k[0], Value: k[1]}
		}
		if err := db.SetKeys(ctx, node, ch, ks...); err != nil {
			return err
		}
	}

	if n.Mirror != nil {
		side, err := mirror.SideValue(n.Mirror.Side)
		if err != nil {
			return err
		}
		err = mirror.NewRegistry(db).Register(ctx, node, mirror.RegisterOptions{
			Side:         side,
			Slot:         n.Mirror.Slot,
			AxisChannels: n.Mirror.Axis,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// attrTypeOf maps a decoded JSON value to an attribute type.
func attrTypeOf(v any) (host.AttrType, bool) {
	switch v.(type) {
	case float64:
		return host.AttrFloat, true
	case bool:
		return host.AttrBool, true
	case string:
		return host.AttrString, true
	}
	return 0, false
}
