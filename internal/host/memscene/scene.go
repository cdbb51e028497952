// Package memscene is an in-memory host scene. It implements every
// collaborator interface in package host and is what the engine's tests
// and the CLI demo run against.
//
// Nodes carry a translation-only transform: world position = object
// position + pivot.
package memscene

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// TransformChannels are created as float attributes on every new node.
var TransformChannels = host.TransformChannels

// Key is one keyframe on an animation curve.
type Key struct {
	Time  float64
	Value float64
}

type attr struct {
	typ    host.AttrType
	enum   []string
	value  any
	locked bool
}

type node struct {
	pivot     r3.Vec
	positions []r3.Vec
	attrs     map[string]*attr
	curves    map[string][]Key
}

// Scene is a set of named nodes guarded by a mutex.
type Scene struct {
	mu    sync.Mutex
	nodes map[host.Node]*node
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{nodes: make(map[host.Node]*node)}
}

// AddNode creates a node with the given pivot and object-space positions.
// An existing node of the same name is replaced.
func (s *Scene) AddNode(name host.Node, pivot r3.Vec, positions ...r3.Vec) host.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := &node{
		pivot:     pivot,
		positions: slices.Clone(positions),
		attrs:     make(map[string]*attr),
		curves:    make(map[string][]Key),
	}
	for _, ch := range TransformChannels {
		v := 0.0
		if strings.HasPrefix(ch, "scale") {
			v = 1
		}
		n.attrs[ch] = &attr{typ: host.AttrFloat, value: v}
	}
	s.nodes[name] = n
	return name
}

// Exists reports whether n is in the scene.
func (s *Scene) Exists(n host.Node) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.nodes[n]
	return ok
}

// Nodes returns all node names, sorted.
func (s *Scene) Nodes() []host.Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]host.Node, 0, len(s.nodes))
	for n := range s.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Scene) get(n host.Node) (*node, error) {
	nd, ok := s.nodes[n]
	if !ok {
		return nil, fmt.Errorf("%s: %w", n, host.ErrNoNode)
	}
	return nd, nil
}

// SetKeys replaces the curve on channel with keys (sorted by time).
func (s *Scene) SetKeys(n host.Node, channel string, keys ...Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return err
	}
	k := slices.Clone(keys)
	sort.Slice(k, func(i, j int) bool { return k[i].Time < k[j].Time })
	nd.curves[channel] = k
	return nil
}

// Keys returns a copy of the curve on channel.
func (s *Scene) Keys(n host.Node, channel string) []Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, ok := s.nodes[n]
	if !ok {
		return nil
	}
	return slices.Clone(nd.curves[channel])
}

// Positions implements host.GeometryProvider.
func (s *Scene) Positions(_ context.Context, n host.Node, space host.Space) ([]r3.Vec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return nil, err
	}
	out := make([]r3.Vec, len(nd.positions))
	for i, p := range nd.positions {
		if space == host.WorldSpace {
			p = r3.Add(p, nd.pivot)
		}
		out[i] = p
	}
	return out, nil
}

// SetPosition implements host.GeometryProvider.
func (s *Scene) SetPosition(_ context.Context, n host.Node, index int, p r3.Vec, space host.Space) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(nd.positions) {
		return fmt.Errorf("%s: vertex index %d out of range [0,%d)", n, index, len(nd.positions))
	}
	if space == host.WorldSpace {
		p = r3.Sub(p, nd.pivot)
	}
	nd.positions[index] = p
	return nil
}

// BoundingBox implements host.GeometryProvider in world space. A node with
// no vertices has a degenerate box at its pivot.
func (s *Scene) BoundingBox(_ context.Context, n host.Node) (r3.Vec, r3.Vec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	if len(nd.positions) == 0 {
		return nd.pivot, nd.pivot, nil
	}
	lo := r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, p := range nd.positions {
		w := r3.Add(p, nd.pivot)
		lo = r3.Vec{X: math.Min(lo.X, w.X), Y: math.Min(lo.Y, w.Y), Z: math.Min(lo.Z, w.Z)}
		hi = r3.Vec{X: math.Max(hi.X, w.X), Y: math.Max(hi.Y, w.Y), Z: math.Max(hi.Z, w.Z)}
	}
	return lo, hi, nil
}

// Pivot implements host.GeometryProvider.
func (s *Scene) Pivot(_ context.Context, n host.Node) (r3.Vec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return r3.Vec{}, err
	}
	return nd.pivot, nil
}

// Duplicate implements host.LifecycleProvider. The copy gets a unique name
// derived from the source.
func (s *Scene) Duplicate(_ context.Context, n host.Node) (host.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return "", err
	}
	dup := &node{
		pivot:     nd.pivot,
		positions: slices.Clone(nd.positions),
		attrs:     make(map[string]*attr, len(nd.attrs)),
		curves:    make(map[string][]Key, len(nd.curves)),
	}
	for k, a := range nd.attrs {
		c := *a
		c.enum = slices.Clone(a.enum)
		dup.attrs[k] = &c
	}
	for k, c := range nd.curves {
		dup.curves[k] = slices.Clone(c)
	}
	name := host.Node(fmt.Sprintf("%s_dup_%s", n, uuid.NewString()[:8]))
	s.nodes[name] = dup
	return name, nil
}

// Delete implements host.LifecycleProvider.
func (s *Scene) Delete(_ context.Context, n host.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.get(n); err != nil {
		return err
	}
	delete(s.nodes, n)
	return nil
}

// Rename implements host.Renamer. Renaming onto an existing name fails.
func (s *Scene) Rename(_ context.Context, n host.Node, name string) (host.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return "", err
	}
	to := host.Node(name)
	if to == n {
		return n, nil
	}
	if _, taken := s.nodes[to]; taken {
		return "", fmt.Errorf("cannot rename %s: %s already exists", n, to)
	}
	delete(s.nodes, n)
	s.nodes[to] = nd
	return to, nil
}
