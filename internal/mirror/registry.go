package mirror

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/monitoring"
)

// Registry reads and writes mirror metadata through an AttrProvider.
type Registry struct {
	Attrs host.AttrProvider
	// DefaultChannels replaces DefaultAxisChannels for nodes without a
	// mirrorAxis attribute. Nil uses DefaultAxisChannels.
	DefaultChannels []string
}

// NewRegistry returns a Registry using DefaultAxisChannels.
func NewRegistry(attrs host.AttrProvider) *Registry {
	return &Registry{Attrs: attrs}
}

// RegisterOptions selects which mirror attributes Register writes. Nil
// fields and a zero Slot are left untouched.
type RegisterOptions struct {
	Side         *Side
	Slot         int
	AxisChannels *[]string
}

// Register writes the requested mirror attributes on n, creating them as
// needed. The side is validated before anything is written.
func (r *Registry) Register(ctx context.Context, n host.Node, opts RegisterOptions) error {
	if opts.Side != nil && !opts.Side.valid() {
		return fmt.Errorf("register %s: mirror side %d: %w", n, int(*opts.Side), host.ErrInvalidEnum)
	}
	if opts.Side != nil {
		if err := r.write(ctx, n, AttrSide, host.AttrEnum, sideEnum, int(*opts.Side)); err != nil {
			return err
		}
	}
	if opts.Slot != 0 {
		if err := r.write(ctx, n, AttrSlot, host.AttrInt, nil, opts.Slot); err != nil {
			return err
		}
	}
	if opts.AxisChannels != nil {
		if err := r.write(ctx, n, AttrAxis, host.AttrString, nil, joinChannels(*opts.AxisChannels)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) write(ctx context.Context, n host.Node, name string, typ host.AttrType, enum []string, v any) error {
	if err := r.Attrs.AddAttr(ctx, n, name, typ, enum); err != nil {
		return fmt.Errorf("register %s.%s: %w", n, name, err)
	}
	if err := r.Attrs.SetAttr(ctx, n, name, v); err != nil {
		return fmt.Errorf("register %s.%s: %w", n, name, err)
	}
	return nil
}

// Deregister removes every mirror attribute from n. Missing attributes are
// skipped; other failures are collected and returned together after all
// three removals have been attempted.
func (r *Registry) Deregister(ctx context.Context, n host.Node) error {
	var errs []error
	for _, name := range []string{AttrSide, AttrSlot, AttrAxis} {
		err := r.Attrs.RemoveAttr(ctx, n, name)
		if err == nil || errors.Is(err, host.ErrNoAttr) {
			continue
		}
		errs = append(errs, fmt.Errorf("deregister %s.%s: %w", n, name, err))
	}
	return errors.Join(errs...)
}

// Metadata reads the mirror attributes present on n.
func (r *Registry) Metadata(ctx context.Context, n host.Node) (MirrorMetadata, error) {
	var md MirrorMetadata

	v, ok, err := r.read(ctx, n, AttrSide)
	if err != nil {
		return md, err
	}
	if ok {
		s, err := ParseSide(v)
		if err != nil {
			return md, fmt.Errorf("%s.%s: %w", n, AttrSide, err)
		}
		md.Side = &s
	}

	v, ok, err = r.read(ctx, n, AttrSlot)
	if err != nil {
		return md, err
	}
	if ok {
		f, err := host.ToFloat(v)
		if err != nil {
			return md, fmt.Errorf("%s.%s: %w", n, AttrSlot, err)
		}
		md.Slot = int(f)
	}

	v, ok, err = r.read(ctx, n, AttrAxis)
	if err != nil {
		return md, err
	}
	if ok {
		s, isStr := v.(string)
		if !isStr {
			return md, fmt.Errorf("%s.%s: value %v (%T) is not a string", n, AttrAxis, v, v)
		}
		ch := splitChannels(s)
		md.AxisChannels = &ch
	}
	return md, nil
}

func (r *Registry) read(ctx context.Context, n host.Node, name string) (any, bool, error) {
	ok, err := r.Attrs.HasAttr(ctx, n, name)
	if err != nil || !ok {
		return nil, false, err
	}
	v, err := r.Attrs.GetAttr(ctx, n, name)
	if errors.Is(err, host.ErrNoAttr) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Channels returns the channels negated when n is mirrored: its mirrorAxis
// list when present (possibly empty), else the registry default.
func (r *Registry) Channels(ctx context.Context, n host.Node) ([]string, error) {
	md, err := r.Metadata(ctx, n)
	if err != nil {
		return nil, err
	}
	if md.AxisChannels != nil {
		return *md.AxisChannels, nil
	}
	if r.DefaultChannels != nil {
		return slices.Clone(r.DefaultChannels), nil
	}
	return slices.Clone(DefaultAxisChannels), nil
}

// Skipped records a node BuildMirrorSet left out of the set.
type Skipped struct {
	Node   host.Node
	Reason string
}

// MirrorSet groups nodes by side and slot. It is rebuilt per call.
type MirrorSet struct {
	Center map[int]host.Node
	Left   map[int]host.Node
	Right  map[int]host.Node
}

// NewMirrorSet returns an empty set.
func NewMirrorSet() *MirrorSet {
	return &MirrorSet{
		Center: map[int]host.Node{},
		Left:   map[int]host.Node{},
		Right:  map[int]host.Node{},
	}
}

// Side returns the slot map for s.
func (m *MirrorSet) Side(s Side) map[int]host.Node {
	switch s {
	case Left:
		return m.Left
	case Right:
		return m.Right
	}
	return m.Center
}

// Len is the number of nodes in the set.
func (m *MirrorSet) Len() int {
	return len(m.Center) + len(m.Left) + len(m.Right)
}

// Slots returns the occupied slots of side s in ascending order.
func (m *MirrorSet) Slots(s Side) []int {
	side := m.Side(s)
	out := make([]int, 0, len(side))
	for k := range side {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// String lists the set one side per line, slots ascending.
func (m *MirrorSet) String() string {
	var b strings.Builder
	for _, s := range []Side{Center, Left, Right} {
		fmt.Fprintf(&b, "%s:", s)
		for _, slot := range m.Slots(s) {
			fmt.Fprintf(&b, " %d=%s", slot, m.Side(s)[slot])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// BuildMirrorSet groups nodes by their registered side and slot. Nodes
// without both are skipped with a logged notice. When two nodes claim the
// same side and slot the later one wins.
func (r *Registry) BuildMirrorSet(ctx context.Context, nodes []host.Node) (*MirrorSet, []Skipped) {
	set := NewMirrorSet()
	var skipped []Skipped
	where := map[host.Node]Side{}
	for _, n := range nodes {
		md, err := r.Metadata(ctx, n)
		if err != nil {
			monitoring.Logf("mirror: skipping %s: %v", n, err)
			skipped = append(skipped, Skipped{Node: n, Reason: err.Error()})
			continue
		}
		if !md.Pairable() {
			reason := "no mirror side"
			if md.Side != nil {
				reason = "no mirror slot"
			}
			monitoring.Logf("mirror: skipping %s: %s", n, reason)
			skipped = append(skipped, Skipped{Node: n, Reason: reason})
			continue
		}
		if prev, ok := where[n]; ok {
			// A node listed twice keeps only its latest placement.
			removeNode(set.Side(prev), n)
		}
		side := set.Side(*md.Side)
		if old, ok := side[md.Slot]; ok && old != n {
			monitoring.Logf("mirror: %s slot %d: %s replaces %s", *md.Side, md.Slot, n, old)
			delete(where, old)
		}
		side[md.Slot] = n
		where[n] = *md.Side
	}
	return set, skipped
}

func removeNode(side map[int]host.Node, n host.Node) {
	for k, v := range side {
		if v == n {
			delete(side, k)
		}
	}
}
