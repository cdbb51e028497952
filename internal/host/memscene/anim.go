package memscene

import (
	"context"
	"sort"

	"github.com/banshee-data/mirror/internal/host"
)

// CopyKeys implements host.AnimProvider with replace semantics: dst's keys
// inside the range are dropped and src's keys inside the range copied in.
func (s *Scene) CopyKeys(_ context.Context, src, dst host.Node, channel string, tr *host.TimeRange) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, err := s.get(src)
	if err != nil {
		return false, err
	}
	dn, err := s.get(dst)
	if err != nil {
		return false, err
	}
	var picked []Key
	for _, k := range sn.curves[channel] {
		if tr.Contains(k.Time) {
			picked = append(picked, k)
		}
	}
	if len(picked) == 0 {
		return false, nil
	}
	kept := make([]Key, 0, len(dn.curves[channel])+len(picked))
	for _, k := range dn.curves[channel] {
		if !tr.Contains(k.Time) {
			kept = append(kept, k)
		}
	}
	kept = append(kept, picked...)
	sort.Slice(kept, func(i, j int) bool { return kept[i].Time < kept[j].Time })
	dn.curves[channel] = kept
	return true, nil
}

// ScaleKeys implements host.AnimProvider. A channel without a curve is left
// alone.
func (s *Scene) ScaleKeys(_ context.Context, n host.Node, channel string, factor float64, tr *host.TimeRange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return err
	}
	curve := nd.curves[channel]
	for i := range curve {
		if tr.Contains(curve[i].Time) {
			curve[i].Value *= factor
		}
	}
	return nil
}

// ClearKeys implements host.KeyClearer.
func (s *Scene) ClearKeys(_ context.Context, n host.Node, channel string, tr *host.TimeRange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return err
	}
	var kept []Key
	for _, k := range nd.curves[channel] {
		if !tr.Contains(k.Time) {
			kept = append(kept, k)
		}
	}
	if len(kept) == 0 {
		delete(nd.curves, channel)
		return nil
	}
	nd.curves[channel] = kept
	return nil
}

// Compile-time interface checks.
var (
	_ host.GeometryProvider  = (*Scene)(nil)
	_ host.AttrProvider      = (*Scene)(nil)
	_ host.AnimProvider      = (*Scene)(nil)
	_ host.KeyClearer        = (*Scene)(nil)
	_ host.LifecycleProvider = (*Scene)(nil)
	_ host.Renamer           = (*Scene)(nil)
)
