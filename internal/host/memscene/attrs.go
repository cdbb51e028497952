package memscene

import (
	"context"
	"fmt"
	"slices"

	"github.com/banshee-data/mirror/internal/host"
)

// GetAttr implements host.AttrProvider.
func (s *Scene) GetAttr(_ context.Context, n host.Node, name string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return nil, err
	}
	a, ok := nd.attrs[name]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", n, name, host.ErrNoAttr)
	}
	return a.value, nil
}

// SetAttr implements host.AttrProvider. The attribute must exist.
func (s *Scene) SetAttr(_ context.Context, n host.Node, name string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return err
	}
	a, ok := nd.attrs[name]
	if !ok {
		return fmt.Errorf("%s.%s: %w", n, name, host.ErrNoAttr)
	}
	if a.locked {
		return fmt.Errorf("%s.%s is locked", n, name)
	}
	v, err := host.Coerce(a.typ, a.enum, value)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", n, name, err)
	}
	a.value = v
	return nil
}

// HasAttr implements host.AttrProvider.
func (s *Scene) HasAttr(_ context.Context, n host.Node, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return false, err
	}
	_, ok := nd.attrs[name]
	return ok, nil
}

// AddAttr implements host.AttrProvider. Re-adding an attribute of the same
// type is a no-op; a type change is an error.
func (s *Scene) AddAttr(_ context.Context, n host.Node, name string, typ host.AttrType, enumValues []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return err
	}
	if a, ok := nd.attrs[name]; ok {
		if a.typ != typ {
			return fmt.Errorf("%s.%s already exists as %s, not %s", n, name, a.typ, typ)
		}
		return nil
	}
	nd.attrs[name] = &attr{typ: typ, enum: slices.Clone(enumValues), value: host.ZeroValue(typ)}
	return nil
}

// RemoveAttr implements host.AttrProvider.
func (s *Scene) RemoveAttr(_ context.Context, n host.Node, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return err
	}
	if _, ok := nd.attrs[name]; !ok {
		return fmt.Errorf("%s.%s: %w", n, name, host.ErrNoAttr)
	}
	delete(nd.attrs, name)
	return nil
}

// LockAttr makes later SetAttr calls on name fail, emulating a locked or
// connected channel in a real host.
func (s *Scene) LockAttr(n host.Node, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	nd, err := s.get(n)
	if err != nil {
		return err
	}
	a, ok := nd.attrs[name]
	if !ok {
		return fmt.Errorf("%s.%s: %w", n, name, host.ErrNoAttr)
	}
	a.locked = true
	return nil
}
