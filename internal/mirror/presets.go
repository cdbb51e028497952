package mirror

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/monitoring"
)

// Mode selects what a mirror operation moves between nodes.
type Mode int

const (
	ModeAnim Mode = iota
	ModeAttribute
)

func (m Mode) String() string {
	if m == ModeAttribute {
		return "attribute"
	}
	return "anim"
}

// ParseMode accepts "anim"/"animation" and "attribute"/"attr".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "anim", "animation", "":
		return ModeAnim, nil
	case "attribute", "attr", "attributes":
		return ModeAttribute, nil
	}
	return ModeAnim, fmt.Errorf("mirror mode %q: %w", s, host.ErrInvalidEnum)
}

// AnimTransfer copies keys on each channel from src to dst, replacing dst's
// keys inside tr. Channels without source keys are left alone on dst.
func AnimTransfer(anim host.AnimProvider, channels []string, tr *host.TimeRange) TransferFunc {
	return func(ctx context.Context, src, dst host.Node) error {
		for _, ch := range channels {
			ok, err := anim.CopyKeys(ctx, src, dst, ch, tr)
			if err != nil {
				return fmt.Errorf("copy keys %s.%s: %w", src, ch, err)
			}
			if !ok {
				monitoring.Debugf("mirror: %s.%s has no keys", src, ch)
			}
		}
		return nil
	}
}

// AnimClearer is an AnimProvider that can also remove keys.
type AnimClearer interface {
	host.AnimProvider
	host.KeyClearer
}

// AnimTransferClearing is AnimTransfer for strict swaps: when src has no
// keys on a channel inside tr, dst's keys there are removed, so a pair with
// one unkeyed side swaps exactly.
func AnimTransferClearing(anim AnimClearer, channels []string, tr *host.TimeRange) TransferFunc {
	return func(ctx context.Context, src, dst host.Node) error {
		for _, ch := range channels {
			ok, err := anim.CopyKeys(ctx, src, dst, ch, tr)
			if err != nil {
				return fmt.Errorf("copy keys %s.%s: %w", src, ch, err)
			}
			if ok {
				continue
			}
			if err := anim.ClearKeys(ctx, dst, ch, tr); err != nil {
				return fmt.Errorf("clear keys %s.%s: %w", dst, ch, err)
			}
		}
		return nil
	}
}

// AnimInvert scales keys by -1 on each channel inside tr.
func AnimInvert(anim host.AnimProvider, tr *host.TimeRange) InvertFunc {
	return func(ctx context.Context, n host.Node, channels []string) []ChannelInvertFailure {
		var out []ChannelInvertFailure
		for _, ch := range channels {
			if err := anim.ScaleKeys(ctx, n, ch, -1, tr); err != nil {
				out = append(out, ChannelInvertFailure{Node: n, Channel: ch, Err: err})
			}
		}
		return out
	}
}

// AttrTransfer copies the current value of each channel from src to dst.
// Channels missing on either node are skipped. Set failures on individual
// channels are joined into the returned error after every channel has
// been tried.
func AttrTransfer(attrs host.AttrProvider, channels []string) TransferFunc {
	return func(ctx context.Context, src, dst host.Node) error {
		var errs []error
		for _, ch := range channels {
			v, err := attrs.GetAttr(ctx, src, ch)
			if errors.Is(err, host.ErrNoAttr) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get %s.%s: %w", src, ch, err)
			}
			if ok, err := attrs.HasAttr(ctx, dst, ch); err != nil {
				return fmt.Errorf("has %s.%s: %w", dst, ch, err)
			} else if !ok {
				monitoring.Debugf("mirror: %s has no %s", dst, ch)
				continue
			}
			if err := attrs.SetAttr(ctx, dst, ch, v); err != nil {
				errs = append(errs, fmt.Errorf("set %s.%s: %w", dst, ch, err))
			}
		}
		return errors.Join(errs...)
	}
}

// AttrInvert sets each channel to the negation of its current value.
func AttrInvert(attrs host.AttrProvider) InvertFunc {
	return func(ctx context.Context, n host.Node, channels []string) []ChannelInvertFailure {
		var out []ChannelInvertFailure
		for _, ch := range channels {
			v, err := attrs.GetAttr(ctx, n, ch)
			if err != nil {
				out = append(out, ChannelInvertFailure{Node: n, Channel: ch, Err: err})
				continue
			}
			f, err := host.ToFloat(v)
			if err != nil {
				out = append(out, ChannelInvertFailure{Node: n, Channel: ch, Err: err})
				continue
			}
			if err := attrs.SetAttr(ctx, n, ch, -f); err != nil {
				out = append(out, ChannelInvertFailure{Node: n, Channel: ch, Err: err})
			}
		}
		return out
	}
}

// Host is the collaborator set NewEngine needs.
type Host interface {
	host.AttrProvider
	host.AnimProvider
	host.LifecycleProvider
}

// NewEngine wires an Engine for mode over h. channels lists the channels
// moved between nodes; tr limits anim mode to a key range.
func NewEngine(h Host, mode Mode, channels []string, tr *host.TimeRange) *Engine {
	e := &Engine{Registry: NewRegistry(h), Life: h}
	switch mode {
	case ModeAttribute:
		e.Transfer = AttrTransfer(h, channels)
		e.Invert = AttrInvert(h)
	default:
		e.Transfer = AnimTransfer(h, channels, tr)
		e.Invert = AnimInvert(h, tr)
	}
	return e
}
