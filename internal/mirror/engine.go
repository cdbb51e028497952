package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/monitoring"
)

// TransferFunc copies all transferable data from src to dst.
type TransferFunc func(ctx context.Context, src, dst host.Node) error

// InvertFunc negates the given channels on n. Channels that cannot be
// inverted are returned as failures; they never abort the batch.
type InvertFunc func(ctx context.Context, n host.Node, channels []string) []ChannelInvertFailure

// SlotPair is a Left/Right pair sharing a slot.
type SlotPair struct {
	Slot  int
	Left  host.Node
	Right host.Node
}

// MissingPartner is a sided node whose slot has no opposite-side node.
type MissingPartner struct {
	Side Side
	Slot int
	Node host.Node
}

// ChannelInvertFailure is one channel that could not be negated.
type ChannelInvertFailure struct {
	Node    host.Node
	Channel string
	Err     error
}

func (f ChannelInvertFailure) Error() string {
	return fmt.Sprintf("invert %s.%s: %v", f.Node, f.Channel, f.Err)
}

func (f ChannelInvertFailure) Unwrap() error { return f.Err }

// PairFailure is a Left/Right swap that returned an error.
type PairFailure struct {
	SlotPair
	Err error
}

// TransferReport summarises one MirrorData or MirrorSet call.
type TransferReport struct {
	Swapped         []SlotPair
	Inverted        []host.Node
	MissingPartners []MissingPartner
	InvertFailures  []ChannelInvertFailure
	PairFailures    []PairFailure
	Skipped         []Skipped
}

// OK reports whether every pair swapped and every channel inverted.
func (r *TransferReport) OK() bool {
	return len(r.MissingPartners) == 0 && len(r.InvertFailures) == 0 && len(r.PairFailures) == 0
}

// Err joins pair and invert failures into one error, or nil.
func (r *TransferReport) Err() error {
	var errs []error
	for _, f := range r.PairFailures {
		errs = append(errs, fmt.Errorf("slot %d %s<->%s: %w", f.Slot, f.Left, f.Right, f.Err))
	}
	for _, f := range r.InvertFailures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Engine swaps data between mirrored nodes.
type Engine struct {
	Registry *Registry
	Life     host.LifecycleProvider
	Transfer TransferFunc
	Invert   InvertFunc
}

// MirrorData builds a MirrorSet from nodes and mirrors it.
func (e *Engine) MirrorData(ctx context.Context, nodes []host.Node) (*TransferReport, error) {
	set, skipped := e.Registry.BuildMirrorSet(ctx, nodes)
	rep, err := e.MirrorSet(ctx, set)
	if rep != nil {
		rep.Skipped = skipped
	}
	return rep, err
}

// MirrorSet swaps every Left/Right pair and inverts every Center node.
// Slots are visited in ascending order. A failing pair is recorded and
// processing continues; the returned error is non-nil only when ctx is
// cancelled.
func (e *Engine) MirrorSet(ctx context.Context, set *MirrorSet) (*TransferReport, error) {
	if e.Transfer == nil || e.Invert == nil || e.Life == nil || e.Registry == nil {
		return nil, errors.New("mirror engine is not fully configured")
	}
	rep := &TransferReport{}
	for _, slot := range set.Slots(Left) {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		a := set.Left[slot]
		b, ok := set.Right[slot]
		if !ok {
			monitoring.Warnf("mirror: %s (Left slot %d) has no Right partner", a, slot)
			rep.MissingPartners = append(rep.MissingPartners, MissingPartner{Side: Left, Slot: slot, Node: a})
			continue
		}
		pair := SlotPair{Slot: slot, Left: a, Right: b}
		failures, err := e.MirrorPair(ctx, a, b)
		if err != nil {
			monitoring.Warnf("mirror: slot %d: %v", slot, err)
			rep.PairFailures = append(rep.PairFailures, PairFailure{SlotPair: pair, Err: err})
			continue
		}
		rep.Swapped = append(rep.Swapped, pair)
		rep.InvertFailures = append(rep.InvertFailures, failures...)
	}
	for _, slot := range set.Slots(Right) {
		if _, ok := set.Left[slot]; !ok {
			n := set.Right[slot]
			monitoring.Warnf("mirror: %s (Right slot %d) has no Left partner", n, slot)
			rep.MissingPartners = append(rep.MissingPartners, MissingPartner{Side: Right, Slot: slot, Node: n})
		}
	}
	for _, slot := range set.Slots(Center) {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		n := set.Center[slot]
		rep.InvertFailures = append(rep.InvertFailures, e.invert(ctx, n)...)
		rep.Inverted = append(rep.Inverted, n)
	}
	for _, f := range rep.InvertFailures {
		monitoring.Warnf("mirror: %v", f)
	}
	return rep, nil
}

// MirrorPair exchanges the data of a and b through a scratch duplicate of
// a, then inverts the registered channels of both. The scratch node is
// deleted on every path. Invert failures are returned, not raised.
func (e *Engine) MirrorPair(ctx context.Context, a, b host.Node) ([]ChannelInvertFailure, error) {
	if err := e.swap(ctx, a, b); err != nil {
		return nil, err
	}
	failures := e.invert(ctx, a)
	return append(failures, e.invert(ctx, b)...), nil
}

func (e *Engine) swap(ctx context.Context, a, b host.Node) error {
	tmp, err := e.Life.Duplicate(ctx, a)
	if err != nil {
		return fmt.Errorf("duplicate %s: %w", a, err)
	}
	defer func() {
		// The scratch must go even when ctx was cancelled mid-transfer.
		if err := e.Life.Delete(context.WithoutCancel(ctx), tmp); err != nil {
			monitoring.Warnf("mirror: delete scratch %s: %v", tmp, err)
		}
	}()
	for _, step := range [][2]host.Node{{a, tmp}, {b, a}, {tmp, b}} {
		if err := e.Transfer(ctx, step[0], step[1]); err != nil {
			return fmt.Errorf("transfer %s -> %s: %w", step[0], step[1], err)
		}
	}
	return nil
}

func (e *Engine) invert(ctx context.Context, n host.Node) []ChannelInvertFailure {
	channels, err := e.Registry.Channels(ctx, n)
	if err != nil {
		return []ChannelInvertFailure{{Node: n, Channel: AttrAxis, Err: err}}
	}
	if len(channels) == 0 {
		return nil
	}
	return e.Invert(ctx, n, channels)
}
