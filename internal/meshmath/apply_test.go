package meshmath

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/host/memscene"
	"github.com/banshee-data/mirror/internal/symmetry"
	"github.com/banshee-data/mirror/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMeshScene() *memscene.Scene {
	s := memscene.New()
	s.AddNode("base", v(10, 0, 0), v(1, 0, 0), v(-1, 0, 0), v(0, 1, 0))
	s.AddNode("smile", v(10, 0, 0), v(1.5, 0.2, 0), v(-1, 0, 0), v(0, 1, 0))
	return s
}

func TestApply_Values(t *testing.T) {
	ctx := context.Background()
	s := newMeshScene()

	res, err := Apply(ctx, s, nil, "smile", "base", Request{Mode: Difference, Result: ResultValues})
	require.NoError(t, err)
	assert.Empty(t, res.Node)
	assert.Nil(t, res.Report)
	testutil.AssertVecsNear(t, res.Positions, []Point{v(-0.5, -0.2, 0), v(0, 0, 0), v(0, 0, 0)}, 1e-12)

	// Target untouched.
	pts, _ := s.Positions(ctx, "base", host.ObjectSpace)
	testutil.AssertVecsNear(t, pts, []Point{v(1, 0, 0), v(-1, 0, 0), v(0, 1, 0)}, 0)
}

func TestApply_Modify(t *testing.T) {
	ctx := context.Background()
	s := newMeshScene()

	res, err := Apply(ctx, s, nil, "smile", "base", Request{Mode: CopyTo, Result: ResultModify, Space: host.WorldSpace})
	require.NoError(t, err)
	assert.Equal(t, host.Node("base"), res.Node)

	pts, _ := s.Positions(ctx, "base", host.ObjectSpace)
	testutil.AssertVecsNear(t, pts, []Point{v(1.5, 0.2, 0), v(-1, 0, 0), v(0, 1, 0)}, 1e-12)
}

func TestApply_NewDuplicateIsNamed(t *testing.T) {
	ctx := context.Background()
	s := newMeshScene()

	res, err := Apply(ctx, s, s, "smile", "base", Request{Mode: Blend, Result: ResultNew})
	require.NoError(t, err)
	assert.Equal(t, host.Node("base_from_smile_blend_x0.5_result"), res.Node)
	assert.True(t, s.Exists(res.Node))

	pts, _ := s.Positions(ctx, res.Node, host.ObjectSpace)
	testutil.AssertVecsNear(t, pts, []Point{v(1.25, 0.1, 0), v(-1, 0, 0), v(0, 1, 0)}, 1e-12)

	_, err = Apply(ctx, s, nil, "smile", "base", Request{Mode: Blend, Result: ResultNew})
	assert.Error(t, err)
}

func TestApply_FlipObjectSpace(t *testing.T) {
	ctx := context.Background()
	s := newMeshScene()

	res, err := Apply(ctx, s, nil, "smile", "base", Request{
		Mode:      Flip,
		Center:    symmetry.CenterPivot,
		Axis:      symmetry.AxisX,
		Tolerance: 0.001,
		Result:    ResultValues,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Report)
	assert.Equal(t, 0.0, res.Report.Plane.Origin)
	assert.Equal(t, []int{1}, res.Report.Partners(0))
	// Slot 0 takes mirrored smile[1], slot 1 takes mirrored smile[0].
	testutil.AssertVecsNear(t, res.Positions, []Point{v(1, 0, 0), v(-1.5, 0.2, 0), v(0, 1, 0)}, 1e-12)
}

func TestApply_FlipWorldSpaceMatchesObjectSpace(t *testing.T) {
	ctx := context.Background()
	s := newMeshScene()

	req := Request{Mode: Flip, Center: symmetry.CenterPivot, Axis: symmetry.AxisX, Tolerance: 0.001, Result: ResultValues}
	obj, err := Apply(ctx, s, nil, "smile", "base", req)
	require.NoError(t, err)

	req.Space = host.WorldSpace
	world, err := Apply(ctx, s, nil, "smile", "base", req)
	require.NoError(t, err)
	assert.Equal(t, 10.0, world.Report.Plane.Origin)

	for i := range obj.Positions {
		want := obj.Positions[i]
		want.X += 10
		assert.True(t, testutil.VecNear(world.Positions[i], want, 1e-9), "point %d: %v vs %v", i, world.Positions[i], want)
	}
}

func TestApply_Errors(t *testing.T) {
	ctx := context.Background()
	s := newMeshScene()
	s.AddNode("tri", v(0, 0, 0), v(0, 0, 0))

	_, err := Apply(ctx, s, nil, "tri", "base", Request{Mode: Add, Result: ResultValues})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = Apply(ctx, s, nil, "nope", "base", Request{Mode: Add, Result: ResultValues})
	assert.ErrorIs(t, err, host.ErrNoNode)

	_, err = Apply(ctx, s, nil, "smile", "base", Request{Mode: Flip, Center: symmetry.CenterMode(7), Result: ResultValues})
	assert.True(t, errors.Is(err, host.ErrInvalidEnum), "err = %v", err)
}

// failAt wraps a scene so SetPosition fails on one vertex index.
type failAt struct {
	*memscene.Scene
	index int
}

func (f failAt) SetPosition(ctx context.Context, n host.Node, index int, p Point, space host.Space) error {
	if index == f.index {
		return errors.New("vertex locked")
	}
	return f.Scene.SetPosition(ctx, n, index, p, space)
}

func TestApply_NewDropsPartialDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newMeshScene()

	_, err := Apply(ctx, failAt{Scene: s, index: 1}, s, "smile", "base", Request{Mode: Add, Result: ResultNew})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vertex 1")
	assert.ElementsMatch(t, []host.Node{"base", "smile"}, s.Nodes())
}

func TestParseResultMode(t *testing.T) {
	for in, want := range map[string]ResultMode{"new": ResultNew, "self": ResultModify, "m": ResultModify, "v": ResultValues} {
		got, err := ParseResultMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseResultMode("replace")
	assert.ErrorIs(t, err, host.ErrInvalidEnum)
	assert.True(t, strings.Contains(ResultValues.String(), "values"))
}
