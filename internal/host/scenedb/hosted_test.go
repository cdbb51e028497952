package scenedb_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/mirror/internal/host"
	"github.com/banshee-data/mirror/internal/host/scenedb"
	"github.com/banshee-data/mirror/internal/meshmath"
	"github.com/banshee-data/mirror/internal/mirror"
	"github.com/banshee-data/mirror/internal/symmetry"
	"github.com/banshee-data/mirror/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var v = testutil.V

func open(t *testing.T) *scenedb.DB {
	t.Helper()
	db, err := scenedb.Open(filepath.Join(t.TempDir(), "scene.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMirrorEngineOverSceneDB(t *testing.T) {
	ctx := context.Background()
	db := open(t)
	for _, n := range []host.Node{"arm_L", "arm_R", "spine"} {
		require.NoError(t, db.AddNode(ctx, n, r3.Vec{}))
	}
	reg := mirror.NewRegistry(db)
	left, right, center := mirror.Left, mirror.Right, mirror.Center
	require.NoError(t, reg.Register(ctx, "arm_L", mirror.RegisterOptions{Side: &left, Slot: 1}))
	require.NoError(t, reg.Register(ctx, "arm_R", mirror.RegisterOptions{Side: &right, Slot: 1}))
	require.NoError(t, reg.Register(ctx, "spine", mirror.RegisterOptions{Side: &center, Slot: 1}))

	require.NoError(t, db.SetKeys(ctx, "arm_L", "translateX", scenedb.Key{Time: 1, Value: 2}))
	require.NoError(t, db.SetKeys(ctx, "arm_R", "translateX", scenedb.Key{Time: 1, Value: -3}))
	require.NoError(t, db.SetKeys(ctx, "spine", "rotateZ", scenedb.Key{Time: 1, Value: 15}))

	e := mirror.NewEngine(db, mirror.ModeAnim, host.TransformChannels, nil)
	nodes, err := db.Nodes(ctx)
	require.NoError(t, err)
	rep, err := e.MirrorData(ctx, nodes)
	require.NoError(t, err)
	assert.True(t, rep.OK())

	keys, err := db.Keys(ctx, "arm_L", "translateX")
	require.NoError(t, err)
	assert.Equal(t, []scenedb.Key{{Time: 1, Value: 3}}, keys)
	keys, err = db.Keys(ctx, "arm_R", "translateX")
	require.NoError(t, err)
	assert.Equal(t, []scenedb.Key{{Time: 1, Value: -2}}, keys)
	keys, err = db.Keys(ctx, "spine", "rotateZ")
	require.NoError(t, err)
	assert.Equal(t, []scenedb.Key{{Time: 1, Value: -15}}, keys)

	after, err := db.Nodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, nodes, after, "scratch node left behind")
}

func TestMeshMathOverSceneDB(t *testing.T) {
	ctx := context.Background()
	db := open(t)
	require.NoError(t, db.AddNode(ctx, "base", v(0, 0, 0), v(1, 0, 0), v(-1, 0, 0), v(0, 1, 0)))
	require.NoError(t, db.AddNode(ctx, "smile", v(0, 0, 0), v(1.5, 0.2, 0), v(-1, 0, 0), v(0, 1, 0)))

	res, err := meshmath.Apply(ctx, db, db, "smile", "base", meshmath.Request{
		Mode:      meshmath.Flip,
		Center:    symmetry.CenterPivot,
		Axis:      symmetry.AxisX,
		Tolerance: 0.001,
		Result:    meshmath.ResultNew,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(res.Node), "_result"), res.Node)

	got, err := db.Positions(ctx, res.Node, host.ObjectSpace)
	require.NoError(t, err)
	testutil.AssertVecsNear(t, got, []r3.Vec{v(1, 0, 0), v(-1.5, 0.2, 0), v(0, 1, 0)}, 1e-12)

	base, err := db.Positions(ctx, "base", host.ObjectSpace)
	require.NoError(t, err)
	testutil.AssertVecsNear(t, base, []r3.Vec{v(1, 0, 0), v(-1, 0, 0), v(0, 1, 0)}, 0)
}

func TestMirrorPairCancelledMidTransferLeavesNoScratch(t *testing.T) {
	db := open(t)
	bg := context.Background()
	for _, n := range []host.Node{"a_L", "a_R"} {
		require.NoError(t, db.AddNode(bg, n, r3.Vec{}))
	}

	ctx, cancel := context.WithCancel(bg)
	defer cancel()
	e := &mirror.Engine{
		Registry: mirror.NewRegistry(db),
		Life:     db,
		Transfer: func(ctx context.Context, src, dst host.Node) error {
			cancel()
			return ctx.Err()
		},
		Invert: mirror.AttrInvert(db),
	}
	_, err := e.MirrorPair(ctx, "a_L", "a_R")
	require.ErrorIs(t, err, context.Canceled)

	nodes, err := db.Nodes(bg)
	require.NoError(t, err)
	assert.Equal(t, []host.Node{"a_L", "a_R"}, nodes)
	for _, n := range nodes {
		assert.NotContains(t, string(n), "_dup_")
	}
}
