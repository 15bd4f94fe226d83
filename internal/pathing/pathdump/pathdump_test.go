package pathdump

import (
	"bytes"
	"context"
	"testing"

	"github.com/annel0/voxel-pathing/internal/config"
	"github.com/annel0/voxel-pathing/internal/pathing/calc"
	"github.com/annel0/voxel-pathing/internal/pathing/goals"
	"github.com/annel0/voxel-pathing/internal/pathing/movement"
	"github.com/annel0/voxel-pathing/internal/vec"
	"github.com/annel0/voxel-pathing/internal/world"
	"github.com/annel0/voxel-pathing/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findPath(t *testing.T) *calc.Path {
	t.Helper()
	w := world.NewMap()
	w.Fill(vec.Vec3{X: -8, Y: 62, Z: -8}, vec.Vec3{X: 8, Y: 63, Z: 8}, world.NewState(block.StoneBlockID))
	w.Fill(vec.Vec3{X: 3, Y: 64, Z: -8}, vec.Vec3{X: 8, Y: 64, Z: 8}, world.NewState(block.StoneBlockID))

	start := vec.Vec3{X: 0, Y: 64, Z: 0}
	goal := goals.Block(vec.Vec3{X: 6, Y: 65, Z: 0})
	ctx := movement.NewContext(config.DefaultPathing(), w, nil, nil)
	res := calc.NewFinder(start, goal, ctx, 0).Calculate(context.Background())
	require.Equal(t, calc.Success, res.Kind)
	p := calc.Assemble(res, goal, ctx)
	require.NotNil(t, p)
	return p
}

func TestWriteRead(t *testing.T) {
	p := findPath(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, p))

	d, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, Version, d.Version)
	assert.Equal(t, p.Goal().String(), d.Goal)
	assert.Equal(t, p.Positions(), d.Positions)
	require.Len(t, d.Movements, len(p.Movements()))
	for i, m := range p.Movements() {
		assert.Equal(t, m.Type.String(), d.Movements[i].Type)
		assert.Equal(t, m.Src, d.Movements[i].Src)
		assert.Equal(t, m.Dest, d.Movements[i].Dest)
	}
	assert.InDelta(t, p.TotalCost(), d.TotalCost, 1e-9)
	assert.Contains(t, []string{d.Movements[0].Type, d.Movements[1].Type}, "Ascend")
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("не zstd"))
	assert.Error(t, err)

	data, err := Encode(&Dump{Version: Version + 1})
	require.NoError(t, err)
	_, err = Decode(data)
	assert.Error(t, err)
}
