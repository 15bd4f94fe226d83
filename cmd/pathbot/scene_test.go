package main

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

func TestParseGoal(t *testing.T) {
	cases := []struct {
		in   string
		want goals.Goal
	}{
		{"block:1,64,-3", goals.Block(vec.Vec3{X: 1, Y: 64, Z: -3})},
		{"two:0,70,0", goals.TwoBlocks(vec.Vec3{Y: 70})},
		{"near:5, 60, 5, 2", goals.Near(vec.Vec3{X: 5, Y: 60, Z: 5}, 2)},
		{"xz:100,-30", goals.XZ(100, -30)},
		{"xz:1,1;block:2,2,2", goals.AnyOf(goals.XZ(1, 1), goals.Block(vec.Vec3{X: 2, Y: 2, Z: 2}))},
	}
	for _, tc := range cases {
		got, err := parseGoal(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, got.Equal(tc.want), "%s: %s != %s", tc.in, got, tc.want)
	}
}

func TestParseGoalErrors(t *testing.T) {
	for _, in := range []string{"", "block", "block:1,2", "near:1,2,3", "xz:a,b", "fly:1,2,3"} {
		_, err := parseGoal(in)
		assert.Error(t, err, in)
	}
}

func TestBuildSceneStandsOnSurface(t *testing.T) {
	m, feet, err := buildScene(sceneFlags{seed: 3, radius: 1, startX: 5, startZ: -7})
	require.NoError(t, err)
	assert.Equal(t, 9, m.ChunkCount())
	assert.Equal(t, 5, feet.X)
	assert.Equal(t, -7, feet.Z)
	assert.True(t, m.Get(feet).Props().Passable)
	assert.False(t, m.Get(feet.Down()).Props().Passable)
}

func TestPrintPath(t *testing.T) {
	w := world.NewMap()
	w.Fill(vec.Vec3{X: -4, Y: 62, Z: -4}, vec.Vec3{X: 8, Y: 63, Z: 4}, world.NewState(block.StoneBlockID))
	goal := goals.Block(vec.Vec3{X: 3, Y: 64, Z: 0})
	ctx := movement.NewContext(config.DefaultPathing(), w, nil, nil)
	res := calc.NewFinder(vec.Vec3{Y: 64}, goal, ctx, 0).Calculate(context.Background())
	p := calc.Assemble(res, goal, ctx)
	require.NotNil(t, p)

	var out bytes.Buffer
	printPath(&out, res, p)
	assert.Contains(t, out.String(), "Block{3,64,0}")
	assert.Contains(t, out.String(), "Traverse")
	assert.Contains(t, out.String(), "Исход: Success")
}
