package stm

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionalVoxelTraversalStartsAtPointCell(t *testing.T) {
	grid := NewGrid(AABB{XMin: 0, XMax: 5, YMin: 0, YMax: 5, ZMin: 0, ZMax: 5}, 5, 5, 5)
	cells, err := directionalVoxelTraversal(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{1, 0, 0}, grid)
	require.NoError(t, err)
	require.NotEmpty(t, cells)
	assert.Equal(t, Cell{0, 0, 0}, cells[0])
}

func TestDirectionalVoxelTraversalConsecutiveCellsDifferByOneAxis(t *testing.T) {
	grid := NewGrid(AABB{XMin: 0, XMax: 5, YMin: 0, YMax: 5, ZMin: 0, ZMax: 5}, 5, 5, 5)
	cells, err := directionalVoxelTraversal(mgl64.Vec3{0.1, 0.1, 0.1}, mgl64.Vec3{1, 1, 1}, grid)
	require.NoError(t, err)
	require.Greater(t, len(cells), 1)

	for i := 1; i < len(cells); i++ {
		prev, cur := cells[i-1], cells[i]
		dx := cur.IX - prev.IX
		dy := cur.IY - prev.IY
		dz := cur.IZ - prev.IZ
		changed := 0
		for _, d := range []int32{dx, dy, dz} {
			if d != 0 {
				require.Equal(t, int32(1), abs32(d), "consecutive cells must differ by exactly 1 on a changed axis")
				changed++
			}
		}
		assert.Equal(t, 1, changed, "consecutive cells must differ on exactly one axis")
	}
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func TestDirectionalVoxelTraversalRejectsZeroDirection(t *testing.T) {
	grid := NewGrid(AABB{XMin: 0, XMax: 5, YMin: 0, YMax: 5, ZMin: 0, ZMax: 5}, 5, 5, 5)
	_, err := directionalVoxelTraversal(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0, 0, 0}, grid)
	assert.Error(t, err)
}

func TestDirectionalVoxelTraversalRejectsOutsideStart(t *testing.T) {
	grid := NewGrid(AABB{XMin: 0, XMax: 5, YMin: 0, YMax: 5, ZMin: 0, ZMax: 5}, 5, 5, 5)
	_, err := directionalVoxelTraversal(mgl64.Vec3{100, 100, 100}, mgl64.Vec3{1, 0, 0}, grid)
	assert.Error(t, err)
}

func TestLinspaceEndpoints(t *testing.T) {
	g := NewGrid(AABB{XMin: -2, XMax: 2, YMin: -2, YMax: 2, ZMin: -2, ZMax: 2}, 5, 5, 5)
	assert.Len(t, g.X, 6)
	assert.InDelta(t, -2, g.X[0], 1e-12)
	assert.InDelta(t, 2, g.X[len(g.X)-1], 1e-12)
	for i := 1; i < len(g.X); i++ {
		assert.Greater(t, g.X[i], g.X[i-1])
	}
}
