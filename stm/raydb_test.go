package stm

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRayDBDropsMissedRays(t *testing.T) {
	box := AABB{XMin: -1, XMax: 1, YMin: -1, YMax: 1, ZMin: -1, ZMax: 1}
	rays := []Ray{
		{CamID: 0, RayID: 0, Origin: mgl64.Vec3{0, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}},
		{CamID: 0, RayID: 1, Origin: mgl64.Vec3{10, 10, 10}, Direction: mgl64.Vec3{1, 0, 0}},
	}
	counters := newCounters()

	db, valid, err := buildRayDB(rays, box, counters)
	require.NoError(t, err)
	assert.Len(t, valid, 1)
	assert.Len(t, db, 1)
	assert.Equal(t, 1, counters.MissedRaysByCamera[0])
	_, ok := db[RayKey{CamID: 0, RayID: 1}]
	assert.False(t, ok, "missed ray's key must not be in the database")
}

func TestBuildRayDBRejectsTooManyCameras(t *testing.T) {
	box := AABB{XMin: -1, XMax: 1, YMin: -1, YMax: 1, ZMin: -1, ZMax: 1}
	var rays []Ray
	for cam := int32(0); cam <= maxCameras; cam++ {
		rays = append(rays, Ray{CamID: cam, RayID: 0, Origin: mgl64.Vec3{0, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}})
	}
	counters := newCounters()

	_, _, err := buildRayDB(rays, box, counters)
	require.Error(t, err)
	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)
}
