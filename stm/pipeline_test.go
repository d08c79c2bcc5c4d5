package stm

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPipeline(t *testing.T, cfg Config) *Pipeline {
	t.Helper()
	p, err := NewPipeline(cfg, NewNopLogger())
	require.NoError(t, err)
	return p
}

func smallVolumeConfig() Config {
	cfg := DefaultConfig()
	cfg.BoundingBox = [3][2]float64{{-5, 5}, {-5, 5}, {-5, 5}}
	cfg.NX, cfg.NY, cfg.NZ = 10, 10, 10
	return cfg
}

// TestPipelineTwoIntersectingRays covers spec.md §8 scenario 1's intent:
// two rays from different cameras that genuinely cross at a single point
// should produce one approved match near that point with a tiny residual.
// The rays converge perpendicular to one another rather than running
// along the same line, since collinear antiparallel rays are a
// mathematically singular configuration for both solvers.
func TestPipelineTwoIntersectingRays(t *testing.T) {
	p := testPipeline(t, smallVolumeConfig())
	rays := []Ray{
		{CamID: 0, RayID: 0, Origin: mgl64.Vec3{-3, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}},
		{CamID: 1, RayID: 0, Origin: mgl64.Vec3{0, -3, 0}, Direction: mgl64.Vec3{0, 1, 0}},
	}

	approved, counters, err := p.Run(rays)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.InDelta(t, 0, approved[0].Position.Len(), 1e-6)
	assert.InDelta(t, 0, approved[0].Residual, 1e-6)
	assert.Equal(t, 1, counters.ApprovedMatches)
}

// TestPipelineTwoSkewRaysStillMatchWithinTolerance mirrors scenario 2:
// rays that pass near each other without truly crossing still produce an
// approved match as long as the residual stays under maxdistance.
func TestPipelineTwoSkewRaysStillMatchWithinTolerance(t *testing.T) {
	p := testPipeline(t, smallVolumeConfig())
	rays := []Ray{
		{CamID: 0, RayID: 0, Origin: mgl64.Vec3{-3, 0, 0.05}, Direction: mgl64.Vec3{1, 0, 0}},
		{CamID: 1, RayID: 0, Origin: mgl64.Vec3{0, -3, -0.05}, Direction: mgl64.Vec3{0, 1, 0}},
	}

	approved, _, err := p.Run(rays)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Less(t, approved[0].Residual, 0.2)
}

// TestPipelineThreeRaysWithOutlierKeepsBestPair matches scenario 3: a
// third, badly-aimed ray from a distinct camera should not spoil the
// well-matched pair once candidates are scored and greedily approved.
func TestPipelineThreeRaysWithOutlierKeepsBestPair(t *testing.T) {
	cfg := smallVolumeConfig()
	cfg.CamMatch = 2
	p := testPipeline(t, cfg)
	rays := []Ray{
		{CamID: 0, RayID: 0, Origin: mgl64.Vec3{-3, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}},
		{CamID: 1, RayID: 0, Origin: mgl64.Vec3{0, -3, 0}, Direction: mgl64.Vec3{0, 1, 0}},
		// Outlier: a lone ray from a third camera whose path never shares a
		// cell with any other ray, so it can never form a qualifying group.
		{CamID: 2, RayID: 0, Origin: mgl64.Vec3{4, 4, 4}, Direction: mgl64.Vec3{1, 0, 0}},
	}

	approved, _, err := p.Run(rays)
	require.NoError(t, err)
	require.Len(t, approved, 1, "the isolated outlier ray must not produce or spoil any match")
	assert.Less(t, approved[0].Residual, 1e-6)
}

// TestPipelineRayMissingBoxIsDroppedNotFatal covers a ray whose origin and
// direction never intersect the bounding box: it must be silently dropped
// and counted rather than causing the run to fail.
func TestPipelineRayMissingBoxIsDroppedNotFatal(t *testing.T) {
	p := testPipeline(t, smallVolumeConfig())
	rays := []Ray{
		{CamID: 0, RayID: 0, Origin: mgl64.Vec3{-3, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}},
		{CamID: 1, RayID: 0, Origin: mgl64.Vec3{0, -3, 0}, Direction: mgl64.Vec3{0, 1, 0}},
		{CamID: 2, RayID: 0, Origin: mgl64.Vec3{100, 100, 100}, Direction: mgl64.Vec3{1, 0, 0}},
	}

	approved, counters, err := p.Run(rays)
	require.NoError(t, err)
	assert.NotEmpty(t, approved)
	assert.Equal(t, 1, counters.MissedRaysByCamera[2])
}

// TestPipelineQuotaEnforcementAcrossSharedRay mirrors scenario 5: one ray
// eligible for many candidate matches is capped at max_matches_per_ray.
func TestPipelineQuotaEnforcementAcrossSharedRay(t *testing.T) {
	cfg := smallVolumeConfig()
	cfg.MaxMatchesPerRay = 1
	p := testPipeline(t, cfg)

	shared := Ray{CamID: 0, RayID: 0, Origin: mgl64.Vec3{-3, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}}
	rays := []Ray{
		shared,
		{CamID: 1, RayID: 0, Origin: mgl64.Vec3{0, -3, 0}, Direction: mgl64.Vec3{0, 1, 0}},
		{CamID: 1, RayID: 1, Origin: mgl64.Vec3{0.2, -3, 0}, Direction: mgl64.Vec3{0, 1, 0}},
	}

	approved, _, err := p.Run(rays)
	require.NoError(t, err)

	count := 0
	for _, m := range approved {
		for _, rk := range m.Key {
			if rk == shared.Key() {
				count++
			}
		}
	}
	assert.LessOrEqual(t, count, 1)
}

func TestPipelineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	_, err := NewPipeline(cfg, nil)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestPipelineRunIsDeterministicAcrossRepeats(t *testing.T) {
	p := testPipeline(t, smallVolumeConfig())
	rays := []Ray{
		{CamID: 0, RayID: 0, Origin: mgl64.Vec3{-3, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}},
		{CamID: 1, RayID: 0, Origin: mgl64.Vec3{0, -3, 0}, Direction: mgl64.Vec3{0, 1, 0}},
	}

	first, _, err := p.Run(rays)
	require.NoError(t, err)
	second, _, err := p.Run(rays)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
