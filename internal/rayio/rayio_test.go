package rayio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paugier/stm-core/stm"
)

func TestReadCSVSkipsHeaderRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rays.csv")
	content := "cam_id,ray_id,ox,oy,oz,vx,vy,vz\n0,1,-3,0,0,1,0,0\n1,2,0,-3,0,0,1,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rays, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rays, 2)
	assert.Equal(t, stm.Ray{CamID: 0, RayID: 1, Origin: mgl64.Vec3{-3, 0, 0}, Direction: mgl64.Vec3{1, 0, 0}}, rays[0])
	assert.Equal(t, int32(1), rays[1].CamID)
}

func TestReadCSVWithoutHeaderRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rays.csv")
	content := "0,1,-3,0,0,1,0,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rays, err := ReadCSV(path)
	require.NoError(t, err)
	require.Len(t, rays, 1)
	assert.Equal(t, int32(0), rays[0].CamID)
}

func TestReadCSVRejectsMalformedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rays.csv")
	content := "0,1,not-a-number,0,0,1,0,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := ReadCSV(path)
	assert.Error(t, err)
}

func TestWriteMatchesThenReadBackRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.csv")
	matches := []stm.ApprovedMatch{
		{
			Key:      stm.CandidateKey{{CamID: 0, RayID: 1}, {CamID: 1, RayID: 2}},
			Position: mgl64.Vec3{1.5, -2.25, 0},
			Residual: 0.01,
		},
	}

	require.NoError(t, WriteMatches(path, matches))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "match_id,cam_id,ray_id,x,y,z,residual")
	assert.Contains(t, content, "0,0,1,1.5,-2.25,0,0.01")
	assert.Contains(t, content, "0,1,2,1.5,-2.25,0,0.01")
}
