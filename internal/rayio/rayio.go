// Package rayio is the external collaborator spec.md §1 leaves out of
// the core: reading ray input files and writing match results. It knows
// nothing about voxels or candidates, only about a flat row format.
package rayio

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/paugier/stm-core/stm"
)

// ReadCSV reads a ray file with columns
// cam_id,ray_id,ox,oy,oz,vx,vy,vz (spec.md §6), skipping a header row if
// present.
func ReadCSV(path string) ([]stm.Ray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("rayio: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 8

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("rayio: reading %s: %w", path, err)
	}

	rays := make([]stm.Ray, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			if _, err := strconv.ParseInt(row[0], 10, 32); err != nil {
				continue // header row
			}
		}
		ray, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("rayio: %s row %d: %w", path, i+1, err)
		}
		rays = append(rays, ray)
	}
	return rays, nil
}

func parseRow(row []string) (stm.Ray, error) {
	vals := make([]float64, 6)
	for i := 0; i < 6; i++ {
		v, err := strconv.ParseFloat(row[i+2], 64)
		if err != nil {
			return stm.Ray{}, fmt.Errorf("field %d: %w", i+2, err)
		}
		vals[i] = v
	}
	camID, err := strconv.ParseInt(row[0], 10, 32)
	if err != nil {
		return stm.Ray{}, fmt.Errorf("cam_id: %w", err)
	}
	rayID, err := strconv.ParseInt(row[1], 10, 32)
	if err != nil {
		return stm.Ray{}, fmt.Errorf("ray_id: %w", err)
	}
	return stm.Ray{
		CamID:     int32(camID),
		RayID:     int32(rayID),
		Origin:    mgl64.Vec3{vals[0], vals[1], vals[2]},
		Direction: mgl64.Vec3{vals[3], vals[4], vals[5]},
	}, nil
}

// WriteMatches writes approved matches as CSV rows: one row per RayKey in
// the candidate, tagged with a shared match index, position, and
// residual, so downstream tools can reconstruct either the per-ray or
// per-match view.
func WriteMatches(path string, matches []stm.ApprovedMatch) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rayio: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"match_id", "cam_id", "ray_id", "x", "y", "z", "residual"}); err != nil {
		return err
	}
	for i, m := range matches {
		for _, rk := range m.Key {
			row := []string{
				strconv.Itoa(i),
				strconv.FormatInt(int64(rk.CamID), 10),
				strconv.FormatInt(int64(rk.RayID), 10),
				strconv.FormatFloat(m.Position[0], 'g', -1, 64),
				strconv.FormatFloat(m.Position[1], 'g', -1, 64),
				strconv.FormatFloat(m.Position[2], 'g', -1, 64),
				strconv.FormatFloat(m.Residual, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("rayio: writing %s: %w", path, err)
			}
		}
	}
	return w.Error()
}
