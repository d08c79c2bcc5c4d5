package stm

import "fmt"

// maxCameras is the safety threshold of spec.md §4.5: more distinct
// cameras than this strongly suggests mis-ordered input columns.
const maxCameras = 10

// buildRayDB projects every ray onto box (spec.md §4.2), drops rays that
// miss it, and indexes the survivors by RayKey. It returns InputError if
// the surviving rays span more than maxCameras distinct cameras.
func buildRayDB(rays []Ray, box AABB, counters *Counters) (RayDB, []ClippedRay, error) {
	db := make(RayDB, len(rays))
	valid := make([]ClippedRay, 0, len(rays))

	for _, ray := range rays {
		entry := prepareRay(ray.Origin, ray.Direction, box)
		if !entry.Hit {
			counters.MissedRaysByCamera[ray.CamID]++
			continue
		}
		clipped := ClippedRay{
			Key:        ray.Key(),
			Inside:     entry.Inside,
			EntryPoint: entry.Point,
			UnitDir:    entry.UnitDir,
		}
		db[clipped.Key] = clipped
		valid = append(valid, clipped)
		counters.ValidRaysByCamera[ray.CamID]++
	}

	if len(counters.ValidRaysByCamera) > maxCameras {
		return nil, nil, &InputError{
			Reason: fmt.Sprintf("ray data spans %d distinct cameras, exceeding the safety threshold of %d; check column order", len(counters.ValidRaysByCamera), maxCameras),
		}
	}
	return db, valid, nil
}
