package stm

import "fmt"

// ConfigError reports a malformed pipeline configuration: a bad bounding
// box, a grid axis below the minimum cell count, a cam_match or
// max_matches_per_ray below its minimum, or an unrecognized neighbour
// stencil. It is always fatal.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("stm: config error: %s", e.Reason) }

// InputError reports a ray dataset that looks mis-ordered or malformed,
// such as more distinct camera ids than the safety threshold allows.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return fmt.Sprintf("stm: input error: %s", e.Reason) }

// CoordOverflowError reports a cell coordinate that exceeds what the
// packed cell-key encoding can represent.
type CoordOverflowError struct {
	Cell Cell
}

func (e *CoordOverflowError) Error() string {
	return fmt.Sprintf("stm: cell coordinate overflow: %+v exceeds encoding width", e.Cell)
}
