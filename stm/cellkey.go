package stm

// cellCoordBias and cellCoordBits implement the bijective cell-key
// encoding of spec.md §4.4/§4.6/§9: `key = mult^2*x + mult*y + z`, widened
// to 21 bits per axis (Design Note 9) so that the small negative
// coordinates produced by neighbourhood expansion at the grid edges never
// collide with a positive in-range cell. A coordinate whose biased value
// does not fit in cellCoordBits is a CoordOverflowError: the grid is too
// large for this encoding.
const (
	cellCoordBits = 21
	cellCoordBias = int64(1) << (cellCoordBits - 1)
	cellCoordMult = int64(1) << cellCoordBits
)

// encodeCell packs a cell into a single bijective integer key, or reports
// CoordOverflowError if any axis does not fit the encoding width.
func encodeCell(c Cell) (int64, error) {
	x, err := biasedCoord(c, int64(c.IX))
	if err != nil {
		return 0, err
	}
	y, err := biasedCoord(c, int64(c.IY))
	if err != nil {
		return 0, err
	}
	z, err := biasedCoord(c, int64(c.IZ))
	if err != nil {
		return 0, err
	}
	return cellCoordMult*cellCoordMult*x + cellCoordMult*y + z, nil
}

func biasedCoord(c Cell, v int64) (int64, error) {
	biased := v + cellCoordBias
	if biased < 0 || biased >= cellCoordMult {
		return 0, &CoordOverflowError{Cell: c}
	}
	return biased, nil
}
