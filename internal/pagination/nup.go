package pagination

import (
	"math"

	"seehuhn.de/go/geom/matrix"
)

// NupMatrices returns the 2^power transforms that place logical pages of
// size w x h onto one physical page of the same size. The order of the
// result is the order in which logical pages fill the sheet.
//
// For even powers the logical pages form a dim x dim grid, filled row by
// row starting at the bottom. For odd powers they are rotated by 90 degrees
// and form dim rows of 2*dim columns, with rows taken in descending order.
func NupMatrices(power int, w, h float64) []matrix.Matrix {
	if power < 0 {
		return nil
	}
	dim := 1 << (power / 2)
	c := 1 / math.Sqrt(float64(int(1)<<power))

	res := make([]matrix.Matrix, 0, 1<<power)
	if power%2 == 1 {
		for i := dim; i > 0; i-- {
			for j := 0; j < 2*dim; j++ {
				res = append(res, matrix.Matrix{0, c, -c, 0, float64(i) * h * c, float64(j) * w * c})
			}
		}
		return res
	}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			res = append(res, matrix.Matrix{c, 0, 0, c, float64(j) * w * c, float64(i) * h * c})
		}
	}
	return res
}
