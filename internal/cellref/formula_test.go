package cellref

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitsFormula(t *testing.T) {
	// Six size columns starting at Q on row 7.
	assert.Equal(t, "SUM(Q7:V7)", UnitsFormula(7, 17, 6))

	// Single size column sums itself.
	assert.Equal(t, "SUM(Q10:Q10)", UnitsFormula(10, 17, 1))

	// Nine-size footwear break.
	assert.Equal(t, "SUM(Q7:Y7)", UnitsFormula(7, 17, 9))
}

func TestUnitsFormula_NoSizes(t *testing.T) {
	assert.Equal(t, "0", UnitsFormula(7, 17, 0))
	assert.Equal(t, "0", UnitsFormula(7, 17, -3))
}

func TestTotalFormula(t *testing.T) {
	// Units at W (23), wholesale at N (14).
	assert.Equal(t, "W7*N7", TotalFormula(7, 23, 14))
	// Retail at O (15).
	assert.Equal(t, "W7*O7", TotalFormula(7, 23, 15))
}
