package cellref

import "fmt"

// UnitsFormula builds the sum over a row's size-quantity cells. With six size
// columns starting at Q on row 7 it yields "SUM(Q7:V7)". A sizeCount of zero
// produces a constant zero so downstream totals stay well-formed.
func UnitsFormula(row, firstSizeCol, sizeCount int) string {
	if sizeCount < 1 {
		return "0"
	}
	first := Cell(firstSizeCol, row)
	last := Cell(firstSizeCol+sizeCount-1, row)
	return fmt.Sprintf("SUM(%s:%s)", first, last)
}

// TotalFormula builds units × price for one row, e.g. "W7*N7".
func TotalFormula(row, unitsCol, priceCol int) string {
	return fmt.Sprintf("%s*%s", Cell(unitsCol, row), Cell(priceCol, row))
}
