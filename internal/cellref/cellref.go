// Package cellref provides coordinate conversion and formula composition for
// fixed-layout order-form worksheets. Rows and columns are 1-based throughout,
// matching the conventions of excelize.
package cellref

import (
	"fmt"
	"strings"
)

// ColumnLetter converts a 1-based column index to its spreadsheet label:
// 1→"A", 26→"Z", 27→"AA". An index below 1 is invalid input.
func ColumnLetter(index int) (string, error) {
	if index < 1 {
		return "", fmt.Errorf("column index must be positive, got %d", index)
	}
	var b []byte
	for index > 0 {
		index--
		b = append([]byte{byte('A' + index%26)}, b...)
		index /= 26
	}
	return string(b), nil
}

// MustColumnLetter is ColumnLetter for indices known to be valid at the call
// site, such as those derived from a validated layout.
func MustColumnLetter(index int) string {
	s, err := ColumnLetter(index)
	if err != nil {
		panic(err)
	}
	return s
}

// ColumnIndex converts a column label back to its 1-based index:
// "A"→1, "Z"→26, "AA"→27.
func ColumnIndex(name string) (int, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	idx := 0
	for _, ch := range name {
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name %q", name)
		}
		idx = idx*26 + int(ch-'A') + 1
	}
	return idx, nil
}

// Cell formats a 1-based column/row pair as a cell name like "Q7".
func Cell(col, row int) string {
	return MustColumnLetter(col) + fmt.Sprintf("%d", row)
}

// SafeSheetName sanitizes a string for use as a worksheet name. Characters
// Excel forbids are replaced with underscore and the result is truncated to
// the 31-character sheet name limit.
func SafeSheetName(name string) string {
	forbidden := []rune{'/', '\\', ':', '*', '?', '[', ']'}
	runes := []rune(name)
	for i, r := range runes {
		for _, f := range forbidden {
			if r == f {
				runes[i] = '_'
				break
			}
		}
	}
	if len(runes) > 31 {
		runes = runes[:31]
	}
	return string(runes)
}
