// Package sizebreak maps a size-break identifier to its ordered size labels.
// The identifier selects how many order-quantity columns a product row gets
// and what their headings are.
package sizebreak

// DefaultKey is used when a product carries no size break. Lookup stays
// permissive: an unknown key yields no size columns rather than an error.
const DefaultKey = "1"

var breaks = map[string][]string{
	// Paired men's/women's footwear sizes.
	"1": {
		"M4/W5.5", "M5/W6.5", "M6/W7.5", "M7/W8.5", "M8/W9.5",
		"M9/W10.5", "M10/W11.5", "M11/W12.5", "M12/W13.5",
	},
	// Numeric waist sizes.
	"2": {"28", "30", "32", "34", "36", "38", "40"},
	// Letter apparel sizes.
	"3": {"XS", "S", "M", "L", "XL", "XXL"},
	"4": {"One Size"},
}

// Sizes returns the ordered size labels for a size-break key. Unknown keys
// return an empty list.
func Sizes(key string) []string {
	labels, ok := breaks[key]
	if !ok {
		return nil
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// Normalize resolves an absent key to the default break.
func Normalize(key string) string {
	if key == "" {
		return DefaultKey
	}
	return key
}
