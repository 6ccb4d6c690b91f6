// Package catalog holds the data model shared between the commerce client and
// the workbook generator.
package catalog

import "github.com/shopspring/decimal"

// Company identifies the requester of a generation run. Its name is stamped
// into sheet headers and output filenames.
type Company struct {
	Name     string
	Metadata map[string]string
}

// Catalog is a named product collection rendered as one worksheet (or, in
// separate output mode, one workbook).
type Catalog struct {
	ID           string
	Name         string
	SeasonYear   string
	StartShip    string
	CompleteShip string
	Products     []Product
}

// Product is one order-form row. String fields default to empty and prices to
// zero when the upstream record omits them.
type Product struct {
	Name                string
	StyleNumber         string
	Color               string
	ColorCode           string
	Season              string
	Evergreen           string
	CountryOfOrigin     string
	Fabrication         string
	MaterialComposition string
	Category            string
	Subcategory         string
	SizeBreak           string
	Image               string
	WholesalePrice      decimal.Decimal
	SuggRetailPrice     decimal.Decimal
}

// GeneratedFile is one serialized workbook, created once per generation call
// and handed to the caller for delivery.
type GeneratedFile struct {
	Buffer    []byte
	Filename  string
	CatalogID string
}
