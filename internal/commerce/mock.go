package commerce

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/linecraft/linesheet/internal/catalog"
)

// mockCatalogs builds deterministic fixture catalogs for development runs.
// Every requested id yields a catalog so downstream flows can be exercised
// without live credentials.
func mockCatalogs(ids []string) []catalog.Catalog {
	out := make([]catalog.Catalog, 0, len(ids))
	for i, id := range ids {
		out = append(out, catalog.Catalog{
			ID:           id,
			Name:         fmt.Sprintf("Mock Catalog %d", i+1),
			SeasonYear:   "FW25",
			StartShip:    "2025-08-01",
			CompleteShip: "2025-09-15",
			Products: []catalog.Product{
				{
					Name:                "Trail Runner",
					StyleNumber:         fmt.Sprintf("TR-%03d", i+1),
					Color:               "Black",
					ColorCode:           "001",
					Season:              "FW25",
					Evergreen:           "Yes",
					CountryOfOrigin:     "Vietnam",
					Fabrication:         "Mesh",
					MaterialComposition: "60% nylon, 40% polyester",
					Category:            "Footwear",
					Subcategory:         "Running",
					SizeBreak:           "1",
					Image:               "https://cdn.example.com/images/placeholder.png",
					WholesalePrice:      decimal.RequireFromString("42.50"),
					SuggRetailPrice:     decimal.RequireFromString("85.00"),
				},
				{
					Name:            "Crew Tee",
					StyleNumber:     fmt.Sprintf("CT-%03d", i+1),
					Color:           "Heather Grey",
					ColorCode:       "014",
					Season:          "FW25",
					Category:        "Apparel",
					Subcategory:     "Tops",
					SizeBreak:       "3",
					WholesalePrice:  decimal.RequireFromString("9.75"),
					SuggRetailPrice: decimal.RequireFromString("24.00"),
				},
			},
		})
	}
	return out
}
