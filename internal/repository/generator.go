package repository

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
)

// Branches is the fixed branch list used by the generator
var Branches = []string{"SEA", "PDX", "SFO", "LAX", "PHX", "DEN", "SLC", "BOI", "ANC"}

var (
	descriptions = []string{
		"Hex bolt zinc plated",
		"Flange nut stainless",
		"Ball valve brass",
		"Copper elbow 90 degree",
		"PVC coupling schedule 40",
		"Hydraulic hose assembly",
		"Pressure gauge glycerin filled",
		"Sealed bearing",
		"V-belt industrial",
		"Pipe thread sealant",
	}
	uoms = []string{"EA", "BX", "FT", "CS", "PK"}
)

// generatorEpoch anchors generated timestamps so a seed always yields the same data
var generatorEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Generate builds a deterministic dataset of count records spread over Branches.
// Part numbers repeat across branches so availability lookups have something to aggregate.
func Generate(count int, seed int64) []models.InventoryItem {
	rng := rand.New(rand.NewSource(seed))
	parts := count/3 + 1

	items := make([]models.InventoryItem, 0, count)
	for i := 0; i < count; i++ {
		part := i % parts
		item := models.InventoryItem{
			PartNumber:   fmt.Sprintf("PN-%d", 1000+part),
			SupplierSKU:  fmt.Sprintf("SUP-%05d", 20000+part*7),
			Description:  descriptions[part%len(descriptions)],
			Branch:       Branches[i%len(Branches)],
			AvailableQty: rng.Intn(5) * rng.Intn(60),
			Uom:          uoms[part%len(uoms)],
		}

		if rng.Intn(4) != 0 {
			lead := 1 + rng.Intn(30)
			item.LeadTimeDays = &lead
		}
		if rng.Intn(3) != 0 {
			purchased := generatorEpoch.Add(time.Duration(rng.Intn(365*24)) * time.Hour)
			item.LastPurchaseDate = &purchased
		}

		lots := rng.Intn(4)
		for n := 0; n < lots; n++ {
			lot := models.Lot{
				LotNumber: fmt.Sprintf("L%d-%02d", 1000+part, n+1),
				Qty:       rng.Intn(40),
			}
			if rng.Intn(2) == 0 {
				exp := generatorEpoch.AddDate(1, 0, rng.Intn(365))
				lot.ExpirationDate = &exp
			}
			item.Lots = append(item.Lots, lot)
		}

		items = append(items, item)
	}
	return items
}
