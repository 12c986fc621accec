package query

import (
	"math"
	"strings"

	"github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"
)

// comparator orders two items ascending: negative, zero or positive
type comparator func(a, b *models.InventoryItem) int

// comparators has one entry per models.SortField. TestComparatorsCoverEverySortField
// fails when a field is added without a comparator.
var comparators = map[models.SortField]comparator{
	models.SortByPartNumber:       func(a, b *models.InventoryItem) int { return compareText(a.PartNumber, b.PartNumber) },
	models.SortByDescription:      func(a, b *models.InventoryItem) int { return compareText(a.Description, b.Description) },
	models.SortByBranch:           func(a, b *models.InventoryItem) int { return compareText(a.Branch, b.Branch) },
	models.SortByAvailableQty:     func(a, b *models.InventoryItem) int { return compareInt(a.AvailableQty, b.AvailableQty) },
	models.SortByUom:              func(a, b *models.InventoryItem) int { return compareText(a.Uom, b.Uom) },
	models.SortByLeadTimeDays:     func(a, b *models.InventoryItem) int { return compareInt(leadTimeKey(a), leadTimeKey(b)) },
	models.SortByLastPurchaseDate: compareLastPurchase,
}

// absent lead time sorts after every present value
func leadTimeKey(i *models.InventoryItem) int {
	if i.LeadTimeDays == nil {
		return math.MaxInt
	}
	return *i.LeadTimeDays
}

// absent purchase date sorts before every present value
func compareLastPurchase(a, b *models.InventoryItem) int {
	switch {
	case a.LastPurchaseDate == nil && b.LastPurchaseDate == nil:
		return 0
	case a.LastPurchaseDate == nil:
		return -1
	case b.LastPurchaseDate == nil:
		return 1
	}
	return a.LastPurchaseDate.Compare(*b.LastPurchaseDate)
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
