package models

import (
	"fmt"
	"strings"
	"time"
)

// DefaultPageSize is applied when a query asks for a non-positive page size
const DefaultPageSize = 20

// InventoryItem represents one part stocked at one branch
type InventoryItem struct {
	PartNumber       string     `json:"partNumber"`
	SupplierSKU      string     `json:"supplierSku"`
	Description      string     `json:"description"`
	Branch           string     `json:"branch"`
	AvailableQty     int        `json:"availableQty"`
	Uom              string     `json:"uom"`
	LeadTimeDays     *int       `json:"leadTimeDays,omitempty"`
	LastPurchaseDate *time.Time `json:"lastPurchaseDate,omitempty"`
	Lots             []Lot      `json:"lots"`
}

// Lot is a received batch of an item
type Lot struct {
	LotNumber      string     `json:"lotNumber"`
	Qty            int        `json:"qty"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// Clone returns a deep copy so callers cannot mutate stored records
func (i InventoryItem) Clone() InventoryItem {
	out := i
	if i.LeadTimeDays != nil {
		v := *i.LeadTimeDays
		out.LeadTimeDays = &v
	}
	if i.LastPurchaseDate != nil {
		v := *i.LastPurchaseDate
		out.LastPurchaseDate = &v
	}
	if i.Lots != nil {
		out.Lots = make([]Lot, len(i.Lots))
		for n, lot := range i.Lots {
			out.Lots[n] = lot
			if lot.ExpirationDate != nil {
				v := *lot.ExpirationDate
				out.Lots[n].ExpirationDate = &v
			}
		}
	}
	return out
}

// SearchField selects which text field the criteria is matched against
type SearchField string

const (
	SearchByPartNumber  SearchField = "partNumber"
	SearchByDescription SearchField = "description"
	SearchBySupplierSKU SearchField = "supplierSku"
)

// ParseSearchField parses a search field name case-insensitively.
// An empty name yields the default, SearchByPartNumber.
func ParseSearchField(s string) (SearchField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "partnumber":
		return SearchByPartNumber, nil
	case "description":
		return SearchByDescription, nil
	case "suppliersku":
		return SearchBySupplierSKU, nil
	}
	return "", fmt.Errorf("unknown search field %q", s)
}

// SortField is the closed set of sortable columns
type SortField string

const (
	SortByPartNumber       SortField = "partNumber"
	SortByDescription      SortField = "description"
	SortByBranch           SortField = "branch"
	SortByAvailableQty     SortField = "availableQty"
	SortByUom              SortField = "uom"
	SortByLeadTimeDays     SortField = "leadTimeDays"
	SortByLastPurchaseDate SortField = "lastPurchaseDate"
)

// SortFields lists every sort field, in display order
var SortFields = []SortField{
	SortByPartNumber,
	SortByDescription,
	SortByBranch,
	SortByAvailableQty,
	SortByUom,
	SortByLeadTimeDays,
	SortByLastPurchaseDate,
}

// SortDirection is asc or desc
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortSpec pairs a field with a direction
type SortSpec struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
}

func (s SortSpec) String() string {
	return string(s.Field) + ":" + string(s.Direction)
}

// ParseSort parses "<field>:<asc|desc>". The direction defaults to asc.
// An empty string means unsorted and returns nil.
func ParseSort(s string) (*SortSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	name, dir, _ := strings.Cut(s, ":")
	var field SortField
	for _, f := range SortFields {
		if strings.EqualFold(string(f), strings.TrimSpace(name)) {
			field = f
			break
		}
	}
	if field == "" {
		return nil, fmt.Errorf("unknown sort field %q", name)
	}

	direction := SortAsc
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
	case "desc":
		direction = SortDesc
	default:
		return nil, fmt.Errorf("unknown sort direction %q", dir)
	}

	return &SortSpec{Field: field, Direction: direction}, nil
}

// SearchQuery describes one page of a catalog search
type SearchQuery struct {
	Criteria      string      `json:"criteria"`
	By            SearchField `json:"by"`
	Branches      []string    `json:"branches"`
	OnlyAvailable bool        `json:"onlyAvailable"`
	Sort          *SortSpec   `json:"sort,omitempty"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
}

// Normalize returns a copy with defaults and clamps applied
func (q SearchQuery) Normalize() SearchQuery {
	out := q
	out.Criteria = strings.TrimSpace(q.Criteria)
	if out.By == "" {
		out.By = SearchByPartNumber
	}
	if out.Page < 0 {
		out.Page = 0
	}
	if out.Size <= 0 {
		out.Size = DefaultPageSize
	}

	out.Branches = nil
	for _, b := range q.Branches {
		if b = strings.TrimSpace(b); b != "" {
			out.Branches = append(out.Branches, b)
		}
	}

	if q.Sort != nil {
		s := *q.Sort
		if s.Direction == "" {
			s.Direction = SortAsc
		}
		out.Sort = &s
	}
	return out
}

// SearchResult is one page of matches plus the unpaginated match count
type SearchResult struct {
	Total int             `json:"total"`
	Items []InventoryItem `json:"items"`
}

// Clone returns a deep copy of the page
func (r SearchResult) Clone() SearchResult {
	out := SearchResult{Total: r.Total}
	if r.Items != nil {
		out.Items = make([]InventoryItem, len(r.Items))
		for i, item := range r.Items {
			out.Items[i] = item.Clone()
		}
	}
	return out
}

// BranchAvailability is the summed quantity of a part at one branch
type BranchAvailability struct {
	Branch string `json:"branch"`
	Qty    int    `json:"qty"`
}

// AvailabilityResult aggregates a part's quantity across branches
type AvailabilityResult struct {
	PartNumber     string               `json:"partNumber"`
	TotalAvailable int                  `json:"totalAvailable"`
	Branches       []BranchAvailability `json:"branches"`
}

// Clone returns a copy that does not share the branch breakdown
func (r AvailabilityResult) Clone() AvailabilityResult {
	out := r
	if r.Branches != nil {
		out.Branches = append([]BranchAvailability{}, r.Branches...)
	}
	return out
}
