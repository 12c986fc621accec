package orchestrator

import "github.com/wrightcn2/Inventory-Search-Code-Test/internal/models"

// State is what the orchestrator publishes after every transition
type State struct {
	Loading bool
	// Err is the message of the last failed request; empty after a success
	Err        string
	Total      int
	Items      []models.InventoryItem
	Query      models.SearchQuery
	Generation uint64
	Peak       PeakState
}

// PeakStatus separates a lookup that never ran from one that failed
type PeakStatus int

const (
	PeakNotFetched PeakStatus = iota
	PeakLoading
	PeakLoaded
	PeakFailed
)

func (s PeakStatus) String() string {
	switch s {
	case PeakLoading:
		return "loading"
	case PeakLoaded:
		return "loaded"
	case PeakFailed:
		return "failed"
	default:
		return "not-fetched"
	}
}

// PeakState is the latest peak availability lookup. Result is set only when
// Status is PeakLoaded; Err only when it is PeakFailed.
type PeakState struct {
	Status     PeakStatus
	PartNumber string
	Result     *models.AvailabilityResult
	Err        string
}

func (s State) clone() State {
	out := s
	if s.Items != nil {
		out.Items = make([]models.InventoryItem, len(s.Items))
		for i, item := range s.Items {
			out.Items[i] = item.Clone()
		}
	}
	if s.Query.Branches != nil {
		out.Query.Branches = append([]string(nil), s.Query.Branches...)
	}
	if s.Query.Sort != nil {
		spec := *s.Query.Sort
		out.Query.Sort = &spec
	}
	if s.Peak.Result != nil {
		res := *s.Peak.Result
		res.Branches = append([]models.BranchAvailability(nil), s.Peak.Result.Branches...)
		out.Peak.Result = &res
	}
	return out
}
