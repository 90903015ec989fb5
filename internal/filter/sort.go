package filter

import "strconv"

// Order is a sort direction.
type Order string

// Sort directions.
const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Sortable columns of the pull request list.
const (
	SortCreated    = "created"
	SortMerged     = "merged"
	SortCycleTime  = "cycle_time"
	SortSize       = "size"
	SortComments   = "comments"
	SortAuthor     = "author"
	SortRepository = "repository"
)

// SortFields lists the sortable columns in display order.
var SortFields = []string{
	SortCreated, SortMerged, SortCycleTime, SortSize, SortComments, SortAuthor, SortRepository,
}

func validSort(field string) bool {
	for _, s := range SortFields {
		if s == field {
			return true
		}
	}
	return false
}

// ToggleSort returns the filter a click on column field leads to: the same
// column flips the order, another column starts with its natural order.
// All other dimensions are preserved.
func (f Filter) ToggleSort(field string) Filter {
	if !validSort(field) {
		return f
	}
	if f.Sort == field {
		if f.Order == OrderAsc {
			f.Order = OrderDesc
		} else {
			f.Order = OrderAsc
		}
		return f
	}
	f.Sort = field
	f.Order = OrderDesc
	if field == SortAuthor || field == SortRepository {
		f.Order = OrderAsc
	}
	return f
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
