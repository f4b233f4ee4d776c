package viewmodel

// Pagination contains pagination metadata for list views.
type Pagination struct {
	Page       int
	PageSize   int
	HasPrev    bool
	HasNext    bool
	StartIndex int
	EndIndex   int
	TotalCount int
	PrevURL    string
	NextURL    string
}

// Paginate slices items for page (1-based) of pageSize and fills in the
// counters. URLs are left for the caller.
func Paginate[T any](items []T, page, pageSize int) ([]T, Pagination) {
	if pageSize <= 0 {
		pageSize = 25
	}
	if page <= 0 {
		page = 1
	}
	total := len(items)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := min(start+pageSize, total)

	p := Pagination{
		Page:       page,
		PageSize:   pageSize,
		HasPrev:    page > 1,
		HasNext:    end < total,
		TotalCount: total,
	}
	if end > start {
		p.StartIndex = start + 1
		p.EndIndex = end
	}
	return items[start:end], p
}
