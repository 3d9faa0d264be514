package usecases

// PageItem is one entry of a pagination bar. Gap items stand for skipped
// page numbers.
type PageItem struct {
	Number  int
	Current bool
	Gap     bool
}

// Pagination describes the controls under the listing.
type Pagination struct {
	Current int
	Total   int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
	Items   []PageItem
}

// paginationRadius is how many neighbours of the current page are shown.
const paginationRadius = 2

// BuildPagination lays out first, last and the pages around current, with gaps
// between non-adjacent runs:
//
//	1 … 4 5 [6] 7 8 … 100
//
// A current page beyond total is still listed, after the last page:
//
//	1 … 98 99 100 … [500]
func BuildPagination(current, total int) Pagination {
	if total < 1 {
		total = 1
	}
	current = NormalisePage(current)

	p := Pagination{
		Current: current,
		Total:   total,
		HasPrev: current > 1,
		HasNext: current < total,
		Prev:    min(current-1, total),
		Next:    current + 1,
	}

	anchor := min(current, total)
	lo := max(1, anchor-paginationRadius)
	hi := min(total, anchor+paginationRadius)

	if lo > 1 {
		p.Items = append(p.Items, PageItem{Number: 1})
		if lo > 2 {
			p.Items = append(p.Items, PageItem{Gap: true})
		}
	}
	for n := lo; n <= hi; n++ {
		p.Items = append(p.Items, PageItem{Number: n, Current: n == current})
	}
	if hi < total {
		if hi < total-1 {
			p.Items = append(p.Items, PageItem{Gap: true})
		}
		p.Items = append(p.Items, PageItem{Number: total})
	}
	if current > total {
		if current > total+1 {
			p.Items = append(p.Items, PageItem{Gap: true})
		}
		p.Items = append(p.Items, PageItem{Number: current, Current: true})
	}
	return p
}
