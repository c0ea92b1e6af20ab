package leads

// PageItem is one entry of the page-number strip: a page or an ellipsis.
type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

type Pagination struct {
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalItems int        `json:"total_items"`
	TotalPages int        `json:"total_pages"`
	Items      []PageItem `json:"items"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	CanFirst   bool       `json:"can_first"`
	CanPrev    bool       `json:"can_prev"`
	CanNext    bool       `json:"can_next"`
	CanLast    bool       `json:"can_last"`
	PageSizes  []int      `json:"page_sizes"`
}

// TotalPages is never below 1, so an empty table still has a page 1.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func NewPagination(page, pageSize, total int) Pagination {
	totalPages := TotalPages(total, pageSize)
	if page < 1 {
		page = 1
	}

	start, end := 0, 0
	if total > 0 {
		start = (page-1)*pageSize + 1
		end = min(page*pageSize, total)
		if start > total {
			start, end = 0, 0
		}
	}

	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
		Items:      pageItems(page, totalPages),
		Start:      start,
		End:        end,
		CanFirst:   page > 1,
		CanPrev:    page > 1,
		CanNext:    page < totalPages,
		CanLast:    page < totalPages,
		PageSizes:  PageSizes,
	}
}

// pageItems lists every page when there are at most 7; otherwise the first
// and last page around a window of the current page's neighbours, with an
// ellipsis where pages are left out.
func pageItems(current, totalPages int) []PageItem {
	page := func(n int) PageItem {
		return PageItem{Number: n, Current: n == current}
	}

	if totalPages <= 7 {
		items := make([]PageItem, 0, totalPages)
		for n := 1; n <= totalPages; n++ {
			items = append(items, page(n))
		}
		return items
	}

	start := max(2, current-1)
	end := min(totalPages-1, current+1)
	if current <= 3 {
		end = 4
	}
	if current >= totalPages-2 {
		start = totalPages - 3
	}

	items := []PageItem{page(1)}
	if start > 2 {
		items = append(items, PageItem{Ellipsis: true})
	}
	for n := start; n <= end; n++ {
		items = append(items, page(n))
	}
	if end < totalPages-1 {
		items = append(items, PageItem{Ellipsis: true})
	}
	return append(items, page(totalPages))
}
