package dto

// Pagination describes the page position of a listing response.
type Pagination struct {
	Current int   `json:"current"`
	Total   int   `json:"total"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
	Count   int64 `json:"count"`
}

// NewPagination derives pagination metadata from page/limit and the total
// match count.
func NewPagination(page, limit int, total int64) Pagination {
	if limit <= 0 {
		limit = 20
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Current: page,
		Total:   pages,
		HasNext: int64(page*limit) < total,
		HasPrev: page > 1,
		Count:   total,
	}
}
