package shared

// Paginated represents a paginated result
type Paginated[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"total_elements"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
}

// NewPaginated creates a new paginated result. Page is floored at 0 and
// size at 1 so offset math never goes negative or divides by zero.
func NewPaginated[T any](content []T, totalElements int64, page, size int) Paginated[T] {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = 1
	}
	return Paginated[T]{
		Content:       content,
		TotalElements: totalElements,
		Page:          page,
		Size:          size,
	}
}

// TotalPages returns ceil(totalElements / size).
func (p Paginated[T]) TotalPages() int {
	pages := int(p.TotalElements) / p.Size
	if int(p.TotalElements)%p.Size > 0 {
		pages++
	}
	return pages
}
