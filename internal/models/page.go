package models

// Page is the backend's paginated envelope
type Page[T any] struct {
	Content       []T   `json:"content" validate:"dive"`
	TotalElements int64 `json:"totalElements" validate:"min=0"`
	TotalPages    int   `json:"totalPages" validate:"min=0"`
	Number        int   `json:"number" validate:"min=0"`
	Size          int   `json:"size"`
}

// Pagination is the store-owned page cursor sent on every refetch
type Pagination struct {
	Page          int   `json:"page"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// Apply copies the page counters reported by the backend
func (p *Pagination) Apply(total int64, pages, number int) {
	p.TotalElements = total
	p.TotalPages = pages
	p.Page = number
}

// IsFirst reports whether the cursor is on the first page
func (p Pagination) IsFirst() bool {
	return p.Page == 0
}

// IsLast reports whether the cursor is on the last page
func (p Pagination) IsLast() bool {
	return p.TotalPages == 0 || p.Page >= p.TotalPages-1
}

// MessageResponse is the backend's generic {message} body
type MessageResponse struct {
	Message string `json:"message"`
}
