package response

// ApiResponse is the envelope every endpoint returns.
type ApiResponse[T any] struct {
	Success bool     `json:"success"`
	Data    T        `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// Ok wraps data in a successful envelope.
func Ok[T any](data T) ApiResponse[T] {
	return ApiResponse[T]{Success: true, Data: data}
}

// OkMessage wraps data in a successful envelope with a message.
func OkMessage[T any](data T, message string) ApiResponse[T] {
	return ApiResponse[T]{Success: true, Data: data, Message: message}
}

// Error builds a failure envelope with an optional list of field errors.
func Error(message string, errs ...string) ApiResponse[any] {
	return ApiResponse[any]{Success: false, Message: message, Errors: errs}
}

// PaginatedList is a page of results together with paging metadata.
type PaginatedList[T any] struct {
	Items      []T   `json:"items"`
	PageNumber int   `json:"pageNumber"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	TotalCount int64 `json:"totalCount"`
}

// NewPaginatedList computes paging metadata for one page of items.
func NewPaginatedList[T any](items []T, count int64, pageNumber, pageSize int) PaginatedList[T] {
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	totalPages := int((count + int64(pageSize) - 1) / int64(pageSize))
	if items == nil {
		items = []T{}
	}
	return PaginatedList[T]{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalCount: count,
	}
}

// HasPreviousPage reports whether a page precedes the current one.
func (p PaginatedList[T]) HasPreviousPage() bool {
	return p.PageNumber > 1
}

// HasNextPage reports whether a page follows the current one.
func (p PaginatedList[T]) HasNextPage() bool {
	return p.PageNumber < p.TotalPages
}
