package utils

import "strconv"

// Page size bounds of every listing
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationResponse is the pagination metadata of a listing
type PaginationResponse struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	PageSize    int  `json:"page_size"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// ValidateAndNormalizePagination clamps page to >= 1 and pageSize to 1..MaxPageSize
func ValidateAndNormalizePagination(page, pageSize int) (int, int) {
	page = max(page, 1)
	switch {
	case pageSize < 1:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// CalculatePaginationInfo describes page out of total items. An empty
// listing still has one page.
func CalculatePaginationInfo(total, page, pageSize int) PaginationResponse {
	totalPages := max((total+pageSize-1)/pageSize, 1)
	return PaginationResponse{
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}

// CalculateOffset is the row offset of the first item on page
func CalculateOffset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// ParsePaginationFromQuery reads page and page size query values. Anything
// missing, malformed or out of range falls back to page 1 of DefaultPageSize.
func ParsePaginationFromQuery(pageStr, pageSizeStr string) (int, int) {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}
