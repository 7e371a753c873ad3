package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse extracts and validates page/limit from query parameters
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// keeps (page-1)*limit from overflowing
	if page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// Bounds returns the [start, end) window of a total-length list covered by these params
func (p Params) Bounds(total int) (int, int) {
	if p.Offset < 0 || p.Offset >= total {
		return total, total
	}
	end := p.Offset + p.Limit
	if end > total {
		end = total
	}
	return p.Offset, end
}

// Page is the list envelope returned by paginated endpoints
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Slice cuts items to the requested page
func Slice[T any](items []T, p Params) Page[T] {
	start, end := p.Bounds(len(items))
	return Page[T]{
		Items: items[start:end],
		Total: len(items),
		Page:  p.Page,
		Limit: p.Limit,
	}
}
