// Package pagination holds the page window used by list pages and the JSON API.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Paginator is one page of items plus the totals needed to render page links.
type Paginator[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	PerPage     int   `json:"per_page"`
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`

	path  string
	query url.Values
}

// Normalize clamps per-page into [1, MaxPerPage] (falling back to the default) and page to >= 1.
func Normalize(perPage, page int) (int, int) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if page < 1 {
		page = 1
	}
	return perPage, page
}

// Offset returns the row offset of the first item on page.
func Offset(perPage, page int) int {
	perPage, page = Normalize(perPage, page)
	return (page - 1) * perPage
}

func New[T any](items []T, total int64, perPage, currentPage int) *Paginator[T] {
	perPage, currentPage = Normalize(perPage, currentPage)
	if items == nil {
		items = []T{}
	}

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	return &Paginator[T]{
		Items:       items,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: currentPage,
		LastPage:    lastPage,
		path:        "/",
		query:       url.Values{},
	}
}

// WithPath sets the base path and the query parameters carried into page links.
func (p *Paginator[T]) WithPath(path string, query url.Values) *Paginator[T] {
	if path == "" {
		path = "/"
	}
	p.path = path
	p.query = url.Values{}
	for k, v := range query {
		p.query[k] = append([]string(nil), v...)
	}
	return p
}

// URL builds the link to page, clamped into [1, LastPage].
func (p *Paginator[T]) URL(page int) string {
	if page < 1 {
		page = 1
	}
	if page > p.LastPage {
		page = p.LastPage
	}

	q := url.Values{}
	for k, v := range p.query {
		q[k] = v
	}
	q.Set("page", strconv.Itoa(page))

	return p.path + "?" + q.Encode()
}

func (p *Paginator[T]) HasPages() bool {
	return p.LastPage > 1
}

func (p *Paginator[T]) HasMorePages() bool {
	return p.CurrentPage < p.LastPage
}

func (p *Paginator[T]) HasPreviousPages() bool {
	return p.CurrentPage > 1
}

func (p *Paginator[T]) OnFirstPage() bool {
	return p.CurrentPage <= 1
}

func (p *Paginator[T]) OnLastPage() bool {
	return p.CurrentPage >= p.LastPage
}

// NextPageURL is empty on the last page.
func (p *Paginator[T]) NextPageURL() string {
	if !p.HasMorePages() {
		return ""
	}
	return p.URL(p.CurrentPage + 1)
}

// PreviousPageURL is empty on the first page.
func (p *Paginator[T]) PreviousPageURL() string {
	if !p.HasPreviousPages() {
		return ""
	}
	return p.URL(p.CurrentPage - 1)
}

// FirstItem is the 1-based position of the first item on this page, 0 when the page is empty.
func (p *Paginator[T]) FirstItem() int64 {
	first := int64((p.CurrentPage-1)*p.PerPage) + 1
	if first > p.Total {
		return 0
	}
	return first
}

func (p *Paginator[T]) LastItem() int64 {
	if p.FirstItem() == 0 {
		return 0
	}
	last := int64(p.CurrentPage * p.PerPage)
	if last > p.Total {
		return p.Total
	}
	return last
}

// PageNumbers returns the page window of onEachSide pages around the current page.
// A current page past the end is treated as the last page.
func (p *Paginator[T]) PageNumbers(onEachSide int) []int {
	if onEachSide < 0 {
		onEachSide = 0
	}
	current := min(p.CurrentPage, p.LastPage)

	start := max(current-onEachSide, 1)
	end := min(current+onEachSide, p.LastPage)

	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
