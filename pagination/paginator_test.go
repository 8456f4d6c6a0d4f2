package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name            string
		perPage, page   int
		wantPer, wantPg int
	}{
		{"defaults", 0, 0, DefaultPerPage, 1},
		{"negative", -5, -1, DefaultPerPage, 1},
		{"capped", 500, 3, MaxPerPage, 3},
		{"kept", 10, 2, 10, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			per, pg := Normalize(tt.perPage, tt.page)
			assert.Equal(t, tt.wantPer, per)
			assert.Equal(t, tt.wantPg, pg)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(15, 1))
	assert.Equal(t, 30, Offset(15, 3))
	assert.Equal(t, 0, Offset(15, 0))
}

func TestPaginator_LastPage(t *testing.T) {
	assert.Equal(t, 1, New([]int{}, 0, 15, 1).LastPage)
	assert.Equal(t, 1, New([]int{1}, 15, 15, 1).LastPage)
	assert.Equal(t, 2, New([]int{1}, 16, 15, 1).LastPage)
	assert.Equal(t, 7, New([]int{1}, 61, 10, 1).LastPage)
}

func TestPaginator_URLClampsAndKeepsQuery(t *testing.T) {
	p := New([]string{"a"}, 45, 15, 2).WithPath("/posts", url.Values{"per_page": {"15"}, "page": {"2"}})

	assert.Equal(t, "/posts?page=1&per_page=15", p.URL(0))
	assert.Equal(t, "/posts?page=3&per_page=15", p.URL(3))
	assert.Equal(t, "/posts?page=3&per_page=15", p.URL(99))
}

func TestPaginator_Navigation(t *testing.T) {
	p := New([]int{1, 2}, 45, 15, 2).WithPath("/users", nil)

	assert.True(t, p.HasPages())
	assert.True(t, p.HasMorePages())
	assert.True(t, p.HasPreviousPages())
	assert.Equal(t, "/users?page=3", p.NextPageURL())
	assert.Equal(t, "/users?page=1", p.PreviousPageURL())

	first := New([]int{1}, 10, 15, 1)
	assert.False(t, first.HasPages())
	assert.True(t, first.OnFirstPage())
	assert.True(t, first.OnLastPage())
	assert.Empty(t, first.NextPageURL())
	assert.Empty(t, first.PreviousPageURL())
}

func TestPaginator_ItemRange(t *testing.T) {
	p := New([]int{1}, 32, 15, 3)
	assert.Equal(t, int64(31), p.FirstItem())
	assert.Equal(t, int64(32), p.LastItem())

	empty := New[int](nil, 0, 15, 1)
	assert.Equal(t, int64(0), empty.FirstItem())
	assert.Equal(t, int64(0), empty.LastItem())
	assert.NotNil(t, empty.Items)
}

func TestPaginator_PageNumbers(t *testing.T) {
	p := New([]int{1}, 100, 10, 5)
	assert.Equal(t, []int{3, 4, 5, 6, 7}, p.PageNumbers(2))
	assert.Equal(t, []int{5}, p.PageNumbers(0))

	start := New([]int{1}, 100, 10, 1)
	assert.Equal(t, []int{1, 2, 3}, start.PageNumbers(2))

	end := New([]int{1}, 100, 10, 10)
	assert.Equal(t, []int{8, 9, 10}, end.PageNumbers(2))

	past := New([]int{}, 20, 15, 9)
	assert.Equal(t, []int{1, 2}, past.PageNumbers(2))
	assert.Equal(t, []int{2}, past.PageNumbers(0))
}

func TestPaginator_PastLastPage(t *testing.T) {
	p := New([]int{}, 20, 15, 9).WithPath("/posts", nil)

	assert.Equal(t, int64(0), p.FirstItem())
	assert.Equal(t, int64(0), p.LastItem())
	assert.False(t, p.HasMorePages())
	assert.True(t, p.OnLastPage())
	assert.Equal(t, "/posts?page=2", p.PreviousPageURL())
}
