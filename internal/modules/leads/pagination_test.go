package leads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func numbers(items []PageItem) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		if it.Ellipsis {
			out = append(out, 0)
			continue
		}
		out = append(out, it.Number)
	}
	return out
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 3, TotalPages(12, 5))
}

func TestPageItems(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"few pages", 2, 5, []int{1, 2, 3, 4, 5}},
		{"start", 1, 10, []int{1, 2, 3, 4, 0, 10}},
		{"near start", 3, 10, []int{1, 2, 3, 4, 0, 10}},
		{"middle", 5, 10, []int{1, 0, 4, 5, 6, 0, 10}},
		{"near end", 8, 10, []int{1, 0, 7, 8, 9, 10}},
		{"end", 10, 10, []int{1, 0, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numbers(pageItems(tt.current, tt.total)))
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 5, 12)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 6, p.Start)
	assert.Equal(t, 10, p.End)
	assert.True(t, p.CanPrev)
	assert.True(t, p.CanNext)
	assert.True(t, p.Items[1].Current)

	p = NewPagination(3, 5, 12)
	assert.Equal(t, 11, p.Start)
	assert.Equal(t, 12, p.End)
	assert.False(t, p.CanNext)
	assert.False(t, p.CanLast)

	p = NewPagination(1, 20, 0)
	assert.Equal(t, 0, p.Start)
	assert.Equal(t, 0, p.End)
	assert.Equal(t, 1, p.TotalPages)
	assert.False(t, p.CanFirst)
	assert.False(t, p.CanNext)
}
