package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewParamsClamps(t *testing.T) {
	p := NewParams(0, 1000)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)

	p = NewParams(3, 0)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 40, p.Offset)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	res := Paginate(items, NewParams(2, 2))
	assert.Equal(t, []int{3, 4}, res.Data)
	assert.Equal(t, int64(5), res.Meta.Total)
	assert.Equal(t, 3, res.Meta.TotalPages)
	assert.True(t, res.Meta.HasNext)
	assert.True(t, res.Meta.HasPrev)

	res = Paginate(items, NewParams(9, 2))
	assert.Equal(t, []int{}, res.Data)
	assert.False(t, res.Meta.HasNext)
}
