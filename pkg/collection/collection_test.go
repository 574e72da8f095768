package collection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/canteen/pkg/collection"
)

type line struct {
	order uint
	qty   int
	cost  int64
}

var lines = []line{{1, 2, 20}, {2, 1, 45}, {1, 1, 10}}

func TestMapNeverNil(t *testing.T) {
	assert.Equal(t, []int{}, collection.Map([]line(nil), func(l line) int { return l.qty }))
	assert.Equal(t, []uint{1, 2, 1}, collection.Map(lines, func(l line) uint { return l.order }))
}

func TestFilter(t *testing.T) {
	got := collection.Filter(lines, func(l line) bool { return l.order == 1 })
	assert.Equal(t, []line{{1, 2, 20}, {1, 1, 10}}, got)
	assert.Nil(t, collection.Filter(lines, func(line) bool { return false }))
}

func TestGroupByKeepsOrder(t *testing.T) {
	g := collection.GroupBy(lines, func(l line) uint { return l.order })
	assert.Len(t, g, 2)
	assert.Equal(t, []line{{1, 2, 20}, {1, 1, 10}}, g[1])
}

func TestSum(t *testing.T) {
	assert.Equal(t, 4, collection.Sum(lines, func(l line) int { return l.qty }))
	assert.Equal(t, int64(95), collection.Sum(lines, func(l line) int64 { return int64(l.qty) * l.cost }))
}
